package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"surakshaconnect/internal/app"
	"surakshaconnect/internal/cache"
	"surakshaconnect/internal/config"
	"surakshaconnect/internal/metrics"
	"surakshaconnect/internal/repository"
	"surakshaconnect/internal/service"
	"surakshaconnect/internal/triage"
)

// Demo reports shown on a fresh dashboard
var demoRequests = []struct {
	content  string
	location string
}{
	{"Family trapped on the roof, water rising fast, two children", "Ward 12, Guwahati"},
	{"Building collapsed near the market, people unconscious under debris", "Sector 4, Bhuj"},
	{"Kitchen fire spreading to the next flat, smoke everywhere", "MG Road, Pune"},
	{"Need drinking water and food packets for 40 people at the school shelter", "Ward 12, Guwahati"},
	{"Elderly man with chest pain, roads blocked by landslide", "Kalimpong"},
	{"Win a free prize! Click this link to claim your money", "Online"},
	{"Road flooded, car stuck but everyone is safe", "Andheri East, Mumbai"},
}

func main() {
	cfg := config.Load()
	logger := cfg.NewLogger(os.Stdout)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := app.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		logger.Error("failed to connect", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())

	// The server rebuilds memory caches on start; Redis ones are written here
	stats, board := cache.NewMemoryStatsCache(), cache.NewMemoryUrgencyBoard()
	if cfg.UseRedis() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		stats, board = cache.NewRedisStatsCache(rdb), cache.NewRedisUrgencyBoard(rdb)
	}

	repo := repository.NewMongoRequestRepo(client.Database(cfg.MongoDB))
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewVerificationService(
		repo,
		stats,
		board,
		triage.NewScorer(nil),
		metrics.New(),
		quiet,
	)

	// Start from what is already stored so Redis counters cover the whole collection
	if err := svc.RebuildCaches(ctx); err != nil {
		logger.Error("failed to rebuild caches", "error", err)
		os.Exit(1)
	}

	for _, d := range demoRequests {
		req, err := svc.Submit(ctx, d.content, d.location)
		if err != nil {
			logger.Error("failed to seed request", "location", d.location, "error", err)
			os.Exit(1)
		}
		logger.Info("seeded request", "id", req.ID, "status", req.Status, "urgency", req.UrgencyScore)
	}

	logger.Info("seed complete", "database", cfg.MongoDB, "count", len(demoRequests))
}
