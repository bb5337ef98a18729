// Package app wires configuration, storage, services and transport together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surakshaconnect/internal/cache"
	"surakshaconnect/internal/config"
	"surakshaconnect/internal/jobs"
	"surakshaconnect/internal/metrics"
	"surakshaconnect/internal/repository"
	"surakshaconnect/internal/service"
	"surakshaconnect/internal/transport/rest"
	"surakshaconnect/internal/transport/ws"
	"surakshaconnect/internal/triage"
)

const pingTimeout = 5 * time.Second

// App is the assembled service
type App struct {
	Handler      http.Handler
	Verification *service.VerificationService
	Hub          *ws.Hub
	Scheduler    *jobs.Scheduler

	mongoClient *mongo.Client
	redisClient *redis.Client
	logger      *slog.Logger
}

// New connects the configured backends and builds every component
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{logger: logger}

	repo, err := a.requestRepo(ctx, cfg)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	stats, board, err := a.caches(ctx, cfg)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	m := metrics.New()
	scorer := triage.NewScorer(nil)

	// Initialize WebSocket hub
	a.Hub = ws.NewHub(m, logger)

	// Initialize services
	authSvc := service.NewAuthService(cfg.Operator, cfg.JWTSecret)
	a.Verification = service.NewVerificationService(repo, stats, board, scorer, m, logger)
	intakeSvc := service.NewIntakeService(scorer, cfg.ProcessingDelay, m, logger)
	impact := service.NewImpactTracker(cfg.Impact, nil)
	teamSvc := service.NewTeamService(logger)

	// Caches may be empty (memory) or stale (Redis) relative to the store
	if err := a.Verification.RebuildCaches(ctx); err != nil {
		a.Close(ctx)
		return nil, err
	}

	// Inject broadcaster (hub implements service.Broadcaster)
	a.Verification.SetBroadcaster(a.Hub)
	teamSvc.SetBroadcaster(a.Hub)

	a.Scheduler, err = jobs.NewScheduler(cfg.StatsSchedule, a.Verification, impact, a.Hub, logger)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	a.Handler = rest.NewRouter(&rest.Container{
		AuthService:         authSvc,
		VerificationService: a.Verification,
		IntakeService:       intakeSvc,
		ImpactTracker:       impact,
		TeamService:         teamSvc,
		WSHub:               a.Hub,
		Metrics:             m,
		CORS:                cfg.CORS,
		Logger:              logger,
	})

	return a, nil
}

func (a *App) requestRepo(ctx context.Context, cfg *config.Config) (repository.RequestRepo, error) {
	if !cfg.UseMongo() {
		a.logger.Info("using in-memory request store")
		return repository.NewMemoryRequestRepo(), nil
	}

	client, err := ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	a.mongoClient = client
	a.logger.Info("connected to MongoDB", "database", cfg.MongoDB)
	return repository.NewMongoRequestRepo(client.Database(cfg.MongoDB)), nil
}

func (a *App) caches(ctx context.Context, cfg *config.Config) (cache.StatsCache, cache.UrgencyBoard, error) {
	if !cfg.UseRedis() {
		a.logger.Info("using in-memory dashboard caches")
		return cache.NewMemoryStatsCache(), cache.NewMemoryUrgencyBoard(), nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	a.redisClient = rdb
	a.logger.Info("connected to Redis", "addr", cfg.RedisAddr)
	return cache.NewRedisStatsCache(rdb), cache.NewRedisUrgencyBoard(rdb), nil
}

// ConnectMongo connects and pings MongoDB
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// Close releases the hub and backend connections
func (a *App) Close(ctx context.Context) {
	if a.Hub != nil {
		a.Hub.Close()
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close Redis client", "error", err)
		}
	}
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			a.logger.Warn("failed to disconnect MongoDB", "error", err)
		}
	}
}
