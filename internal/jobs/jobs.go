// Package jobs runs the periodic background work of the service.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"surakshaconnect/internal/model"
	"surakshaconnect/internal/service"
)

const statsTimeout = 5 * time.Second

// StatsSource provides the per-status counters
type StatsSource interface {
	Stats(ctx context.Context) (model.StatusCounts, error)
}

// ImpactSource provides the public impact counter
type ImpactSource interface {
	Snapshot() model.ImpactSnapshot
}

// Scheduler owns the cron runner
type Scheduler struct {
	cron        *cron.Cron
	stats       StatsSource
	impact      ImpactSource
	broadcaster service.Broadcaster
	logger      *slog.Logger
}

// NewScheduler creates a scheduler that pushes stats_update events on schedule
func NewScheduler(schedule string, stats StatsSource, impact ImpactSource, b service.Broadcaster, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:        cron.New(),
		stats:       stats,
		impact:      impact,
		broadcaster: b,
		logger:      logger,
	}

	if _, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
		defer cancel()
		if err := s.BroadcastStats(ctx); err != nil {
			s.logger.Warn("stats broadcast failed", "error", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule stats broadcast %q: %w", schedule, err)
	}

	return s, nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.logger.Info("starting cron jobs", "entries", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running job to finish or ctx to end
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// BroadcastStats publishes one stats_update event
func (s *Scheduler) BroadcastStats(ctx context.Context) error {
	counts, err := s.stats.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	s.broadcaster.Publish(model.EventStatsUpdate, model.StatsUpdate{
		Counts: counts,
		Impact: s.impact.Snapshot(),
	})
	s.logger.Debug("stats broadcast", "total", counts.Total)
	return nil
}
