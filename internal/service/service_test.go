package service

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"surakshaconnect/internal/cache"
	"surakshaconnect/internal/metrics"
	"surakshaconnect/internal/model"
	"surakshaconnect/internal/repository"
	"surakshaconnect/internal/triage"
)

// fixedSource always returns v, capped to n-1.
type fixedSource struct{ v int }

func (s fixedSource) IntN(n int) int {
	if s.v >= n {
		return n - 1
	}
	return s.v
}

var (
	lowJitter  = fixedSource{v: 0}
	highJitter = fixedSource{v: 1 << 20}
)

type publishedEvent struct {
	Type    model.FeedEventType
	Payload interface{}
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (b *recordingBroadcaster) Publish(eventType model.FeedEventType, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, publishedEvent{Type: eventType, Payload: payload})
}

func (b *recordingBroadcaster) Events() []publishedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]publishedEvent(nil), b.events...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type verificationFixture struct {
	svc   *VerificationService
	repo  repository.RequestRepo
	stats cache.StatsCache
	board cache.UrgencyBoard
	feed  *recordingBroadcaster
}

func newVerificationFixture(t *testing.T, src triage.Source) *verificationFixture {
	t.Helper()
	f := &verificationFixture{
		repo:  repository.NewMemoryRequestRepo(),
		stats: cache.NewMemoryStatsCache(),
		board: cache.NewMemoryUrgencyBoard(),
		feed:  &recordingBroadcaster{},
	}
	f.svc = NewVerificationService(
		f.repo,
		f.stats,
		f.board,
		triage.NewScorer(src),
		metrics.New(),
		discardLogger(),
	)
	f.svc.SetBroadcaster(f.feed)
	return f
}
