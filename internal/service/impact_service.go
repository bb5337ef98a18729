package service

import (
	"sync"
	"time"

	"surakshaconnect/internal/config"
	"surakshaconnect/internal/model"
)

const (
	impactWindow = 10 * time.Second
	impactDrift  = 7
)

// ImpactTracker owns the public impact counter. One tracker per process.
type ImpactTracker struct {
	mu       sync.RWMutex
	baseline config.ImpactBaseline
	now      func() time.Time
}

// NewImpactTracker creates a tracker. A nil clock uses time.Now.
func NewImpactTracker(baseline config.ImpactBaseline, now func() time.Time) *ImpactTracker {
	if now == nil {
		now = time.Now
	}
	return &ImpactTracker{baseline: baseline, now: now}
}

// Snapshot returns the counter for the current 10 second window. Lives saved
// drift by floor((unixMillis/10000) % 7) above the baseline.
func (t *ImpactTracker) Snapshot() model.ImpactSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	now := t.now()
	window := now.UnixMilli() / impactWindow.Milliseconds()
	drift := int(window % impactDrift)

	return model.ImpactSnapshot{
		LivesSaved:        t.baseline.LivesSaved + drift,
		PeopleHelped:      t.baseline.PeopleHelped,
		ActiveVolunteers:  t.baseline.ActiveVolunteers,
		CommunitiesServed: t.baseline.CommunitiesServed,
		LastUpdated:       time.UnixMilli(window * impactWindow.Milliseconds()).UTC(),
	}
}

// Reset replaces the baseline
func (t *ImpactTracker) Reset(baseline config.ImpactBaseline) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.baseline = baseline
}
