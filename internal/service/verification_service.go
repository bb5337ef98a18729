package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"surakshaconnect/internal/cache"
	"surakshaconnect/internal/metrics"
	"surakshaconnect/internal/model"
	"surakshaconnect/internal/repository"
	"surakshaconnect/internal/triage"
)

var (
	ErrContentRequired   = errors.New("content is required")
	ErrRequestNotFound   = repository.ErrRequestNotFound
	ErrInvalidStatus     = errors.New("unknown request status")
	ErrInvalidTransition = errors.New("only pending requests can change status, and never back to pending")
)

// QueryOrder selects the ordering of Query results
type QueryOrder string

const (
	OrderInserted QueryOrder = "inserted"
	OrderUrgency  QueryOrder = "urgency"
)

// VerificationService runs the triage workflow over the request store
type VerificationService struct {
	repo        repository.RequestRepo
	stats       cache.StatsCache
	board       cache.UrgencyBoard
	scorer      *triage.Scorer
	metrics     *metrics.Metrics
	broadcaster Broadcaster
	logger      *slog.Logger
	now         func() time.Time
}

// NewVerificationService creates a new verification service
func NewVerificationService(
	repo repository.RequestRepo,
	stats cache.StatsCache,
	board cache.UrgencyBoard,
	scorer *triage.Scorer,
	m *metrics.Metrics,
	logger *slog.Logger,
) *VerificationService {
	return &VerificationService{
		repo:        repo,
		stats:       stats,
		board:       board,
		scorer:      scorer,
		metrics:     m,
		broadcaster: noopBroadcaster{},
		logger:      logger,
		now:         time.Now,
	}
}

// SetBroadcaster injects the live feed publisher
func (s *VerificationService) SetBroadcaster(b Broadcaster) {
	if b == nil {
		b = noopBroadcaster{}
	}
	s.broadcaster = b
}

// Verify scores content against the supplied existing requests without
// storing anything. Input is not validated.
func (s *VerificationService) Verify(ctx context.Context, content, location string, existing []model.ExistingRequest) model.VerificationResult {
	return s.evaluate(content, location, existing)
}

// Submit scores, classifies and stores a new request
func (s *VerificationService) Submit(ctx context.Context, content, location string) (*model.VerificationRequest, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrContentRequired
	}

	stored, err := s.repo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	existing := make([]model.ExistingRequest, len(stored))
	for i, r := range stored {
		existing[i] = model.ExistingRequest{ID: r.ID, Content: r.Content, Location: r.Location}
	}

	result := s.evaluate(content, location, existing)
	req := &model.VerificationRequest{
		ID:              uuid.NewString(),
		Content:         content,
		Location:        location,
		Timestamp:       s.now().UTC(),
		UrgencyScore:    result.UrgencyScore,
		DuplicateScore:  result.DuplicateScore,
		SpamScore:       result.SpamScore,
		Confidence:      result.Confidence,
		Status:          result.Status,
		SimilarRequests: result.SimilarRequests,
		AIAnalysis:      result.AIAnalysis,
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to store request: %w", err)
	}

	if err := s.stats.Record(ctx, req.Status); err != nil {
		s.logger.Warn("failed to record stats", "request_id", req.ID, "error", err)
	}
	if onBoard(req.Status) {
		if err := s.board.Add(ctx, req.ID, req.UrgencyScore); err != nil {
			s.logger.Warn("failed to rank request", "request_id", req.ID, "error", err)
		}
	}
	s.metrics.RequestsSubmitted.WithLabelValues(string(req.Status)).Inc()

	s.logger.Info("request submitted",
		"request_id", req.ID,
		"status", req.Status,
		"urgency", req.UrgencyScore,
		"spam", req.SpamScore,
		"duplicate", req.DuplicateScore,
	)
	s.broadcaster.Publish(model.EventRequestSubmitted, req)

	return req, nil
}

// SetStatus applies an operator decision to a pending request
func (s *VerificationService) SetStatus(ctx context.Context, id string, to model.RequestStatus, operator string) (*model.VerificationRequest, error) {
	if !to.Valid() {
		return nil, ErrInvalidStatus
	}
	if to == model.StatusPending {
		return nil, ErrInvalidTransition
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	if req.Status != model.StatusPending {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, id, model.StatusPending, to); err != nil {
		switch {
		case errors.Is(err, repository.ErrStatusConflict):
			return nil, ErrInvalidTransition
		case errors.Is(err, repository.ErrRequestNotFound):
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	from := req.Status
	req.Status = to

	if err := s.stats.Move(ctx, from, to); err != nil {
		s.logger.Warn("failed to move stats", "request_id", id, "error", err)
	}
	if !onBoard(to) {
		if err := s.board.Remove(ctx, id); err != nil {
			s.logger.Warn("failed to unrank request", "request_id", id, "error", err)
		}
	}
	s.metrics.StatusChanges.WithLabelValues(string(to)).Inc()

	s.logger.Info("request status changed", "request_id", id, "from", from, "to", to, "operator", operator)
	s.broadcaster.Publish(model.EventRequestStatusChanged, model.StatusChange{
		RequestID: id,
		From:      from,
		To:        to,
		Operator:  operator,
	})

	return req, nil
}

// Get returns a single request, nil when absent
func (s *VerificationService) Get(ctx context.Context, id string) (*model.VerificationRequest, error) {
	return s.repo.GetByID(ctx, id)
}

// Query lists requests, optionally filtered by status
func (s *VerificationService) Query(ctx context.Context, status *model.RequestStatus, order QueryOrder) ([]model.VerificationRequest, error) {
	if status != nil && !status.Valid() {
		return nil, ErrInvalidStatus
	}

	requests, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	if order == OrderUrgency {
		sort.SliceStable(requests, func(i, j int) bool {
			return requests[i].UrgencyScore > requests[j].UrgencyScore
		})
	}
	return requests, nil
}

// RebuildCaches recomputes the stats counters and urgency board from the
// request store, which stays the source of truth across restarts
func (s *VerificationService) RebuildCaches(ctx context.Context) error {
	requests, err := s.repo.List(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to list requests: %w", err)
	}

	var counts model.StatusCounts
	scores := make(map[string]int)
	for _, r := range requests {
		counts.Total++
		switch r.Status {
		case model.StatusPending:
			counts.Pending++
		case model.StatusVerified:
			counts.Verified++
		case model.StatusFlagged:
			counts.Flagged++
		case model.StatusDuplicate:
			counts.Duplicate++
		}
		if onBoard(r.Status) {
			scores[r.ID] = r.UrgencyScore
		}
	}

	if err := s.stats.Reset(ctx, counts); err != nil {
		return fmt.Errorf("failed to rebuild stats: %w", err)
	}
	if err := s.board.Reset(ctx, scores); err != nil {
		return fmt.Errorf("failed to rebuild urgency board: %w", err)
	}

	s.logger.Info("dashboard caches rebuilt", "requests", counts.Total, "ranked", len(scores))
	return nil
}

// Stats returns the per-status counters
func (s *VerificationService) Stats(ctx context.Context) (model.StatusCounts, error) {
	return s.stats.Counts(ctx)
}

// TopUrgent returns the highest urgency requests that are still actionable
func (s *VerificationService) TopUrgent(ctx context.Context, limit int) ([]model.UrgentEntry, error) {
	return s.board.Top(ctx, limit)
}

func (s *VerificationService) evaluate(content, location string, existing []model.ExistingRequest) model.VerificationResult {
	scores := s.scorer.Score(content)
	status := triage.Classify(scores)
	similar := similarByLocation(location, existing)

	return model.VerificationResult{
		UrgencyScore:    scores.Urgency,
		DuplicateScore:  scores.Duplicate,
		SpamScore:       scores.Spam,
		Confidence:      s.scorer.Confidence(),
		Status:          status,
		SimilarRequests: similar,
		AIAnalysis:      triage.Analyze(scores, status, len(similar)),
	}
}

// similarByLocation lists ids of requests reported from the same place.
// It does not affect the duplicate score.
func similarByLocation(location string, existing []model.ExistingRequest) []string {
	similar := make([]string, 0)
	loc := normalizeLocation(location)
	if loc == "" {
		return similar
	}

	seen := make(map[string]bool)
	for _, e := range existing {
		if e.ID == "" || seen[e.ID] {
			continue
		}
		if normalizeLocation(e.Location) == loc {
			seen[e.ID] = true
			similar = append(similar, e.ID)
		}
	}
	return similar
}

func normalizeLocation(location string) string {
	return strings.ToLower(strings.Join(strings.Fields(location), " "))
}

// Flagged and duplicate requests leave the urgency board.
func onBoard(status model.RequestStatus) bool {
	return status == model.StatusPending || status == model.StatusVerified
}
