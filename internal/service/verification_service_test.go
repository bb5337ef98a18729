package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surakshaconnect/internal/cache"
	"surakshaconnect/internal/metrics"
	"surakshaconnect/internal/model"
	"surakshaconnect/internal/triage"
)

func TestSubmitRequiresContent(t *testing.T) {
	f := newVerificationFixture(t, lowJitter)

	_, err := f.svc.Submit(context.Background(), "   ", "Delhi")
	assert.ErrorIs(t, err, ErrContentRequired)
}

func TestSubmitVerifiesUrgentReport(t *testing.T) {
	ctx := context.Background()
	f := newVerificationFixture(t, highJitter)

	req, err := f.svc.Submit(ctx, "Building collapsed, trapped, bleeding", "Sector 5")
	require.NoError(t, err)

	assert.NotEmpty(t, req.ID)
	assert.False(t, req.Timestamp.IsZero())
	assert.Equal(t, 94, req.UrgencyScore)
	assert.Equal(t, 9, req.SpamScore)
	assert.Equal(t, 39, req.DuplicateScore)
	assert.Equal(t, 99, req.Confidence)
	assert.Equal(t, model.StatusVerified, req.Status)
	assert.Empty(t, req.SimilarRequests)
	assert.Contains(t, req.AIAnalysis, "Verified")

	counts, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Total)
	assert.Equal(t, int64(1), counts.Verified)

	top, err := f.svc.TopUrgent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, req.ID, top[0].RequestID)

	events := f.feed.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.EventRequestSubmitted, events[0].Type)
}

func TestSubmitLowJitterStaysPending(t *testing.T) {
	f := newVerificationFixture(t, lowJitter)

	req, err := f.svc.Submit(context.Background(), "Building collapsed, trapped, bleeding", "")
	require.NoError(t, err)

	assert.Equal(t, 65, req.UrgencyScore)
	assert.Equal(t, model.StatusPending, req.Status)
}

func TestSubmitSpamIsFlaggedAndUnranked(t *testing.T) {
	ctx := context.Background()
	f := newVerificationFixture(t, lowJitter)

	req, err := f.svc.Submit(ctx, "Free money! Click this link now!", "")
	require.NoError(t, err)
	assert.Equal(t, model.StatusFlagged, req.Status)

	top, err := f.svc.TopUrgent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestSubmitFindsSimilarByLocation(t *testing.T) {
	ctx := context.Background()
	f := newVerificationFixture(t, lowJitter)

	first, err := f.svc.Submit(ctx, "Water rising near the bridge", "Sector 5, Delhi")
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, "Road blocked", "Noida")
	require.NoError(t, err)

	second, err := f.svc.Submit(ctx, "Family stuck on roof", "  sector 5,   DELHI ")
	require.NoError(t, err)

	assert.Equal(t, []string{first.ID}, second.SimilarRequests)
	// similarity never changes the duplicate score
	assert.Equal(t, 10, second.DuplicateScore)
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()
	f := newVerificationFixture(t, lowJitter)

	req, err := f.svc.Submit(ctx, "Smoke from the school", "Ward 3")
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, req.Status)

	updated, err := f.svc.SetStatus(ctx, req.ID, model.StatusFlagged, "op_1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusFlagged, updated.Status)

	stored, err := f.svc.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFlagged, stored.Status)

	counts, _ := f.svc.Stats(ctx)
	assert.Equal(t, int64(0), counts.Pending)
	assert.Equal(t, int64(1), counts.Flagged)

	top, _ := f.svc.TopUrgent(ctx, 10)
	assert.Empty(t, top)

	events := f.feed.Events()
	require.Len(t, events, 2)
	assert.Equal(t, model.EventRequestStatusChanged, events[1].Type)
	assert.Equal(t, model.StatusChange{
		RequestID: req.ID,
		From:      model.StatusPending,
		To:        model.StatusFlagged,
		Operator:  "op_1",
	}, events[1].Payload)
}

func TestSetStatusIsOneWay(t *testing.T) {
	ctx := context.Background()
	f := newVerificationFixture(t, lowJitter)

	req, err := f.svc.Submit(ctx, "Tree fell on the road", "")
	require.NoError(t, err)

	_, err = f.svc.SetStatus(ctx, req.ID, model.StatusVerified, "")
	require.NoError(t, err)

	_, err = f.svc.SetStatus(ctx, req.ID, model.StatusFlagged, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.SetStatus(ctx, req.ID, model.StatusPending, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSetStatusErrors(t *testing.T) {
	ctx := context.Background()
	f := newVerificationFixture(t, lowJitter)

	_, err := f.svc.SetStatus(ctx, "missing", model.StatusVerified, "")
	assert.ErrorIs(t, err, ErrRequestNotFound)

	_, err = f.svc.SetStatus(ctx, "missing", model.RequestStatus("bogus"), "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestQueryOrders(t *testing.T) {
	ctx := context.Background()
	f := newVerificationFixture(t, lowJitter)

	contents := []string{"need help", "fire", "fire and people trapped", "flooded street"}
	ids := make([]string, len(contents))
	for i, c := range contents {
		req, err := f.svc.Submit(ctx, c, "")
		require.NoError(t, err)
		ids[i] = req.ID
	}

	inserted, err := f.svc.Query(ctx, nil, OrderInserted)
	require.NoError(t, err)
	require.Len(t, inserted, 4)
	for i, r := range inserted {
		assert.Equal(t, ids[i], r.ID)
	}

	byUrgency, err := f.svc.Query(ctx, nil, OrderUrgency)
	require.NoError(t, err)
	got := []string{byUrgency[0].ID, byUrgency[1].ID, byUrgency[2].ID, byUrgency[3].ID}
	// equal urgency keeps insertion order
	assert.Equal(t, []string{ids[2], ids[1], ids[0], ids[3]}, got)
}

func TestQueryFilter(t *testing.T) {
	ctx := context.Background()
	f := newVerificationFixture(t, lowJitter)

	_, err := f.svc.Submit(ctx, "Free prize, click the link", "")
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, "Bridge washed away", "")
	require.NoError(t, err)

	flagged := model.StatusFlagged
	res, err := f.svc.Query(ctx, &flagged, OrderInserted)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, model.StatusFlagged, res[0].Status)

	bogus := model.RequestStatus("bogus")
	_, err = f.svc.Query(ctx, &bogus, OrderInserted)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestVerifyIsStateless(t *testing.T) {
	ctx := context.Background()
	f := newVerificationFixture(t, highJitter)

	existing := []model.ExistingRequest{
		{ID: "r1", Content: "earlier", Location: "Howrah"},
		{ID: "r2", Content: "other", Location: "Kolkata"},
	}
	result := f.svc.Verify(ctx, "Person unconscious in the market", "howrah", existing)

	assert.Equal(t, []string{"r1"}, result.SimilarRequests)
	assert.Equal(t, 49+15, result.UrgencyScore)
	assert.Equal(t, model.StatusPending, result.Status)

	all, err := f.svc.Query(ctx, nil, OrderInserted)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, f.feed.Events())
}

func TestVerifyDoesNotValidate(t *testing.T) {
	f := newVerificationFixture(t, lowJitter)

	result := f.svc.Verify(context.Background(), "", "", nil)
	assert.Equal(t, model.StatusPending, result.Status)
	assert.NotNil(t, result.SimilarRequests)
}

func TestRebuildCachesAfterRestart(t *testing.T) {
	ctx := context.Background()
	f := newVerificationFixture(t, lowJitter)

	first, err := f.svc.Submit(ctx, "need drinking water", "Ward 1")
	require.NoError(t, err)
	second, err := f.svc.Submit(ctx, "fire, people trapped", "Ward 2")
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, "win a free prize, click the link", "Online")
	require.NoError(t, err)

	// Same store, empty caches: what a process restart looks like.
	stats := cache.NewMemoryStatsCache()
	board := cache.NewMemoryUrgencyBoard()
	restarted := NewVerificationService(f.repo, stats, board, triage.NewScorer(lowJitter), metrics.New(), discardLogger())
	require.NoError(t, restarted.RebuildCaches(ctx))

	_, err = restarted.SetStatus(ctx, first.ID, model.StatusVerified, "op_1")
	require.NoError(t, err)

	counts, err := restarted.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCounts{Total: 3, Pending: 1, Verified: 1, Flagged: 1}, counts)

	top, err := restarted.TopUrgent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, second.ID, top[0].RequestID)
	assert.Equal(t, first.ID, top[1].RequestID)
}
