package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surakshaconnect/internal/model"
)

func newRequest(id string, status model.RequestStatus) *model.VerificationRequest {
	return &model.VerificationRequest{
		ID:              id,
		Content:         "content " + id,
		Status:          status,
		SimilarRequests: []string{},
	}
}

func TestMemoryRepoCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRequestRepo()

	require.NoError(t, repo.Create(ctx, newRequest("a", model.StatusPending)))

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "content a", got.Content)
	assert.Equal(t, int64(1), got.Seq)

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryRepoReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRequestRepo()
	req := newRequest("a", model.StatusPending)
	require.NoError(t, repo.Create(ctx, req))

	req.Status = model.StatusVerified
	got, _ := repo.GetByID(ctx, "a")
	assert.Equal(t, model.StatusPending, got.Status)

	got.Status = model.StatusFlagged
	again, _ := repo.GetByID(ctx, "a")
	assert.Equal(t, model.StatusPending, again.Status)
}

func TestMemoryRepoUpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRequestRepo()
	require.NoError(t, repo.Create(ctx, newRequest("a", model.StatusPending)))

	require.NoError(t, repo.UpdateStatus(ctx, "a", model.StatusPending, model.StatusVerified))
	got, _ := repo.GetByID(ctx, "a")
	assert.Equal(t, model.StatusVerified, got.Status)

	err := repo.UpdateStatus(ctx, "a", model.StatusPending, model.StatusFlagged)
	assert.ErrorIs(t, err, ErrStatusConflict)

	err = repo.UpdateStatus(ctx, "missing", model.StatusPending, model.StatusFlagged)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestMemoryRepoListOrderAndFilter(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRequestRepo()
	require.NoError(t, repo.Create(ctx, newRequest("a", model.StatusPending)))
	require.NoError(t, repo.Create(ctx, newRequest("b", model.StatusFlagged)))
	require.NoError(t, repo.Create(ctx, newRequest("c", model.StatusPending)))

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{all[0].ID, all[1].ID, all[2].ID})

	pending := model.StatusPending
	filtered, err := repo.List(ctx, &pending)
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, "a", filtered[0].ID)
	assert.Equal(t, "c", filtered[1].ID)
}

func TestMemoryRepoConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRequestRepo()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Create(ctx, newRequest(fmt.Sprintf("r%d", i), model.StatusPending))
		}(i)
	}
	wg.Wait()

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 50)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Seq, all[i].Seq)
	}
}
