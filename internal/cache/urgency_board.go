package cache

import (
	"context"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"

	"surakshaconnect/internal/model"
)

// UrgencyBoard ranks actionable requests by urgency score. Ties are
// broken by request id, descending, matching Redis ZREVRANGE.
type UrgencyBoard interface {
	Add(ctx context.Context, requestID string, urgency int) error
	Remove(ctx context.Context, requestID string) error
	Top(ctx context.Context, limit int) ([]model.UrgentEntry, error)
	// Reset replaces the whole board with the given request id -> urgency scores
	Reset(ctx context.Context, scores map[string]int) error
}

type redisUrgencyBoard struct {
	client *redis.Client
	key    string
}

// NewRedisUrgencyBoard creates an urgency board backed by a Redis sorted set
func NewRedisUrgencyBoard(client *redis.Client) UrgencyBoard {
	return &redisUrgencyBoard{
		client: client,
		key:    "triage:urgency",
	}
}

func (b *redisUrgencyBoard) Add(ctx context.Context, requestID string, urgency int) error {
	return b.client.ZAdd(ctx, b.key, redis.Z{
		Score:  float64(urgency),
		Member: requestID,
	}).Err()
}

func (b *redisUrgencyBoard) Remove(ctx context.Context, requestID string) error {
	return b.client.ZRem(ctx, b.key, requestID).Err()
}

func (b *redisUrgencyBoard) Top(ctx context.Context, limit int) ([]model.UrgentEntry, error) {
	if limit <= 0 {
		return []model.UrgentEntry{}, nil
	}
	results, err := b.client.ZRevRangeWithScores(ctx, b.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.UrgentEntry, len(results))
	for i, z := range results {
		entries[i] = model.UrgentEntry{
			RequestID:    z.Member.(string),
			UrgencyScore: int(z.Score),
			Rank:         i + 1,
		}
	}
	return entries, nil
}

func (b *redisUrgencyBoard) Reset(ctx context.Context, scores map[string]int) error {
	members := make([]redis.Z, 0, len(scores))
	for id, urgency := range scores {
		members = append(members, redis.Z{Score: float64(urgency), Member: id})
	}

	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, b.key)
		if len(members) > 0 {
			pipe.ZAdd(ctx, b.key, members...)
		}
		return nil
	})
	return err
}

type memoryUrgencyBoard struct {
	mu     sync.Mutex
	scores map[string]int
}

// NewMemoryUrgencyBoard creates a process-local urgency board
func NewMemoryUrgencyBoard() UrgencyBoard {
	return &memoryUrgencyBoard{scores: make(map[string]int)}
}

func (b *memoryUrgencyBoard) Add(ctx context.Context, requestID string, urgency int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scores[requestID] = urgency
	return nil
}

func (b *memoryUrgencyBoard) Remove(ctx context.Context, requestID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.scores, requestID)
	return nil
}

func (b *memoryUrgencyBoard) Top(ctx context.Context, limit int) ([]model.UrgentEntry, error) {
	b.mu.Lock()
	entries := make([]model.UrgentEntry, 0, len(b.scores))
	for id, score := range b.scores {
		entries = append(entries, model.UrgentEntry{RequestID: id, UrgencyScore: score})
	}
	b.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].UrgencyScore != entries[j].UrgencyScore {
			return entries[i].UrgencyScore > entries[j].UrgencyScore
		}
		return entries[i].RequestID > entries[j].RequestID
	})

	if limit < 0 {
		limit = 0
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (b *memoryUrgencyBoard) Reset(ctx context.Context, scores map[string]int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scores = make(map[string]int, len(scores))
	for id, urgency := range scores {
		b.scores[id] = urgency
	}
	return nil
}
