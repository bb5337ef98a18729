package cache

import (
	"context"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"

	"surakshaconnect/internal/model"
)

const totalField = "total"

// StatsCache keeps per-status request counters for the dashboard tabs
type StatsCache interface {
	Record(ctx context.Context, status model.RequestStatus) error
	Move(ctx context.Context, from, to model.RequestStatus) error
	Counts(ctx context.Context) (model.StatusCounts, error)
	// Reset replaces every counter, used to rebuild from the request store
	Reset(ctx context.Context, counts model.StatusCounts) error
}

type redisStatsCache struct {
	client *redis.Client
	key    string
}

// NewRedisStatsCache creates a stats cache backed by a Redis hash
func NewRedisStatsCache(client *redis.Client) StatsCache {
	return &redisStatsCache{
		client: client,
		key:    "triage:stats",
	}
}

func (c *redisStatsCache) Record(ctx context.Context, status model.RequestStatus) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, c.key, string(status), 1)
		pipe.HIncrBy(ctx, c.key, totalField, 1)
		return nil
	})
	return err
}

func (c *redisStatsCache) Move(ctx context.Context, from, to model.RequestStatus) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HIncrBy(ctx, c.key, string(from), -1)
		pipe.HIncrBy(ctx, c.key, string(to), 1)
		return nil
	})
	return err
}

func (c *redisStatsCache) Counts(ctx context.Context) (model.StatusCounts, error) {
	fields, err := c.client.HGetAll(ctx, c.key).Result()
	if err != nil {
		return model.StatusCounts{}, err
	}

	get := func(name string) int64 {
		n, _ := strconv.ParseInt(fields[name], 10, 64)
		return n
	}
	return model.StatusCounts{
		Total:     get(totalField),
		Pending:   get(string(model.StatusPending)),
		Verified:  get(string(model.StatusVerified)),
		Flagged:   get(string(model.StatusFlagged)),
		Duplicate: get(string(model.StatusDuplicate)),
	}, nil
}

func (c *redisStatsCache) Reset(ctx context.Context, counts model.StatusCounts) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, c.key)
		pipe.HSet(ctx, c.key,
			totalField, counts.Total,
			string(model.StatusPending), counts.Pending,
			string(model.StatusVerified), counts.Verified,
			string(model.StatusFlagged), counts.Flagged,
			string(model.StatusDuplicate), counts.Duplicate,
		)
		return nil
	})
	return err
}

type memoryStatsCache struct {
	mu     sync.Mutex
	counts map[model.RequestStatus]int64
	total  int64
}

// NewMemoryStatsCache creates a process-local stats cache
func NewMemoryStatsCache() StatsCache {
	return &memoryStatsCache{counts: make(map[model.RequestStatus]int64)}
}

func (c *memoryStatsCache) Record(ctx context.Context, status model.RequestStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[status]++
	c.total++
	return nil
}

func (c *memoryStatsCache) Move(ctx context.Context, from, to model.RequestStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[from]--
	c.counts[to]++
	return nil
}

func (c *memoryStatsCache) Counts(ctx context.Context) (model.StatusCounts, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.StatusCounts{
		Total:     c.total,
		Pending:   c.counts[model.StatusPending],
		Verified:  c.counts[model.StatusVerified],
		Flagged:   c.counts[model.StatusFlagged],
		Duplicate: c.counts[model.StatusDuplicate],
	}, nil
}

func (c *memoryStatsCache) Reset(ctx context.Context, counts model.StatusCounts) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total = counts.Total
	c.counts = map[model.RequestStatus]int64{
		model.StatusPending:   counts.Pending,
		model.StatusVerified:  counts.Verified,
		model.StatusFlagged:   counts.Flagged,
		model.StatusDuplicate: counts.Duplicate,
	}
	return nil
}
