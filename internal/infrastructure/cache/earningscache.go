package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
)

const (
	earningsKeyPrefix     = "earnings:"
	earningsGenerationKey = "earnings:generation"

	// DefaultEarningsTTL bounds how stale a cached total can get when a
	// write path forgets to invalidate.
	DefaultEarningsTTL = 10 * time.Minute
)

// EarningsCache caches earnings totals in Redis, keyed by a hash of the
// query arguments. Invalidation bumps a generation counter so every key
// written before it stops being read.
type EarningsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewEarningsCache(client *redis.Client, ttl time.Duration) *EarningsCache {
	if ttl <= 0 {
		ttl = DefaultEarningsTTL
	}
	return &EarningsCache{client: client, ttl: ttl}
}

func (c *EarningsCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, earningsGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read earnings generation: %w", err)
	}
	return gen, nil
}

// Format: earnings:{generation}:{xxhash(args)}
func (c *EarningsCache) buildKey(gen int64, args string) string {
	return earningsKeyPrefix + strconv.FormatInt(gen, 10) + ":" + strconv.FormatUint(xxhash.Sum64String(args), 16)
}

func (c *EarningsCache) Get(ctx context.Context, args string) (int64, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return 0, false, err
	}

	total, err := c.client.Get(ctx, c.buildKey(gen, args)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read earnings: %w", err)
	}
	return total, true, nil
}

func (c *EarningsCache) Set(ctx context.Context, args string, total int64) error {
	gen, err := c.generation(ctx)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.buildKey(gen, args), total, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write earnings: %w", err)
	}
	return nil
}

// Invalidate retires all cached totals. Old keys expire on their own.
func (c *EarningsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, earningsGenerationKey).Err(); err != nil {
		return fmt.Errorf("failed to bump earnings generation: %w", err)
	}
	return nil
}
