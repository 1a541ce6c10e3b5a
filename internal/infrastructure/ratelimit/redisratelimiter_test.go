package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLimiter(t *testing.T) (*RedisLimiter, *time.Time) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	l := NewRedisLimiter(client)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestRedisLimiter_PerMinute(t *testing.T) {
	l, now := setupLimiter(t)
	ctx := context.Background()
	policy := Policy{PerMinute: 3}

	for i := 0; i < 3; i++ {
		allowed, err := l.Allow(ctx, "card:1", policy)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}
	allowed, err := l.Allow(ctx, "card:1", policy)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = l.Allow(ctx, "card:2", policy)
	require.NoError(t, err)
	assert.True(t, allowed, "keys are independent")

	*now = now.Add(61 * time.Second)
	allowed, err = l.Allow(ctx, "card:1", policy)
	require.NoError(t, err)
	assert.True(t, allowed, "window slides")
}

func TestRedisLimiter_StrictestWindowWins(t *testing.T) {
	l, now := setupLimiter(t)
	ctx := context.Background()
	policy := Policy{PerMinute: 10, PerHour: 2}

	for i := 0; i < 2; i++ {
		allowed, err := l.Allow(ctx, "login:10.0.0.1", policy)
		require.NoError(t, err)
		assert.True(t, allowed)
		*now = now.Add(2 * time.Minute)
	}
	allowed, err := l.Allow(ctx, "login:10.0.0.1", policy)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestRedisLimiter_CountAndReset(t *testing.T) {
	l, _ := setupLimiter(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := l.Allow(ctx, "card:7", Policy{PerMinute: 100, PerHour: 100})
		require.NoError(t, err)
	}

	n, err := l.Count(ctx, "card:7", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	require.NoError(t, l.Reset(ctx, "card:7"))
	n, err = l.Count(ctx, "card:7", time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPolicy_Enabled(t *testing.T) {
	assert.False(t, Policy{}.Enabled())
	assert.True(t, Policy{PerDay: 1}.Enabled())
}
