package ratelimit

import (
	"context"
	"time"
)

// Policy caps requests per window. A zero limit disables that window.
type Policy struct {
	PerMinute int
	PerHour   int
	PerDay    int
}

func (p Policy) Enabled() bool {
	return p.PerMinute > 0 || p.PerHour > 0 || p.PerDay > 0
}

type Limiter interface {
	Allow(ctx context.Context, key string, policy Policy) (bool, error)
	Count(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}
