// Package hooks provides typed override chains: registered filters see the
// value computed so far and may replace it.
package hooks

import (
	"context"
	"sort"
	"sync"
)

// DefaultPriority is used by callers without an ordering preference.
const DefaultPriority = 10

// Filter receives the current value and the chain's argument and returns the
// value to pass on.
type Filter[T any, A any] func(ctx context.Context, value T, arg A) T

type entry[T any, A any] struct {
	priority int
	seq      int
	fn       Filter[T, A]
}

// Chain runs filters in ascending priority, then registration order. A nil
// *Chain returns values unchanged.
type Chain[T any, A any] struct {
	mu      sync.RWMutex
	entries []entry[T, A]
	seq     int
}

func NewChain[T any, A any]() *Chain[T, A] {
	return &Chain[T, A]{}
}

// Add registers fn. The entry slice is replaced, never mutated, so a
// concurrent Apply keeps iterating its own snapshot.
func (c *Chain[T, A]) Add(priority int, fn Filter[T, A]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	entries := make([]entry[T, A], len(c.entries), len(c.entries)+1)
	copy(entries, c.entries)
	entries = append(entries, entry[T, A]{priority: priority, seq: c.seq, fn: fn})
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority < entries[j].priority
		}
		return entries[i].seq < entries[j].seq
	})
	c.entries = entries
}

func (c *Chain[T, A]) Apply(ctx context.Context, value T, arg A) T {
	if c == nil {
		return value
	}
	c.mu.RLock()
	entries := c.entries
	c.mu.RUnlock()

	for _, e := range entries {
		value = e.fn(ctx, value, arg)
	}
	return value
}

func (c *Chain[T, A]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
