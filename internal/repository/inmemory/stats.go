package inmemory

import (
	"context"
	"sync"
	"time"

	statsdomain "family-dues-go/internal/domain/stats"
)

// StatsCache keeps finished reports in process memory until they expire or
// the cache is bumped. version counts bumps.
type StatsCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	version int64
	items   map[string]statsItem
	now     func() time.Time
}

type statsItem struct {
	value     []statsdomain.BranchRate
	expiresAt time.Time
}

func NewStatsCache(ttl time.Duration) *StatsCache {
	return &StatsCache{
		ttl:   ttl,
		items: make(map[string]statsItem),
		now:   time.Now,
	}
}

func (c *StatsCache) Version(context.Context) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version, nil
}

func (c *StatsCache) Get(_ context.Context, key string) ([]statsdomain.BranchRate, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[key]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return cloneRates(item.value), true
}

// Set drops rates loaded at an older version.
func (c *StatsCache) Set(_ context.Context, key string, version int64, rates []statsdomain.BranchRate) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if version != c.version {
		return
	}
	c.items[key] = statsItem{
		value:     cloneRates(rates),
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *StatsCache) Bump(context.Context) {
	c.mu.Lock()
	c.version++
	c.items = make(map[string]statsItem)
	c.mu.Unlock()
}

func cloneRates(rates []statsdomain.BranchRate) []statsdomain.BranchRate {
	if rates == nil {
		return nil
	}
	cloned := make([]statsdomain.BranchRate, len(rates))
	copy(cloned, rates)
	return cloned
}
