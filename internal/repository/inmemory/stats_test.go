package inmemory

import (
	"context"
	"testing"
	"time"

	statsdomain "family-dues-go/internal/domain/stats"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRates() []statsdomain.BranchRate {
	return []statsdomain.BranchRate{{
		RamaID:         "r-1",
		Rama:           "Manada",
		TotalExpected:  decimal.NewFromInt(1000),
		TotalCollected: decimal.NewFromInt(500),
		CollectionRate: decimal.NewFromInt(50),
	}}
}

func TestStatsCacheExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cache := NewStatsCache(time.Minute)
	cache.now = func() time.Time { return now }

	cache.Set(ctx, "cobrabilidad:2026-03", 0, sampleRates())
	got, ok := cache.Get(ctx, "cobrabilidad:2026-03")
	require.True(t, ok)
	assert.Equal(t, "Manada", got[0].Rama)

	got[0].Rama = "mutated"
	again, _ := cache.Get(ctx, "cobrabilidad:2026-03")
	assert.Equal(t, "Manada", again[0].Rama)

	now = now.Add(2 * time.Minute)
	_, ok = cache.Get(ctx, "cobrabilidad:2026-03")
	assert.False(t, ok)
}

func TestStatsCacheBumpDropsEverything(t *testing.T) {
	ctx := context.Background()
	cache := NewStatsCache(time.Hour)

	cache.Set(ctx, "a", 0, sampleRates())
	cache.Set(ctx, "b", 0, sampleRates())
	cache.Bump(ctx)

	_, ok := cache.Get(ctx, "a")
	assert.False(t, ok)
	_, ok = cache.Get(ctx, "b")
	assert.False(t, ok)
}

func TestStatsCacheDisabledWithoutTTL(t *testing.T) {
	ctx := context.Background()
	cache := NewStatsCache(0)

	cache.Set(ctx, "a", 0, sampleRates())
	_, ok := cache.Get(ctx, "a")
	assert.False(t, ok)
}

func TestStatsCacheIgnoresReportsFromOlderVersion(t *testing.T) {
	ctx := context.Background()
	cache := NewStatsCache(time.Hour)

	loadedAt, err := cache.Version(ctx)
	require.NoError(t, err)
	cache.Bump(ctx)

	cache.Set(ctx, "a", loadedAt, sampleRates())
	_, ok := cache.Get(ctx, "a")
	assert.False(t, ok)

	current, err := cache.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, loadedAt+1, current)
	cache.Set(ctx, "a", current, sampleRates())
	_, ok = cache.Get(ctx, "a")
	assert.True(t, ok)
}
