package stats

import (
	"context"
	"time"

	"family-dues-go/internal/domain/cuota"
	"family-dues-go/internal/domain/family"
	"family-dues-go/internal/domain/rama"
	"family-dues-go/internal/domain/transaction"
)

type RamaSource interface {
	List(ctx context.Context) ([]rama.Rama, error)
}

type CuotaSource interface {
	Active(ctx context.Context) (*cuota.Cuota, error)
	ListOverrides(ctx context.Context) ([]cuota.SiblingOverride, error)
}

type FamilySource interface {
	ListForBilling(ctx context.Context) ([]family.Family, error)
}

type TransactionSource interface {
	ListInRange(ctx context.Context, direction transaction.Direction, category transaction.Category, from, to time.Time) ([]transaction.Transaction, error)
}

// Cache stores finished reports under a key. Bump moves the cache to a new
// version and discards every stored report; Set keeps a report only when the
// version it was loaded at is still current.
type Cache interface {
	Version(ctx context.Context) (int64, error)
	Get(ctx context.Context, key string) ([]BranchRate, bool)
	Set(ctx context.Context, key string, version int64, rates []BranchRate)
	Bump(ctx context.Context)
}

type noopCache struct{}

func (noopCache) Version(context.Context) (int64, error) {
	return 0, nil
}

func (noopCache) Get(context.Context, string) ([]BranchRate, bool) {
	return nil, false
}

func (noopCache) Set(context.Context, string, int64, []BranchRate) {}

func (noopCache) Bump(context.Context) {}

// Invalidator bumps the report cache for writers that are themselves inputs
// of the Service and so cannot hold a reference to it.
type Invalidator struct {
	cache Cache
}

func NewInvalidator(cache Cache) Invalidator {
	if cache == nil {
		cache = noopCache{}
	}
	return Invalidator{cache: cache}
}

func (i Invalidator) Invalidate(ctx context.Context) {
	i.cache.Bump(ctx)
}
