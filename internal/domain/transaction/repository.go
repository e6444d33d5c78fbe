package transaction

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, txn *Transaction) error
	GetByID(ctx context.Context, id string) (*Transaction, error)
	List(ctx context.Context, filter ListFilter) ([]Transaction, error)
	// ListInRange returns every transaction of direction and category dated
	// in [from, to).
	ListInRange(ctx context.Context, direction Direction, category Category, from, to time.Time) ([]Transaction, error)
}

// ReportInvalidator drops cached reports derived from collected amounts.
type ReportInvalidator interface {
	Invalidate(ctx context.Context)
}
