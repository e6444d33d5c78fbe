package actionlog

import (
	"context"
	"time"
)

// Repository persists action logs. Create reports storage-level uniqueness
// violations as ErrDuplicateRequestID (request_id) or ErrAlreadyRunThisMonth
// (run_period).
type Repository interface {
	Create(ctx context.Context, log *ActionLog) error
	GetByID(ctx context.Context, id string) (*ActionLog, error)
	GetByRequestID(ctx context.Context, requestID string) (*ActionLog, error)
	// FinalizePending applies f only when the row is still PENDING and
	// reports whether it did.
	FinalizePending(ctx context.Context, id string, f Finalization) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]ActionLog, int64, error)
	// CountLive counts PENDING or SUCCESS logs of actionType created in
	// [from, to) that still hold a run_period.
	CountLive(ctx context.Context, actionType ActionType, from, to time.Time) (int64, error)
}
