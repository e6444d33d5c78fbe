package cuota

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	List(ctx context.Context) ([]Cuota, error)
	GetByID(ctx context.Context, id string) (*Cuota, error)
	// GetActive returns ErrNoActiveCuota when no cuota is active.
	GetActive(ctx context.Context) (*Cuota, error)
	Create(ctx context.Context, cuota *Cuota) error
	Update(ctx context.Context, cuota *Cuota) error
	Delete(ctx context.Context, id string) error
	DeactivateAllExcept(ctx context.Context, id string) error

	ListOverrides(ctx context.Context) ([]SiblingOverride, error)
	GetOverride(ctx context.Context, id string) (*SiblingOverride, error)
	CreateOverride(ctx context.Context, override *SiblingOverride) error
	UpdateOverride(ctx context.Context, override *SiblingOverride) error
	DeleteOverride(ctx context.Context, id string) error
}

// ReportInvalidator drops cached reports that depend on dues values.
type ReportInvalidator interface {
	Invalidate(ctx context.Context)
}
