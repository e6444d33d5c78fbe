package family

import (
	"context"

	"family-dues-go/internal/domain/access"
	"github.com/shopspring/decimal"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	// List and GetByID take a role filter; its keys are resolved against
	// families (rama_id, family_id) or their members (id).
	List(ctx context.Context, scope access.Filter) ([]Family, error)
	GetByID(ctx context.Context, id string, scope access.Filter) (*Family, error)
	ListWithMembers(ctx context.Context) ([]Family, error)
	Create(ctx context.Context, family *Family) error
	Update(ctx context.Context, family *Family) error
	Delete(ctx context.Context, id string) error
	DetachUsers(ctx context.Context, familyID string) error

	CreateBalance(ctx context.Context, balance *Balance) error
	GetBalance(ctx context.Context, id string) (*Balance, error)
	GetBalanceByFamily(ctx context.Context, familyID string) (*Balance, error)
	UpdateBalance(ctx context.Context, balance *Balance) error
	DeleteBalanceByFamily(ctx context.Context, familyID string) error
	// AdjustBalance adds delta to the account column in a single statement.
	AdjustBalance(ctx context.Context, familyID string, account Account, delta decimal.Decimal) error
}

// ReportInvalidator drops cached reports derived from family data.
type ReportInvalidator interface {
	Invalidate(ctx context.Context)
}
