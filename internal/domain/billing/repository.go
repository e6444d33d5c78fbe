package billing

import (
	"context"
	"time"

	"family-dues-go/internal/domain/access"
	"family-dues-go/internal/domain/actionlog"
	"family-dues-go/internal/domain/cuota"
	"family-dues-go/internal/domain/family"
	"github.com/shopspring/decimal"
)

type CuotaSource interface {
	Active(ctx context.Context) (*cuota.Cuota, error)
	ListOverrides(ctx context.Context) ([]cuota.SiblingOverride, error)
}

type FamilyStore interface {
	ListForBilling(ctx context.Context) ([]family.Family, error)
	AdjustBalance(ctx context.Context, familyID string, account family.Account, delta decimal.Decimal) error
}

type RunLog interface {
	StartMonthly(ctx context.Context, actionType actionlog.ActionType, actor access.Actor, now time.Time, extra actionlog.Extra) (*actionlog.ActionLog, error)
	AssertNotRunThisMonth(ctx context.Context, actionType actionlog.ActionType, now time.Time) error
	MarkSuccess(ctx context.Context, id string, message *string, extra actionlog.Metadata) (*actionlog.ActionLog, error)
	MarkSkipped(ctx context.Context, id string, message *string, extra actionlog.Metadata) (*actionlog.ActionLog, error)
	MarkError(ctx context.Context, id string, cause error) (*actionlog.ActionLog, error)
}

type ReportInvalidator interface {
	Invalidate(ctx context.Context)
}
