package family

import (
	"context"
	"strings"

	"family-dues-go/internal/domain/access"
	"family-dues-go/internal/domain/actionlog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	familiesTable = "families"
	balancesTable = "balances"
)

type Service struct {
	repo    Repository
	actions actionlog.Recorder
	reports ReportInvalidator
}

func NewService(repo Repository, actions actionlog.Recorder, reports ReportInvalidator) *Service {
	return &Service{repo: repo, actions: actions, reports: reports}
}

func (s *Service) List(ctx context.Context, session *access.SessionUser, base access.Filter) ([]Family, error) {
	scope, err := access.ApplyRoleFilter(session, base)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, scope)
}

func (s *Service) Get(ctx context.Context, session *access.SessionUser, id string) (*Family, error) {
	scope, err := access.ApplyRoleFilter(session, nil)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id, scope)
}

// GetByID looks a family up without role scoping, for internal callers.
func (s *Service) GetByID(ctx context.Context, id string) (*Family, error) {
	return s.repo.GetByID(ctx, id, nil)
}

// ListForBilling returns every family with its users and balance loaded.
func (s *Service) ListForBilling(ctx context.Context) ([]Family, error) {
	return s.repo.ListWithMembers(ctx)
}

func (s *Service) Create(ctx context.Context, input CreateInput, actor access.Actor) (*Family, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if input.CustomBalance.IsNegative() {
		return nil, ErrNegativeCustom
	}

	family := Family{
		ID:     uuid.NewString(),
		Name:   name,
		Phone:  input.Phone,
		RamaID: input.RamaID,
	}
	balance := Balance{
		ID:            uuid.NewString(),
		FamilyID:      family.ID,
		CuotaBalance:  decimal.Zero,
		CFABalance:    decimal.Zero,
		CustomBalance: input.CustomBalance,
		CustomCFA:     decimal.Zero,
		IsCustomCuota: input.IsCustomCuota,
	}

	table := familiesTable
	err := s.actions.Track(ctx, actionlog.ActionFamilyCreate, actor, actionlog.Extra{
		TargetTable: &table,
		TargetID:    &family.ID,
		FamilyID:    &family.ID,
	}, func(ctx context.Context) (actionlog.Metadata, error) {
		err := s.repo.Transaction(ctx, func(tx Repository) error {
			if err := tx.Create(ctx, &family); err != nil {
				return err
			}
			return tx.CreateBalance(ctx, &balance)
		})
		if err != nil {
			return nil, err
		}
		return actionlog.Metadata{"name": family.Name, "balanceId": balance.ID}, nil
	})
	if err != nil {
		return nil, err
	}

	s.reports.Invalidate(ctx)
	family.Balance = &balance
	return &family, nil
}

func (s *Service) Update(ctx context.Context, session *access.SessionUser, id string, input UpdateInput) (*Family, error) {
	family, err := s.Get(ctx, session, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		family.Name = name
	}
	if input.Phone != nil {
		family.Phone = input.Phone
	}
	if input.RamaID != nil {
		family.RamaID = emptyToNil(*input.RamaID)
	}

	if err := s.repo.Update(ctx, family); err != nil {
		return nil, err
	}
	s.reports.Invalidate(ctx)
	return family, nil
}

// Delete removes the family and its balance and detaches its users.
func (s *Service) Delete(ctx context.Context, id string, actor access.Actor) error {
	family, err := s.repo.GetByID(ctx, id, nil)
	if err != nil {
		return err
	}

	table := familiesTable
	err = s.actions.Track(ctx, actionlog.ActionFamilyDelete, actor, actionlog.Extra{
		TargetTable: &table,
		TargetID:    &family.ID,
	}, func(ctx context.Context) (actionlog.Metadata, error) {
		err := s.repo.Transaction(ctx, func(tx Repository) error {
			if err := tx.DetachUsers(ctx, family.ID); err != nil {
				return err
			}
			if err := tx.DeleteBalanceByFamily(ctx, family.ID); err != nil {
				return err
			}
			return tx.Delete(ctx, family.ID)
		})
		if err != nil {
			return nil, err
		}
		return actionlog.Metadata{"name": family.Name}, nil
	})
	if err != nil {
		return err
	}

	s.reports.Invalidate(ctx)
	return nil
}

func (s *Service) GetBalance(ctx context.Context, id string) (*Balance, error) {
	return s.repo.GetBalance(ctx, id)
}

func (s *Service) GetBalanceByFamily(ctx context.Context, familyID string) (*Balance, error) {
	return s.repo.GetBalanceByFamily(ctx, familyID)
}

// EditBalance applies a direct edit and records the previous values.
func (s *Service) EditBalance(ctx context.Context, id string, input BalanceInput, actor access.Actor) (*Balance, error) {
	balance, err := s.repo.GetBalance(ctx, id)
	if err != nil {
		return nil, err
	}
	before := balanceSnapshot(balance)

	if input.CustomBalance != nil && input.CustomBalance.IsNegative() {
		return nil, ErrNegativeCustom
	}
	if input.CustomCFA != nil && input.CustomCFA.IsNegative() {
		return nil, ErrNegativeCustom
	}
	if input.CuotaBalance != nil {
		balance.CuotaBalance = *input.CuotaBalance
	}
	if input.CFABalance != nil {
		balance.CFABalance = *input.CFABalance
	}
	if input.CustomBalance != nil {
		balance.CustomBalance = *input.CustomBalance
	}
	if input.CustomCFA != nil {
		balance.CustomCFA = *input.CustomCFA
	}
	if input.IsCustomCuota != nil {
		balance.IsCustomCuota = *input.IsCustomCuota
	}
	if input.IsCustomCFA != nil {
		balance.IsCustomCFA = *input.IsCustomCFA
	}

	table := balancesTable
	err = s.actions.Track(ctx, actionlog.ActionBalanceEdit, actor, actionlog.Extra{
		TargetTable: &table,
		TargetID:    &balance.ID,
		FamilyID:    &balance.FamilyID,
		Metadata:    actionlog.Metadata{"before": before},
	}, func(ctx context.Context) (actionlog.Metadata, error) {
		if err := s.repo.UpdateBalance(ctx, balance); err != nil {
			return nil, err
		}
		return actionlog.Metadata{"after": balanceSnapshot(balance)}, nil
	})
	if err != nil {
		return nil, err
	}

	s.reports.Invalidate(ctx)
	return balance, nil
}

// AdjustBalance moves a family's account balance by delta.
func (s *Service) AdjustBalance(ctx context.Context, familyID string, account Account, delta decimal.Decimal) error {
	return s.repo.AdjustBalance(ctx, familyID, account, delta)
}

func balanceSnapshot(balance *Balance) map[string]any {
	return map[string]any{
		"cuotaBalance":  balance.CuotaBalance.StringFixed(2),
		"cfaBalance":    balance.CFABalance.StringFixed(2),
		"customBalance": balance.CustomBalance.StringFixed(2),
		"customCfa":     balance.CustomCFA.StringFixed(2),
		"isCustomCuota": balance.IsCustomCuota,
		"isCustomCfa":   balance.IsCustomCFA,
	}
}

func emptyToNil(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
