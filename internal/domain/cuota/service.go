package cuota

import (
	"context"

	"family-dues-go/internal/domain/access"
	"family-dues-go/internal/domain/actionlog"
	"github.com/google/uuid"
)

const cuotasTable = "cuotas"

type Service struct {
	repo    Repository
	actions actionlog.Recorder
	reports ReportInvalidator
}

func NewService(repo Repository, actions actionlog.Recorder, reports ReportInvalidator) *Service {
	return &Service{repo: repo, actions: actions, reports: reports}
}

func (s *Service) List(ctx context.Context) ([]Cuota, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Cuota, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Active(ctx context.Context) (*Cuota, error) {
	return s.repo.GetActive(ctx)
}

// Create stores a new policy version. Creating it active deactivates the
// rest in the same transaction.
func (s *Service) Create(ctx context.Context, input Input, actor access.Actor) (*Cuota, error) {
	if input.Value.IsNegative() || input.CFA.IsNegative() {
		return nil, ErrNegativeValue
	}

	cuota := Cuota{
		ID:       uuid.NewString(),
		Value:    input.Value,
		CFA:      input.CFA,
		IsActive: input.IsActive,
	}

	table := cuotasTable
	err := s.actions.Track(ctx, actionlog.ActionCuotaCreate, actor, actionlog.Extra{
		TargetTable: &table,
		TargetID:    &cuota.ID,
	}, func(ctx context.Context) (actionlog.Metadata, error) {
		err := s.repo.Transaction(ctx, func(tx Repository) error {
			if cuota.IsActive {
				if err := tx.DeactivateAllExcept(ctx, cuota.ID); err != nil {
					return err
				}
			}
			return tx.Create(ctx, &cuota)
		})
		if err != nil {
			return nil, err
		}
		return actionlog.Metadata{
			"value":    cuota.Value.StringFixed(2),
			"cfa":      cuota.CFA.StringFixed(2),
			"isActive": cuota.IsActive,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	if cuota.IsActive {
		s.reports.Invalidate(ctx)
	}
	return &cuota, nil
}

// Update changes amounts only; activation goes through Activate.
func (s *Service) Update(ctx context.Context, id string, input Input) (*Cuota, error) {
	if input.Value.IsNegative() || input.CFA.IsNegative() {
		return nil, ErrNegativeValue
	}

	cuota, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cuota.Value = input.Value
	cuota.CFA = input.CFA

	if err := s.repo.Update(ctx, cuota); err != nil {
		return nil, err
	}
	if cuota.IsActive {
		s.reports.Invalidate(ctx)
	}
	return cuota, nil
}

// Activate makes id the only active cuota.
func (s *Service) Activate(ctx context.Context, id string, actor access.Actor) (*Cuota, error) {
	var activated *Cuota

	table := cuotasTable
	err := s.actions.Track(ctx, actionlog.ActionCuotaActivate, actor, actionlog.Extra{
		TargetTable: &table,
		TargetID:    &id,
	}, func(ctx context.Context) (actionlog.Metadata, error) {
		var previous string
		err := s.repo.Transaction(ctx, func(tx Repository) error {
			cuota, err := tx.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if current, err := tx.GetActive(ctx); err == nil {
				previous = current.ID
			}
			if err := tx.DeactivateAllExcept(ctx, id); err != nil {
				return err
			}
			cuota.IsActive = true
			if err := tx.Update(ctx, cuota); err != nil {
				return err
			}
			activated = cuota
			return nil
		})
		if err != nil {
			return nil, err
		}
		return actionlog.Metadata{"previousActiveId": previous}, nil
	})
	if err != nil {
		return nil, err
	}

	s.reports.Invalidate(ctx)
	return activated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	cuota, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cuota.IsActive {
		return ErrActiveCuotaDelete
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListOverrides(ctx context.Context) ([]SiblingOverride, error) {
	return s.repo.ListOverrides(ctx)
}

func (s *Service) GetOverride(ctx context.Context, id string) (*SiblingOverride, error) {
	return s.repo.GetOverride(ctx, id)
}

func (s *Service) CreateOverride(ctx context.Context, input OverrideInput) (*SiblingOverride, error) {
	if err := validateOverride(input); err != nil {
		return nil, err
	}

	override := SiblingOverride{
		ID:       uuid.NewString(),
		Cantidad: input.Cantidad,
		Valor:    input.Valor,
	}
	if err := s.repo.CreateOverride(ctx, &override); err != nil {
		return nil, err
	}
	s.reports.Invalidate(ctx)
	return &override, nil
}

func (s *Service) UpdateOverride(ctx context.Context, id string, input OverrideInput) (*SiblingOverride, error) {
	if err := validateOverride(input); err != nil {
		return nil, err
	}

	override, err := s.repo.GetOverride(ctx, id)
	if err != nil {
		return nil, err
	}
	override.Cantidad = input.Cantidad
	override.Valor = input.Valor

	if err := s.repo.UpdateOverride(ctx, override); err != nil {
		return nil, err
	}
	s.reports.Invalidate(ctx)
	return override, nil
}

func (s *Service) DeleteOverride(ctx context.Context, id string) error {
	if _, err := s.repo.GetOverride(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteOverride(ctx, id); err != nil {
		return err
	}
	s.reports.Invalidate(ctx)
	return nil
}

func validateOverride(input OverrideInput) error {
	if input.Cantidad <= 0 {
		return ErrInvalidCantidad
	}
	if input.Valor.IsNegative() {
		return ErrNegativeValue
	}
	return nil
}
