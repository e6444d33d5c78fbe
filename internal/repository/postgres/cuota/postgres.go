package cuota

import (
	"context"
	"errors"

	"family-dues-go/internal/db"
	cuotadomain "family-dues-go/internal/domain/cuota"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(cuotadomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) List(ctx context.Context) ([]cuotadomain.Cuota, error) {
	var cuotas []cuotadomain.Cuota
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&cuotas).Error; err != nil {
		return nil, err
	}
	return cuotas, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*cuotadomain.Cuota, error) {
	var cuota cuotadomain.Cuota
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&cuota).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cuotadomain.ErrCuotaNotFound
		}
		return nil, err
	}
	return &cuota, nil
}

func (r *PostgresRepository) GetActive(ctx context.Context) (*cuotadomain.Cuota, error) {
	var cuota cuotadomain.Cuota
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).First(&cuota).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cuotadomain.ErrNoActiveCuota
		}
		return nil, err
	}
	return &cuota, nil
}

// Create and Update translate a violation of the single-active index.
func (r *PostgresRepository) Create(ctx context.Context, cuota *cuotadomain.Cuota) error {
	err := r.db.WithContext(ctx).Create(cuota).Error
	if db.IsUniqueViolation(err) {
		return cuotadomain.ErrMultipleActive
	}
	return err
}

func (r *PostgresRepository) Update(ctx context.Context, cuota *cuotadomain.Cuota) error {
	err := r.db.WithContext(ctx).Save(cuota).Error
	if db.IsUniqueViolation(err) {
		return cuotadomain.ErrMultipleActive
	}
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&cuotadomain.Cuota{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return cuotadomain.ErrCuotaNotFound
	}
	return nil
}

func (r *PostgresRepository) DeactivateAllExcept(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&cuotadomain.Cuota{}).
		Where("is_active = ? AND id <> ?", true, id).
		Update("is_active", false).Error
}

func (r *PostgresRepository) ListOverrides(ctx context.Context) ([]cuotadomain.SiblingOverride, error) {
	var overrides []cuotadomain.SiblingOverride
	if err := r.db.WithContext(ctx).Order("cantidad asc").Find(&overrides).Error; err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *PostgresRepository) GetOverride(ctx context.Context, id string) (*cuotadomain.SiblingOverride, error) {
	var override cuotadomain.SiblingOverride
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&override).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cuotadomain.ErrOverrideNotFound
		}
		return nil, err
	}
	return &override, nil
}

func (r *PostgresRepository) CreateOverride(ctx context.Context, override *cuotadomain.SiblingOverride) error {
	err := r.db.WithContext(ctx).Create(override).Error
	if db.IsUniqueViolation(err) {
		return cuotadomain.ErrDuplicatedCantidad
	}
	return err
}

func (r *PostgresRepository) UpdateOverride(ctx context.Context, override *cuotadomain.SiblingOverride) error {
	err := r.db.WithContext(ctx).Save(override).Error
	if db.IsUniqueViolation(err) {
		return cuotadomain.ErrDuplicatedCantidad
	}
	return err
}

func (r *PostgresRepository) DeleteOverride(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&cuotadomain.SiblingOverride{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return cuotadomain.ErrOverrideNotFound
	}
	return nil
}
