package rama

import (
	"context"
	"errors"

	"family-dues-go/internal/db"
	ramadomain "family-dues-go/internal/domain/rama"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]ramadomain.Rama, error) {
	var ramas []ramadomain.Rama
	if err := r.db.WithContext(ctx).Order("name asc").Find(&ramas).Error; err != nil {
		return nil, err
	}
	return ramas, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*ramadomain.Rama, error) {
	var rama ramadomain.Rama
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&rama).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ramadomain.ErrRamaNotFound
		}
		return nil, err
	}
	return &rama, nil
}

func (r *PostgresRepository) Create(ctx context.Context, rama *ramadomain.Rama) error {
	err := r.db.WithContext(ctx).Create(rama).Error
	if db.IsUniqueViolation(err) {
		return ramadomain.ErrDuplicatedName
	}
	return err
}

func (r *PostgresRepository) UpdateName(ctx context.Context, id, name string) error {
	result := r.db.WithContext(ctx).Model(&ramadomain.Rama{}).Where("id = ?", id).Update("name", name)
	if db.IsUniqueViolation(result.Error) {
		return ramadomain.ErrDuplicatedName
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ramadomain.ErrRamaNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ramadomain.Rama{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ramadomain.ErrRamaNotFound
	}
	return nil
}
