package family

import (
	"context"
	"errors"

	"family-dues-go/internal/db"
	"family-dues-go/internal/domain/access"
	familydomain "family-dues-go/internal/domain/family"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var scopeResolvers = map[string]db.ScopeResolver{
	access.KeyRamaID:   db.Column("families.rama_id"),
	access.KeyFamilyID: db.Column("families.id"),
	access.KeyID:       db.Subquery("families.id", "SELECT family_id FROM users WHERE id = ?"),
}

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) List(ctx context.Context, scope access.Filter) ([]familydomain.Family, error) {
	query, err := db.ApplyScope(r.db.WithContext(ctx), scope, scopeResolvers)
	if err != nil {
		return nil, err
	}

	var families []familydomain.Family
	if err := query.Preload("Balance").Order("families.name asc").Find(&families).Error; err != nil {
		return nil, err
	}
	return families, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string, scope access.Filter) (*familydomain.Family, error) {
	query, err := db.ApplyScope(r.db.WithContext(ctx), scope, scopeResolvers)
	if err != nil {
		return nil, err
	}

	var family familydomain.Family
	err = query.Preload("Balance").Preload("Users").Where("families.id = ?", id).First(&family).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, familydomain.ErrFamilyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &family, nil
}

func (r *PostgresRepository) ListWithMembers(ctx context.Context) ([]familydomain.Family, error) {
	var families []familydomain.Family
	if err := r.db.WithContext(ctx).
		Preload("Balance").
		Preload("Users").
		Order("families.name asc").
		Find(&families).Error; err != nil {
		return nil, err
	}
	return families, nil
}

func (r *PostgresRepository) Create(ctx context.Context, family *familydomain.Family) error {
	return r.db.WithContext(ctx).Omit("Balance", "Users").Create(family).Error
}

func (r *PostgresRepository) Update(ctx context.Context, family *familydomain.Family) error {
	return r.db.WithContext(ctx).Model(&familydomain.Family{}).
		Where("id = ?", family.ID).
		Updates(map[string]any{
			"name":    family.Name,
			"phone":   family.Phone,
			"rama_id": family.RamaID,
		}).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&familydomain.Family{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return familydomain.ErrFamilyNotFound
	}
	return nil
}

func (r *PostgresRepository) DetachUsers(ctx context.Context, familyID string) error {
	return r.db.WithContext(ctx).Table("users").
		Where("family_id = ?", familyID).
		Update("family_id", nil).Error
}

func (r *PostgresRepository) CreateBalance(ctx context.Context, balance *familydomain.Balance) error {
	return r.db.WithContext(ctx).Create(balance).Error
}

func (r *PostgresRepository) GetBalance(ctx context.Context, id string) (*familydomain.Balance, error) {
	return r.firstBalance(ctx, "id = ?", id)
}

func (r *PostgresRepository) GetBalanceByFamily(ctx context.Context, familyID string) (*familydomain.Balance, error) {
	return r.firstBalance(ctx, "family_id = ?", familyID)
}

func (r *PostgresRepository) UpdateBalance(ctx context.Context, balance *familydomain.Balance) error {
	return r.db.WithContext(ctx).Save(balance).Error
}

func (r *PostgresRepository) DeleteBalanceByFamily(ctx context.Context, familyID string) error {
	return r.db.WithContext(ctx).Where("family_id = ?", familyID).Delete(&familydomain.Balance{}).Error
}

// AdjustBalance applies delta with a relative UPDATE so concurrent payments
// and debits never overwrite each other.
func (r *PostgresRepository) AdjustBalance(ctx context.Context, familyID string, account familydomain.Account, delta decimal.Decimal) error {
	column := account.Column()
	result := r.db.WithContext(ctx).Model(&familydomain.Balance{}).
		Where("family_id = ?", familyID).
		Update(column, gorm.Expr(column+" + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return familydomain.ErrBalanceNotFound
	}
	return nil
}

func (r *PostgresRepository) firstBalance(ctx context.Context, query string, arg any) (*familydomain.Balance, error) {
	var balance familydomain.Balance
	if err := r.db.WithContext(ctx).Where(query, arg).First(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrBalanceNotFound
		}
		return nil, err
	}
	return &balance, nil
}
