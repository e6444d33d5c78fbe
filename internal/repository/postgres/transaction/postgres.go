package transaction

import (
	"context"
	"errors"
	"time"

	transactiondomain "family-dues-go/internal/domain/transaction"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, txn *transactiondomain.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*transactiondomain.Transaction, error) {
	var txn transactiondomain.Transaction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, transactiondomain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &txn, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter transactiondomain.ListFilter) ([]transactiondomain.Transaction, error) {
	query := r.db.WithContext(ctx).Model(&transactiondomain.Transaction{})
	if filter.FamilyID != nil {
		query = query.Where("family_id = ?", *filter.FamilyID)
	}
	if filter.Direction != nil {
		query = query.Where("direction = ?", *filter.Direction)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date < ?", *filter.To)
	}
	if filter.Take > 0 {
		query = query.Limit(filter.Take)
	}
	if filter.Skip > 0 {
		query = query.Offset(filter.Skip)
	}

	var txns []transactiondomain.Transaction
	if err := query.Order("date desc, created_at desc").Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *PostgresRepository) ListInRange(ctx context.Context, direction transactiondomain.Direction, category transactiondomain.Category, from, to time.Time) ([]transactiondomain.Transaction, error) {
	var txns []transactiondomain.Transaction
	if err := r.db.WithContext(ctx).
		Where("direction = ? AND category = ?", direction, category).
		Where("date >= ? AND date < ?", from, to).
		Order("date asc").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}
