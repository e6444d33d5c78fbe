package payment

import (
	"context"
	"errors"

	"family-dues-go/internal/db"
	actionlogdomain "family-dues-go/internal/domain/actionlog"
	familydomain "family-dues-go/internal/domain/family"
	paymentdomain "family-dues-go/internal/domain/payment"
	transactiondomain "family-dues-go/internal/domain/transaction"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Record writes the ledger entry, the payment and the balance credit
// atomically. A request id already used by another payment reports
// ErrDuplicateRequestID.
func (r *PostgresRepository) Record(ctx context.Context, payment *paymentdomain.Payment, txn *transactiondomain.Transaction, account familydomain.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		if err := tx.Create(payment).Error; err != nil {
			if db.IsUniqueViolation(err) && payment.RequestID != nil {
				return actionlogdomain.ErrDuplicateRequestID
			}
			return err
		}

		column := account.Column()
		result := tx.Model(&familydomain.Balance{}).
			Where("family_id = ?", payment.FamilyID).
			Update(column, gorm.Expr(column+" + ?", payment.Amount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return familydomain.ErrBalanceNotFound
		}
		return nil
	})
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*paymentdomain.Payment, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *PostgresRepository) GetByRequestID(ctx context.Context, requestID string) (*paymentdomain.Payment, error) {
	return r.first(ctx, "request_id = ?", requestID)
}

func (r *PostgresRepository) List(ctx context.Context, filter paymentdomain.ListFilter) ([]paymentdomain.Payment, error) {
	query := r.db.WithContext(ctx).Model(&paymentdomain.Payment{})
	if filter.FamilyID != nil {
		query = query.Where("family_id = ?", *filter.FamilyID)
	}
	if filter.From != nil {
		query = query.Where("paid_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("paid_at < ?", *filter.To)
	}

	var payments []paymentdomain.Payment
	if err := query.Order("paid_at desc, created_at desc").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *PostgresRepository) first(ctx context.Context, query string, arg any) (*paymentdomain.Payment, error) {
	var payment paymentdomain.Payment
	if err := r.db.WithContext(ctx).Where(query, arg).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, paymentdomain.ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}
