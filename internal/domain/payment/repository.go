package payment

import (
	"context"

	"family-dues-go/internal/domain/access"
	"family-dues-go/internal/domain/family"
	"family-dues-go/internal/domain/transaction"
)

type Repository interface {
	// Record stores the ledger entry, the payment and the balance credit in
	// one store transaction.
	Record(ctx context.Context, payment *Payment, txn *transaction.Transaction, account family.Account) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	GetByRequestID(ctx context.Context, requestID string) (*Payment, error)
	List(ctx context.Context, filter ListFilter) ([]Payment, error)
}

type FamilyReader interface {
	GetByID(ctx context.Context, id string) (*family.Family, error)
}

type LedgerBuilder interface {
	Build(input transaction.CreateInput, actor access.Actor) (*transaction.Transaction, error)
}

type ReportInvalidator interface {
	Invalidate(ctx context.Context)
}
