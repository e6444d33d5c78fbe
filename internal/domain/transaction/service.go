package transaction

import (
	"context"
	"strings"
	"time"

	"family-dues-go/internal/domain/access"
	"family-dues-go/internal/domain/actionlog"
	"github.com/google/uuid"
)

const (
	DefaultTake = 50
	MaxTake     = 200
)

type Service struct {
	repo    Repository
	actions actionlog.Recorder
	reports ReportInvalidator
	now     func() time.Time
}

func NewService(repo Repository, actions actionlog.Recorder, reports ReportInvalidator) *Service {
	return &Service{repo: repo, actions: actions, reports: reports, now: time.Now}
}

// Build validates input and returns the row to insert. Payments use it to
// post their ledger entry inside their own store transaction.
func (s *Service) Build(input CreateInput, actor access.Actor) (*Transaction, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !input.Direction.Valid() {
		return nil, ErrInvalidDirection
	}
	if !input.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	method := strings.TrimSpace(input.PaymentMethod)
	if method == "" {
		return nil, ErrMethodRequired
	}
	createdBy, err := actor.ID()
	if err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = s.now()
	}

	return &Transaction{
		ID:            uuid.NewString(),
		Amount:        input.Amount.Round(2),
		Direction:     input.Direction,
		Category:      input.Category,
		FamilyID:      input.FamilyID,
		PaymentMethod: method,
		Date:          date.UTC(),
		Description:   input.Description,
		CreatedBy:     createdBy,
	}, nil
}

func (s *Service) Create(ctx context.Context, input CreateInput, actor access.Actor) (*Transaction, error) {
	txn, err := s.Build(input, actor)
	if err != nil {
		return nil, err
	}

	table := "transactions"
	err = s.actions.Track(ctx, actionlog.ActionTransactionCreate, actor, actionlog.Extra{
		TargetTable:   &table,
		TargetID:      &txn.ID,
		FamilyID:      txn.FamilyID,
		TransactionID: &txn.ID,
	}, func(ctx context.Context) (actionlog.Metadata, error) {
		if err := s.repo.Create(ctx, txn); err != nil {
			return nil, err
		}
		return actionlog.Metadata{
			"amount":    txn.Amount.StringFixed(2),
			"direction": string(txn.Direction),
			"category":  string(txn.Category),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	if txn.Direction == DirectionIncome && txn.Category == CategoryCuota {
		s.reports.Invalidate(ctx)
	}
	return txn, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Transaction, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Transaction, error) {
	if filter.Direction != nil && !filter.Direction.Valid() {
		return nil, ErrInvalidDirection
	}
	if filter.Category != nil && !filter.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, ErrInvalidDateRange
	}
	switch {
	case filter.Take <= 0:
		filter.Take = DefaultTake
	case filter.Take > MaxTake:
		filter.Take = MaxTake
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) ListInRange(ctx context.Context, direction Direction, category Category, from, to time.Time) ([]Transaction, error) {
	return s.repo.ListInRange(ctx, direction, category, from, to)
}
