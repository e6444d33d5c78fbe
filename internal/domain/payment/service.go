package payment

import (
	"context"
	"errors"
	"strings"

	"family-dues-go/internal/domain/access"
	"family-dues-go/internal/domain/actionlog"
	"family-dues-go/internal/domain/family"
	"family-dues-go/internal/domain/transaction"
	"family-dues-go/pkg/logger"
	"github.com/google/uuid"
)

type Service struct {
	repo     Repository
	families FamilyReader
	ledger   LedgerBuilder
	actions  actionlog.Recorder
	reports  ReportInvalidator
	log      logger.Logger
}

func NewService(repo Repository, families FamilyReader, ledger LedgerBuilder, actions actionlog.Recorder, reports ReportInvalidator, log logger.Logger) *Service {
	return &Service{
		repo:     repo,
		families: families,
		ledger:   ledger,
		actions:  actions,
		reports:  reports,
		log:      log,
	}
}

// Create posts an INCOME transaction and credits the family's balance. With a
// request id the call is idempotent: a replay returns the first payment. The
// key lives on the payment row only, so an attempt that failed to record can
// be retried with the same key.
func (s *Service) Create(ctx context.Context, input CreateInput, actor access.Actor) (*Payment, error) {
	familyID := strings.TrimSpace(input.FamilyID)
	if familyID == "" {
		return nil, ErrFamilyRequired
	}
	if !input.Concept.Valid() {
		return nil, ErrInvalidConcept
	}
	requestID := trimmed(input.RequestID)

	if requestID != nil {
		existing, err := s.repo.GetByRequestID(ctx, *requestID)
		if err == nil {
			s.log.Info("payments.create: replayed", "request_id", *requestID, "payment_id", existing.ID)
			return existing, nil
		}
		if !errors.Is(err, ErrPaymentNotFound) {
			return nil, err
		}
	}

	if _, err := s.families.GetByID(ctx, familyID); err != nil {
		return nil, err
	}

	txn, err := s.ledger.Build(transaction.CreateInput{
		Amount:        input.Amount,
		Direction:     transaction.DirectionIncome,
		Category:      transaction.Category(input.Concept),
		FamilyID:      &familyID,
		PaymentMethod: input.PaymentMethod,
		Date:          input.PaidAt,
		Description:   input.Description,
	}, actor)
	if err != nil {
		return nil, err
	}

	payment := Payment{
		ID:            uuid.NewString(),
		FamilyID:      familyID,
		TransactionID: txn.ID,
		Amount:        txn.Amount,
		Concept:       input.Concept,
		PaymentMethod: txn.PaymentMethod,
		PaidAt:        txn.Date,
		RequestID:     requestID,
		CreatedBy:     txn.CreatedBy,
	}

	table := "payments"
	extra := actionlog.Extra{
		TargetTable:   &table,
		TargetID:      &payment.ID,
		FamilyID:      &familyID,
		TransactionID: &txn.ID,
	}
	if requestID != nil {
		extra.Metadata = actionlog.Metadata{"requestId": *requestID}
	}
	err = s.actions.Track(ctx, actionlog.ActionPaymentCreate, actor, extra, func(ctx context.Context) (actionlog.Metadata, error) {
		if err := s.repo.Record(ctx, &payment, txn, accountFor(payment.Concept)); err != nil {
			return nil, err
		}
		return actionlog.Metadata{
			"amount":  payment.Amount.StringFixed(2),
			"concept": string(payment.Concept),
		}, nil
	})
	if errors.Is(err, actionlog.ErrDuplicateRequestID) && requestID != nil {
		// A concurrent call with the same key recorded its payment first.
		existing, getErr := s.repo.GetByRequestID(ctx, *requestID)
		if getErr == nil {
			return existing, nil
		}
		if errors.Is(getErr, ErrPaymentNotFound) {
			return nil, ErrRequestIDCollision
		}
		return nil, getErr
	}
	if err != nil {
		return nil, err
	}

	s.reports.Invalidate(ctx)
	return &payment, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Payment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Payment, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, transaction.ErrInvalidDateRange
	}
	return s.repo.List(ctx, filter)
}

func accountFor(concept Concept) family.Account {
	if concept == ConceptCFA {
		return family.AccountCFA
	}
	return family.AccountCuota
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
