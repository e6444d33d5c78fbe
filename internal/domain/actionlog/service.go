package actionlog

import (
	"context"
	"errors"
	"strings"
	"time"

	"family-dues-go/internal/domain/access"
	"family-dues-go/pkg/logger"
	"github.com/google/uuid"
)

const (
	DefaultTake = 50
	MaxTake     = 200
)

type Service struct {
	repo Repository
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, log logger.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// Start opens a PENDING log for actionType on behalf of actor.
func (s *Service) Start(ctx context.Context, actionType ActionType, actor access.Actor, extra Extra) (*ActionLog, error) {
	return s.insert(ctx, actionType, StatusPending, nil, actor, extra, nil, s.now())
}

// StartMonthly is Start for once-a-month operations. The log is created at
// now and stamped with its calendar month so the store rejects a second live
// run.
func (s *Service) StartMonthly(ctx context.Context, actionType ActionType, actor access.Actor, now time.Time, extra Extra) (*ActionLog, error) {
	period := RunPeriod(now)
	return s.insert(ctx, actionType, StatusPending, nil, actor, extra, &period, now)
}

// Create stores a log unconditionally.
func (s *Service) Create(ctx context.Context, input CreateInput, actor access.Actor) (*ActionLog, error) {
	status := input.Status
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.insert(ctx, input.ActionType, status, input.Message, actor, input.Extra, nil, s.now())
}

// CreateIfAbsentByKey returns the log already stored under input.RequestID,
// creating it only when none exists. Without a request id it behaves like
// Create.
func (s *Service) CreateIfAbsentByKey(ctx context.Context, input CreateInput, actor access.Actor) (*ActionLog, error) {
	requestID := trimmed(input.RequestID)
	if requestID == nil {
		return s.Create(ctx, input, actor)
	}
	input.RequestID = requestID

	existing, err := s.repo.GetByRequestID(ctx, *requestID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	created, err := s.Create(ctx, input, actor)
	if errors.Is(err, ErrDuplicateRequestID) {
		// Lost the race against a concurrent insert with the same key.
		return s.repo.GetByRequestID(ctx, *requestID)
	}
	return created, err
}

// MarkSuccess moves a PENDING log to SUCCESS, merging extra into the stored
// metadata.
func (s *Service) MarkSuccess(ctx context.Context, id string, message *string, extra Metadata) (*ActionLog, error) {
	return s.finalize(ctx, id, StatusSuccess, message, extra, false)
}

// MarkSkipped is MarkSuccess for a monthly run that changed nothing. The log
// gives up its run_period, so it no longer counts as this month's run.
func (s *Service) MarkSkipped(ctx context.Context, id string, message *string, extra Metadata) (*ActionLog, error) {
	return s.finalize(ctx, id, StatusSuccess, message, extra, true)
}

// MarkError moves a PENDING log to ERROR recording the cause's message.
// Metadata is left untouched.
func (s *Service) MarkError(ctx context.Context, id string, cause error) (*ActionLog, error) {
	message := unknownErrorMessage
	if cause != nil && cause.Error() != "" {
		message = cause.Error()
	}
	return s.finalize(ctx, id, StatusError, &message, nil, false)
}

func (s *Service) Get(ctx context.Context, id string) (*ActionLog, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) (*Page, error) {
	filter, err := normalizeListFilter(filter)
	if err != nil {
		return nil, err
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []ActionLog{}
	}

	return &Page{Items: items, Total: total, Take: filter.Take, Skip: filter.Skip}, nil
}

// HasRunThisMonth reports whether a PENDING or SUCCESS monthly run of
// actionType was started in the calendar month containing now. Logs without a
// run_period are ignored: those come from Create or from skipped runs.
func (s *Service) HasRunThisMonth(ctx context.Context, actionType ActionType, now time.Time) (bool, error) {
	from, to := MonthWindow(now)
	count, err := s.repo.CountLive(ctx, actionType, from, to)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Service) AssertNotRunThisMonth(ctx context.Context, actionType ActionType, now time.Time) error {
	ran, err := s.HasRunThisMonth(ctx, actionType, now)
	if err != nil {
		return err
	}
	if ran {
		return ErrAlreadyRunThisMonth
	}
	return nil
}

func (s *Service) insert(ctx context.Context, actionType ActionType, status Status, message *string, actor access.Actor, extra Extra, runPeriod *string, at time.Time) (*ActionLog, error) {
	if !actionType.Valid() {
		return nil, ErrInvalidActionType
	}
	actorID, err := actor.ID()
	if err != nil {
		return nil, err
	}

	metadata := extra.Metadata
	if metadata == nil {
		metadata = Metadata{}
	}

	now := at.UTC()
	log := ActionLog{
		ID:            uuid.NewString(),
		ActionType:    actionType,
		ActorID:       actorID,
		Status:        status,
		TargetTable:   trimmed(extra.TargetTable),
		TargetID:      trimmed(extra.TargetID),
		FamilyID:      trimmed(extra.FamilyID),
		TransactionID: trimmed(extra.TransactionID),
		RequestID:     trimmed(extra.RequestID),
		RunPeriod:     runPeriod,
		Message:       message,
		Metadata:      metadata,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

func (s *Service) finalize(ctx context.Context, id string, status Status, message *string, extra Metadata, releaseRunPeriod bool) (*ActionLog, error) {
	log, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if log.Status != StatusPending {
		return nil, ErrAlreadyFinalized
	}

	metadata := log.Metadata
	if extra != nil {
		metadata = metadata.Merge(extra)
	}
	if metadata == nil {
		metadata = Metadata{}
	}

	finalization := Finalization{
		Status:           status,
		Message:          message,
		Metadata:         metadata,
		UpdatedAt:        s.now().UTC(),
		ReleaseRunPeriod: releaseRunPeriod,
	}
	updated, err := s.repo.FinalizePending(ctx, id, finalization)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrAlreadyFinalized
	}

	log.Status = status
	log.Message = message
	log.Metadata = metadata
	log.UpdatedAt = finalization.UpdatedAt
	if releaseRunPeriod {
		log.RunPeriod = nil
	}
	return log, nil
}

func normalizeListFilter(filter ListFilter) (ListFilter, error) {
	if filter.ActionType != nil && !filter.ActionType.Valid() {
		return filter, ErrInvalidActionType
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return filter, ErrInvalidStatus
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return filter, ErrInvalidDateRange
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

	switch SortOrder(strings.ToLower(string(filter.Order))) {
	case "", SortDesc:
		filter.Order = SortDesc
	case SortAsc:
		filter.Order = SortAsc
	default:
		return filter, ErrInvalidOrder
	}
	return filter, nil
}

// MonthWindow returns [first day of now's month, first day of the next month)
// in now's location.
func MonthWindow(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return from, from.AddDate(0, 1, 0)
}

// RunPeriod is the calendar month key stored on monthly logs, e.g. "2026-10".
func RunPeriod(now time.Time) string {
	return now.Format("2006-01")
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
