package actionlog

import (
	"context"
	"errors"
	"time"

	"family-dues-go/internal/db"
	actionlogdomain "family-dues-go/internal/domain/actionlog"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, log *actionlogdomain.ActionLog) error {
	err := r.db.WithContext(ctx).Create(log).Error
	if err == nil {
		return nil
	}
	if db.IsUniqueViolation(err) {
		switch {
		case log.RequestID != nil:
			return actionlogdomain.ErrDuplicateRequestID
		case log.RunPeriod != nil:
			return actionlogdomain.ErrAlreadyRunThisMonth
		}
	}
	return err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*actionlogdomain.ActionLog, error) {
	var log actionlogdomain.ActionLog
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&log).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, actionlogdomain.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

func (r *PostgresRepository) GetByRequestID(ctx context.Context, requestID string) (*actionlogdomain.ActionLog, error) {
	var log actionlogdomain.ActionLog
	if err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&log).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, actionlogdomain.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

func (r *PostgresRepository) FinalizePending(ctx context.Context, id string, f actionlogdomain.Finalization) (bool, error) {
	updates := map[string]any{
		"status":     f.Status,
		"message":    f.Message,
		"metadata":   f.Metadata,
		"updated_at": f.UpdatedAt,
	}
	if f.ReleaseRunPeriod {
		updates["run_period"] = nil
	}
	result := r.db.WithContext(ctx).
		Model(&actionlogdomain.ActionLog{}).
		Where("id = ? AND status = ?", id, actionlogdomain.StatusPending).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter actionlogdomain.ListFilter) ([]actionlogdomain.ActionLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&actionlogdomain.ActionLog{})
	if filter.ActionType != nil {
		query = query.Where("action_type = ?", *filter.ActionType)
	}
	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.TargetTable != nil {
		query = query.Where("target_table = ?", *filter.TargetTable)
	}
	if filter.TargetID != nil {
		query = query.Where("target_id = ?", *filter.TargetID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", filter.To.UTC())
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at desc"
	if filter.Order == actionlogdomain.SortAsc {
		order = "created_at asc"
	}

	var logs []actionlogdomain.ActionLog
	if err := query.
		Order(order).
		Offset(filter.Skip).
		Limit(filter.Take).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (r *PostgresRepository) CountLive(ctx context.Context, actionType actionlogdomain.ActionType, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&actionlogdomain.ActionLog{}).
		Where("action_type = ?", actionType).
		Where("status IN ?", []actionlogdomain.Status{actionlogdomain.StatusPending, actionlogdomain.StatusSuccess}).
		Where("run_period IS NOT NULL").
		Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()).
		Count(&count).Error
	return count, err
}
