// Package actionlogtest provides an in-memory actionlog.Repository for tests
// of services that record action logs.
package actionlogtest

import (
	"context"
	"sort"
	"sync"
	"time"

	actionlogdomain "family-dues-go/internal/domain/actionlog"
)

// Store keeps action logs in memory with the same uniqueness rules as the
// action_logs table.
type Store struct {
	mu   sync.RWMutex
	logs []actionlogdomain.ActionLog
}

func NewStore() *Store {
	return &Store{}
}

var _ actionlogdomain.Repository = (*Store)(nil)

func (r *Store) Create(_ context.Context, log *actionlogdomain.ActionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.logs {
		if log.RequestID != nil && existing.RequestID != nil && *log.RequestID == *existing.RequestID {
			return actionlogdomain.ErrDuplicateRequestID
		}
		if log.RunPeriod != nil && existing.RunPeriod != nil &&
			*log.RunPeriod == *existing.RunPeriod &&
			log.ActionType == existing.ActionType &&
			isLive(existing.Status) && isLive(log.Status) {
			return actionlogdomain.ErrAlreadyRunThisMonth
		}
	}

	r.logs = append(r.logs, cloneLog(*log))
	return nil
}

func (r *Store) GetByID(_ context.Context, id string) (*actionlogdomain.ActionLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, log := range r.logs {
		if log.ID == id {
			copied := cloneLog(log)
			return &copied, nil
		}
	}
	return nil, actionlogdomain.ErrNotFound
}

func (r *Store) GetByRequestID(_ context.Context, requestID string) (*actionlogdomain.ActionLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, log := range r.logs {
		if log.RequestID != nil && *log.RequestID == requestID {
			copied := cloneLog(log)
			return &copied, nil
		}
	}
	return nil, actionlogdomain.ErrNotFound
}

func (r *Store) FinalizePending(_ context.Context, id string, f actionlogdomain.Finalization) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.logs {
		if r.logs[i].ID != id {
			continue
		}
		if r.logs[i].Status != actionlogdomain.StatusPending {
			return false, nil
		}
		r.logs[i].Status = f.Status
		r.logs[i].Message = f.Message
		r.logs[i].Metadata = actionlogdomain.Metadata{}.Merge(f.Metadata)
		r.logs[i].UpdatedAt = f.UpdatedAt
		if f.ReleaseRunPeriod {
			r.logs[i].RunPeriod = nil
		}
		return true, nil
	}
	return false, nil
}

func (r *Store) List(_ context.Context, filter actionlogdomain.ListFilter) ([]actionlogdomain.ActionLog, int64, error) {
	r.mu.RLock()
	matched := make([]actionlogdomain.ActionLog, 0, len(r.logs))
	for _, log := range r.logs {
		if matches(log, filter) {
			matched = append(matched, cloneLog(log))
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if filter.Order == actionlogdomain.SortAsc {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := min(filter.Skip, len(matched))
	end := len(matched)
	if filter.Take > 0 {
		end = min(start+filter.Take, len(matched))
	}
	return matched[start:end], total, nil
}

func (r *Store) CountLive(_ context.Context, actionType actionlogdomain.ActionType, from, to time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, log := range r.logs {
		if log.ActionType != actionType || !isLive(log.Status) || log.RunPeriod == nil {
			continue
		}
		if !log.CreatedAt.Before(from) && log.CreatedAt.Before(to) {
			count++
		}
	}
	return count, nil
}

// Logs returns a copy of every stored log in insertion order.
func (r *Store) Logs() []actionlogdomain.ActionLog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]actionlogdomain.ActionLog, 0, len(r.logs))
	for _, log := range r.logs {
		out = append(out, cloneLog(log))
	}
	return out
}

func isLive(status actionlogdomain.Status) bool {
	return status == actionlogdomain.StatusPending || status == actionlogdomain.StatusSuccess
}

func matches(log actionlogdomain.ActionLog, filter actionlogdomain.ListFilter) bool {
	switch {
	case filter.ActionType != nil && log.ActionType != *filter.ActionType:
		return false
	case filter.ActorID != nil && log.ActorID != *filter.ActorID:
		return false
	case filter.Status != nil && log.Status != *filter.Status:
		return false
	case filter.TargetTable != nil && (log.TargetTable == nil || *log.TargetTable != *filter.TargetTable):
		return false
	case filter.TargetID != nil && (log.TargetID == nil || *log.TargetID != *filter.TargetID):
		return false
	case filter.From != nil && log.CreatedAt.Before(*filter.From):
		return false
	case filter.To != nil && log.CreatedAt.After(*filter.To):
		return false
	}
	return true
}

func cloneLog(log actionlogdomain.ActionLog) actionlogdomain.ActionLog {
	log.Metadata = actionlogdomain.Metadata{}.Merge(log.Metadata)
	return log
}
