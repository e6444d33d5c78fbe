// Package scheduler owns the monthly balance update timer.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"family-dues-go/internal/domain/access"
	"family-dues-go/internal/domain/actionlog"
	"family-dues-go/internal/domain/billing"
	"family-dues-go/pkg/logger"
	"github.com/robfig/cron/v3"
)

const defaultRunTimeout = 30 * time.Minute

type Runner interface {
	RunMonthlyUpdate(ctx context.Context, actor access.Actor) (billing.RunResult, error)
	RunMonthlyUpdateManually(ctx context.Context, actor access.Actor) (billing.RunResult, error)
}

type Status struct {
	Running  bool       `json:"running"`
	Schedule string     `json:"schedule"`
	Timezone string     `json:"timezone"`
	NextRun  *time.Time `json:"nextRun"`
}

// Scheduler is a Stopped/Running state machine around one cron entry.
// Create it once per process with New and share the pointer.
type Scheduler struct {
	mu       sync.Mutex
	runner   Runner
	spec     string
	schedule cron.Schedule
	loc      *time.Location
	log      logger.Logger
	timeout  time.Duration
	cron     *cron.Cron
	now      func() time.Time
}

func New(runner Runner, spec string, loc *time.Location, log logger.Logger) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		runner:   runner,
		spec:     spec,
		schedule: schedule,
		loc:      loc,
		log:      log.With("component", "scheduler"),
		timeout:  defaultRunTimeout,
		now:      time.Now,
	}, nil
}

// Start registers the monthly trigger. Starting a running scheduler is a
// no-op.
func (s *Scheduler) Start() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		cronLogger := cron.PrintfLogger(s.log.StdLogger(slog.LevelInfo))
		c := cron.New(
			cron.WithLocation(s.loc),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		)
		c.Schedule(s.schedule, cron.FuncJob(s.fire))
		c.Start()
		s.cron = c
		s.log.Info("scheduler: started", "schedule", s.spec, "timezone", s.loc.String())
	}
	return s.statusLocked()
}

// Stop deregisters the trigger. The returned context is done once a run in
// progress, if any, has finished.
func (s *Scheduler) Stop() (Status, context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return s.statusLocked(), ctx
	}

	done := s.cron.Stop()
	s.cron = nil
	s.log.Info("scheduler: stopped")
	return s.statusLocked(), done
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

// TriggerManually runs the update now on behalf of actor, subject to the
// once-per-month check.
func (s *Scheduler) TriggerManually(ctx context.Context, actor access.Actor) (billing.RunResult, error) {
	return s.runner.RunMonthlyUpdateManually(ctx, actor)
}

func (s *Scheduler) statusLocked() Status {
	status := Status{
		Running:  s.cron != nil,
		Schedule: s.spec,
		Timezone: s.loc.String(),
	}
	if status.Running {
		next := s.schedule.Next(s.now().In(s.loc))
		status.NextRun = &next
	}
	return status
}

func (s *Scheduler) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.log.Info("scheduler: monthly update triggered")
	result, err := s.runner.RunMonthlyUpdate(ctx, access.SystemActor())
	switch {
	case errors.Is(err, actionlog.ErrAlreadyRunThisMonth):
		s.log.Warn("scheduler: monthly update already ran this month", "period", result.Period)
	case err != nil:
		s.log.InternalError("scheduler: monthly update failed", err, "log_id", result.LogID)
	default:
		s.log.Info("scheduler: monthly update done",
			"log_id", result.LogID,
			"families_processed", result.FamiliesProcessed,
			"success_count", result.SuccessCount,
			"error_count", result.ErrorCount,
			"skipped", result.Skipped,
		)
	}
}
