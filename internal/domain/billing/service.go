package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"family-dues-go/internal/domain/access"
	"family-dues-go/internal/domain/actionlog"
	"family-dues-go/internal/domain/cuota"
	"family-dues-go/internal/domain/family"
	"family-dues-go/pkg/logger"
)

type Service struct {
	cuotas   CuotaSource
	families FamilyStore
	runs     RunLog
	reports  ReportInvalidator
	log      logger.Logger
	loc      *time.Location
	now      func() time.Time
}

func NewService(cuotas CuotaSource, families FamilyStore, runs RunLog, reports ReportInvalidator, log logger.Logger, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		cuotas:   cuotas,
		families: families,
		runs:     runs,
		reports:  reports,
		log:      log,
		loc:      loc,
		now:      time.Now,
	}
}

// RunMonthlyUpdateManually rejects the run with a Conflict when a
// BALANCE_UPDATE already ran (or is running) this month.
func (s *Service) RunMonthlyUpdateManually(ctx context.Context, actor access.Actor) (RunResult, error) {
	now := s.now().In(s.loc)
	if err := s.runs.AssertNotRunThisMonth(ctx, actionlog.ActionBalanceUpdate, now); err != nil {
		return RunResult{}, err
	}
	return s.run(ctx, actor, now, "manual")
}

// RunMonthlyUpdate debits every family with active beneficiaries by its
// expected due. One family's failure is counted and does not stop the run.
func (s *Service) RunMonthlyUpdate(ctx context.Context, actor access.Actor) (RunResult, error) {
	trigger := "manual"
	if actor.IsSystem() {
		trigger = "scheduled"
	}
	return s.run(ctx, actor, s.now().In(s.loc), trigger)
}

func (s *Service) run(ctx context.Context, actor access.Actor, now time.Time, trigger string) (RunResult, error) {
	result := RunResult{Period: actionlog.RunPeriod(now)}
	log := s.log.With("period", result.Period, "actor", actor.String(), "trigger", trigger)

	entry, err := s.runs.StartMonthly(ctx, actionlog.ActionBalanceUpdate, actor, now, actionlog.Extra{
		Metadata: actionlog.Metadata{"trigger": trigger, "period": result.Period},
	})
	if err != nil {
		return result, err
	}
	result.LogID = entry.ID
	log = log.With("log_id", entry.ID)
	log.Info("billing.monthly_update: started")

	policy, err := s.cuotas.Active(ctx)
	if errors.Is(err, cuota.ErrNoActiveCuota) {
		log.Warn("billing.monthly_update: no active cuota, balances left unchanged")
		result.Skipped = true
		message := "No hay cuota activa; no se modificaron balances"
		// Nothing was debited, so the month stays open for a manual run.
		if _, err := s.runs.MarkSkipped(ctx, entry.ID, &message, actionlog.Metadata{
			"outcome":           OutcomeNoActiveCuota,
			"familiesProcessed": 0,
		}); err != nil {
			return result, err
		}
		return result, nil
	}
	if err != nil {
		return result, s.fail(ctx, log, entry.ID, fmt.Errorf("load active cuota: %w", err))
	}

	overrides, err := s.cuotas.ListOverrides(ctx)
	if err != nil {
		return result, s.fail(ctx, log, entry.ID, fmt.Errorf("load sibling overrides: %w", err))
	}

	families, err := s.families.ListForBilling(ctx)
	if err != nil {
		return result, s.fail(ctx, log, entry.ID, fmt.Errorf("load families: %w", err))
	}

	for _, f := range families {
		if cuota.ActiveBeneficiaries(f.Users) == 0 {
			continue
		}
		result.FamiliesProcessed++

		due := cuota.ExpectedDue(f, policy, overrides)
		if err := s.families.AdjustBalance(ctx, f.ID, family.AccountCuota, due.Neg()); err != nil {
			result.ErrorCount++
			log.InternalError("billing.monthly_update: family update failed", err,
				"family_id", f.ID,
				"family_name", f.Name,
				"due", due.StringFixed(2),
			)
			continue
		}
		result.SuccessCount++
	}

	if result.SuccessCount > 0 {
		s.reports.Invalidate(ctx)
	}

	message := fmt.Sprintf("Actualización mensual completada: %d familias, %d ok, %d con error",
		result.FamiliesProcessed, result.SuccessCount, result.ErrorCount)
	if _, err := s.runs.MarkSuccess(ctx, entry.ID, &message, actionlog.Metadata{
		"outcome":           OutcomeCompleted,
		"cuotaId":           policy.ID,
		"familiesProcessed": result.FamiliesProcessed,
		"successCount":      result.SuccessCount,
		"errorCount":        result.ErrorCount,
	}); err != nil {
		log.InternalError("billing.monthly_update: mark success failed", err)
		return result, err
	}

	log.Info("billing.monthly_update: finished",
		"families_processed", result.FamiliesProcessed,
		"success_count", result.SuccessCount,
		"error_count", result.ErrorCount,
	)
	return result, nil
}

func (s *Service) fail(ctx context.Context, log logger.Logger, logID string, cause error) error {
	log.InternalError("billing.monthly_update: failed", cause)
	if _, err := s.runs.MarkError(ctx, logID, cause); err != nil {
		log.InternalError("billing.monthly_update: mark error failed", err)
	}
	return cause
}
