package billing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"family-dues-go/internal/apperr"
	"family-dues-go/internal/domain/access"
	"family-dues-go/internal/domain/actionlog"
	"family-dues-go/internal/domain/actionlog/actionlogtest"
	"family-dues-go/internal/domain/cuota"
	"family-dues-go/internal/domain/family"
	"family-dues-go/internal/domain/user"
	"family-dues-go/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCuotas struct {
	active    *cuota.Cuota
	overrides []cuota.SiblingOverride
	err       error
}

func (f *fakeCuotas) Active(context.Context) (*cuota.Cuota, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.active == nil {
		return nil, cuota.ErrNoActiveCuota
	}
	return f.active, nil
}

func (f *fakeCuotas) ListOverrides(context.Context) ([]cuota.SiblingOverride, error) {
	return f.overrides, nil
}

type fakeFamilies struct {
	families []family.Family
	balances map[string]decimal.Decimal
	failFor  map[string]bool
	listErr  error
}

func (f *fakeFamilies) ListForBilling(context.Context) ([]family.Family, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.families, nil
}

func (f *fakeFamilies) AdjustBalance(_ context.Context, familyID string, account family.Account, delta decimal.Decimal) error {
	if f.failFor[familyID] {
		return errors.New("write failed")
	}
	if account != family.AccountCuota {
		return fmt.Errorf("unexpected account %s", account)
	}
	f.balances[familyID] = f.balances[familyID].Add(delta)
	return nil
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) {
	c.calls++
}

func activeUsers(n int) []user.User {
	users := make([]user.User, n)
	for i := range users {
		users[i] = user.User{ID: fmt.Sprintf("u%d", i), IsActive: true}
	}
	return users
}

type fixture struct {
	svc      *Service
	cuotas   *fakeCuotas
	families *fakeFamilies
	logs     *actionlogtest.Store
	actions  *actionlog.Service
	reports  *countingInvalidator
}

func newFixture(now time.Time, families ...family.Family) *fixture {
	logs := actionlogtest.NewStore()
	actions := actionlog.NewService(logs, logger.Discard())
	store := &fakeFamilies{
		families: families,
		balances: make(map[string]decimal.Decimal),
		failFor:  make(map[string]bool),
	}
	cuotas := &fakeCuotas{active: &cuota.Cuota{ID: "c1", Value: decimal.NewFromInt(5000), IsActive: true}}
	reports := &countingInvalidator{}

	svc := NewService(cuotas, store, actions, reports, logger.Discard(), time.UTC)
	svc.now = func() time.Time { return now }

	return &fixture{svc: svc, cuotas: cuotas, families: store, logs: logs, actions: actions, reports: reports}
}

func (f *fixture) runLog(t *testing.T, id string) *actionlog.ActionLog {
	t.Helper()
	log, err := f.logs.GetByID(context.Background(), id)
	require.NoError(t, err)
	return log
}

var october = time.Date(2026, 10, 1, 3, 0, 0, 0, time.UTC)

func TestRunMonthlyUpdateIsolatesFamilyFailures(t *testing.T) {
	var families []family.Family
	for i := 0; i < 10; i++ {
		families = append(families, family.Family{
			ID:      fmt.Sprintf("f%d", i),
			Name:    fmt.Sprintf("Familia %d", i),
			Users:   activeUsers(1),
			Balance: &family.Balance{},
		})
	}
	f := newFixture(october, families...)
	f.families.failFor["f4"] = true

	result, err := f.svc.RunMonthlyUpdate(context.Background(), access.SystemActor())
	require.NoError(t, err)

	assert.Equal(t, 10, result.FamiliesProcessed)
	assert.Equal(t, 9, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	assert.False(t, result.Skipped)
	assert.Len(t, f.families.balances, 9)
	for id, balance := range f.families.balances {
		assert.True(t, balance.Equal(decimal.NewFromInt(-5000)), id)
	}

	log := f.runLog(t, result.LogID)
	assert.Equal(t, actionlog.StatusSuccess, log.Status)
	assert.Equal(t, access.SystemActorID, log.ActorID)
	assert.Equal(t, 9, log.Metadata["successCount"])
	assert.Equal(t, 1, log.Metadata["errorCount"])
	assert.Equal(t, "scheduled", log.Metadata["trigger"])
	assert.Equal(t, 1, f.reports.calls)
}

func TestRunMonthlyUpdateSkipsFamiliesWithoutBeneficiaries(t *testing.T) {
	f := newFixture(october,
		family.Family{ID: "active", Users: activeUsers(2), Balance: &family.Balance{}},
		family.Family{ID: "granted", Users: []user.User{{IsActive: true, IsGranted: true}}, Balance: &family.Balance{}},
		family.Family{ID: "empty", Balance: &family.Balance{}},
	)
	f.cuotas.overrides = []cuota.SiblingOverride{{Cantidad: 2, Valor: decimal.NewFromInt(3000)}}

	result, err := f.svc.RunMonthlyUpdate(context.Background(), access.SystemActor())
	require.NoError(t, err)

	assert.Equal(t, 1, result.FamiliesProcessed)
	assert.True(t, f.families.balances["active"].Equal(decimal.NewFromInt(-3000)))
	_, touched := f.families.balances["granted"]
	assert.False(t, touched)
}

func TestRunMonthlyUpdateWithoutActiveCuota(t *testing.T) {
	f := newFixture(october, family.Family{ID: "f1", Users: activeUsers(1), Balance: &family.Balance{}})
	f.cuotas.active = nil

	result, err := f.svc.RunMonthlyUpdate(context.Background(), access.SystemActor())
	require.NoError(t, err)

	assert.True(t, result.Skipped)
	assert.Zero(t, result.FamiliesProcessed)
	assert.Empty(t, f.families.balances)
	assert.Zero(t, f.reports.calls)

	log := f.runLog(t, result.LogID)
	assert.Equal(t, actionlog.StatusSuccess, log.Status)
	assert.Equal(t, OutcomeNoActiveCuota, log.Metadata["outcome"])
	assert.Nil(t, log.RunPeriod)
}

func TestRunMonthlyUpdateWithoutActiveCuotaLeavesMonthOpen(t *testing.T) {
	ctx := context.Background()
	f := newFixture(october, family.Family{ID: "f1", Users: activeUsers(1), Balance: &family.Balance{}})
	active := f.cuotas.active
	f.cuotas.active = nil

	skipped, err := f.svc.RunMonthlyUpdate(ctx, access.SystemActor())
	require.NoError(t, err)
	require.True(t, skipped.Skipped)

	f.cuotas.active = active
	result, err := f.svc.RunMonthlyUpdateManually(ctx, access.UserActor("admin"))
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.True(t, f.families.balances["f1"].Equal(decimal.NewFromInt(-5000)))

	_, err = f.svc.RunMonthlyUpdateManually(ctx, access.UserActor("admin"))
	assert.ErrorIs(t, err, actionlog.ErrAlreadyRunThisMonth)
}

func TestRunMonthlyUpdateSetupFailureMarksError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(october)
	f.families.listErr = errors.New("connection refused")

	result, err := f.svc.RunMonthlyUpdate(ctx, access.SystemActor())
	require.Error(t, err)

	log := f.runLog(t, result.LogID)
	assert.Equal(t, actionlog.StatusError, log.Status)
	assert.Contains(t, *log.Message, "connection refused")

	f.families.listErr = nil
	_, err = f.svc.RunMonthlyUpdateManually(ctx, access.UserActor("admin"))
	require.NoError(t, err)
}

func TestRunMonthlyUpdateManuallyOncePerMonth(t *testing.T) {
	ctx := context.Background()
	f := newFixture(october, family.Family{ID: "f1", Users: activeUsers(1), Balance: &family.Balance{}})
	admin := access.UserActor("admin")

	first, err := f.svc.RunMonthlyUpdateManually(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, "manual", f.runLog(t, first.LogID).Metadata["trigger"])
	assert.Equal(t, "admin", f.runLog(t, first.LogID).ActorID)

	f.svc.now = func() time.Time { return october.AddDate(0, 0, 14) }
	_, err = f.svc.RunMonthlyUpdateManually(ctx, admin)
	assert.ErrorIs(t, err, actionlog.ErrAlreadyRunThisMonth)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = f.svc.RunMonthlyUpdate(ctx, access.SystemActor())
	assert.ErrorIs(t, err, actionlog.ErrAlreadyRunThisMonth)
	assert.True(t, f.families.balances["f1"].Equal(decimal.NewFromInt(-5000)))

	f.svc.now = func() time.Time { return october.AddDate(0, 1, 0) }
	_, err = f.svc.RunMonthlyUpdateManually(ctx, admin)
	require.NoError(t, err)
	assert.True(t, f.families.balances["f1"].Equal(decimal.NewFromInt(-10000)))
}

func TestRunMonthlyUpdateRejectsUnresolvedActor(t *testing.T) {
	f := newFixture(october)
	_, err := f.svc.RunMonthlyUpdate(context.Background(), access.Actor{})
	assert.ErrorIs(t, err, access.ErrInvalidActor)
}

func TestRunMonthlyUpdateUsesLocalMonth(t *testing.T) {
	ctx := context.Background()
	loc := time.FixedZone("ART", -3*60*60)
	f := newFixture(time.Time{}, family.Family{ID: "f1", Users: activeUsers(1), Balance: &family.Balance{}})
	f.svc.loc = loc

	// 01:00 UTC on Nov 1 is still October in ART.
	f.svc.now = func() time.Time { return time.Date(2026, 11, 1, 1, 0, 0, 0, time.UTC) }
	result, err := f.svc.RunMonthlyUpdate(ctx, access.SystemActor())
	require.NoError(t, err)
	assert.Equal(t, "2026-10", result.Period)

	f.svc.now = func() time.Time { return time.Date(2026, 11, 1, 4, 0, 0, 0, time.UTC) }
	result, err = f.svc.RunMonthlyUpdate(ctx, access.SystemActor())
	require.NoError(t, err)
	assert.Equal(t, "2026-11", result.Period)
}
