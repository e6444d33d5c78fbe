package actionlog

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"family-dues-go/internal/apperr"
	"family-dues-go/internal/domain/access"
	"family-dues-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu         sync.Mutex
	logs       map[string]*ActionLog
	order      []string
	inserts    int
	listFilter ListFilter
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{logs: make(map[string]*ActionLog)}
}

func (r *fakeRepo) Create(_ context.Context, log *ActionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.logs {
		if log.RequestID != nil && existing.RequestID != nil && *existing.RequestID == *log.RequestID {
			return ErrDuplicateRequestID
		}
		if log.RunPeriod != nil && existing.RunPeriod != nil &&
			*existing.RunPeriod == *log.RunPeriod &&
			existing.ActionType == log.ActionType &&
			existing.Status != StatusError {
			return ErrAlreadyRunThisMonth
		}
	}

	stored := *log
	r.logs[log.ID] = &stored
	r.order = append(r.order, log.ID)
	r.inserts++
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*ActionLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	log, ok := r.logs[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *log
	return &copied, nil
}

func (r *fakeRepo) GetByRequestID(_ context.Context, requestID string) (*ActionLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, log := range r.logs {
		if log.RequestID != nil && *log.RequestID == requestID {
			copied := *log
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) FinalizePending(_ context.Context, id string, f Finalization) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	log, ok := r.logs[id]
	if !ok || log.Status != StatusPending {
		return false, nil
	}
	log.Status = f.Status
	log.Message = f.Message
	log.Metadata = f.Metadata
	log.UpdatedAt = f.UpdatedAt
	if f.ReleaseRunPeriod {
		log.RunPeriod = nil
	}
	return true, nil
}

func (r *fakeRepo) List(_ context.Context, filter ListFilter) ([]ActionLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.listFilter = filter
	items := make([]ActionLog, 0, len(r.order))
	for _, id := range r.order {
		items = append(items, *r.logs[id])
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, int64(len(items)), nil
}

func (r *fakeRepo) CountLive(_ context.Context, actionType ActionType, from, to time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, log := range r.logs {
		if log.ActionType != actionType || log.Status == StatusError || log.RunPeriod == nil {
			continue
		}
		if !log.CreatedAt.Before(from) && log.CreatedAt.Before(to) {
			count++
		}
	}
	return count, nil
}

func newTestService(now time.Time) (*Service, *fakeRepo) {
	repo := newFakeRepo()
	svc := NewService(repo, logger.Discard())
	svc.now = func() time.Time { return now }
	return svc, repo
}

func ptr[T any](value T) *T {
	return &value
}

func TestStartResolvesActor(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(time.Date(2026, 10, 5, 12, 0, 0, 0, time.UTC))

	log, err := svc.Start(ctx, ActionBalanceUpdate, access.SystemActor(), Extra{})
	require.NoError(t, err)
	assert.Equal(t, access.SystemActorID, log.ActorID)
	assert.Equal(t, StatusPending, log.Status)
	assert.Nil(t, log.TargetTable)
	assert.Nil(t, log.FamilyID)
	assert.Equal(t, Metadata{}, log.Metadata)

	log, err = svc.Start(ctx, ActionFamilyCreate, access.UserActor("user-1"), Extra{FamilyID: ptr("fam-1")})
	require.NoError(t, err)
	assert.Equal(t, "user-1", log.ActorID)
	assert.Equal(t, "fam-1", *log.FamilyID)

	_, err = svc.Start(ctx, ActionFamilyCreate, access.Actor{}, Extra{})
	assert.ErrorIs(t, err, access.ErrInvalidActor)
	assert.ErrorIs(t, err, apperr.ErrInvalidActor)

	_, err = svc.Start(ctx, ActionType("NOPE"), access.SystemActor(), Extra{})
	assert.ErrorIs(t, err, ErrInvalidActionType)
}

func TestCreateIfAbsentByKeyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(time.Date(2026, 10, 5, 12, 0, 0, 0, time.UTC))

	input := CreateInput{
		ActionType: ActionPaymentCreate,
		Extra:      Extra{RequestID: ptr("req-1"), Metadata: Metadata{"amount": "100"}},
	}

	first, err := svc.CreateIfAbsentByKey(ctx, input, access.UserActor("user-1"))
	require.NoError(t, err)
	second, err := svc.CreateIfAbsentByKey(ctx, input, access.UserActor("user-1"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, repo.inserts)
}

func TestCreateIfAbsentByKeyWithoutKeyAlwaysCreates(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(time.Date(2026, 10, 5, 12, 0, 0, 0, time.UTC))

	input := CreateInput{ActionType: ActionManual, Extra: Extra{RequestID: ptr("  ")}}
	_, err := svc.CreateIfAbsentByKey(ctx, input, access.SystemActor())
	require.NoError(t, err)
	_, err = svc.CreateIfAbsentByKey(ctx, input, access.SystemActor())
	require.NoError(t, err)

	assert.Equal(t, 2, repo.inserts)
}

type racingRepo struct {
	*fakeRepo
	lookups int
}

// GetByRequestID misses on the first lookup, as if a concurrent caller
// inserted between the check and the write.
func (r *racingRepo) GetByRequestID(ctx context.Context, requestID string) (*ActionLog, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, ErrNotFound
	}
	return r.fakeRepo.GetByRequestID(ctx, requestID)
}

func TestCreateIfAbsentByKeyRecoversFromStorageConflict(t *testing.T) {
	ctx := context.Background()
	base := newFakeRepo()
	existing := &ActionLog{ID: "log-1", ActionType: ActionPaymentCreate, Status: StatusSuccess, RequestID: ptr("req-9")}
	require.NoError(t, base.Create(ctx, existing))

	svc := NewService(&racingRepo{fakeRepo: base}, logger.Discard())
	got, err := svc.CreateIfAbsentByKey(ctx, CreateInput{
		ActionType: ActionPaymentCreate,
		Extra:      Extra{RequestID: ptr("req-9")},
	}, access.SystemActor())
	require.NoError(t, err)
	assert.Equal(t, "log-1", got.ID)
	assert.Equal(t, 1, base.inserts)
}

func TestMarkSuccessMergesMetadata(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(time.Date(2026, 10, 5, 12, 0, 0, 0, time.UTC))

	log, err := svc.Start(ctx, ActionBalanceUpdate, access.SystemActor(), Extra{
		Metadata: Metadata{"trigger": "cron", "familiesProcessed": 0},
	})
	require.NoError(t, err)

	done, err := svc.MarkSuccess(ctx, log.ID, ptr("ok"), Metadata{"familiesProcessed": 10, "errorCount": 0})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, done.Status)
	assert.Equal(t, "ok", *done.Message)
	assert.Equal(t, Metadata{"trigger": "cron", "familiesProcessed": 10, "errorCount": 0}, done.Metadata)

	stored, err := svc.Get(ctx, log.ID)
	require.NoError(t, err)
	assert.Equal(t, done.Metadata, stored.Metadata)
}

func TestMarkErrorRecordsMessage(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(time.Date(2026, 10, 5, 12, 0, 0, 0, time.UTC))

	log, err := svc.Start(ctx, ActionBalanceUpdate, access.SystemActor(), Extra{Metadata: Metadata{"trigger": "manual"}})
	require.NoError(t, err)

	failed, err := svc.MarkError(ctx, log.ID, errors.New("db down"))
	require.NoError(t, err)
	assert.Equal(t, StatusError, failed.Status)
	assert.Equal(t, "db down", *failed.Message)
	assert.Equal(t, Metadata{"trigger": "manual"}, failed.Metadata)

	other, err := svc.Start(ctx, ActionManual, access.SystemActor(), Extra{})
	require.NoError(t, err)
	failed, err = svc.MarkError(ctx, other.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Error desconocido", *failed.Message)
}

func TestFinalizeTransitionsOnlyOnce(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(time.Date(2026, 10, 5, 12, 0, 0, 0, time.UTC))

	log, err := svc.Start(ctx, ActionManual, access.SystemActor(), Extra{})
	require.NoError(t, err)

	_, err = svc.MarkSuccess(ctx, log.ID, nil, nil)
	require.NoError(t, err)

	_, err = svc.MarkError(ctx, log.ID, errors.New("late"))
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
	_, err = svc.MarkSuccess(ctx, log.ID, nil, nil)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.MarkSuccess(ctx, "missing", nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAssertNotRunThisMonth(t *testing.T) {
	ctx := context.Background()
	october := time.Date(2026, 10, 1, 3, 0, 0, 0, time.UTC)
	svc, _ := newTestService(october)

	require.NoError(t, svc.AssertNotRunThisMonth(ctx, ActionBalanceUpdate, october))
	_, err := svc.StartMonthly(ctx, ActionBalanceUpdate, access.SystemActor(), october, Extra{})
	require.NoError(t, err)

	err = svc.AssertNotRunThisMonth(ctx, ActionBalanceUpdate, october.AddDate(0, 0, 20))
	assert.ErrorIs(t, err, ErrAlreadyRunThisMonth)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	november := october.AddDate(0, 1, 0)
	require.NoError(t, svc.AssertNotRunThisMonth(ctx, ActionBalanceUpdate, november))
	svc.now = func() time.Time { return november }
	_, err = svc.StartMonthly(ctx, ActionBalanceUpdate, access.SystemActor(), november, Extra{})
	require.NoError(t, err)

	ran, err := svc.HasRunThisMonth(ctx, ActionPaymentCreate, november)
	require.NoError(t, err)
	assert.False(t, ran)
}

func TestAssertNotRunThisMonthIgnoresFailedRuns(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 1, 3, 0, 0, 0, time.UTC)
	svc, _ := newTestService(now)

	log, err := svc.StartMonthly(ctx, ActionBalanceUpdate, access.SystemActor(), now, Extra{})
	require.NoError(t, err)
	_, err = svc.MarkError(ctx, log.ID, errors.New("boom"))
	require.NoError(t, err)

	require.NoError(t, svc.AssertNotRunThisMonth(ctx, ActionBalanceUpdate, now))
	_, err = svc.StartMonthly(ctx, ActionBalanceUpdate, access.SystemActor(), now, Extra{})
	require.NoError(t, err)
}

func TestAssertNotRunThisMonthIgnoresLogsOutsideMonthlyRuns(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 1, 3, 0, 0, 0, time.UTC)
	svc, _ := newTestService(now)

	_, err := svc.Create(ctx, CreateInput{ActionType: ActionBalanceUpdate, Status: StatusSuccess}, access.UserActor("u-family"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{ActionType: ActionBalanceUpdate}, access.UserActor("u-family"))
	require.NoError(t, err)

	require.NoError(t, svc.AssertNotRunThisMonth(ctx, ActionBalanceUpdate, now))
}

func TestMarkSkippedReleasesTheMonth(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 1, 3, 0, 0, 0, time.UTC)
	svc, _ := newTestService(now)

	log, err := svc.StartMonthly(ctx, ActionBalanceUpdate, access.SystemActor(), now, Extra{})
	require.NoError(t, err)
	require.NotNil(t, log.RunPeriod)

	skipped, err := svc.MarkSkipped(ctx, log.ID, ptr("sin cuota"), Metadata{"outcome": "no_active_cuota"})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, skipped.Status)
	assert.Nil(t, skipped.RunPeriod)
	assert.Equal(t, "no_active_cuota", skipped.Metadata["outcome"])

	require.NoError(t, svc.AssertNotRunThisMonth(ctx, ActionBalanceUpdate, now.Add(6*time.Hour)))
	_, err = svc.StartMonthly(ctx, ActionBalanceUpdate, access.UserActor("u-admin"), now.Add(6*time.Hour), Extra{})
	require.NoError(t, err)
}

func TestStartMonthlyRejectsSecondLiveRun(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 1, 3, 0, 0, 0, time.UTC)
	svc, _ := newTestService(now)

	_, err := svc.StartMonthly(ctx, ActionBalanceUpdate, access.SystemActor(), now, Extra{})
	require.NoError(t, err)
	_, err = svc.StartMonthly(ctx, ActionBalanceUpdate, access.SystemActor(), now, Extra{})
	assert.ErrorIs(t, err, ErrAlreadyRunThisMonth)
}

func TestListNormalizesPaging(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(time.Date(2026, 10, 5, 12, 0, 0, 0, time.UTC))

	page, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, DefaultTake, page.Take)
	assert.Equal(t, 0, page.Skip)
	assert.Equal(t, SortDesc, repo.listFilter.Order)
	assert.NotNil(t, page.Items)

	_, err = svc.List(ctx, ListFilter{Take: 1000, Skip: -3, Order: "ASC"})
	require.NoError(t, err)
	assert.Equal(t, MaxTake, repo.listFilter.Take)
	assert.Equal(t, 0, repo.listFilter.Skip)
	assert.Equal(t, SortAsc, repo.listFilter.Order)

	from := time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)
	to := from.Add(-time.Hour)
	_, err = svc.List(ctx, ListFilter{From: &from, To: &to})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = svc.List(ctx, ListFilter{Order: "sideways"})
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestMonthWindow(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)
	from, to := MonthWindow(time.Date(2026, 12, 31, 23, 59, 0, 0, loc))
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, loc), from)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, loc), to)
	assert.Equal(t, "2026-12", RunPeriod(from))
}

func TestMetadataScan(t *testing.T) {
	var m Metadata
	require.NoError(t, m.Scan([]byte(`{"a":1}`)))
	assert.Equal(t, Metadata{"a": float64(1)}, m)

	require.NoError(t, m.Scan(nil))
	assert.Equal(t, Metadata{}, m)

	assert.Error(t, m.Scan(42))

	value, err := Metadata(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", value)
}

func TestTrackFinalizesLog(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(time.Date(2026, 10, 5, 12, 0, 0, 0, time.UTC))

	err := svc.Track(ctx, ActionCuotaCreate, access.UserActor("user-1"), Extra{TargetTable: ptr("cuotas")},
		func(context.Context) (Metadata, error) {
			return Metadata{"value": "5000"}, nil
		})
	require.NoError(t, err)

	boom := errors.New("insert failed")
	err = svc.Track(ctx, ActionCuotaActivate, access.UserActor("user-1"), Extra{},
		func(context.Context) (Metadata, error) {
			return nil, boom
		})
	assert.ErrorIs(t, err, boom)

	require.Len(t, repo.order, 2)
	first := repo.logs[repo.order[0]]
	assert.Equal(t, StatusSuccess, first.Status)
	assert.Equal(t, "5000", first.Metadata["value"])
	second := repo.logs[repo.order[1]]
	assert.Equal(t, StatusError, second.Status)
	assert.Equal(t, "insert failed", *second.Message)

	err = svc.Track(ctx, ActionManual, access.Actor{}, Extra{}, func(context.Context) (Metadata, error) {
		t.Fatal("operation must not run without an actor")
		return nil, nil
	})
	assert.ErrorIs(t, err, access.ErrInvalidActor)
}
