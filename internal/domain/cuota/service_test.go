package cuota

import (
	"context"
	"sort"
	"testing"

	"family-dues-go/internal/domain/access"
	"family-dues-go/internal/domain/actionlog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	cuotas    map[string]*Cuota
	overrides map[string]*SiblingOverride
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		cuotas:    make(map[string]*Cuota),
		overrides: make(map[string]*SiblingOverride),
	}
}

func (r *fakeRepo) Transaction(_ context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) List(context.Context) ([]Cuota, error) {
	out := make([]Cuota, 0, len(r.cuotas))
	for _, c := range r.cuotas {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Cuota, error) {
	c, ok := r.cuotas[id]
	if !ok {
		return nil, ErrCuotaNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeRepo) GetActive(context.Context) (*Cuota, error) {
	for _, c := range r.cuotas {
		if c.IsActive {
			copied := *c
			return &copied, nil
		}
	}
	return nil, ErrNoActiveCuota
}

func (r *fakeRepo) Create(_ context.Context, cuota *Cuota) error {
	copied := *cuota
	r.cuotas[cuota.ID] = &copied
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, cuota *Cuota) error {
	return r.Create(ctx, cuota)
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	delete(r.cuotas, id)
	return nil
}

func (r *fakeRepo) DeactivateAllExcept(_ context.Context, id string) error {
	for _, c := range r.cuotas {
		if c.ID != id {
			c.IsActive = false
		}
	}
	return nil
}

func (r *fakeRepo) ListOverrides(context.Context) ([]SiblingOverride, error) {
	out := make([]SiblingOverride, 0, len(r.overrides))
	for _, o := range r.overrides {
		out = append(out, *o)
	}
	return out, nil
}

func (r *fakeRepo) GetOverride(_ context.Context, id string) (*SiblingOverride, error) {
	o, ok := r.overrides[id]
	if !ok {
		return nil, ErrOverrideNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *fakeRepo) CreateOverride(_ context.Context, override *SiblingOverride) error {
	for _, o := range r.overrides {
		if o.ID != override.ID && o.Cantidad == override.Cantidad {
			return ErrDuplicatedCantidad
		}
	}
	copied := *override
	r.overrides[override.ID] = &copied
	return nil
}

func (r *fakeRepo) UpdateOverride(ctx context.Context, override *SiblingOverride) error {
	return r.CreateOverride(ctx, override)
}

func (r *fakeRepo) DeleteOverride(_ context.Context, id string) error {
	delete(r.overrides, id)
	return nil
}

type fakeRecorder struct {
	tracked []actionlog.ActionType
}

func (r *fakeRecorder) Track(ctx context.Context, actionType actionlog.ActionType, actor access.Actor, _ actionlog.Extra, op func(context.Context) (actionlog.Metadata, error)) error {
	if _, err := actor.ID(); err != nil {
		return err
	}
	r.tracked = append(r.tracked, actionType)
	_, err := op(ctx)
	return err
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) {
	c.calls++
}

func TestActivateKeepsSingleActive(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	recorder := &fakeRecorder{}
	reports := &countingInvalidator{}
	svc := NewService(repo, recorder, reports)
	actor := access.UserActor("admin")

	first, err := svc.Create(ctx, Input{Value: decimal.NewFromInt(4000), IsActive: true}, actor)
	require.NoError(t, err)
	second, err := svc.Create(ctx, Input{Value: decimal.NewFromInt(5000), IsActive: true}, actor)
	require.NoError(t, err)

	active, err := svc.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.False(t, repo.cuotas[first.ID].IsActive)

	activated, err := svc.Activate(ctx, first.ID, actor)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)
	assert.False(t, repo.cuotas[second.ID].IsActive)

	count := 0
	for _, c := range repo.cuotas {
		if c.IsActive {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, []actionlog.ActionType{
		actionlog.ActionCuotaCreate,
		actionlog.ActionCuotaCreate,
		actionlog.ActionCuotaActivate,
	}, recorder.tracked)
	assert.Equal(t, 3, reports.calls)

	_, err = svc.Activate(ctx, "missing", actor)
	assert.ErrorIs(t, err, ErrCuotaNotFound)
}

func TestDeleteActiveCuotaIsRejected(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo, &fakeRecorder{}, &countingInvalidator{})

	active, err := svc.Create(ctx, Input{Value: decimal.NewFromInt(4000), IsActive: true}, access.SystemActor())
	require.NoError(t, err)
	inactive, err := svc.Create(ctx, Input{Value: decimal.NewFromInt(3000)}, access.SystemActor())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, active.ID), ErrActiveCuotaDelete)
	require.NoError(t, svc.Delete(ctx, inactive.ID))

	_, err = svc.Create(ctx, Input{Value: decimal.NewFromInt(-1)}, access.SystemActor())
	assert.ErrorIs(t, err, ErrNegativeValue)
}

func TestOverrides(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), &fakeRecorder{}, &countingInvalidator{})

	override, err := svc.CreateOverride(ctx, OverrideInput{Cantidad: 2, Valor: decimal.NewFromInt(3000)})
	require.NoError(t, err)

	_, err = svc.CreateOverride(ctx, OverrideInput{Cantidad: 2, Valor: decimal.NewFromInt(2500)})
	assert.ErrorIs(t, err, ErrDuplicatedCantidad)

	_, err = svc.CreateOverride(ctx, OverrideInput{Cantidad: 0, Valor: decimal.NewFromInt(2500)})
	assert.ErrorIs(t, err, ErrInvalidCantidad)

	updated, err := svc.UpdateOverride(ctx, override.ID, OverrideInput{Cantidad: 3, Valor: decimal.NewFromInt(2800)})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Cantidad)

	require.NoError(t, svc.DeleteOverride(ctx, override.ID))
	assert.ErrorIs(t, svc.DeleteOverride(ctx, override.ID), ErrOverrideNotFound)
}
