package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"family-dues-go/internal/domain/cuota"
	"family-dues-go/internal/domain/family"
	"family-dues-go/internal/domain/rama"
	"family-dues-go/internal/domain/transaction"
	"family-dues-go/pkg/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var hundred = decimal.NewFromInt(100)

type Service struct {
	ramas        RamaSource
	cuotas       CuotaSource
	families     FamilySource
	transactions TransactionSource
	cache        Cache
	log          logger.Logger
	loc          *time.Location
}

func NewService(ramas RamaSource, cuotas CuotaSource, families FamilySource, transactions TransactionSource, cache Cache, log logger.Logger, loc *time.Location) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		ramas:        ramas,
		cuotas:       cuotas,
		families:     families,
		transactions: transactions,
		cache:        cache,
		log:          log,
		loc:          loc,
	}
}

// Invalidate drops every cached report. Writers that change expected or
// collected amounts call it after committing.
func (s *Service) Invalidate(ctx context.Context) {
	s.cache.Bump(ctx)
}

// Cobrabilidad reports, per rama, the dues expected for the month against the
// CUOTA income actually collected in it.
func (s *Service) Cobrabilidad(ctx context.Context, month, year int) ([]BranchRate, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	if year < 1000 || year > 9999 {
		return nil, ErrInvalidYear
	}

	key := fmt.Sprintf("cobrabilidad:%04d-%02d", year, month)
	// Read before loading: a write landing mid-load bumps the version and
	// the result below is then not cached.
	version, versionErr := s.cache.Version(ctx)
	if versionErr != nil {
		s.log.Warn("stats.cobrabilidad: cache version unavailable", "err", versionErr)
	}
	if cached, ok := s.cache.Get(ctx, key); ok {
		return cached, nil
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 1, 0)

	var (
		ramas     []rama.Rama
		policy    *cuota.Cuota
		overrides []cuota.SiblingOverride
		families  []family.Family
		incomes   []transaction.Transaction
	)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		ramas, err = s.ramas.List(gctx)
		return err
	})
	group.Go(func() error {
		active, err := s.cuotas.Active(gctx)
		if errors.Is(err, cuota.ErrNoActiveCuota) {
			return nil
		}
		policy = active
		return err
	})
	group.Go(func() error {
		var err error
		overrides, err = s.cuotas.ListOverrides(gctx)
		return err
	})
	group.Go(func() error {
		var err error
		families, err = s.families.ListForBilling(gctx)
		return err
	})
	group.Go(func() error {
		var err error
		incomes, err = s.transactions.ListInRange(gctx, transaction.DirectionIncome, transaction.CategoryCuota, from, to)
		return err
	})
	if err := group.Wait(); err != nil {
		s.log.InternalError("stats.cobrabilidad: load failed", err, "month", month, "year", year)
		return nil, err
	}

	rates := Compute(ramas, policy, overrides, families, incomes)
	if versionErr == nil {
		s.cache.Set(ctx, key, version, rates)
	}
	return rates, nil
}

// Compute builds the report from already loaded inputs. Expected amounts are
// grouped by the family's rama and collected amounts by the rama of the
// transaction's family; rows follow the order of ramas.
func Compute(ramas []rama.Rama, policy *cuota.Cuota, overrides []cuota.SiblingOverride, families []family.Family, incomes []transaction.Transaction) []BranchRate {
	expected := make(map[string]decimal.Decimal, len(ramas))
	collected := make(map[string]decimal.Decimal, len(ramas))
	familyRama := make(map[string]string, len(families))

	for _, f := range families {
		if f.RamaID == nil {
			continue
		}
		familyRama[f.ID] = *f.RamaID
		expected[*f.RamaID] = expected[*f.RamaID].Add(cuota.ExpectedDue(f, policy, overrides))
	}

	for _, txn := range incomes {
		if txn.FamilyID == nil {
			continue
		}
		ramaID, ok := familyRama[*txn.FamilyID]
		if !ok {
			continue
		}
		collected[ramaID] = collected[ramaID].Add(txn.Amount)
	}

	rates := make([]BranchRate, 0, len(ramas))
	for _, r := range ramas {
		exp := expected[r.ID]
		col := collected[r.ID]

		rate := decimal.Zero
		if !exp.IsZero() {
			rate = col.Div(exp).Mul(hundred)
		}

		rates = append(rates, BranchRate{
			RamaID:         r.ID,
			Rama:           r.Name,
			TotalExpected:  exp.Round(2),
			TotalCollected: col.Round(2),
			CollectionRate: rate.Round(2),
		})
	}
	return rates
}
