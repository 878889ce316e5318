package kpi

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/dashboard"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/kpi"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/payroll"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/shift"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/timeaccount"
	"github.com/moritzdotcom/ourshift-backend-go/internal/pkg/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubKpiRepo struct {
	entries map[kpi.Key]kpi.Entry
	deps    *time.Time
	upserts int
}

func newStubKpiRepo() *stubKpiRepo {
	return &stubKpiRepo{entries: make(map[kpi.Key]kpi.Entry)}
}

func (r *stubKpiRepo) Get(_ context.Context, key kpi.Key) (kpi.Entry, error) {
	e, ok := r.entries[key]
	if !ok {
		return kpi.Entry{}, kpi.ErrCacheEntryNotFound
	}
	return e, nil
}

func (r *stubKpiRepo) Upsert(_ context.Context, entry kpi.Entry) (kpi.Entry, error) {
	r.upserts++
	if entry.ID == "" {
		entry.ID = "stub-id"
	}
	r.entries[entry.Key()] = entry
	return entry, nil
}

func (r *stubKpiRepo) DepsUpdatedAt(_ context.Context, _, _ time.Time) (*time.Time, error) {
	return r.deps, nil
}

type stubPayrollComputer struct {
	calls int
	rows  []payroll.Row
}

func (p *stubPayrollComputer) ComputeMonth(_ context.Context, _, _ int) ([]payroll.Row, error) {
	p.calls++
	return p.rows, nil
}

type stubTimeAccountComputer struct {
	calls   int
	entries []timeaccount.Entry
}

func (p *stubTimeAccountComputer) ComputeMonth(_ context.Context, _, _ int) ([]timeaccount.Entry, error) {
	p.calls++
	return p.entries, nil
}

type stubShiftRepo struct {
	shifts []shift.Shift
}

func (r *stubShiftRepo) GetOverlapping(_ context.Context, _, _ time.Time) ([]shift.Shift, error) {
	return r.shifts, nil
}

type testEnv struct {
	svc         *Service
	repo        *stubKpiRepo
	payroll     *stubPayrollComputer
	timeAccount *stubTimeAccountComputer
	now         time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	env := &testEnv{
		repo: newStubKpiRepo(),
		payroll: &stubPayrollComputer{rows: []payroll.Row{
			{UserID: "u1", UserName: "Anna", MonthMinutes: 480, SupplementsTotalCents: 2000, GrossCents: 18000},
			{UserID: "u2", UserName: "Bernd", MonthMinutes: 600, SupplementsTotalCents: 0, GrossCents: 20000},
		}},
		timeAccount: &stubTimeAccountComputer{entries: []timeaccount.Entry{{UserID: "u1", UserName: "Anna"}}},
		now:         time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC),
	}
	env.svc = NewService(env.repo, env.payroll, env.timeAccount,
		&stubShiftRepo{shifts: make([]shift.Shift, 3)},
		timeutil.NewCalendar(loc), time.Hour)
	env.svc.now = func() time.Time { return env.now }
	return env
}

func TestGetOrRecalc_AbsentEntryIsComputedAndStored(t *testing.T) {
	env := newTestEnv(t)

	entry, err := env.svc.GetOrRecalc(context.Background(), kpi.KindPayroll, 2025, 2, false)
	require.NoError(t, err)

	assert.Equal(t, 1, env.payroll.calls)
	assert.Equal(t, 1, env.repo.upserts)
	assert.Equal(t, kpi.KindPayroll, entry.Kind)
	assert.Equal(t, env.now, entry.CalculationDoneAt)

	var rows []payroll.Row
	require.NoError(t, json.Unmarshal(entry.Payload, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, int64(18000), rows[0].GrossCents)
}

func TestGetOrRecalc_FreshEntryServedFromCache(t *testing.T) {
	env := newTestEnv(t)
	deps := env.now.Add(-time.Minute)
	env.repo.deps = &deps

	_, err := env.svc.GetOrRecalc(context.Background(), kpi.KindPayroll, 2025, 2, false)
	require.NoError(t, err)

	// ten minutes later, nothing changed
	env.now = env.now.Add(10 * time.Minute)
	_, err = env.svc.GetOrRecalc(context.Background(), kpi.KindPayroll, 2025, 2, false)
	require.NoError(t, err)

	assert.Equal(t, 1, env.payroll.calls)
	assert.Equal(t, 1, env.repo.upserts)
}

func TestGetOrRecalc_StaleWhenDependencyTouched(t *testing.T) {
	env := newTestEnv(t)
	deps := env.now.Add(-time.Minute)
	env.repo.deps = &deps

	_, err := env.svc.GetOrRecalc(context.Background(), kpi.KindPayroll, 2025, 2, false)
	require.NoError(t, err)

	// a shift in the month is updated after the calculation
	touched := env.now.Add(time.Minute)
	env.repo.deps = &touched
	env.now = env.now.Add(10 * time.Minute)

	_, err = env.svc.GetOrRecalc(context.Background(), kpi.KindPayroll, 2025, 2, false)
	require.NoError(t, err)

	assert.Equal(t, 2, env.payroll.calls)
	assert.Equal(t, 2, env.repo.upserts)
}

func TestGetOrRecalc_StaleAfterTTL(t *testing.T) {
	env := newTestEnv(t)
	deps := env.now.Add(-time.Minute)
	env.repo.deps = &deps

	_, err := env.svc.GetOrRecalc(context.Background(), kpi.KindPayroll, 2025, 2, false)
	require.NoError(t, err)

	env.now = env.now.Add(2 * time.Hour)
	_, err = env.svc.GetOrRecalc(context.Background(), kpi.KindPayroll, 2025, 2, false)
	require.NoError(t, err)

	assert.Equal(t, 2, env.payroll.calls)
}

func TestGetOrRecalc_MissingStoredDepsIsStale(t *testing.T) {
	env := newTestEnv(t)

	// first computation observes no dependency rows at all
	_, err := env.svc.GetOrRecalc(context.Background(), kpi.KindPayroll, 2025, 2, false)
	require.NoError(t, err)

	_, err = env.svc.GetOrRecalc(context.Background(), kpi.KindPayroll, 2025, 2, false)
	require.NoError(t, err)

	assert.Equal(t, 2, env.payroll.calls)
}

func TestGetOrRecalc_ForceAlwaysRecomputes(t *testing.T) {
	env := newTestEnv(t)
	deps := env.now.Add(-time.Minute)
	env.repo.deps = &deps

	_, err := env.svc.GetOrRecalc(context.Background(), kpi.KindPayroll, 2025, 2, false)
	require.NoError(t, err)
	_, err = env.svc.GetOrRecalc(context.Background(), kpi.KindPayroll, 2025, 2, true)
	require.NoError(t, err)

	assert.Equal(t, 2, env.payroll.calls)
	assert.Equal(t, 2, env.repo.upserts)
}

func TestGetOrRecalc_ValidatesKindAndPeriod(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.GetOrRecalc(ctx, kpi.Kind("NONSENSE"), 2025, 2, false)
	assert.ErrorIs(t, err, kpi.ErrInvalidKind)

	_, err = env.svc.GetOrRecalc(ctx, kpi.KindPayroll, 2025, 12, false)
	assert.ErrorIs(t, err, kpi.ErrInvalidPeriod)

	_, err = env.svc.GetOrRecalc(ctx, kpi.KindPayroll, 2025, -1, false)
	assert.ErrorIs(t, err, kpi.ErrInvalidPeriod)

	assert.Equal(t, 0, env.payroll.calls)
}

func TestGetOrRecalc_TimeAccountKind(t *testing.T) {
	env := newTestEnv(t)

	entry, err := env.svc.GetOrRecalc(context.Background(), kpi.KindTimeAccount, 2025, 2, false)
	require.NoError(t, err)

	assert.Equal(t, 1, env.timeAccount.calls)
	var entries []timeaccount.Entry
	require.NoError(t, json.Unmarshal(entry.Payload, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "u1", entries[0].UserID)
}

func TestGetOrRecalc_DashboardEnsuresTrendMonths(t *testing.T) {
	env := newTestEnv(t)
	deps := env.now.Add(-time.Minute)
	env.repo.deps = &deps

	entry, err := env.svc.GetOrRecalc(context.Background(), kpi.KindDashboard, 2025, 2, false)
	require.NoError(t, err)

	// six payroll caches ensured, March 2025 back to October 2024
	assert.Equal(t, 6, env.payroll.calls)

	var summary dashboard.Summary
	require.NoError(t, json.Unmarshal(entry.Payload, &summary))

	assert.Equal(t, 2025, summary.Year)
	assert.Equal(t, 2, summary.MonthIndex)
	assert.Equal(t, 2, summary.EmployeeCount)
	assert.Equal(t, 3, summary.ShiftCount)
	assert.Equal(t, 1080, summary.MonthMinutes)
	assert.Equal(t, int64(38000), summary.TotalGrossCents)
	assert.Equal(t, int64(2000), summary.TotalSupplementsCents)

	require.Len(t, summary.CostTrend, kpi.CostTrendMonths)
	assert.Equal(t, dashboard.CostTrendPoint{Year: 2024, MonthIndex: 9, GrossCents: 38000}, summary.CostTrend[0])
	assert.Equal(t, dashboard.CostTrendPoint{Year: 2025, MonthIndex: 2, GrossCents: 38000}, summary.CostTrend[5])
}

func TestGetOrRecalc_DashboardReusesFreshPayrollCaches(t *testing.T) {
	env := newTestEnv(t)
	deps := env.now.Add(-time.Minute)
	env.repo.deps = &deps

	_, err := env.svc.GetOrRecalc(context.Background(), kpi.KindDashboard, 2025, 2, false)
	require.NoError(t, err)
	_, err = env.svc.GetOrRecalc(context.Background(), kpi.KindDashboard, 2025, 2, true)
	require.NoError(t, err)

	// the forced dashboard rebuild reuses the six fresh payroll caches
	assert.Equal(t, 6, env.payroll.calls)
}

func TestRecalcAll_ForcesPayrollAndDashboard(t *testing.T) {
	env := newTestEnv(t)
	deps := env.now.Add(-time.Minute)
	env.repo.deps = &deps

	res, err := env.svc.RecalcAll(context.Background(), 2025, 2)
	require.NoError(t, err)

	assert.Equal(t, kpi.KindPayroll, res.Payroll.Kind)
	assert.Equal(t, kpi.KindDashboard, res.Dashboard.Kind)

	// target month forced, five trend months computed once each
	assert.Equal(t, 6, env.payroll.calls)

	_, ok := env.repo.entries[kpi.Key{Kind: kpi.KindDashboard, Year: 2025, MonthIndex: 2}]
	assert.True(t, ok)
}

func TestRecalcAll_InvalidPeriod(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.RecalcAll(context.Background(), 2025, 12)
	assert.ErrorIs(t, err, kpi.ErrInvalidPeriod)
}
