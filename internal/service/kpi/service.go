package kpi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/dashboard"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/kpi"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/payroll"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/shift"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/timeaccount"
	"github.com/moritzdotcom/ourshift-backend-go/internal/pkg/timeutil"
	"golang.org/x/sync/singleflight"
)

// PayrollComputer recomputes payroll rows from persisted state.
type PayrollComputer interface {
	ComputeMonth(ctx context.Context, year, monthIndex int) ([]payroll.Row, error)
}

// TimeAccountComputer recomputes time account entries from persisted state.
type TimeAccountComputer interface {
	ComputeMonth(ctx context.Context, year, monthIndex int) ([]timeaccount.Entry, error)
}

// Service is the cache engine: it serves cached monthly aggregates and
// recomputes them when they are absent, past their TTL, or older than the
// latest change to any input. Concurrent requests for the same key are
// coalesced; duplicate computation would be wasted work, not a correctness
// hazard, since recomputation is deterministic.
type Service struct {
	repo        kpi.KpiRepository
	payroll     PayrollComputer
	timeAccount TimeAccountComputer
	shiftRepo   shift.ShiftRepository
	cal         timeutil.Calendar
	maxAge      time.Duration

	group singleflight.Group
	now   func() time.Time
}

func NewService(
	repo kpi.KpiRepository,
	payrollComputer PayrollComputer,
	timeAccountComputer TimeAccountComputer,
	shiftRepo shift.ShiftRepository,
	cal timeutil.Calendar,
	maxAge time.Duration,
) *Service {
	return &Service{
		repo:        repo,
		payroll:     payrollComputer,
		timeAccount: timeAccountComputer,
		shiftRepo:   shiftRepo,
		cal:         cal,
		maxAge:      maxAge,
		now:         time.Now,
	}
}

// GetOrRecalc is the sole entry point for readers: it returns the cached
// entry for (kind, year, monthIndex), recomputing it first when it is stale
// or force is set.
func (s *Service) GetOrRecalc(ctx context.Context, kind kpi.Kind, year, monthIndex int, force bool) (kpi.Entry, error) {
	if !kind.Valid() {
		return kpi.Entry{}, kpi.ErrInvalidKind
	}
	if err := kpi.ValidatePeriod(year, monthIndex); err != nil {
		return kpi.Entry{}, err
	}

	key := kpi.Key{Kind: kind, Year: year, MonthIndex: monthIndex}
	v, err, _ := s.group.Do(flightKey(key), func() (any, error) {
		return s.getOrRecalc(ctx, key, force)
	})
	if err != nil {
		return kpi.Entry{}, err
	}
	return v.(kpi.Entry), nil
}

// RecalcResult is the outcome of a full monthly recalculation. The two
// upserts are independent; a failure in between leaves the other kind to be
// re-evaluated on its next read.
type RecalcResult struct {
	Payroll   kpi.Entry `json:"payroll"`
	Dashboard kpi.Entry `json:"dashboard"`
}

// RecalcAll force-recomputes the payroll and dashboard caches for the month.
// Meant to run after bulk mutations of shifts.
func (s *Service) RecalcAll(ctx context.Context, year, monthIndex int) (RecalcResult, error) {
	payrollEntry, err := s.GetOrRecalc(ctx, kpi.KindPayroll, year, monthIndex, true)
	if err != nil {
		return RecalcResult{}, err
	}
	dashboardEntry, err := s.GetOrRecalc(ctx, kpi.KindDashboard, year, monthIndex, true)
	if err != nil {
		return RecalcResult{}, err
	}
	return RecalcResult{Payroll: payrollEntry, Dashboard: dashboardEntry}, nil
}

func (s *Service) getOrRecalc(ctx context.Context, key kpi.Key, force bool) (kpi.Entry, error) {
	// The dependency timestamp is captured before the inputs are read, so a
	// change racing the computation makes the stored entry stale on its next
	// read rather than silently fresh.
	from, to := s.depsWindow(key)
	deps, err := s.repo.DepsUpdatedAt(ctx, from, to)
	if err != nil {
		return kpi.Entry{}, fmt.Errorf("failed to read dependency timestamps: %w", err)
	}

	if !force {
		cached, err := s.repo.Get(ctx, key)
		switch {
		case err == nil:
			if !cached.Stale(s.now(), s.maxAge, deps) {
				return cached, nil
			}
		case !errors.Is(err, kpi.ErrCacheEntryNotFound):
			return kpi.Entry{}, fmt.Errorf("failed to read cache entry: %w", err)
		}
	}

	payload, err := s.computePayload(ctx, key)
	if err != nil {
		return kpi.Entry{}, err
	}

	stored, err := s.repo.Upsert(ctx, kpi.Entry{
		Kind:              key.Kind,
		Year:              key.Year,
		MonthIndex:        key.MonthIndex,
		Payload:           payload,
		CalculationDoneAt: s.now(),
		DepsUpdatedAt:     deps,
	})
	if err != nil {
		return kpi.Entry{}, fmt.Errorf("failed to store cache entry: %w", err)
	}
	return stored, nil
}

func (s *Service) computePayload(ctx context.Context, key kpi.Key) (json.RawMessage, error) {
	switch key.Kind {
	case kpi.KindPayroll:
		rows, err := s.payroll.ComputeMonth(ctx, key.Year, key.MonthIndex)
		if err != nil {
			return nil, fmt.Errorf("failed to compute payroll: %w", err)
		}
		return json.Marshal(rows)
	case kpi.KindTimeAccount:
		entries, err := s.timeAccount.ComputeMonth(ctx, key.Year, key.MonthIndex)
		if err != nil {
			return nil, fmt.Errorf("failed to compute time account: %w", err)
		}
		return json.Marshal(entries)
	case kpi.KindDashboard:
		summary, err := s.buildDashboard(ctx, key.Year, key.MonthIndex)
		if err != nil {
			return nil, err
		}
		return json.Marshal(summary)
	}
	return nil, kpi.ErrInvalidKind
}

// buildDashboard assembles the summary from the month's payroll rows plus
// raw shift data. The cost trend covers the target month and the five before
// it; each month's payroll cache is ensured through the regular get-or-recalc
// path in an explicit bounded loop, never by recursing through the dashboard
// kind itself.
func (s *Service) buildDashboard(ctx context.Context, year, monthIndex int) (dashboard.Summary, error) {
	summary := dashboard.Summary{
		Year:       year,
		MonthIndex: monthIndex,
		CostTrend:  make([]dashboard.CostTrendPoint, 0, kpi.CostTrendMonths),
	}

	for i := kpi.CostTrendMonths - 1; i >= 0; i-- {
		y, m := addMonths(year, monthIndex, -i)

		entry, err := s.GetOrRecalc(ctx, kpi.KindPayroll, y, m, false)
		if err != nil {
			return dashboard.Summary{}, fmt.Errorf("failed to ensure payroll cache for %d/%d: %w", y, m, err)
		}

		var rows []payroll.Row
		if err := json.Unmarshal(entry.Payload, &rows); err != nil {
			return dashboard.Summary{}, fmt.Errorf("failed to decode payroll payload for %d/%d: %w", y, m, err)
		}

		var gross int64
		for _, r := range rows {
			gross += r.GrossCents
		}
		summary.CostTrend = append(summary.CostTrend, dashboard.CostTrendPoint{Year: y, MonthIndex: m, GrossCents: gross})

		if i == 0 {
			summary.EmployeeCount = len(rows)
			summary.TotalGrossCents = gross
			for _, r := range rows {
				summary.MonthMinutes += r.MonthMinutes
				summary.TotalSupplementsCents += r.SupplementsTotalCents
			}
		}
	}

	from, to := s.cal.MonthBounds(year, monthIndex)
	shifts, err := s.shiftRepo.GetOverlapping(ctx, from, to)
	if err != nil {
		return dashboard.Summary{}, fmt.Errorf("failed to load shifts: %w", err)
	}
	summary.ShiftCount = len(shifts)

	return summary, nil
}

// depsWindow is the time range whose input changes invalidate the entry. It
// matches what the computation actually reads: the month itself for payroll,
// back to the prior year's start for time accounts (vacation carry), and
// back to the trend's first month for the dashboard.
func (s *Service) depsWindow(key kpi.Key) (time.Time, time.Time) {
	from, to := s.cal.MonthBounds(key.Year, key.MonthIndex)
	switch key.Kind {
	case kpi.KindTimeAccount:
		from = time.Date(key.Year-1, time.January, 1, 0, 0, 0, 0, s.cal.Location())
	case kpi.KindDashboard:
		y, m := addMonths(key.Year, key.MonthIndex, -(kpi.CostTrendMonths - 1))
		from, _ = s.cal.MonthBounds(y, m)
	}
	return from, to
}

func flightKey(key kpi.Key) string {
	return fmt.Sprintf("%s:%d:%d", key.Kind, key.Year, key.MonthIndex)
}

func addMonths(year, monthIndex, delta int) (int, int) {
	total := year*12 + monthIndex + delta
	return total / 12, total % 12
}
