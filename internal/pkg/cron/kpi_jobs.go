package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/kpi"
	"github.com/moritzdotcom/ourshift-backend-go/internal/pkg/timeutil"
)

// KpiRefresher is the cache engine surface the refresh job needs.
type KpiRefresher interface {
	GetOrRecalc(ctx context.Context, kind kpi.Kind, year, monthIndex int, force bool) (kpi.Entry, error)
}

// KpiJobs contains cache-refresh cron jobs
type KpiJobs struct {
	kpiService KpiRefresher
	cal        timeutil.Calendar
}

// NewKpiJobs creates cache-refresh cron jobs
func NewKpiJobs(kpiService KpiRefresher, cal timeutil.Calendar) *KpiJobs {
	return &KpiJobs{kpiService: kpiService, cal: cal}
}

// RegisterJobs registers all cache-refresh cron jobs
func (j *KpiJobs) RegisterJobs(scheduler *Scheduler) {
	// Refresh the current month's caches every hour. Staleness makes this a
	// cheap no-op when no input has changed since the last calculation.
	scheduler.AddJob(
		"refresh_current_month_kpis",
		1*time.Hour,
		j.RefreshCurrentMonth,
	)
}

// RefreshCurrentMonth runs the regular get-or-recalc path for the current
// month's payroll and dashboard caches.
func (j *KpiJobs) RefreshCurrentMonth(ctx context.Context) error {
	now := time.Now().In(j.cal.Location())
	year, monthIndex := now.Year(), int(now.Month())-1

	for _, kind := range []kpi.Kind{kpi.KindPayroll, kpi.KindDashboard} {
		if _, err := j.kpiService.GetOrRecalc(ctx, kind, year, monthIndex, false); err != nil {
			return fmt.Errorf("failed to refresh %s cache: %w", kind, err)
		}
		slog.Debug("Cron: KPI cache refreshed", "kind", kind, "year", year, "month", monthIndex)
	}
	return nil
}
