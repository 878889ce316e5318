package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/kpi"
	"github.com/moritzdotcom/ourshift-backend-go/internal/handler/http/response"
	"github.com/moritzdotcom/ourshift-backend-go/internal/pkg/timeutil"
	kpiservice "github.com/moritzdotcom/ourshift-backend-go/internal/service/kpi"
)

// KpiService is the cache engine surface the handlers need.
type KpiService interface {
	GetOrRecalc(ctx context.Context, kind kpi.Kind, year, monthIndex int, force bool) (kpi.Entry, error)
	RecalcAll(ctx context.Context, year, monthIndex int) (kpiservice.RecalcResult, error)
}

type KpiHandler interface {
	// GetPayroll returns the month's payroll rows, recomputing when stale
	GetPayroll(w http.ResponseWriter, r *http.Request)
	// GetTimeAccount returns the month's time account entries
	GetTimeAccount(w http.ResponseWriter, r *http.Request)
	// GetDashboard returns the month's dashboard summary
	GetDashboard(w http.ResponseWriter, r *http.Request)
	// RecalcAll force-recomputes payroll and dashboard for a month
	RecalcAll(w http.ResponseWriter, r *http.Request)
}

type kpiHandlerImpl struct {
	kpiService KpiService
	cal        timeutil.Calendar
}

func NewKpiHandler(kpiService KpiService, cal timeutil.Calendar) KpiHandler {
	return &kpiHandlerImpl{kpiService: kpiService, cal: cal}
}

// GetPayroll handles GET /payroll?year=&month=&force=
func (h *kpiHandlerImpl) GetPayroll(w http.ResponseWriter, r *http.Request) {
	h.serveKind(w, r, kpi.KindPayroll)
}

// GetTimeAccount handles GET /time-account?year=&month=&force=
func (h *kpiHandlerImpl) GetTimeAccount(w http.ResponseWriter, r *http.Request) {
	h.serveKind(w, r, kpi.KindTimeAccount)
}

// GetDashboard handles GET /dashboard?year=&month=&force=
func (h *kpiHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	h.serveKind(w, r, kpi.KindDashboard)
}

func (h *kpiHandlerImpl) serveKind(w http.ResponseWriter, r *http.Request, kind kpi.Kind) {
	year, monthIndex, ok := h.parsePeriod(w, r)
	if !ok {
		return
	}
	force := r.URL.Query().Get("force") == "true"

	entry, err := h.kpiService.GetOrRecalc(r.Context(), kind, year, monthIndex, force)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entry)
}

// RecalcAll handles POST /kpi/recalc
func (h *kpiHandlerImpl) RecalcAll(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Year       int `json:"year"`
		MonthIndex int `json:"monthIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.kpiService.RecalcAll(r.Context(), req.Year, req.MonthIndex)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Recalculation completed", result)
}

// parsePeriod reads year and month (zero-based) from the query string,
// defaulting to the current month in the business timezone.
func (h *kpiHandlerImpl) parsePeriod(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	now := time.Now().In(h.cal.Location())
	year, monthIndex := now.Year(), int(now.Month())-1

	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "Invalid query parameters", map[string]string{"year": "must be an integer"})
			return 0, 0, false
		}
		year = parsed
	}
	if v := q.Get("month"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "Invalid query parameters", map[string]string{"month": "must be an integer (January = 0)"})
			return 0, 0, false
		}
		monthIndex = parsed
	}
	return year, monthIndex, true
}
