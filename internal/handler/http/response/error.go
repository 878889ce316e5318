package response

import (
	"errors"
	"net/http"

	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/kpi"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	switch {
	// KPI domain errors
	case errors.Is(err, kpi.ErrInvalidPeriod):
		BadRequest(w, "Invalid year or month", nil)
	case errors.Is(err, kpi.ErrInvalidKind):
		BadRequest(w, "Unknown cache kind", nil)
	case errors.Is(err, kpi.ErrCacheEntryNotFound):
		NotFound(w, "Cache entry not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
