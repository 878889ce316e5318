package vacation

import (
	"context"
	"time"
)

type VacationRepository interface {
	// GetBetween returns vacation days with date in [from, to], ordered by
	// user_id, date.
	GetBetween(ctx context.Context, from, to time.Time) ([]VacationDay, error)
}
