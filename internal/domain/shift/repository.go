package shift

import (
	"context"
	"time"
)

type ShiftRepository interface {
	// GetOverlapping returns shifts intersecting [from, to] by planned
	// times (end >= from AND start <= to), ordered by start, id.
	GetOverlapping(ctx context.Context, from, to time.Time) ([]Shift, error)
}
