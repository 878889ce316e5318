package contract

import (
	"context"
	"time"
)

// ContractRepository loads employment contracts. Implementations must
// return contracts ordered by valid_from ascending (then id) so ResolveAt
// yields most-recent-wins semantics.
type ContractRepository interface {
	// GetOverlapping returns every contract whose validity range intersects
	// [from, to], grouped per user in ValidFrom order.
	GetOverlapping(ctx context.Context, from, to time.Time) (map[string][]Contract, error)
}
