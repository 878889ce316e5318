package kpi

import (
	"context"
	"time"
)

// KpiRepository persists cache entries and answers the dependency-freshness
// question for a month window.
type KpiRepository interface {
	// Get returns the cached entry for the key or ErrCacheEntryNotFound.
	Get(ctx context.Context, key Key) (Entry, error)

	// Upsert replaces the entry for its key atomically and returns the
	// stored row.
	Upsert(ctx context.Context, entry Entry) (Entry, error)

	// DepsUpdatedAt returns the latest updated_at across shifts overlapping
	// [from, to], holidays within it, and all pay rules, contracts and
	// users. Nil when none of the tables hold any rows.
	DepsUpdatedAt(ctx context.Context, from, to time.Time) (*time.Time, error)
}
