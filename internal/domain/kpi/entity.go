package kpi

import (
	"encoding/json"
	"time"
)

// Kind selects which monthly aggregate a cache entry holds.
type Kind string

const (
	KindPayroll     Kind = "PAYROLL"
	KindTimeAccount Kind = "TIMEACCOUNT"
	KindDashboard   Kind = "DASHBOARD"
)

// Valid reports whether k is a known cache kind.
func (k Kind) Valid() bool {
	switch k {
	case KindPayroll, KindTimeAccount, KindDashboard:
		return true
	}
	return false
}

// Key is the composite cache identity. MonthIndex is zero-based
// (January = 0), matching the wire convention.
type Key struct {
	Kind       Kind
	Year       int
	MonthIndex int
}

// Entry is one persisted monthly aggregate. Payload is the opaque computed
// result; CalculationDoneAt and DepsUpdatedAt drive the staleness decision.
// Entries are replaced by upsert on recomputation, never deleted.
type Entry struct {
	ID                string          `json:"-"`
	Kind              Kind            `json:"kind"`
	Year              int             `json:"year"`
	MonthIndex        int             `json:"monthIndex"`
	Payload           json.RawMessage `json:"payload"`
	CalculationDoneAt time.Time       `json:"calculationDoneAt"`
	DepsUpdatedAt     *time.Time      `json:"depsUpdatedAt"`
	CreatedAt         time.Time       `json:"-"`
	UpdatedAt         time.Time       `json:"-"`
}

// Key returns the entry's composite identity.
func (e Entry) Key() Key {
	return Key{Kind: e.Kind, Year: e.Year, MonthIndex: e.MonthIndex}
}

// Stale decides whether the entry must be recomputed: past its TTL, missing
// a dependency timestamp, or older than the latest change to any input.
func (e Entry) Stale(now time.Time, maxAge time.Duration, depsUpdatedAt *time.Time) bool {
	if now.Sub(e.CalculationDoneAt) > maxAge {
		return true
	}
	if e.DepsUpdatedAt == nil {
		return true
	}
	return depsUpdatedAt != nil && depsUpdatedAt.After(*e.DepsUpdatedAt)
}

// CostTrendMonths is the number of preceding months embedded in the
// dashboard's cost trend.
const CostTrendMonths = 6

// ValidatePeriod rejects out-of-range target periods before any computation
// starts. MonthIndex is zero-based.
func ValidatePeriod(year, monthIndex int) error {
	if year < 1970 || year > 9999 {
		return ErrInvalidPeriod
	}
	if monthIndex < 0 || monthIndex > 11 {
		return ErrInvalidPeriod
	}
	return nil
}
