package kpi

import "errors"

var (
	ErrCacheEntryNotFound = errors.New("kpi cache entry not found")
	ErrInvalidPeriod      = errors.New("invalid year or month index")
	ErrInvalidKind        = errors.New("invalid kpi kind")
)
