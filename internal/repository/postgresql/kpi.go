package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/kpi"
	"github.com/moritzdotcom/ourshift-backend-go/internal/pkg/database"
)

type kpiRepository struct {
	db *database.DB
}

func NewKpiRepository(db *database.DB) kpi.KpiRepository {
	return &kpiRepository{db: db}
}

func (r *kpiRepository) Get(ctx context.Context, key kpi.Key) (kpi.Entry, error) {
	query := `
		SELECT id, kind, year, month_index, payload, calculation_done_at,
			   deps_updated_at, created_at, updated_at
		FROM kpi_caches
		WHERE kind = $1 AND year = $2 AND month_index = $3
	`

	var e kpi.Entry
	err := r.db.QueryRow(ctx, query, key.Kind, key.Year, key.MonthIndex).Scan(
		&e.ID, &e.Kind, &e.Year, &e.MonthIndex, &e.Payload, &e.CalculationDoneAt,
		&e.DepsUpdatedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return kpi.Entry{}, kpi.ErrCacheEntryNotFound
		}
		return kpi.Entry{}, fmt.Errorf("failed to get kpi cache entry: %w", err)
	}

	return e, nil
}

func (r *kpiRepository) Upsert(ctx context.Context, entry kpi.Entry) (kpi.Entry, error) {
	query := `
		INSERT INTO kpi_caches (id, kind, year, month_index, payload, calculation_done_at, deps_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (kind, year, month_index) DO UPDATE SET
			payload = EXCLUDED.payload,
			calculation_done_at = EXCLUDED.calculation_done_at,
			deps_updated_at = EXCLUDED.deps_updated_at,
			updated_at = NOW()
		RETURNING id, kind, year, month_index, payload, calculation_done_at,
			deps_updated_at, created_at, updated_at
	`

	var e kpi.Entry
	err := r.db.QueryRow(ctx, query,
		uuid.NewString(), entry.Kind, entry.Year, entry.MonthIndex,
		entry.Payload, entry.CalculationDoneAt, entry.DepsUpdatedAt,
	).Scan(
		&e.ID, &e.Kind, &e.Year, &e.MonthIndex, &e.Payload, &e.CalculationDoneAt,
		&e.DepsUpdatedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return kpi.Entry{}, fmt.Errorf("failed to upsert kpi cache entry: %w", err)
	}

	return e, nil
}

func (r *kpiRepository) DepsUpdatedAt(ctx context.Context, from, to time.Time) (*time.Time, error) {
	// GREATEST skips NULL operands, so empty tables drop out naturally.
	query := `
		SELECT GREATEST(
			(SELECT MAX(updated_at) FROM shifts WHERE end_at >= $1 AND start_at <= $2),
			(SELECT MAX(updated_at) FROM pay_rules),
			(SELECT MAX(updated_at) FROM contracts),
			(SELECT MAX(updated_at) FROM users),
			(SELECT MAX(updated_at) FROM holidays WHERE date >= $1::date AND date <= $2::date)
		)
	`

	var latest *time.Time
	if err := r.db.QueryRow(ctx, query, from, to).Scan(&latest); err != nil {
		return nil, fmt.Errorf("failed to get dependency timestamp: %w", err)
	}

	return latest, nil
}
