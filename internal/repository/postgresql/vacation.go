package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/vacation"
	"github.com/moritzdotcom/ourshift-backend-go/internal/pkg/database"
)

type vacationRepository struct {
	db *database.DB
}

func NewVacationRepository(db *database.DB) vacation.VacationRepository {
	return &vacationRepository{db: db}
}

func (r *vacationRepository) GetBetween(ctx context.Context, from, to time.Time) ([]vacation.VacationDay, error) {
	query := `
		SELECT id, user_id, date, created_at, updated_at
		FROM vacation_days
		WHERE date >= $1::date AND date <= $2::date
		ORDER BY user_id, date
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get vacation days: %w", err)
	}
	defer rows.Close()

	var days []vacation.VacationDay
	for rows.Next() {
		var v vacation.VacationDay
		if err := rows.Scan(&v.ID, &v.UserID, &v.Date, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vacation day: %w", err)
		}
		days = append(days, v)
	}

	return days, rows.Err()
}
