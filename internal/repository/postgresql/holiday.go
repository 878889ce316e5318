package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/holiday"
	"github.com/moritzdotcom/ourshift-backend-go/internal/pkg/database"
)

type holidayRepository struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepository{db: db}
}

func (r *holidayRepository) GetBetween(ctx context.Context, from, to time.Time) ([]holiday.Holiday, error) {
	query := `
		SELECT id, date, name, created_at, updated_at
		FROM holidays
		WHERE date >= $1::date AND date <= $2::date
		ORDER BY date, id
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get holidays: %w", err)
	}
	defer rows.Close()

	var holidays []holiday.Holiday
	for rows.Next() {
		var h holiday.Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}

	return holidays, rows.Err()
}
