package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/shift"
	"github.com/moritzdotcom/ourshift-backend-go/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) GetOverlapping(ctx context.Context, from, to time.Time) ([]shift.Shift, error) {
	query := `
		SELECT s.id, s.user_id, s.start_at, s.end_at, s.clock_in, s.clock_out,
			   s.code, s.created_at, s.updated_at,
			   a.id, a.type, a.status
		FROM shifts s
		LEFT JOIN absences a ON a.shift_id = s.id
		WHERE s.end_at >= $1 AND s.start_at <= $2
		ORDER BY s.start_at, s.id
	`

	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get overlapping shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		var s shift.Shift
		var code *string
		var absenceID, absenceType, absenceStatus *string
		err := rows.Scan(
			&s.ID, &s.UserID, &s.Start, &s.End, &s.ClockIn, &s.ClockOut,
			&code, &s.CreatedAt, &s.UpdatedAt,
			&absenceID, &absenceType, &absenceStatus,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		if code != nil {
			c := shift.Code(*code)
			s.Code = &c
		}
		if absenceID != nil {
			s.Absence = &shift.Absence{
				ID:     *absenceID,
				Type:   shift.AbsenceType(*absenceType),
				Status: shift.AbsenceStatus(*absenceStatus),
			}
		}
		shifts = append(shifts, s)
	}

	return shifts, rows.Err()
}
