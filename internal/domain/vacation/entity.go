package vacation

import "time"

// VacationDay is one taken vacation day of one employee. Date is a local
// calendar date (midnight, business timezone).
type VacationDay struct {
	ID        string
	UserID    string
	Date      time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
