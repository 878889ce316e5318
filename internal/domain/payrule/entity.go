package payrule

import (
	"time"

	"github.com/moritzdotcom/ourshift-backend-go/internal/pkg/timeutil"
)

// PayRule is a percentage supplement applied to worked time inside a
// configured daily window, weekday set and/or holiday condition.
//
// WindowStartMin/WindowEndMin are minutes since local midnight (0-1439).
// Both nil means all day. WindowEndMin == 0 means end of day (24:00); an
// end at or before the start means the window wraps past local midnight.
// HolidayOnly and ExcludeHolidays are mutually exclusive.
type PayRule struct {
	ID              string
	UserID          *string // nil = applies to every employee
	Name            string
	WindowStartMin  *int
	WindowEndMin    *int
	DaysOfWeek      []int // 0 = Sunday .. 6 = Saturday; empty = all days
	HolidayOnly     bool
	ExcludeHolidays bool
	Percent         *float64 // e.g. 25 = +25%
	ValidFrom       *time.Time
	ValidUntil      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AppliesTo reports whether the rule is scoped to the given user.
func (r PayRule) AppliesTo(userID string) bool {
	return r.UserID == nil || *r.UserID == userID
}

// ActiveOnDay decides whether the rule is in effect on the given local
// calendar day. isHoliday must answer by date-only equality.
func (r PayRule) ActiveOnDay(day time.Time, isHoliday func(time.Time) bool) bool {
	holiday := isHoliday != nil && isHoliday(day)
	if r.HolidayOnly && !holiday {
		return false
	}
	if r.ExcludeHolidays && holiday {
		return false
	}
	if len(r.DaysOfWeek) > 0 {
		weekday := int(day.Weekday())
		found := false
		for _, d := range r.DaysOfWeek {
			if d == weekday {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if r.ValidFrom != nil && day.Before(truncateToDay(*r.ValidFrom)) {
		return false
	}
	if r.ValidUntil != nil && day.After(truncateToDay(*r.ValidUntil)) {
		return false
	}
	return true
}

// IntervalsForDay returns the rule's effective UTC interval(s) on the day:
// two when the window wraps local midnight, one otherwise.
func (r PayRule) IntervalsForDay(cal timeutil.Calendar, day time.Time) []timeutil.Interval {
	return cal.WindowIntervals(day, r.WindowStartMin, r.WindowEndMin)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
