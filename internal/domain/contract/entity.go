package contract

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contract is one versioned employment agreement. ValidFrom and ValidUntil
// are both inclusive; a nil ValidUntil means open-ended. Exactly one of
// HourlyRateCents or (SalaryMonthlyCents + WeeklyHours) is meaningful for
// deriving an hourly equivalent.
type Contract struct {
	ID                    string
	UserID                string
	ValidFrom             time.Time
	ValidUntil            *time.Time
	HourlyRateCents       *int64
	SalaryMonthlyCents    *int64
	WeeklyHours           *float64
	VacationDaysAnnual    int
	VacationBonusPercent  *float64
	ChristmasBonusPercent *float64
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Contains reports whether the date falls inside [ValidFrom, ValidUntil],
// comparing by calendar date only.
func (c Contract) Contains(date time.Time) bool {
	day := truncateToDay(date)
	if day.Before(truncateToDay(c.ValidFrom)) {
		return false
	}
	if c.ValidUntil != nil && day.After(truncateToDay(*c.ValidUntil)) {
		return false
	}
	return true
}

// HourlyRate derives the hourly rate in cents. HourlyRateCents wins when
// set; otherwise a monthly salary with positive weekly hours is converted
// via salary / (weeklyHours * 52/12), rounded half away from zero. Returns
// nil when no rate is derivable, in which case pay rules cannot apply.
func (c Contract) HourlyRate() *int64 {
	if c.HourlyRateCents != nil {
		return c.HourlyRateCents
	}
	if c.SalaryMonthlyCents != nil && c.WeeklyHours != nil && *c.WeeklyHours > 0 {
		monthlyHours := decimal.NewFromFloat(*c.WeeklyHours).
			Mul(decimal.NewFromInt(52)).
			Div(decimal.NewFromInt(12))
		rate := decimal.NewFromInt(*c.SalaryMonthlyCents).
			Div(monthlyHours).
			Round(0).
			IntPart()
		return &rate
	}
	return nil
}

// ResolveAt returns the contract effective on the given date, or nil.
//
// Every contract whose range contains the date overwrites the previous
// candidate, so the last match in iteration order wins. Callers wanting
// "most recent contract wins" must supply contracts sorted by ValidFrom
// ascending; repositories return them in that order.
func ResolveAt(contracts []Contract, date time.Time) *Contract {
	var found *Contract
	for i := range contracts {
		if contracts[i].Contains(date) {
			found = &contracts[i]
		}
	}
	return found
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
