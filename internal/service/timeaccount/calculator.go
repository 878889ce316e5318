package timeaccount

import (
	"math"
	"time"

	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/contract"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/shift"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/timeaccount"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/user"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/vacation"
	"github.com/moritzdotcom/ourshift-backend-go/internal/pkg/timeutil"
)

// plannedHoursPerWeekFactor converts weekly contract hours to a monthly
// target: round(weeklyHours * 4.35).
const plannedHoursPerWeekFactor = 4.35

// maxVacationCarryDays caps the vacation chain carried into the next month.
// A trailing run longer than this was already credited as full blocks and
// carries nothing.
const maxVacationCarryDays = 4

// vacationBlockDays is the chain length credited as one work week.
const vacationBlockDays = 5

// Inputs covers the target year up to the end of the target month, plus the
// prior year's vacation data for the carry-over computation.
type Inputs struct {
	Users        []user.User
	Contracts    map[string][]contract.Contract // per user, ValidFrom ascending
	Shifts       []shift.Shift                  // year start .. target month end
	VacationDays []vacation.VacationDay         // prior year start .. target month end
}

// Calculator produces worked-vs-planned statistics per employee. It shares
// the contract resolver and day splitting with payroll but knows nothing
// about pay rules.
type Calculator struct {
	cal timeutil.Calendar
}

func NewCalculator(cal timeutil.Calendar) *Calculator {
	return &Calculator{cal: cal}
}

// ComputeEntries returns one entry per active user for (year, monthIndex).
func (c *Calculator) ComputeEntries(year, monthIndex int, in Inputs) []timeaccount.Entry {
	vacByUser := make(map[string]map[string]bool)
	for _, v := range in.VacationDays {
		days := vacByUser[v.UserID]
		if days == nil {
			days = make(map[string]bool)
			vacByUser[v.UserID] = days
		}
		days[v.Date.Format("2006-01-02")] = true
	}

	shiftsByUser := make(map[string][]shift.Shift)
	for _, s := range in.Shifts {
		shiftsByUser[s.UserID] = append(shiftsByUser[s.UserID], s)
	}

	entries := make([]timeaccount.Entry, 0, len(in.Users))
	for _, u := range in.Users {
		if !u.IsActive {
			continue
		}
		entries = append(entries, c.computeEntry(u, year, monthIndex, in.Contracts[u.ID], shiftsByUser[u.ID], vacByUser[u.ID]))
	}
	return entries
}

func (c *Calculator) computeEntry(
	u user.User,
	year, monthIndex int,
	contracts []contract.Contract,
	shifts []shift.Shift,
	vacationDays map[string]bool,
) timeaccount.Entry {
	workedMinutes := c.workedMinutesByMonth(year, shifts)

	var monthActual, monthPlanned, yearActual, yearPlanned float64
	for m := 0; m <= monthIndex; m++ {
		eff := contract.ResolveAt(contracts, c.monthRefDate(year, m))

		var weeklyHours float64
		var planned float64
		if eff != nil && eff.WeeklyHours != nil {
			weeklyHours = *eff.WeeklyHours
			planned = math.Round(weeklyHours * plannedHoursPerWeekFactor)
		}

		actual := float64(workedMinutes[m]) / 60
		actual += c.vacationCreditHours(year, m, weeklyHours, vacationDays)

		yearActual += actual
		yearPlanned += planned
		if m == monthIndex {
			monthActual = actual
			monthPlanned = planned
		}
	}

	granted := c.vacationGranted(year, contracts)
	carry := c.priorYearVacationRemainder(year, contracts, vacationDays)
	taken := c.vacationTaken(year, monthIndex, vacationDays)

	return timeaccount.Entry{
		UserID:                u.ID,
		UserName:              u.Name,
		MonthActualHours:      roundHours(monthActual),
		MonthPlannedHours:     monthPlanned,
		YearActualHours:       roundHours(yearActual),
		YearPlannedHours:      yearPlanned,
		OvertimeHours:         roundHours(yearActual - yearPlanned),
		VacationDaysTaken:     taken,
		VacationDaysGranted:   granted,
		VacationCarryPrior:    carry,
		VacationDaysRemaining: granted + carry - taken,
		SickDays:              c.sickDays(year, monthIndex, shifts),
	}
}

// workedMinutesByMonth splits every qualifying shift at local midnight and
// attributes each segment's minutes to its calendar month.
func (c *Calculator) workedMinutesByMonth(year int, shifts []shift.Shift) map[int]int {
	minutes := make(map[int]int)
	for _, s := range shifts {
		payStart, payEnd, ok := s.PayableInterval()
		if !ok {
			continue
		}
		for _, seg := range c.cal.SplitByLocalDay(timeutil.Interval{Start: payStart, End: payEnd}) {
			day := c.cal.DateOf(seg.Start)
			if day.Year() != year {
				continue
			}
			minutes[int(day.Month())-1] += int(math.Round(seg.Duration().Minutes()))
		}
	}
	return minutes
}

// vacationCreditHours converts a trailing run of consecutive vacation days
// ending on the month's last day into credited work hours: every full
// five-day block, including the prior month's carry, counts as one work
// week. The carry handed forward is capped at four days; a longer trailing
// run was already credited and carries zero.
func (c *Calculator) vacationCreditHours(year, monthIndex int, weeklyHours float64, vacationDays map[string]bool) float64 {
	if weeklyHours == 0 || len(vacationDays) == 0 {
		return 0
	}

	chain := c.trailingVacationChain(year, monthIndex, vacationDays)
	if chain == 0 {
		return 0
	}

	prevYear, prevMonth := year, monthIndex-1
	if prevMonth < 0 {
		prevYear, prevMonth = year-1, 11
	}
	carry := c.trailingVacationChain(prevYear, prevMonth, vacationDays)
	if carry > maxVacationCarryDays {
		carry = 0
	}

	blocks := (chain + carry) / vacationBlockDays
	return float64(blocks) * weeklyHours
}

// trailingVacationChain counts consecutive vacation days ending exactly on
// the month's last calendar day, bounded by the month itself.
func (c *Calculator) trailingVacationChain(year, monthIndex int, vacationDays map[string]bool) int {
	day := c.cal.LastDayOfMonth(year, monthIndex)
	chain := 0
	for day.Month() == time.Month(monthIndex+1) && vacationDays[day.Format("2006-01-02")] {
		chain++
		day = day.AddDate(0, 0, -1)
	}
	return chain
}

// vacationGranted pro-rates the annual vacation grant monthly across the
// contracts overlapping the year: each month contributes one twelfth of the
// contract effective at its reference date.
func (c *Calculator) vacationGranted(year int, contracts []contract.Contract) int {
	var granted float64
	for m := 0; m < 12; m++ {
		if eff := contract.ResolveAt(contracts, c.monthRefDate(year, m)); eff != nil {
			granted += float64(eff.VacationDaysAnnual) / 12
		}
	}
	return int(math.Round(granted))
}

// priorYearVacationRemainder is last year's grant minus last year's taken
// days, floored at zero.
func (c *Calculator) priorYearVacationRemainder(year int, contracts []contract.Contract, vacationDays map[string]bool) int {
	granted := c.vacationGranted(year-1, contracts)
	taken := c.vacationTaken(year-1, 11, vacationDays)
	if remainder := granted - taken; remainder > 0 {
		return remainder
	}
	return 0
}

// vacationTaken counts days taken in the year through the target month end.
func (c *Calculator) vacationTaken(year, monthIndex int, vacationDays map[string]bool) int {
	taken := 0
	for key := range vacationDays {
		d, err := time.Parse("2006-01-02", key)
		if err != nil {
			continue
		}
		if d.Year() == year && int(d.Month())-1 <= monthIndex {
			taken++
		}
	}
	return taken
}

// sickDays counts distinct local calendar days carrying an approved
// sickness-linked shift, year start through target month end.
func (c *Calculator) sickDays(year, monthIndex int, shifts []shift.Shift) int {
	seen := make(map[string]bool)
	for _, s := range shifts {
		if !s.HasApprovedAbsence(shift.AbsenceSick) {
			continue
		}
		day := c.cal.DateOf(s.Start)
		if day.Year() != year || int(day.Month())-1 > monthIndex {
			continue
		}
		seen[day.Format("2006-01-02")] = true
	}
	return len(seen)
}

func (c *Calculator) monthRefDate(year, monthIndex int) time.Time {
	return time.Date(year, time.Month(monthIndex+1), 15, 0, 0, 0, 0, c.cal.Location())
}

func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
