package payroll

import (
	"math"
	"time"

	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/contract"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/holiday"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/payroll"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/payrule"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/shift"
	"github.com/moritzdotcom/ourshift-backend-go/internal/domain/user"
	"github.com/moritzdotcom/ourshift-backend-go/internal/pkg/timeutil"
	"github.com/shopspring/decimal"
)

// Inputs is everything the payroll computation reads. The calculator is a
// pure function of these values: identical inputs yield identical rows.
type Inputs struct {
	Users     []user.User
	Shifts    []shift.Shift
	Contracts map[string][]contract.Contract // per user, ValidFrom ascending
	Rules     []payrule.PayRule
	Holidays  []holiday.Holiday
}

// Calculator turns one month of raw clock events, contracts and pay rules
// into payroll rows. All money is integer cents; every component is rounded
// half away from zero at the point it is computed, never on sums.
type Calculator struct {
	cal timeutil.Calendar
}

func NewCalculator(cal timeutil.Calendar) *Calculator {
	return &Calculator{cal: cal}
}

// contractRefDay is the day of month used to resolve the representative
// contract for the whole month.
const contractRefDay = 15

// ComputeRows produces one row per active user for the target month.
// monthIndex is zero-based (January = 0).
func (c *Calculator) ComputeRows(year, monthIndex int, in Inputs) []payroll.Row {
	monthStart, monthEnd := c.cal.MonthBounds(year, monthIndex)
	holidays := holiday.NewSet(in.Holidays)

	shiftsByUser := make(map[string][]shift.Shift)
	for _, s := range in.Shifts {
		// planned interval must intersect the month
		if s.End.Before(monthStart) || !s.Start.Before(monthEnd) {
			continue
		}
		shiftsByUser[s.UserID] = append(shiftsByUser[s.UserID], s)
	}

	refDate := time.Date(year, time.Month(monthIndex+1), contractRefDay, 0, 0, 0, 0, c.cal.Location())

	rows := make([]payroll.Row, 0, len(in.Users))
	for _, u := range in.Users {
		if !u.IsActive {
			continue
		}
		rows = append(rows, c.computeRow(u, year, monthIndex, refDate, shiftsByUser[u.ID], in.Contracts[u.ID], in.Rules, holidays))
	}
	return rows
}

func (c *Calculator) computeRow(
	u user.User,
	year, monthIndex int,
	refDate time.Time,
	shifts []shift.Shift,
	contracts []contract.Contract,
	rules []payrule.PayRule,
	holidays holiday.Set,
) payroll.Row {
	eff := contract.ResolveAt(contracts, refDate)

	var hourly *int64
	var fixedSalaryCents int64
	if eff != nil {
		hourly = eff.HourlyRate()
		if eff.SalaryMonthlyCents != nil {
			fixedSalaryCents = *eff.SalaryMonthlyCents
		}
	}

	var userRules []payrule.PayRule
	for _, r := range rules {
		if r.AppliesTo(u.ID) {
			userRules = append(userRules, r)
		}
	}

	buckets := make(map[string]*payroll.Supplement)
	var bucketOrder []string
	totalMinutes := 0

	for _, s := range shifts {
		payStart, payEnd, ok := s.PayableInterval()
		if !ok {
			continue
		}

		segments := c.cal.SplitByLocalDay(timeutil.Interval{Start: payStart, End: payEnd})
		for _, seg := range segments {
			day := c.cal.DateOf(seg.Start)
			// Minutes land in the month their local day belongs to; the
			// out-of-month segments of a boundary-crossing shift are paid by
			// the adjacent month's run.
			if day.Year() != year || int(day.Month())-1 != monthIndex {
				continue
			}

			totalMinutes += int(math.Round(seg.Duration().Minutes()))

			prevDay := day.AddDate(0, 0, -1)
			for _, r := range userRules {
				if hourly == nil || r.Percent == nil {
					// unresolvable rule: skipped for this employee, not fatal
					continue
				}

				var windows []timeutil.Interval
				if r.ActiveOnDay(day, holidays.Contains) {
					windows = append(windows, r.IntervalsForDay(c.cal, day)...)
				}
				// A window wrapping past midnight belongs to the day it
				// started on. Segments are cut at local midnight, so the
				// post-midnight tail of the previous day's window has to be
				// matched against this day's segment.
				if r.ActiveOnDay(prevDay, holidays.Contains) {
					if ivs := r.IntervalsForDay(c.cal, prevDay); len(ivs) == 2 {
						windows = append(windows, ivs[1])
					}
				}

				for _, window := range windows {
					hit := timeutil.Overlap(seg, window)
					minutes := timeutil.OverlapMinutes(seg, window)
					if minutes <= 0 {
						continue
					}

					amount := supplementCents(minutes, *hourly, *r.Percent)

					b, exists := buckets[r.ID]
					if !exists {
						b = &payroll.Supplement{RuleID: r.ID, Name: r.Name, Percent: *r.Percent}
						buckets[r.ID] = b
						bucketOrder = append(bucketOrder, r.ID)
					}
					b.Minutes += minutes
					b.AmountCents += amount
					b.Triggers = append(b.Triggers, payroll.Trigger{
						Day:     day.Format("2006-01-02"),
						FromISO: c.cal.In(hit.Start).Format(time.RFC3339),
						ToISO:   c.cal.In(hit.End).Format(time.RFC3339),
						Minutes: minutes,
					})
				}
			}
		}
	}

	supplements := make([]payroll.Supplement, 0, len(bucketOrder))
	var supplementsTotal int64
	for _, id := range bucketOrder {
		supplements = append(supplements, *buckets[id])
		supplementsTotal += buckets[id].AmountCents
	}

	var baseFromHours int64
	if fixedSalaryCents == 0 && hourly != nil {
		baseFromHours = baseFromHoursCents(totalMinutes, *hourly)
	}

	bonus := seasonalBonus(eff, monthIndex, fixedSalaryCents)

	var hourlyCents int64
	if hourly != nil {
		hourlyCents = *hourly
	}
	gross := fixedSalaryCents + baseFromHours + supplementsTotal
	if bonus != nil {
		gross += bonus.AmountCents
	}

	return payroll.Row{
		UserID:                u.ID,
		UserName:              u.Name,
		MonthMinutes:          totalMinutes,
		BaseSalaryCents:       fixedSalaryCents,
		BaseHourlyCents:       hourlyCents,
		BaseFromHoursCents:    baseFromHours,
		SupplementsByRule:     supplements,
		SupplementsTotalCents: supplementsTotal,
		GrossCents:            gross,
		Bonus:                 bonus,
	}
}

// seasonalBonus yields Urlaubsgeld in June and Weihnachtsgeld in November
// for salaried contracts carrying the respective percentage. At most one
// bonus per month by construction.
func seasonalBonus(eff *contract.Contract, monthIndex int, fixedSalaryCents int64) *payroll.Bonus {
	if eff == nil || fixedSalaryCents == 0 {
		return nil
	}
	switch {
	case monthIndex == 5 && eff.VacationBonusPercent != nil:
		return &payroll.Bonus{
			Name:        payroll.BonusVacation,
			AmountCents: percentOfCents(fixedSalaryCents, *eff.VacationBonusPercent),
		}
	case monthIndex == 10 && eff.ChristmasBonusPercent != nil:
		return &payroll.Bonus{
			Name:        payroll.BonusChristmas,
			AmountCents: percentOfCents(fixedSalaryCents, *eff.ChristmasBonusPercent),
		}
	}
	return nil
}

// supplementCents = round(minutes/60 * hourlyRate * percent/100), rounded
// half away from zero.
func supplementCents(minutes int, hourlyRateCents int64, percent float64) int64 {
	return decimal.NewFromInt(int64(minutes)).
		Div(decimal.NewFromInt(60)).
		Mul(decimal.NewFromInt(hourlyRateCents)).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

// baseFromHoursCents = round(minutes/60 * hourlyRate).
func baseFromHoursCents(minutes int, hourlyRateCents int64) int64 {
	return decimal.NewFromInt(int64(minutes)).
		Div(decimal.NewFromInt(60)).
		Mul(decimal.NewFromInt(hourlyRateCents)).
		Round(0).
		IntPart()
}

// percentOfCents = round(cents * percent / 100).
func percentOfCents(cents int64, percent float64) int64 {
	return decimal.NewFromInt(cents).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}
