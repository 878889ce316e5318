package dashboard

// Summary is the cached dashboard payload for one month: headline figures
// over the payroll rows plus raw shift/user data, and the cost trend of the
// preceding six months.
type Summary struct {
	Year                  int              `json:"year"`
	MonthIndex            int              `json:"monthIndex"`
	EmployeeCount         int              `json:"employeeCount"`
	ShiftCount            int              `json:"shiftCount"`
	MonthMinutes          int              `json:"monthMinutes"`
	TotalGrossCents       int64            `json:"totalGrossCents"`
	TotalSupplementsCents int64            `json:"totalSupplementsCents"`
	CostTrend             []CostTrendPoint `json:"costTrend"`
}

// CostTrendPoint is one prior month's total gross payroll cost.
type CostTrendPoint struct {
	Year       int   `json:"year"`
	MonthIndex int   `json:"monthIndex"`
	GrossCents int64 `json:"grossCents"`
}
