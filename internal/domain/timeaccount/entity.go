package timeaccount

// Entry is the working-time statistics row for one employee in one month.
// Hours are decimal hours rounded to two places; day counts are whole days.
type Entry struct {
	UserID                string  `json:"userId"`
	UserName              string  `json:"userName"`
	MonthActualHours      float64 `json:"monthActualHours"`
	MonthPlannedHours     float64 `json:"monthPlannedHours"`
	YearActualHours       float64 `json:"yearActualHours"`
	YearPlannedHours      float64 `json:"yearPlannedHours"`
	OvertimeHours         float64 `json:"overtimeHours"`
	VacationDaysTaken     int     `json:"vacationDaysTaken"`
	VacationDaysGranted   int     `json:"vacationDaysGranted"`
	VacationCarryPrior    int     `json:"vacationCarryPrior"`
	VacationDaysRemaining int     `json:"vacationDaysRemaining"`
	SickDays              int     `json:"sickDays"`
}
