package payroll

// Row is the computed monthly payroll result for one employee. This is the
// wire shape consumed by export and reporting clients; all monetary fields
// are integer cents, all durations integer minutes.
type Row struct {
	UserID                string       `json:"userId"`
	UserName              string       `json:"userName"`
	MonthMinutes          int          `json:"monthMinutes"`
	BaseSalaryCents       int64        `json:"baseSalaryCents"`
	BaseHourlyCents       int64        `json:"baseHourlyCents"`
	BaseFromHoursCents    int64        `json:"baseFromHoursCents"`
	SupplementsByRule     []Supplement `json:"supplementsByRule"`
	SupplementsTotalCents int64        `json:"supplementsTotalCents"`
	GrossCents            int64        `json:"grossCents"`
	Bonus                 *Bonus       `json:"bonus,omitempty"`
}

// Supplement is the per-rule breakdown of one employee's month.
type Supplement struct {
	RuleID      string    `json:"ruleId"`
	Name        string    `json:"name"`
	Minutes     int       `json:"minutes"`
	AmountCents int64     `json:"amountCents"`
	Percent     float64   `json:"percent"`
	Triggers    []Trigger `json:"triggers"`
}

// Trigger records one shift segment that matched a rule window, kept for
// auditability of every supplement cent.
type Trigger struct {
	Day     string `json:"day"` // local calendar date, YYYY-MM-DD
	FromISO string `json:"fromISO"`
	ToISO   string `json:"toISO"`
	Minutes int    `json:"minutes"`
}

// Bonus is a seasonal one-off payment (Urlaubsgeld in June, Weihnachtsgeld
// in November). At most one per employee per month.
type Bonus struct {
	Name        string `json:"name"`
	AmountCents int64  `json:"amountCents"`
}

// Seasonal bonus names.
const (
	BonusVacation  = "Urlaubsgeld"
	BonusChristmas = "Weihnachtsgeld"
)
