package holiday

import "time"

// Holiday is a public holiday. Rules are matched against it by date-only
// equality in the business timezone.
type Holiday struct {
	ID        string
	Date      time.Time
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Set answers date membership for a list of holidays, keyed by local
// calendar date.
type Set map[string]struct{}

const dateKeyLayout = "2006-01-02"

func NewSet(holidays []Holiday) Set {
	s := make(Set, len(holidays))
	for _, h := range holidays {
		s[h.Date.Format(dateKeyLayout)] = struct{}{}
	}
	return s
}

// Contains reports whether the given day is a holiday. The day must already
// be a local calendar date.
func (s Set) Contains(day time.Time) bool {
	_, ok := s[day.Format(dateKeyLayout)]
	return ok
}
