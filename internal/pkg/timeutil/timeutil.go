package timeutil

import (
	"math"
	"time"
)

// MinutesPerDay is the number of window minutes in one nominal day.
// Window minute values on pay rules are in [0, 1439].
const MinutesPerDay = 24 * 60

// Interval is a half-open [Start, End) range of UTC instants.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns End - Start.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// IsEmpty reports whether the interval covers no time.
func (iv Interval) IsEmpty() bool {
	return !iv.End.After(iv.Start)
}

// Calendar performs all wall-clock math in the single business timezone.
// Storage is UTC throughout; every conversion between instants and local
// calendar days goes through a Calendar so daylight-saving transitions are
// handled by the location database instead of offset arithmetic.
type Calendar struct {
	loc *time.Location
}

func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{loc: loc}
}

// Location returns the business timezone.
func (c Calendar) Location() *time.Location {
	return c.loc
}

// In converts an instant to its business-timezone wall-clock representation.
func (c Calendar) In(t time.Time) time.Time {
	return t.In(c.loc)
}

// DateOf returns the local calendar date containing the instant t,
// normalized to local midnight.
func (c Calendar) DateOf(t time.Time) time.Time {
	lt := t.In(c.loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, c.loc)
}

// DayBounds returns the UTC instants of local midnight on the given day and
// local midnight of the following day.
func (c Calendar) DayBounds(day time.Time) (time.Time, time.Time) {
	ld := day.In(c.loc)
	start := time.Date(ld.Year(), ld.Month(), ld.Day(), 0, 0, 0, 0, c.loc)
	end := start.AddDate(0, 0, 1)
	return start.UTC(), end.UTC()
}

// MonthBounds returns the UTC instants spanning the local calendar month.
// monthIndex is zero-based (January = 0), matching the wire convention.
func (c Calendar) MonthBounds(year, monthIndex int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(monthIndex+1), 1, 0, 0, 0, 0, c.loc)
	end := start.AddDate(0, 1, 0)
	return start.UTC(), end.UTC()
}

// LastDayOfMonth returns the local date of the month's final calendar day.
func (c Calendar) LastDayOfMonth(year, monthIndex int) time.Time {
	return time.Date(year, time.Month(monthIndex+1), 1, 0, 0, 0, 0, c.loc).
		AddDate(0, 1, -1)
}

// SameLocalDay reports whether two instants fall on the same local calendar day.
func (c Calendar) SameLocalDay(a, b time.Time) bool {
	return c.DateOf(a).Equal(c.DateOf(b))
}

// WindowIntervals maps an optional (startMin, endMin) minute window on the
// given local day to one or two UTC intervals.
//
// Both bounds nil means the whole day. endMin == 0 means end of day (24:00).
// endMin <= startMin (and endMin != 0) means the window wraps local midnight
// and yields two intervals: the remainder of day and the head of the next day.
func (c Calendar) WindowIntervals(day time.Time, startMin, endMin *int) []Interval {
	dayStart, dayEnd := c.DayBounds(day)
	if startMin == nil && endMin == nil {
		return []Interval{{Start: dayStart, End: dayEnd}}
	}

	s := 0
	if startMin != nil {
		s = *startMin
	}
	e := 0
	if endMin != nil {
		e = *endMin
	}

	start := c.minuteOfDay(day, s)
	if e == 0 {
		return []Interval{{Start: start, End: dayEnd}}
	}
	if e <= s {
		next := day.In(c.loc).AddDate(0, 0, 1)
		return []Interval{
			{Start: start, End: dayEnd},
			{Start: dayEnd, End: c.minuteOfDay(next, e)},
		}
	}
	return []Interval{{Start: start, End: c.minuteOfDay(day, e)}}
}

// minuteOfDay returns the UTC instant of the given wall-clock minute on the
// local day. Built via time.Date so DST gaps resolve through the location.
func (c Calendar) minuteOfDay(day time.Time, minute int) time.Time {
	ld := day.In(c.loc)
	return time.Date(ld.Year(), ld.Month(), ld.Day(), minute/60, minute%60, 0, 0, c.loc).UTC()
}

// SplitByLocalDay cuts an interval at every local midnight it crosses,
// producing one clipped segment per local calendar day.
func (c Calendar) SplitByLocalDay(iv Interval) []Interval {
	if iv.IsEmpty() {
		return nil
	}

	var segments []Interval
	cursor := iv.Start
	for cursor.Before(iv.End) {
		_, dayEnd := c.DayBounds(cursor)
		segEnd := dayEnd
		if iv.End.Before(segEnd) {
			segEnd = iv.End
		}
		segments = append(segments, Interval{Start: cursor, End: segEnd})
		cursor = segEnd
	}
	return segments
}

// OverlapMinutes returns the overlap between two intervals in whole minutes,
// rounded to nearest. Non-overlapping intervals yield 0.
func OverlapMinutes(a, b Interval) int {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	if !end.After(start) {
		return 0
	}
	return int(math.Round(end.Sub(start).Minutes()))
}

// Overlap returns the overlapping part of two intervals, or an empty
// interval when they do not intersect.
func Overlap(a, b Interval) Interval {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	if !end.After(start) {
		return Interval{Start: start, End: start}
	}
	return Interval{Start: start, End: end}
}
