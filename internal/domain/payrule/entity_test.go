package payrule

import (
	"testing"
	"time"

	"github.com/moritzdotcom/ourshift-backend-go/internal/pkg/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func never(time.Time) bool  { return false }
func always(time.Time) bool { return true }

func TestActiveOnDay_HolidayFlags(t *testing.T) {
	monday := day(2025, 3, 10)

	holidayOnly := PayRule{HolidayOnly: true}
	assert.False(t, holidayOnly.ActiveOnDay(monday, never))
	assert.True(t, holidayOnly.ActiveOnDay(monday, always))

	excludes := PayRule{ExcludeHolidays: true}
	assert.True(t, excludes.ActiveOnDay(monday, never))
	assert.False(t, excludes.ActiveOnDay(monday, always))
}

func TestActiveOnDay_DaysOfWeek(t *testing.T) {
	saturday := day(2025, 3, 8)
	sunday := day(2025, 3, 9)
	monday := day(2025, 3, 10)

	weekend := PayRule{DaysOfWeek: []int{0, 6}} // Sunday, Saturday
	assert.True(t, weekend.ActiveOnDay(saturday, never))
	assert.True(t, weekend.ActiveOnDay(sunday, never))
	assert.False(t, weekend.ActiveOnDay(monday, never))

	allDays := PayRule{}
	assert.True(t, allDays.ActiveOnDay(monday, never))
}

func TestActiveOnDay_ValidityRange(t *testing.T) {
	from := day(2025, 3, 1)
	until := day(2025, 3, 31)
	r := PayRule{ValidFrom: &from, ValidUntil: &until}

	assert.False(t, r.ActiveOnDay(day(2025, 2, 28), never))
	assert.True(t, r.ActiveOnDay(day(2025, 3, 1), never))
	assert.True(t, r.ActiveOnDay(day(2025, 3, 31), never))
	assert.False(t, r.ActiveOnDay(day(2025, 4, 1), never))
}

func TestAppliesTo(t *testing.T) {
	uid := "u1"

	global := PayRule{}
	assert.True(t, global.AppliesTo("anyone"))

	scoped := PayRule{UserID: &uid}
	assert.True(t, scoped.AppliesTo("u1"))
	assert.False(t, scoped.AppliesTo("u2"))
}

func TestIntervalsForDay_WrapsMidnight(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	cal := timeutil.NewCalendar(loc)

	r := PayRule{WindowStartMin: intPtr(1200), WindowEndMin: intPtr(240)}
	d := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)

	ivs := r.IntervalsForDay(cal, d)
	require.Len(t, ivs, 2)

	// [D 20:00, D 24:00) and [D+1 00:00, D+1 04:00) local
	assert.Equal(t, time.Date(2025, 3, 10, 19, 0, 0, 0, time.UTC), ivs[0].Start)
	assert.Equal(t, time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC), ivs[0].End)
	assert.Equal(t, time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC), ivs[1].Start)
	assert.Equal(t, time.Date(2025, 3, 11, 3, 0, 0, 0, time.UTC), ivs[1].End)
}

func TestIntervalsForDay_EndOfDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	cal := timeutil.NewCalendar(loc)

	r := PayRule{WindowStartMin: intPtr(1200), WindowEndMin: intPtr(0)}
	d := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)

	ivs := r.IntervalsForDay(cal, d)
	require.Len(t, ivs, 1)
	assert.Equal(t, 240, timeutil.OverlapMinutes(ivs[0], ivs[0]))
}
