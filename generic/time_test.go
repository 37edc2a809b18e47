package generic_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/fleet-engine/generic"
)

func TestFloorDivMod(t *testing.T) {
	cases := []struct {
		a, b, div, mod int
	}{
		{27, 28, 0, 27},
		{28, 28, 1, 0},
		{-1, 28, -1, 27},
		{-28, 28, -1, 0},
		{-29, 28, -2, 27},
		{0, 13, 0, 0},
	}

	for _, c := range cases {
		assert.Equal(t, c.div, generic.FloorDiv(c.a, c.b), "FloorDiv(%d,%d)", c.a, c.b)
		assert.Equal(t, c.mod, generic.FloorMod(c.a, c.b), "FloorMod(%d,%d)", c.a, c.b)
	}
}

func TestDateOf_KeepsLocalCalendarDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	instant := time.Date(2026, time.March, 1, 2, 0, 0, 0, tokyo) // Feb 28 17:00 UTC

	assert.Equal(t, generic.NewTimePoint(2026, time.March, 1), generic.DateOf(instant))
	assert.Equal(t, generic.NewTimePoint(2026, time.February, 28), generic.DateOf(instant.UTC()))
}

func TestDaysBetween(t *testing.T) {
	a := generic.NewTimePoint(2025, time.December, 6)
	b := generic.NewTimePoint(2026, time.January, 2)

	assert.Equal(t, 27, generic.DaysBetween(a, b))
	assert.Equal(t, -27, generic.DaysBetween(b, a))
	assert.Equal(t, 0, generic.DaysBetween(a, a))
}

func TestParseDate(t *testing.T) {
	d, err := generic.ParseDate("2026-01-02")
	require.NoError(t, err)
	assert.Equal(t, generic.NewTimePoint(2026, time.January, 2), d)
	assert.Equal(t, "2026-01-02", d.String())

	_, err = generic.ParseDate("02/01/2026")
	assert.Error(t, err)
}

func TestPeriod(t *testing.T) {
	start := generic.NewTimePoint(2026, time.January, 3)
	end := generic.NewTimePoint(2026, time.January, 30)

	p, err := generic.NewPeriod(start, end)
	require.NoError(t, err)

	assert.Equal(t, 28, p.Length())
	assert.Len(t, p.Days(), 28)
	assert.True(t, p.Contains(start))
	assert.True(t, p.Contains(end))
	assert.False(t, p.Contains(end.AddDays(1)))
	assert.True(t, p.Overlaps(generic.Period{Start: end, End: end.AddDays(5)}))
	assert.False(t, p.Overlaps(generic.Period{Start: end.AddDays(1), End: end.AddDays(5)}))

	_, err = generic.NewPeriod(end, start)
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
	assert.True(t, generic.IsClientError(err))
	assert.False(t, generic.IsNotFound(err))
}

func TestDaysBetween_BeyondDurationRange(t *testing.T) {
	// time.Duration saturates near 292 years; day counts must keep growing.
	a := generic.NewTimePoint(1700, time.June, 1)
	b := generic.NewTimePoint(2400, time.June, 1)

	assert.Equal(t, 255670, generic.DaysBetween(a, b))
	assert.Equal(t, -255670, generic.DaysBetween(b, a))
}

func TestToday_IsMidnightOfLocalDate(t *testing.T) {
	now := time.Now()
	got := generic.Today()

	assert.Equal(t, generic.DateOf(now), got)
	assert.Equal(t, 0, got.Time.Hour())
}
