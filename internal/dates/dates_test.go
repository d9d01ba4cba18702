package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerr "github.com/brewcap/capsule-metrics/internal/errors"
)

// fixed clock: Wednesday 2025-03-12 15:04:05 UTC
func testCalendar() *Calendar {
	return NewCalendarAt(func() time.Time {
		return time.Date(2025, 3, 12, 15, 4, 5, 0, time.UTC)
	})
}

func TestSingleDay(t *testing.T) {
	r, err := SingleDay("2025-01-15")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, time.Date(2025, 1, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC), r.To)
	assert.True(t, r.From.Before(r.To))
}

func TestSingleDayInvalidFormat(t *testing.T) {
	for _, in := range []string{"2025-1-15", "15-01-2025", "2025/01/15", "yesterday", "", "2025-01-15T00:00:00Z"} {
		_, err := SingleDay(in)
		assert.ErrorIs(t, err, cerr.ErrInvalidDateFormat, "input %q", in)
	}
}

func TestExplicit(t *testing.T) {
	r, err := Explicit("2025-01-01", "2025-01-03")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, time.Date(2025, 1, 3, 23, 59, 59, int(999*time.Millisecond), time.UTC), r.To)
}

func TestExplicitStartAfterEnd(t *testing.T) {
	_, err := Explicit("2025-01-03", "2025-01-01")
	assert.ErrorIs(t, err, cerr.ErrInvalidRange)
}

func TestExplicitBadDates(t *testing.T) {
	_, err := Explicit("2025-01-01", "bogus")
	assert.ErrorIs(t, err, cerr.ErrInvalidDateFormat)
	_, err = Explicit("bogus", "2025-01-01")
	assert.ErrorIs(t, err, cerr.ErrInvalidDateFormat)
}

func TestDays(t *testing.T) {
	r, err := Explicit("2025-01-01", "2025-01-03")
	require.NoError(t, err)

	days := Days(r)
	require.Len(t, days, 3)
	assert.Equal(t, "2025-01-01", days[0].Format("2006-01-02"))
	assert.Equal(t, "2025-01-02", days[1].Format("2006-01-02"))
	assert.Equal(t, "2025-01-03", days[2].Format("2006-01-02"))
}

func TestDaysSingleDay(t *testing.T) {
	r, err := SingleDay("2025-02-28")
	require.NoError(t, err)
	days := Days(r)
	require.Len(t, days, 1)
	assert.Equal(t, "2025-02-28", days[0].Format("2006-01-02"))
}

func TestDaysAcrossMonthBoundary(t *testing.T) {
	r, err := Explicit("2025-01-30", "2025-02-02")
	require.NoError(t, err)
	assert.Len(t, Days(r), 4)
}

// Every enumerated day maps back to a range fully inside the original one.
func TestDaysRoundTrip(t *testing.T) {
	r, err := Explicit("2025-01-01", "2025-01-05")
	require.NoError(t, err)

	for _, d := range Days(r) {
		dr, err := SingleDay(d.Format("2006-01-02"))
		require.NoError(t, err)
		assert.True(t, r.Contains(dr.From), "day %v start outside range", d)
		assert.True(t, r.Contains(dr.To), "day %v end outside range", d)
	}
}

func TestToday(t *testing.T) {
	r := testCalendar().Today()
	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, time.Date(2025, 3, 12, 23, 59, 59, int(999*time.Millisecond), time.UTC), r.To)
}

func TestYesterday(t *testing.T) {
	r := testCalendar().Yesterday()
	assert.Equal(t, "2025-03-11", r.From.Format("2006-01-02"))
	assert.Equal(t, "2025-03-11", r.To.Format("2006-01-02"))
}

func TestPastMonths(t *testing.T) {
	r := testCalendar().PastMonths(3)
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, "2025-03-11", r.To.Format("2006-01-02"))
}

func TestPastCalendarMonth(t *testing.T) {
	r := testCalendar().PastCalendarMonth()
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, "2025-02-28", r.To.Format("2006-01-02"))
}

func TestPastCalendarMonthToDate(t *testing.T) {
	r := testCalendar().PastCalendarMonthToDate()
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, "2025-03-11", r.To.Format("2006-01-02"))
}

func TestContainsBoundsInclusive(t *testing.T) {
	r, err := SingleDay("2025-06-01")
	require.NoError(t, err)
	assert.True(t, r.Contains(r.From))
	assert.True(t, r.Contains(r.To))
	assert.False(t, r.Contains(r.To.Add(time.Millisecond)))
	assert.False(t, r.Contains(r.From.Add(-time.Millisecond)))
}
