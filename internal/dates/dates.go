package dates

import (
	"fmt"
	"regexp"
	"time"

	"github.com/brewcap/capsule-metrics/internal/entity"
	cerr "github.com/brewcap/capsule-metrics/internal/errors"
)

// All ranges are computed in UTC, including Today and Yesterday. Which
// orders fall on which "day" depends on this choice, so it is applied
// uniformly across every operation.

const dayFormat = "2006-01-02"

var dayPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Calendar produces date ranges relative to an injectable clock. Every
// operation is pure given the clock.
type Calendar struct {
	now func() time.Time
}

func NewCalendar() *Calendar {
	return &Calendar{now: time.Now}
}

// NewCalendarAt fixes the clock, for tests.
func NewCalendarAt(now func() time.Time) *Calendar {
	return &Calendar{now: now}
}

// Today returns the current UTC calendar day.
func (c *Calendar) Today() entity.DateRange {
	return dayRange(c.now().UTC())
}

// Yesterday returns the previous UTC calendar day.
func (c *Calendar) Yesterday() entity.DateRange {
	return dayRange(c.now().UTC().AddDate(0, 0, -1))
}

// PastMonths spans from the first day of the month n months before the
// current month through the end of yesterday.
func (c *Calendar) PastMonths(n int) entity.DateRange {
	now := c.now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -n, 0)
	return entity.DateRange{From: start, To: endOfDay(now.AddDate(0, 0, -1))}
}

// PastCalendarMonth spans the entire previous calendar month, first
// through last day.
func (c *Calendar) PastCalendarMonth() entity.DateRange {
	now := c.now().UTC()
	firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return entity.DateRange{
		From: firstOfThis.AddDate(0, -1, 0),
		To:   endOfDay(firstOfThis.AddDate(0, 0, -1)),
	}
}

// PastCalendarMonthToDate spans the previous calendar month start through
// yesterday. Not the same as PastCalendarMonth; callers must not confuse
// the two.
func (c *Calendar) PastCalendarMonthToDate() entity.DateRange {
	now := c.now().UTC()
	firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return entity.DateRange{
		From: firstOfThis.AddDate(0, -1, 0),
		To:   endOfDay(now.AddDate(0, 0, -1)),
	}
}

// SingleDay parses a YYYY-MM-DD string into its UTC day range.
func SingleDay(day string) (entity.DateRange, error) {
	t, err := parseDay(day)
	if err != nil {
		return entity.DateRange{}, err
	}
	return dayRange(t), nil
}

// Explicit parses a start and end date into a UTC day-aligned range,
// start-of-day through end-of-day.
func Explicit(start, end string) (entity.DateRange, error) {
	from, err := parseDay(start)
	if err != nil {
		return entity.DateRange{}, err
	}
	to, err := parseDay(end)
	if err != nil {
		return entity.DateRange{}, err
	}
	if from.After(to) {
		return entity.DateRange{}, fmt.Errorf("%q..%q: %w", start, end, cerr.ErrInvalidRange)
	}
	return entity.DateRange{From: startOfDay(from), To: endOfDay(to)}, nil
}

// Days enumerates every calendar date whose day falls within the range,
// inclusive and ascending, one entry per day regardless of sub-day
// precision in the bounds.
func Days(r entity.DateRange) []time.Time {
	first := startOfDay(r.From.UTC())
	last := startOfDay(r.To.UTC())
	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func parseDay(s string) (time.Time, error) {
	if !dayPattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("%q: %w", s, cerr.ErrInvalidDateFormat)
	}
	t, err := time.ParseInLocation(dayFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q: %w", s, cerr.ErrInvalidDateFormat)
	}
	return t, nil
}

func dayRange(t time.Time) entity.DateRange {
	return entity.DateRange{From: startOfDay(t), To: endOfDay(t)}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
}
