package entity

import "time"

// DateRange is an inclusive UTC time range, never mutated after
// construction. Day ranges span 00:00:00.000 through 23:59:59.999 of the
// same calendar date.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls within the range, bounds inclusive.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}
