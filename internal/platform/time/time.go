// Package time contains time related helpers
package time

import "time"

// MonthStart returns midnight on the first day of t's month in loc
// a nil loc keeps t's own location
func MonthStart(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Months returns every month start from the month of from through the month of to inclusive
// an empty slice is returned when to is before from
func Months(from, to time.Time) []time.Time {
	from = MonthStart(from, nil)
	to = MonthStart(to, from.Location())
	var out []time.Time
	for m := from; !m.After(to); m = m.AddDate(0, 1, 0) {
		out = append(out, m)
	}
	return out
}
