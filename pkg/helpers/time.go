package helpers

import "time"

// DateLayout is the ISO calendar date used to bucket tasks by day.
const DateLayout = "2006-01-02"

// DateKey returns the calendar date of t in loc.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}

// LastNDays returns the n calendar dates ending at now (inclusive), most recent first.
func LastNDays(now time.Time, n int, loc *time.Location) []string {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	y, m, d := local.Date()
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, time.Date(y, m, d-i, 12, 0, 0, 0, loc).Format(DateLayout))
	}
	return out
}
