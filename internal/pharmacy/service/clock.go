package service

import "time"

// Date and time layouts used throughout the core. Dates are ISO strings so
// that lexicographic order matches calendar order, in SQL and in Go alike.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// today returns the current local date truncated to midnight.
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// daysBetween returns the whole-day difference to - from, both truncated to
// midnight.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
