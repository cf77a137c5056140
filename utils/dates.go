package utils

import "time"

// WeekStart returns midnight on the Monday of now's week, in now's
// location. Sunday counts as the last day of the previous Monday-start
// week, not the first day of a new one.
func WeekStart(now time.Time) time.Time {
	weekday := int(now.Weekday()) // 0=Sunday
	if weekday == 0 {
		weekday = 7
	}
	d := now.AddDate(0, 0, -(weekday - 1))
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
}

// DayStart truncates to midnight in now's location.
func DayStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// UntilMidnight is the cache TTL: time remaining until the next local
// midnight, recomputed at every write rather than a fixed duration.
func UntilMidnight(now time.Time) time.Duration {
	return DayStart(now).Add(24 * time.Hour).Sub(now)
}
