package domain

import "time"

// WeekdayIndex converts a time.Time to the engine's day-of-week numbering,
// where 0=Monday .. 6=Sunday (the source system's convention, distinct
// from Go's time.Weekday where Sunday=0).
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// IsSunday reports whether t falls on a Sunday, in the engine's local
// civil-date sense (caller is responsible for already having localized t).
func IsSunday(t time.Time) bool {
	return t.Weekday() == time.Sunday
}

// WeekStart returns the Sunday that begins the Sunday-Saturday week
// containing t (per spec §9's week-boundary rule).
func WeekStart(t time.Time) time.Time {
	daysSinceSunday := int(t.Weekday())
	return t.AddDate(0, 0, -daysSinceSunday)
}
