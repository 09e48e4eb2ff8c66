package roster

import "time"

// StartOfISOWeek truncates t to the most recent Monday 00:00 in t's location.
// The weekly pickup budget resets on this boundary.
func StartOfISOWeek(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	day := t.AddDate(0, 0, -daysSinceMonday)

	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}

// NeedsWeeklyReset reports whether now has crossed into a later ISO week than
// the stored last reset.
func NeedsWeeklyReset(lastReset, now time.Time) bool {
	if lastReset.IsZero() {
		return true
	}

	return StartOfISOWeek(now).After(StartOfISOWeek(lastReset.In(now.Location())))
}
