package capital

import "time"

// AddMonths adds calendar months to a date, clamping to the last day of the
// target month (31 Jan + 1 month = 28 or 29 Feb).
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	lastDay := first.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// truncateDay drops the time-of-day component
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts whole calendar days from a to b
func daysBetween(a, b time.Time) int {
	a = truncateDay(a)
	b = truncateDay(b.In(a.Location()))
	return int(b.Sub(a).Hours() / 24)
}
