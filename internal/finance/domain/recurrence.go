package domain

import "time"

// NextDueDate returns the occurrence following from. Month and year steps keep
// the day of month, clamped to the last day of the target month. One-time and
// unknown frequencies never recur.
func NextDueDate(from time.Time, frequency string) (time.Time, bool) {
	switch frequency {
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7), true
	case FrequencyMonthly:
		return addMonthsClamped(from, 1), true
	case FrequencyYearly:
		return addMonthsClamped(from, 12), true
	}
	return time.Time{}, false
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, hour, minute, sec, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// SameOrBeforeDay compares calendar dates in UTC.
func SameOrBeforeDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad <= bd
}
