package matcher

import "time"

// InferDate resolves a month-day pair to the calendar date closest to now,
// trying the previous, current and next year. Ties go to the earlier date.
//
// A Feb 29 term skips years where that day does not exist.
func InferDate(month time.Month, day int, now time.Time) time.Time {
	today := DateOf(now)

	var best time.Time
	bestDistance := -1
	for _, year := range []int{today.Year() - 1, today.Year(), today.Year() + 1} {
		if !validDate(year, int(month), day) {
			continue
		}
		candidate := civilDate(year, month, day)
		distance := abs(DaysBetween(today, candidate))
		// Years are visited in ascending order, so strict < keeps the past on ties.
		if bestDistance < 0 || distance < bestDistance {
			best = candidate
			bestDistance = distance
		}
	}

	if bestDistance < 0 {
		// Feb 29 with no leap year in range; use Feb 28 of the current year.
		return civilDate(today.Year(), time.February, 28)
	}
	return best
}

// DateOf truncates t to its calendar day, in t's own location, as midnight UTC.
func DateOf(t time.Time) time.Time {
	return civilDate(t.Year(), t.Month(), t.Day())
}

// DaysBetween returns the signed number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
