package matcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestInferDate(t *testing.T) {
	tests := []struct {
		name  string
		month time.Month
		day   int
		now   time.Time
		want  time.Time
	}{
		{"recent past across year boundary", time.December, 28, day(2026, 1, 5), day(2025, 12, 28)},
		{"near future in same year", time.January, 10, day(2026, 1, 5), day(2026, 1, 10)},
		{"today", time.January, 5, day(2026, 1, 5), day(2026, 1, 5)},
		{"near future across year boundary", time.January, 3, day(2025, 12, 30), day(2026, 1, 3)},
		{"mid year past", time.March, 1, day(2026, 7, 1), day(2026, 3, 1)},
		{"leap day picks the leap year", time.February, 29, day(2025, 3, 1), day(2024, 2, 29)},
		{"leap day with no leap year in range", time.February, 29, day(2022, 6, 1), day(2022, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferDate(tt.month, tt.day, tt.now))
		})
	}
}

func TestInferDate_TieGoesToPast(t *testing.T) {
	// 2024-07-02 is exactly 183 days from both 2024-01-01 and 2025-01-01.
	now := day(2024, 7, 2)
	assert.Equal(t, day(2024, 1, 1), InferDate(time.January, 1, now))

	// One day later the future date is closer.
	now = day(2024, 7, 3)
	assert.Equal(t, day(2025, 1, 1), InferDate(time.January, 1, now))
}

func TestInferDate_IgnoresTimeOfDay(t *testing.T) {
	late := time.Date(2026, 1, 5, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, day(2025, 12, 28), InferDate(time.December, 28, late))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 14, DaysBetween(day(2024, 1, 1), day(2024, 1, 15)))
	assert.Equal(t, -14, DaysBetween(day(2024, 1, 15), day(2024, 1, 1)))
	assert.Equal(t, 0, DaysBetween(time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)))
}
