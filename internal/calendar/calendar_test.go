package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGregorian_Today(t *testing.T) {
	now := time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC)

	assert.Equal(t, date(2026, 3, 14), Gregorian{}.Today(now, time.UTC))

	tokyo := time.FixedZone("JST", 9*3600)
	got := Gregorian{}.Today(now, tokyo)
	assert.Equal(t, 15, got.Day())
	assert.Equal(t, 0, got.Hour())
}

func TestGregorian_AddDays(t *testing.T) {
	assert.Equal(t, date(2026, 3, 1), Gregorian{}.AddDays(date(2026, 2, 28), 1))
	assert.Equal(t, date(2027, 1, 3), Gregorian{}.AddDays(date(2026, 12, 20), 14))
}

func TestGregorian_AddMonths(t *testing.T) {
	tests := []struct {
		name   string
		anchor time.Time
		n      int
		want   time.Time
	}{
		{"plain", date(2026, 1, 5), 1, date(2026, 2, 5)},
		{"clamps to february", date(2026, 1, 31), 1, date(2026, 2, 28)},
		{"leap february", date(2028, 1, 31), 1, date(2028, 2, 29)},
		{"anchor keeps phase", date(2026, 1, 31), 2, date(2026, 3, 31)},
		{"thirty day month", date(2026, 1, 31), 3, date(2026, 4, 30)},
		{"year rollover", date(2026, 11, 15), 3, date(2027, 2, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Gregorian{}.AddMonths(tt.anchor, tt.n))
		})
	}
}

func TestGregorian_NextMonthDay(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		days []int
		want time.Time
	}{
		{"next in month", date(2026, 3, 1), []int{1, 15}, date(2026, 3, 15)},
		{"wraps to next month", date(2026, 3, 15), []int{1, 15}, date(2026, 4, 1)},
		{"unsorted input", date(2026, 3, 2), []int{20, 5}, date(2026, 3, 5)},
		{"clamps short month", date(2026, 2, 15), []int{15, 30}, date(2026, 2, 28)},
		{"clamped day is not repeated", date(2026, 2, 28), []int{15, 30}, date(2026, 3, 15)},
		{"start off schedule", date(2026, 3, 10), []int{1, 15}, date(2026, 3, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Gregorian{}.NextMonthDay(tt.from, tt.days))
		})
	}
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 31, DaysIn(2026, time.January))
	assert.Equal(t, 28, DaysIn(2026, time.February))
	assert.Equal(t, 29, DaysIn(2028, time.February))
	assert.Equal(t, 30, DaysIn(2026, time.April))
}
