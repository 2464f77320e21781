// Package calendar provides the date arithmetic used when expanding recurring
// entries. All values are calendar dates: midnight in the value's location.
package calendar

import (
	"sort"
	"time"
)

// Calendar performs calendar-correct day and month arithmetic.
type Calendar interface {
	// Today truncates now to midnight in loc
	Today(now time.Time, loc *time.Location) time.Time

	// AddDays moves d by n calendar days
	AddDays(d time.Time, n int) time.Time

	// AddMonths returns anchor moved by n months, clamping the day to the
	// length of the target month
	AddMonths(anchor time.Time, n int) time.Time

	// NextMonthDay returns the first date strictly after d whose day of month
	// is one of days, wrapping into the following month when needed
	NextMonthDay(d time.Time, days []int) time.Time
}

// Gregorian is the default Calendar.
type Gregorian struct{}

// Default is the calendar used when none is configured.
var Default Calendar = Gregorian{}

// Today truncates now to midnight in loc
func (Gregorian) Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = now.Location()
	}
	now = now.In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
}

// AddDays moves d by n calendar days
func (Gregorian) AddDays(d time.Time, n int) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day()+n, 0, 0, 0, 0, d.Location())
}

// AddMonths returns anchor moved by n months with the day clamped to the month end
func (Gregorian) AddMonths(anchor time.Time, n int) time.Time {
	first := time.Date(anchor.Year(), anchor.Month()+time.Month(n), 1, 0, 0, 0, 0, anchor.Location())
	day := anchor.Day()
	if last := DaysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, anchor.Location())
}

// NextMonthDay returns the next configured day of month after d
func (Gregorian) NextMonthDay(d time.Time, days []int) time.Time {
	sorted := append([]int(nil), days...)
	sort.Ints(sorted)

	year, month := d.Year(), d.Month()
	for _, day := range sorted {
		if c := clampDay(year, month, day); c > d.Day() {
			return time.Date(year, month, c, 0, 0, 0, 0, d.Location())
		}
	}

	next := time.Date(year, month+1, 1, 0, 0, 0, 0, d.Location())
	return time.Date(next.Year(), next.Month(), clampDay(next.Year(), next.Month(), sorted[0]), 0, 0, 0, 0, d.Location())
}

// DaysIn returns the number of days in the given month
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func clampDay(year int, month time.Month, day int) int {
	if day < 1 {
		return 1
	}
	if last := DaysIn(year, month); day > last {
		return last
	}
	return day
}
