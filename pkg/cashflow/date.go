package cashflow

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a custom type that handles date-only JSON values
type Date struct {
	time.Time
}

// NewDate returns the calendar date of t, at midnight in t's location
func NewDate(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())}
}

// DateOf builds a Date in loc (UTC when nil)
func DateOf(year int, month time.Month, day int, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, loc)}
}

// ParseDate parses a YYYY-MM-DD value in loc (UTC when nil)
func ParseDate(s string, loc *time.Location) (Date, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return Date{}, fmt.Errorf("unable to parse date: %s", s)
	}
	return Date{Time: t}, nil
}

// In returns the same calendar date at midnight in loc
func (d Date) In(loc *time.Location) Date {
	if d.IsZero() || loc == nil {
		return d
	}
	return DateOf(d.Year(), d.Month(), d.Day(), loc)
}

// AddDays moves the date by n calendar days
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

// Key returns the date's YYYY-MM-DD form used to bucket events
func (d Date) Key() string {
	return d.Format(dateLayout)
}

// UnmarshalJSON implements json.Unmarshaler for Date
func (d *Date) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)

	if str == "" || str == "null" {
		d.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(dateLayout, str)
	if err == nil {
		d.Time = t
		return nil
	}

	t, err = time.Parse(time.RFC3339, str)
	if err == nil {
		d.Time = NewDate(t).Time
		return nil
	}

	return fmt.Errorf("unable to parse date: %s", str)
}

// MarshalJSON implements json.Marshaler for Date
func (d Date) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf(`"%s"`, d.Time.Format(dateLayout))), nil
}

// String returns the date as a string
func (d Date) String() string {
	if d.Time.IsZero() {
		return ""
	}
	return d.Time.Format(dateLayout)
}
