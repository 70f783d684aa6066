package core

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

const DateLayout = "2006-01-02"

// Date is a calendar date pinned to midnight UTC. The zero value means "unset".
type Date struct {
	time.Time
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses YYYY-MM-DD. Empty input yields the zero Date.
func ParseDate(field, s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, Invalid(field, "date %q is not valid", s)
	}
	return Date{Time: t}, nil
}

// LocalDate returns the calendar date of now in the IANA zone tz.
func LocalDate(now time.Time, tz string) (Date, error) {
	loc, err := LoadZone(tz)
	if err != nil {
		return Date{}, err
	}
	return DateOf(now.In(loc)), nil
}

// LoadZone resolves tz, treating an empty name as UTC.
func LoadZone(tz string) (*time.Location, error) {
	if strings.TrimSpace(tz) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, Invalid("time_zone", "unknown time zone %q", tz)
	}
	return loc, nil
}

// OnOrBefore reports d <= other.
func (d Date) OnOrBefore(other Date) bool {
	return !d.Time.After(other.Time)
}

// IsEmpty returns true if the date is zero (for optional dates)
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// MonthBounds returns the first and last day of d's month.
func (d Date) MonthBounds() (Date, Date) {
	first := NewDate(d.Year(), d.Month(), 1)
	last := Date{Time: first.AddDate(0, 1, -1)}
	return first, last
}

func (d Date) GoString() string {
	return fmt.Sprintf("core.NewDate(%d, %d, %d)", d.Year(), d.Month(), d.Day())
}
