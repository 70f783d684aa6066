package core

import (
	"fmt"
	"strings"
	"time"
)

type Frequency string

const (
	Daily     Frequency = "Daily"
	Weekly    Frequency = "Weekly"
	Biweekly  Frequency = "Biweekly"
	Monthly   Frequency = "Monthly"
	Quarterly Frequency = "Quarterly"
	Biannual  Frequency = "Biannual"
	Annual    Frequency = "Annual"
)

// Frequencies lists every supported period in display order.
var Frequencies = []Frequency{Daily, Weekly, Biweekly, Monthly, Quarterly, Biannual, Annual}

// ParseFrequency accepts a period name case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	s = strings.TrimSpace(s)
	for _, f := range Frequencies {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFrequency, s)
}

// Calendar owns the frequency -> next-date table used by budget resets and
// subscription postings.
type Calendar struct {
	// BiweeklyWeeks is the forward step for Biweekly. The historical
	// behaviour advanced a single week; 2 is the calendar meaning.
	BiweeklyWeeks int
}

// DefaultCalendar advances Biweekly by two weeks.
func DefaultCalendar() Calendar {
	return Calendar{BiweeklyWeeks: 2}
}

// LegacyCalendar reproduces the historical one-week Biweekly advance.
func LegacyCalendar() Calendar {
	return Calendar{BiweeklyWeeks: 1}
}

// Next advances d by one period of f.
func (c Calendar) Next(d Date, f Frequency) (Date, error) {
	weeks := c.BiweeklyWeeks
	if weeks <= 0 {
		weeks = 2
	}
	switch f {
	case Daily:
		return Date{Time: d.AddDate(0, 0, 1)}, nil
	case Weekly:
		return Date{Time: d.AddDate(0, 0, 7)}, nil
	case Biweekly:
		return Date{Time: d.AddDate(0, 0, 7*weeks)}, nil
	case Monthly:
		return addMonths(d, 1), nil
	case Quarterly:
		return addMonths(d, 3), nil
	case Biannual:
		return addMonths(d, 6), nil
	case Annual:
		return addMonths(d, 12), nil
	default:
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidFrequency, string(f))
	}
}

// Prev steps d back by one period of f. Biweekly always steps two weeks.
func (c Calendar) Prev(d Date, f Frequency) (Date, error) {
	switch f {
	case Daily:
		return Date{Time: d.AddDate(0, 0, -1)}, nil
	case Weekly:
		return Date{Time: d.AddDate(0, 0, -7)}, nil
	case Biweekly:
		return Date{Time: d.AddDate(0, 0, -14)}, nil
	case Monthly:
		return addMonths(d, -1), nil
	case Quarterly:
		return addMonths(d, -3), nil
	case Biannual:
		return addMonths(d, -6), nil
	case Annual:
		return addMonths(d, -12), nil
	default:
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidFrequency, string(f))
	}
}

// addMonths moves d by n months, clamping the day to the target month's end
// (Jan 31 + 1 month = Feb 28/29).
func addMonths(d Date, n int) Date {
	first := time.Date(d.Year(), time.Month(d.Month()+n), 1, 0, 0, 0, 0, time.UTC)
	lastDay := first.AddDate(0, 1, -1).Day()
	day := d.Day()
	if day > lastDay {
		day = lastDay
	}
	return NewDate(first.Year(), int(first.Month()), day)
}
