package services

import (
	"time"

	"moneytrack/internal/core"
)

// DuenessChecker decides whether a scheduled date has arrived for an owner
// in the given time zone.
type DuenessChecker interface {
	IsDue(scheduled core.Date, timeZone string) (bool, error)
}

// LocalDateChecker compares scheduled dates with the owner's calendar date
// at one fixed instant, so every item in a pass sees the same "today".
// It is not safe for concurrent use.
type LocalDateChecker struct {
	now   time.Time
	today map[string]core.Date
}

func NewLocalDateChecker(now time.Time) *LocalDateChecker {
	return &LocalDateChecker{now: now, today: make(map[string]core.Date)}
}

// Today returns the calendar date in timeZone at the checker's instant.
func (c *LocalDateChecker) Today(timeZone string) (core.Date, error) {
	if d, ok := c.today[timeZone]; ok {
		return d, nil
	}
	d, err := core.LocalDate(c.now, timeZone)
	if err != nil {
		return core.Date{}, err
	}
	c.today[timeZone] = d
	return d, nil
}

func (c *LocalDateChecker) IsDue(scheduled core.Date, timeZone string) (bool, error) {
	if scheduled.IsEmpty() {
		return false, nil
	}
	today, err := c.Today(timeZone)
	if err != nil {
		return false, err
	}
	return scheduled.OnOrBefore(today), nil
}

// Cutoff is the latest date that can be due anywhere at the checker's
// instant. Zones run at most one calendar day ahead of UTC.
func (c *LocalDateChecker) Cutoff() core.Date {
	utc := core.DateOf(c.now.UTC())
	return core.Date{Time: utc.AddDate(0, 0, 1)}
}
