package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrRecurrenceTooLong is returned when the range between anchor and end exceeds the bound
var ErrRecurrenceTooLong = errors.New("domain: recurrence range is too long")

// ExpandRecurrence returns every calendar date in [anchor, end] whose weekday is in weekdays,
// in ascending order. Dates are compared as calendar dates; time of day is ignored.
// An end before the anchor or an empty weekday set yields no dates.
// A range longer than maxDays days is rejected; maxDays <= 0 disables the bound.
func ExpandRecurrence(anchor, end time.Time, weekdays []time.Weekday, maxDays int) ([]time.Time, error) {
	dates := make([]time.Time, 0)

	from := calendarDate(anchor)
	to := calendarDate(end)
	if to.Before(from) || len(weekdays) == 0 {
		return dates, nil
	}

	span := int(to.Sub(from).Hours()/24) + 1
	if maxDays > 0 && span > maxDays {
		return nil, fmt.Errorf("%w: %d days, at most %d allowed", ErrRecurrenceTooLong, span, maxDays)
	}

	wanted := make(map[time.Weekday]struct{}, len(weekdays))
	for _, wd := range weekdays {
		wanted[wd] = struct{}{}
	}

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if _, ok := wanted[d.Weekday()]; ok {
			dates = append(dates, d)
		}
	}

	return dates, nil
}

// calendarDate drops time of day and zone; the result is midnight UTC
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
