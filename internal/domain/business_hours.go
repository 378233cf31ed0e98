package domain

import "time"

// DayHours opening hours of one day (whole hours, local time)
type DayHours struct {
	IsOpen    bool
	OpenHour  int
	CloseHour int
}

// Slots returns how many slots of slotMinutes fit into the day
func (d DayHours) Slots(slotMinutes int) int {
	if !d.IsOpen || slotMinutes <= 0 || d.CloseHour <= d.OpenHour {
		return 0
	}
	return (d.CloseHour - d.OpenHour) * 60 / slotMinutes
}

// BusinessHours opening hours of an organization.
// Monday to Thursday share one configuration.
type BusinessHours struct {
	Weekdays DayHours
	Friday   DayHours
	Saturday DayHours
	Sunday   DayHours
}

// DefaultBusinessHours Mon–Thu 8–20, Fri 8–16, weekend closed
func DefaultBusinessHours() BusinessHours {
	return BusinessHours{
		Weekdays: DayHours{IsOpen: true, OpenHour: 8, CloseHour: 20},
		Friday:   DayHours{IsOpen: true, OpenHour: 8, CloseHour: 16},
		Saturday: DayHours{IsOpen: false, OpenHour: 9, CloseHour: 14},
		Sunday:   DayHours{IsOpen: false},
	}
}

// ForWeekday returns the hours applying to the given weekday
func (b BusinessHours) ForWeekday(wd time.Weekday) DayHours {
	switch wd {
	case time.Friday:
		return b.Friday
	case time.Saturday:
		return b.Saturday
	case time.Sunday:
		return b.Sunday
	default:
		return b.Weekdays
	}
}

// SlotsForDay returns how many slots the given weekday offers
func (b BusinessHours) SlotsForDay(wd time.Weekday, slotMinutes int) int {
	return b.ForWeekday(wd).Slots(slotMinutes)
}

// Capacity returns the number of slots one box offers between start and end dates inclusive.
// At most maxDays days are counted.
func (b BusinessHours) Capacity(start, end time.Time, slotMinutes, maxDays int) int {
	total := 0
	from := calendarDate(start)
	to := calendarDate(end)

	days := 0
	for d := from; !d.After(to) && days < maxDays; d = d.AddDate(0, 0, 1) {
		total += b.SlotsForDay(d.Weekday(), slotMinutes)
		days++
	}

	return total
}
