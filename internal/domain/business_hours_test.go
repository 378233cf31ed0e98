package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBusinessHours_Capacity(t *testing.T) {
	hours := DefaultBusinessHours()

	// 2024-05-06 Monday .. 2024-05-12 Sunday: 4*24 + 16 + 0 + 0
	got := hours.Capacity(date(2024, time.May, 6), date(2024, time.May, 12), SlotDurationMinutes, DefaultMaxRecurrenceDays)
	assert.Equal(t, 4*24+16, got)

	// Saturday and Sunday only
	assert.Equal(t, 0, hours.Capacity(date(2024, time.May, 11), date(2024, time.May, 12), SlotDurationMinutes, DefaultMaxRecurrenceDays))

	// safety bound stops counting
	assert.Equal(t, 24, hours.Capacity(date(2024, time.May, 6), date(2024, time.May, 12), SlotDurationMinutes, 1))
}

func TestDayHours_Slots(t *testing.T) {
	assert.Equal(t, 0, DayHours{IsOpen: false, OpenHour: 8, CloseHour: 20}.Slots(30))
	assert.Equal(t, 0, DayHours{IsOpen: true, OpenHour: 20, CloseHour: 8}.Slots(30))
	assert.Equal(t, 10, DayHours{IsOpen: true, OpenHour: 9, CloseHour: 14}.Slots(30))
}

func TestSortBoxesNatural(t *testing.T) {
	boxes := []*Box{{Name: "Box 10"}, {Name: "Box 2"}, {Name: "box 1"}, {Name: "Sala A"}}

	SortBoxesNatural(boxes)

	names := make([]string, 0, len(boxes))
	for _, b := range boxes {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"box 1", "Box 2", "Box 10", "Sala A"}, names)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "centro norte", NormalizeName("  Centro NORTE "))
}
