package domain

import (
	"time"

	"github.com/m04kA/SMC-ClinicBoxService/pkg/localtime"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/types"
)

// OccupancySlotInfo describes who occupies a grid cell
type OccupancySlotInfo struct {
	ReservationID string
	DoctorName    string
	Observation   string
	BoxID         string
	StartTime     time.Time
}

// TimeSlotGrid maps box name -> local start time (HH:MM) -> occupant.
// Only active reservations are present.
type TimeSlotGrid map[string]map[types.TimeString]OccupancySlotInfo

// BuildGrid projects the reservations of one day onto the grid.
// Cancelled reservations and records without a box name or start instant are left out;
// the ids of such records are returned so the caller can report them.
func BuildGrid(reservations []*Reservation, zone *localtime.Zone) (TimeSlotGrid, []string) {
	grid := make(TimeSlotGrid)
	skipped := make([]string, 0)

	for _, r := range reservations {
		if r == nil || r.IsCancelled() {
			continue
		}
		if r.BoxName == "" || r.StartTime.IsZero() {
			skipped = append(skipped, r.ID)
			continue
		}

		slots, ok := grid[r.BoxName]
		if !ok {
			slots = make(map[types.TimeString]OccupancySlotInfo)
			grid[r.BoxName] = slots
		}

		slots[zone.TimeOf(r.StartTime)] = OccupancySlotInfo{
			ReservationID: r.ID,
			DoctorName:    r.DoctorName,
			Observation:   r.Observation,
			BoxID:         r.BoxID,
			StartTime:     r.StartTime,
		}
	}

	return grid, skipped
}

// Lookup returns the occupant of a cell
func (g TimeSlotGrid) Lookup(boxName string, at types.TimeString) (OccupancySlotInfo, bool) {
	info, ok := g[boxName][at]
	return info, ok
}

// Conflicts returns requested times that are already occupied in the box.
// A box absent from the grid has no occupied slots.
func (g TimeSlotGrid) Conflicts(boxName string, times []types.TimeString) []types.TimeString {
	occupied := make([]types.TimeString, 0)
	slots, ok := g[boxName]
	if !ok {
		return occupied
	}
	for _, t := range times {
		if _, taken := slots[t]; taken {
			occupied = append(occupied, t)
		}
	}
	return occupied
}

// HasConflict reports whether any requested time is occupied in the box
func (g TimeSlotGrid) HasConflict(boxName string, times []types.TimeString) bool {
	return len(g.Conflicts(boxName, times)) > 0
}

// Occupied returns the number of occupied cells across all boxes
func (g TimeSlotGrid) Occupied() int {
	total := 0
	for _, slots := range g {
		total += len(slots)
	}
	return total
}

// DaySlots returns slot labels from start to end in steps of stepMinutes.
// A slot is included only if it ends no later than end.
func DaySlots(start, end types.TimeString, stepMinutes int) []types.TimeString {
	slots := make([]types.TimeString, 0)
	if stepMinutes <= 0 {
		return slots
	}

	current := start
	for current.IsBefore(end) {
		slotEnd, err := current.AddMinutes(stepMinutes)
		if err != nil {
			break
		}
		if slotEnd.IsAfter(end) {
			break
		}
		slots = append(slots, current)
		current = slotEnd
	}

	return slots
}
