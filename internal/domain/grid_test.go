package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBoxService/pkg/localtime"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/types"
)

func TestBuildGrid(t *testing.T) {
	zone := localtime.MustZone(localtime.DefaultZoneName)
	at := func(hour, minute int) time.Time {
		// 2024-07-10, UTC-4
		return time.Date(2024, time.July, 10, hour+4, minute, 0, 0, time.UTC)
	}

	reservations := []*Reservation{
		{ID: "r1", BoxName: "Box A", BoxID: "b1", DoctorName: "Dr. Soto", StartTime: at(9, 0), Status: StatusActive},
		{ID: "r2", BoxName: "Box A", BoxID: "b1", DoctorName: "Dr. Soto", StartTime: at(9, 30), Observation: "control"},
		{ID: "r3", BoxName: "Box B", BoxID: "b2", DoctorName: "Dr. Pérez", StartTime: at(14, 0), Status: StatusCancelled},
		{ID: "r4", BoxName: "", StartTime: at(10, 0)},
		{ID: "r5", BoxName: "Box B", StartTime: time.Time{}},
	}

	grid, skipped := BuildGrid(reservations, zone)

	require.Len(t, grid, 1)
	assert.Len(t, grid["Box A"], 2)
	assert.ElementsMatch(t, []string{"r4", "r5"}, skipped)

	info, ok := grid.Lookup("Box A", "09:30")
	require.True(t, ok)
	assert.Equal(t, "r2", info.ReservationID)
	assert.Equal(t, "control", info.Observation)
	assert.Equal(t, "b1", info.BoxID)

	_, ok = grid.Lookup("Box B", "14:00")
	assert.False(t, ok, "cancelled reservation must not occupy the grid")
	assert.Equal(t, 2, grid.Occupied())
}

func TestBuildGrid_SameBoxAndTime(t *testing.T) {
	zone := localtime.MustZone(localtime.DefaultZoneName)
	// 2024-07-10 09:00 local (UTC-4)
	start := time.Date(2024, time.July, 10, 13, 0, 0, 0, time.UTC)

	r1 := &Reservation{ID: "r1", BoxName: "Box A", DoctorName: "Dr. Soto", StartTime: start, Status: StatusActive}
	r2 := &Reservation{ID: "r2", BoxName: "Box A", DoctorName: "Dr. Rojas", StartTime: start, Status: StatusActive}

	before, _ := BuildGrid([]*Reservation{r1}, zone)
	assert.True(t, before.HasConflict("Box A", []types.TimeString{"09:00"}), "second insert must see the first one")

	grid, skipped := BuildGrid([]*Reservation{r1, r2}, zone)
	assert.Empty(t, skipped)
	require.Len(t, grid["Box A"], 1)
	assert.Equal(t, 1, grid.Occupied())

	_, ok := grid.Lookup("Box A", "09:00")
	assert.True(t, ok)
}

func TestTimeSlotGrid_Conflicts(t *testing.T) {
	grid := TimeSlotGrid{
		"Box A": {"09:00": OccupancySlotInfo{ReservationID: "r1"}},
	}

	tests := []struct {
		name  string
		box   string
		times []types.TimeString
		want  []types.TimeString
	}{
		{name: "occupied slot", box: "Box A", times: []types.TimeString{"09:00"}, want: []types.TimeString{"09:00"}},
		{name: "free slot", box: "Box A", times: []types.TimeString{"09:30"}, want: []types.TimeString{}},
		{name: "unknown box", box: "Box B", times: []types.TimeString{"09:00"}, want: []types.TimeString{}},
		{name: "mixed request", box: "Box A", times: []types.TimeString{"08:30", "09:00", "09:30"}, want: []types.TimeString{"09:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := grid.Conflicts(tt.box, tt.times)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want) > 0, grid.HasConflict(tt.box, tt.times))
		})
	}
}

func TestDaySlots(t *testing.T) {
	slots := DaySlots(DefaultDayStart, DefaultDayEnd, SlotDurationMinutes)

	require.Len(t, slots, 24)
	assert.Equal(t, types.TimeString("08:00"), slots[0])
	assert.Equal(t, types.TimeString("08:30"), slots[1])
	assert.Equal(t, types.TimeString("19:30"), slots[len(slots)-1])

	assert.Empty(t, DaySlots("10:00", "10:00", SlotDurationMinutes))
	assert.Equal(t, []types.TimeString{"23:00"}, DaySlots("23:00", "23:59", SlotDurationMinutes))
}

func TestReservation_Cancel(t *testing.T) {
	first := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	r := &Reservation{ID: "r1"}
	assert.True(t, r.IsActive(), "missing status reads as active")

	assert.True(t, r.Cancel(first))
	assert.True(t, r.IsCancelled())
	require.NotNil(t, r.CancelledAt)

	assert.False(t, r.Cancel(second))
	assert.Equal(t, first, *r.CancelledAt)
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, StatusActive, NormalizeStatus(""))
	assert.Equal(t, StatusActive, NormalizeStatus("active"))
	assert.Equal(t, StatusCancelled, NormalizeStatus("cancelled"))
}
