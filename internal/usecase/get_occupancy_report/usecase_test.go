package get_occupancy_report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	"github.com/m04kA/SMC-ClinicBoxService/internal/service/directory"
	"github.com/m04kA/SMC-ClinicBoxService/internal/testutil/memstore"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/localtime"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/logger"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/ptr"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/types"
)

const org = "org-1"

var zone = localtime.MustZone(localtime.DefaultZoneName)

type fixture struct {
	uc     *UseCase
	store  *memstore.Store
	center *domain.Center
	boxes  map[string]*domain.Box
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memstore.New()
	dir := directory.NewService(store, logger.NewNop())

	center, _, err := dir.CreateCenter(ctx, org, "Centro")
	require.NoError(t, err)

	boxes := make(map[string]*domain.Box)
	for _, name := range []string{"Box 10", "Box 2", "Box 1"} {
		box, _, err := dir.CreateBox(ctx, org, center.ID, name)
		require.NoError(t, err)
		boxes[name] = box
	}

	uc := NewUseCase(store, store, domain.DefaultBusinessHours(), zone,
		domain.SlotDurationMinutes, domain.DefaultMaxRecurrenceDays, logger.NewNop())

	return &fixture{uc: uc, store: store, center: center, boxes: boxes}
}

func (f *fixture) put(t *testing.T, boxID, boxName string, date time.Time, at types.TimeString, status domain.ReservationStatus) {
	t.Helper()
	start, err := zone.Instant(date, at)
	require.NoError(t, err)
	f.store.PutReservation(&domain.Reservation{
		OrgID:      org,
		CenterID:   f.center.ID,
		BoxID:      boxID,
		BoxName:    boxName,
		DoctorName: "Dr. Soto",
		StartTime:  start,
		EndTime:    start.Add(30 * time.Minute),
		Status:     status,
	})
}

// seed неделя 2024-05-06 (пн) .. 2024-05-12 (вс)
func (f *fixture) seed(t *testing.T) {
	t.Helper()
	monday := localtime.Date(2024, 5, 6)
	box2 := f.boxes["Box 2"]

	f.put(t, box2.ID, box2.Name, monday, "08:00", domain.StatusActive)
	f.put(t, box2.ID, box2.Name, monday, "08:30", domain.StatusActive)
	f.put(t, box2.ID, box2.Name, monday, "09:00", domain.StatusActive)
	f.put(t, "", "box 1", localtime.Date(2024, 5, 10), "10:00", domain.StatusActive)
	f.put(t, "", "Box 1", localtime.Date(2024, 5, 7), "10:00", domain.StatusCancelled)
	f.put(t, "", "Box 1", localtime.Date(2024, 5, 13), "10:00", domain.StatusActive)
}

func TestExecute_Report(t *testing.T) {
	f := setup(t)
	f.seed(t)

	resp, err := f.uc.Execute(context.Background(), &Request{
		OrgID:     org,
		StartDate: localtime.Date(2024, 5, 6),
		EndDate:   localtime.Date(2024, 5, 12),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.Active)
	assert.Equal(t, 1, resp.Cancelled)
	assert.Equal(t, 20.0, resp.CancellationRate)
	assert.Equal(t, 4*24+16, resp.CapacityPerBox)

	require.Len(t, resp.Boxes, 3)
	assert.Equal(t, "Box 2", resp.Boxes[0].BoxName)
	assert.Equal(t, 3, resp.Boxes[0].Occupied)
	assert.Equal(t, 2.7, resp.Boxes[0].OccupiedPct)
	assert.Equal(t, "Box 1", resp.Boxes[1].BoxName)
	assert.Equal(t, 1, resp.Boxes[1].Occupied, "matched by name when box id is missing")
	assert.Equal(t, 0.9, resp.Boxes[1].OccupiedPct)
	assert.Equal(t, "Box 10", resp.Boxes[2].BoxName)
	assert.Equal(t, 0.0, resp.Boxes[2].OccupiedPct)

	assert.Equal(t, GranularityDay, resp.Granularity)
	assert.Equal(t, []TimelinePoint{{Key: "2024-05-06", Count: 3}, {Key: "2024-05-10", Count: 1}}, resp.Timeline)
}

func TestExecute_TimelineGranularity(t *testing.T) {
	f := setup(t)
	f.seed(t)

	resp, err := f.uc.Execute(context.Background(), &Request{
		OrgID:       org,
		StartDate:   localtime.Date(2024, 5, 1),
		EndDate:     localtime.Date(2024, 5, 31),
		Granularity: GranularityWeek,
	})
	require.NoError(t, err)
	assert.Equal(t, []TimelinePoint{{Key: "2024-05-06", Count: 4}, {Key: "2024-05-13", Count: 1}}, resp.Timeline)

	resp, err = f.uc.Execute(context.Background(), &Request{
		OrgID:       org,
		StartDate:   localtime.Date(2024, 5, 1),
		EndDate:     localtime.Date(2024, 5, 31),
		Granularity: "Month",
	})
	require.NoError(t, err)
	assert.Equal(t, []TimelinePoint{{Key: "2024-05", Count: 5}}, resp.Timeline)
}

func TestExecute_BusinessHoursOverride(t *testing.T) {
	f := setup(t)
	f.seed(t)
	monday := localtime.Date(2024, 5, 6)

	short := domain.DefaultBusinessHours()
	short.Weekdays = domain.DayHours{IsOpen: true, OpenHour: 8, CloseHour: 9}

	resp, err := f.uc.Execute(context.Background(), &Request{
		OrgID:         org,
		StartDate:     monday,
		EndDate:       monday,
		BusinessHours: &short,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.CapacityPerBox)
	assert.Equal(t, 3, resp.Boxes[0].Occupied)
	assert.Equal(t, 100.0, resp.Boxes[0].OccupiedPct, "occupancy is capped")

	closed := domain.BusinessHours{}
	resp, err = f.uc.Execute(context.Background(), &Request{
		OrgID:         org,
		StartDate:     monday,
		EndDate:       monday,
		BusinessHours: &closed,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.CapacityPerBox)
	for _, b := range resp.Boxes {
		assert.Equal(t, 0.0, b.OccupiedPct)
	}
}

func TestExecute_CenterScope(t *testing.T) {
	f := setup(t)
	f.seed(t)

	resp, err := f.uc.Execute(context.Background(), &Request{
		OrgID:     org,
		CenterID:  ptr.Ptr("other-center"),
		StartDate: localtime.Date(2024, 5, 6),
		EndDate:   localtime.Date(2024, 5, 12),
	})
	require.NoError(t, err)
	assert.Zero(t, resp.Active)
	assert.Empty(t, resp.Boxes)
	assert.Zero(t, resp.CancellationRate)
}

func TestExecute_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, &Request{StartDate: localtime.Date(2024, 5, 6), EndDate: localtime.Date(2024, 5, 6)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(ctx, &Request{OrgID: org, StartDate: localtime.Date(2024, 5, 7), EndDate: localtime.Date(2024, 5, 6)})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = f.uc.Execute(ctx, &Request{OrgID: org, StartDate: localtime.Date(2024, 5, 6), EndDate: localtime.Date(2024, 5, 6), Granularity: "year"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
