package get_day_schedule

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

func setup(t *testing.T) (*UseCase, *memstore.Store, *domain.Center) {
	t.Helper()
	ctx := context.Background()

	store := memstore.New()
	dir := directory.NewService(store, logger.NewNop())

	center, _, err := dir.CreateCenter(ctx, org, "Centro")
	require.NoError(t, err)
	for _, name := range []string{"Box 10", "Box 2", "Box 1"} {
		_, _, err := dir.CreateBox(ctx, org, center.ID, name)
		require.NoError(t, err)
	}

	uc := NewUseCase(store, dir, zone, domain.DefaultDayStart, domain.DefaultDayEnd, domain.SlotDurationMinutes, logger.NewNop())
	return uc, store, center
}

func put(t *testing.T, store *memstore.Store, centerID, box, doctor string, date time.Time, at types.TimeString, status domain.ReservationStatus) {
	t.Helper()
	start, err := zone.Instant(date, at)
	require.NoError(t, err)
	store.PutReservation(&domain.Reservation{
		OrgID:      org,
		CenterID:   centerID,
		BoxName:    box,
		DoctorName: doctor,
		StartTime:  start,
		EndTime:    start.Add(30 * time.Minute),
		Status:     status,
	})
}

func TestExecute_BuildsDayGrid(t *testing.T) {
	uc, store, center := setup(t)
	date := localtime.Date(2024, 7, 10)

	put(t, store, center.ID, "Box 1", "Dr. Soto", date, "08:00", domain.StatusActive)
	put(t, store, center.ID, "Box 2", "Dra. Rojas", date, "19:30", domain.StatusActive)
	put(t, store, center.ID, "Box 2", "Dra. Rojas", date, "10:00", domain.StatusCancelled)
	put(t, store, center.ID, "Box 1", "Dr. Soto", date.AddDate(0, 0, 1), "08:00", domain.StatusActive)

	resp, err := uc.Execute(context.Background(), &Request{OrgID: org, CenterID: center.ID, Date: date})
	require.NoError(t, err)

	require.Len(t, resp.Boxes, 3)
	assert.Equal(t, "Box 1", resp.Boxes[0].Name)
	assert.Equal(t, "Box 2", resp.Boxes[1].Name)
	assert.Equal(t, "Box 10", resp.Boxes[2].Name)

	require.Len(t, resp.TimeLabels, 24)
	assert.Equal(t, types.TimeString("08:00"), resp.TimeLabels[0])
	assert.Equal(t, types.TimeString("19:30"), resp.TimeLabels[23])

	_, ok := resp.Grid.Lookup("Box 1", "08:00")
	assert.True(t, ok)
	_, ok = resp.Grid.Lookup("Box 2", "19:30")
	assert.True(t, ok)
	_, ok = resp.Grid.Lookup("Box 2", "10:00")
	assert.False(t, ok, "cancelled reservations are not shown")

	assert.Equal(t, 2, resp.Occupied)
	assert.Equal(t, 3*24-2, resp.Free)
}

func TestExecute_Filters(t *testing.T) {
	uc, store, center := setup(t)
	date := localtime.Date(2024, 7, 10)

	put(t, store, center.ID, "Box 1", "Dr. Soto", date, "09:00", domain.StatusActive)
	put(t, store, center.ID, "Box 2", "Dra. Rojas", date, "09:00", domain.StatusActive)

	resp, err := uc.Execute(context.Background(), &Request{
		OrgID:      org,
		CenterID:   center.ID,
		Date:       date,
		DoctorName: ptr.Ptr("rojas"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Occupied)
	_, ok := resp.Grid.Lookup("Box 2", "09:00")
	assert.True(t, ok)

	resp, err = uc.Execute(context.Background(), &Request{
		OrgID:    org,
		CenterID: center.ID,
		Date:     date,
		BoxName:  ptr.Ptr("box 1"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Boxes, 2, "substring match keeps Box 1 and Box 10")
	assert.Equal(t, 1, resp.Occupied)
}

func TestExecute_UnknownCenter(t *testing.T) {
	uc, _, _ := setup(t)

	_, err := uc.Execute(context.Background(), &Request{OrgID: org, CenterID: "missing", Date: localtime.Date(2024, 7, 10)})
	assert.ErrorIs(t, err, ErrCenterNotFound)

	_, err = uc.Execute(context.Background(), &Request{OrgID: org, CenterID: "missing"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
