package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	"github.com/m04kA/SMC-ClinicBoxService/internal/integrations/events"
	"github.com/m04kA/SMC-ClinicBoxService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ClinicBoxService/internal/testutil/memstore"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/localtime"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/logger"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/types"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type recordingPublisher struct {
	cancelled []events.ReservationsCancelledEvent
}

func (p *recordingPublisher) PublishReservationsCancelled(_ context.Context, e events.ReservationsCancelledEvent) error {
	p.cancelled = append(p.cancelled, e)
	return nil
}

type countingMetrics struct {
	cancelled map[string]int
}

func (m *countingMetrics) IncReservationsCancelled(mode string, n int) {
	if m.cancelled == nil {
		m.cancelled = make(map[string]int)
	}
	m.cancelled[mode] += n
}

var (
	zone = localtime.MustZone(localtime.DefaultZoneName)
	now  = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
)

func newService(store *memstore.Store) (*Service, *recordingPublisher, *countingMetrics) {
	pub := &recordingPublisher{}
	m := &countingMetrics{}
	svc := NewService(store, memstore.TxManager{}, pub, m, zone, logger.NewNop())
	svc.timeProvider = fixedClock{now: now}
	return svc, pub, m
}

func at(t *testing.T, y int, mo time.Month, d int, hhmm string) time.Time {
	t.Helper()
	instant, err := zone.Instant(localtime.Date(y, mo, d), types.MustTimeString(hhmm))
	require.NoError(t, err)
	return instant
}

func put(store *memstore.Store, id, org, doctor string, start time.Time) *domain.Reservation {
	r := &domain.Reservation{
		ID:         id,
		OrgID:      org,
		CenterID:   "c1",
		BoxID:      "b1",
		BoxName:    "Box 1",
		DoctorName: doctor,
		StartTime:  start,
		EndTime:    start.Add(30 * time.Minute),
		Status:     domain.StatusActive,
	}
	store.PutReservation(r)
	return r
}

func TestService_CancelIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	svc, pub, m := newService(store)
	put(store, "r1", "org", "Dr. A", at(t, 2024, 7, 10, "10:00"))

	first, err := svc.Cancel(ctx, "org", "r1")
	require.NoError(t, err)
	assert.False(t, first.AlreadyCancelled)

	svc.timeProvider = fixedClock{now: now.Add(time.Hour)}
	second, err := svc.Cancel(ctx, "org", "r1")
	require.NoError(t, err)
	assert.True(t, second.AlreadyCancelled)

	got, err := store.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	require.NotNil(t, got.CancelledAt)
	assert.True(t, got.CancelledAt.Equal(now), "cancelledAt keeps the first cancellation time")

	assert.Len(t, pub.cancelled, 1)
	assert.Equal(t, 1, m.cancelled[CancelModeSingle])
}

func TestService_OtherOrganizationIsNotFound(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	svc, _, _ := newService(store)
	put(store, "r1", "org-a", "Dr. A", at(t, 2024, 7, 10, "10:00"))

	_, err := svc.Cancel(ctx, "org-b", "r1")
	assert.ErrorIs(t, err, ErrReservationNotFound)

	_, err = svc.GetByID(ctx, "org-b", "r1")
	assert.ErrorIs(t, err, ErrReservationNotFound)

	_, err = svc.GetByID(ctx, "org-a", "missing")
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestService_CancelRange(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	svc, pub, m := newService(store)

	earlier := now.Add(-24 * time.Hour)

	put(store, "mon-1", "org", "Dr. Pérez", at(t, 2024, 3, 4, "10:00"))
	put(store, "mon-2", "org", "Dr. Pérez", at(t, 2024, 3, 11, "10:00"))
	put(store, "mon-3", "org", "Dr. Pérez", at(t, 2024, 3, 18, "10:00"))
	put(store, "mon-4", "org", "Dr. Pérez", at(t, 2024, 3, 25, "10:00"))
	_, err := store.Cancel(ctx, "mon-4", earlier)
	require.NoError(t, err)

	put(store, "half", "org", "Dr. Pérez", at(t, 2024, 3, 11, "10:30"))
	put(store, "other-doctor", "org", "Dr. B", at(t, 2024, 3, 11, "10:00"))
	put(store, "outside", "org", "Dr. Pérez", at(t, 2024, 4, 1, "10:00"))

	resp, err := svc.CancelRange(ctx, &models.CancelRangeRequest{
		OrgID:      "org",
		CenterID:   "c1",
		BoxID:      "b1",
		DoctorName: "Dr. Pérez",
		Time:       "10:00",
		StartDate:  localtime.Date(2024, 3, 1),
		EndDate:    localtime.Date(2024, 3, 31),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Cancelled)
	assert.ElementsMatch(t, []string{"mon-1", "mon-2", "mon-3"}, resp.ReservationIDs)

	byID := make(map[string]*domain.Reservation)
	for _, r := range store.Reservations() {
		byID[r.ID] = r
	}

	require.NotNil(t, byID["mon-4"].CancelledAt)
	assert.True(t, byID["mon-4"].CancelledAt.Equal(earlier), "already cancelled record is untouched")
	assert.True(t, byID["half"].IsActive())
	assert.True(t, byID["other-doctor"].IsActive())
	assert.True(t, byID["outside"].IsActive())

	require.Len(t, pub.cancelled, 1)
	assert.Equal(t, CancelModeRange, pub.cancelled[0].Mode)
	assert.Equal(t, 3, m.cancelled[CancelModeRange])
}

func TestService_CancelRangeValidation(t *testing.T) {
	svc, _, _ := newService(memstore.New())

	_, err := svc.CancelRange(context.Background(), &models.CancelRangeRequest{
		OrgID:      "org",
		CenterID:   "c1",
		BoxID:      "b1",
		DoctorName: "Dr. A",
		Time:       "10:00",
		StartDate:  localtime.Date(2024, 7, 31),
		EndDate:    localtime.Date(2024, 7, 1),
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = svc.CancelRange(context.Background(), &models.CancelRangeRequest{
		OrgID:     "org",
		CenterID:  "c1",
		BoxID:     "b1",
		Time:      "10:00",
		StartDate: localtime.Date(2024, 7, 1),
		EndDate:   localtime.Date(2024, 7, 31),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CancelRange(context.Background(), &models.CancelRangeRequest{
		OrgID:      "org",
		CenterID:   "c1",
		BoxID:      "b1",
		DoctorName: "Dr. A",
		Time:       "9:30",
		StartDate:  localtime.Date(2024, 7, 1),
		EndDate:    localtime.Date(2024, 7, 31),
	})
	assert.ErrorIs(t, err, ErrInvalidInput, "non-canonical time would silently match nothing")
}

func TestService_UpdateNoteKeepsStatusAndTime(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	svc, _, _ := newService(store)
	start := at(t, 2024, 7, 10, "14:00")
	put(store, "r1", "org", "Dr. A", start)

	resp, err := svc.UpdateNote(ctx, "org", "r1", "control post-operatorio")
	require.NoError(t, err)
	assert.Equal(t, "control post-operatorio", resp.Observation)
	assert.Equal(t, "14:00", resp.LocalTime)
	assert.Equal(t, "2024-07-10T14:00:00-04:00", resp.StartTime)

	got, err := store.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "control post-operatorio", got.Observation)
	assert.True(t, got.IsActive())
	assert.True(t, got.StartTime.Equal(start))
}
