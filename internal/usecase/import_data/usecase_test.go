package import_data

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	"github.com/m04kA/SMC-ClinicBoxService/internal/service/directory"
	"github.com/m04kA/SMC-ClinicBoxService/internal/testutil/memstore"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/csvrows"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/logger"
)

const (
	org  = "org-1"
	user = "user-1"
)

type countingMetrics struct {
	rows map[string]int
}

func (m *countingMetrics) IncImportRows(kind, outcome string, n int) {
	if m.rows == nil {
		m.rows = make(map[string]int)
	}
	m.rows[kind+"/"+outcome] += n
}

type sleepRecorder struct {
	calls []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	return nil
}

func setup(t *testing.T, opts Options) (*UseCase, *memstore.Store, *countingMetrics, *sleepRecorder) {
	t.Helper()

	store := memstore.New()
	dir := directory.NewService(store, logger.NewNop())
	metrics := &countingMetrics{}
	sleeper := &sleepRecorder{}

	uc := NewUseCase(store, store, dir, metrics, opts, logger.NewNop())
	uc.sleep = sleeper.sleep
	return uc, store, metrics, sleeper
}

func rows(t *testing.T, csv string) []csvrows.Row {
	t.Helper()
	parsed, err := csvrows.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	return parsed
}

func TestExecute_InfrastructureMergesCenterNames(t *testing.T) {
	uc, store, metrics, _ := setup(t, Options{})

	var messages []string
	result, err := uc.Execute(context.Background(), &Request{
		OrgID: org,
		Kind:  KindInfrastructure,
		Rows: rows(t, "CAE,BOX\n"+
			"Centro Norte,Box 1\n"+
			"  centro norte ,Box 2\n"+
			"Centro Norte,box 1\n"+
			",Box 9\n"),
		Log: func(msg string) { messages = append(messages, msg) },
	})
	require.NoError(t, err)

	require.Len(t, store.Centers(), 1)
	assert.Equal(t, "Centro Norte", store.Centers()[0].Name)
	assert.Len(t, store.Boxes(), 2)

	assert.Equal(t, 4, result.RowsSeen)
	assert.Equal(t, 1, result.RowsSkipped)
	assert.Equal(t, 1, result.CentersCreated)
	assert.Equal(t, 2, result.BoxesCreated)

	assert.Equal(t, 3, metrics.rows["infrastructure/imported"])
	assert.Equal(t, 1, metrics.rows["infrastructure/skipped"])
	assert.Contains(t, messages, "[+] New center: Centro Norte")
}

func TestExecute_DoctorsCreatesMissingCenter(t *testing.T) {
	uc, store, _, _ := setup(t, Options{})

	result, err := uc.Execute(context.Background(), &Request{
		OrgID: org,
		Kind:  KindDoctors,
		Rows: rows(t, "cae,medico\n"+
			"Centro Sur,Dr. Soto\n"+
			"CENTRO SUR,dr. soto\n"+
			"Centro Sur,Dra. Rojas\n"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.CentersCreated)
	assert.Equal(t, 2, result.DoctorsCreated)
	assert.Len(t, store.Doctors(), 2)
}

func TestExecute_ReservationsInBatches(t *testing.T) {
	uc, store, _, sleeper := setup(t, Options{BatchSize: 2, BatchPause: 500 * time.Millisecond})

	var b strings.Builder
	b.WriteString("location,description,summary,start_time,end_time\n")
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&b, "Centro,Box %d - Control,\"Dr. Soto\",2024-03-04 1%d:00:00+00,\n", i+1, i)
	}

	result, err := uc.Execute(context.Background(), &Request{
		OrgID:  org,
		UserID: user,
		Kind:   KindReservations,
		Rows:   rows(t, b.String()),
	})
	require.NoError(t, err)

	assert.Equal(t, 5, result.ReservationsCommitted)
	assert.Equal(t, 3, result.Batches)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 500 * time.Millisecond}, sleeper.calls)
	assert.Equal(t, 5, result.BoxesCreated)

	saved := store.Reservations()
	require.Len(t, saved, 5)
	for _, r := range saved {
		assert.Equal(t, org, r.OrgID)
		assert.Equal(t, user, r.UserID)
		assert.Equal(t, "Dr. Soto", r.DoctorName)
		assert.Equal(t, domain.ImportedObservation, r.Observation)
		assert.Equal(t, 30*time.Minute, r.EndTime.Sub(r.StartTime))
	}
}

func TestExecute_ReservationsStorageFailureKeepsCommitted(t *testing.T) {
	uc, store, _, _ := setup(t, Options{BatchSize: 2})
	store.FailUpsertAfter = 1

	result, err := uc.Execute(context.Background(), &Request{
		OrgID:  org,
		UserID: user,
		Kind:   KindReservations,
		Rows: rows(t, "location,description,start_time\n"+
			"Centro,Box 1,2024-03-04T10:00:00Z\n"+
			"Centro,Box 1,2024-03-04T10:30:00Z\n"+
			"Centro,Box 1,2024-03-04T11:00:00Z\n"+
			"Centro,Box 1,2024-03-04T11:30:00Z\n"),
	})
	require.ErrorIs(t, err, ErrStorage)
	require.NotNil(t, result)

	assert.Equal(t, 2, result.ReservationsCommitted)
	assert.Equal(t, 1, result.Batches)
	assert.Len(t, store.Reservations(), 2)
}

func TestExecute_ReservationsSkipBadRows(t *testing.T) {
	uc, store, metrics, _ := setup(t, Options{})

	result, err := uc.Execute(context.Background(), &Request{
		OrgID:  org,
		UserID: user,
		Kind:   KindReservations,
		Rows: rows(t, "location,description,summary,start_time,end_time\n"+
			"Centro,Box 1,,2024-03-04T10:00:00Z,2024-03-04T10:30:00Z\n"+
			"Centro,,Dr. X,2024-03-04T10:00:00Z,\n"+
			"Centro,Box 1,Dr. X,not-a-date,\n"+
			"Centro,Box 1,Dr. X,2024-03-04T10:00:00Z,2024-03-04T09:00:00Z\n"),
	})
	require.NoError(t, err)

	assert.Equal(t, 4, result.RowsSeen)
	assert.Equal(t, 3, result.RowsSkipped)
	assert.Equal(t, 1, result.ReservationsCommitted)
	assert.Equal(t, 3, metrics.rows["reservations/skipped"])

	saved := store.Reservations()
	require.Len(t, saved, 1)
	assert.Equal(t, domain.DefaultImportedDoctorName, saved[0].DoctorName)
}

func TestExecute_ReservationsMergeByID(t *testing.T) {
	uc, store, _, _ := setup(t, Options{})
	ctx := context.Background()

	first := rows(t, "id,event_id,location,description,summary,start_time\n"+
		"res-1,evt-1,Centro,Box 1,Dr. Soto,2024-03-04T10:00:00Z\n")
	_, err := uc.Execute(ctx, &Request{OrgID: org, UserID: user, Kind: KindReservations, Rows: first})
	require.NoError(t, err)

	_, err = store.Cancel(ctx, "res-1", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	second := rows(t, "id,location,description,summary,start_time\n"+
		"res-1,Centro,Box 1,Dra. Rojas,2024-03-04T11:00:00Z\n")
	_, err = uc.Execute(ctx, &Request{OrgID: org, UserID: user, Kind: KindReservations, Rows: second})
	require.NoError(t, err)

	saved := store.Reservations()
	require.Len(t, saved, 1)
	assert.Equal(t, "Dra. Rojas", saved[0].DoctorName)
	assert.Equal(t, domain.StatusCancelled, saved[0].Status, "status survives re-import")
	assert.Equal(t, time.Date(2024, 3, 4, 11, 0, 0, 0, time.UTC), saved[0].StartTime)
}

func TestExecute_CancelledContext(t *testing.T) {
	uc, store, _, _ := setup(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := uc.Execute(ctx, &Request{
		OrgID:  org,
		UserID: user,
		Kind:   KindReservations,
		Rows:   rows(t, "location,description,start_time\nCentro,Box 1,2024-03-04T10:00:00Z\n"),
	})
	require.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, 0, result.ReservationsCommitted)
	assert.Empty(t, store.Reservations())
}

func TestExecute_Validation(t *testing.T) {
	uc, _, _, _ := setup(t, Options{})
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{Kind: KindDoctors})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(ctx, &Request{OrgID: org, Kind: "patients"})
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = uc.Execute(ctx, &Request{OrgID: org, Kind: KindReservations})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRescueOrphans(t *testing.T) {
	uc, store, _, sleeper := setup(t, Options{RescueBatchSize: 2, RescuePause: time.Second})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		store.PutReservation(&domain.Reservation{OrgID: "", BoxName: "Box 1", StartTime: time.Now()})
	}
	store.PutReservation(&domain.Reservation{OrgID: "org-legacy", BoxName: "Box 2", StartTime: time.Now()})
	store.PutReservation(&domain.Reservation{OrgID: org, BoxName: "Box 3", StartTime: time.Now()})

	var messages []string
	result, err := uc.RescueOrphans(ctx, org, func(msg string) { messages = append(messages, msg) })
	require.NoError(t, err)

	assert.Equal(t, int64(4), result.Total)
	assert.Equal(t, int64(4), result.PerCollection["reservations"])
	assert.Equal(t, int64(0), result.PerCollection["centers"])
	assert.Equal(t, []time.Duration{time.Second}, sleeper.calls)
	assert.NotEmpty(t, messages)

	count, err := uc.CountReservations(ctx, org)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	_, err = uc.RescueOrphans(ctx, "", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
