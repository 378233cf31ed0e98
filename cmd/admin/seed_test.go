package main

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/localtime"
)

func TestGenerateSeed(t *testing.T) {
	zone := localtime.MustZone(localtime.DefaultZoneName)
	hours := domain.DefaultBusinessHours()

	opts := seedOptions{
		Centers:     2,
		Boxes:       4,
		Doctors:     3,
		Days:        7,
		PerDay:      20,
		Start:       localtime.Date(2024, 5, 6),
		SlotMinutes: domain.SlotDurationMinutes,
		Hours:       hours,
	}

	data, err := generateSeed(gofakeit.New(42), zone, opts)
	require.NoError(t, err)

	assert.Len(t, data.Infrastructure, 8)
	assert.Len(t, data.Doctors, 6)
	require.NotEmpty(t, data.Reservations)
	assert.LessOrEqual(t, len(data.Reservations), 5*20, "weekend is closed")

	seen := make(map[string]bool)
	for _, row := range data.Reservations {
		start, err := time.Parse(time.RFC3339, row["start_time"])
		require.NoError(t, err)
		end, err := time.Parse(time.RFC3339, row["end_time"])
		require.NoError(t, err)
		assert.Equal(t, 30*time.Minute, end.Sub(start))

		date := zone.DateOf(start)
		day := hours.ForWeekday(date.Weekday())
		require.True(t, day.IsOpen, "reservation on closed day %s", localtime.FormatDate(date))

		at := zone.TimeOf(start)
		assert.GreaterOrEqual(t, at.Hour(), day.OpenHour)
		assert.Less(t, at.Hour(), day.CloseHour)

		key := row["location"] + "/" + row["description"][:5] + "/" + row["start_time"]
		assert.False(t, seen[key], "duplicate slot %s", key)
		seen[key] = true
	}
}

func TestGenerateSeed_Deterministic(t *testing.T) {
	zone := localtime.MustZone(localtime.DefaultZoneName)
	opts := seedOptions{
		Centers:     1,
		Boxes:       2,
		Doctors:     2,
		Days:        3,
		PerDay:      5,
		Start:       localtime.Date(2024, 5, 6),
		SlotMinutes: domain.SlotDurationMinutes,
		Hours:       domain.DefaultBusinessHours(),
	}

	first, err := generateSeed(gofakeit.New(7), zone, opts)
	require.NoError(t, err)
	second, err := generateSeed(gofakeit.New(7), zone, opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateSeed_NoCenters(t *testing.T) {
	data, err := generateSeed(gofakeit.New(1), localtime.MustZone(localtime.DefaultZoneName), seedOptions{Days: 3, PerDay: 5})
	require.NoError(t, err)
	assert.Empty(t, data.Reservations)
}
