package localtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBoxService/pkg/types"
)

func TestZone_RoundTrip(t *testing.T) {
	zone := MustZone(DefaultZoneName)

	tests := []struct {
		name    string
		date    time.Time
		at      types.TimeString
		wantUTC time.Time
	}{
		{
			name:    "winter offset -04",
			date:    Date(2024, time.July, 10),
			at:      "14:00",
			wantUTC: time.Date(2024, time.July, 10, 18, 0, 0, 0, time.UTC),
		},
		{
			name:    "summer offset -03",
			date:    Date(2024, time.January, 15),
			at:      "14:00",
			wantUTC: time.Date(2024, time.January, 15, 17, 0, 0, 0, time.UTC),
		},
		{
			name:    "day before clocks move forward",
			date:    Date(2024, time.September, 7),
			at:      "14:00",
			wantUTC: time.Date(2024, time.September, 7, 18, 0, 0, 0, time.UTC),
		},
		{
			name:    "day after clocks move forward",
			date:    Date(2024, time.September, 8),
			at:      "14:00",
			wantUTC: time.Date(2024, time.September, 8, 17, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			instant, err := zone.Instant(tt.date, tt.at)
			require.NoError(t, err)
			assert.True(t, tt.wantUTC.Equal(instant), "got %s", instant.UTC())
			assert.Equal(t, tt.at, zone.TimeOf(instant))
			assert.Equal(t, tt.date, zone.DateOf(instant))
		})
	}
}

func TestZone_InstantInGap(t *testing.T) {
	zone := MustZone(DefaultZoneName)

	_, err := zone.Instant(Date(2024, time.September, 8), "00:15")
	assert.ErrorIs(t, err, ErrNonexistentLocalTime)
}

func TestZone_DayBounds(t *testing.T) {
	zone := MustZone(DefaultZoneName)

	start, end := zone.DayBounds(Date(2024, time.July, 10))
	assert.True(t, time.Date(2024, time.July, 10, 4, 0, 0, 0, time.UTC).Equal(start))
	assert.True(t, time.Date(2024, time.July, 11, 3, 59, 59, int(999*time.Millisecond), time.UTC).Equal(end))

	// сутки перехода на летнее время короче на час
	start, end = zone.DayBounds(Date(2024, time.September, 8))
	assert.Equal(t, Date(2024, time.September, 8), zone.DateOf(start))
	assert.Equal(t, Date(2024, time.September, 8), zone.DateOf(end))
	assert.Equal(t, 23*time.Hour-time.Millisecond, end.Sub(start))
}

func TestZone_Format(t *testing.T) {
	zone := MustZone(DefaultZoneName)

	instant := time.Date(2024, time.July, 10, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-07-10T14:00:00-04:00", zone.Format(instant))
}

func TestNewZone_Unknown(t *testing.T) {
	_, err := NewZone("Mars/Olympus")
	assert.ErrorIs(t, err, ErrUnknownZone)
}
