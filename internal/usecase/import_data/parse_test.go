package import_data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBoxService/pkg/csvrows"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 3, 4, 13, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
	}{
		{"rfc3339 utc", "2024-03-04T13:00:00Z"},
		{"rfc3339 offset", "2024-03-04T10:00:00-03:00"},
		{"space colon offset", "2024-03-04 10:00:00-03:00"},
		{"space compact offset", "2024-03-04 10:00:00-0300"},
		{"space hour offset", "2024-03-04 10:00:00-03"},
		{"postgres utc", "2024-03-04 13:00:00+00"},
		{"no offset", "2024-03-04 13:00:00"},
		{"no seconds", " 2024-03-04 13:00 "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimestamp(tt.raw)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
		})
	}

	_, err := parseTimestamp("04/03/2024")
	assert.ErrorIs(t, err, errBadTimestamp)
}

func TestParseReservationRow(t *testing.T) {
	row := csvrows.Row{
		"cae":         "Centro Norte",
		"description": " Box 4 - Control anual - sala 2",
		"summary":     `"Dr. Pérez"`,
		"start_time":  "2024-03-04T13:00:00Z",
		"event_id":    "evt-9",
	}

	parsed, err := parseReservationRow(row)
	require.NoError(t, err)
	assert.Equal(t, "Centro Norte", parsed.centerName)
	assert.Equal(t, "Box 4", parsed.boxName)
	assert.Equal(t, "Dr. Pérez", parsed.doctorName)
	assert.Equal(t, "evt-9", parsed.eventID)
	assert.Equal(t, 30*time.Minute, parsed.end.Sub(parsed.start))

	row["location"] = "Centro Sur"
	parsed, err = parseReservationRow(row)
	require.NoError(t, err)
	assert.Equal(t, "Centro Sur", parsed.centerName, "location wins over cae")
}
