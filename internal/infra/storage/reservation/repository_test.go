package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
)

func TestDedupeByID(t *testing.T) {
	batch := []*domain.Reservation{
		{ID: "a", DoctorName: "first"},
		{ID: "b"},
		nil,
		{ID: "a", DoctorName: "second"},
		{ID: ""},
	}

	got := dedupeByID(batch)

	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "second", got[0].DoctorName)
	assert.Equal(t, "b", got[1].ID)
	assert.NotEmpty(t, got[2].ID, "missing id is generated")
}
