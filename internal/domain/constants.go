package domain

import "github.com/m04kA/SMC-ClinicBoxService/pkg/types"

// Slot configuration
const (
	SlotDurationMinutes      = 30
	DefaultMaxRecurrenceDays = 1000
)

// Default day window shown in the schedule grid
var (
	DefaultDayStart = types.TimeString("08:00")
	DefaultDayEnd   = types.TimeString("20:00")
)

// Business validation constants
const (
	MaxObservationLength = 1000
	MaxNameLength        = 200
	MaxSlotsPerRequest   = 48
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Import defaults
const (
	DefaultImportedDoctorName = "Sin Asignar"
	ImportedObservation       = "Importado"
)
