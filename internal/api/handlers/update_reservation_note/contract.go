package update_reservation_note

import (
	"context"

	"github.com/m04kA/SMC-ClinicBoxService/internal/service/reservations/models"
)

type ReservationService interface {
	UpdateNote(ctx context.Context, orgID, id, observation string) (*models.ReservationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
