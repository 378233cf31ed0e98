package cancel_reservation_range

import (
	"context"

	"github.com/m04kA/SMC-ClinicBoxService/internal/service/reservations/models"
)

type ReservationService interface {
	CancelRange(ctx context.Context, req *models.CancelRangeRequest) (*models.CancelRangeResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
