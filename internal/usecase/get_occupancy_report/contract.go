package get_occupancy_report

import (
	"context"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
)

// ReservationRepository интерфейс репозитория броней
type ReservationRepository interface {
	List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
}

// BoxRepository интерфейс выборки боксов организации; nil centerID означает все центры
type BoxRepository interface {
	ListBoxes(ctx context.Context, orgID string, centerID *string) ([]*domain.Box, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
