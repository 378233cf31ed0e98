package get_day_schedule

import (
	"context"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
)

// ReservationRepository интерфейс репозитория броней
type ReservationRepository interface {
	List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
}

// DirectoryService интерфейс справочников центра
type DirectoryService interface {
	GetCenter(ctx context.Context, orgID, centerID string) (*domain.Center, error)
	ListBoxes(ctx context.Context, orgID, centerID string) ([]*domain.Box, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
