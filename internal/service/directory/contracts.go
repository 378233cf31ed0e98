package directory

import (
	"context"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
)

// Repository интерфейс репозитория справочников
type Repository interface {
	ListCenters(ctx context.Context, orgID string) ([]*domain.Center, error)
	GetCenter(ctx context.Context, orgID, id string) (*domain.Center, error)
	CreateCenter(ctx context.Context, center *domain.Center) (*domain.Center, error)
	ListBoxes(ctx context.Context, orgID string, centerID *string) ([]*domain.Box, error)
	CreateBox(ctx context.Context, box *domain.Box) (*domain.Box, error)
	ListDoctors(ctx context.Context, orgID string, centerID *string) ([]*domain.Doctor, error)
	CreateDoctor(ctx context.Context, doctor *domain.Doctor) (*domain.Doctor, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
