package directory

import (
	"context"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
)

type DirectoryService interface {
	ListCenters(ctx context.Context, orgID string) ([]*domain.Center, error)
	CreateCenter(ctx context.Context, orgID, name string) (*domain.Center, bool, error)
	ListBoxes(ctx context.Context, orgID, centerID string) ([]*domain.Box, error)
	CreateBox(ctx context.Context, orgID, centerID, name string) (*domain.Box, bool, error)
	ListDoctors(ctx context.Context, orgID, centerID string) ([]*domain.Doctor, error)
	CreateDoctor(ctx context.Context, orgID, centerID, name string) (*domain.Doctor, bool, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
