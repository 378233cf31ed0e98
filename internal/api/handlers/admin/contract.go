package admin

import (
	"context"

	importData "github.com/m04kA/SMC-ClinicBoxService/internal/usecase/import_data"
)

type ImportUseCase interface {
	Execute(ctx context.Context, req *importData.Request) (*importData.Result, error)
	RescueOrphans(ctx context.Context, orgID string, log importData.LogSink) (*importData.RescueResult, error)
	CountReservations(ctx context.Context, orgID string) (int64, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
