package import_data

import (
	"context"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	"github.com/m04kA/SMC-ClinicBoxService/internal/service/directory"
)

// ReservationRepository интерфейс репозитория броней
type ReservationRepository interface {
	UpsertBatch(ctx context.Context, reservations []*domain.Reservation) (int, error)
	Count(ctx context.Context, orgID string) (int64, error)
}

// MaintenanceRepository интерфейс сервисных операций над данными организаций
type MaintenanceRepository interface {
	ListForeignIDs(ctx context.Context, collection, orgID string) ([]string, error)
	ReassignOrg(ctx context.Context, collection string, ids []string, orgID string) (int64, error)
}

// ResolverFactory создает резолвер справочников на один прогон
type ResolverFactory interface {
	NewResolver(orgID string) *directory.Resolver
}

// MetricsRecorder интерфейс метрик импорта
type MetricsRecorder interface {
	IncImportRows(kind, outcome string, n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// LogSink получает сообщения о ходе импорта для показа вызывающему
type LogSink func(msg string)
