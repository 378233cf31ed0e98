package reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	"github.com/m04kA/SMC-ClinicBoxService/internal/integrations/events"
)

// ReservationRepository интерфейс репозитория броней
type ReservationRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
	Cancel(ctx context.Context, id string, at time.Time) (bool, error)
	CancelBatch(ctx context.Context, ids []string, at time.Time) (int64, error)
	UpdateObservation(ctx context.Context, id string, observation string) error
}

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс публикации событий об отменах
type EventPublisher interface {
	PublishReservationsCancelled(ctx context.Context, event events.ReservationsCancelledEvent) error
}

// MetricsRecorder интерфейс бизнес-метрик
type MetricsRecorder interface {
	IncReservationsCancelled(mode string, n int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
