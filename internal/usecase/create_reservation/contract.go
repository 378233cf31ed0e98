package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	"github.com/m04kA/SMC-ClinicBoxService/internal/integrations/events"
	"github.com/m04kA/SMC-ClinicBoxService/internal/service/directory"
)

// ReservationRepository интерфейс репозитория броней
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error)
	List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error)
}

// ResolverFactory создает резолвер справочников на одну операцию
type ResolverFactory interface {
	NewResolver(orgID string) *directory.Resolver
}

// SlotLocker блокирует (организация, бокс, дата) на время проверки и записи
type SlotLocker interface {
	WithLocks(ctx context.Context, keys []string, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс публикации событий о создании броней
type EventPublisher interface {
	PublishReservationsCreated(ctx context.Context, event events.ReservationsCreatedEvent) error
}

// MetricsRecorder интерфейс бизнес-метрик
type MetricsRecorder interface {
	IncReservationsCreated(n int)
	IncSlotConflicts()
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
