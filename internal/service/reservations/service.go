package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ClinicBoxService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ClinicBoxService/internal/integrations/events"
	"github.com/m04kA/SMC-ClinicBoxService/internal/service/reservations/models"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/localtime"
)

// Режимы отмены для метрик и событий
const (
	CancelModeSingle = "single"
	CancelModeRange  = "range"
)

// Service сервис для отмены броней и правки заметок
type Service struct {
	repo         ReservationRepository
	txManager    TxManager
	publisher    EventPublisher
	metrics      MetricsRecorder
	zone         *localtime.Zone
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса броней
func NewService(
	repo ReservationRepository,
	txManager TxManager,
	publisher EventPublisher,
	metrics MetricsRecorder,
	zone *localtime.Zone,
	logger Logger,
) *Service {
	return &Service{
		repo:         repo,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		zone:         zone,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронь организации по ID в любом статусе
func (s *Service) GetByID(ctx context.Context, orgID, id string) (*models.ReservationResponse, error) {
	reservation, err := s.load(ctx, "GetByID", orgID, id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainReservation(reservation, s.zone), nil
}

// Cancel отменяет одну бронь.
// Повторная отмена не является ошибкой: возвращается AlreadyCancelled=true, время отмены не меняется.
func (s *Service) Cancel(ctx context.Context, orgID, id string) (*models.CancelResponse, error) {
	s.logger.Info("Cancel: cancelling reservation id=%s org=%s", id, orgID)

	if _, err := s.load(ctx, "Cancel", orgID, id); err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()

	changed, err := s.repo.Cancel(ctx, id, now)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		s.logger.Error("Cancel: repository error for reservation id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !changed {
		s.logger.Info("Cancel: reservation id=%s already cancelled", id)
		return &models.CancelResponse{ReservationID: id, AlreadyCancelled: true}, nil
	}

	s.metrics.IncReservationsCancelled(CancelModeSingle, 1)
	s.publishCancelled(ctx, orgID, CancelModeSingle, []string{id}, now)

	s.logger.Info("Cancel: successfully cancelled reservation id=%s", id)
	return &models.CancelResponse{ReservationID: id}, nil
}

// CancelRange отменяет все активные брони врача в боксе, которые начинаются в заданное локальное время
// в любой день диапазона. Отмена выполняется одной пакетной записью.
func (s *Service) CancelRange(ctx context.Context, req *models.CancelRangeRequest) (*models.CancelRangeResponse, error) {
	s.logger.Info("CancelRange: org=%s, center=%s, box=%s, doctor=%q, time=%s, period=%s to %s",
		req.OrgID, req.CenterID, req.BoxID, req.DoctorName, req.Time,
		localtime.FormatDate(req.StartDate), localtime.FormatDate(req.EndDate))

	// 1. Валидация входных данных
	if err := validateCancelRange(req); err != nil {
		s.logger.Warn("CancelRange: validation failed: %v", err)
		return nil, err
	}

	// 2. Грубая выборка: серия врача в боксе за период
	from, _ := s.zone.DayBounds(req.StartDate)
	_, to := s.zone.DayBounds(req.EndDate)

	filter := domain.ReservationFilter{
		OrgID:      req.OrgID,
		CenterID:   &req.CenterID,
		BoxID:      &req.BoxID,
		DoctorName: &req.DoctorName,
		From:       &from,
		To:         &to,
	}

	var (
		candidates []*domain.Reservation
		ids        []string
		cancelled  int64
		now        = s.timeProvider.Now()
	)

	// Выборка и отмена в одной транзакции: серия не меняется между ними
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		candidates, err = s.repo.List(ctx, filter)
		if err != nil {
			s.logger.Error("CancelRange: repository error: %v", err)
			return fmt.Errorf("%w: CancelRange - list reservations: %v", ErrInternal, err)
		}

		// 3. Точный отбор по локальному времени начала
		ids = make([]string, 0, len(candidates))
		for _, r := range candidates {
			if r.IsCancelled() {
				continue
			}
			if s.zone.TimeOf(r.StartTime) != req.Time {
				continue
			}
			ids = append(ids, r.ID)
		}
		if len(ids) == 0 {
			return nil
		}

		// 4. Одна пакетная запись
		cancelled, err = s.repo.CancelBatch(ctx, ids, now)
		if err != nil {
			s.logger.Error("CancelRange: batch cancel of %d reservations failed: %v", len(ids), err)
			return fmt.Errorf("%w: CancelRange - cancel batch: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		s.logger.Error("CancelRange: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: CancelRange - transaction: %v", ErrInternal, err)
	}

	if len(ids) == 0 {
		s.logger.Info("CancelRange: nothing to cancel among %d candidates", len(candidates))
		return &models.CancelRangeResponse{Cancelled: 0, ReservationIDs: ids}, nil
	}

	s.metrics.IncReservationsCancelled(CancelModeRange, int(cancelled))
	s.publishCancelled(ctx, req.OrgID, CancelModeRange, ids, now)

	s.logger.Info("CancelRange: cancelled %d of %d candidates", cancelled, len(candidates))
	return &models.CancelRangeResponse{Cancelled: int(cancelled), ReservationIDs: ids}, nil
}

// UpdateNote заменяет текст заметки брони. Статус и время не меняются.
func (s *Service) UpdateNote(ctx context.Context, orgID, id, observation string) (*models.ReservationResponse, error) {
	s.logger.Info("UpdateNote: reservation id=%s org=%s", id, orgID)

	if len(observation) > domain.MaxObservationLength {
		return nil, fmt.Errorf("%w: observation exceeds %d characters", ErrInvalidInput, domain.MaxObservationLength)
	}

	reservation, err := s.load(ctx, "UpdateNote", orgID, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateObservation(ctx, id, observation); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return nil, ErrReservationNotFound
		}
		s.logger.Error("UpdateNote: repository error for reservation id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateNote - repository error: %v", ErrInternal, err)
	}

	reservation.Observation = observation
	return models.FromDomainReservation(reservation, s.zone), nil
}

// load получает бронь и проверяет принадлежность организации.
// Бронь чужой организации считается ненайденной.
func (s *Service) load(ctx context.Context, op, orgID, id string) (*domain.Reservation, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: reservation id is required", ErrInvalidInput)
	}

	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("%s: reservation id=%s not found", op, id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("%s: repository error for reservation id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if reservation.OrgID != orgID {
		s.logger.Warn("%s: reservation id=%s belongs to another organization", op, id)
		return nil, ErrReservationNotFound
	}

	return reservation, nil
}

func (s *Service) publishCancelled(ctx context.Context, orgID, mode string, ids []string, at time.Time) {
	event := events.ReservationsCancelledEvent{
		OrgID:          orgID,
		Mode:           mode,
		ReservationIDs: ids,
		CancelledAt:    s.zone.Format(at),
	}
	if err := s.publisher.PublishReservationsCancelled(ctx, event); err != nil {
		s.logger.Warn("publish reservations.cancelled failed: %v", err)
	}
}

func validateCancelRange(req *models.CancelRangeRequest) error {
	if req.OrgID == "" || req.CenterID == "" || req.BoxID == "" {
		return fmt.Errorf("%w: org, center and box are required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.DoctorName) == "" {
		return fmt.Errorf("%w: doctor name is required", ErrInvalidInput)
	}
	if err := req.Time.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	}
	if req.EndDate.Before(req.StartDate) {
		return ErrInvalidDateRange
	}
	return nil
}
