package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	"github.com/m04kA/SMC-ClinicBoxService/internal/infra/lock"
	"github.com/m04kA/SMC-ClinicBoxService/internal/integrations/events"
	"github.com/m04kA/SMC-ClinicBoxService/internal/service/directory"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/localtime"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/types"
)

// UseCase use case для создания брони или серии броней
type UseCase struct {
	reservationRepo ReservationRepository
	resolvers       ResolverFactory
	locker          SlotLocker
	publisher       EventPublisher
	metrics         MetricsRecorder
	zone            *localtime.Zone
	maxDays         int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// Если locker не nil, включается строгий режим: конфликты перепроверяются для каждой даты под блокировкой.
func NewUseCase(
	reservationRepo ReservationRepository,
	resolvers ResolverFactory,
	locker SlotLocker,
	publisher EventPublisher,
	metrics MetricsRecorder,
	zone *localtime.Zone,
	maxRecurrenceDays int,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		resolvers:       resolvers,
		locker:          locker,
		publisher:       publisher,
		metrics:         metrics,
		zone:            zone,
		maxDays:         maxRecurrenceDays,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// plannedSlot одна бронь, которую предстоит записать
type plannedSlot struct {
	date  time.Time
	time  types.TimeString
	start time.Time
	end   time.Time
}

// Execute выполняет use case создания брони.
// Записи идут последовательно по датам и слотам; сбой на середине оставляет уже созданные брони
// и возвращает ответ с их числом вместе с ErrPartialFailure.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: org=%s, user=%s, center=%s, box=%q, date=%s, slots=%v, recurring=%t",
		req.OrgID, req.UserID, req.CenterID, req.BoxName, localtime.FormatDate(req.Date), req.TimeSlots, req.Recurrence != nil)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}
	slots := normalizeSlots(req.TimeSlots)

	resolver := uc.resolvers.NewResolver(req.OrgID)

	// 2. Проверяем центр
	center, err := resolver.CenterByID(ctx, req.CenterID)
	if err != nil {
		if errors.Is(err, directory.ErrCenterNotFound) {
			uc.logger.Warn("CreateReservation: center id=%s not found", req.CenterID)
			return nil, ErrCenterNotFound
		}
		uc.logger.Error("CreateReservation: failed to load centers: %v", err)
		return nil, fmt.Errorf("%w: failed to load centers: %v", ErrInternal, err)
	}

	// 3. Определяем бокс по имени (боксы здесь не создаются)
	box, found, err := resolver.FindBox(ctx, center.ID, req.BoxName)
	if err != nil {
		uc.logger.Error("CreateReservation: failed to load boxes of center=%s: %v", center.ID, err)
		return nil, fmt.Errorf("%w: failed to load boxes: %v", ErrInternal, err)
	}
	if !found {
		uc.logger.Warn("CreateReservation: box %q not found in center=%s", req.BoxName, center.ID)
		return nil, fmt.Errorf("%w: %q", ErrBoxNotFound, req.BoxName)
	}

	// 4. Целевые даты
	dates, err := uc.targetDates(req)
	if err != nil {
		uc.logger.Warn("CreateReservation: recurrence rejected: %v", err)
		return nil, err
	}

	// 5. План записи: слоты с вычисленными моментами начала и конца
	plan, err := uc.buildPlan(dates, slots)
	if err != nil {
		uc.logger.Warn("CreateReservation: slot rejected: %v", err)
		return nil, err
	}

	// 6. Определяем врача (после проверки входных данных, до проверки конфликтов)
	doctor, doctorCreated, err := uc.resolveDoctor(ctx, resolver, center.ID, req)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		ReservationIDs: make([]string, 0, len(plan)),
		Dates:          dates,
		TimeSlots:      slots,
		BoxID:          box.ID,
		BoxName:        box.Name,
		DoctorName:     doctor.Name,
		DoctorCreated:  doctorCreated,
	}

	template := domain.Reservation{
		OrgID:       req.OrgID,
		CenterID:    center.ID,
		BoxID:       box.ID,
		BoxName:     box.Name,
		DoctorName:  doctor.Name,
		Observation: strings.TrimSpace(req.Observation),
		UserID:      req.UserID,
	}

	// 7. Проверка конфликтов и запись
	run := func(ctx context.Context, checkDates []time.Time) error {
		for _, date := range checkDates {
			if err := uc.checkConflicts(ctx, req.OrgID, center.ID, box.Name, date, slots); err != nil {
				return err
			}
		}
		return uc.write(ctx, template, plan, slots, resp)
	}

	if uc.locker != nil {
		keys := make([]string, 0, len(dates))
		for _, date := range dates {
			keys = append(keys, fmt.Sprintf("%s:%s:%s", req.OrgID, box.ID, localtime.FormatDate(date)))
		}
		err = uc.locker.WithLocks(ctx, keys, func(lockCtx context.Context) error {
			return run(lockCtx, dates)
		})
		if errors.Is(err, lock.ErrLockNotAcquired) {
			uc.logger.Warn("CreateReservation: slots of box=%s are locked by another request", box.ID)
			return nil, ErrSlotBusy
		}
	} else {
		// Оптимистичный режим: свежая проверка только первой даты
		err = run(ctx, dates[:1])
	}

	if err != nil {
		if errors.Is(err, ErrSlotConflict) {
			return nil, err
		}
		if errors.Is(err, ErrPartialFailure) || errors.Is(err, ErrInternal) {
			uc.metrics.IncReservationsCreated(resp.SlotsCreated)
			return resp, err
		}
		uc.logger.Error("CreateReservation: unexpected failure: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.metrics.IncReservationsCreated(resp.SlotsCreated)
	uc.publishCreated(ctx, req, center.ID, box, doctor.Name, resp)

	uc.logger.Info("CreateReservation: created %d reservations on %d dates for box=%q doctor=%q",
		resp.SlotsCreated, resp.DatesProcessed, box.Name, doctor.Name)

	return resp, nil
}

// targetDates возвращает одну дату или даты серии
func (uc *UseCase) targetDates(req *Request) ([]time.Time, error) {
	if req.Recurrence == nil {
		return []time.Time{localtime.Date(req.Date.Year(), req.Date.Month(), req.Date.Day())}, nil
	}

	dates, err := domain.ExpandRecurrence(req.Date, req.Recurrence.EndDate, req.Recurrence.Weekdays, uc.maxDays)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if len(dates) == 0 {
		return nil, ErrNoTargetDates
	}

	return dates, nil
}

// buildPlan вычисляет моменты начала и конца каждого слота в часовом поясе организации
func (uc *UseCase) buildPlan(dates []time.Time, slots []types.TimeString) ([]plannedSlot, error) {
	plan := make([]plannedSlot, 0, len(dates)*len(slots))

	for _, date := range dates {
		for _, slot := range slots {
			endTime, err := slot.AddMinutes(domain.SlotDurationMinutes)
			if err != nil {
				return nil, fmt.Errorf("%w: %s ends after midnight", ErrInvalidTimeSlot, slot)
			}

			start, err := uc.zone.Instant(date, slot)
			if err != nil {
				return nil, fmt.Errorf("%w: %s on %s: %v", ErrInvalidTimeSlot, slot, localtime.FormatDate(date), err)
			}

			end, err := uc.zone.Instant(date, endTime)
			if err != nil {
				return nil, fmt.Errorf("%w: %s on %s: %v", ErrInvalidTimeSlot, endTime, localtime.FormatDate(date), err)
			}

			plan = append(plan, plannedSlot{date: date, time: slot, start: start, end: end})
		}
	}

	return plan, nil
}

// resolveDoctor находит выбранного врача или находит/создаёт врача по новому имени
func (uc *UseCase) resolveDoctor(ctx context.Context, resolver *directory.Resolver, centerID string, req *Request) (*domain.Doctor, bool, error) {
	if req.NewDoctorName != nil && strings.TrimSpace(*req.NewDoctorName) != "" {
		doctor, created, err := resolver.ResolveDoctor(ctx, centerID, *req.NewDoctorName)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to resolve doctor %q: %v", *req.NewDoctorName, err)
			return nil, false, fmt.Errorf("%w: failed to resolve doctor: %v", ErrInternal, err)
		}
		return doctor, created, nil
	}

	doctor, err := resolver.DoctorByID(ctx, centerID, strings.TrimSpace(*req.DoctorID))
	if err != nil {
		if errors.Is(err, directory.ErrDoctorNotFound) {
			uc.logger.Warn("CreateReservation: doctor id=%s not found in center=%s", *req.DoctorID, centerID)
			return nil, false, ErrDoctorNotFound
		}
		uc.logger.Error("CreateReservation: failed to load doctors: %v", err)
		return nil, false, fmt.Errorf("%w: failed to load doctors: %v", ErrInternal, err)
	}

	return doctor, false, nil
}

// checkConflicts строит сетку дня по свежим данным и проверяет запрошенные слоты бокса
func (uc *UseCase) checkConflicts(ctx context.Context, orgID, centerID, boxName string, date time.Time, slots []types.TimeString) error {
	from, to := uc.zone.DayBounds(date)

	reservations, err := uc.reservationRepo.List(ctx, domain.ReservationFilter{
		OrgID:    orgID,
		CenterID: &centerID,
		From:     &from,
		To:       &to,
	})
	if err != nil {
		uc.logger.Error("CreateReservation: failed to load occupancy for %s: %v", localtime.FormatDate(date), err)
		return fmt.Errorf("%w: failed to load occupancy: %v", ErrInternal, err)
	}

	grid, skipped := domain.BuildGrid(reservations, uc.zone)
	if len(skipped) > 0 {
		uc.logger.Warn("CreateReservation: %d malformed reservations skipped on %s: %v",
			len(skipped), localtime.FormatDate(date), skipped)
	}

	if conflicts := grid.Conflicts(boxName, slots); len(conflicts) > 0 {
		uc.metrics.IncSlotConflicts()
		uc.logger.Warn("CreateReservation: box=%q on %s already occupied at %v",
			boxName, localtime.FormatDate(date), conflicts)
		return fmt.Errorf("%w: box %q on %s at %v", ErrSlotConflict, boxName, localtime.FormatDate(date), conflicts)
	}

	return nil
}

// write создаёт брони по плану одну за другой
func (uc *UseCase) write(ctx context.Context, template domain.Reservation, plan []plannedSlot, slots []types.TimeString, resp *Response) error {
	perDate := len(slots)
	written := 0

	for _, p := range plan {
		reservation := template
		reservation.StartTime = p.start
		reservation.EndTime = p.end

		created, err := uc.reservationRepo.Create(ctx, &reservation)
		if err != nil {
			uc.logger.Error("CreateReservation: write failed at %s %s after %d reservations: %v",
				localtime.FormatDate(p.date), p.time, resp.SlotsCreated, err)
			if resp.SlotsCreated == 0 {
				return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
			}
			return fmt.Errorf("%w: %d of %d reservations created: %v", ErrPartialFailure, resp.SlotsCreated, len(plan), err)
		}

		resp.ReservationIDs = append(resp.ReservationIDs, created.ID)
		resp.SlotsCreated++

		written++
		if written == perDate {
			resp.DatesProcessed++
			written = 0
		}
	}

	return nil
}

func (uc *UseCase) publishCreated(ctx context.Context, req *Request, centerID string, box *domain.Box, doctorName string, resp *Response) {
	dates := make([]string, 0, len(resp.Dates))
	for _, d := range resp.Dates {
		dates = append(dates, localtime.FormatDate(d))
	}
	slots := make([]string, 0, len(resp.TimeSlots))
	for _, s := range resp.TimeSlots {
		slots = append(slots, s.String())
	}

	event := events.ReservationsCreatedEvent{
		OrgID:          req.OrgID,
		CenterID:       centerID,
		BoxID:          box.ID,
		BoxName:        box.Name,
		DoctorName:     doctorName,
		UserID:         req.UserID,
		ReservationIDs: resp.ReservationIDs,
		Dates:          dates,
		TimeSlots:      slots,
		CreatedAt:      uc.zone.Format(uc.timeProvider.Now()),
	}

	if err := uc.publisher.PublishReservationsCreated(ctx, event); err != nil {
		uc.logger.Warn("CreateReservation: publish reservations.created failed: %v", err)
	}
}
