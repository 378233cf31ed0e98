package get_day_schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	"github.com/m04kA/SMC-ClinicBoxService/internal/service/directory"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/localtime"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/types"
)

// UseCase use case для получения сетки занятости боксов центра на день
type UseCase struct {
	reservationRepo ReservationRepository
	directory       DirectoryService
	zone            *localtime.Zone
	dayStart        types.TimeString
	dayEnd          types.TimeString
	slotMinutes     int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	directory DirectoryService,
	zone *localtime.Zone,
	dayStart, dayEnd types.TimeString,
	slotMinutes int,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		directory:       directory,
		zone:            zone,
		dayStart:        dayStart,
		dayEnd:          dayEnd,
		slotMinutes:     slotMinutes,
		logger:          logger,
	}
}

// Execute выполняет use case получения сетки дня
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetDaySchedule: org=%s, center=%s, date=%s", req.OrgID, req.CenterID, localtime.FormatDate(req.Date))

	// 1. Валидация входных данных
	if req.OrgID == "" || req.CenterID == "" {
		return nil, fmt.Errorf("%w: org and center are required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// 2. Центр и его боксы
	center, err := uc.directory.GetCenter(ctx, req.OrgID, req.CenterID)
	if err != nil {
		if errors.Is(err, directory.ErrCenterNotFound) {
			uc.logger.Warn("GetDaySchedule: center id=%s not found", req.CenterID)
			return nil, ErrCenterNotFound
		}
		uc.logger.Error("GetDaySchedule: failed to get center id=%s: %v", req.CenterID, err)
		return nil, fmt.Errorf("%w: failed to get center: %v", ErrInternal, err)
	}

	boxes, err := uc.directory.ListBoxes(ctx, req.OrgID, center.ID)
	if err != nil {
		uc.logger.Error("GetDaySchedule: failed to list boxes of center=%s: %v", center.ID, err)
		return nil, fmt.Errorf("%w: failed to list boxes: %v", ErrInternal, err)
	}
	boxes = filterBoxes(boxes, req.BoxName)

	// 3. Активные брони центра за локальный день
	from, to := uc.zone.DayBounds(req.Date)
	reservations, err := uc.reservationRepo.List(ctx, domain.ReservationFilter{
		OrgID:    req.OrgID,
		CenterID: &center.ID,
		From:     &from,
		To:       &to,
	})
	if err != nil {
		uc.logger.Error("GetDaySchedule: failed to list reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to list reservations: %v", ErrInternal, err)
	}
	reservations = filterByDoctor(reservations, req.DoctorName)

	// 4. Сетка
	grid, skipped := domain.BuildGrid(reservations, uc.zone)
	if len(skipped) > 0 {
		uc.logger.Warn("GetDaySchedule: %d malformed reservations skipped: %v", len(skipped), skipped)
	}

	labels := domain.DaySlots(uc.dayStart, uc.dayEnd, uc.slotMinutes)

	occupied := 0
	for _, box := range boxes {
		for _, label := range labels {
			if _, ok := grid.Lookup(box.Name, label); ok {
				occupied++
			}
		}
	}

	uc.logger.Info("GetDaySchedule: %d boxes, %d occupied cells for center=%s", len(boxes), occupied, center.ID)

	return &Response{
		Date:       localtime.Date(req.Date.Year(), req.Date.Month(), req.Date.Day()),
		CenterID:   center.ID,
		CenterName: center.Name,
		Boxes:      boxes,
		TimeLabels: labels,
		Grid:       grid,
		Occupied:   occupied,
		Free:       len(boxes)*len(labels) - occupied,
	}, nil
}

func filterBoxes(boxes []*domain.Box, query *string) []*domain.Box {
	if query == nil || strings.TrimSpace(*query) == "" {
		return boxes
	}
	needle := domain.NormalizeName(*query)

	result := make([]*domain.Box, 0, len(boxes))
	for _, b := range boxes {
		if strings.Contains(domain.NormalizeName(b.Name), needle) {
			result = append(result, b)
		}
	}
	return result
}

func filterByDoctor(reservations []*domain.Reservation, query *string) []*domain.Reservation {
	if query == nil || strings.TrimSpace(*query) == "" {
		return reservations
	}
	needle := domain.NormalizeName(*query)

	result := make([]*domain.Reservation, 0, len(reservations))
	for _, r := range reservations {
		if strings.Contains(domain.NormalizeName(r.DoctorName), needle) {
			result = append(result, r)
		}
	}
	return result
}
