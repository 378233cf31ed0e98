package get_occupancy_report

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/localtime"
)

// UseCase use case отчёта о загрузке боксов за период
type UseCase struct {
	reservationRepo ReservationRepository
	boxRepo         BoxRepository
	hours           domain.BusinessHours
	zone            *localtime.Zone
	slotMinutes     int
	maxDays         int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	boxRepo BoxRepository,
	hours domain.BusinessHours,
	zone *localtime.Zone,
	slotMinutes int,
	maxDays int,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		boxRepo:         boxRepo,
		hours:           hours,
		zone:            zone,
		slotMinutes:     slotMinutes,
		maxDays:         maxDays,
		logger:          logger,
	}
}

// Execute строит отчёт: активные и отменённые брони, теоретическая ёмкость бокса,
// загрузка каждого бокса и временной ряд активных броней
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetOccupancyReport: org=%s, period=%s..%s, granularity=%s",
		req.OrgID, localtime.FormatDate(req.StartDate), localtime.FormatDate(req.EndDate), req.Granularity)

	// 1. Валидация входных данных
	if req.OrgID == "" {
		return nil, fmt.Errorf("%w: orgID is required", ErrInvalidInput)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	}
	if req.StartDate.After(req.EndDate) {
		uc.logger.Warn("GetOccupancyReport: start %s after end %s", localtime.FormatDate(req.StartDate), localtime.FormatDate(req.EndDate))
		return nil, ErrInvalidDateRange
	}
	granularity, err := ParseGranularity(string(req.Granularity))
	if err != nil {
		return nil, err
	}

	// 2. Все брони периода, включая отменённые
	from, _ := uc.zone.DayBounds(req.StartDate)
	_, to := uc.zone.DayBounds(req.EndDate)

	reservations, err := uc.reservationRepo.List(ctx, domain.ReservationFilter{
		OrgID:            req.OrgID,
		CenterID:         req.CenterID,
		From:             &from,
		To:               &to,
		IncludeCancelled: true,
	})
	if err != nil {
		uc.logger.Error("GetOccupancyReport: failed to list reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to list reservations: %v", ErrInternal, err)
	}

	boxes, err := uc.boxRepo.ListBoxes(ctx, req.OrgID, req.CenterID)
	if err != nil {
		uc.logger.Error("GetOccupancyReport: failed to list boxes: %v", err)
		return nil, fmt.Errorf("%w: failed to list boxes: %v", ErrInternal, err)
	}

	active := make([]*domain.Reservation, 0, len(reservations))
	cancelled := 0
	for _, r := range reservations {
		if r.IsCancelled() {
			cancelled++
			continue
		}
		active = append(active, r)
	}

	// 3. Ёмкость и загрузка
	hours := uc.hours
	if req.BusinessHours != nil {
		hours = *req.BusinessHours
	}
	capacity := hours.Capacity(req.StartDate, req.EndDate, uc.slotMinutes, uc.maxDays)

	resp := &Response{
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Granularity:      granularity,
		Active:           len(active),
		Cancelled:        cancelled,
		CancellationRate: percent(cancelled, len(reservations)),
		CapacityPerBox:   capacity,
		Boxes:            boxOccupancy(boxes, active, capacity),
		Timeline:         uc.timeline(active, granularity),
	}

	uc.logger.Info("GetOccupancyReport: active=%d cancelled=%d boxes=%d capacity=%d",
		resp.Active, resp.Cancelled, len(resp.Boxes), capacity)

	return resp, nil
}

// boxOccupancy считает активные брони каждого бокса. Бронь без ID бокса
// сопоставляется по имени внутри своего центра.
func boxOccupancy(boxes []*domain.Box, active []*domain.Reservation, capacity int) []BoxOccupancy {
	domain.SortBoxesNatural(boxes)

	byID := make(map[string]int, len(boxes))
	byName := make(map[string]int, len(boxes))
	result := make([]BoxOccupancy, len(boxes))
	for i, b := range boxes {
		result[i] = BoxOccupancy{BoxID: b.ID, BoxName: b.Name, CenterID: b.CenterID, Capacity: capacity}
		byID[b.ID] = i
		byName[b.CenterID+"/"+domain.NormalizeName(b.Name)] = i
	}

	for _, r := range active {
		i, ok := byID[r.BoxID]
		if !ok || r.BoxID == "" {
			i, ok = byName[r.CenterID+"/"+domain.NormalizeName(r.BoxName)]
		}
		if ok {
			result[i].Occupied++
		}
	}

	for i := range result {
		if capacity > 0 {
			result[i].OccupiedPct = math.Min(percent(result[i].Occupied, capacity), 100)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].OccupiedPct > result[j].OccupiedPct
	})

	return result
}

// timeline группирует активные брони по локальным дням, неделям или месяцам
func (uc *UseCase) timeline(active []*domain.Reservation, granularity Granularity) []TimelinePoint {
	counts := make(map[string]int)
	for _, r := range active {
		date := uc.zone.DateOf(r.StartTime)

		var key string
		switch granularity {
		case GranularityWeek:
			offset := (int(date.Weekday()) + 6) % 7
			key = localtime.FormatDate(date.AddDate(0, 0, -offset))
		case GranularityMonth:
			key = date.Format("2006-01")
		default:
			key = localtime.FormatDate(date)
		}
		counts[key]++
	}

	points := make([]TimelinePoint, 0, len(counts))
	for key, count := range counts {
		points = append(points, TimelinePoint{Key: key, Count: count})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Key < points[j].Key })

	return points
}

// percent доля part от whole в процентах с одним знаком после запятой
func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*1000) / 10
}
