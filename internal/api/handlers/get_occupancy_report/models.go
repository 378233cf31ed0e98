package get_occupancy_report

import (
	"strings"

	getOccupancyReport "github.com/m04kA/SMC-ClinicBoxService/internal/usecase/get_occupancy_report"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/localtime"
)

// BoxOccupancyResponse загрузка бокса
type BoxOccupancyResponse struct {
	BoxID       string  `json:"boxId"`
	BoxName     string  `json:"name"`
	CenterID    string  `json:"centerId"`
	Occupied    int     `json:"occupied"`
	Capacity    int     `json:"capacity"`
	OccupiedPct float64 `json:"occupiedPct"`
}

// TimelinePointResponse точка временного ряда
type TimelinePointResponse struct {
	Date         string `json:"date"`
	Reservations int    `json:"reservations"`
}

// OccupancyReportResponse HTTP response model
type OccupancyReportResponse struct {
	StartDate        string                  `json:"startDate"`
	EndDate          string                  `json:"endDate"`
	Granularity      string                  `json:"granularity"`
	Active           int                     `json:"active"`
	Cancelled        int                     `json:"cancelled"`
	CancellationRate float64                 `json:"cancellationRate"`
	CapacityPerBox   int                     `json:"capacityPerBox"`
	Boxes            []BoxOccupancyResponse  `json:"boxes"`
	Timeline         []TimelinePointResponse `json:"timeline"`
}

// ToUseCaseRequest формирует запрос к use case из query параметров
func ToUseCaseRequest(orgID, startStr, endStr, centerID, granularity string) (*getOccupancyReport.Request, error) {
	start, err := localtime.ParseDate(startStr)
	if err != nil {
		return nil, err
	}
	end, err := localtime.ParseDate(endStr)
	if err != nil {
		return nil, err
	}
	g, err := getOccupancyReport.ParseGranularity(granularity)
	if err != nil {
		return nil, err
	}

	req := &getOccupancyReport.Request{
		OrgID:       orgID,
		StartDate:   start,
		EndDate:     end,
		Granularity: g,
	}
	if strings.TrimSpace(centerID) != "" {
		req.CenterID = &centerID
	}
	return req, nil
}

// FromUseCaseResponse конвертирует отчёт в HTTP модель
func FromUseCaseResponse(resp *getOccupancyReport.Response) *OccupancyReportResponse {
	boxes := make([]BoxOccupancyResponse, 0, len(resp.Boxes))
	for _, b := range resp.Boxes {
		boxes = append(boxes, BoxOccupancyResponse{
			BoxID:       b.BoxID,
			BoxName:     b.BoxName,
			CenterID:    b.CenterID,
			Occupied:    b.Occupied,
			Capacity:    b.Capacity,
			OccupiedPct: b.OccupiedPct,
		})
	}

	timeline := make([]TimelinePointResponse, 0, len(resp.Timeline))
	for _, p := range resp.Timeline {
		timeline = append(timeline, TimelinePointResponse{Date: p.Key, Reservations: p.Count})
	}

	return &OccupancyReportResponse{
		StartDate:        localtime.FormatDate(resp.StartDate),
		EndDate:          localtime.FormatDate(resp.EndDate),
		Granularity:      string(resp.Granularity),
		Active:           resp.Active,
		Cancelled:        resp.Cancelled,
		CancellationRate: resp.CancellationRate,
		CapacityPerBox:   resp.CapacityPerBox,
		Boxes:            boxes,
		Timeline:         timeline,
	}
}
