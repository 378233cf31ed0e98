package get_day_schedule

import (
	"strings"

	getDaySchedule "github.com/m04kA/SMC-ClinicBoxService/internal/usecase/get_day_schedule"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/localtime"
)

// BoxResponse колонка сетки
type BoxResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CellResponse занятая ячейка сетки
type CellResponse struct {
	ReservationID string `json:"reservationId"`
	DoctorName    string `json:"doctorName"`
	Observation   string `json:"observation"`
}

// DayScheduleResponse HTTP response model
type DayScheduleResponse struct {
	Date       string                             `json:"date"`
	CenterID   string                             `json:"centerId"`
	CenterName string                             `json:"centerName"`
	Boxes      []BoxResponse                      `json:"boxes"`
	TimeLabels []string                           `json:"timeLabels"`
	Cells      map[string]map[string]CellResponse `json:"cells"` // бокс -> "HH:MM" -> занятость
	Occupied   int                                `json:"occupied"`
	Free       int                                `json:"free"`
}

// ToUseCaseRequest формирует запрос к use case из пути и query параметров
func ToUseCaseRequest(orgID, centerID, dateStr, doctor, box string) (*getDaySchedule.Request, error) {
	date, err := localtime.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	req := &getDaySchedule.Request{
		OrgID:    orgID,
		CenterID: centerID,
		Date:     date,
	}
	if strings.TrimSpace(doctor) != "" {
		req.DoctorName = &doctor
	}
	if strings.TrimSpace(box) != "" {
		req.BoxName = &box
	}
	return req, nil
}

// FromUseCaseResponse конвертирует сетку в HTTP модель. В ответ попадают только показанные боксы.
func FromUseCaseResponse(resp *getDaySchedule.Response) *DayScheduleResponse {
	boxes := make([]BoxResponse, 0, len(resp.Boxes))
	cells := make(map[string]map[string]CellResponse, len(resp.Boxes))

	for _, b := range resp.Boxes {
		boxes = append(boxes, BoxResponse{ID: b.ID, Name: b.Name})

		row := make(map[string]CellResponse)
		for _, label := range resp.TimeLabels {
			if info, ok := resp.Grid.Lookup(b.Name, label); ok {
				row[label.String()] = CellResponse{
					ReservationID: info.ReservationID,
					DoctorName:    info.DoctorName,
					Observation:   info.Observation,
				}
			}
		}
		cells[b.Name] = row
	}

	labels := make([]string, 0, len(resp.TimeLabels))
	for _, l := range resp.TimeLabels {
		labels = append(labels, l.String())
	}

	return &DayScheduleResponse{
		Date:       localtime.FormatDate(resp.Date),
		CenterID:   resp.CenterID,
		CenterName: resp.CenterName,
		Boxes:      boxes,
		TimeLabels: labels,
		Cells:      cells,
		Occupied:   resp.Occupied,
		Free:       resp.Free,
	}
}
