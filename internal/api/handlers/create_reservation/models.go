package create_reservation

import (
	"fmt"
	"time"

	createReservation "github.com/m04kA/SMC-ClinicBoxService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/localtime"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	CenterID      string             `json:"centerId"`
	BoxName       string             `json:"boxName"`
	DoctorID      *string            `json:"doctorId,omitempty"`
	NewDoctorName *string            `json:"newDoctorName,omitempty"`
	Observation   string             `json:"observation"`
	Date          string             `json:"date"`      // "2024-07-10"
	TimeSlots     []string           `json:"timeSlots"` // ["09:00", "09:30"]
	Recurrence    *RecurrenceRequest `json:"recurrence,omitempty"`
}

// RecurrenceRequest повторение по дням недели
type RecurrenceRequest struct {
	EndDate  string `json:"endDate"`  // "2024-07-31"
	Weekdays []int  `json:"weekdays"` // 0 = воскресенье, 1 = понедельник...
}

// CreateReservationResponse HTTP response model
type CreateReservationResponse struct {
	DatesProcessed int      `json:"datesProcessed"`
	SlotsCreated   int      `json:"slotsCreated"`
	ReservationIDs []string `json:"reservationIds"`
	Dates          []string `json:"dates"`
	TimeSlots      []string `json:"timeSlots"`
	BoxID          string   `json:"boxId"`
	BoxName        string   `json:"boxName"`
	DoctorName     string   `json:"doctorName"`
	DoctorCreated  bool     `json:"doctorCreated"`
}

// PartialFailureResponse тело ответа, когда запись оборвалась на середине
type PartialFailureResponse struct {
	Code           int    `json:"code"`
	Message        string `json:"message"`
	DatesProcessed int    `json:"datesProcessed"`
	SlotsCreated   int    `json:"slotsCreated"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(orgID, userID string) (*createReservation.Request, error) {
	date, err := localtime.ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	slots := make([]types.TimeString, 0, len(r.TimeSlots))
	for _, raw := range r.TimeSlots {
		slot, err := types.NewTimeStringFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("time slot %q: %w", raw, err)
		}
		slots = append(slots, slot)
	}

	req := &createReservation.Request{
		OrgID:         orgID,
		UserID:        userID,
		CenterID:      r.CenterID,
		BoxName:       r.BoxName,
		DoctorID:      r.DoctorID,
		NewDoctorName: r.NewDoctorName,
		Observation:   r.Observation,
		Date:          date,
		TimeSlots:     slots,
	}

	if r.Recurrence != nil {
		endDate, err := localtime.ParseDate(r.Recurrence.EndDate)
		if err != nil {
			return nil, fmt.Errorf("recurrence end date: %w", err)
		}

		weekdays := make([]time.Weekday, 0, len(r.Recurrence.Weekdays))
		for _, wd := range r.Recurrence.Weekdays {
			if wd < 0 || wd > 6 {
				return nil, fmt.Errorf("weekday %d out of range", wd)
			}
			weekdays = append(weekdays, time.Weekday(wd))
		}

		req.Recurrence = &createReservation.Recurrence{EndDate: endDate, Weekdays: weekdays}
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *createReservation.Response) *CreateReservationResponse {
	dates := make([]string, 0, len(resp.Dates))
	for _, d := range resp.Dates {
		dates = append(dates, localtime.FormatDate(d))
	}

	slots := make([]string, 0, len(resp.TimeSlots))
	for _, s := range resp.TimeSlots {
		slots = append(slots, s.String())
	}

	ids := resp.ReservationIDs
	if ids == nil {
		ids = []string{}
	}

	return &CreateReservationResponse{
		DatesProcessed: resp.DatesProcessed,
		SlotsCreated:   resp.SlotsCreated,
		ReservationIDs: ids,
		Dates:          dates,
		TimeSlots:      slots,
		BoxID:          resp.BoxID,
		BoxName:        resp.BoxName,
		DoctorName:     resp.DoctorName,
		DoctorCreated:  resp.DoctorCreated,
	}
}
