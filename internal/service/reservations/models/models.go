package models

import (
	"time"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/localtime"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/types"
)

// Request модели

// CancelRangeRequest запрос на отмену серии броней врача в боксе
type CancelRangeRequest struct {
	OrgID      string
	UserID     string
	CenterID   string
	BoxID      string
	DoctorName string           // Отображаемое имя врача, точное совпадение
	Time       types.TimeString // Локальное время начала слота, например "10:30"
	StartDate  time.Time        // Первый день диапазона (включительно)
	EndDate    time.Time        // Последний день диапазона (включительно)
}

// Response модели

// ReservationResponse ответ с данными брони
type ReservationResponse struct {
	ID              string  `json:"id"`
	OrgID           string  `json:"orgId"`
	CenterID        string  `json:"centerId"`
	BoxID           string  `json:"boxId"`
	BoxName         string  `json:"boxName"`
	DoctorName      string  `json:"doctorName"`
	Observation     string  `json:"observation"`
	Date            string  `json:"date"`      // "2024-07-10", локальная дата
	LocalTime       string  `json:"localTime"` // "14:00", локальное время
	StartTime       string  `json:"startTime"` // RFC 3339 со смещением организации
	EndTime         string  `json:"endTime"`
	UserID          string  `json:"userId"`
	OriginalEventID *string `json:"originalEventId,omitempty"`
	Status          string  `json:"status"`
	CancelledAt     *string `json:"cancelledAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// CancelResponse результат отмены одной брони
type CancelResponse struct {
	ReservationID    string `json:"reservationId"`
	AlreadyCancelled bool   `json:"alreadyCancelled"`
}

// CancelRangeResponse результат отмены диапазона
type CancelRangeResponse struct {
	Cancelled      int      `json:"cancelled"`
	ReservationIDs []string `json:"reservationIds"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO с локальным временем организации
func FromDomainReservation(r *domain.Reservation, zone *localtime.Zone) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:              r.ID,
		OrgID:           r.OrgID,
		CenterID:        r.CenterID,
		BoxID:           r.BoxID,
		BoxName:         r.BoxName,
		DoctorName:      r.DoctorName,
		Observation:     r.Observation,
		Date:            localtime.FormatDate(zone.DateOf(r.StartTime)),
		LocalTime:       zone.TimeOf(r.StartTime).String(),
		StartTime:       zone.Format(r.StartTime),
		EndTime:         zone.Format(r.EndTime),
		UserID:          r.UserID,
		OriginalEventID: r.OriginalEventID,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt,
	}

	if r.CancelledAt != nil {
		cancelled := zone.Format(*r.CancelledAt)
		resp.CancelledAt = &cancelled
	}

	return resp
}
