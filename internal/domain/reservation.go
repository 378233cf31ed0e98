package domain

import "time"

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	StatusActive    ReservationStatus = "active"
	StatusCancelled ReservationStatus = "cancelled"
)

// NormalizeStatus maps stored values to a known state.
// Records written before statuses existed have no value and are active.
func NormalizeStatus(raw string) ReservationStatus {
	if ReservationStatus(raw) == StatusCancelled {
		return StatusCancelled
	}
	return StatusActive
}

// Reservation represents a 30-minute occupancy of one box by one doctor
type Reservation struct {
	ID       string
	OrgID    string
	CenterID string
	BoxID    string

	// Denormalized names shown in the grid
	BoxName    string
	DoctorName string

	Observation     string
	StartTime       time.Time
	EndTime         time.Time
	UserID          string
	OriginalEventID *string

	Status      ReservationStatus
	CancelledAt *time.Time

	CreatedAt time.Time
}

// IsActive returns true unless the reservation has been cancelled
func (r *Reservation) IsActive() bool {
	return r.Status != StatusCancelled
}

// IsCancelled returns true if the reservation has been cancelled
func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// Cancel moves an active reservation to cancelled.
// Returns false when it was already cancelled; cancelledAt is then left untouched.
func (r *Reservation) Cancel(at time.Time) bool {
	if r.IsCancelled() {
		return false
	}
	r.Status = StatusCancelled
	r.CancelledAt = &at
	return true
}

// ReservationFilter фильтр выборки броней организации
type ReservationFilter struct {
	OrgID            string     // Обязательный параметр
	CenterID         *string    // Фильтр по центру
	BoxID            *string    // Фильтр по боксу
	DoctorName       *string    // Точное совпадение имени врача
	From             *time.Time // Начало диапазона по start_time (включительно)
	To               *time.Time // Конец диапазона по start_time (включительно)
	IncludeCancelled bool       // Включать ли отменённые брони
}
