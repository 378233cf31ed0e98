package events

// ReservationsCreatedEvent публикуется после создания броней одним запросом
type ReservationsCreatedEvent struct {
	OrgID          string   `json:"org_id"`
	CenterID       string   `json:"center_id"`
	BoxID          string   `json:"box_id"`
	BoxName        string   `json:"box_name"`
	DoctorName     string   `json:"doctor_name"`
	UserID         string   `json:"user_id"`
	ReservationIDs []string `json:"reservation_ids"`
	Dates          []string `json:"dates"`
	TimeSlots      []string `json:"time_slots"`
	CreatedAt      string   `json:"created_at"`
}

// ReservationsCancelledEvent публикуется после отмены одной брони или диапазона
type ReservationsCancelledEvent struct {
	OrgID          string   `json:"org_id"`
	Mode           string   `json:"mode"`
	ReservationIDs []string `json:"reservation_ids"`
	CancelledAt    string   `json:"cancelled_at"`
}

// envelope сообщение в очереди
type envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const (
	typeReservationsCreated   = "reservations.created"
	typeReservationsCancelled = "reservations.cancelled"
)
