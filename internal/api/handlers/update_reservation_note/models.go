package update_reservation_note

// UpdateNoteRequest HTTP request model
type UpdateNoteRequest struct {
	Observation string `json:"observation"`
}
