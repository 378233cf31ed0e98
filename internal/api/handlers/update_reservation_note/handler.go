package update_reservation_note

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBoxService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBoxService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBoxService/internal/service/reservations"
)

const (
	msgMissingOrgID       = "отсутствует ID организации"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidNote        = "заметка слишком длинная"
	msgNotFound           = "бронь не найдена"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}/note
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID := mux.Vars(r)["reservationId"]

	orgID, ok := middleware.GetOrgID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /reservations/{id}/note - Missing org ID")
		handlers.RespondUnauthorized(w, msgMissingOrgID)
		return
	}

	var req UpdateNoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id}/note - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	reservation, err := h.service.UpdateNote(r.Context(), orgID, reservationID, req.Observation)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id}/note - Reservation not found: id=%s", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("PATCH /reservations/{id}/note - Invalid note: %v", err)
			handlers.RespondBadRequest(w, msgInvalidNote)

		default:
			h.logger.Error("PATCH /reservations/{id}/note - Failed to update note: id=%s, error=%v", reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id}/note - Note updated: id=%s", reservationID)
	handlers.RespondJSON(w, http.StatusOK, reservation)
}
