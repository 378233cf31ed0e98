package cancel_reservation

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBoxService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBoxService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBoxService/internal/service/reservations"
)

const (
	msgMissingOrgID = "отсутствует ID организации"
	msgNotFound     = "бронь не найдена"
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

// Handle PATCH /api/v1/reservations/{reservationId}/cancel
// Повторная отмена не ошибка: ответ 200 с alreadyCancelled=true.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reservationID := mux.Vars(r)["reservationId"]

	orgID, ok := middleware.GetOrgID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /reservations/{id}/cancel - Missing org ID")
		handlers.RespondUnauthorized(w, msgMissingOrgID)
		return
	}

	result, err := h.service.Cancel(r.Context(), orgID, reservationID)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound), errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("PATCH /reservations/{id}/cancel - Reservation not found: id=%s", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("PATCH /reservations/{id}/cancel - Failed to cancel: id=%s, error=%v", reservationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id}/cancel - Reservation cancelled: id=%s, already=%t",
		reservationID, result.AlreadyCancelled)
	handlers.RespondJSON(w, http.StatusOK, result)
}
