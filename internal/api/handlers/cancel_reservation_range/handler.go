package cancel_reservation_range

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicBoxService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBoxService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBoxService/internal/service/reservations"
)

const (
	msgMissingIdentity    = "отсутствует ID пользователя или организации"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidParams      = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgInvalidDateRange   = "дата окончания раньше даты начала"
	msgInvalidInput       = "не указан центр, бокс или врач"
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

// Handle POST /api/v1/reservations/cancel-range
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, okUser := middleware.GetUserID(r.Context())
	orgID, okOrg := middleware.GetOrgID(r.Context())
	if !okUser || !okOrg {
		h.logger.Warn("POST /reservations/cancel-range - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req CancelRangeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/cancel-range - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(orgID, userID)
	if err != nil {
		h.logger.Warn("POST /reservations/cancel-range - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.CancelRange(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrInvalidDateRange):
			h.logger.Warn("POST /reservations/cancel-range - Invalid date range: %s..%s", req.StartDate, req.EndDate)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, reservations.ErrInvalidInput):
			h.logger.Warn("POST /reservations/cancel-range - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /reservations/cancel-range - Failed to cancel range: org=%s, error=%v", orgID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/cancel-range - Cancelled %d reservations: org=%s, box=%s, doctor=%q",
		result.Cancelled, orgID, req.BoxID, req.DoctorName)
	handlers.RespondJSON(w, http.StatusOK, result)
}
