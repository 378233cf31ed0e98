package get_day_schedule

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBoxService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBoxService/internal/api/middleware"
	getDaySchedule "github.com/m04kA/SMC-ClinicBoxService/internal/usecase/get_day_schedule"
)

const (
	msgMissingOrgID   = "отсутствует ID организации"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgCenterNotFound = "центр не найден"
)

type Handler struct {
	useCase GetDayScheduleUseCase
	logger  Logger
}

func NewHandler(useCase GetDayScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/centers/{centerId}/schedule
// Query params: date (обязательно), doctor, box (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	centerID := mux.Vars(r)["centerId"]

	orgID, ok := middleware.GetOrgID(r.Context())
	if !ok {
		h.logger.Warn("GET /centers/{id}/schedule - Missing org ID")
		handlers.RespondUnauthorized(w, msgMissingOrgID)
		return
	}

	query := r.URL.Query()
	req, err := ToUseCaseRequest(orgID, centerID, query.Get("date"), query.Get("doctor"), query.Get("box"))
	if err != nil {
		h.logger.Warn("GET /centers/{id}/schedule - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getDaySchedule.ErrCenterNotFound):
			h.logger.Warn("GET /centers/{id}/schedule - Center not found: center_id=%s", centerID)
			handlers.RespondNotFound(w, msgCenterNotFound)

		case errors.Is(err, getDaySchedule.ErrInvalidInput):
			h.logger.Warn("GET /centers/{id}/schedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /centers/{id}/schedule - Failed to build schedule: center_id=%s, error=%v", centerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /centers/{id}/schedule - Schedule built: center_id=%s, occupied=%d", centerID, result.Occupied)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
