package get_occupancy_report

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicBoxService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBoxService/internal/api/middleware"
	getOccupancyReport "github.com/m04kA/SMC-ClinicBoxService/internal/usecase/get_occupancy_report"
)

const (
	msgMissingOrgID     = "отсутствует ID организации"
	msgInvalidParams    = "некорректные параметры запроса"
	msgInvalidDateRange = "дата начала позже даты окончания"
)

type Handler struct {
	useCase GetOccupancyReportUseCase
	logger  Logger
}

func NewHandler(useCase GetOccupancyReportUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/analytics/occupancy
// Query params: start, end (обязательно), centerId, granularity (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.GetOrgID(r.Context())
	if !ok {
		h.logger.Warn("GET /analytics/occupancy - Missing org ID")
		handlers.RespondUnauthorized(w, msgMissingOrgID)
		return
	}

	query := r.URL.Query()
	req, err := ToUseCaseRequest(orgID, query.Get("start"), query.Get("end"), query.Get("centerId"), query.Get("granularity"))
	if err != nil {
		h.logger.Warn("GET /analytics/occupancy - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getOccupancyReport.ErrInvalidDateRange):
			h.logger.Warn("GET /analytics/occupancy - Invalid date range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		case errors.Is(err, getOccupancyReport.ErrInvalidInput):
			h.logger.Warn("GET /analytics/occupancy - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /analytics/occupancy - Failed to build report: org=%s, error=%v", orgID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /analytics/occupancy - Report built: org=%s, active=%d, boxes=%d", orgID, result.Active, len(result.Boxes))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
