// Package admin HTTP обработчики импорта CSV и обслуживания данных организации.
package admin

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBoxService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBoxService/internal/api/middleware"
	importData "github.com/m04kA/SMC-ClinicBoxService/internal/usecase/import_data"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/csvrows"
)

const (
	msgMissingIdentity = "отсутствует ID пользователя или организации"
	msgUnknownKind     = "неизвестный тип файла, ожидается infrastructure, doctors или reservations"
	msgInvalidCSV      = "некорректный CSV файл"
	msgImportAborted   = "импорт прерван, записанные данные сохранены"
	msgRescueAborted   = "восстановление прервано, перенесённые записи сохранены"

	maxUploadBytes = 32 << 20
)

type Handler struct {
	useCase ImportUseCase
	logger  Logger
}

func NewHandler(useCase ImportUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Import POST /api/v1/admin/import/{kind}
// Тело запроса: CSV файл с заголовком.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	userID, okUser := middleware.GetUserID(r.Context())
	orgID, okOrg := middleware.GetOrgID(r.Context())
	if !okUser || !okOrg {
		h.logger.Warn("POST /admin/import - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	kind, err := importData.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		h.logger.Warn("POST /admin/import - %v", err)
		handlers.RespondBadRequest(w, msgUnknownKind)
		return
	}

	rows, err := csvrows.Parse(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		h.logger.Warn("POST /admin/import/%s - Invalid CSV: %v", kind, err)
		handlers.RespondBadRequest(w, msgInvalidCSV)
		return
	}

	log := make([]string, 0)
	result, err := h.useCase.Execute(r.Context(), &importData.Request{
		OrgID:  orgID,
		UserID: userID,
		Kind:   kind,
		Rows:   rows,
		Log:    func(msg string) { log = append(log, msg) },
	})
	if err != nil {
		switch {
		case errors.Is(err, importData.ErrInvalidInput), errors.Is(err, importData.ErrUnknownKind):
			h.logger.Warn("POST /admin/import/%s - Invalid input: %v", kind, err)
			handlers.RespondBadRequest(w, msgUnknownKind)

		case result != nil:
			h.logger.Error("POST /admin/import/%s - Aborted: committed=%d, error=%v", kind, result.ReservationsCommitted, err)
			resp := fromResult(result, log)
			resp.Error = msgImportAborted
			handlers.RespondJSON(w, http.StatusInternalServerError, resp)

		default:
			h.logger.Error("POST /admin/import/%s - Failed: %v", kind, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/import/%s - Done: org=%s, rows=%d, skipped=%d", kind, orgID, result.RowsSeen, result.RowsSkipped)
	handlers.RespondJSON(w, http.StatusOK, fromResult(result, log))
}

// Rescue POST /api/v1/admin/rescue
// Переносит в организацию вызывающего все записи без организации или с чужой организацией.
func (h *Handler) Rescue(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.GetOrgID(r.Context())
	if !ok {
		h.logger.Warn("POST /admin/rescue - Missing org ID")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	log := make([]string, 0)
	result, err := h.useCase.RescueOrphans(r.Context(), orgID, func(msg string) { log = append(log, msg) })
	if err != nil {
		if result == nil {
			h.logger.Error("POST /admin/rescue - Failed: %v", err)
			handlers.RespondInternalError(w)
			return
		}
		h.logger.Error("POST /admin/rescue - Aborted: moved=%d, error=%v", result.Total, err)
		handlers.RespondJSON(w, http.StatusInternalServerError, RescueResponse{
			PerCollection: result.PerCollection,
			Total:         result.Total,
			Error:         msgRescueAborted,
			Log:           log,
		})
		return
	}

	h.logger.Info("POST /admin/rescue - Done: org=%s, moved=%d", orgID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, RescueResponse{
		PerCollection: result.PerCollection,
		Total:         result.Total,
		Log:           log,
	})
}

// Count GET /api/v1/admin/reservations/count
func (h *Handler) Count(w http.ResponseWriter, r *http.Request) {
	orgID, ok := middleware.GetOrgID(r.Context())
	if !ok {
		h.logger.Warn("GET /admin/reservations/count - Missing org ID")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	count, err := h.useCase.CountReservations(r.Context(), orgID)
	if err != nil {
		h.logger.Error("GET /admin/reservations/count - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, CountResponse{OrgID: orgID, Count: count})
}
