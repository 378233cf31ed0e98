// Package directory HTTP обработчики ручного ведения центров, боксов и врачей.
package directory

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicBoxService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBoxService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	"github.com/m04kA/SMC-ClinicBoxService/internal/service/directory"
)

const (
	msgMissingOrgID       = "отсутствует ID организации"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidName        = "некорректное имя"
	msgCenterNotFound     = "центр не найден"
)

type Handler struct {
	service DirectoryService
	logger  Logger
}

func NewHandler(service DirectoryService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ListCenters GET /api/v1/centers
func (h *Handler) ListCenters(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r, "GET /centers")
	if !ok {
		return
	}

	centers, err := h.service.ListCenters(r.Context(), orgID)
	if err != nil {
		h.respondError(w, "GET /centers", err)
		return
	}

	h.logger.Info("GET /centers - Centers listed: org=%s, count=%d", orgID, len(centers))
	handlers.RespondJSON(w, http.StatusOK, fromCenters(centers))
}

// CreateCenter POST /api/v1/centers
func (h *Handler) CreateCenter(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r, "POST /centers")
	if !ok {
		return
	}
	req, ok := h.decode(w, r, "POST /centers")
	if !ok {
		return
	}

	center, created, err := h.service.CreateCenter(r.Context(), orgID, req.Name)
	if err != nil {
		h.respondError(w, "POST /centers", err)
		return
	}

	h.logger.Info("POST /centers - Center resolved: id=%s, created=%t", center.ID, created)
	handlers.RespondJSON(w, createdStatus(created), CreateResponse{
		EntityResponse: EntityResponse{ID: center.ID, Name: center.Name},
		Created:        created,
	})
}

// ListBoxes GET /api/v1/centers/{centerId}/boxes
func (h *Handler) ListBoxes(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r, "GET /centers/{id}/boxes")
	if !ok {
		return
	}

	boxes, err := h.service.ListBoxes(r.Context(), orgID, mux.Vars(r)["centerId"])
	if err != nil {
		h.respondError(w, "GET /centers/{id}/boxes", err)
		return
	}

	h.logger.Info("GET /centers/{id}/boxes - Boxes listed: count=%d", len(boxes))
	handlers.RespondJSON(w, http.StatusOK, fromBoxes(boxes))
}

// CreateBox POST /api/v1/centers/{centerId}/boxes
func (h *Handler) CreateBox(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r, "POST /centers/{id}/boxes")
	if !ok {
		return
	}
	req, ok := h.decode(w, r, "POST /centers/{id}/boxes")
	if !ok {
		return
	}

	box, created, err := h.service.CreateBox(r.Context(), orgID, mux.Vars(r)["centerId"], req.Name)
	if err != nil {
		h.respondError(w, "POST /centers/{id}/boxes", err)
		return
	}

	h.logger.Info("POST /centers/{id}/boxes - Box resolved: id=%s, created=%t", box.ID, created)
	handlers.RespondJSON(w, createdStatus(created), CreateResponse{
		EntityResponse: fromBoxes([]*domain.Box{box})[0],
		Created:        created,
	})
}

// ListDoctors GET /api/v1/centers/{centerId}/doctors
func (h *Handler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r, "GET /centers/{id}/doctors")
	if !ok {
		return
	}

	doctors, err := h.service.ListDoctors(r.Context(), orgID, mux.Vars(r)["centerId"])
	if err != nil {
		h.respondError(w, "GET /centers/{id}/doctors", err)
		return
	}

	h.logger.Info("GET /centers/{id}/doctors - Doctors listed: count=%d", len(doctors))
	handlers.RespondJSON(w, http.StatusOK, fromDoctors(doctors))
}

// CreateDoctor POST /api/v1/centers/{centerId}/doctors
func (h *Handler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r, "POST /centers/{id}/doctors")
	if !ok {
		return
	}
	req, ok := h.decode(w, r, "POST /centers/{id}/doctors")
	if !ok {
		return
	}

	doctor, created, err := h.service.CreateDoctor(r.Context(), orgID, mux.Vars(r)["centerId"], req.Name)
	if err != nil {
		h.respondError(w, "POST /centers/{id}/doctors", err)
		return
	}

	h.logger.Info("POST /centers/{id}/doctors - Doctor resolved: id=%s, created=%t", doctor.ID, created)
	handlers.RespondJSON(w, createdStatus(created), CreateResponse{
		EntityResponse: fromDoctors([]*domain.Doctor{doctor})[0],
		Created:        created,
	})
}

func (h *Handler) orgID(w http.ResponseWriter, r *http.Request, route string) (string, bool) {
	orgID, ok := middleware.GetOrgID(r.Context())
	if !ok {
		h.logger.Warn("%s - Missing org ID", route)
		handlers.RespondUnauthorized(w, msgMissingOrgID)
	}
	return orgID, ok
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, route string) (*CreateRequest, bool) {
	var req CreateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return nil, false
	}
	return &req, true
}

func (h *Handler) respondError(w http.ResponseWriter, route string, err error) {
	switch {
	case errors.Is(err, directory.ErrCenterNotFound):
		h.logger.Warn("%s - Center not found", route)
		handlers.RespondNotFound(w, msgCenterNotFound)

	case errors.Is(err, directory.ErrInvalidInput):
		h.logger.Warn("%s - Invalid name: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidName)

	default:
		h.logger.Error("%s - Failed: %v", route, err)
		handlers.RespondInternalError(w)
	}
}

func createdStatus(created bool) int {
	if created {
		return http.StatusCreated
	}
	return http.StatusOK
}
