package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicBoxService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicBoxService/internal/api/middleware"
	createReservation "github.com/m04kA/SMC-ClinicBoxService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidParams      = "некорректная дата или время, ожидается YYYY-MM-DD и HH:MM"
	msgMissingIdentity    = "отсутствует ID пользователя или организации"
	msgCenterNotFound     = "центр не найден"
	msgBoxNotFound        = "бокс не найден в центре"
	msgDoctorNotFound     = "врач не найден в центре"
	msgInvalidTimeSlot    = "некорректный временной слот"
	msgNoTargetDates      = "в выбранном периоде нет ни одного выбранного дня недели"
	msgSlotConflict       = "выбранный слот уже занят, обновите расписание"
	msgSlotBusy           = "слот сейчас бронируется другим пользователем, повторите попытку"
	msgPartialFailure     = "бронирование выполнено частично"
	msgInvalidInput       = "некорректные данные бронирования"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, okUser := middleware.GetUserID(r.Context())
	orgID, okOrg := middleware.GetOrgID(r.Context())
	if !okUser || !okOrg {
		h.logger.Warn("POST /reservations - Missing identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(orgID, userID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrCenterNotFound):
			h.logger.Warn("POST /reservations - Center not found: center_id=%s", req.CenterID)
			handlers.RespondNotFound(w, msgCenterNotFound)

		case errors.Is(err, createReservation.ErrBoxNotFound):
			h.logger.Warn("POST /reservations - Box not found: center_id=%s, box=%q", req.CenterID, req.BoxName)
			handlers.RespondNotFound(w, msgBoxNotFound)

		case errors.Is(err, createReservation.ErrDoctorNotFound):
			h.logger.Warn("POST /reservations - Doctor not found: center_id=%s", req.CenterID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, createReservation.ErrSlotConflict):
			h.logger.Warn("POST /reservations - Slot conflict: %v", err)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, createReservation.ErrSlotBusy):
			h.logger.Warn("POST /reservations - Slot busy: %v", err)
			handlers.RespondConflict(w, msgSlotBusy)

		case errors.Is(err, createReservation.ErrInvalidTimeSlot):
			h.logger.Warn("POST /reservations - Invalid time slot: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createReservation.ErrNoTargetDates):
			h.logger.Warn("POST /reservations - No target dates: %v", err)
			handlers.RespondBadRequest(w, msgNoTargetDates)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createReservation.ErrPartialFailure) && result != nil:
			h.logger.Error("POST /reservations - Partial failure: created=%d, dates=%d, error=%v",
				result.SlotsCreated, result.DatesProcessed, err)
			handlers.RespondJSON(w, http.StatusInternalServerError, PartialFailureResponse{
				Code:           http.StatusInternalServerError,
				Message:        msgPartialFailure,
				DatesProcessed: result.DatesProcessed,
				SlotsCreated:   result.SlotsCreated,
			})

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: org=%s, center_id=%s, error=%v",
				orgID, req.CenterID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservations created: org=%s, box=%s, slots=%d, dates=%d",
		orgID, result.BoxName, result.SlotsCreated, result.DatesProcessed)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
