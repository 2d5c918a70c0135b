package create_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
)

const (
	msgInvalidBusinessID   = "некорректный ID бизнеса"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime         = "некорректный формат времени начала, ожидается HH:MM"
	msgSlotNotAvailable    = "выбранное время уже занято"
	msgOutsideWorkingHours = "выбранное время вне рабочих часов"
	msgBusinessNotFound    = "бизнес не найден"
	msgServiceNotFound     = "услуга не найдена"
	msgStaffNotFound       = "сотрудник не найден"
	msgStaffInactive       = "сотрудник не принимает записи"
	msgStaffRequired       = "необходимо выбрать сотрудника"
	msgPastDate            = "дата записи в прошлом"
	msgDateTooFar          = "дата записи слишком далеко в будущем"
	msgTooLateToBook       = "время начала уже прошло"
	msgInvalidInput        = "некорректные данные записи"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/businesses/{businessId}/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := uuid.Parse(mux.Vars(r)["businessId"])
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/appointments - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{id}/appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(businessID)
	if err != nil {
		h.logger.Warn("POST /businesses/{id}/appointments - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /businesses/{id}/appointments - Slot not available: business_id=%s, date=%s, time=%s",
				businessID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)
		case errors.Is(err, createBooking.ErrOutsideWorkingHours):
			handlers.RespondUnprocessable(w, msgOutsideWorkingHours)
		case errors.Is(err, createBooking.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)
		case errors.Is(err, createBooking.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)
		case errors.Is(err, createBooking.ErrStaffNotFound):
			handlers.RespondNotFound(w, msgStaffNotFound)
		case errors.Is(err, createBooking.ErrStaffInactive):
			handlers.RespondBadRequest(w, msgStaffInactive)
		case errors.Is(err, createBooking.ErrStaffRequired):
			handlers.RespondBadRequest(w, msgStaffRequired)
		case errors.Is(err, createBooking.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgPastDate)
		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)
		case errors.Is(err, createBooking.ErrTooLateToBook):
			handlers.RespondBadRequest(w, msgTooLateToBook)
		case errors.Is(err, createBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)
		default:
			h.logger.Error("POST /businesses/{id}/appointments - Failed to create appointment: business_id=%s, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /businesses/{id}/appointments - Appointment created: id=%s, business_id=%s",
		result.ID, businessID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
