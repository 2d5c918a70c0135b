package update_working_hours

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/hours"
	"github.com/m04kA/SMC-SchedulingService/internal/service/hours/models"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "требуется авторизация"
	msgForbidden          = "доступ запрещен"
	msgBusinessNotFound   = "бизнес не найден"
	msgStaffNotFound      = "сотрудник не найден"
	msgInvalidData        = "некорректные рабочие часы"
)

type Handler struct {
	service HoursService
	logger  Logger
}

func NewHandler(service HoursService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/businesses/{businessId}/working-hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	businessID, err := uuid.Parse(mux.Vars(r)["businessId"])
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/working-hours - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	var req models.UpdateWeekRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/working-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID
	req.BusinessID = businessID

	result, err := h.service.UpdateWeek(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, hours.ErrAccessDenied):
			h.logger.Warn("PUT /businesses/{id}/working-hours - Access denied: business_id=%s, user_id=%s",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)
		case errors.Is(err, hours.ErrBusinessNotFound):
			handlers.RespondNotFound(w, msgBusinessNotFound)
		case errors.Is(err, hours.ErrStaffNotFound):
			handlers.RespondNotFound(w, msgStaffNotFound)
		case errors.Is(err, hours.ErrInvalidInput):
			h.logger.Warn("PUT /businesses/{id}/working-hours - Invalid data: business_id=%s, error=%v",
				businessID, err)
			handlers.RespondError(w, http.StatusBadRequest, msgInvalidData+": "+err.Error())
		default:
			h.logger.Error("PUT /businesses/{id}/working-hours - Failed to update hours: business_id=%s, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /businesses/{id}/working-hours - Hours updated: business_id=%s, staff_id=%v",
		businessID, req.StaffID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
