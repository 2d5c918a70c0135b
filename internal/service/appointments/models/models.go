package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrInvalidPeriod возвращается, когда начало периода не раньше конца
	ErrInvalidPeriod = errors.New("invalid period")
)

// Request модели

// UpdateStatusRequest запрос на смену статуса записи
type UpdateStatusRequest struct {
	UserID uuid.UUID `json:"-"`
	Status string    `json:"status"`
}

// GetBusinessAppointmentsRequest запрос на получение записей бизнеса
type GetBusinessAppointmentsRequest struct {
	UserID          uuid.UUID  `json:"-"`
	BusinessID      uuid.UUID  `json:"businessId"`
	StaffID         *uuid.UUID `json:"staffId,omitempty"`         // Фильтр по сотруднику (опционально)
	From            *time.Time `json:"from,omitempty"`            // Начало периода (включительно)
	To              *time.Time `json:"to,omitempty"`              // Конец периода (не включительно)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отмененные и no-show
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBusinessAppointmentsRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		BusinessID:      r.BusinessID,
		StaffID:         r.StaffID,
		From:            r.From,
		To:              r.To,
		IncludeInactive: r.IncludeInactive,
	}

	if r.From != nil && r.To != nil && !r.From.Before(*r.To) {
		return filter, ErrInvalidPeriod
	}

	if r.Status != nil {
		status, err := ToDomainAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
		// Явный фильтр по неактивному статусу подразумевает неактивные записи
		if status == domain.StatusCancelled || status == domain.StatusNoShow {
			filter.IncludeInactive = true
		}
	}

	return filter, nil
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID              uuid.UUID  `json:"id"`
	BusinessID      uuid.UUID  `json:"businessId"`
	ServiceID       uuid.UUID  `json:"serviceId"`
	StaffID         *uuid.UUID `json:"staffId,omitempty"`
	CustomerID      *uuid.UUID `json:"customerId,omitempty"`
	CustomerName    string     `json:"customerName"`
	CustomerPhone   string     `json:"customerPhone"`
	Date            string     `json:"date"`      // "2025-10-15" в часовом поясе бизнеса
	StartTime       string     `json:"startTime"` // "10:00"
	EndTime         string     `json:"endTime"`   // "11:00"
	StartsAt        time.Time  `json:"startsAt"`
	EndsAt          time.Time  `json:"endsAt"`
	DurationMinutes int        `json:"durationMinutes"`
	Timezone        string     `json:"timezone"`
	Status          string     `json:"status"`
	Notes           *string    `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO; время выводится в loc
func FromDomainAppointment(a *domain.Appointment, loc *time.Location) *AppointmentResponse {
	if a == nil {
		return nil
	}

	start := a.StartTime.In(loc)
	end := a.EndTime.In(loc)

	return &AppointmentResponse{
		ID:              a.ID,
		BusinessID:      a.BusinessID,
		ServiceID:       a.ServiceID,
		StaffID:         a.StaffID,
		CustomerID:      a.CustomerID,
		CustomerName:    a.CustomerName,
		CustomerPhone:   a.CustomerPhone,
		Date:            start.Format(domain.DateFormat),
		StartTime:       start.Format(domain.TimeFormat),
		EndTime:         end.Format(domain.TimeFormat),
		StartsAt:        start,
		EndsAt:          end,
		DurationMinutes: a.DurationMinutes(),
		Timezone:        loc.String(),
		Status:          string(a.Status),
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment, loc *time.Location) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}

	for _, a := range appointments {
		if r := FromDomainAppointment(a, loc); r != nil {
			resp.Appointments = append(resp.Appointments, *r)
		}
	}

	return resp
}

// ToDomainAppointmentStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	s, ok := domain.ParseAppointmentStatus(status)
	if !ok {
		return "", ErrInvalidStatus
	}
	return s, nil
}
