package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	createBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	ServiceID     uuid.UUID  `json:"serviceId"`
	StaffID       *uuid.UUID `json:"staffId,omitempty"`
	Date          string     `json:"date"`      // "2025-10-15"
	StartTime     string     `json:"startTime"` // "10:00" в часовом поясе бизнеса
	CustomerName  string     `json:"customerName"`
	CustomerPhone string     `json:"customerPhone"` // "+905551234567"
	Notes         *string    `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              uuid.UUID  `json:"id"`
	BusinessID      uuid.UUID  `json:"businessId"`
	ServiceID       uuid.UUID  `json:"serviceId"`
	StaffID         *uuid.UUID `json:"staffId,omitempty"`
	CustomerID      *uuid.UUID `json:"customerId,omitempty"`
	CustomerName    string     `json:"customerName"`
	CustomerPhone   string     `json:"customerPhone"`
	Date            string     `json:"date"`
	StartTime       string     `json:"startTime"`
	EndTime         string     `json:"endTime"`
	StartsAt        string     `json:"startsAt"`
	EndsAt          string     `json:"endsAt"`
	DurationMinutes int        `json:"durationMinutes"`
	Timezone        string     `json:"timezone"`
	Status          string     `json:"status"`
	Notes           *string    `json:"notes,omitempty"`
	CreatedAt       string     `json:"createdAt"`
	UpdatedAt       string     `json:"updatedAt"`
}

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(businessID uuid.UUID) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	return &createBooking.Request{
		BusinessID:    businessID,
		ServiceID:     r.ServiceID,
		StaffID:       r.StaffID,
		Date:          date,
		StartTime:     startTime,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *AppointmentResponse {
	loc, err := time.LoadLocation(resp.Timezone)
	if err != nil {
		loc = time.UTC
	}
	start := resp.StartTime.In(loc)
	end := resp.EndTime.In(loc)

	return &AppointmentResponse{
		ID:              resp.ID,
		BusinessID:      resp.BusinessID,
		ServiceID:       resp.ServiceID,
		StaffID:         resp.StaffID,
		CustomerID:      resp.CustomerID,
		CustomerName:    resp.CustomerName,
		CustomerPhone:   resp.CustomerPhone,
		Date:            start.Format(domain.DateFormat),
		StartTime:       start.Format(domain.TimeFormat),
		EndTime:         end.Format(domain.TimeFormat),
		StartsAt:        start.Format(time.RFC3339),
		EndsAt:          end.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		Timezone:        resp.Timezone,
		Status:          resp.Status,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
