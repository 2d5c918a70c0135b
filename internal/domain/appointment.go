package domain

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// Appointment is a customer booking of one service with one resource.
// StaffID nil means the appointment is held against the business as a whole.
type Appointment struct {
	ID            uuid.UUID
	BusinessID    uuid.UUID
	ServiceID     uuid.UUID
	StaffID       *uuid.UUID
	CustomerID    *uuid.UUID
	CustomerName  string
	CustomerPhone string
	StartTime     time.Time
	EndTime       time.Time
	Status        AppointmentStatus
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OccupiesSlot returns true if the appointment blocks its time range.
// Only cancellation frees the slot; a no-show still held it.
func (a *Appointment) OccupiesSlot() bool {
	return a.Status != StatusCancelled
}

// IsActive returns true if the appointment may still take place
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// DurationMinutes length of the appointment
func (a *Appointment) DurationMinutes() int {
	return int(a.EndTime.Sub(a.StartTime) / time.Minute)
}

// CanTransitionTo reports whether the status change is allowed
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	allowed, ok := statusTransitions[a.Status]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == next {
			return true
		}
	}
	return false
}

var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCancelled, StatusNoShow},
}

// ParseAppointmentStatus validates a raw status value
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch st := AppointmentStatus(s); st {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusNoShow:
		return st, true
	}
	return "", false
}

// AppointmentsFilter фильтр для списка записей бизнеса
type AppointmentsFilter struct {
	BusinessID      uuid.UUID          // Обязательный параметр
	StaffID         *uuid.UUID         // nil - все сотрудники
	From            *time.Time         // начало периода (включительно)
	To              *time.Time         // конец периода (не включительно)
	Status          *AppointmentStatus // фильтр по статусу
	IncludeInactive bool               // включать отмененные и no-show
}

// Customer a person who booked at least once with the business
type Customer struct {
	ID         uuid.UUID
	BusinessID uuid.UUID
	Name       string
	Phone      string
	CreatedAt  time.Time
}
