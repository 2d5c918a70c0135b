package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/availability"
)

// WorkingHours opening window for one weekday.
// Hierarchy: staff-specific (StaffID set) overrides business-wide (StaffID nil).
type WorkingHours struct {
	ID          int64
	BusinessID  uuid.UUID
	StaffID     *uuid.UUID
	Weekday     time.Weekday
	IsOpen      bool
	StartMinute int
	EndMinute   int
	UpdatedAt   time.Time
}

// IsStaffSpecific returns true if the record belongs to one staff member
func (w *WorkingHours) IsStaffSpecific() bool {
	return w.StaffID != nil
}

// ToAvailability converts to the engine input
func (w *WorkingHours) ToAvailability() availability.WorkingHours {
	return availability.WorkingHours{
		Weekday:     w.Weekday,
		IsOpen:      w.IsOpen,
		StartMinute: w.StartMinute,
		EndMinute:   w.EndMinute,
	}
}

// DefaultWorkingHours used until the owner configures the week:
// Monday to Friday 09:00-17:00, weekend closed.
func DefaultWorkingHours(businessID uuid.UUID, staffID *uuid.UUID, weekday time.Weekday) *WorkingHours {
	wh := &WorkingHours{
		BusinessID:  businessID,
		StaffID:     staffID,
		Weekday:     weekday,
		StartMinute: DefaultOpeningMinute,
		EndMinute:   DefaultClosingMinute,
	}
	if weekday != time.Saturday && weekday != time.Sunday {
		wh.IsOpen = true
	}
	return wh
}
