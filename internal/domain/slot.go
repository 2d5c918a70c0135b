package domain

import (
	"github.com/m04kA/SMC-SchedulingService/internal/availability"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// AvailableSlot a free start time ready for presentation
type AvailableSlot struct {
	StartTime       types.TimeString
	EndTime         types.TimeString
	DurationMinutes int
}

// NewAvailableSlot converts an engine slot into local HH:MM times
func NewAvailableSlot(s availability.Slot) (AvailableSlot, error) {
	start, err := types.NewTimeStringFromMinutes(s.StartMinute)
	if err != nil {
		return AvailableSlot{}, err
	}
	end, err := types.NewTimeStringFromMinutes(s.EndMinute)
	if err != nil {
		return AvailableSlot{}, err
	}
	return AvailableSlot{
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: s.EndMinute - s.StartMinute,
	}, nil
}
