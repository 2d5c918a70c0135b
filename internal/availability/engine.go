// Package availability computes bookable slots for one resource and one day
// and validates proposed bookings. All arithmetic is in local minutes of day;
// callers convert absolute timestamps with the business location.
package availability

import (
	"fmt"
	"time"
)

// ComputeAvailableSlots returns the free starts of req.Day, ascending.
//
// Candidates step by granularityMinutes from the opening minute while the whole
// service still fits before closing. A candidate is dropped when it overlaps any
// booked interval, or when the day is today and the start is at or before the
// current local minute. Days before today yield nothing. An empty result is not an error.
func ComputeAvailableSlots(req SlotRequest, hours WorkingHours, booked []Interval, granularityMinutes int, now time.Time) ([]Slot, error) {
	if err := validateSlotInput(req, hours, granularityMinutes); err != nil {
		return nil, err
	}

	slots := make([]Slot, 0)
	if !hours.IsOpen {
		return slots, nil
	}

	day := req.Day.In(req.Location)
	localNow := now.In(req.Location)

	nowMinute := -1
	switch compareDates(day, localNow) {
	case -1:
		return slots, nil
	case 0:
		nowMinute = MinuteOfDay(localNow, req.Location)
	}

	duration := req.ServiceDurationMinutes
	for m := hours.StartMinute; m+duration <= hours.EndMinute; m += granularityMinutes {
		// inclusive: a slot starting at the current minute is already gone
		if m <= nowMinute {
			continue
		}

		candidate := Interval{StartMinute: m, EndMinute: m + duration}
		if _, clash := firstOverlap(candidate, booked); clash {
			continue
		}

		slots = append(slots, Slot{StartMinute: candidate.StartMinute, EndMinute: candidate.EndMinute})
	}

	return slots, nil
}

// ValidateBooking re-checks a concrete interval right before it is stored.
// Returns ErrOutsideHours or ErrConflict for expected rejections and
// ErrInvalidConfiguration for malformed input.
func ValidateBooking(proposed Interval, hours WorkingHours, booked []Interval) error {
	if err := proposed.validate(); err != nil {
		return err
	}
	if err := hours.Validate(); err != nil {
		return err
	}

	if !hours.Contains(proposed) {
		if !hours.IsOpen {
			return fmt.Errorf("%w: closed on %s", ErrOutsideHours, hours.Weekday)
		}
		return fmt.Errorf("%w: %s not within %s", ErrOutsideHours, proposed,
			Interval{StartMinute: hours.StartMinute, EndMinute: hours.EndMinute})
	}

	if b, clash := firstOverlap(proposed, booked); clash {
		return fmt.Errorf("%w: %s overlaps %s", ErrConflict, proposed, b)
	}

	return nil
}

func validateSlotInput(req SlotRequest, hours WorkingHours, granularityMinutes int) error {
	if granularityMinutes <= 0 {
		return fmt.Errorf("%w: granularity %d", ErrInvalidConfiguration, granularityMinutes)
	}
	if req.ServiceDurationMinutes <= 0 {
		return fmt.Errorf("%w: service duration %d", ErrInvalidConfiguration, req.ServiceDurationMinutes)
	}
	if req.Location == nil {
		return fmt.Errorf("%w: location is required", ErrInvalidConfiguration)
	}
	if err := hours.Validate(); err != nil {
		return err
	}
	if wd := req.Day.In(req.Location).Weekday(); wd != hours.Weekday {
		return fmt.Errorf("%w: hours for %s given for a %s", ErrInvalidConfiguration, hours.Weekday, wd)
	}
	return nil
}

// firstOverlap linear scan; a single resource has tens of bookings per day at most.
func firstOverlap(iv Interval, booked []Interval) (Interval, bool) {
	for _, b := range booked {
		if iv.Overlaps(b) {
			return b, true
		}
	}
	return Interval{}, false
}
