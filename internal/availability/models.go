package availability

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MinutesPerDay upper bound for a minute-of-day value (exclusive for starts, inclusive for ends).
const MinutesPerDay = 24 * 60

// WorkingHours is the opening window of a resource for one weekday.
type WorkingHours struct {
	Weekday     time.Weekday
	IsOpen      bool
	StartMinute int
	EndMinute   int
}

// Validate checks 0 <= start < end <= 1440 for an open day. Closed days are always valid.
func (h WorkingHours) Validate() error {
	if h.Weekday < time.Sunday || h.Weekday > time.Saturday {
		return fmt.Errorf("%w: weekday %d", ErrInvalidConfiguration, h.Weekday)
	}
	if !h.IsOpen {
		return nil
	}
	if h.StartMinute < 0 || h.EndMinute > MinutesPerDay || h.StartMinute >= h.EndMinute {
		return fmt.Errorf("%w: working window %d-%d", ErrInvalidConfiguration, h.StartMinute, h.EndMinute)
	}
	return nil
}

// Contains reports whether iv lies fully inside the open window.
func (h WorkingHours) Contains(iv Interval) bool {
	return h.IsOpen && iv.StartMinute >= h.StartMinute && iv.EndMinute <= h.EndMinute
}

// Interval is a half-open [StartMinute, EndMinute) range within one local day.
type Interval struct {
	StartMinute int
	EndMinute   int
}

// BookedInterval is the occupied range of a non-cancelled appointment.
type BookedInterval = Interval

// Overlaps uses the half-open rule, so touching intervals do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return max(i.StartMinute, other.StartMinute) < min(i.EndMinute, other.EndMinute)
}

func (i Interval) Duration() int {
	return i.EndMinute - i.StartMinute
}

func (i Interval) validate() error {
	if i.StartMinute < 0 || i.EndMinute > MinutesPerDay || i.StartMinute >= i.EndMinute {
		return fmt.Errorf("%w: interval %d-%d", ErrInvalidConfiguration, i.StartMinute, i.EndMinute)
	}
	return nil
}

func (i Interval) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", i.StartMinute/60, i.StartMinute%60, i.EndMinute/60, i.EndMinute%60)
}

// SlotRequest asks for free starts on Day for one resource.
// ResourceID nil means the business as a whole.
type SlotRequest struct {
	Day                    time.Time
	Location               *time.Location
	ResourceID             *uuid.UUID
	ServiceDurationMinutes int
}

// Slot is a bookable start with its derived end.
type Slot struct {
	StartMinute int
	EndMinute   int
}

func (s Slot) Interval() Interval {
	return Interval{StartMinute: s.StartMinute, EndMinute: s.EndMinute}
}
