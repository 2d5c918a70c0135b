package availability

import "errors"

var (
	// ErrInvalidConfiguration malformed engine input. This is a caller bug,
	// not a condition to show to a customer.
	ErrInvalidConfiguration = errors.New("availability: invalid configuration")

	// ErrOutsideHours the proposed interval is not inside an open working window.
	ErrOutsideHours = errors.New("availability: outside working hours")

	// ErrConflict the proposed interval overlaps an existing booking.
	ErrConflict = errors.New("availability: conflicts with existing booking")
)
