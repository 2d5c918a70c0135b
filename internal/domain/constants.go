package domain

// Default configuration values
const (
	DefaultSlotGranularityMinutes = 30
	DefaultAdvanceBookingDays     = 0   // 0 = unlimited
	DefaultOpeningMinute          = 540 // 09:00
	DefaultClosingMinute          = 1020
)

// Business validation constants
const (
	MaxAdvanceBookingDays  = 365
	MaxServiceDurationMins = 480
	MaxCustomerNameLength  = 100
	MaxNotesLength         = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses статусы, которые не показываются в списке записей по умолчанию
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusNoShow,
}

// FreeingStatuses статусы, при которых запись не занимает время
var FreeingStatuses = []AppointmentStatus{
	StatusCancelled,
}
