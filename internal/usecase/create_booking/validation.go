package create_booking

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// phoneRule телефон клиента в формате E.164, например "+905551234567"
const phoneRule = "required,e164"

var validate = validator.New()

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, requireCustomer bool) error {
	if req.BusinessID == uuid.Nil {
		return fmt.Errorf("%w: businessID is required", ErrInvalidInput)
	}

	if req.ServiceID == uuid.Nil {
		return fmt.Errorf("%w: serviceID is required", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID == uuid.Nil {
		return fmt.Errorf("%w: staffID must not be empty", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if !requireCustomer {
		return nil
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName is longer than %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	if err := validate.Var(req.CustomerPhone, phoneRule); err != nil {
		return fmt.Errorf("%w: customerPhone must be in E.164 format", ErrInvalidInput)
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// localDay полночь календарной даты запроса в часовом поясе бизнеса
func localDay(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}

// validateDate проверяет, что дата подходит для записи
func validateDate(day time.Time, now time.Time, advanceBookingDays int) error {
	localNow := now.In(day.Location())
	today := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, day.Location())

	if day.Before(today) {
		return ErrInvalidDate
	}

	// Если advanceBookingDays = 0, нет ограничений на дату
	if advanceBookingDays == 0 {
		return nil
	}

	if day.After(today.AddDate(0, 0, advanceBookingDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// validateStartNotPassed то же правило, что и при выдаче слотов:
// начало в текущую минуту или раньше уже недоступно
func validateStartNotPassed(day time.Time, startMinute int, now time.Time) error {
	loc := day.Location()
	if !availability.SameLocalDate(day, now, loc) {
		return nil
	}

	if startMinute <= availability.MinuteOfDay(now, loc) {
		return fmt.Errorf("%w: %s local time", ErrTooLateToBook, now.In(loc).Format(domain.TimeFormat))
	}

	return nil
}
