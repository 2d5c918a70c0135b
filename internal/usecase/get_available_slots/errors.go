package get_available_slots

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("get_available_slots: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена у бизнеса
	ErrServiceNotFound = errors.New("get_available_slots: service not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден у бизнеса
	ErrStaffNotFound = errors.New("get_available_slots: staff not found")

	// ErrStaffInactive возвращается, когда сотрудник не принимает записи
	ErrStaffInactive = errors.New("get_available_slots: staff is not accepting appointments")

	// ErrStaffRequired возвращается, когда у бизнеса есть сотрудники, а сотрудник не выбран
	ErrStaffRequired = errors.New("get_available_slots: staff must be selected")

	// ErrInvalidDate возвращается, когда дата в прошлом
	ErrInvalidDate = errors.New("get_available_slots: invalid date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("get_available_slots: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
