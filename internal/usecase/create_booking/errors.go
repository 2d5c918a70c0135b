package create_booking

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("create_booking: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена у бизнеса
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrStaffNotFound возвращается, когда сотрудник не найден у бизнеса
	ErrStaffNotFound = errors.New("create_booking: staff not found")

	// ErrStaffInactive возвращается, когда сотрудник не принимает записи
	ErrStaffInactive = errors.New("create_booking: staff is not accepting appointments")

	// ErrStaffRequired возвращается, когда у бизнеса есть сотрудники, а сотрудник не выбран
	ErrStaffRequired = errors.New("create_booking: staff must be selected")

	// ErrInvalidDate возвращается при некорректной дате записи
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrTooLateToBook возвращается, когда время начала уже прошло
	ErrTooLateToBook = errors.New("create_booking: start time has already passed")

	// ErrOutsideWorkingHours возвращается, когда запись не помещается в рабочие часы
	ErrOutsideWorkingHours = errors.New("create_booking: outside working hours")

	// ErrSlotNotAvailable возвращается, когда время пересекается с существующей записью
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
