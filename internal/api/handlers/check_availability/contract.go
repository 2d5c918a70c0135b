package check_availability

import (
	"context"

	createBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
)

type CheckAvailabilityUseCase interface {
	Check(ctx context.Context, req *createBooking.Request) (*createBooking.CheckResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
