package get_working_hours

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/service/hours/models"
)

type HoursService interface {
	GetWeek(ctx context.Context, businessID uuid.UUID, staffID *uuid.UUID) (*models.WeekResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
