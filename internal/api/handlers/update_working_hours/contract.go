package update_working_hours

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/hours/models"
)

type HoursService interface {
	UpdateWeek(ctx context.Context, req *models.UpdateWeekRequest) (*models.WeekResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
