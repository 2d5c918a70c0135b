package get_available_slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// CatalogRepository чтение бизнеса, услуг и сотрудников
type CatalogRepository interface {
	GetBusiness(ctx context.Context, id uuid.UUID) (*domain.Business, error)
	GetService(ctx context.Context, businessID, serviceID uuid.UUID) (*domain.Service, error)
	GetStaff(ctx context.Context, businessID, staffID uuid.UUID) (*domain.Staff, error)
	HasActiveStaff(ctx context.Context, businessID uuid.UUID) (bool, error)
}

// HoursRepository рабочие часы с учетом иерархии сотрудник -> бизнес
type HoursRepository interface {
	GetEffective(ctx context.Context, businessID uuid.UUID, staffID *uuid.UUID, weekday time.Weekday) (*domain.WorkingHours, error)
}

// AppointmentRepository записи, занимающие время ресурса
type AppointmentRepository interface {
	ListBooked(ctx context.Context, businessID uuid.UUID, staffID *uuid.UUID, from, to time.Time) ([]*domain.Appointment, error)
}

// MetricsRecorder метрики расчета слотов
type MetricsRecorder interface {
	ObserveSlotsComputed(count int)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
