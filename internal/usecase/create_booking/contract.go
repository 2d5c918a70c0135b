package create_booking

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

// AppointmentRepository интерфейс для работы с записями
type AppointmentRepository interface {
	ListBooked(ctx context.Context, businessID uuid.UUID, staffID *uuid.UUID, from, to time.Time) ([]*domain.Appointment, error)
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
	GetOrCreateCustomer(ctx context.Context, businessID uuid.UUID, name, phone string) (*domain.Customer, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder метрики попыток записи
type MetricsRecorder interface {
	RecordBookingAttempt(result string)
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
