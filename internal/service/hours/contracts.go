package hours

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// HoursRepository интерфейс репозитория рабочих часов
type HoursRepository interface {
	ListForResource(ctx context.Context, businessID uuid.UUID, staffID *uuid.UUID) ([]*domain.WorkingHours, error)
	Upsert(ctx context.Context, wh *domain.WorkingHours) (*domain.WorkingHours, error)
}

// CatalogRepository доступ к бизнесу и сотрудникам
type CatalogRepository interface {
	GetBusiness(ctx context.Context, id uuid.UUID) (*domain.Business, error)
	GetStaff(ctx context.Context, businessID, staffID uuid.UUID) (*domain.Staff, error)
}

// CacheInvalidator сброс кэша рабочих часов бизнеса
type CacheInvalidator interface {
	Invalidate(ctx context.Context, businessID uuid.UUID)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
