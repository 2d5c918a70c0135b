package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	BusinessID    uuid.UUID        // ID бизнеса
	ServiceID     uuid.UUID        // ID услуги
	StaffID       *uuid.UUID       // ID сотрудника (nil - бизнес целиком)
	Date          time.Time        // Дата записи; учитываются только год, месяц и день
	StartTime     types.TimeString // Время начала в часовом поясе бизнеса (например, "10:00")
	CustomerName  string           // Имя клиента
	CustomerPhone string           // Телефон клиента в формате E.164
	Notes         *string          // Комментарий (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              uuid.UUID
	BusinessID      uuid.UUID
	ServiceID       uuid.UUID
	StaffID         *uuid.UUID
	CustomerID      *uuid.UUID
	CustomerName    string
	CustomerPhone   string
	StartTime       time.Time // Абсолютное время начала
	EndTime         time.Time // Абсолютное время окончания
	DurationMinutes int
	Timezone        string
	Status          string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CheckResponse результат проверки времени без создания записи
type CheckResponse struct {
	Available bool
	Reason    string           // "", "conflict" или "outside_hours"
	StartTime types.TimeString // Локальное время начала
	EndTime   types.TimeString // Локальное время окончания
	Timezone  string
}

// Причины недоступности времени
const (
	ReasonConflict     = "conflict"
	ReasonOutsideHours = "outside_hours"
)
