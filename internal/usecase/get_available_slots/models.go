package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	BusinessID uuid.UUID  // ID бизнеса
	ServiceID  uuid.UUID  // ID услуги (задает длительность)
	StaffID    *uuid.UUID // nil - бизнес целиком
	Date       time.Time  // календарная дата; учитываются только год, месяц и день
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time              // Дата в часовом поясе бизнеса (полночь)
	BusinessID      uuid.UUID              // ID бизнеса
	ServiceID       uuid.UUID              // ID услуги
	StaffID         *uuid.UUID             // ID сотрудника
	Timezone        string                 // Часовой пояс, в котором указано время слотов
	DurationMinutes int                    // Длительность услуги
	IsOpen          bool                   // Работает ли ресурс в этот день
	Slots           []domain.AvailableSlot // Свободные слоты по возрастанию
}
