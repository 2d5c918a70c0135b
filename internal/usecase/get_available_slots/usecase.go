package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	hoursRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/hours"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	catalogRepo     CatalogRepository
	hoursRepo       HoursRepository
	appointmentRepo AppointmentRepository
	metrics         MetricsRecorder
	defaultLocation *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// defaultLocation используется для бизнесов без корректного часового пояса.
func NewUseCase(
	catalogRepo CatalogRepository,
	hoursRepo HoursRepository,
	appointmentRepo AppointmentRepository,
	metrics MetricsRecorder,
	defaultLocation *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalogRepo:     catalogRepo,
		hoursRepo:       hoursRepo,
		appointmentRepo: appointmentRepo,
		metrics:         metrics,
		defaultLocation: defaultLocation,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: business=%s, service=%s, staff=%s, date=%s",
		req.BusinessID, req.ServiceID, staffLabel(req), req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем бизнес (часовой пояс и шаг слотов)
	business, err := uc.catalogRepo.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business id=%s not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get business id=%s: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	loc := business.Location(uc.defaultLocation)
	day := localDay(req.Date, loc)

	// 4. Получаем услугу (длительность)
	service, err := uc.catalogRepo.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 5. Определяем ресурс: сотрудник или бизнес целиком
	if err := uc.resolveResource(ctx, req); err != nil {
		return nil, err
	}

	// 6. Валидация даты
	if err := validateDate(day, now, business.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 7. Рабочие часы на день недели
	hours, err := uc.hoursRepo.GetEffective(ctx, req.BusinessID, req.StaffID, day.Weekday())
	if err != nil {
		if !errors.Is(err, hoursRepo.ErrHoursNotFound) {
			uc.logger.Error("GetAvailableSlots: failed to get working hours: %v", err)
			return nil, fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
		}
		hours = domain.DefaultWorkingHours(req.BusinessID, req.StaffID, day.Weekday())
		uc.logger.Info("GetAvailableSlots: using default working hours for business=%s, weekday=%s",
			req.BusinessID, day.Weekday())
	}

	// 8. Занятые интервалы ресурса за день
	dayStart, dayEnd := availability.DayBounds(day, loc)
	appointments, err := uc.appointmentRepo.ListBooked(ctx, req.BusinessID, req.StaffID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}
	booked := bookedIntervals(appointments, day, loc)

	// 9. Считаем свободные слоты
	slots, err := availability.ComputeAvailableSlots(
		availability.SlotRequest{
			Day:                    day,
			Location:               loc,
			ResourceID:             req.StaffID,
			ServiceDurationMinutes: service.DurationMinutes,
		},
		hours.ToAvailability(),
		booked,
		business.Granularity(),
		now,
	)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: availability engine rejected input: %v", err)
		return nil, fmt.Errorf("%w: compute slots: %v", ErrInternal, err)
	}

	// 10. Формируем ответ
	result := make([]domain.AvailableSlot, 0, len(slots))
	for _, s := range slots {
		slot, err := domain.NewAvailableSlot(s)
		if err != nil {
			return nil, fmt.Errorf("%w: format slot: %v", ErrInternal, err)
		}
		result = append(result, slot)
	}
	uc.metrics.ObserveSlotsComputed(len(result))

	uc.logger.Info("GetAvailableSlots: %d free slots (booked=%d) for business=%s, staff=%s, date=%s",
		len(result), len(booked), req.BusinessID, staffLabel(req), day.Format(domain.DateFormat))

	return &Response{
		Date:            day,
		BusinessID:      req.BusinessID,
		ServiceID:       req.ServiceID,
		StaffID:         req.StaffID,
		Timezone:        loc.String(),
		DurationMinutes: service.DurationMinutes,
		IsOpen:          hours.IsOpen,
		Slots:           result,
	}, nil
}

// resolveResource проверяет выбранного сотрудника.
// Если сотрудник не выбран, а у бизнеса есть активные сотрудники, выбор обязателен.
func (uc *UseCase) resolveResource(ctx context.Context, req *Request) error {
	if req.StaffID == nil {
		hasStaff, err := uc.catalogRepo.HasActiveStaff(ctx, req.BusinessID)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to check staff of business=%s: %v", req.BusinessID, err)
			return fmt.Errorf("%w: failed to check staff: %v", ErrInternal, err)
		}
		if hasStaff {
			uc.logger.Warn("GetAvailableSlots: business=%s has staff, none selected", req.BusinessID)
			return ErrStaffRequired
		}
		return nil
	}

	staff, err := uc.catalogRepo.GetStaff(ctx, req.BusinessID, *req.StaffID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			uc.logger.Warn("GetAvailableSlots: staff id=%s not found", *req.StaffID)
			return ErrStaffNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get staff id=%s: %v", *req.StaffID, err)
		return fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if !staff.IsActive {
		uc.logger.Warn("GetAvailableSlots: staff id=%s is inactive", staff.ID)
		return ErrStaffInactive
	}
	return nil
}

// bookedIntervals переводит записи в минуты локального дня
func bookedIntervals(appointments []*domain.Appointment, day time.Time, loc *time.Location) []availability.Interval {
	booked := make([]availability.Interval, 0, len(appointments))
	for _, a := range appointments {
		if !a.OccupiesSlot() {
			continue
		}
		if iv, ok := availability.IntervalWithinDay(a.StartTime, a.EndTime, day, loc); ok {
			booked = append(booked, iv)
		}
	}
	return booked
}

func staffLabel(req *Request) string {
	if req.StaffID == nil {
		return "business"
	}
	return req.StaffID.String()
}
