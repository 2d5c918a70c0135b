package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	hoursRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/hours"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// UseCase use case для создания записи
type UseCase struct {
	catalogRepo     CatalogRepository
	hoursRepo       HoursRepository
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	metrics         MetricsRecorder
	defaultLocation *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	catalogRepo CatalogRepository,
	hoursRepo HoursRepository,
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	metrics MetricsRecorder,
	defaultLocation *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		catalogRepo:     catalogRepo,
		hoursRepo:       hoursRepo,
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		metrics:         metrics,
		defaultLocation: defaultLocation,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// booking подготовленные данные записи после проверок, не требующих транзакции
type booking struct {
	business *domain.Business
	service  *domain.Service
	loc      *time.Location
	day      time.Time
	proposed availability.Interval
}

// Execute выполняет use case создания записи.
// Проверка пересечений повторяется в сериализуемой транзакции непосредственно перед вставкой.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: business=%s, service=%s, staff=%s, date=%s, time=%s",
		req.BusinessID, req.ServiceID, staffLabel(req), req.Date.Format(domain.DateFormat), req.StartTime)

	// 1-7. Проверки входных данных, каталога и времени
	b, err := uc.prepare(ctx, req, true)
	if err == nil {
		err = b.fitsDay()
	}
	if err != nil {
		uc.metrics.RecordBookingAttempt(attemptResult(err))
		return nil, err
	}

	var result *domain.Appointment

	// 8. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Повторная проверка часов и пересечений под блокировкой (FOR UPDATE)
		if err := uc.checkAvailability(txCtx, req, b); err != nil {
			return err
		}

		// 8.2. Находим или создаем клиента по телефону.
		// Имя в записи берется из запроса: один телефон может быть у нескольких людей.
		customer, err := uc.appointmentRepo.GetOrCreateCustomer(txCtx, req.BusinessID,
			strings.TrimSpace(req.CustomerName), req.CustomerPhone)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrConcurrentBooking) {
				return err
			}
			uc.logger.Error("CreateBooking: failed to get or create customer: %v", err)
			return fmt.Errorf("%w: failed to get or create customer: %v", ErrInternal, err)
		}

		// 8.3. Создаем запись в статусе pending
		appointment := &domain.Appointment{
			BusinessID:    req.BusinessID,
			ServiceID:     req.ServiceID,
			StaffID:       req.StaffID,
			CustomerID:    &customer.ID,
			CustomerName:  strings.TrimSpace(req.CustomerName),
			CustomerPhone: req.CustomerPhone,
			StartTime:     availability.AtMinute(b.day, b.proposed.StartMinute, b.loc),
			EndTime:       availability.AtMinute(b.day, b.proposed.EndMinute, b.loc),
			Status:        domain.StatusPending,
			Notes:         req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrConcurrentBooking) {
				return err
			}
			uc.logger.Error("CreateBooking: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		// Параллельная транзакция успела занять это время
		if errors.Is(err, appointmentRepo.ErrConcurrentBooking) || errors.Is(err, txmanager.ErrSerializationFailure) {
			uc.logger.Warn("CreateBooking: concurrent booking detected for business=%s, staff=%s: %v",
				req.BusinessID, staffLabel(req), err)
			err = ErrSlotNotAvailable
		} else if !isKnownError(err) {
			uc.logger.Error("CreateBooking: transaction failed: %v", err)
			err = fmt.Errorf("%w: %v", ErrInternal, err)
		}
		uc.metrics.RecordBookingAttempt(attemptResult(err))
		return nil, err
	}

	uc.metrics.RecordBookingAttempt(metrics.BookingResultCreated)
	uc.logger.Info("CreateBooking: successfully created appointment id=%s", result.ID)

	return &Response{
		ID:              result.ID,
		BusinessID:      result.BusinessID,
		ServiceID:       result.ServiceID,
		StaffID:         result.StaffID,
		CustomerID:      result.CustomerID,
		CustomerName:    result.CustomerName,
		CustomerPhone:   result.CustomerPhone,
		StartTime:       result.StartTime,
		EndTime:         result.EndTime,
		DurationMinutes: b.proposed.Duration(),
		Timezone:        b.loc.String(),
		Status:          string(result.Status),
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// Check проверяет, можно ли записаться на указанное время, ничего не сохраняя.
// Конфликт и нерабочее время возвращаются в ответе, а не ошибкой.
func (uc *UseCase) Check(ctx context.Context, req *Request) (*CheckResponse, error) {
	uc.logger.Info("CheckBooking: business=%s, service=%s, staff=%s, date=%s, time=%s",
		req.BusinessID, req.ServiceID, staffLabel(req), req.Date.Format(domain.DateFormat), req.StartTime)

	b, err := uc.prepare(ctx, req, false)
	if err != nil {
		return nil, err
	}

	start, err := types.NewTimeStringFromMinutes(b.proposed.StartMinute)
	if err != nil {
		return nil, fmt.Errorf("%w: format start: %v", ErrInternal, err)
	}
	// Окончание после полуночи показываем временем следующего дня
	endMinute := b.proposed.EndMinute
	if endMinute > availability.MinutesPerDay {
		endMinute -= availability.MinutesPerDay
	}
	end, err := types.NewTimeStringFromMinutes(endMinute)
	if err != nil {
		return nil, fmt.Errorf("%w: format end: %v", ErrInternal, err)
	}

	resp := &CheckResponse{
		Available: true,
		StartTime: start,
		EndTime:   end,
		Timezone:  b.loc.String(),
	}

	err = b.fitsDay()
	if err == nil {
		err = uc.checkAvailability(ctx, req, b)
	}
	switch {
	case err == nil:
	case errors.Is(err, ErrSlotNotAvailable):
		resp.Available = false
		resp.Reason = ReasonConflict
	case errors.Is(err, ErrOutsideWorkingHours):
		resp.Available = false
		resp.Reason = ReasonOutsideHours
	default:
		return nil, err
	}

	return resp, nil
}

// prepare выполняет проверки, не требующие транзакции
func (uc *UseCase) prepare(ctx context.Context, req *Request, requireCustomer bool) (*booking, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req, requireCustomer); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем бизнес
	business, err := uc.catalogRepo.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrBusinessNotFound) {
			uc.logger.Warn("CreateBooking: business id=%s not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateBooking: failed to get business id=%s: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	loc := business.Location(uc.defaultLocation)
	day := localDay(req.Date, loc)

	// 4. Получаем услугу
	service, err := uc.catalogRepo.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 5. Проверяем ресурс
	if err := uc.resolveResource(ctx, req); err != nil {
		return nil, err
	}

	// 6. Валидация даты
	if err := validateDate(day, now, business.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 7. Интервал записи в минутах дня и проверка, что время не прошло
	startMinute, err := req.StartTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	proposed := availability.Interval{
		StartMinute: startMinute,
		EndMinute:   startMinute + service.DurationMinutes,
	}
	if err := validateStartNotPassed(day, startMinute, now); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	return &booking{
		business: business,
		service:  service,
		loc:      loc,
		day:      day,
		proposed: proposed,
	}, nil
}

// fitsDay запись должна закончиться не позже полуночи того же дня
func (b *booking) fitsDay() error {
	if b.proposed.EndMinute > availability.MinutesPerDay {
		return fmt.Errorf("%w: %s ends after midnight", ErrOutsideWorkingHours, b.proposed)
	}
	return nil
}

// checkAvailability проверяет интервал против рабочих часов и занятых интервалов ресурса
func (uc *UseCase) checkAvailability(ctx context.Context, req *Request, b *booking) error {
	hours, err := uc.hoursRepo.GetEffective(ctx, req.BusinessID, req.StaffID, b.day.Weekday())
	if err != nil {
		if !errors.Is(err, hoursRepo.ErrHoursNotFound) {
			uc.logger.Error("CreateBooking: failed to get working hours: %v", err)
			return fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
		}
		hours = domain.DefaultWorkingHours(req.BusinessID, req.StaffID, b.day.Weekday())
		uc.logger.Info("CreateBooking: using default working hours for business=%s, weekday=%s",
			req.BusinessID, b.day.Weekday())
	}

	dayStart, dayEnd := availability.DayBounds(b.day, b.loc)
	appointments, err := uc.appointmentRepo.ListBooked(ctx, req.BusinessID, req.StaffID, dayStart, dayEnd)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrConcurrentBooking) {
			return err
		}
		uc.logger.Error("CreateBooking: failed to get appointments: %v", err)
		return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	err = availability.ValidateBooking(b.proposed, hours.ToAvailability(), bookedIntervals(appointments, b.day, b.loc))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, availability.ErrConflict):
		uc.logger.Warn("CreateBooking: slot not available: %v", err)
		return fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
	case errors.Is(err, availability.ErrOutsideHours):
		uc.logger.Warn("CreateBooking: outside working hours: %v", err)
		return fmt.Errorf("%w: %v", ErrOutsideWorkingHours, err)
	default:
		uc.logger.Error("CreateBooking: availability engine rejected input: %v", err)
		return fmt.Errorf("%w: validate booking: %v", ErrInternal, err)
	}
}

// resolveResource проверяет выбранного сотрудника
func (uc *UseCase) resolveResource(ctx context.Context, req *Request) error {
	if req.StaffID == nil {
		hasStaff, err := uc.catalogRepo.HasActiveStaff(ctx, req.BusinessID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check staff of business=%s: %v", req.BusinessID, err)
			return fmt.Errorf("%w: failed to check staff: %v", ErrInternal, err)
		}
		if hasStaff {
			return ErrStaffRequired
		}
		return nil
	}

	staff, err := uc.catalogRepo.GetStaff(ctx, req.BusinessID, *req.StaffID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			uc.logger.Warn("CreateBooking: staff id=%s not found", *req.StaffID)
			return ErrStaffNotFound
		}
		uc.logger.Error("CreateBooking: failed to get staff id=%s: %v", *req.StaffID, err)
		return fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	if !staff.IsActive {
		return ErrStaffInactive
	}
	return nil
}

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

// attemptResult метка метрики для исхода попытки записи
func attemptResult(err error) string {
	switch {
	case err == nil:
		return metrics.BookingResultCreated
	case errors.Is(err, ErrSlotNotAvailable):
		return metrics.BookingResultConflict
	case errors.Is(err, ErrOutsideWorkingHours):
		return metrics.BookingResultOutsideHours
	case errors.Is(err, ErrInternal):
		return metrics.BookingResultError
	default:
		return metrics.BookingResultRejected
	}
}

// isKnownError ошибки usecase, которые возвращаются клиенту как есть
func isKnownError(err error) bool {
	for _, known := range []error{
		ErrSlotNotAvailable, ErrOutsideWorkingHours, ErrInternal, ErrInvalidInput,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}

func staffLabel(req *Request) string {
	if req.StaffID == nil {
		return "business"
	}
	return req.StaffID.String()
}
