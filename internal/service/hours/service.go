package hours

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SchedulingService/internal/service/hours/models"
)

// Service сервис управления рабочими часами
type Service struct {
	hoursRepo       HoursRepository
	catalogRepo     CatalogRepository
	cache           CacheInvalidator
	txManager       TransactionManager
	defaultLocation *time.Location
	logger          Logger
}

// NewService создает новый экземпляр сервиса рабочих часов.
// cache может быть nil, если Redis отключен.
func NewService(
	hoursRepo HoursRepository,
	catalogRepo CatalogRepository,
	cache CacheInvalidator,
	txManager TransactionManager,
	defaultLocation *time.Location,
	logger Logger,
) *Service {
	return &Service{
		hoursRepo:       hoursRepo,
		catalogRepo:     catalogRepo,
		cache:           cache,
		txManager:       txManager,
		defaultLocation: defaultLocation,
		logger:          logger,
	}
}

// GetWeek возвращает действующие часы ресурса на 7 дней.
// Публичный метод. Для сотрудника дни без своих настроек берутся у бизнеса,
// дни без настроек вовсе - из значений по умолчанию.
func (s *Service) GetWeek(ctx context.Context, businessID uuid.UUID, staffID *uuid.UUID) (*models.WeekResponse, error) {
	s.logger.Info("GetWeek: business=%s, staff=%v", businessID, staffID)

	business, err := s.getBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if err := s.checkStaff(ctx, businessID, staffID); err != nil {
		return nil, err
	}

	businessDays, err := s.hoursRepo.ListForResource(ctx, businessID, nil)
	if err != nil {
		s.logger.Error("GetWeek: repository error for business=%s: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetWeek - repository error: %v", ErrInternal, err)
	}

	var staffDays []*domain.WorkingHours
	if staffID != nil {
		staffDays, err = s.hoursRepo.ListForResource(ctx, businessID, staffID)
		if err != nil {
			s.logger.Error("GetWeek: repository error for staff=%s: %v", *staffID, err)
			return nil, fmt.Errorf("%w: GetWeek - repository error: %v", ErrInternal, err)
		}
	}

	byBusiness := indexByWeekday(businessDays)
	byStaff := indexByWeekday(staffDays)

	resp := &models.WeekResponse{
		BusinessID: businessID,
		StaffID:    staffID,
		Timezone:   business.Location(s.defaultLocation).String(),
		Days:       make([]models.DayResponse, 0, len(models.WeekOrder)),
	}
	for _, wd := range models.WeekOrder {
		switch {
		case byStaff[wd] != nil:
			resp.Days = append(resp.Days, models.FromDomainHours(byStaff[wd], models.SourceStaff))
		case byBusiness[wd] != nil:
			resp.Days = append(resp.Days, models.FromDomainHours(byBusiness[wd], models.SourceBusiness))
		default:
			resp.Days = append(resp.Days, models.FromDomainHours(
				domain.DefaultWorkingHours(businessID, staffID, wd), models.SourceDefault))
		}
	}

	return resp, nil
}

// UpdateWeek сохраняет часы ресурса в одной транзакции.
// Доступно только владельцу бизнеса.
func (s *Service) UpdateWeek(ctx context.Context, req *models.UpdateWeekRequest) (*models.WeekResponse, error) {
	s.logger.Info("UpdateWeek: business=%s, staff=%v, days=%d by user=%s",
		req.BusinessID, req.StaffID, len(req.Days), req.UserID)

	// 1. Валидируем входные данные
	if len(req.Days) == 0 {
		return nil, fmt.Errorf("%w: at least one day is required", ErrInvalidInput)
	}

	days, err := req.ToDomainHours()
	if err != nil {
		s.logger.Warn("UpdateWeek: invalid request: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	for _, wh := range days {
		if err := wh.ToAvailability().Validate(); err != nil {
			s.logger.Warn("UpdateWeek: invalid window for %s: %v", wh.Weekday, err)
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidInput, models.FormatWeekday(wh.Weekday), err)
		}
	}

	// 2. Проверяем права доступа (только владелец бизнеса)
	business, err := s.getBusiness(ctx, req.BusinessID)
	if err != nil {
		return nil, err
	}
	if !business.IsOwnedBy(req.UserID) {
		s.logger.Warn("UpdateWeek: user=%s is not the owner of business=%s", req.UserID, req.BusinessID)
		return nil, ErrAccessDenied
	}

	// 3. Проверяем сотрудника
	if err := s.checkStaff(ctx, req.BusinessID, req.StaffID); err != nil {
		return nil, err
	}

	// 4. Сохраняем все дни в одной транзакции
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, wh := range days {
			if _, err := s.hoursRepo.Upsert(txCtx, wh); err != nil {
				s.logger.Error("UpdateWeek: failed to upsert %s: %v", wh.Weekday, err)
				return fmt.Errorf("%w: UpdateWeek - repository error: %v", ErrInternal, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 5. Сбрасываем кэш после коммита
	if s.cache != nil {
		s.cache.Invalidate(ctx, req.BusinessID)
	}

	s.logger.Info("UpdateWeek: saved %d days for business=%s", len(days), req.BusinessID)
	return s.GetWeek(ctx, req.BusinessID, req.StaffID)
}

func (s *Service) getBusiness(ctx context.Context, businessID uuid.UUID) (*domain.Business, error) {
	business, err := s.catalogRepo.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrBusinessNotFound) {
			s.logger.Warn("getBusiness: business id=%s not found", businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("getBusiness: failed to get business id=%s: %v", businessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	return business, nil
}

func (s *Service) checkStaff(ctx context.Context, businessID uuid.UUID, staffID *uuid.UUID) error {
	if staffID == nil {
		return nil
	}
	if _, err := s.catalogRepo.GetStaff(ctx, businessID, *staffID); err != nil {
		if errors.Is(err, catalogRepo.ErrStaffNotFound) {
			s.logger.Warn("checkStaff: staff id=%s not found in business=%s", *staffID, businessID)
			return ErrStaffNotFound
		}
		s.logger.Error("checkStaff: failed to get staff id=%s: %v", *staffID, err)
		return fmt.Errorf("%w: failed to get staff: %v", ErrInternal, err)
	}
	return nil
}

func indexByWeekday(days []*domain.WorkingHours) map[time.Weekday]*domain.WorkingHours {
	result := make(map[time.Weekday]*domain.WorkingHours, len(days))
	for _, wh := range days {
		result[wh.Weekday] = wh
	}
	return result
}
