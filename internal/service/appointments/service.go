package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

// Service сервис для работы с записями со стороны владельца бизнеса
type Service struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	txManager       TransactionManager
	defaultLocation *time.Location
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	defaultLocation *time.Location,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		txManager:       txManager,
		defaultLocation: defaultLocation,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Доступно только владельцу бизнеса, к которому относится запись
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%s for user=%s", id, userID)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%s not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	business, err := s.checkOwnerAccess(ctx, appointment.BusinessID, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%s", id)
	return models.FromDomainAppointment(appointment, business.Location(s.defaultLocation)), nil
}

// GetBusinessAppointments получает записи бизнеса с фильтрацией
// по сотруднику, периоду, статусу и включению неактивных записей
func (s *Service) GetBusinessAppointments(ctx context.Context, req *models.GetBusinessAppointmentsRequest) (*models.AppointmentListResponse, error) {
	var details []string
	if req.StaffID != nil {
		details = append(details, "staff="+req.StaffID.String())
	}
	if req.From != nil && req.To != nil {
		details = append(details, fmt.Sprintf("period=%s to %s", req.From.Format(time.RFC3339), req.To.Format(time.RFC3339)))
	}
	if req.Status != nil {
		details = append(details, "status="+*req.Status)
	}
	if req.IncludeInactive {
		details = append(details, "includeInactive=true")
	}
	s.logger.Info("GetBusinessAppointments: business=%s, user=%s %s", req.BusinessID, req.UserID, strings.Join(details, ", "))

	business, err := s.checkOwnerAccess(ctx, req.BusinessID, req.UserID)
	if err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBusinessAppointments: invalid filter for business=%s: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	appointments, err := s.appointmentRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBusinessAppointments: repository error for business=%s: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessAppointments: fetched %d appointments for business=%s", len(appointments), req.BusinessID)
	return models.FromDomainAppointmentList(appointments, business.Location(s.defaultLocation)), nil
}

// UpdateStatus меняет статус записи
// Доступно только владельцу бизнеса; переходы ограничены domain.Appointment.CanTransitionTo
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%s to status=%s by user=%s", id, req.Status, req.UserID)

	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%s", req.Status, id)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var (
		result *domain.Appointment
		loc    *time.Location
	)

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		appointment, err := s.appointmentRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				s.logger.Warn("UpdateStatus: appointment id=%s not found", id)
				return ErrAppointmentNotFound
			}
			s.logger.Error("UpdateStatus: repository error for appointment id=%s: %v", id, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		business, err := s.checkOwnerAccess(txCtx, appointment.BusinessID, req.UserID)
		if err != nil {
			return err
		}
		loc = business.Location(s.defaultLocation)

		if !appointment.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: appointment id=%s cannot move from %s to %s", id, appointment.Status, newStatus)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, appointment.Status, newStatus)
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, id, newStatus); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			s.logger.Error("UpdateStatus: repository error for appointment id=%s: %v", id, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		appointment.Status = newStatus
		result = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%s to status=%s", id, newStatus)
	return models.FromDomainAppointment(result, loc), nil
}

// checkOwnerAccess проверяет, что пользователь владелец бизнеса
func (s *Service) checkOwnerAccess(ctx context.Context, businessID uuid.UUID, userID uuid.UUID) (*domain.Business, error) {
	business, err := s.catalogRepo.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrBusinessNotFound) {
			s.logger.Warn("checkOwnerAccess: business id=%s not found", businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("checkOwnerAccess: failed to get business id=%s: %v", businessID, err)
		return nil, fmt.Errorf("%w: checkOwnerAccess - failed to get business: %v", ErrInternal, err)
	}

	if !business.IsOwnedBy(userID) {
		s.logger.Warn("checkOwnerAccess: user=%s is not the owner of business=%s", userID, businessID)
		return nil, ErrAccessDenied
	}

	return business, nil
}
