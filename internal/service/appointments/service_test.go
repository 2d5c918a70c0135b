package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// ── Mock репозитории ──

type mockAppointmentRepo struct {
	appointments map[uuid.UUID]*domain.Appointment
	lastFilter   domain.AppointmentsFilter
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Appointment, error) {
	if a, ok := m.appointments[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (m *mockAppointmentRepo) ListWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	m.lastFilter = filter
	var result []*domain.Appointment
	for _, a := range m.appointments {
		if a.BusinessID == filter.BusinessID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockAppointmentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.AppointmentStatus) error {
	a, ok := m.appointments[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Status = status
	return nil
}

type mockCatalogRepo struct {
	businesses map[uuid.UUID]*domain.Business
}

func (m *mockCatalogRepo) GetBusiness(_ context.Context, id uuid.UUID) (*domain.Business, error) {
	if b, ok := m.businesses[id]; ok {
		return b, nil
	}
	return nil, catalogRepo.ErrBusinessNotFound
}

type mockTxManager struct{ calls int }

func (m *mockTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

// ── Тестовое окружение ──

type testEnv struct {
	svc         *Service
	repo        *mockAppointmentRepo
	tx          *mockTxManager
	ownerID     uuid.UUID
	business    *domain.Business
	appointment *domain.Appointment
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		repo:    &mockAppointmentRepo{appointments: make(map[uuid.UUID]*domain.Appointment)},
		tx:      &mockTxManager{},
		ownerID: uuid.New(),
	}
	env.business = &domain.Business{ID: uuid.New(), OwnerID: env.ownerID, Timezone: "Europe/Istanbul"}
	env.appointment = &domain.Appointment{
		ID:           uuid.New(),
		BusinessID:   env.business.ID,
		ServiceID:    uuid.New(),
		CustomerName: "Ayse",
		StartTime:    time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC),
		EndTime:      time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
		Status:       domain.StatusPending,
	}
	env.repo.appointments[env.appointment.ID] = env.appointment

	catalog := &mockCatalogRepo{businesses: map[uuid.UUID]*domain.Business{env.business.ID: env.business}}
	env.svc = NewService(env.repo, catalog, env.tx, time.UTC, logger.NewNop())
	return env
}

func TestService_GetByID(t *testing.T) {
	env := setup(t)

	t.Run("owner sees local times", func(t *testing.T) {
		resp, err := env.svc.GetByID(context.Background(), env.appointment.ID, env.ownerID)
		require.NoError(t, err)
		assert.Equal(t, "2025-03-10", resp.Date)
		assert.Equal(t, "10:00", resp.StartTime)
		assert.Equal(t, "11:00", resp.EndTime)
		assert.Equal(t, 60, resp.DurationMinutes)
		assert.Equal(t, "Europe/Istanbul", resp.Timezone)
	})

	t.Run("other user", func(t *testing.T) {
		_, err := env.svc.GetByID(context.Background(), env.appointment.ID, uuid.New())
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := env.svc.GetByID(context.Background(), uuid.New(), env.ownerID)
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestService_GetBusinessAppointments(t *testing.T) {
	env := setup(t)

	t.Run("cancelled status filter includes inactive", func(t *testing.T) {
		resp, err := env.svc.GetBusinessAppointments(context.Background(), &models.GetBusinessAppointmentsRequest{
			UserID:     env.ownerID,
			BusinessID: env.business.ID,
			Status:     ptr.Ptr("cancelled"),
		})
		require.NoError(t, err)
		assert.Len(t, resp.Appointments, 1)
		assert.True(t, env.repo.lastFilter.IncludeInactive)
		require.NotNil(t, env.repo.lastFilter.Status)
		assert.Equal(t, domain.StatusCancelled, *env.repo.lastFilter.Status)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := env.svc.GetBusinessAppointments(context.Background(), &models.GetBusinessAppointmentsRequest{
			UserID:     env.ownerID,
			BusinessID: env.business.ID,
			Status:     ptr.Ptr("done"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("inverted period", func(t *testing.T) {
		from := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 0, -1)
		_, err := env.svc.GetBusinessAppointments(context.Background(), &models.GetBusinessAppointmentsRequest{
			UserID:     env.ownerID,
			BusinessID: env.business.ID,
			From:       &from,
			To:         &to,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("not owner", func(t *testing.T) {
		_, err := env.svc.GetBusinessAppointments(context.Background(), &models.GetBusinessAppointmentsRequest{
			UserID:     uuid.New(),
			BusinessID: env.business.ID,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		other := &domain.Business{ID: uuid.New(), OwnerID: env.ownerID}
		env.svc.catalogRepo.(*mockCatalogRepo).businesses[other.ID] = other

		resp, err := env.svc.GetBusinessAppointments(context.Background(), &models.GetBusinessAppointmentsRequest{
			UserID:     env.ownerID,
			BusinessID: other.ID,
		})
		require.NoError(t, err)
		assert.NotNil(t, resp.Appointments)
		assert.Empty(t, resp.Appointments)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	t.Run("pending to confirmed", func(t *testing.T) {
		env := setup(t)

		resp, err := env.svc.UpdateStatus(context.Background(), env.appointment.ID,
			&models.UpdateStatusRequest{UserID: env.ownerID, Status: "confirmed"})
		require.NoError(t, err)
		assert.Equal(t, "confirmed", resp.Status)
		assert.Equal(t, domain.StatusConfirmed, env.appointment.Status)
		assert.Equal(t, 1, env.tx.calls)
	})

	t.Run("cancelled is final", func(t *testing.T) {
		env := setup(t)
		env.appointment.Status = domain.StatusCancelled

		_, err := env.svc.UpdateStatus(context.Background(), env.appointment.ID,
			&models.UpdateStatusRequest{UserID: env.ownerID, Status: "confirmed"})
		assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	})

	t.Run("unknown status", func(t *testing.T) {
		env := setup(t)

		_, err := env.svc.UpdateStatus(context.Background(), env.appointment.ID,
			&models.UpdateStatusRequest{UserID: env.ownerID, Status: "completed"})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Zero(t, env.tx.calls)
	})

	t.Run("not owner", func(t *testing.T) {
		env := setup(t)

		_, err := env.svc.UpdateStatus(context.Background(), env.appointment.ID,
			&models.UpdateStatusRequest{UserID: uuid.New(), Status: "cancelled"})
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Equal(t, domain.StatusPending, env.appointment.Status)
	})
}
