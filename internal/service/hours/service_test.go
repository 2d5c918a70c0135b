package hours

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SchedulingService/internal/service/hours/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// ── Mock репозитории ──

type hoursKey struct {
	staff   uuid.UUID
	weekday time.Weekday
}

type mockHoursRepo struct {
	rows      map[hoursKey]*domain.WorkingHours
	upsertErr error
}

func newMockHoursRepo() *mockHoursRepo {
	return &mockHoursRepo{rows: make(map[hoursKey]*domain.WorkingHours)}
}

func keyOf(staffID *uuid.UUID, wd time.Weekday) hoursKey {
	k := hoursKey{weekday: wd}
	if staffID != nil {
		k.staff = *staffID
	}
	return k
}

func (m *mockHoursRepo) ListForResource(_ context.Context, _ uuid.UUID, staffID *uuid.UUID) ([]*domain.WorkingHours, error) {
	var result []*domain.WorkingHours
	for k, wh := range m.rows {
		if k == keyOf(staffID, k.weekday) {
			result = append(result, wh)
		}
	}
	return result, nil
}

func (m *mockHoursRepo) Upsert(_ context.Context, wh *domain.WorkingHours) (*domain.WorkingHours, error) {
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	wh.UpdatedAt = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	m.rows[keyOf(wh.StaffID, wh.Weekday)] = wh
	return wh, nil
}

type mockCatalogRepo struct {
	business *domain.Business
	staff    map[uuid.UUID]*domain.Staff
}

func (m *mockCatalogRepo) GetBusiness(_ context.Context, id uuid.UUID) (*domain.Business, error) {
	if m.business.ID == id {
		return m.business, nil
	}
	return nil, catalogRepo.ErrBusinessNotFound
}

func (m *mockCatalogRepo) GetStaff(_ context.Context, _, staffID uuid.UUID) (*domain.Staff, error) {
	if s, ok := m.staff[staffID]; ok {
		return s, nil
	}
	return nil, catalogRepo.ErrStaffNotFound
}

type mockCache struct{ invalidated []uuid.UUID }

func (m *mockCache) Invalidate(_ context.Context, businessID uuid.UUID) {
	m.invalidated = append(m.invalidated, businessID)
}

type mockTxManager struct{}

func (mockTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ── Тестовое окружение ──

type testEnv struct {
	svc     *Service
	repo    *mockHoursRepo
	cache   *mockCache
	ownerID uuid.UUID
	bizID   uuid.UUID
	staffID uuid.UUID
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		repo:    newMockHoursRepo(),
		cache:   &mockCache{},
		ownerID: uuid.New(),
		bizID:   uuid.New(),
		staffID: uuid.New(),
	}
	catalog := &mockCatalogRepo{
		business: &domain.Business{ID: env.bizID, OwnerID: env.ownerID, Timezone: "Europe/Istanbul"},
		staff:    map[uuid.UUID]*domain.Staff{env.staffID: {ID: env.staffID, BusinessID: env.bizID, IsActive: true}},
	}
	env.svc = NewService(env.repo, catalog, env.cache, mockTxManager{}, time.UTC, logger.NewNop())
	return env
}

func TestService_GetWeek_Defaults(t *testing.T) {
	env := setup(t)

	resp, err := env.svc.GetWeek(context.Background(), env.bizID, nil)
	require.NoError(t, err)
	require.Len(t, resp.Days, 7)

	assert.Equal(t, "Europe/Istanbul", resp.Timezone)
	assert.Equal(t, "monday", resp.Days[0].Weekday)
	assert.True(t, resp.Days[0].IsOpen)
	assert.Equal(t, "09:00", resp.Days[0].StartTime)
	assert.Equal(t, "17:00", resp.Days[0].EndTime)
	assert.Equal(t, models.SourceDefault, resp.Days[0].Source)
	assert.Equal(t, "sunday", resp.Days[6].Weekday)
	assert.False(t, resp.Days[6].IsOpen)
}

func TestService_GetWeek_StaffOverridesBusiness(t *testing.T) {
	env := setup(t)
	env.repo.rows[keyOf(nil, time.Monday)] = &domain.WorkingHours{
		BusinessID: env.bizID, Weekday: time.Monday, IsOpen: true, StartMinute: 600, EndMinute: 1200,
	}
	env.repo.rows[keyOf(nil, time.Tuesday)] = &domain.WorkingHours{
		BusinessID: env.bizID, Weekday: time.Tuesday, IsOpen: true, StartMinute: 600, EndMinute: 1200,
	}
	env.repo.rows[keyOf(&env.staffID, time.Monday)] = &domain.WorkingHours{
		BusinessID: env.bizID, StaffID: &env.staffID, Weekday: time.Monday, IsOpen: false,
	}

	resp, err := env.svc.GetWeek(context.Background(), env.bizID, &env.staffID)
	require.NoError(t, err)

	assert.Equal(t, models.SourceStaff, resp.Days[0].Source)
	assert.False(t, resp.Days[0].IsOpen)
	assert.Equal(t, models.SourceBusiness, resp.Days[1].Source)
	assert.Equal(t, "10:00", resp.Days[1].StartTime)
	assert.Equal(t, "20:00", resp.Days[1].EndTime)
	assert.Equal(t, models.SourceDefault, resp.Days[2].Source)
}

func TestService_GetWeek_UnknownStaff(t *testing.T) {
	env := setup(t)

	_, err := env.svc.GetWeek(context.Background(), env.bizID, ptr.Ptr(uuid.New()))
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestService_UpdateWeek(t *testing.T) {
	env := setup(t)

	resp, err := env.svc.UpdateWeek(context.Background(), &models.UpdateWeekRequest{
		UserID:     env.ownerID,
		BusinessID: env.bizID,
		Days: []models.DayRequest{
			{Weekday: "Monday", IsOpen: true, StartTime: "08:00", EndTime: "24:00"},
			{Weekday: "sunday", IsOpen: false},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "08:00", resp.Days[0].StartTime)
	assert.Equal(t, "24:00", resp.Days[0].EndTime)
	assert.Equal(t, models.SourceBusiness, resp.Days[0].Source)
	assert.NotNil(t, resp.Days[0].UpdatedAt)
	assert.Equal(t, models.SourceBusiness, resp.Days[6].Source)
	assert.Equal(t, []uuid.UUID{env.bizID}, env.cache.invalidated)

	saved := env.repo.rows[keyOf(nil, time.Monday)]
	require.NotNil(t, saved)
	assert.Equal(t, 480, saved.StartMinute)
	assert.Equal(t, 1440, saved.EndMinute)
}

func TestService_UpdateWeek_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(env *testEnv, req *models.UpdateWeekRequest)
		wantErr error
	}{
		{
			name:    "not owner",
			modify:  func(_ *testEnv, req *models.UpdateWeekRequest) { req.UserID = uuid.New() },
			wantErr: ErrAccessDenied,
		},
		{
			name: "start after end",
			modify: func(_ *testEnv, req *models.UpdateWeekRequest) {
				req.Days[0].StartTime, req.Days[0].EndTime = "18:00", "09:00"
			},
			wantErr: availability.ErrInvalidConfiguration,
		},
		{
			name: "unknown weekday",
			modify: func(_ *testEnv, req *models.UpdateWeekRequest) {
				req.Days[0].Weekday = "funday"
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "duplicate weekday",
			modify: func(_ *testEnv, req *models.UpdateWeekRequest) {
				req.Days = append(req.Days, req.Days[0])
			},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "no days",
			modify:  func(_ *testEnv, req *models.UpdateWeekRequest) { req.Days = nil },
			wantErr: ErrInvalidInput,
		},
		{
			name: "foreign staff",
			modify: func(_ *testEnv, req *models.UpdateWeekRequest) {
				req.StaffID = ptr.Ptr(uuid.New())
			},
			wantErr: ErrStaffNotFound,
		},
		{
			name: "storage failure",
			modify: func(env *testEnv, _ *models.UpdateWeekRequest) {
				env.repo.upsertErr = errors.New("connection reset")
			},
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setup(t)
			req := &models.UpdateWeekRequest{
				UserID:     env.ownerID,
				BusinessID: env.bizID,
				Days:       []models.DayRequest{{Weekday: "monday", IsOpen: true, StartTime: "09:00", EndTime: "18:00"}},
			}
			tt.modify(env, req)

			_, err := env.svc.UpdateWeek(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, env.cache.invalidated)
		})
	}
}
