package create_booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type testEnv struct {
	uc           *UseCase
	catalog      *fakeCatalog
	hours        *fakeHours
	appointments *fakeAppointments
	tx           *fakeTxManager
	metrics      *fakeMetrics
	business     *domain.Business
	service      *domain.Service
	loc          *time.Location
}

// 2025-03-10 is a Monday
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func setup(t *testing.T, now time.Time) *testEnv {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)

	env := &testEnv{
		catalog:      newFakeCatalog(),
		hours:        &fakeHours{hours: make(map[time.Weekday]*domain.WorkingHours)},
		appointments: newFakeAppointments(),
		tx:           &fakeTxManager{},
		metrics:      &fakeMetrics{},
		loc:          loc,
	}
	env.business = &domain.Business{
		ID:                     uuid.New(),
		Timezone:               "Europe/Istanbul",
		SlotGranularityMinutes: 30,
	}
	env.service = &domain.Service{ID: uuid.New(), BusinessID: env.business.ID, DurationMinutes: 60}
	env.catalog.businesses[env.business.ID] = env.business
	env.catalog.services[env.service.ID] = env.service
	env.hours.hours[time.Monday] = &domain.WorkingHours{
		BusinessID:  env.business.ID,
		Weekday:     time.Monday,
		IsOpen:      true,
		StartMinute: 9 * 60,
		EndMinute:   17 * 60,
	}

	env.uc = NewUseCase(env.catalog, env.hours, env.appointments, env.tx, env.metrics, time.UTC, nopLogger{})
	env.uc.timeProvider = fixedTime{now: now}
	return env
}

func (e *testEnv) request(start string) *Request {
	return &Request{
		BusinessID:    e.business.ID,
		ServiceID:     e.service.ID,
		Date:          monday,
		StartTime:     types.TimeString(start),
		CustomerName:  "  Ayse Yilmaz ",
		CustomerPhone: "+905551234567",
	}
}

func (e *testEnv) book(start, end int) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, e.loc)
	e.appointments.appointments = append(e.appointments.appointments, &domain.Appointment{
		ID:        uuid.New(),
		Status:    domain.StatusConfirmed,
		StartTime: day.Add(time.Duration(start) * time.Minute),
		EndTime:   day.Add(time.Duration(end) * time.Minute),
	})
}

var sunday = time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)

func TestExecute_Success(t *testing.T) {
	env := setup(t, sunday)

	resp, err := env.uc.Execute(context.Background(), env.request("10:00"))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, "Ayse Yilmaz", resp.CustomerName)
	assert.Equal(t, "Europe/Istanbul", resp.Timezone)
	assert.True(t, resp.StartTime.Equal(time.Date(2025, 3, 10, 10, 0, 0, 0, env.loc)))
	assert.True(t, resp.EndTime.Equal(time.Date(2025, 3, 10, 11, 0, 0, 0, env.loc)))
	require.NotNil(t, resp.CustomerID)

	assert.Equal(t, 1, env.tx.calls)
	assert.Equal(t, 1, env.appointments.inTxCalls)
	assert.Equal(t, []string{metrics.BookingResultCreated}, env.metrics.results)
}

func TestExecute_ReusesCustomerByPhone(t *testing.T) {
	env := setup(t, sunday)

	first, err := env.uc.Execute(context.Background(), env.request("10:00"))
	require.NoError(t, err)

	// same phone, another person
	req := env.request("12:00")
	req.CustomerName = "Mehmet Yilmaz"
	second, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, *first.CustomerID, *second.CustomerID)
	assert.Equal(t, "Ayse Yilmaz", first.CustomerName)
	assert.Equal(t, "Mehmet Yilmaz", second.CustomerName)
	assert.Equal(t, "+905551234567", second.CustomerPhone)
	assert.Equal(t, "Ayse Yilmaz", env.appointments.customers["+905551234567"].Name)
}

func TestExecute_Conflict(t *testing.T) {
	env := setup(t, sunday)
	env.book(10*60, 11*60)

	_, err := env.uc.Execute(context.Background(), env.request("10:30"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Equal(t, []string{metrics.BookingResultConflict}, env.metrics.results)
	assert.Len(t, env.appointments.appointments, 1)
}

func TestExecute_AdjacentBookingIsAllowed(t *testing.T) {
	env := setup(t, sunday)
	env.book(10*60, 11*60)

	_, err := env.uc.Execute(context.Background(), env.request("11:00"))
	require.NoError(t, err)
	_, err = env.uc.Execute(context.Background(), env.request("09:00"))
	require.NoError(t, err)
}

func TestExecute_SecondBookingOfSameSlotFails(t *testing.T) {
	env := setup(t, sunday)

	_, err := env.uc.Execute(context.Background(), env.request("10:00"))
	require.NoError(t, err)

	_, err = env.uc.Execute(context.Background(), env.request("10:00"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	env := setup(t, sunday)

	tests := []struct {
		name  string
		start string
	}{
		{"before opening", "08:30"},
		{"runs past closing", "16:30"},
		{"past midnight", "23:30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.uc.Execute(context.Background(), env.request(tt.start))
			assert.ErrorIs(t, err, ErrOutsideWorkingHours)
		})
	}
}

func TestExecute_ClosedDay(t *testing.T) {
	env := setup(t, sunday)
	env.hours.hours[time.Monday].IsOpen = false

	_, err := env.uc.Execute(context.Background(), env.request("10:00"))
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
	assert.Equal(t, []string{metrics.BookingResultOutsideHours}, env.metrics.results)
}

func TestExecute_StartAlreadyPassed(t *testing.T) {
	// 10:00 in Istanbul
	env := setup(t, time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC))

	_, err := env.uc.Execute(context.Background(), env.request("10:00"))
	assert.ErrorIs(t, err, ErrTooLateToBook)

	_, err = env.uc.Execute(context.Background(), env.request("10:30"))
	assert.NoError(t, err)
}

func TestExecute_PastDate(t *testing.T) {
	env := setup(t, time.Date(2025, 3, 12, 7, 0, 0, 0, time.UTC))

	_, err := env.uc.Execute(context.Background(), env.request("10:00"))
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Equal(t, []string{metrics.BookingResultRejected}, env.metrics.results)
}

func TestExecute_ConcurrentCommit(t *testing.T) {
	t.Run("serialization failure on commit", func(t *testing.T) {
		env := setup(t, sunday)
		env.tx.commitErr = fmt.Errorf("%w: commit: pq: could not serialize access", txmanager.ErrSerializationFailure)

		_, err := env.uc.Execute(context.Background(), env.request("10:00"))
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
		assert.Equal(t, []string{metrics.BookingResultConflict}, env.metrics.results)
	})

	t.Run("exclusion constraint on insert", func(t *testing.T) {
		env := setup(t, sunday)
		env.appointments.createErr = fmt.Errorf("%w: Create: pq: conflicting key value", appointmentRepo.ErrConcurrentBooking)

		_, err := env.uc.Execute(context.Background(), env.request("10:00"))
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	})

	t.Run("other commit failure", func(t *testing.T) {
		env := setup(t, sunday)
		env.tx.commitErr = fmt.Errorf("%w: connection reset", txmanager.ErrCommitTx)

		_, err := env.uc.Execute(context.Background(), env.request("10:00"))
		assert.ErrorIs(t, err, ErrInternal)
		assert.Equal(t, []string{metrics.BookingResultError}, env.metrics.results)
	})
}

func TestExecute_InvalidInput(t *testing.T) {
	env := setup(t, sunday)

	tests := []struct {
		name   string
		modify func(r *Request)
	}{
		{"no business", func(r *Request) { r.BusinessID = uuid.Nil }},
		{"no service", func(r *Request) { r.ServiceID = uuid.Nil }},
		{"no date", func(r *Request) { r.Date = time.Time{} }},
		{"no start", func(r *Request) { r.StartTime = "" }},
		{"bad start", func(r *Request) { r.StartTime = "25:00" }},
		{"blank name", func(r *Request) { r.CustomerName = "   " }},
		{"phone without plus", func(r *Request) { r.CustomerPhone = "905551234567" }},
		{"phone too short", func(r *Request) { r.CustomerPhone = "+1234" }},
		{"phone with letters", func(r *Request) { r.CustomerPhone = "+90555abc4567" }},
		{"long notes", func(r *Request) {
			notes := string(make([]byte, domain.MaxNotesLength+1))
			r.Notes = &notes
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := env.request("10:00")
			tt.modify(req)
			_, err := env.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_StaffRequired(t *testing.T) {
	env := setup(t, sunday)
	staffID := uuid.New()
	env.catalog.staff[staffID] = &domain.Staff{ID: staffID, BusinessID: env.business.ID, IsActive: true}

	_, err := env.uc.Execute(context.Background(), env.request("10:00"))
	assert.ErrorIs(t, err, ErrStaffRequired)

	req := env.request("10:00")
	req.StaffID = ptr.Ptr(staffID)
	resp, err := env.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, staffID, *resp.StaffID)
}

func TestCheck(t *testing.T) {
	env := setup(t, sunday)
	env.book(10*60, 11*60)

	t.Run("available", func(t *testing.T) {
		req := env.request("11:00")
		req.CustomerName, req.CustomerPhone = "", ""

		resp, err := env.uc.Check(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, resp.Available)
		assert.Equal(t, "11:00", resp.StartTime.String())
		assert.Equal(t, "12:00", resp.EndTime.String())
	})

	t.Run("conflict", func(t *testing.T) {
		resp, err := env.uc.Check(context.Background(), env.request("09:30"))
		require.NoError(t, err)
		assert.False(t, resp.Available)
		assert.Equal(t, ReasonConflict, resp.Reason)
	})

	t.Run("outside hours", func(t *testing.T) {
		resp, err := env.uc.Check(context.Background(), env.request("16:30"))
		require.NoError(t, err)
		assert.False(t, resp.Available)
		assert.Equal(t, ReasonOutsideHours, resp.Reason)
	})

	t.Run("ends after midnight", func(t *testing.T) {
		resp, err := env.uc.Check(context.Background(), env.request("23:30"))
		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.False(t, resp.Available)
		assert.Equal(t, ReasonOutsideHours, resp.Reason)
		assert.Equal(t, "23:30", resp.StartTime.String())
		assert.Equal(t, "00:30", resp.EndTime.String())
		assert.Equal(t, "Europe/Istanbul", resp.Timezone)
	})

	assert.Zero(t, env.tx.calls)
	assert.Len(t, env.appointments.appointments, 1)
	assert.Empty(t, env.metrics.results)
}
