package create_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	hoursRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/hours"
)

type fakeCatalog struct {
	businesses map[uuid.UUID]*domain.Business
	services   map[uuid.UUID]*domain.Service
	staff      map[uuid.UUID]*domain.Staff
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		businesses: make(map[uuid.UUID]*domain.Business),
		services:   make(map[uuid.UUID]*domain.Service),
		staff:      make(map[uuid.UUID]*domain.Staff),
	}
}

func (f *fakeCatalog) GetBusiness(_ context.Context, id uuid.UUID) (*domain.Business, error) {
	if b, ok := f.businesses[id]; ok {
		return b, nil
	}
	return nil, catalogRepo.ErrBusinessNotFound
}

func (f *fakeCatalog) GetService(_ context.Context, businessID, serviceID uuid.UUID) (*domain.Service, error) {
	if s, ok := f.services[serviceID]; ok && s.BusinessID == businessID {
		return s, nil
	}
	return nil, catalogRepo.ErrServiceNotFound
}

func (f *fakeCatalog) GetStaff(_ context.Context, businessID, staffID uuid.UUID) (*domain.Staff, error) {
	if s, ok := f.staff[staffID]; ok && s.BusinessID == businessID {
		return s, nil
	}
	return nil, catalogRepo.ErrStaffNotFound
}

func (f *fakeCatalog) HasActiveStaff(_ context.Context, businessID uuid.UUID) (bool, error) {
	for _, s := range f.staff {
		if s.BusinessID == businessID && s.IsActive {
			return true, nil
		}
	}
	return false, nil
}

type fakeHours struct {
	hours map[time.Weekday]*domain.WorkingHours
}

func (f *fakeHours) GetEffective(_ context.Context, _ uuid.UUID, _ *uuid.UUID, weekday time.Weekday) (*domain.WorkingHours, error) {
	if h, ok := f.hours[weekday]; ok {
		return h, nil
	}
	return nil, hoursRepo.ErrHoursNotFound
}

// fakeAppointments хранит записи в памяти; listCalls считает чтения занятых интервалов
type fakeAppointments struct {
	appointments []*domain.Appointment
	customers    map[string]*domain.Customer
	createErr    error
	listCalls    int
	inTxCalls    int
}

func newFakeAppointments() *fakeAppointments {
	return &fakeAppointments{customers: make(map[string]*domain.Customer)}
}

func (f *fakeAppointments) ListBooked(ctx context.Context, _ uuid.UUID, _ *uuid.UUID, from, to time.Time) ([]*domain.Appointment, error) {
	f.listCalls++
	if inTx(ctx) {
		f.inTxCalls++
	}
	result := make([]*domain.Appointment, 0, len(f.appointments))
	for _, a := range f.appointments {
		if a.StartTime.Before(to) && a.EndTime.After(from) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (f *fakeAppointments) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	created := *a
	created.ID = uuid.New()
	created.CreatedAt = time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	created.UpdatedAt = created.CreatedAt
	f.appointments = append(f.appointments, &created)
	return &created, nil
}

func (f *fakeAppointments) GetOrCreateCustomer(_ context.Context, businessID uuid.UUID, name, phone string) (*domain.Customer, error) {
	if c, ok := f.customers[phone]; ok {
		return c, nil
	}
	c := &domain.Customer{ID: uuid.New(), BusinessID: businessID, Name: name, Phone: phone}
	f.customers[phone] = c
	return c, nil
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// fakeTxManager выполняет fn с пометкой транзакции; commitErr имитирует ошибку коммита
type fakeTxManager struct {
	calls     int
	commitErr error
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		return err
	}
	return f.commitErr
}

type fakeMetrics struct {
	results []string
}

func (f *fakeMetrics) RecordBookingAttempt(result string) {
	f.results = append(f.results, result)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
