package get_available_slots

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
	err        error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		businesses: make(map[uuid.UUID]*domain.Business),
		services:   make(map[uuid.UUID]*domain.Service),
		staff:      make(map[uuid.UUID]*domain.Staff),
	}
}

func (f *fakeCatalog) GetBusiness(_ context.Context, id uuid.UUID) (*domain.Business, error) {
	if f.err != nil {
		return nil, f.err
	}
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
	err   error
}

func (f *fakeHours) GetEffective(_ context.Context, _ uuid.UUID, _ *uuid.UUID, weekday time.Weekday) (*domain.WorkingHours, error) {
	if f.err != nil {
		return nil, f.err
	}
	if h, ok := f.hours[weekday]; ok {
		return h, nil
	}
	return nil, hoursRepo.ErrHoursNotFound
}

type fakeAppointments struct {
	appointments []*domain.Appointment
	from, to     time.Time
}

func (f *fakeAppointments) ListBooked(_ context.Context, _ uuid.UUID, _ *uuid.UUID, from, to time.Time) ([]*domain.Appointment, error) {
	f.from, f.to = from, to
	return f.appointments, nil
}

type fakeMetrics struct {
	observed []int
}

func (f *fakeMetrics) ObserveSlotsComputed(count int) {
	f.observed = append(f.observed, count)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
