package domain

import (
	"time"

	"github.com/google/uuid"
)

// Business is the tenant that owns services, staff and working hours
type Business struct {
	ID                     uuid.UUID
	OwnerID                uuid.UUID
	Slug                   string
	Name                   string
	Timezone               string // IANA name, e.g. "Europe/Istanbul"
	SlotGranularityMinutes int
	AdvanceBookingDays     int // 0 = unlimited
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Location resolves the business time zone, falling back when it is empty or unknown
func (b *Business) Location(fallback *time.Location) *time.Location {
	if b.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}

// Granularity step between candidate slot starts
func (b *Business) Granularity() int {
	if b.SlotGranularityMinutes <= 0 {
		return DefaultSlotGranularityMinutes
	}
	return b.SlotGranularityMinutes
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (b *Business) HasAdvanceBookingLimit() bool {
	return b.AdvanceBookingDays > 0
}

// IsOwnedBy checks that the user manages the business
func (b *Business) IsOwnedBy(userID uuid.UUID) bool {
	return b.OwnerID == userID
}

// Service a bookable offering with a fixed duration
type Service struct {
	ID              uuid.UUID
	BusinessID      uuid.UUID
	Title           string
	DurationMinutes int
	Price           float64
}

// Staff a person appointments can be booked with
type Staff struct {
	ID         uuid.UUID
	BusinessID uuid.UUID
	Name       string
	Title      *string
	IsActive   bool
}
