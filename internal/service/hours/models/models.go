package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

var (
	// ErrInvalidWeekday возвращается при неизвестном дне недели
	ErrInvalidWeekday = errors.New("invalid weekday")

	// ErrDuplicateWeekday возвращается, когда день недели указан дважды
	ErrDuplicateWeekday = errors.New("duplicate weekday")
)

// Источник рабочих часов дня
const (
	SourceStaff    = "staff"
	SourceBusiness = "business"
	SourceDefault  = "default"
)

// Request модели

// DayRequest рабочие часы одного дня
type DayRequest struct {
	Weekday   string           `json:"weekday"`             // "monday" ... "sunday"
	IsOpen    bool             `json:"isOpen"`
	StartTime types.TimeString `json:"startTime,omitempty"` // "09:00"
	EndTime   types.TimeString `json:"endTime,omitempty"`   // "18:00", "24:00" - до полуночи
}

// UpdateWeekRequest запрос на изменение рабочих часов ресурса.
// Дни, не указанные в запросе, не меняются.
type UpdateWeekRequest struct {
	UserID     uuid.UUID    `json:"-"`
	BusinessID uuid.UUID    `json:"-"`
	StaffID    *uuid.UUID   `json:"staffId,omitempty"` // nil - часы бизнеса
	Days       []DayRequest `json:"days"`
}

// ToDomainHours конвертирует request в domain модели без проверки окна
func (r *UpdateWeekRequest) ToDomainHours() ([]*domain.WorkingHours, error) {
	seen := make(map[time.Weekday]bool, len(r.Days))
	result := make([]*domain.WorkingHours, 0, len(r.Days))

	for _, d := range r.Days {
		weekday, err := ParseWeekday(d.Weekday)
		if err != nil {
			return nil, err
		}
		if seen[weekday] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateWeekday, d.Weekday)
		}
		seen[weekday] = true

		wh := &domain.WorkingHours{
			BusinessID: r.BusinessID,
			StaffID:    r.StaffID,
			Weekday:    weekday,
			IsOpen:     d.IsOpen,
		}
		if d.IsOpen {
			if wh.StartMinute, err = d.StartTime.Minutes(); err != nil {
				return nil, fmt.Errorf("%s startTime: %w", d.Weekday, err)
			}
			if wh.EndMinute, err = d.EndTime.Minutes(); err != nil {
				return nil, fmt.Errorf("%s endTime: %w", d.Weekday, err)
			}
		}
		result = append(result, wh)
	}

	return result, nil
}

// Response модели

// DayResponse действующие рабочие часы одного дня
type DayResponse struct {
	Weekday   string     `json:"weekday"`
	IsOpen    bool       `json:"isOpen"`
	StartTime string     `json:"startTime,omitempty"`
	EndTime   string     `json:"endTime,omitempty"`
	Source    string     `json:"source"` // staff, business или default
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// WeekResponse рабочие часы ресурса на неделю, с понедельника
type WeekResponse struct {
	BusinessID uuid.UUID     `json:"businessId"`
	StaffID    *uuid.UUID    `json:"staffId,omitempty"`
	Timezone   string        `json:"timezone"`
	Days       []DayResponse `json:"days"`
}

// Методы конвертации

// FromDomainHours конвертирует domain модель в DTO
func FromDomainHours(wh *domain.WorkingHours, source string) DayResponse {
	resp := DayResponse{
		Weekday: FormatWeekday(wh.Weekday),
		IsOpen:  wh.IsOpen,
		Source:  source,
	}
	if wh.IsOpen {
		if start, err := types.NewTimeStringFromMinutes(wh.StartMinute); err == nil {
			resp.StartTime = start.String()
		}
		if end, err := types.NewTimeStringFromMinutes(wh.EndMinute); err == nil {
			resp.EndTime = end.String()
		}
	}
	if !wh.UpdatedAt.IsZero() {
		updatedAt := wh.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

// WeekOrder дни недели в порядке вывода
var WeekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// ParseWeekday "monday" -> time.Monday, регистр не важен
func ParseWeekday(s string) (time.Weekday, error) {
	for _, wd := range WeekOrder {
		if strings.EqualFold(s, wd.String()) {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

// FormatWeekday time.Monday -> "monday"
func FormatWeekday(wd time.Weekday) string {
	return strings.ToLower(wd.String())
}
