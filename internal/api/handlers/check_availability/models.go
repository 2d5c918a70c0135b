package check_availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	createBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// CheckRequest HTTP request model
type CheckRequest struct {
	ServiceID uuid.UUID  `json:"serviceId"`
	StaffID   *uuid.UUID `json:"staffId,omitempty"`
	Date      string     `json:"date"`
	StartTime string     `json:"startTime"`
}

// CheckResponse HTTP response model
type CheckResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Timezone  string `json:"timezone"`
}

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

func (r *CheckRequest) ToUseCaseRequest(businessID uuid.UUID) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	return &createBooking.Request{
		BusinessID: businessID,
		ServiceID:  r.ServiceID,
		StaffID:    r.StaffID,
		Date:       date,
		StartTime:  startTime,
	}, nil
}

func FromUseCaseResponse(resp *createBooking.CheckResponse) *CheckResponse {
	return &CheckResponse{
		Available: resp.Available,
		Reason:    resp.Reason,
		StartTime: resp.StartTime.String(),
		EndTime:   resp.EndTime.String(),
		Timezone:  resp.Timezone,
	}
}
