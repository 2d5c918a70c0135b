package create_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type fakeUseCase struct {
	req  *createBooking.Request
	resp *createBooking.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.req = req
	return f.resp, f.err
}

func post(uc *fakeUseCase, businessID, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/businesses/{businessId}/appointments", NewHandler(uc, logger.NewNop()).Handle).Methods(http.MethodPost)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/businesses/"+businessID+"/appointments", strings.NewReader(body)))
	return rec
}

func validBody(serviceID uuid.UUID) string {
	return `{"serviceId":"` + serviceID.String() + `","date":"2025-03-10","startTime":"10:00",` +
		`"customerName":"Ayse","customerPhone":"+905551234567"}`
}

func TestHandle_Created(t *testing.T) {
	businessID, serviceID := uuid.New(), uuid.New()
	start := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &createBooking.Response{
		ID:              uuid.New(),
		BusinessID:      businessID,
		ServiceID:       serviceID,
		StartTime:       start,
		EndTime:         start.Add(time.Hour),
		DurationMinutes: 60,
		Timezone:        "Europe/Istanbul",
		Status:          "pending",
	}}

	rec := post(uc, businessID.String(), validBody(serviceID))
	require.Equal(t, http.StatusCreated, rec.Code)

	var body AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "10:00", body.StartTime)
	assert.Equal(t, "11:00", body.EndTime)
	assert.Equal(t, "2025-03-10", body.Date)
	assert.Equal(t, "pending", body.Status)

	assert.Equal(t, businessID, uc.req.BusinessID)
	assert.Equal(t, "10:00", uc.req.StartTime.String())
}

func TestHandle_ErrorMapping(t *testing.T) {
	serviceID := uuid.New()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"conflict", createBooking.ErrSlotNotAvailable, http.StatusConflict},
		{"outside hours", createBooking.ErrOutsideWorkingHours, http.StatusUnprocessableEntity},
		{"service not found", createBooking.ErrServiceNotFound, http.StatusNotFound},
		{"too late", createBooking.ErrTooLateToBook, http.StatusBadRequest},
		{"invalid phone", createBooking.ErrInvalidInput, http.StatusBadRequest},
		{"internal", createBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(&fakeUseCase{err: tt.err}, uuid.NewString(), validBody(serviceID))
			assert.Equal(t, tt.status, rec.Code)

			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestHandle_BadRequests(t *testing.T) {
	serviceID := uuid.New()

	tests := []struct {
		name       string
		businessID string
		body       string
		message    string
	}{
		{"bad business", "abc", validBody(serviceID), msgInvalidBusinessID},
		{"bad json", uuid.NewString(), `{`, msgInvalidRequestBody},
		{"bad date", uuid.NewString(), strings.Replace(validBody(serviceID), "2025-03-10", "10/03/2025", 1), msgInvalidDate},
		{"bad time", uuid.NewString(), strings.Replace(validBody(serviceID), "10:00", "10am", 1), msgInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{}
			rec := post(uc, tt.businessID, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
			assert.Nil(t, uc.req)
		})
	}
}
