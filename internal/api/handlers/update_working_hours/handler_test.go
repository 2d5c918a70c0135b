package update_working_hours

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/hours"
	"github.com/m04kA/SMC-SchedulingService/internal/service/hours/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type fakeService struct {
	req  *models.UpdateWeekRequest
	resp *models.WeekResponse
	err  error
}

func (f *fakeService) UpdateWeek(_ context.Context, req *models.UpdateWeekRequest) (*models.WeekResponse, error) {
	f.req = req
	return f.resp, f.err
}

func put(svc *fakeService, userID, businessID, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.Use(middleware.Auth)
	router.HandleFunc("/businesses/{businessId}/working-hours", NewHandler(svc, logger.NewNop()).Handle)

	req := httptest.NewRequest(http.MethodPut, "/businesses/"+businessID+"/working-hours", strings.NewReader(body))
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const mondayBody = `{"days":[{"weekday":"monday","isOpen":true,"startTime":"09:00","endTime":"18:00"}]}`

func TestHandle_Success(t *testing.T) {
	userID, businessID := uuid.New(), uuid.New()
	svc := &fakeService{resp: &models.WeekResponse{BusinessID: businessID, Timezone: "UTC"}}

	rec := put(svc, userID.String(), businessID.String(), mondayBody)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, svc.req)
	assert.Equal(t, userID, svc.req.UserID)
	assert.Equal(t, businessID, svc.req.BusinessID)
	require.Len(t, svc.req.Days, 1)
	assert.Equal(t, "18:00", svc.req.Days[0].EndTime.String())

	var body models.WeekResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, businessID, body.BusinessID)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		body   string
		err    error
		status int
	}{
		{"no user", "", mondayBody, nil, http.StatusUnauthorized},
		{"not owner", uuid.NewString(), mondayBody, hours.ErrAccessDenied, http.StatusForbidden},
		{"unknown staff", uuid.NewString(), mondayBody, hours.ErrStaffNotFound, http.StatusNotFound},
		{"invalid window", uuid.NewString(), mondayBody, fmt.Errorf("%w: monday: end before start", hours.ErrInvalidInput), http.StatusBadRequest},
		{"bad body", uuid.NewString(), `{"days":`, nil, http.StatusBadRequest},
		{"internal", uuid.NewString(), mondayBody, hours.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := put(&fakeService{err: tt.err}, tt.userID, uuid.NewString(), tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
