package get_business_appointments

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToServiceRequest(t *testing.T) {
	businessID, userID, staffID := uuid.New(), uuid.New(), uuid.New()

	t.Run("all params", func(t *testing.T) {
		query := url.Values{
			"staffId":         {staffID.String()},
			"from":            {"2025-03-10T00:00:00+03:00"},
			"to":              {"2025-03-11T00:00:00+03:00"},
			"status":          {"confirmed"},
			"includeInactive": {"true"},
		}

		req, err := ToServiceRequest(businessID, userID, query)
		require.NoError(t, err)
		assert.Equal(t, businessID, req.BusinessID)
		assert.Equal(t, userID, req.UserID)
		require.NotNil(t, req.StaffID)
		assert.Equal(t, staffID, *req.StaffID)
		require.NotNil(t, req.From)
		assert.True(t, req.From.Equal(time.Date(2025, 3, 9, 21, 0, 0, 0, time.UTC)))
		require.NotNil(t, req.Status)
		assert.Equal(t, "confirmed", *req.Status)
		assert.True(t, req.IncludeInactive)
	})

	t.Run("no params", func(t *testing.T) {
		req, err := ToServiceRequest(businessID, userID, url.Values{})
		require.NoError(t, err)
		assert.Nil(t, req.StaffID)
		assert.Nil(t, req.From)
		assert.Nil(t, req.To)
		assert.Nil(t, req.Status)
		assert.False(t, req.IncludeInactive)
	})

	for name, query := range map[string]url.Values{
		"bad staff":            {"staffId": {"7"}},
		"date only from":       {"from": {"2025-03-10"}},
		"bad to":               {"to": {"tomorrow"}},
		"bad include inactive": {"includeInactive": {"maybe"}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ToServiceRequest(businessID, userID, query)
			assert.Error(t, err)
		})
	}
}
