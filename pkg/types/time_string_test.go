package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{in: "09:00"},
		{in: "23:59"},
		{in: "24:00"},
		{in: "00:00"},
		{in: "9:00", wantErr: true},
		{in: "24:01", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := NewTimeStringFromString(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTimeString_Minutes(t *testing.T) {
	m, err := TimeString("10:30").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 630, m)

	m, err = TimeString("24:00").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 1440, m)
}

func TestNewTimeStringFromMinutes(t *testing.T) {
	ts, err := NewTimeStringFromMinutes(540)
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:00"), ts)

	ts, err = NewTimeStringFromMinutes(1440)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), ts)

	_, err = NewTimeStringFromMinutes(1441)
	assert.ErrorIs(t, err, ErrOutOfDay)
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts, err := TimeString("16:00").AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("17:00"), ts)

	_, err = TimeString("23:30").AddMinutes(60)
	assert.ErrorIs(t, err, ErrOutOfDay)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:30"))
	assert.False(t, TimeString("09:30").IsBefore("09:30"))
	assert.True(t, TimeString("24:00").IsAfter("23:59"))
}

func TestNewTimeString(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	at := time.Date(2025, 3, 10, 6, 15, 0, 0, time.UTC).In(loc)
	assert.Equal(t, TimeString("09:15"), NewTimeString(at))
}
