package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "09:00", want: NewTimeOfDay(9, 0)},
		{in: "23:59", want: NewTimeOfDay(23, 59)},
		{in: "10:30:00", want: NewTimeOfDay(10, 30)},
		{in: "10:30:15", wantErr: true},
		{in: "24:00", wantErr: true},
		{in: "9am", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeOfDay)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDay_String(t *testing.T) {
	assert.Equal(t, "09:05", NewTimeOfDay(9, 5).String())
	assert.Equal(t, "00:00", TimeOfDay(0).String())
}

func TestTimeOfDay_Scan(t *testing.T) {
	var tod TimeOfDay

	require.NoError(t, tod.Scan("11:30:00"))
	assert.Equal(t, NewTimeOfDay(11, 30), tod)

	require.NoError(t, tod.Scan([]byte("08:15:00.000000")))
	assert.Equal(t, NewTimeOfDay(8, 15), tod)

	require.NoError(t, tod.Scan(time.Date(0, 1, 1, 14, 45, 0, 0, time.UTC)))
	assert.Equal(t, NewTimeOfDay(14, 45), tod)

	assert.Error(t, tod.Scan(42))
}

func TestTimeOfDay_Value(t *testing.T) {
	v, err := NewTimeOfDay(9, 30).Value()
	require.NoError(t, err)
	assert.Equal(t, "09:30:00", v)

	_, err = TimeOfDay(minutesPerDay).Value()
	assert.ErrorIs(t, err, ErrInvalidTimeOfDay)
}

func TestTimeOfDay_JSON(t *testing.T) {
	payload, err := json.Marshal(struct {
		At TimeOfDay `json:"at"`
	}{At: NewTimeOfDay(7, 0)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"07:00"}`, string(payload))

	var decoded struct {
		At TimeOfDay `json:"at"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"at":"16:45"}`), &decoded))
	assert.Equal(t, NewTimeOfDay(16, 45), decoded.At)
}
