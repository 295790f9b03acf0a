package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func window(weekday int, start, end string, active bool) WorkingHours {
	s, _ := ParseTimeOfDay(start)
	e, _ := ParseTimeOfDay(end)
	return WorkingHours{Weekday: weekday, StartTime: s, EndTime: e, IsActive: active}
}

func TestWorkingHours_Valid(t *testing.T) {
	assert.True(t, window(1, "09:00", "12:00", true).Valid())
	assert.False(t, window(1, "12:00", "09:00", true).Valid())
	assert.False(t, window(1, "09:00", "09:00", true).Valid())
	assert.False(t, window(7, "09:00", "12:00", true).Valid())

	// The last storable end is 23:59; 24:00 cannot be written to a time column
	assert.True(t, window(1, "18:00", "23:59", true).Valid())
	endOfDay := WorkingHours{Weekday: 1, StartTime: NewTimeOfDay(18, 0), EndTime: TimeOfDay(minutesPerDay), IsActive: true}
	assert.False(t, endOfDay.Valid())
}

func TestWorkingHours_Overlaps(t *testing.T) {
	morning := window(1, "09:00", "12:00", true)

	assert.True(t, morning.Overlaps(window(1, "11:00", "13:00", true)))
	assert.False(t, morning.Overlaps(window(1, "12:00", "15:00", true)))
	assert.False(t, morning.Overlaps(window(2, "09:00", "12:00", true)))
}

func TestWindowsOn(t *testing.T) {
	hours := []WorkingHours{
		window(1, "14:00", "18:00", true),
		window(1, "09:00", "12:00", true),
		window(1, "19:00", "20:00", false),
		window(2, "09:00", "12:00", true),
	}

	got := WindowsOn(hours, time.Monday)

	if assert.Len(t, got, 2) {
		assert.Equal(t, "09:00", got[0].StartTime.String())
		assert.Equal(t, "14:00", got[1].StartTime.String())
	}
	assert.Empty(t, WindowsOn(hours, time.Sunday))
}
