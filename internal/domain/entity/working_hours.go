package entity

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// WorkingHours is one opening window of a doctor on a weekday.
// A doctor may have several windows per weekday (e.g. split shifts).
type WorkingHours struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Weekday   int       `gorm:"not null" json:"weekday"` // 0 = Sunday
	StartTime TimeOfDay `gorm:"type:time;not null" json:"start_time"`
	EndTime   TimeOfDay `gorm:"type:time;not null" json:"end_time"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (WorkingHours) TableName() string {
	return "doctor_working_hours"
}

func (w WorkingHours) Valid() bool {
	return w.Weekday >= 0 && w.Weekday <= 6 && w.StartTime.Valid() && w.EndTime.Valid() && w.StartTime < w.EndTime
}

// Overlaps reports whether both windows share a weekday and any minute
func (w WorkingHours) Overlaps(other WorkingHours) bool {
	return w.Weekday == other.Weekday && w.StartTime < other.EndTime && other.StartTime < w.EndTime
}

// WindowsOn returns the active windows for a weekday ordered by start time
func WindowsOn(hours []WorkingHours, day time.Weekday) []WorkingHours {
	var windows []WorkingHours
	for _, h := range hours {
		if h.IsActive && h.Weekday == int(day) {
			windows = append(windows, h)
		}
	}
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].StartTime < windows[j].StartTime
	})
	return windows
}
