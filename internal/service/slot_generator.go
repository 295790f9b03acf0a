package service

import (
	"time"

	"novacare-booking/config"
	"novacare-booking/internal/domain/entity"
)

// SlotGenerator turns a doctor's weekly working hours into the candidate
// appointment times of one calendar day. Slots are derived on every call and
// never stored.
type SlotGenerator struct {
	location       *time.Location
	closedWeekdays []time.Weekday
}

func NewSlotGenerator(clinic config.ClinicConfig) *SlotGenerator {
	loc := clinic.Location
	if loc == nil {
		loc = time.UTC
	}
	return &SlotGenerator{
		location:       loc,
		closedWeekdays: clinic.ClosedWeekdays,
	}
}

func (g *SlotGenerator) Location() *time.Location {
	return g.location
}

// Today returns the calendar date of now in the clinic's timezone
func (g *SlotGenerator) Today(now time.Time) time.Time {
	local := now.In(g.location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func (g *SlotGenerator) isClosed(day time.Weekday) bool {
	for _, closed := range g.closedWeekdays {
		if closed == day {
			return true
		}
	}
	return false
}

// Candidates returns every slot start the doctor offers on date, ignoring
// the current time. Windows are walked in start order; a slot is emitted
// while it fits entirely before the window closes, and slots that would
// overlap an earlier window are skipped.
func (g *SlotGenerator) Candidates(doctor *entity.Doctor, hours []entity.WorkingHours, date time.Time) []entity.TimeOfDay {
	duration := doctor.SlotDurationMinutes
	if duration <= 0 {
		return nil
	}

	weekday := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC).Weekday()
	if g.isClosed(weekday) {
		return nil
	}

	var slots []entity.TimeOfDay
	busyUntil := entity.TimeOfDay(-1)
	for _, window := range entity.WindowsOn(hours, weekday) {
		for start := window.StartTime; start.Add(duration) <= window.EndTime; start = start.Add(duration) {
			if start < busyUntil {
				continue
			}
			slots = append(slots, start)
			busyUntil = start.Add(duration)
		}
	}
	return slots
}

// Generate returns the candidates for date that still lie in the future
// relative to now. A slot starting exactly at now has already passed.
func (g *SlotGenerator) Generate(doctor *entity.Doctor, hours []entity.WorkingHours, date, now time.Time) []entity.TimeOfDay {
	candidates := g.Candidates(doctor, hours, date)

	slots := make([]entity.TimeOfDay, 0, len(candidates))
	for _, start := range candidates {
		if g.StartsAfter(date, start, now) {
			slots = append(slots, start)
		}
	}
	return slots
}

// StartsAfter reports whether the slot (date, start) begins strictly after now
func (g *SlotGenerator) StartsAfter(date time.Time, start entity.TimeOfDay, now time.Time) bool {
	return start.On(date, g.location).After(now)
}

// IsOnGrid reports whether start is one of the doctor's candidate times on date
func (g *SlotGenerator) IsOnGrid(doctor *entity.Doctor, hours []entity.WorkingHours, date time.Time, start entity.TimeOfDay) bool {
	for _, candidate := range g.Candidates(doctor, hours, date) {
		if candidate == start {
			return true
		}
	}
	return false
}
