package service

import (
	"testing"
	"time"

	"novacare-booking/config"
	"novacare-booking/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	// 2026-03-09 is a Monday
	monday = time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
)

func tod(s string) entity.TimeOfDay {
	t, err := entity.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func hoursOn(day time.Weekday, start, end string) entity.WorkingHours {
	return entity.WorkingHours{Weekday: int(day), StartTime: tod(start), EndTime: tod(end), IsActive: true}
}

func newGenerator(t *testing.T) *SlotGenerator {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return NewSlotGenerator(config.ClinicConfig{Location: loc, ClosedWeekdays: []time.Weekday{time.Sunday}})
}

func formatted(slots []entity.TimeOfDay) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.String())
	}
	return out
}

func TestSlotGenerator_MorningWindowThirtyMinutes(t *testing.T) {
	g := newGenerator(t)
	doctor := &entity.Doctor{SlotDurationMinutes: 30}
	hours := []entity.WorkingHours{hoursOn(time.Monday, "09:00", "12:00")}
	longAgo := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	slots := g.Generate(doctor, hours, monday, longAgo)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, formatted(slots))
}

func TestSlotGenerator_CountIsFloorOfWindowOverDuration(t *testing.T) {
	g := newGenerator(t)
	longAgo := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		start, end string
		duration   int
	}{
		{"09:00", "12:00", 30},
		{"09:00", "12:00", 45},
		{"09:00", "12:10", 20},
		{"08:15", "17:40", 25},
		{"10:00", "10:20", 30},
		{"00:00", "23:59", 60},
	}

	for _, c := range cases {
		doctor := &entity.Doctor{SlotDurationMinutes: c.duration}
		hours := []entity.WorkingHours{hoursOn(time.Monday, c.start, c.end)}

		slots := g.Generate(doctor, hours, monday, longAgo)

		want := int(tod(c.end)-tod(c.start)) / c.duration
		assert.Lenf(t, slots, want, "%s-%s every %d", c.start, c.end, c.duration)
	}
}

func TestSlotGenerator_ContiguousOrderedNonOverlapping(t *testing.T) {
	g := newGenerator(t)
	doctor := &entity.Doctor{SlotDurationMinutes: 40}
	hours := []entity.WorkingHours{hoursOn(time.Monday, "08:00", "18:00")}

	slots := g.Candidates(doctor, hours, monday)

	require.NotEmpty(t, slots)
	for i := 1; i < len(slots); i++ {
		assert.Equal(t, slots[i-1].Add(40), slots[i])
	}
	assert.LessOrEqual(t, int(slots[len(slots)-1].Add(40)), int(tod("18:00")))
}

func TestSlotGenerator_SplitShiftsAreMerged(t *testing.T) {
	g := newGenerator(t)
	doctor := &entity.Doctor{SlotDurationMinutes: 60}
	hours := []entity.WorkingHours{
		hoursOn(time.Monday, "14:00", "16:00"),
		hoursOn(time.Monday, "09:00", "11:00"),
		hoursOn(time.Tuesday, "09:00", "17:00"),
	}

	slots := g.Candidates(doctor, hours, monday)

	assert.Equal(t, []string{"09:00", "10:00", "14:00", "15:00"}, formatted(slots))
}

func TestSlotGenerator_OverlappingWindowsDoNotDuplicate(t *testing.T) {
	g := newGenerator(t)
	doctor := &entity.Doctor{SlotDurationMinutes: 30}
	hours := []entity.WorkingHours{
		hoursOn(time.Monday, "09:00", "10:00"),
		hoursOn(time.Monday, "09:45", "11:00"),
	}

	slots := g.Candidates(doctor, hours, monday)

	assert.Equal(t, []string{"09:00", "09:30", "10:15"}, formatted(slots))
}

func TestSlotGenerator_ClosedDayIsEmpty(t *testing.T) {
	g := newGenerator(t)
	doctor := &entity.Doctor{SlotDurationMinutes: 30}
	hours := []entity.WorkingHours{hoursOn(time.Sunday, "09:00", "12:00")}

	assert.Empty(t, g.Candidates(doctor, hours, sunday))
}

func TestSlotGenerator_NoWindowForWeekdayIsEmpty(t *testing.T) {
	g := newGenerator(t)
	doctor := &entity.Doctor{SlotDurationMinutes: 30}
	hours := []entity.WorkingHours{hoursOn(time.Tuesday, "09:00", "12:00")}

	assert.Empty(t, g.Candidates(doctor, hours, monday))
}

func TestSlotGenerator_InactiveWindowIgnored(t *testing.T) {
	g := newGenerator(t)
	doctor := &entity.Doctor{SlotDurationMinutes: 30}
	window := hoursOn(time.Monday, "09:00", "12:00")
	window.IsActive = false

	assert.Empty(t, g.Candidates(doctor, []entity.WorkingHours{window}, monday))
}

func TestSlotGenerator_NonPositiveDurationIsEmpty(t *testing.T) {
	g := newGenerator(t)
	hours := []entity.WorkingHours{hoursOn(time.Monday, "09:00", "12:00")}

	assert.Empty(t, g.Candidates(&entity.Doctor{SlotDurationMinutes: 0}, hours, monday))
	assert.Empty(t, g.Candidates(&entity.Doctor{SlotDurationMinutes: -15}, hours, monday))
}

func TestSlotGenerator_TodayExcludesPastAndCurrentSlots(t *testing.T) {
	g := newGenerator(t)
	doctor := &entity.Doctor{SlotDurationMinutes: 30}
	hours := []entity.WorkingHours{hoursOn(time.Monday, "09:00", "12:00")}

	// 10:00 in Kolkata on that Monday; the 10:00 slot has started
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, g.Location())

	slots := g.Generate(doctor, hours, monday, now)

	assert.Equal(t, []string{"10:30", "11:00", "11:30"}, formatted(slots))
}

func TestSlotGenerator_PastDateIsEmpty(t *testing.T) {
	g := newGenerator(t)
	doctor := &entity.Doctor{SlotDurationMinutes: 30}
	hours := []entity.WorkingHours{hoursOn(time.Monday, "09:00", "12:00")}
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, g.Location())

	assert.Empty(t, g.Generate(doctor, hours, monday, now))
}

func TestSlotGenerator_IsDeterministic(t *testing.T) {
	g := newGenerator(t)
	doctor := &entity.Doctor{SlotDurationMinutes: 20}
	hours := []entity.WorkingHours{hoursOn(time.Monday, "09:00", "13:00"), hoursOn(time.Monday, "15:00", "18:00")}
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, g.Generate(doctor, hours, monday, now), g.Generate(doctor, hours, monday, now))
}

func TestSlotGenerator_IsOnGrid(t *testing.T) {
	g := newGenerator(t)
	doctor := &entity.Doctor{SlotDurationMinutes: 30}
	hours := []entity.WorkingHours{hoursOn(time.Monday, "09:00", "12:00")}

	assert.True(t, g.IsOnGrid(doctor, hours, monday, tod("10:30")))
	assert.False(t, g.IsOnGrid(doctor, hours, monday, tod("10:15")))
	assert.False(t, g.IsOnGrid(doctor, hours, monday, tod("12:00")))
	assert.False(t, g.IsOnGrid(doctor, hours, sunday, tod("10:30")))
}

func TestSlotGenerator_Today(t *testing.T) {
	g := newGenerator(t)

	// 20:00 UTC is already the next day in Kolkata
	now := time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), g.Today(now))
}
