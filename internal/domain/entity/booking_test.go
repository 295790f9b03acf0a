package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatus_TransitionTable(t *testing.T) {
	allowed := map[BookingStatus]map[BookingStatus]bool{
		BookingStatusPending:   {BookingStatusConfirmed: true, BookingStatusCancelled: true},
		BookingStatusConfirmed: {BookingStatusCompleted: true, BookingStatusCancelled: true},
	}

	for _, from := range BookingStatuses {
		for _, to := range BookingStatuses {
			want := allowed[from][to]
			assert.Equalf(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestBookingStatus_EveryStatusHasTableEntry(t *testing.T) {
	for _, status := range BookingStatuses {
		_, ok := bookingTransitions[status]
		assert.Truef(t, ok, "status %s missing from transition table", status)
	}
	assert.Len(t, bookingTransitions, len(BookingStatuses))
}

func TestBookingStatus_Terminal(t *testing.T) {
	assert.False(t, BookingStatusPending.IsTerminal())
	assert.False(t, BookingStatusConfirmed.IsTerminal())
	assert.True(t, BookingStatusCompleted.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())
}

func TestBookingStatus_OccupiesSlot(t *testing.T) {
	assert.True(t, BookingStatusPending.OccupiesSlot())
	assert.True(t, BookingStatusConfirmed.OccupiesSlot())
	assert.True(t, BookingStatusCompleted.OccupiesSlot())
	assert.False(t, BookingStatusCancelled.OccupiesSlot())
}

func TestParseBookingStatus(t *testing.T) {
	status, ok := ParseBookingStatus("confirmed")
	assert.True(t, ok)
	assert.Equal(t, BookingStatusConfirmed, status)

	_, ok = ParseBookingStatus("archived")
	assert.False(t, ok)

	_, ok = ParseBookingStatus("Confirmed")
	assert.False(t, ok)
}

func TestStatusChange_Validate(t *testing.T) {
	err := StatusChange{From: BookingStatusPending, To: BookingStatusCompleted}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	var transitionErr *TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, BookingStatusPending, transitionErr.From)
	assert.Equal(t, BookingStatusCompleted, transitionErr.To)
	assert.Contains(t, err.Error(), "pending")

	assert.NoError(t, StatusChange{From: BookingStatusPending, To: BookingStatusConfirmed}.Validate())
}

func TestBooking_StartsAt(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	b := Booking{
		BookingDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		BookingTime: NewTimeOfDay(10, 30),
	}

	assert.Equal(t, time.Date(2026, 3, 10, 10, 30, 0, 0, loc), b.StartsAt(loc))
}
