package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// BookingStatuses lists every status in lifecycle order
var BookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

// bookingTransitions is the complete lifecycle table. A status missing from
// the map, or mapped to an empty set, is terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted: nil,
	BookingStatusCancelled: nil,
}

var ErrInvalidTransition = errors.New("invalid booking status transition")

// TransitionError describes a rejected status change
type TransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change booking status from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ParseBookingStatus validates a status received from a client
func ParseBookingStatus(s string) (BookingStatus, bool) {
	status := BookingStatus(s)
	_, ok := bookingTransitions[status]
	return status, ok
}

func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// OccupiesSlot reports whether a booking in this status blocks its slot
func (s BookingStatus) OccupiesSlot() bool {
	return s != BookingStatusCancelled
}

// CanTransitionTo checks the lifecycle table
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ConsultationType is how the patient will be seen
type ConsultationType string

const (
	ConsultationClinic ConsultationType = "clinic"
	ConsultationHome   ConsultationType = "home"
	ConsultationVideo  ConsultationType = "video"
)

// Booking is a patient's reservation of one slot of a doctor's day.
// Bookings are never deleted; a cancelled booking releases its slot.
type Booking struct {
	ID                 uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	BookingCode        string              `gorm:"type:varchar(50);uniqueIndex;not null" json:"booking_code"`
	DoctorID           uuid.UUID           `gorm:"type:uuid;not null;index" json:"doctor_id"`
	BookingDate        time.Time           `gorm:"type:date;not null" json:"booking_date"`
	BookingTime        TimeOfDay           `gorm:"type:time;not null" json:"booking_time"`
	ConsultationType   ConsultationType    `gorm:"type:varchar(20);not null" json:"consultation_type"`
	Status             BookingStatus       `gorm:"type:booking_status;not null;index" json:"status"`
	PatientName        string              `gorm:"type:varchar(255);not null" json:"patient_name"`
	PatientPhone       string              `gorm:"type:varchar(20);not null;index" json:"patient_phone"`
	PatientEmail       *string             `gorm:"type:varchar(255)" json:"patient_email,omitempty"`
	Symptoms           *string             `gorm:"type:text" json:"symptoms,omitempty"`
	Notes              *string             `gorm:"type:text" json:"notes,omitempty"`
	CancellationReason *string             `gorm:"type:varchar(500)" json:"cancellation_reason,omitempty"`
	Fee                decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"fee"`
	Currency           *string             `gorm:"type:varchar(10)" json:"currency,omitempty"`
	CreatedAt          time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// IsPending checks if booking is in pending status
func (b *Booking) IsPending() bool {
	return b.Status == BookingStatusPending
}

// IsCancelled checks if booking is cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// StartsAt is the slot start in the clinic's timezone
func (b *Booking) StartsAt(loc *time.Location) time.Time {
	return b.BookingTime.On(b.BookingDate, loc)
}

// StatusChange carries a staff-requested transition with its optional fields
type StatusChange struct {
	From               BookingStatus
	To                 BookingStatus
	Notes              *string
	CancellationReason *string
}

// Validate checks the transition against the lifecycle table
func (c StatusChange) Validate() error {
	if !c.From.CanTransitionTo(c.To) {
		return &TransitionError{From: c.From, To: c.To}
	}
	return nil
}

// BookingFilter is a domain-level filter for staff booking listings
type BookingFilter struct {
	Status   *BookingStatus
	DoctorID *uuid.UUID
	FromDate *time.Time
	ToDate   *time.Time
}
