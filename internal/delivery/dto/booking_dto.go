package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateBookingRequest struct {
	DoctorID         string  `json:"doctor_id" validate:"required,uuid"`
	Date             string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time             string  `json:"time" validate:"required,datetime=15:04"`
	ConsultationType string  `json:"consultation_type" validate:"omitempty,oneof=clinic home video"`
	PatientName      string  `json:"patient_name" validate:"required,min=2,max=255"`
	PatientPhone     string  `json:"patient_phone" validate:"required,phone"`
	PatientEmail     *string `json:"patient_email" validate:"omitempty,email,max=255"`
	Symptoms         *string `json:"symptoms" validate:"omitempty,max=2000"`
}

type UpdateBookingStatusRequest struct {
	Status             string  `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
	Notes              *string `json:"notes" validate:"omitempty,max=2000"`
	CancellationReason *string `json:"cancellation_reason" validate:"omitempty,max=500"`
}

type BookingListQuery struct {
	Status   string `json:"status" validate:"omitempty,oneof=pending confirmed completed cancelled"`
	DoctorID string `json:"doctor_id" validate:"omitempty,uuid"`
	FromDate string `json:"from_date" validate:"omitempty,datetime=2006-01-02"`
	ToDate   string `json:"to_date" validate:"omitempty,datetime=2006-01-02"`
	Page     int    `json:"page" validate:"gte=0"`
	Limit    int    `json:"limit" validate:"gte=0,lte=100"`
}

type BookingLookupQuery struct {
	Phone string `json:"phone" validate:"required,phone"`
}

// Response DTOs

type BookingCreatedResponse struct {
	BookingID        uuid.UUID        `json:"booking_id"`
	BookingCode      string           `json:"booking_code"`
	Status           string           `json:"status"`
	DoctorID         uuid.UUID        `json:"doctor_id"`
	DoctorName       string           `json:"doctor_name"`
	Date             string           `json:"date"`
	Time             string           `json:"time"`
	ConsultationType string           `json:"consultation_type"`
	Fee              *decimal.Decimal `json:"fee,omitempty"`
	Currency         *string          `json:"currency,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

type BookingResponse struct {
	ID                 uuid.UUID        `json:"id"`
	BookingCode        string           `json:"booking_code"`
	Doctor             *DoctorSummary   `json:"doctor,omitempty"`
	DoctorID           uuid.UUID        `json:"doctor_id"`
	Date               string           `json:"date"`
	Time               string           `json:"time"`
	ConsultationType   string           `json:"consultation_type"`
	Status             string           `json:"status"`
	PatientName        string           `json:"patient_name"`
	PatientPhone       string           `json:"patient_phone"`
	PatientEmail       *string          `json:"patient_email,omitempty"`
	Symptoms           *string          `json:"symptoms,omitempty"`
	Notes              *string          `json:"notes,omitempty"`
	CancellationReason *string          `json:"cancellation_reason,omitempty"`
	Fee                *decimal.Decimal `json:"fee,omitempty"`
	Currency           *string          `json:"currency,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int64             `json:"total"`
	Page     int               `json:"-"`
	Limit    int               `json:"-"`
}

// BookingStatusResponse is what a patient sees when looking up by phone
type BookingStatusResponse struct {
	BookingCode      string `json:"booking_code"`
	DoctorName       string `json:"doctor_name"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	ConsultationType string `json:"consultation_type"`
	Status           string `json:"status"`
}
