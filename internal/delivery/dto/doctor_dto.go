package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateDoctorRequest struct {
	FullName            string       `json:"full_name" validate:"required,min=2,max=255"`
	Specialization      string       `json:"specialization" validate:"required,max=100"`
	Biography           string       `json:"biography" validate:"omitempty"`
	SlotDurationMinutes int          `json:"slot_duration_minutes" validate:"required,gte=5,lte=480"`
	IsAvailable         *bool        `json:"is_available"`
	UserID              *string      `json:"user_id" validate:"omitempty,uuid"`
	Fees                []FeeRequest `json:"fees" validate:"omitempty,dive"`
}

type UpdateDoctorRequest struct {
	FullName            string `json:"full_name" validate:"required,min=2,max=255"`
	Specialization      string `json:"specialization" validate:"required,max=100"`
	Biography           string `json:"biography" validate:"omitempty"`
	SlotDurationMinutes int    `json:"slot_duration_minutes" validate:"required,gte=5,lte=480"`
	IsAvailable         *bool  `json:"is_available" validate:"required"`
}

type CreateWorkingHoursRequest struct {
	Weekday   *int   `json:"weekday" validate:"required,gte=0,lte=6"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
}

type FeeRequest struct {
	ConsultationType string          `json:"consultation_type" validate:"required,oneof=clinic home video"`
	Fee              decimal.Decimal `json:"fee"`
	Currency         string          `json:"currency" validate:"required,len=3"`
}

type SetFeesRequest struct {
	Fees []FeeRequest `json:"fees" validate:"dive"`
}

type DoctorListQuery struct {
	Specialization string
	OnlyAvailable  bool
}

// Response DTOs

type DoctorSummary struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	Specialization string    `json:"specialization"`
}

type DoctorResponse struct {
	ID                  uuid.UUID     `json:"id"`
	UserID              *uuid.UUID    `json:"user_id,omitempty"`
	FullName            string        `json:"full_name"`
	Specialization      string        `json:"specialization"`
	Biography           string        `json:"biography,omitempty"`
	SlotDurationMinutes int           `json:"slot_duration_minutes"`
	IsAvailable         bool          `json:"is_available"`
	Fees                []FeeResponse `json:"fees"`
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
}

type DoctorDetailResponse struct {
	DoctorResponse
	WorkingHours []WorkingHoursResponse `json:"working_hours"`
}

type WorkingHoursResponse struct {
	ID        int       `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Weekday   int       `json:"weekday"`
	DayName   string    `json:"day_name"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	IsActive  bool      `json:"is_active"`
}

type FeeResponse struct {
	ConsultationType string          `json:"consultation_type"`
	Fee              decimal.Decimal `json:"fee"`
	Currency         string          `json:"currency"`
}
