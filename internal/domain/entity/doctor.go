package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Doctor is a practitioner whose calendar can be booked.
// A doctor may optionally be linked to a staff login (UserID).
type Doctor struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id,omitempty"`
	FullName            string     `gorm:"type:varchar(255);not null" json:"full_name"`
	Specialization      string     `gorm:"type:varchar(100);not null;index" json:"specialization"`
	Biography           string     `gorm:"type:text" json:"biography,omitempty"`
	SlotDurationMinutes int        `gorm:"not null" json:"slot_duration_minutes"`
	IsAvailable         bool       `gorm:"not null" json:"is_available"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	WorkingHours []WorkingHours    `gorm:"foreignKey:DoctorID" json:"working_hours,omitempty"`
	Fees         []ConsultationFee `gorm:"foreignKey:DoctorID" json:"fees,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// FeeFor returns the configured fee for a consultation type, if any
func (d *Doctor) FeeFor(consultationType ConsultationType) (*ConsultationFee, bool) {
	for i := range d.Fees {
		if d.Fees[i].ConsultationType == consultationType {
			return &d.Fees[i], true
		}
	}
	return nil, false
}

// ConsultationFee is the price a doctor charges for one consultation type
type ConsultationFee struct {
	ID               int              `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID         uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_fee_doctor_type" json:"doctor_id"`
	ConsultationType ConsultationType `gorm:"type:varchar(20);not null;uniqueIndex:idx_fee_doctor_type" json:"consultation_type"`
	Fee              decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"fee"`
	Currency         string           `gorm:"type:varchar(10);not null" json:"currency"`
}

func (ConsultationFee) TableName() string {
	return "doctor_consultation_fees"
}

// DoctorFilter is a domain-level filter for the doctor directory.
// Used by repository layer to avoid coupling with delivery DTOs.
type DoctorFilter struct {
	Specialization string // ILIKE
	OnlyAvailable  bool
}
