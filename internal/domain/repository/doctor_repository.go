package repository

import (
	"context"

	"novacare-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error
	Update(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Doctor, error)
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error)
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.DoctorFilter) ([]entity.Doctor, error)
}

type WorkingHoursRepository interface {
	Create(ctx context.Context, db *gorm.DB, hours *entity.WorkingHours) error
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.WorkingHours, error)
	FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.WorkingHours, error)
	Delete(ctx context.Context, db *gorm.DB, id int) (int64, error)
}

type ConsultationFeeRepository interface {
	// ReplaceForDoctor swaps the doctor's whole fee list; callers pass a transaction.
	ReplaceForDoctor(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, fees []entity.ConsultationFee) error
}
