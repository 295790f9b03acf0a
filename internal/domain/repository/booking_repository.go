package repository

import (
	"context"
	"time"

	"novacare-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository interface {
	// Create inserts the booking. The slot uniqueness check happens inside the
	// same statement; a lost race yields ErrSlotTaken.
	Create(ctx context.Context, db *gorm.DB, booking *entity.Booking) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Booking, error)
	FindBookedTimes(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.TimeOfDay, error)
	FindByPhone(ctx context.Context, db *gorm.DB, phone string, limit int) ([]entity.Booking, error)
	FindAll(ctx context.Context, db *gorm.DB, filter *entity.BookingFilter, limit, offset int) ([]entity.Booking, int64, error)
	// UpdateStatus applies the change only while the row still has change.From.
	// Returns affected rows: 1 = applied, 0 = status moved underneath us.
	UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, change entity.StatusChange) (int64, error)
}
