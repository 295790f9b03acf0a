package repository

import (
	"context"
	"errors"
	"time"

	"novacare-booking/internal/domain/entity"
	domainRepo "novacare-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// Partial unique index over non-cancelled bookings, see migrations
	activeSlotIndex = "idx_bookings_active_slot"

	// PostgreSQL error code 23505 = unique_violation
	pgUniqueViolation = "23505"

	dateLayout = "2006-01-02"
)

type bookingRepository struct{}

func NewBookingRepository() domainRepo.BookingRepository {
	return &bookingRepository{}
}

// Create relies on idx_bookings_active_slot: the INSERT either commits or
// fails with a unique violation, so two racing requests can never both win.
func (r *bookingRepository) Create(ctx context.Context, db *gorm.DB, booking *entity.Booking) error {
	err := db.WithContext(ctx).Omit(clause.Associations).Create(booking).Error
	if isActiveSlotViolation(err) {
		return domainRepo.ErrSlotTaken
	}
	return err
}

func (r *bookingRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := db.WithContext(ctx).Preload("Doctor").Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindBookedTimes(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.TimeOfDay, error) {
	var times []entity.TimeOfDay
	err := db.WithContext(ctx).Model(&entity.Booking{}).
		Where("doctor_id = ? AND booking_date = ? AND status <> ?", doctorID, date.Format(dateLayout), entity.BookingStatusCancelled).
		Order("booking_time").
		Pluck("booking_time", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

func (r *bookingRepository) FindByPhone(ctx context.Context, db *gorm.DB, phone string, limit int) ([]entity.Booking, error) {
	var bookings []entity.Booking
	err := db.WithContext(ctx).Preload("Doctor").
		Where("patient_phone = ?", phone).
		Order("created_at DESC").
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.BookingFilter, limit, offset int) ([]entity.Booking, int64, error) {
	var bookings []entity.Booking
	var total int64

	query := applyBookingFilter(db.WithContext(ctx).Model(&entity.Booking{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyBookingFilter(db.WithContext(ctx), filter).
		Preload("Doctor").
		Order("booking_date, booking_time").
		Limit(limit).
		Offset(offset).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, change entity.StatusChange) (int64, error) {
	updates := map[string]interface{}{
		"status": change.To,
	}
	if change.Notes != nil {
		updates["notes"] = *change.Notes
	}
	if change.CancellationReason != nil {
		updates["cancellation_reason"] = *change.CancellationReason
	}

	result := db.WithContext(ctx).Model(&entity.Booking{}).
		Where("id = ? AND status = ?", id, change.From).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func applyBookingFilter(query *gorm.DB, filter *entity.BookingFilter) *gorm.DB {
	if filter == nil {
		return query
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.DoctorID != nil {
		query = query.Where("doctor_id = ?", *filter.DoctorID)
	}
	if filter.FromDate != nil {
		query = query.Where("booking_date >= ?", filter.FromDate.Format(dateLayout))
	}
	if filter.ToDate != nil {
		query = query.Where("booking_date <= ?", filter.ToDate.Format(dateLayout))
	}
	return query
}

func isActiveSlotViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == activeSlotIndex
}
