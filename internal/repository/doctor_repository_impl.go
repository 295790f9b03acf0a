package repository

import (
	"context"
	"errors"

	"novacare-booking/internal/domain/entity"
	domainRepo "novacare-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) Create(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error {
	return db.WithContext(ctx).Omit(clause.Associations).Create(doctor).Error
}

func (r *doctorRepository) Update(ctx context.Context, db *gorm.DB, doctor *entity.Doctor) error {
	return db.WithContext(ctx).Omit(clause.Associations).Save(doctor).Error
}

func (r *doctorRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.WithContext(ctx).Preload("Fees").Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(ctx context.Context, db *gorm.DB, filter *entity.DoctorFilter) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	query := db.WithContext(ctx).Preload("Fees")

	if filter != nil {
		if filter.Specialization != "" {
			query = query.Where("specialization ILIKE ?", "%"+filter.Specialization+"%")
		}
		if filter.OnlyAvailable {
			query = query.Where("is_available = ?", true)
		}
	}

	if err := query.Order("full_name").Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

type workingHoursRepository struct{}

func NewWorkingHoursRepository() domainRepo.WorkingHoursRepository {
	return &workingHoursRepository{}
}

func (r *workingHoursRepository) Create(ctx context.Context, db *gorm.DB, hours *entity.WorkingHours) error {
	return db.WithContext(ctx).Create(hours).Error
}

func (r *workingHoursRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.WorkingHours, error) {
	var hours entity.WorkingHours
	err := db.WithContext(ctx).Where("id = ?", id).First(&hours).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &hours, nil
}

func (r *workingHoursRepository) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.WorkingHours, error) {
	var hours []entity.WorkingHours
	err := db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("weekday, start_time").
		Find(&hours).Error
	if err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *workingHoursRepository) Delete(ctx context.Context, db *gorm.DB, id int) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.WorkingHours{})
	return result.RowsAffected, result.Error
}

type consultationFeeRepository struct{}

func NewConsultationFeeRepository() domainRepo.ConsultationFeeRepository {
	return &consultationFeeRepository{}
}

func (r *consultationFeeRepository) ReplaceForDoctor(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, fees []entity.ConsultationFee) error {
	if err := db.WithContext(ctx).Where("doctor_id = ?", doctorID).Delete(&entity.ConsultationFee{}).Error; err != nil {
		return err
	}
	if len(fees) == 0 {
		return nil
	}
	for i := range fees {
		fees[i].DoctorID = doctorID
	}
	return db.WithContext(ctx).Create(&fees).Error
}
