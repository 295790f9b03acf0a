package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"novacare-booking/internal/converter"
	"novacare-booking/internal/delivery/dto"
	"novacare-booking/internal/delivery/http/middleware"
	"novacare-booking/internal/domain/entity"
	"novacare-booking/internal/domain/repository"
	"novacare-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrWorkingHoursNotFound = errors.New("working hours not found")
	ErrHoursOrder           = errors.New("start_time must be before end_time")
	ErrHoursOverlap         = errors.New("overlaps another working window on the same weekday")
	ErrFeeNotPositive       = errors.New("fee must be greater than zero")
	ErrDuplicateFeeType     = errors.New("consultation type listed more than once")
	ErrDoctorAlreadyLinked  = errors.New("user is already linked to a doctor")
)

type DoctorUsecase interface {
	ListDoctors(ctx context.Context, query *dto.DoctorListQuery) ([]dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorDetailResponse, error)
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	AddWorkingHours(ctx context.Context, doctorID uuid.UUID, req *dto.CreateWorkingHoursRequest) (*dto.WorkingHoursResponse, error)
	ListWorkingHours(ctx context.Context, doctorID uuid.UUID) ([]dto.WorkingHoursResponse, error)
	DeleteWorkingHours(ctx context.Context, hoursID int) error
	SetFees(ctx context.Context, doctorID uuid.UUID, req *dto.SetFeesRequest) (*dto.DoctorResponse, error)
}

type doctorUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	hoursRepo    repository.WorkingHoursRepository
	feeRepo      repository.ConsultationFeeRepository
	auditService service.AuditService
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	hoursRepo repository.WorkingHoursRepository,
	feeRepo repository.ConsultationFeeRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		db:           db,
		log:          log,
		doctorRepo:   doctorRepo,
		hoursRepo:    hoursRepo,
		feeRepo:      feeRepo,
		auditService: auditService,
	}
}

func (u *doctorUsecase) ListDoctors(ctx context.Context, query *dto.DoctorListQuery) ([]dto.DoctorResponse, error) {
	filter := &entity.DoctorFilter{
		Specialization: strings.TrimSpace(query.Specialization),
		OnlyAvailable:  query.OnlyAvailable,
	}

	doctors, err := u.doctorRepo.FindAll(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	return converter.DoctorsToResponses(doctors), nil
}

// GetDoctor returns the doctor with fees and active weekly hours
func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorDetailResponse, error) {
	doctor, err := u.findDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	hours, err := u.hoursRepo.FindByDoctorID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find working hours of doctor %s: %+v", doctorID, err)
		return nil, err
	}

	active := make([]entity.WorkingHours, 0, len(hours))
	for _, h := range hours {
		if h.IsActive {
			active = append(active, h)
		}
	}

	return converter.DoctorToDetailResponse(doctor, active), nil
}

func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	fees, err := feesFromRequest(uuid.Nil, req.Fees)
	if err != nil {
		return nil, err
	}

	doctor := &entity.Doctor{
		ID:                  uuid.New(),
		FullName:            strings.TrimSpace(req.FullName),
		Specialization:      strings.TrimSpace(req.Specialization),
		Biography:           req.Biography,
		SlotDurationMinutes: req.SlotDurationMinutes,
		IsAvailable:         true,
	}
	if req.IsAvailable != nil {
		doctor.IsAvailable = *req.IsAvailable
	}
	if req.UserID != nil {
		userID, err := uuid.Parse(*req.UserID)
		if err != nil {
			return nil, invalid("user_id", ErrUserNotFound)
		}
		doctor.UserID = &userID
	}
	for i := range fees {
		fees[i].DoctorID = doctor.ID
	}

	actor := actorFromContext(ctx)

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.doctorRepo.Create(ctx, tx, doctor); err != nil {
			return err
		}
		if err := u.feeRepo.ReplaceForDoctor(ctx, tx, doctor.ID, fees); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, tx, actor, entity.AuditActionDoctorCreate, "doctor", doctor.ID.String(), map[string]interface{}{
			"full_name":             doctor.FullName,
			"specialization":        doctor.Specialization,
			"slot_duration_minutes": doctor.SlotDurationMinutes,
		})
	})
	if err != nil {
		if isForeignKeyError(err, "user") {
			return nil, invalid("user_id", ErrUserNotFound)
		}
		if isDuplicateKeyError(err, "user_id") {
			return nil, invalid("user_id", ErrDoctorAlreadyLinked)
		}
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	doctor.Fees = fees
	u.log.Infof("Doctor created: id=%s, name=%s", doctor.ID, doctor.FullName)
	return converter.DoctorToResponse(doctor), nil
}

// UpdateDoctor changes profile fields. A new slot duration reshapes every
// future day's grid; existing bookings keep their times.
func (u *doctorUsecase) UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	doctor, err := u.findDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	old := map[string]interface{}{
		"slot_duration_minutes": doctor.SlotDurationMinutes,
		"is_available":          doctor.IsAvailable,
	}

	doctor.FullName = strings.TrimSpace(req.FullName)
	doctor.Specialization = strings.TrimSpace(req.Specialization)
	doctor.Biography = req.Biography
	doctor.SlotDurationMinutes = req.SlotDurationMinutes
	doctor.IsAvailable = *req.IsAvailable

	if err := u.doctorRepo.Update(ctx, u.db, doctor); err != nil {
		u.log.Warnf("Failed to update doctor %s: %+v", doctorID, err)
		return nil, err
	}

	_ = u.auditService.LogUpdate(ctx, u.db, actorFromContext(ctx), entity.AuditActionDoctorUpdate, "doctor", doctorID.String(), old, map[string]interface{}{
		"slot_duration_minutes": doctor.SlotDurationMinutes,
		"is_available":          doctor.IsAvailable,
	})

	u.log.Infof("Doctor updated: id=%s", doctorID)
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) AddWorkingHours(ctx context.Context, doctorID uuid.UUID, req *dto.CreateWorkingHoursRequest) (*dto.WorkingHoursResponse, error) {
	start, err := entity.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return nil, invalid("start_time", ErrInvalidTime)
	}
	end, err := entity.ParseTimeOfDay(req.EndTime)
	if err != nil {
		return nil, invalid("end_time", ErrInvalidTime)
	}
	if start >= end {
		return nil, invalid("end_time", ErrHoursOrder)
	}

	if _, err := u.findDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	hours := &entity.WorkingHours{
		DoctorID:  doctorID,
		Weekday:   *req.Weekday,
		StartTime: start,
		EndTime:   end,
		IsActive:  true,
	}

	existing, err := u.hoursRepo.FindByDoctorID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find working hours of doctor %s: %+v", doctorID, err)
		return nil, err
	}
	for _, other := range existing {
		if other.IsActive && hours.Overlaps(other) {
			return nil, invalid("start_time", ErrHoursOverlap)
		}
	}

	if err := u.hoursRepo.Create(ctx, u.db, hours); err != nil {
		u.log.Warnf("Failed to create working hours: %+v", err)
		return nil, err
	}

	_ = u.auditService.LogCreate(ctx, u.db, actorFromContext(ctx), entity.AuditActionHoursCreate, "working_hours", strconv.Itoa(hours.ID), map[string]interface{}{
		"doctor_id":  doctorID,
		"weekday":    hours.Weekday,
		"start_time": hours.StartTime.String(),
		"end_time":   hours.EndTime.String(),
	})

	u.log.Infof("Working hours added: doctor=%s, weekday=%d, %s-%s", doctorID, hours.Weekday, start, end)
	return converter.WorkingHoursToResponse(hours), nil
}

func (u *doctorUsecase) ListWorkingHours(ctx context.Context, doctorID uuid.UUID) ([]dto.WorkingHoursResponse, error) {
	if _, err := u.findDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	hours, err := u.hoursRepo.FindByDoctorID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find working hours of doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return converter.WorkingHoursToResponses(hours), nil
}

// DeleteWorkingHours removes a window. Bookings already made inside it stay
// valid; the window just stops producing new slots.
func (u *doctorUsecase) DeleteWorkingHours(ctx context.Context, hoursID int) error {
	hours, err := u.hoursRepo.FindByID(ctx, u.db, hoursID)
	if err != nil {
		u.log.Warnf("Failed to find working hours %d: %+v", hoursID, err)
		return err
	}
	if hours == nil {
		return ErrWorkingHoursNotFound
	}

	affected, err := u.hoursRepo.Delete(ctx, u.db, hoursID)
	if err != nil {
		u.log.Warnf("Failed to delete working hours %d: %+v", hoursID, err)
		return err
	}
	if affected == 0 {
		return ErrWorkingHoursNotFound
	}

	_ = u.auditService.LogDelete(ctx, u.db, actorFromContext(ctx), entity.AuditActionHoursDelete, "working_hours", strconv.Itoa(hoursID), map[string]interface{}{
		"doctor_id":  hours.DoctorID,
		"weekday":    hours.Weekday,
		"start_time": hours.StartTime.String(),
		"end_time":   hours.EndTime.String(),
	})

	u.log.Infof("Working hours deleted: id=%d, doctor=%s", hoursID, hours.DoctorID)
	return nil
}

// SetFees replaces the doctor's fee list. Existing bookings keep the fee
// they were admitted with.
func (u *doctorUsecase) SetFees(ctx context.Context, doctorID uuid.UUID, req *dto.SetFeesRequest) (*dto.DoctorResponse, error) {
	doctor, err := u.findDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	fees, err := feesFromRequest(doctorID, req.Fees)
	if err != nil {
		return nil, err
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.feeRepo.ReplaceForDoctor(ctx, tx, doctorID, fees); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, actorFromContext(ctx), entity.AuditActionFeesUpdate, "doctor", doctorID.String(),
			converter.FeesToResponses(doctor.Fees), converter.FeesToResponses(fees))
	})
	if err != nil {
		u.log.Warnf("Failed to set fees of doctor %s: %+v", doctorID, err)
		return nil, err
	}

	doctor.Fees = fees
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) findDoctor(ctx context.Context, doctorID uuid.UUID) (*entity.Doctor, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}

func feesFromRequest(doctorID uuid.UUID, reqs []dto.FeeRequest) ([]entity.ConsultationFee, error) {
	seen := make(map[entity.ConsultationType]bool, len(reqs))
	fees := make([]entity.ConsultationFee, 0, len(reqs))
	for _, r := range reqs {
		consultationType := entity.ConsultationType(r.ConsultationType)
		if seen[consultationType] {
			return nil, invalid("fees", ErrDuplicateFeeType)
		}
		seen[consultationType] = true

		if !r.Fee.IsPositive() {
			return nil, invalid("fees", ErrFeeNotPositive)
		}

		fees = append(fees, entity.ConsultationFee{
			DoctorID:         doctorID,
			ConsultationType: consultationType,
			Fee:              r.Fee,
			Currency:         strings.ToUpper(r.Currency),
		})
	}
	return fees, nil
}

func actorFromContext(ctx context.Context) *uuid.UUID {
	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		return &userID
	}
	return nil
}
