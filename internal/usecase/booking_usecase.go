package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"novacare-booking/config"
	"novacare-booking/internal/converter"
	"novacare-booking/internal/delivery/dto"
	"novacare-booking/internal/delivery/http/middleware"
	"novacare-booking/internal/domain/entity"
	"novacare-booking/internal/domain/repository"
	"novacare-booking/internal/service"
	"novacare-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSlotTaken         = errors.New("slot is no longer available, choose another time")
	ErrDoctorUnavailable = errors.New("doctor is not accepting bookings")
	ErrSlotInPast        = errors.New("cannot book a time in the past")
	ErrSlotOffGrid       = errors.New("time is not one of the doctor's slots on this date")
	ErrInvalidTime       = errors.New("invalid time, use HH:MM")
	ErrInvalidDoctorID   = errors.New("invalid doctor id")
	ErrUnknownStatus     = errors.New("unknown booking status")
)

// bookingCodeAttempts bounds retries when a random booking code collides
const bookingCodeAttempts = 3

type BookingUsecase interface {
	CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingCreatedResponse, error)
	UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, req *dto.UpdateBookingStatusRequest) (*dto.BookingResponse, error)
	GetBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error)
	ListBookings(ctx context.Context, query *dto.BookingListQuery) (*dto.BookingListResponse, error)
	GetTodayBookings(ctx context.Context) (*dto.BookingListResponse, error)
	LookupByPhone(ctx context.Context, query *dto.BookingLookupQuery) ([]dto.BookingStatusResponse, error)
}

type bookingUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	cfg          config.BookingConfig
	bookingRepo  repository.BookingRepository
	doctorRepo   repository.DoctorRepository
	hoursRepo    repository.WorkingHoursRepository
	slots        *service.SlotGenerator
	cache        service.BookedSlotCache
	auditService service.AuditService
	clock        func() time.Time
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg config.BookingConfig,
	bookingRepo repository.BookingRepository,
	doctorRepo repository.DoctorRepository,
	hoursRepo repository.WorkingHoursRepository,
	slots *service.SlotGenerator,
	cache service.BookedSlotCache,
	auditService service.AuditService,
) BookingUsecase {
	return &bookingUsecase{
		db:           db,
		log:          log,
		cfg:          cfg,
		bookingRepo:  bookingRepo,
		doctorRepo:   doctorRepo,
		hoursRepo:    hoursRepo,
		slots:        slots,
		cache:        cache,
		auditService: auditService,
		clock:        time.Now,
	}
}

// CreateBooking admits a new booking.
//
// Flow:
// 1. Doctor exists and is accepting bookings
// 2. Slot start is in the future
// 3. Time is on the doctor's slot grid for that date
// 4. Insert; the active-slot unique index makes check-and-insert one atomic step
// 5. After commit: bump the booked-slot cache version, write the audit trail
func (u *bookingUsecase) CreateBooking(ctx context.Context, req *dto.CreateBookingRequest) (*dto.BookingCreatedResponse, error) {
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, invalid("doctor_id", ErrInvalidDoctorID)
	}
	date, err := time.Parse(converter.DateLayout, req.Date)
	if err != nil {
		return nil, invalid("date", ErrInvalidDate)
	}
	start, err := entity.ParseTimeOfDay(req.Time)
	if err != nil {
		return nil, invalid("time", ErrInvalidTime)
	}

	// Step 1: doctor
	doctor, err := u.doctorRepo.FindByID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !doctor.IsAvailable {
		return nil, invalid("doctor_id", ErrDoctorUnavailable)
	}

	// Step 2: not in the past
	if !u.slots.StartsAfter(date, start, u.clock()) {
		return nil, invalid("time", ErrSlotInPast)
	}

	// Step 3: on the grid
	hours, err := u.hoursRepo.FindByDoctorID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find working hours of doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if !u.slots.IsOnGrid(doctor, hours, date, start) {
		return nil, invalid("time", ErrSlotOffGrid)
	}

	consultationType := entity.ConsultationClinic
	if req.ConsultationType != "" {
		consultationType = entity.ConsultationType(req.ConsultationType)
	}

	booking := &entity.Booking{
		ID:               uuid.New(),
		DoctorID:         doctorID,
		BookingDate:      date,
		BookingTime:      start,
		ConsultationType: consultationType,
		Status:           entity.BookingStatusPending,
		PatientName:      strings.TrimSpace(req.PatientName),
		PatientPhone:     validator.NormalizePhone(req.PatientPhone),
		PatientEmail:     trimmed(req.PatientEmail),
		Symptoms:         trimmed(req.Symptoms),
	}

	// Fee snapshot, so later price changes do not rewrite history
	if fee, ok := doctor.FeeFor(consultationType); ok {
		booking.Fee = decimal.NewNullDecimal(fee.Fee)
		currency := fee.Currency
		booking.Currency = &currency
	}

	// Step 4: atomic check-and-insert
	if err := u.insertWithFreshCode(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			u.log.Infof("Slot taken at commit: doctor=%s, date=%s, time=%s", doctorID, req.Date, start)
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed to insert booking: %+v", err)
		return nil, err
	}

	// Step 5: post-commit side effects never fail the booking
	u.invalidateSlots(ctx, booking)
	_ = u.auditService.LogCreate(ctx, u.db, nil, entity.AuditActionBookingCreate, "booking", booking.ID.String(), map[string]interface{}{
		"booking_code": booking.BookingCode,
		"doctor_id":    booking.DoctorID,
		"date":         req.Date,
		"time":         start.String(),
		"status":       booking.Status,
	})

	u.log.Infof("Booking created: id=%s, doctor=%s, slot=%s %s, code=%s", booking.ID, doctorID, req.Date, start, booking.BookingCode)
	return converter.BookingToCreatedResponse(booking, doctor), nil
}

func (u *bookingUsecase) insertWithFreshCode(ctx context.Context, booking *entity.Booking) error {
	var err error
	for attempt := 0; attempt < bookingCodeAttempts; attempt++ {
		booking.BookingCode, err = generateBookingCode(booking.BookingDate)
		if err != nil {
			return err
		}
		err = u.bookingRepo.Create(ctx, u.db, booking)
		if err == nil || !isDuplicateKeyError(err, "booking_code") {
			return err
		}
		u.log.Warnf("Booking code collision on %s, retrying", booking.BookingCode)
	}
	return err
}

// UpdateBookingStatus moves a booking along its lifecycle. The update is
// conditional on the status read here, so two staff members racing on the
// same booking cannot both apply a transition from the same state.
func (u *bookingUsecase) UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, req *dto.UpdateBookingStatusRequest) (*dto.BookingResponse, error) {
	to, ok := entity.ParseBookingStatus(req.Status)
	if !ok {
		return nil, invalid("status", ErrUnknownStatus)
	}

	booking, err := u.bookingRepo.FindByID(ctx, u.db, bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	if err := u.authorizeDoctorScope(ctx, booking.DoctorID); err != nil {
		return nil, err
	}

	change := entity.StatusChange{
		From:  booking.Status,
		To:    to,
		Notes: trimmed(req.Notes),
	}
	if to == entity.BookingStatusCancelled {
		change.CancellationReason = trimmed(req.CancellationReason)
	}
	if err := change.Validate(); err != nil {
		return nil, err
	}

	affected, err := u.bookingRepo.UpdateStatus(ctx, u.db, bookingID, change)
	if err != nil {
		u.log.Warnf("Failed to update status of booking %s: %+v", bookingID, err)
		return nil, err
	}
	if affected == 0 {
		// Someone else moved it first; report against the status that won
		current, err := u.bookingRepo.FindByID(ctx, u.db, bookingID)
		if err != nil {
			u.log.Warnf("Failed to reload booking %s: %+v", bookingID, err)
			return nil, err
		}
		if current == nil {
			return nil, ErrBookingNotFound
		}
		return nil, &entity.TransitionError{From: current.Status, To: to}
	}

	booking.Status = to
	if change.Notes != nil {
		booking.Notes = change.Notes
	}
	if change.CancellationReason != nil {
		booking.CancellationReason = change.CancellationReason
	}

	if !to.OccupiesSlot() {
		u.invalidateSlots(ctx, booking)
	}

	_ = u.auditService.LogUpdate(ctx, u.db, actorFromContext(ctx), entity.AuditActionBookingStatusChange, "booking", bookingID.String(),
		map[string]interface{}{"status": change.From},
		map[string]interface{}{"status": change.To, "notes": change.Notes, "cancellation_reason": change.CancellationReason},
	)

	u.log.Infof("Booking status changed: id=%s, %s -> %s", bookingID, change.From, change.To)
	return converter.BookingToResponse(booking), nil
}

func (u *bookingUsecase) GetBooking(ctx context.Context, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	booking, err := u.bookingRepo.FindByID(ctx, u.db, bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	if err := u.authorizeDoctorScope(ctx, booking.DoctorID); err != nil {
		return nil, err
	}

	return converter.BookingToResponse(booking), nil
}

func (u *bookingUsecase) ListBookings(ctx context.Context, query *dto.BookingListQuery) (*dto.BookingListResponse, error) {
	filter := &entity.BookingFilter{}

	if query.Status != "" {
		status, ok := entity.ParseBookingStatus(query.Status)
		if !ok {
			return nil, invalid("status", ErrUnknownStatus)
		}
		filter.Status = &status
	}
	if query.DoctorID != "" {
		doctorID, err := uuid.Parse(query.DoctorID)
		if err != nil {
			return nil, invalid("doctor_id", ErrInvalidDoctorID)
		}
		filter.DoctorID = &doctorID
	}
	if query.FromDate != "" {
		from, err := time.Parse(converter.DateLayout, query.FromDate)
		if err != nil {
			return nil, invalid("from_date", ErrInvalidDate)
		}
		filter.FromDate = &from
	}
	if query.ToDate != "" {
		to, err := time.Parse(converter.DateLayout, query.ToDate)
		if err != nil {
			return nil, invalid("to_date", ErrInvalidDate)
		}
		filter.ToDate = &to
	}

	return u.list(ctx, filter, query.Page, query.Limit)
}

// GetTodayBookings lists today's bookings in the clinic's timezone
func (u *bookingUsecase) GetTodayBookings(ctx context.Context) (*dto.BookingListResponse, error) {
	today := u.slots.Today(u.clock())
	return u.list(ctx, &entity.BookingFilter{FromDate: &today, ToDate: &today}, 1, 0)
}

func (u *bookingUsecase) list(ctx context.Context, filter *entity.BookingFilter, page, limit int) (*dto.BookingListResponse, error) {
	ownDoctorID, err := u.ownDoctorID(ctx)
	if err != nil {
		return nil, err
	}
	if ownDoctorID != nil {
		// Doctors only ever see their own calendar
		filter.DoctorID = ownDoctorID
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = u.cfg.DefaultPageSize
	}
	offset := (page - 1) * limit

	bookings, total, err := u.bookingRepo.FindAll(ctx, u.db, filter, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to list bookings: %+v", err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

// LookupByPhone lets a patient check their recent bookings without logging in
func (u *bookingUsecase) LookupByPhone(ctx context.Context, query *dto.BookingLookupQuery) ([]dto.BookingStatusResponse, error) {
	phone := validator.NormalizePhone(query.Phone)

	bookings, err := u.bookingRepo.FindByPhone(ctx, u.db, phone, u.cfg.LookupLimit)
	if err != nil {
		u.log.Warnf("Failed to look up bookings by phone: %+v", err)
		return nil, err
	}

	return converter.BookingsToStatusResponses(bookings), nil
}

// ownDoctorID returns the caller's doctor ID when the caller is a doctor
func (u *bookingUsecase) ownDoctorID(ctx context.Context) (*uuid.UUID, error) {
	roleID, ok := middleware.GetRoleIDFromContext(ctx)
	if !ok || roleID != entity.RoleIDDoctor {
		return nil, nil
	}

	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrForbidden
	}

	doctor, err := u.doctorRepo.FindByUserID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find doctor for user %s: %+v", userID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrForbidden
	}
	return &doctor.ID, nil
}

func (u *bookingUsecase) authorizeDoctorScope(ctx context.Context, doctorID uuid.UUID) error {
	ownDoctorID, err := u.ownDoctorID(ctx)
	if err != nil {
		return err
	}
	if ownDoctorID != nil && *ownDoctorID != doctorID {
		return ErrForbidden
	}
	return nil
}

func (u *bookingUsecase) invalidateSlots(ctx context.Context, booking *entity.Booking) {
	if err := u.cache.Invalidate(ctx, booking.DoctorID, booking.BookingDate); err != nil {
		u.log.Warnf("Failed to invalidate booked slots cache for doctor %s on %s: %+v",
			booking.DoctorID, booking.BookingDate.Format(converter.DateLayout), err)
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// codeEntropy feeds booking code suffixes
var codeEntropy io.Reader = rand.Reader

// generateBookingCode generates a booking code: BK-YYYYMMDD-XXXXXX
func generateBookingCode(bookingDate time.Time) (string, error) {
	dateStr := bookingDate.Format("20060102")
	randomBytes := make([]byte, 3)
	if _, err := io.ReadFull(codeEntropy, randomBytes); err != nil {
		return "", fmt.Errorf("generate booking code: %w", err)
	}
	return fmt.Sprintf("BK-%s-%06X", dateStr, randomBytes), nil
}
