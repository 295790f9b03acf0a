package usecase

import (
	"context"
	"errors"
	"time"

	"novacare-booking/internal/converter"
	"novacare-booking/internal/delivery/dto"
	"novacare-booking/internal/domain/entity"
	"novacare-booking/internal/domain/repository"
	"novacare-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrInvalidDate = errors.New("invalid date, use YYYY-MM-DD")
)

type AvailabilityUsecase interface {
	GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, query *dto.AvailableSlotsQuery) (*dto.AvailableSlotsResponse, error)
}

type availabilityUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	doctorRepo  repository.DoctorRepository
	hoursRepo   repository.WorkingHoursRepository
	bookingRepo repository.BookingRepository
	slots       *service.SlotGenerator
	cache       service.BookedSlotCache
	clock       func() time.Time
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	hoursRepo repository.WorkingHoursRepository,
	bookingRepo repository.BookingRepository,
	slots *service.SlotGenerator,
	cache service.BookedSlotCache,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:          db,
		log:         log,
		doctorRepo:  doctorRepo,
		hoursRepo:   hoursRepo,
		bookingRepo: bookingRepo,
		slots:       slots,
		cache:       cache,
		clock:       time.Now,
	}
}

// GetAvailableSlots lists the doctor's remaining slots for a date in
// chronological order. A slot is available when no non-cancelled booking
// holds it and the doctor is accepting bookings at all.
func (u *availabilityUsecase) GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, query *dto.AvailableSlotsQuery) (*dto.AvailableSlotsResponse, error) {
	date, err := time.Parse(converter.DateLayout, query.Date)
	if err != nil {
		return nil, invalid("date", ErrInvalidDate)
	}

	doctor, err := u.doctorRepo.FindByID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	var (
		hours  []entity.WorkingHours
		booked []entity.TimeOfDay
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		found, err := u.hoursRepo.FindByDoctorID(gctx, u.db, doctorID)
		if err != nil {
			return err
		}
		hours = found
		return nil
	})
	g.Go(func() error {
		found, err := u.bookedTimes(gctx, doctorID, date)
		if err != nil {
			return err
		}
		booked = found
		return nil
	})
	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to load schedule of doctor %s on %s: %+v", doctorID, query.Date, err)
		return nil, err
	}

	taken := make(map[entity.TimeOfDay]struct{}, len(booked))
	for _, t := range booked {
		taken[t] = struct{}{}
	}

	candidates := u.slots.Generate(doctor, hours, date, u.clock())
	slots := make([]dto.SlotResponse, 0, len(candidates))
	for _, start := range candidates {
		_, isTaken := taken[start]
		slots = append(slots, dto.SlotResponse{
			Time:      start.String(),
			Available: doctor.IsAvailable && !isTaken,
		})
	}

	return &dto.AvailableSlotsResponse{
		DoctorID:        doctor.ID,
		Date:            date.Format(converter.DateLayout),
		DoctorAvailable: doctor.IsAvailable,
		Slots:           slots,
	}, nil
}

// bookedTimes reads through the cache. Cache failures are logged and the
// database answers instead.
func (u *availabilityUsecase) bookedTimes(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]entity.TimeOfDay, error) {
	cached, version, hit, cacheErr := u.cache.Load(ctx, doctorID, date)
	if cacheErr != nil {
		u.log.Warnf("Failed to read booked slots cache, using database: %+v", cacheErr)
	} else if hit {
		return cached, nil
	}

	times, err := u.bookingRepo.FindBookedTimes(ctx, u.db, doctorID, date)
	if err != nil {
		return nil, err
	}

	if cacheErr == nil {
		if err := u.cache.Store(ctx, doctorID, date, version, times); err != nil {
			u.log.Warnf("Failed to store booked slots cache: %+v", err)
		}
	}

	return times, nil
}
