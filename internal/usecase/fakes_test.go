package usecase

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"novacare-booking/internal/domain/entity"
	"novacare-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// In-memory repositories. They ignore the *gorm.DB argument and enforce the
// same guarantees the PostgreSQL schema does.

func silentLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]entity.Booking
	doctors  *fakeDoctorRepo
}

func newFakeBookingRepo(doctors *fakeDoctorRepo) *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[uuid.UUID]entity.Booking{}, doctors: doctors}
}

func (r *fakeBookingRepo) Create(_ context.Context, _ *gorm.DB, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// idx_bookings_active_slot
	for _, b := range r.bookings {
		if b.Status.OccupiesSlot() && b.DoctorID == booking.DoctorID &&
			b.BookingDate.Equal(booking.BookingDate) && b.BookingTime == booking.BookingTime {
			return repository.ErrSlotTaken
		}
	}

	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *fakeBookingRepo) withDoctor(b entity.Booking) entity.Booking {
	if d, ok := r.doctors.get(b.DoctorID); ok {
		b.Doctor = d
	}
	return b
}

func (r *fakeBookingRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	b = r.withDoctor(b)
	return &b, nil
}

func (r *fakeBookingRepo) FindBookedTimes(_ context.Context, _ *gorm.DB, doctorID uuid.UUID, date time.Time) ([]entity.TimeOfDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var times []entity.TimeOfDay
	for _, b := range r.bookings {
		if b.DoctorID == doctorID && b.BookingDate.Equal(date) && b.Status.OccupiesSlot() {
			times = append(times, b.BookingTime)
		}
	}
	return times, nil
}

func (r *fakeBookingRepo) FindByPhone(_ context.Context, _ *gorm.DB, phone string, limit int) ([]entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var found []entity.Booking
	for _, b := range r.bookings {
		if b.PatientPhone == phone {
			found = append(found, r.withDoctor(b))
		}
	}
	sort.Slice(found, func(i, j int) bool {
		return found[i].CreatedAt.After(found[j].CreatedAt)
	})
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

func (r *fakeBookingRepo) FindAll(_ context.Context, _ *gorm.DB, filter *entity.BookingFilter, limit, offset int) ([]entity.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var found []entity.Booking
	for _, b := range r.bookings {
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.DoctorID != nil && b.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.FromDate != nil && b.BookingDate.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && b.BookingDate.After(*filter.ToDate) {
			continue
		}
		found = append(found, r.withDoctor(b))
	}
	sort.Slice(found, func(i, j int) bool {
		if !found[i].BookingDate.Equal(found[j].BookingDate) {
			return found[i].BookingDate.Before(found[j].BookingDate)
		}
		return found[i].BookingTime < found[j].BookingTime
	})

	total := int64(len(found))
	if offset >= len(found) {
		return []entity.Booking{}, total, nil
	}
	found = found[offset:]
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	return found, total, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, _ *gorm.DB, id uuid.UUID, change entity.StatusChange) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok || b.Status != change.From {
		return 0, nil
	}
	b.Status = change.To
	if change.Notes != nil {
		b.Notes = change.Notes
	}
	if change.CancellationReason != nil {
		b.CancellationReason = change.CancellationReason
	}
	b.UpdatedAt = time.Now()
	r.bookings[id] = b
	return 1, nil
}

// setStatus moves a booking behind the usecase's back
func (r *fakeBookingRepo) setStatus(id uuid.UUID, status entity.BookingStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.bookings[id]
	b.Status = status
	r.bookings[id] = b
}

type fakeDoctorRepo struct {
	mu      sync.Mutex
	doctors map[uuid.UUID]entity.Doctor
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: map[uuid.UUID]entity.Doctor{}}
}

func (r *fakeDoctorRepo) get(id uuid.UUID) (entity.Doctor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	return d, ok
}

func (r *fakeDoctorRepo) add(d entity.Doctor) *entity.Doctor {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.doctors[d.ID] = d
	return &d
}

func (r *fakeDoctorRepo) Create(_ context.Context, _ *gorm.DB, doctor *entity.Doctor) error {
	r.add(*doctor)
	return nil
}

func (r *fakeDoctorRepo) Update(_ context.Context, _ *gorm.DB, doctor *entity.Doctor) error {
	r.add(*doctor)
	return nil
}

func (r *fakeDoctorRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	d, ok := r.get(id)
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *fakeDoctorRepo) FindByUserID(_ context.Context, _ *gorm.DB, userID uuid.UUID) (*entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.doctors {
		if d.UserID != nil && *d.UserID == userID {
			return &d, nil
		}
	}
	return nil, nil
}

func (r *fakeDoctorRepo) FindAll(_ context.Context, _ *gorm.DB, filter *entity.DoctorFilter) ([]entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found []entity.Doctor
	for _, d := range r.doctors {
		if filter.OnlyAvailable && !d.IsAvailable {
			continue
		}
		found = append(found, d)
	}
	sort.Slice(found, func(i, j int) bool { return found[i].FullName < found[j].FullName })
	return found, nil
}

type fakeHoursRepo struct {
	mu     sync.Mutex
	nextID int
	hours  map[int]entity.WorkingHours
}

func newFakeHoursRepo() *fakeHoursRepo {
	return &fakeHoursRepo{hours: map[int]entity.WorkingHours{}}
}

func (r *fakeHoursRepo) Create(_ context.Context, _ *gorm.DB, hours *entity.WorkingHours) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	hours.ID = r.nextID
	r.hours[hours.ID] = *hours
	return nil
}

func (r *fakeHoursRepo) FindByID(_ context.Context, _ *gorm.DB, id int) (*entity.WorkingHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hours[id]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (r *fakeHoursRepo) FindByDoctorID(_ context.Context, _ *gorm.DB, doctorID uuid.UUID) ([]entity.WorkingHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found []entity.WorkingHours
	for _, h := range r.hours {
		if h.DoctorID == doctorID {
			found = append(found, h)
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].Weekday != found[j].Weekday {
			return found[i].Weekday < found[j].Weekday
		}
		return found[i].StartTime < found[j].StartTime
	})
	return found, nil
}

func (r *fakeHoursRepo) Delete(_ context.Context, _ *gorm.DB, id int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.hours[id]; !ok {
		return 0, nil
	}
	delete(r.hours, id)
	return 1, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, _ *gorm.DB, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, _ *gorm.DB, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

type fakeRoleRepo struct{}

func (fakeRoleRepo) FindByName(_ context.Context, _ *gorm.DB, name string) (*entity.Role, error) {
	id, ok := entity.RoleIDByName(name)
	if !ok {
		return nil, nil
	}
	return &entity.Role{ID: id, RoleName: name}, nil
}

type auditEntry struct {
	UserID   *uuid.UUID
	Action   string
	EntityID string
}

type fakeAuditService struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (s *fakeAuditService) add(userID *uuid.UUID, action, entityID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, auditEntry{UserID: userID, Action: action, EntityID: entityID})
	return nil
}

func (s *fakeAuditService) LogCreate(_ context.Context, _ *gorm.DB, userID *uuid.UUID, action string, _ string, entityID string, _ interface{}) error {
	return s.add(userID, action, entityID)
}

func (s *fakeAuditService) LogUpdate(_ context.Context, _ *gorm.DB, userID *uuid.UUID, action string, _ string, entityID string, _, _ interface{}) error {
	return s.add(userID, action, entityID)
}

func (s *fakeAuditService) LogDelete(_ context.Context, _ *gorm.DB, userID *uuid.UUID, action string, _ string, entityID string, _ interface{}) error {
	return s.add(userID, action, entityID)
}

func (s *fakeAuditService) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	actions := make([]string, len(s.entries))
	for i, e := range s.entries {
		actions[i] = e.Action
	}
	return actions
}
