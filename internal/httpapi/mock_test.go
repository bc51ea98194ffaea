package httpapi

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"

	"github.com/reservefield/booking-core/internal/booking"
	"github.com/reservefield/booking-core/internal/calendar"
	"github.com/reservefield/booking-core/internal/model"
	"github.com/reservefield/booking-core/internal/repository"
)

type mockBooking struct {
	mock.Mock
}

func (m *mockBooking) ListFacilities(ctx context.Context, filter repository.FacilityFilter, page, pageSize int) (calendar.Page[model.Facility], error) {
	args := m.Called(ctx, filter, page, pageSize)
	return args.Get(0).(calendar.Page[model.Facility]), args.Error(1)
}

func (m *mockBooking) FacilityDetail(ctx context.Context, facilityID, userID uuid.UUID) (*booking.FacilityDetail, error) {
	args := m.Called(ctx, facilityID, userID)
	d, _ := args.Get(0).(*booking.FacilityDetail)
	return d, args.Error(1)
}

func (m *mockBooking) CheckAndPrice(ctx context.Context, facilityID uuid.UUID, slot booking.Slot) (*booking.Quote, error) {
	args := m.Called(ctx, facilityID, slot)
	q, _ := args.Get(0).(*booking.Quote)
	return q, args.Error(1)
}

func (m *mockBooking) CreateReservation(ctx context.Context, userID, facilityID uuid.UUID, slot booking.Slot) (*model.Reservation, error) {
	args := m.Called(ctx, userID, facilityID, slot)
	r, _ := args.Get(0).(*model.Reservation)
	return r, args.Error(1)
}

func (m *mockBooking) CancelReservation(ctx context.Context, reservationID, userID uuid.UUID) error {
	return m.Called(ctx, reservationID, userID).Error(0)
}

func (m *mockBooking) CompleteReservation(ctx context.Context, reservationID uuid.UUID) error {
	return m.Called(ctx, reservationID).Error(0)
}

func (m *mockBooking) ListReservations(ctx context.Context, userID uuid.UUID, tab repository.ReservationTab, search string, page, pageSize int) (calendar.Page[model.Reservation], error) {
	args := m.Called(ctx, userID, tab, search, page, pageSize)
	return args.Get(0).(calendar.Page[model.Reservation]), args.Error(1)
}

func (m *mockBooking) SubmitReview(ctx context.Context, userID, facilityID uuid.UUID, rating int, comment string) (*model.Review, error) {
	args := m.Called(ctx, userID, facilityID, rating, comment)
	r, _ := args.Get(0).(*model.Review)
	return r, args.Error(1)
}

func (m *mockBooking) DeleteReview(ctx context.Context, userID, facilityID uuid.UUID) error {
	return m.Called(ctx, userID, facilityID).Error(0)
}

func (m *mockBooking) DayAvailability(ctx context.Context, facilityID uuid.UUID, date time.Time) (*booking.DaySchedule, error) {
	args := m.Called(ctx, facilityID, date)
	d, _ := args.Get(0).(*booking.DaySchedule)
	return d, args.Error(1)
}

func (m *mockBooking) FreeSlots(ctx context.Context, facilityID uuid.UUID, date time.Time, step time.Duration) ([]booking.Interval, error) {
	args := m.Called(ctx, facilityID, date, step)
	s, _ := args.Get(0).([]booking.Interval)
	return s, args.Error(1)
}

func (m *mockBooking) CreateFacility(ctx context.Context, in booking.NewFacility) (*model.Facility, error) {
	args := m.Called(ctx, in)
	f, _ := args.Get(0).(*model.Facility)
	return f, args.Error(1)
}

func (m *mockBooking) SetWeeklySchedule(ctx context.Context, facilityID uuid.UUID, day model.Weekday, opens, closes datatypes.Time) (*model.WeeklySchedule, error) {
	args := m.Called(ctx, facilityID, day, opens, closes)
	s, _ := args.Get(0).(*model.WeeklySchedule)
	return s, args.Error(1)
}
