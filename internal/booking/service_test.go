package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/reservefield/booking-core/internal/calendar"
	"github.com/reservefield/booking-core/internal/db"
	"github.com/reservefield/booking-core/internal/lock"
	"github.com/reservefield/booking-core/internal/model"
	"github.com/reservefield/booking-core/internal/repository"
)

// Четверг; 2026-10-19: понедельник.
var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

const (
	monday   = "2026-10-19"
	tuesday  = "2026-10-20"
	today    = "2026-10-15"
	lastWeek = "2026-10-08"
)

func newTestService(t *testing.T) (*Service, *repository.Store) {
	t.Helper()

	gdb, err := db.NewInMemoryDB()
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(gdb))

	store := repository.NewStore(gdb)
	svc := NewService(store,
		WithClock(func() time.Time { return testNow }),
		WithLocation(time.UTC),
	)
	return svc, store
}

// seedFacility заводит площадку 40.00/час, открытую по понедельникам и четвергам 09:00–22:00.
func seedFacility(t *testing.T, svc *Service) *model.Facility {
	t.Helper()
	ctx := context.Background()

	f, err := svc.CreateFacility(ctx, NewFacility{
		Name:       "Cancha Central",
		Type:       model.FacilityTypeFootball,
		Location:   "Providencia",
		HourlyRate: decimal.RequireFromString("40.00"),
		Available:  true,
	})
	require.NoError(t, err)

	for _, day := range []model.Weekday{model.Monday, model.Thursday} {
		_, err = svc.SetWeeklySchedule(ctx, f.ID, day, clock(t, "09:00"), clock(t, "22:00"))
		require.NoError(t, err)
	}
	return f
}

func slot(t *testing.T, date, start, end string) Slot {
	t.Helper()
	s, err := ParseSlot(date, start, end)
	require.NoError(t, err)
	return s
}

func TestCreateFacility_Defaults(t *testing.T) {
	svc, _ := newTestService(t)

	f, err := svc.CreateFacility(context.Background(), NewFacility{
		Name:       "  Padel 1 ",
		Type:       model.FacilityTypePadel,
		HourlyRate: decimal.RequireFromString("12.5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Padel 1", f.Name)
	assert.Equal(t, defaultCapacity, f.Capacity)
	assert.Zero(t, f.Rating)
	assert.Zero(t, f.ReviewCount)

	_, err = svc.CreateFacility(context.Background(), NewFacility{Name: "x", Type: "chess"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateFacility(context.Background(), NewFacility{
		Name: "x", Type: model.FacilityTypeTennis, HourlyRate: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSetWeeklySchedule_ReplacesDay(t *testing.T) {
	svc, store := newTestService(t)
	f := seedFacility(t, svc)
	ctx := context.Background()

	_, err := svc.SetWeeklySchedule(ctx, f.ID, model.Monday, clock(t, "08:00"), clock(t, "20:00"))
	require.NoError(t, err)

	detail, err := store.Facilities.GetWithDetails(ctx, f.ID)
	require.NoError(t, err)
	schedules := detail.Schedules
	require.Len(t, schedules, 2)
	assert.Equal(t, model.Monday, schedules[0].Weekday)
	assert.Equal(t, clock(t, "08:00"), schedules[0].OpensAt)
	assert.Equal(t, clock(t, "20:00"), schedules[0].ClosesAt)

	_, err = svc.SetWeeklySchedule(ctx, f.ID, model.Weekday(7), clock(t, "08:00"), clock(t, "20:00"))
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.SetWeeklySchedule(ctx, f.ID, model.Friday, clock(t, "20:00"), clock(t, "08:00"))
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = svc.SetWeeklySchedule(ctx, uuid.New(), model.Friday, clock(t, "08:00"), clock(t, "20:00"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckAndPrice_Quote(t *testing.T) {
	svc, store := newTestService(t)
	f := seedFacility(t, svc)
	ctx := context.Background()

	s := slot(t, monday, "10:00", "11:30")
	first, err := svc.CheckAndPrice(ctx, f.ID, s)
	require.NoError(t, err)
	assert.Equal(t, "60.00", first.Total.StringFixed(2))

	// повторный вызов даёт тот же ответ и ничего не пишет
	second, err := svc.CheckAndPrice(ctx, f.ID, s)
	require.NoError(t, err)
	assert.True(t, first.Total.Equal(second.Total))

	booked, err := store.Reservations.ListActiveByFacilityDate(ctx, f.ID, s.Date)
	require.NoError(t, err)
	assert.Empty(t, booked)
}

func TestCheckAndPrice_Rejections(t *testing.T) {
	svc, _ := newTestService(t)
	f := seedFacility(t, svc)
	ctx := context.Background()

	cases := []struct {
		name string
		slot Slot
		want error
	}{
		{"past date", slot(t, lastWeek, "10:00", "11:00"), ErrPastDate},
		{"past date wins over range", slot(t, lastWeek, "11:00", "10:00"), ErrPastDate},
		{"end before start", slot(t, monday, "11:00", "10:00"), ErrInvalidRange},
		{"empty range", slot(t, monday, "11:00", "11:00"), ErrInvalidRange},
		{"closed day", slot(t, tuesday, "10:00", "11:00"), ErrNoScheduleForDay},
		{"before opening", slot(t, monday, "08:00", "09:00"), ErrOutsideOperatingHours},
		{"after closing", slot(t, monday, "21:30", "22:30"), ErrOutsideOperatingHours},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CheckAndPrice(ctx, f.ID, tc.slot)
			assert.ErrorIs(t, err, tc.want)
			assert.True(t, IsRejection(err))
		})
	}

	_, err := svc.CheckAndPrice(ctx, uuid.New(), slot(t, monday, "10:00", "11:00"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckAndPrice_SecondsRejected(t *testing.T) {
	svc, store := newTestService(t)
	f := seedFacility(t, svc)
	ctx := context.Background()

	_, err := ParseSlot(monday, "10:00:00", "10:00:30")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = ParseSlot(monday, "09:00", "09:30:59")
	assert.ErrorIs(t, err, ErrValidation)

	// слот, собранный в обход ParseSlot
	s := Slot{
		Date:  slot(t, monday, "10:00", "11:00").Date,
		Start: datatypes.NewTime(10, 0, 0, 0),
		End:   datatypes.NewTime(10, 0, 30, 0),
	}
	_, err = svc.CheckAndPrice(ctx, f.ID, s)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreateReservation(ctx, uuid.New(), f.ID, s)
	assert.ErrorIs(t, err, ErrValidation)

	booked, err := store.Reservations.ListActiveByFacilityDate(ctx, f.ID, s.Date)
	require.NoError(t, err)
	assert.Empty(t, booked)

	_, err = svc.SetWeeklySchedule(ctx, f.ID, model.Friday, datatypes.NewTime(9, 0, 30, 0), clock(t, "22:00"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckAndPrice_OutsideHoursCarriesBounds(t *testing.T) {
	svc, _ := newTestService(t)
	f := seedFacility(t, svc)

	_, err := svc.CheckAndPrice(context.Background(), f.ID, slot(t, monday, "08:00", "09:00"))

	var outside *OutsideHoursError
	require.True(t, errors.As(err, &outside))
	assert.Equal(t, "09:00", calendar.FormatClock(outside.Opens))
	assert.Equal(t, "22:00", calendar.FormatClock(outside.Closes))
	assert.Contains(t, err.Error(), "09:00")
	assert.Contains(t, err.Error(), "22:00")
}

func TestCheckAndPrice_WholeOpeningWindowAllowed(t *testing.T) {
	svc, _ := newTestService(t)
	f := seedFacility(t, svc)

	q, err := svc.CheckAndPrice(context.Background(), f.ID, slot(t, monday, "09:00", "22:00"))
	require.NoError(t, err)
	assert.Equal(t, "520.00", q.Total.StringFixed(2))
}

func TestCreateReservation_Confirmed(t *testing.T) {
	svc, store := newTestService(t)
	f := seedFacility(t, svc)
	ctx := context.Background()
	user := uuid.New()

	r, err := svc.CreateReservation(ctx, user, f.ID, slot(t, monday, "10:00", "11:00"))
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusConfirmed, r.Status)
	assert.Equal(t, "40.00", r.Total.StringFixed(2))
	assert.Equal(t, user, r.UserID)

	stored, err := store.Reservations.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, monday, time.Time(stored.Date).Format(calendar.DateLayout))
	assert.Equal(t, clock(t, "10:00"), stored.StartTime)
	assert.Equal(t, clock(t, "11:00"), stored.EndTime)

	events, err := store.Events.ListByReservation(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventTypeReservationCreated, events[0].EventType)

	_, err = svc.CreateReservation(ctx, uuid.Nil, f.ID, slot(t, monday, "12:00", "13:00"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateReservation_OverlapIsHalfOpen(t *testing.T) {
	svc, _ := newTestService(t)
	f := seedFacility(t, svc)
	ctx := context.Background()

	_, err := svc.CreateReservation(ctx, uuid.New(), f.ID, slot(t, monday, "10:00", "11:00"))
	require.NoError(t, err)

	// смежные интервалы не пересекаются
	_, err = svc.CreateReservation(ctx, uuid.New(), f.ID, slot(t, monday, "11:00", "12:00"))
	require.NoError(t, err)
	_, err = svc.CreateReservation(ctx, uuid.New(), f.ID, slot(t, monday, "09:00", "10:00"))
	require.NoError(t, err)

	for _, s := range []Slot{
		slot(t, monday, "10:30", "11:30"),
		slot(t, monday, "10:00", "11:00"),
		slot(t, monday, "09:30", "12:30"),
		slot(t, monday, "10:15", "10:45"),
	} {
		_, err = svc.CreateReservation(ctx, uuid.New(), f.ID, s)
		assert.ErrorIs(t, err, ErrOverlap)
	}
}

func TestCreateReservation_ConcurrentSameSlot(t *testing.T) {
	svc, store := newTestService(t)
	f := seedFacility(t, svc)
	ctx := context.Background()
	s := slot(t, monday, "18:00", "19:30")

	const n = 2
	var (
		wg   sync.WaitGroup
		errs = make([]error, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateReservation(ctx, uuid.New(), f.ID, s)
		}(i)
	}
	wg.Wait()

	var ok, overlap int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrOverlap):
			overlap++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, overlap)

	booked, err := store.Reservations.ListActiveByFacilityDate(ctx, f.ID, s.Date)
	require.NoError(t, err)
	assert.Len(t, booked, 1)
}

// Два экземпляра сервиса со своими локальными блокировками над одной базой:
// пересекающиеся, но разные интервалы не ловятся уникальным индексом по началу.
func TestCreateReservation_ConcurrentOverlappingSlots(t *testing.T) {
	first, store := newTestService(t)
	f := seedFacility(t, first)
	ctx := context.Background()

	second := NewService(store,
		WithClock(func() time.Time { return testNow }),
		WithLocation(time.UTC),
		WithLocker(lock.NewLocalLocker()),
	)
	services := []*Service{first, second}
	slots := []Slot{
		slot(t, monday, "18:00", "19:30"),
		slot(t, monday, "19:00", "20:00"),
	}

	var (
		wg   sync.WaitGroup
		errs = make([]error, len(slots))
	)
	for i := range slots {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = services[i].CreateReservation(ctx, uuid.New(), f.ID, slots[i])
		}(i)
	}
	wg.Wait()

	var ok, overlap int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrOverlap):
			overlap++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, overlap)

	booked, err := store.Reservations.ListActiveByFacilityDate(ctx, f.ID, slots[0].Date)
	require.NoError(t, err)
	assert.Len(t, booked, 1)
}

func TestCreateReservation_UnavailableFacility(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	f, err := svc.CreateFacility(ctx, NewFacility{
		Name:       "En mantención",
		Type:       model.FacilityTypeTennis,
		HourlyRate: decimal.NewFromInt(10),
		Available:  false,
	})
	require.NoError(t, err)
	_, err = svc.SetWeeklySchedule(ctx, f.ID, model.Monday, clock(t, "09:00"), clock(t, "22:00"))
	require.NoError(t, err)

	_, err = svc.CreateReservation(ctx, uuid.New(), f.ID, slot(t, monday, "10:00", "11:00"))
	assert.ErrorIs(t, err, ErrFacilityUnavailable)
}

func TestCancelReservation(t *testing.T) {
	svc, store := newTestService(t)
	f := seedFacility(t, svc)
	ctx := context.Background()
	owner := uuid.New()
	s := slot(t, monday, "10:00", "11:00")

	r, err := svc.CreateReservation(ctx, owner, f.ID, s)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.CancelReservation(ctx, r.ID, uuid.New()), ErrNotOwner)
	assert.ErrorIs(t, svc.CancelReservation(ctx, uuid.New(), owner), ErrNotFound)

	require.NoError(t, svc.CancelReservation(ctx, r.ID, owner))

	stored, err := store.Reservations.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusCancelled, stored.Status)
	require.NotNil(t, stored.CancelledAt)

	// отменённая бронь больше не занимает время
	_, err = svc.CreateReservation(ctx, uuid.New(), f.ID, s)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.CancelReservation(ctx, r.ID, owner), ErrInvalidTransition)

	events, err := store.Events.ListByReservation(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.EventTypeReservationCancelled, events[1].EventType)
}

func TestCancelReservation_TodayIsTooLate(t *testing.T) {
	svc, store := newTestService(t)
	f := seedFacility(t, svc)
	ctx := context.Background()
	owner := uuid.New()

	r, err := svc.CreateReservation(ctx, owner, f.ID, slot(t, today, "20:00", "21:00"))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.CancelReservation(ctx, r.ID, owner), ErrPastDate)

	stored, err := store.Reservations.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusConfirmed, stored.Status)
}

func TestCompleteReservation(t *testing.T) {
	svc, store := newTestService(t)
	f := seedFacility(t, svc)
	ctx := context.Background()
	owner := uuid.New()

	r, err := svc.CreateReservation(ctx, owner, f.ID, slot(t, monday, "10:00", "11:00"))
	require.NoError(t, err)

	require.NoError(t, svc.CompleteReservation(ctx, r.ID))
	assert.ErrorIs(t, svc.CompleteReservation(ctx, r.ID), ErrInvalidTransition)
	assert.ErrorIs(t, svc.CancelReservation(ctx, r.ID, owner), ErrInvalidTransition)

	stored, err := store.Reservations.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusCompleted, stored.Status)
}

func TestListReservations_Tabs(t *testing.T) {
	svc, _ := newTestService(t)
	f := seedFacility(t, svc)
	ctx := context.Background()
	user := uuid.New()

	upcoming, err := svc.CreateReservation(ctx, user, f.ID, slot(t, monday, "10:00", "11:00"))
	require.NoError(t, err)
	cancelled, err := svc.CreateReservation(ctx, user, f.ID, slot(t, monday, "12:00", "13:00"))
	require.NoError(t, err)
	require.NoError(t, svc.CancelReservation(ctx, cancelled.ID, user))
	// чужая бронь не попадает в выдачу
	_, err = svc.CreateReservation(ctx, uuid.New(), f.ID, slot(t, monday, "14:00", "15:00"))
	require.NoError(t, err)

	page, err := svc.ListReservations(ctx, user, repository.ReservationTabUpcoming, "", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, upcoming.ID, page.Items[0].ID)
	require.NotNil(t, page.Items[0].Facility)
	assert.Equal(t, f.Name, page.Items[0].Facility.Name)

	page, err = svc.ListReservations(ctx, user, repository.ReservationTabHistory, "", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, cancelled.ID, page.Items[0].ID)

	page, err = svc.ListReservations(ctx, user, repository.ReservationTabUpcoming, "central", 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	page, err = svc.ListReservations(ctx, user, repository.ReservationTabUpcoming, "estadio", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	page, err = svc.ListReservations(ctx, user, repository.ReservationTabUpcoming, tuesday, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Total)

	page, err = svc.ListReservations(ctx, user, repository.ReservationTabUpcoming, monday, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestDayAvailability(t *testing.T) {
	svc, _ := newTestService(t)
	f := seedFacility(t, svc)
	ctx := context.Background()

	_, err := svc.CreateReservation(ctx, uuid.New(), f.ID, slot(t, monday, "18:00", "19:30"))
	require.NoError(t, err)
	_, err = svc.CreateReservation(ctx, uuid.New(), f.ID, slot(t, monday, "10:00", "11:00"))
	require.NoError(t, err)

	date, _ := calendar.ParseDate(monday)
	day, err := svc.DayAvailability(ctx, f.ID, date)
	require.NoError(t, err)
	assert.Equal(t, model.Monday, day.Weekday)
	assert.Equal(t, clock(t, "09:00"), day.OpensAt)
	assert.Equal(t, clock(t, "22:00"), day.ClosesAt)
	assert.Equal(t, []Interval{
		{Start: clock(t, "10:00"), End: clock(t, "11:00")},
		{Start: clock(t, "18:00"), End: clock(t, "19:30")},
	}, day.Booked)

	closed, _ := calendar.ParseDate(tuesday)
	_, err = svc.DayAvailability(ctx, f.ID, closed)
	assert.ErrorIs(t, err, ErrNoScheduleForDay)

	_, err = svc.DayAvailability(ctx, uuid.New(), date)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFreeSlots_MatchCheck(t *testing.T) {
	svc, _ := newTestService(t)
	f := seedFacility(t, svc)
	ctx := context.Background()

	_, err := svc.CreateReservation(ctx, uuid.New(), f.ID, slot(t, monday, "10:30", "11:30"))
	require.NoError(t, err)

	date, _ := calendar.ParseDate(monday)
	free, err := svc.FreeSlots(ctx, f.ID, date, time.Hour)
	require.NoError(t, err)
	// 13 часовых слотов минус 10:00 и 11:00, задетые бронью
	assert.Len(t, free, 11)

	for _, iv := range free {
		_, err := svc.CheckAndPrice(ctx, f.ID, Slot{Date: date, Start: iv.Start, End: iv.End})
		assert.NoError(t, err, "free slot %s rejected", calendar.FormatClock(iv.Start))
	}

	past, _ := calendar.ParseDate(lastWeek)
	_, err = svc.FreeSlots(ctx, f.ID, past, time.Hour)
	assert.ErrorIs(t, err, ErrPastDate)

	_, err = svc.FreeSlots(ctx, f.ID, date, 90*time.Second)
	assert.ErrorIs(t, err, ErrValidation)
}
