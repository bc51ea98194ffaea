package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/reservefield/booking-core/internal/calendar"
	"github.com/reservefield/booking-core/internal/model"
	"github.com/reservefield/booking-core/internal/repository"
)

// ScheduleReader: часы работы площадки по дню недели.
type ScheduleReader interface {
	GetForDay(ctx context.Context, facilityID uuid.UUID, day model.Weekday) (*model.WeeklySchedule, error)
}

// ReservationReader: активные (pending/confirmed) брони площадки на дату.
type ReservationReader interface {
	ListActiveByFacilityDate(ctx context.Context, facilityID uuid.UUID, date time.Time) ([]model.Reservation, error)
}

// Slot: запрошенный интервал [Start, End) в день Date.
type Slot struct {
	Date  time.Time
	Start datatypes.Time
	End   datatypes.Time
}

// ParseSlot разбирает дату "YYYY-MM-DD" и время "HH:MM".
func ParseSlot(date, start, end string) (Slot, error) {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	s, err := calendar.ParseClock(start)
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	e, err := calendar.ParseClock(end)
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return Slot{Date: d, Start: s, End: e}, nil
}

func (s Slot) Range() calendar.TimeRange {
	return calendar.ClockRange(s.Date, s.Start, s.End)
}

// Interval: занятый или свободный отрезок дня.
type Interval struct {
	Start datatypes.Time
	End   datatypes.Time
}

// Checker решает, можно ли забронировать слот. Ничего не пишет,
// поэтому годится и для бронирования, и для предварительной проверки.
type Checker struct {
	schedules    ScheduleReader
	reservations ReservationReader
	today        func() time.Time
}

func NewChecker(schedules ScheduleReader, reservations ReservationReader, today func() time.Time) *Checker {
	return &Checker{
		schedules:    schedules,
		reservations: reservations,
		today:        today,
	}
}

// Check возвращает nil, если слот допустим и свободен, иначе причину отказа.
func (c *Checker) Check(ctx context.Context, facilityID uuid.UUID, slot Slot) error {
	date := calendar.DateOf(slot.Date)

	if !calendar.WholeMinute(slot.Start) || !calendar.WholeMinute(slot.End) {
		return validationError("slot times must be whole minutes")
	}

	if date.Before(c.today()) {
		return ErrPastDate
	}
	if slot.Start >= slot.End {
		return ErrInvalidRange
	}

	schedule, err := c.scheduleFor(ctx, facilityID, date)
	if err != nil {
		return err
	}
	hours := calendar.ClockRange(date, schedule.OpensAt, schedule.ClosesAt)
	if !hours.Contains(slot.Range()) {
		return &OutsideHoursError{Opens: schedule.OpensAt, Closes: schedule.ClosesAt}
	}

	booked, err := c.booked(ctx, facilityID, date)
	if err != nil {
		return err
	}
	if has, _ := calendar.HasOverlap(slot.Range(), rangesOf(date, booked), false); has {
		return ErrOverlap
	}

	return nil
}

func (c *Checker) scheduleFor(ctx context.Context, facilityID uuid.UUID, date time.Time) (*model.WeeklySchedule, error) {
	schedule, err := c.schedules.GetForDay(ctx, facilityID, model.WeekdayOf(date))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoScheduleForDay
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	return schedule, nil
}

func (c *Checker) booked(ctx context.Context, facilityID uuid.UUID, date time.Time) ([]Interval, error) {
	reservations, err := c.reservations.ListActiveByFacilityDate(ctx, facilityID, date)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	booked := make([]Interval, 0, len(reservations))
	for _, r := range reservations {
		if !r.Status.Active() {
			continue
		}
		booked = append(booked, Interval{Start: r.StartTime, End: r.EndTime})
	}
	return booked, nil
}

func rangesOf(date time.Time, intervals []Interval) []calendar.TimeRange {
	ranges := make([]calendar.TimeRange, 0, len(intervals))
	for _, iv := range intervals {
		ranges = append(ranges, calendar.ClockRange(date, iv.Start, iv.End))
	}
	return ranges
}

// DaySchedule: часы работы и занятые интервалы площадки на дату.
type DaySchedule struct {
	Date     time.Time
	Weekday  model.Weekday
	OpensAt  datatypes.Time
	ClosesAt datatypes.Time
	Booked   []Interval
}

// Day строит проекцию дня тем же поиском расписания и тем же набором статусов, что и Check.
func (c *Checker) Day(ctx context.Context, facilityID uuid.UUID, date time.Time) (*DaySchedule, error) {
	date = calendar.DateOf(date)

	schedule, err := c.scheduleFor(ctx, facilityID, date)
	if err != nil {
		return nil, err
	}
	booked, err := c.booked(ctx, facilityID, date)
	if err != nil {
		return nil, err
	}

	return &DaySchedule{
		Date:     date,
		Weekday:  schedule.Weekday,
		OpensAt:  schedule.OpensAt,
		ClosesAt: schedule.ClosesAt,
		Booked:   booked,
	}, nil
}

// FreeSlots нарезает часы работы на слоты длиной step и отбрасывает те,
// которые Check отклонил бы из-за пересечения.
func (d *DaySchedule) FreeSlots(step time.Duration) ([]Interval, error) {
	if step%time.Minute != 0 {
		return nil, validationError("slot length must be whole minutes, got %s", step)
	}
	window, err := calendar.NewTimeRange(calendar.At(d.Date, d.OpensAt), calendar.At(d.Date, d.ClosesAt))
	if err != nil {
		return nil, ErrInvalidRange
	}
	slots, err := calendar.SplitToTimeSlots(window, step)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	booked := rangesOf(d.Date, d.Booked)
	free := make([]Interval, 0, len(slots))
	for _, s := range slots {
		if has, _ := calendar.HasOverlap(s, booked, false); has {
			continue
		}
		free = append(free, Interval{Start: calendar.ClockOf(s.Start), End: calendar.ClockOf(s.End)})
	}
	return free, nil
}
