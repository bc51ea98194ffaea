package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/reservefield/booking-core/internal/calendar"
	"github.com/reservefield/booking-core/internal/lock"
	"github.com/reservefield/booking-core/internal/model"
	"github.com/reservefield/booking-core/internal/repository"
)

// Quote: результат успешной проверки слота.
type Quote struct {
	FacilityID uuid.UUID
	Slot       Slot
	HourlyRate decimal.Decimal
	Total      decimal.Decimal
}

// CheckAndPrice проверяет слот и считает цену, ничего не записывая.
func (s *Service) CheckAndPrice(ctx context.Context, facilityID uuid.UUID, slot Slot) (*Quote, error) {
	facility, err := s.bookableFacility(ctx, s.store, facilityID)
	if err != nil {
		s.logFailure(err, "check_and_price")
		return nil, err
	}

	if err := s.checker(s.store).Check(ctx, facilityID, slot); err != nil {
		s.logFailure(err, "check_and_price")
		return nil, err
	}

	total, err := CalculatePrice(slot.Start, slot.End, facility.HourlyRate)
	if err != nil {
		return nil, err
	}

	return &Quote{
		FacilityID: facilityID,
		Slot:       slot,
		HourlyRate: facility.HourlyRate,
		Total:      total,
	}, nil
}

// CreateReservation проверяет слот и создаёт подтверждённую бронь.
// Проверка и вставка идут под блокировкой (площадка, дата) в одной транзакции,
// ограничения БД отсекают то, что проскочило мимо блокировки.
func (s *Service) CreateReservation(
	ctx context.Context,
	userID, facilityID uuid.UUID,
	slot Slot,
) (*model.Reservation, error) {
	if userID == uuid.Nil {
		return nil, validationError("user id is required")
	}
	slot.Date = calendar.DateOf(slot.Date)

	unlock, err := s.locker.Lock(ctx, lock.DayKey(facilityID, slot.Date))
	if err != nil {
		err = fmt.Errorf("acquire booking lock: %w", err)
		s.logFailure(err, "create_reservation")
		return nil, err
	}
	defer unlock()

	var created *model.Reservation
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Reservations.LockDay(ctx, facilityID, slot.Date); err != nil {
			return fmt.Errorf("lock day: %w", err)
		}

		facility, err := s.bookableFacility(ctx, tx, facilityID)
		if err != nil {
			return err
		}
		if err := s.checker(tx).Check(ctx, facilityID, slot); err != nil {
			return err
		}

		total, err := CalculatePrice(slot.Start, slot.End, facility.HourlyRate)
		if err != nil {
			return err
		}

		// Модерации нет: бронь сразу подтверждена.
		reservation := &model.Reservation{
			UserID:     userID,
			FacilityID: facilityID,
			Date:       datatypes.Date(slot.Date),
			StartTime:  slot.Start,
			EndTime:    slot.End,
			Status:     model.ReservationStatusConfirmed,
			Total:      total,
		}
		if err := tx.Reservations.Create(ctx, reservation); err != nil {
			if isSlotConflict(err) {
				return ErrOverlap
			}
			return fmt.Errorf("create reservation: %w", err)
		}

		if err := s.recordEvent(ctx, tx, &model.Event{
			EventType:     model.EventTypeReservationCreated,
			UserID:        ptr(userID),
			FacilityID:    ptr(facilityID),
			ReservationID: ptr(reservation.ID),
			Details:       fmt.Sprintf("%s, total %s", calendar.FormatSlotForUser(slot.Range(), false, ""), total.StringFixed(2)),
		}); err != nil {
			return err
		}

		reservation.Facility = facility
		created = reservation
		return nil
	})
	if err != nil {
		s.logFailure(err, "create_reservation")
		return nil, err
	}

	s.logger.Info().
		Str("reservation_id", created.ID.String()).
		Str("facility_id", facilityID.String()).
		Str("user_id", userID.String()).
		Str("date", slot.Date.Format(calendar.DateLayout)).
		Str("total", created.Total.StringFixed(2)).
		Msg("reservation created")

	return created, nil
}

// CancelReservation отменяет бронь владельца. Бронь на сегодня и раньше отменить нельзя.
func (s *Service) CancelReservation(ctx context.Context, reservationID, userID uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		reservation, err := s.reservation(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		if reservation.UserID != userID {
			return ErrNotOwner
		}
		if !calendar.DateOf(time.Time(reservation.Date)).After(s.Today()) {
			return ErrPastDate
		}
		if !reservation.Status.CanTransition(model.ReservationStatusCancelled) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, reservation.Status, model.ReservationStatusCancelled)
		}

		now := s.now().UTC()
		if err := tx.Reservations.UpdateStatus(ctx, reservationID, model.ReservationStatusCancelled, &now); err != nil {
			return fmt.Errorf("cancel reservation: %w", err)
		}

		return s.recordEvent(ctx, tx, &model.Event{
			EventType:     model.EventTypeReservationCancelled,
			UserID:        ptr(userID),
			FacilityID:    ptr(reservation.FacilityID),
			ReservationID: ptr(reservationID),
		})
	})
	if err != nil {
		s.logFailure(err, "cancel_reservation")
		return err
	}

	s.logger.Info().
		Str("reservation_id", reservationID.String()).
		Str("user_id", userID.String()).
		Msg("reservation cancelled")
	return nil
}

// CompleteReservation переводит подтверждённую бронь в завершённые.
// Вызывается извне (администратор или плановая задача).
func (s *Service) CompleteReservation(ctx context.Context, reservationID uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		reservation, err := s.reservation(ctx, tx, reservationID)
		if err != nil {
			return err
		}
		if !reservation.Status.CanTransition(model.ReservationStatusCompleted) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, reservation.Status, model.ReservationStatusCompleted)
		}

		if err := tx.Reservations.UpdateStatus(ctx, reservationID, model.ReservationStatusCompleted, nil); err != nil {
			return fmt.Errorf("complete reservation: %w", err)
		}

		return s.recordEvent(ctx, tx, &model.Event{
			EventType:     model.EventTypeReservationCompleted,
			UserID:        ptr(reservation.UserID),
			FacilityID:    ptr(reservation.FacilityID),
			ReservationID: ptr(reservationID),
		})
	})
	s.logFailure(err, "complete_reservation")
	return err
}

func (s *Service) reservation(ctx context.Context, store *repository.Store, id uuid.UUID) (*model.Reservation, error) {
	reservation, err := store.Reservations.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("reservation %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return reservation, nil
}

// ListReservations отдаёт "мои брони": предстоящие или история, с поиском и страницами.
// search, похожий на дату YYYY-MM-DD, ищет по дате, иначе по названию площадки.
func (s *Service) ListReservations(
	ctx context.Context,
	userID uuid.UUID,
	tab repository.ReservationTab,
	search string,
	page, pageSize int,
) (calendar.Page[model.Reservation], error) {
	if tab != repository.ReservationTabHistory {
		tab = repository.ReservationTabUpcoming
	}

	filter := repository.ReservationFilter{
		UserID: userID,
		Tab:    tab,
		Today:  s.Today(),
	}
	if search != "" {
		if d, err := calendar.ParseDate(search); err == nil {
			filter.Date = &d
		} else {
			filter.FacilityName = search
		}
	}

	page, pageSize = calendar.NormalizePage(page, pageSize)
	items, total, err := s.store.Reservations.ListByUser(ctx, filter, pageSize, calendar.Offset(page, pageSize))
	if err != nil {
		err = fmt.Errorf("list reservations: %w", err)
		s.logFailure(err, "list_reservations")
		return calendar.Page[model.Reservation]{}, err
	}

	return calendar.NewPage(items, page, pageSize, total), nil
}

// DayAvailability: часы работы и занятые интервалы площадки на дату.
func (s *Service) DayAvailability(ctx context.Context, facilityID uuid.UUID, date time.Time) (*DaySchedule, error) {
	if _, err := s.facility(ctx, s.store, facilityID); err != nil {
		s.logFailure(err, "day_availability")
		return nil, err
	}

	day, err := s.checker(s.store).Day(ctx, facilityID, date)
	if err != nil {
		s.logFailure(err, "day_availability")
		return nil, err
	}
	return day, nil
}

// FreeSlots: свободные слоты длиной step на дату.
func (s *Service) FreeSlots(ctx context.Context, facilityID uuid.UUID, date time.Time, step time.Duration) ([]Interval, error) {
	if calendar.DateOf(date).Before(s.Today()) {
		return nil, ErrPastDate
	}

	day, err := s.DayAvailability(ctx, facilityID, date)
	if err != nil {
		return nil, err
	}
	return day.FreeSlots(step)
}
