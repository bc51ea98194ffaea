package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/reservefield/booking-core/internal/calendar"
	"github.com/reservefield/booking-core/internal/lock"
	"github.com/reservefield/booking-core/internal/model"
	"github.com/reservefield/booking-core/internal/repository"
)

// Service это ядро бронирования: проверка и цена слота, жизненный цикл броней,
// отзывы с пересчётом рейтинга, проекция доступности дня.
type Service struct {
	store  *repository.Store
	locker lock.Locker
	now    func() time.Time
	loc    *time.Location
	logger zerolog.Logger
}

type Option func(*Service)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation задаёт локаль, в которой считается "сегодня".
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

func WithLocker(l lock.Locker) Option {
	return func(s *Service) { s.locker = l }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(store *repository.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		locker: lock.NewLocalLocker(),
		now:    time.Now,
		loc:    time.Local,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today: текущая дата в локали сервиса.
func (s *Service) Today() time.Time {
	return calendar.Today(s.now(), s.loc)
}

func (s *Service) checker(store *repository.Store) *Checker {
	return NewChecker(store.Schedules, store.Reservations, s.Today)
}

// facility загружает площадку; отсутствующая: ErrNotFound.
func (s *Service) facility(ctx context.Context, store *repository.Store, id uuid.UUID) (*model.Facility, error) {
	f, err := store.Facilities.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("facility %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get facility: %w", err)
	}
	return f, nil
}

func (s *Service) bookableFacility(ctx context.Context, store *repository.Store, id uuid.UUID) (*model.Facility, error) {
	f, err := s.facility(ctx, store, id)
	if err != nil {
		return nil, err
	}
	if !f.Available {
		return nil, ErrFacilityUnavailable
	}
	return f, nil
}

func (s *Service) recordEvent(ctx context.Context, store *repository.Store, event *model.Event) error {
	if err := store.Events.Create(ctx, event); err != nil {
		return fmt.Errorf("record %s event: %w", event.EventType, err)
	}
	return nil
}

// logFailure пишет в лог только сбои; отказы по правилам: штатный исход.
func (s *Service) logFailure(err error, op string) {
	if err != nil && !IsRejection(err) {
		s.logger.Error().Err(err).Str("op", op).Msg("booking operation failed")
	}
}

// isSlotConflict распознаёт нарушение уникального индекса или
// исключающего ограничения по интервалу.
func isSlotConflict(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23P01" || pgErr.Code == "23505"
	}
	return false
}

func ptr[T any](v T) *T { return &v }
