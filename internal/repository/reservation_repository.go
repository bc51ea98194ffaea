package repository

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/reservefield/booking-core/internal/calendar"
	"github.com/reservefield/booking-core/internal/model"
)

// ReservationTab: вкладка "мои брони".
type ReservationTab string

const (
	ReservationTabUpcoming ReservationTab = "upcoming"
	ReservationTabHistory  ReservationTab = "history"
)

// ReservationFilter: выборка броней пользователя.
type ReservationFilter struct {
	UserID uuid.UUID
	Tab    ReservationTab
	// Сегодняшняя дата в локали сервиса: граница между вкладками.
	Today time.Time
	// Подстрока названия площадки.
	FacilityName string
	// Точная дата брони, если задана.
	Date *time.Time
}

type ReservationRepository interface {
	// Создать новую бронь.
	Create(ctx context.Context, reservation *model.Reservation) error
	// Получить бронь по ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	// Обновить статус брони (например, при отмене).
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReservationStatus, cancelledAt *time.Time) error
	// Активные брони площадки на дату, по времени начала.
	ListActiveByFacilityDate(ctx context.Context, facilityID uuid.UUID, date time.Time) ([]model.Reservation, error)
	// Брони пользователя с пагинацией.
	ListByUser(ctx context.Context, filter ReservationFilter, limit, offset int) ([]model.Reservation, int64, error)
	// Сериализует запись броней площадки на дату до конца транзакции.
	LockDay(ctx context.Context, facilityID uuid.UUID, date time.Time) error
}

// Реализация на GORM.
type GormReservationRepository struct {
	db *gorm.DB
}

func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

func (r *GormReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *GormReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	var res model.Reservation
	if err := r.db.WithContext(ctx).First(&res, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &res, nil
}

func (r *GormReservationRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status model.ReservationStatus,
	cancelledAt *time.Time,
) error {
	update := map[string]any{
		"status": status,
	}
	if cancelledAt != nil {
		update["cancelled_at"] = *cancelledAt
	}
	res := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("id = ?", id).
		Updates(update)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormReservationRepository) ListActiveByFacilityDate(
	ctx context.Context,
	facilityID uuid.UUID,
	date time.Time,
) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.WithContext(ctx).
		Where("facility_id = ?", facilityID).
		Where(`"date" = ?`, datatypes.Date(calendar.DateOf(date))).
		Where("status IN ?", model.ActiveReservationStatuses).
		Order("start_time ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *GormReservationRepository) ListByUser(
	ctx context.Context,
	filter ReservationFilter,
	limit, offset int,
) ([]model.Reservation, int64, error) {
	var (
		reservations []model.Reservation
		total        int64
	)

	today := datatypes.Date(calendar.DateOf(filter.Today))

	q := r.db.WithContext(ctx).
		Model(&model.Reservation{}).
		Where("user_id = ?", filter.UserID)

	switch filter.Tab {
	case ReservationTabHistory:
		q = q.Where(`("date" < ? OR status IN ?)`, today, model.TerminalReservationStatuses)
	default:
		q = q.Where(`"date" >= ?`, today).
			Where("status IN ?", model.ActiveReservationStatuses)
	}

	if filter.FacilityName != "" {
		q = q.Where("facility_id IN (?)",
			r.db.Model(&model.Facility{}).
				Select("id").
				Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(filter.FacilityName)),
		)
	}
	if filter.Date != nil {
		q = q.Where(`"date" = ?`, datatypes.Date(calendar.DateOf(*filter.Date)))
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	order := `"date" ASC, start_time ASC`
	if filter.Tab == ReservationTabHistory {
		order = `"date" DESC, start_time DESC`
	}

	if err := q.Preload("Facility").Order(order).Find(&reservations).Error; err != nil {
		return nil, 0, err
	}

	return reservations, total, nil
}

// LockDay берёт транзакционную advisory-блокировку PostgreSQL на пару (площадка, дата).
// В sqlite запись и так сериализована единственным писателем.
func (r *GormReservationRepository) LockDay(ctx context.Context, facilityID uuid.UUID, date time.Time) error {
	if r.db.Dialector.Name() != "postgres" {
		return nil
	}
	return r.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(?)", DayLockKey(facilityID, date)).
		Error
}

// DayLockKey: 64-битный ключ блокировки для пары (площадка, дата).
func DayLockKey(facilityID uuid.UUID, date time.Time) int64 {
	h := fnv.New64a()
	h.Write(facilityID[:])
	h.Write([]byte(calendar.DateOf(date).Format(calendar.DateLayout)))
	return int64(h.Sum64())
}
