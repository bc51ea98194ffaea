package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound: запись не найдена.
var ErrNotFound = errors.New("record not found")

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Store объединяет репозитории над одним соединением или транзакцией.
type Store struct {
	db *gorm.DB

	Facilities   *GormFacilityRepository
	Schedules    *GormScheduleRepository
	Reservations *GormReservationRepository
	Reviews      *GormReviewRepository
	Events       *GormEventRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		Facilities:   NewGormFacilityRepository(db),
		Schedules:    NewGormScheduleRepository(db),
		Reservations: NewGormReservationRepository(db),
		Reviews:      NewGormReviewRepository(db),
		Events:       NewGormEventRepository(db),
	}
}

// Transaction выполняет fn в транзакции; репозитории внутри fn привязаны к ней.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Dialect: имя драйвера ("postgres", "sqlite").
func (s *Store) Dialect() string {
	return s.db.Dialector.Name()
}
