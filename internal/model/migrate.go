package model

import (
	"fmt"

	"gorm.io/gorm"
)

// AutoMigrate выполняет миграцию всех сущностей ядра бронирования
// и создаёт ограничения, которые GORM не умеет описать тегами.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Facility{},
		&WeeklySchedule{},
		&Reservation{},
		&Review{},
		&Event{},
	); err != nil {
		return err
	}

	// Частичный уникальный индекс: отменённая бронь не мешает снова занять то же начало.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_reservations_active_start
		ON reservations (facility_id, "date", start_time)
		WHERE status IN ('pending', 'confirmed')`).Error; err != nil {
		return fmt.Errorf("create active start index: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		return migratePostgresExclusion(db)
	}
	return nil
}

// Исключающее ограничение по интервалу [start, end) для активных броней.
func migratePostgresExclusion(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("create btree_gist: %w", err)
	}

	var exists int64
	if err := db.Raw(
		`SELECT COUNT(*) FROM pg_constraint WHERE conname = ?`,
		"reservations_no_overlap",
	).Scan(&exists).Error; err != nil {
		return fmt.Errorf("lookup exclusion constraint: %w", err)
	}
	if exists > 0 {
		return nil
	}

	err := db.Exec(`ALTER TABLE reservations ADD CONSTRAINT reservations_no_overlap
		EXCLUDE USING gist (
			facility_id WITH =,
			tsrange("date" + start_time, "date" + end_time, '[)') WITH &&
		) WHERE (status IN ('pending', 'confirmed'))`).Error
	if err != nil {
		return fmt.Errorf("create exclusion constraint: %w", err)
	}
	return nil
}
