package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reservefield/booking-core/internal/model"
)

type ScheduleRepository interface {
	// GetForDay возвращает часы работы площадки в указанный день недели.
	GetForDay(ctx context.Context, facilityID uuid.UUID, day model.Weekday) (*model.WeeklySchedule, error)
	// Upsert создаёт или заменяет часы работы на день.
	Upsert(ctx context.Context, schedule *model.WeeklySchedule) error
}

type GormScheduleRepository struct {
	db *gorm.DB
}

func NewGormScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: db}
}

func (r *GormScheduleRepository) GetForDay(ctx context.Context, facilityID uuid.UUID, day model.Weekday) (*model.WeeklySchedule, error) {
	var s model.WeeklySchedule
	err := r.db.WithContext(ctx).
		Where("facility_id = ? AND weekday = ?", facilityID, day).
		First(&s).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *GormScheduleRepository) Upsert(ctx context.Context, schedule *model.WeeklySchedule) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "facility_id"}, {Name: "weekday"}},
			DoUpdates: clause.AssignmentColumns([]string{"opens_at", "closes_at", "updated_at"}),
		}).
		Create(schedule).Error
	if err != nil {
		return err
	}

	// при конфликте ID в структуре не совпадает с сохранённым: перечитываем
	stored, err := r.GetForDay(ctx, schedule.FacilityID, schedule.Weekday)
	if err != nil {
		return err
	}
	*schedule = *stored
	return nil
}
