package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Weekday: день недели, 0 = понедельник ... 6 = воскресенье.
// Нумерация не совпадает с time.Weekday (там 0 = воскресенье).
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

// WeekdayOf возвращает день недели даты в нумерации расписаний.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

func (w Weekday) Valid() bool { return w >= Monday && w <= Sunday }

// Name: отображаемое название дня.
func (w Weekday) Name() string {
	if !w.Valid() {
		return ""
	}
	return weekdayNames[w]
}

// weekly_schedules: часы работы площадки по дням недели.
type WeeklySchedule struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	FacilityID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_weekly_schedules_facility_day,priority:1"`
	Weekday    Weekday   `gorm:"not null;uniqueIndex:idx_weekly_schedules_facility_day,priority:2"`

	OpensAt  datatypes.Time `gorm:"not null"`
	ClosesAt datatypes.Time `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Facility *Facility `gorm:"foreignKey:FacilityID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (s *WeeklySchedule) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
