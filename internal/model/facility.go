package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Тип площадки.
type FacilityType string

const (
	FacilityTypeFootball   FacilityType = "football"
	FacilityTypeTennis     FacilityType = "tennis"
	FacilityTypePadel      FacilityType = "padel"
	FacilityTypeBasketball FacilityType = "basketball"
	FacilityTypeVolleyball FacilityType = "volleyball"
)

// FacilityTypes: допустимые типы в порядке показа в каталоге.
var FacilityTypes = []FacilityType{
	FacilityTypeFootball,
	FacilityTypeTennis,
	FacilityTypePadel,
	FacilityTypeBasketball,
	FacilityTypeVolleyball,
}

func (t FacilityType) Valid() bool {
	for _, v := range FacilityTypes {
		if v == t {
			return true
		}
	}
	return false
}

// facilities: бронируемые площадки ("canchas").
type Facility struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name        string       `gorm:"type:varchar(200);not null"`
	Description string       `gorm:"type:text"`
	Type        FacilityType `gorm:"type:varchar(20);not null;index"`
	Location    string       `gorm:"type:varchar(300)"`

	HourlyRate decimal.Decimal `gorm:"type:numeric(8,2);not null"`

	// Производные поля, пересчитываются агрегатором оценок.
	Rating      float64 `gorm:"not null;default:0"`
	ReviewCount int     `gorm:"not null;default:0"`

	Capacity  int  `gorm:"not null"`
	Available bool `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Schedules []WeeklySchedule `gorm:"foreignKey:FacilityID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Reviews   []Review         `gorm:"foreignKey:FacilityID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (f *Facility) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
