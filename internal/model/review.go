package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinRating = 1
	MaxRating = 5
)

// reviews: один отзыв на пару (площадка, пользователь), повторная отправка обновляет его.
type Review struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	FacilityID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_facility_user,priority:1"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_facility_user,priority:2"`

	Rating  int    `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (r *Review) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
