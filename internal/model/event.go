package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Тип события аудита.
type EventType string

const (
	EventTypeReservationCreated   EventType = "reservation_created"
	EventTypeReservationCancelled EventType = "reservation_cancelled"
	EventTypeReservationCompleted EventType = "reservation_completed"
	EventTypeReviewSubmitted      EventType = "review_submitted"
	EventTypeReviewDeleted        EventType = "review_deleted"
)

// events: события аудита, пишутся в той же транзакции, что и изменение.
type Event struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	EventType EventType `gorm:"type:varchar(64);not null;index"`

	CreatedAt time.Time `gorm:"not null;index"`

	UserID        *uuid.UUID `gorm:"type:uuid;index"`
	FacilityID    *uuid.UUID `gorm:"type:uuid;index"`
	ReservationID *uuid.UUID `gorm:"type:uuid;index"`

	Details string `gorm:"type:text"`
}

func (e *Event) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
