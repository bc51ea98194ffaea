package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// ActiveReservationStatuses: статусы, которые занимают время площадки.
var ActiveReservationStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
}

// TerminalReservationStatuses: из них переходов нет.
var TerminalReservationStatuses = []ReservationStatus{
	ReservationStatusCompleted,
	ReservationStatusCancelled,
}

func (s ReservationStatus) Active() bool {
	return s == ReservationStatusPending || s == ReservationStatusConfirmed
}

// CanTransition: pending → confirmed → completed; pending|confirmed → cancelled.
func (s ReservationStatus) CanTransition(to ReservationStatus) bool {
	switch s {
	case ReservationStatusPending:
		return to == ReservationStatusConfirmed || to == ReservationStatusCancelled
	case ReservationStatusConfirmed:
		return to == ReservationStatusCompleted || to == ReservationStatusCancelled
	default:
		return false
	}
}

// reservations
type Reservation struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	// Непрозрачный идентификатор из сервиса учётных записей.
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	FacilityID uuid.UUID `gorm:"type:uuid;not null;index:idx_reservations_facility_date,priority:1"`

	Date      datatypes.Date `gorm:"not null;index:idx_reservations_facility_date,priority:2"`
	StartTime datatypes.Time `gorm:"not null"`
	EndTime   datatypes.Time `gorm:"not null"`

	Status ReservationStatus `gorm:"type:varchar(20);not null;index"`
	Total  decimal.Decimal   `gorm:"type:numeric(8,2);not null"`

	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
	CancelledAt *time.Time

	Facility *Facility `gorm:"foreignKey:FacilityID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (r *Reservation) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
