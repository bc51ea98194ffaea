package booking

import (
	"errors"
	"fmt"

	"gorm.io/datatypes"

	"github.com/reservefield/booking-core/internal/calendar"
)

// Причины отказа. Все они возвращаются пользователю как понятное сообщение
// и не считаются сбоем запроса.
var (
	ErrValidation            = errors.New("invalid input")
	ErrPastDate              = errors.New("date is in the past")
	ErrInvalidRange          = errors.New("start time must be before end time")
	ErrNoScheduleForDay      = errors.New("no schedule for this day")
	ErrOutsideOperatingHours = errors.New("outside operating hours")
	ErrOverlap               = errors.New("time slot is already booked")
	ErrNotFound              = errors.New("not found")
	ErrNotOwner              = errors.New("reservation belongs to another user")
	ErrFacilityUnavailable   = errors.New("facility is not available for booking")
	ErrInvalidTransition     = errors.New("invalid reservation status transition")
)

// OutsideHoursError несёт фактические часы работы площадки в этот день.
type OutsideHoursError struct {
	Opens  datatypes.Time
	Closes datatypes.Time
}

func (e *OutsideHoursError) Error() string {
	return fmt.Sprintf("%s: booking must be between %s and %s",
		ErrOutsideOperatingHours, calendar.FormatClock(e.Opens), calendar.FormatClock(e.Closes))
}

func (e *OutsideHoursError) Is(target error) bool {
	return target == ErrOutsideOperatingHours
}

// Reason: стабильный код причины отказа для API.
type Reason string

const (
	ReasonValidation            Reason = "validation"
	ReasonPastDate              Reason = "past_date"
	ReasonInvalidRange          Reason = "invalid_range"
	ReasonNoScheduleForDay      Reason = "no_schedule_for_day"
	ReasonOutsideOperatingHours Reason = "outside_operating_hours"
	ReasonOverlap               Reason = "overlap"
	ReasonNotFound              Reason = "not_found"
	ReasonNotOwner              Reason = "not_owner"
	ReasonFacilityUnavailable   Reason = "facility_unavailable"
	ReasonInvalidTransition     Reason = "invalid_transition"
)

var reasons = []struct {
	err    error
	reason Reason
}{
	{ErrValidation, ReasonValidation},
	{ErrPastDate, ReasonPastDate},
	{ErrInvalidRange, ReasonInvalidRange},
	{ErrNoScheduleForDay, ReasonNoScheduleForDay},
	{ErrOutsideOperatingHours, ReasonOutsideOperatingHours},
	{ErrOverlap, ReasonOverlap},
	{ErrNotFound, ReasonNotFound},
	{ErrNotOwner, ReasonNotOwner},
	{ErrFacilityUnavailable, ReasonFacilityUnavailable},
	{ErrInvalidTransition, ReasonInvalidTransition},
}

// ReasonOf возвращает код причины или "" для прочих (инфраструктурных) ошибок.
func ReasonOf(err error) Reason {
	if err == nil {
		return ""
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return ""
}

// IsRejection: ошибка является отказом по бизнес-правилу, а не сбоем хранилища.
func IsRejection(err error) bool {
	return ReasonOf(err) != ""
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
