package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/reservefield/booking-core/internal/calendar"
	"github.com/reservefield/booking-core/internal/model"
	"github.com/reservefield/booking-core/internal/repository"
)

const defaultCapacity = 10

// NewFacility: данные для заведения площадки администратором.
type NewFacility struct {
	Name        string
	Description string
	Type        model.FacilityType
	Location    string
	HourlyRate  decimal.Decimal
	Capacity    int
	Available   bool
}

func (in NewFacility) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return validationError("facility name is required")
	}
	if !in.Type.Valid() {
		return validationError("unknown facility type %q", in.Type)
	}
	if in.HourlyRate.IsNegative() {
		return validationError("hourly rate must not be negative")
	}
	if in.Capacity < 0 {
		return validationError("capacity must not be negative")
	}
	return nil
}

func (s *Service) CreateFacility(ctx context.Context, in NewFacility) (*model.Facility, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	capacity := in.Capacity
	if capacity == 0 {
		capacity = defaultCapacity
	}

	f := &model.Facility{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Type:        in.Type,
		Location:    in.Location,
		HourlyRate:  in.HourlyRate.Round(2),
		Capacity:    capacity,
		Available:   in.Available,
	}
	if err := s.store.Facilities.Create(ctx, f); err != nil {
		err = fmt.Errorf("create facility: %w", err)
		s.logFailure(err, "create_facility")
		return nil, err
	}

	s.logger.Info().Str("facility_id", f.ID.String()).Str("name", f.Name).Msg("facility created")
	return f, nil
}

// SetWeeklySchedule задаёт часы работы площадки на день недели.
func (s *Service) SetWeeklySchedule(
	ctx context.Context,
	facilityID uuid.UUID,
	day model.Weekday,
	opens, closes datatypes.Time,
) (*model.WeeklySchedule, error) {
	if !day.Valid() {
		return nil, validationError("weekday must be between 0 and 6, got %d", day)
	}
	if !calendar.WholeMinute(opens) || !calendar.WholeMinute(closes) {
		return nil, validationError("opening hours must be whole minutes")
	}
	if opens >= closes {
		return nil, ErrInvalidRange
	}
	if _, err := s.facility(ctx, s.store, facilityID); err != nil {
		return nil, err
	}

	schedule := &model.WeeklySchedule{
		FacilityID: facilityID,
		Weekday:    day,
		OpensAt:    opens,
		ClosesAt:   closes,
	}
	if err := s.store.Schedules.Upsert(ctx, schedule); err != nil {
		err = fmt.Errorf("upsert schedule: %w", err)
		s.logFailure(err, "set_weekly_schedule")
		return nil, err
	}
	return schedule, nil
}

// ListFacilities: каталог доступных площадок с фильтрами.
func (s *Service) ListFacilities(
	ctx context.Context,
	filter repository.FacilityFilter,
	page, pageSize int,
) (calendar.Page[model.Facility], error) {
	filter.OnlyAvailable = true
	facilities, err := s.store.Facilities.List(ctx, filter)
	if err != nil {
		err = fmt.Errorf("list facilities: %w", err)
		s.logFailure(err, "list_facilities")
		return calendar.Page[model.Facility]{}, err
	}
	return calendar.Paginate(facilities, page, pageSize), nil
}

// FacilityDetail: карточка площадки.
type FacilityDetail struct {
	Facility  *model.Facility
	OwnReview *model.Review
}

func (s *Service) FacilityDetail(ctx context.Context, facilityID, userID uuid.UUID) (*FacilityDetail, error) {
	f, err := s.store.Facilities.GetWithDetails(ctx, facilityID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("facility %s: %w", facilityID, ErrNotFound)
	}
	if err != nil {
		err = fmt.Errorf("get facility details: %w", err)
		s.logFailure(err, "facility_detail")
		return nil, err
	}

	detail := &FacilityDetail{Facility: f}
	for i := range f.Reviews {
		if f.Reviews[i].UserID == userID {
			detail.OwnReview = &f.Reviews[i]
			break
		}
	}
	return detail, nil
}
