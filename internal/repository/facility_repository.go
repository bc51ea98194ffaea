package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/reservefield/booking-core/internal/model"
)

// FacilityFilter: фильтры каталога площадок.
type FacilityFilter struct {
	Type     model.FacilityType
	Location string
	Search   string // по названию, описанию и адресу
	// Только доступные для бронирования.
	OnlyAvailable bool
}

type FacilityRepository interface {
	Create(ctx context.Context, facility *model.Facility) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Facility, error)
	// Площадка с расписанием (по дням недели) и отзывами (новые первыми).
	GetWithDetails(ctx context.Context, id uuid.UUID) (*model.Facility, error)
	List(ctx context.Context, filter FacilityFilter) ([]model.Facility, error)
	// Записать производные поля рейтинга.
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64, reviewCount int) error
}

type GormFacilityRepository struct {
	db *gorm.DB
}

func NewGormFacilityRepository(db *gorm.DB) *GormFacilityRepository {
	return &GormFacilityRepository{db: db}
}

func (r *GormFacilityRepository) Create(ctx context.Context, facility *model.Facility) error {
	return r.db.WithContext(ctx).Create(facility).Error
}

func (r *GormFacilityRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Facility, error) {
	var f model.Facility
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

func (r *GormFacilityRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*model.Facility, error) {
	var f model.Facility
	err := r.db.WithContext(ctx).
		Preload("Schedules", func(db *gorm.DB) *gorm.DB {
			return db.Order("weekday ASC")
		}).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&f, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &f, nil
}

func (r *GormFacilityRepository) List(ctx context.Context, filter FacilityFilter) ([]model.Facility, error) {
	q := r.db.WithContext(ctx).Model(&model.Facility{})

	if filter.OnlyAvailable {
		q = q.Where("available = ?", true)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Location != "" {
		q = q.Where(`LOWER(location) LIKE ? ESCAPE '\'`, likePattern(filter.Location))
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where(`(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(location) LIKE ? ESCAPE '\')`, p, p, p)
	}

	var facilities []model.Facility
	if err := q.Order("created_at DESC").Find(&facilities).Error; err != nil {
		return nil, err
	}
	return facilities, nil
}

func (r *GormFacilityRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64, reviewCount int) error {
	res := r.db.WithContext(ctx).
		Model(&model.Facility{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"rating":       rating,
			"review_count": reviewCount,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern: подстрочный поиск без учёта регистра, % и _ ищутся буквально.
// Запрос обязан объявлять ESCAPE '\'.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}
