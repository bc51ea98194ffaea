package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reservefield/booking-core/internal/model"
)

type ReviewRepository interface {
	// Upsert создаёт отзыв или обновляет существующий по паре (площадка, пользователь).
	Upsert(ctx context.Context, review *model.Review) error
	GetByFacilityAndUser(ctx context.Context, facilityID, userID uuid.UUID) (*model.Review, error)
	Delete(ctx context.Context, facilityID, userID uuid.UUID) error
	// Все оценки площадки.
	ListRatings(ctx context.Context, facilityID uuid.UUID) ([]int, error)
}

type GormReviewRepository struct {
	db *gorm.DB
}

func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

func (r *GormReviewRepository) Upsert(ctx context.Context, review *model.Review) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "facility_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
		}).
		Create(review).Error
	if err != nil {
		return err
	}

	stored, err := r.GetByFacilityAndUser(ctx, review.FacilityID, review.UserID)
	if err != nil {
		return err
	}
	*review = *stored
	return nil
}

func (r *GormReviewRepository) GetByFacilityAndUser(ctx context.Context, facilityID, userID uuid.UUID) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Where("facility_id = ? AND user_id = ?", facilityID, userID).
		First(&review).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &review, nil
}

func (r *GormReviewRepository) Delete(ctx context.Context, facilityID, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("facility_id = ? AND user_id = ?", facilityID, userID).
		Delete(&model.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormReviewRepository) ListRatings(ctx context.Context, facilityID uuid.UUID) ([]int, error) {
	var ratings []int
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("facility_id = ?", facilityID).
		Order("created_at ASC").
		Pluck("rating", &ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}
