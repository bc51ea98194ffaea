package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/reservefield/booking-core/internal/model"
	"github.com/reservefield/booking-core/internal/repository"
)

// SubmitReview создаёт или обновляет отзыв пользователя и в той же транзакции
// пересчитывает рейтинг площадки.
func (s *Service) SubmitReview(
	ctx context.Context,
	userID, facilityID uuid.UUID,
	rating int,
	comment string,
) (*model.Review, error) {
	if userID == uuid.Nil {
		return nil, validationError("user id is required")
	}
	if rating < model.MinRating || rating > model.MaxRating {
		return nil, validationError("rating must be between %d and %d, got %d", model.MinRating, model.MaxRating, rating)
	}

	review := &model.Review{
		FacilityID: facilityID,
		UserID:     userID,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
	}

	var agg RatingAggregate
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := s.facility(ctx, tx, facilityID); err != nil {
			return err
		}
		if err := tx.Reviews.Upsert(ctx, review); err != nil {
			return fmt.Errorf("upsert review: %w", err)
		}

		var err error
		if agg, err = s.recomputeRating(ctx, tx, facilityID); err != nil {
			return err
		}

		return s.recordEvent(ctx, tx, &model.Event{
			EventType:  model.EventTypeReviewSubmitted,
			UserID:     ptr(userID),
			FacilityID: ptr(facilityID),
			Details:    fmt.Sprintf("rating %d", rating),
		})
	})
	if err != nil {
		s.logFailure(err, "submit_review")
		return nil, err
	}

	s.logger.Info().
		Str("facility_id", facilityID.String()).
		Str("user_id", userID.String()).
		Int("rating", rating).
		Float64("average", agg.Average).
		Int("count", agg.Count).
		Msg("review submitted")

	return review, nil
}

// DeleteReview удаляет отзыв пользователя и пересчитывает рейтинг.
func (s *Service) DeleteReview(ctx context.Context, userID, facilityID uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		err := tx.Reviews.Delete(ctx, facilityID, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("review: %w", ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("delete review: %w", err)
		}

		if _, err := s.recomputeRating(ctx, tx, facilityID); err != nil {
			return err
		}

		return s.recordEvent(ctx, tx, &model.Event{
			EventType:  model.EventTypeReviewDeleted,
			UserID:     ptr(userID),
			FacilityID: ptr(facilityID),
		})
	})
	s.logFailure(err, "delete_review")
	return err
}

// RecomputeFacilityRating пересчитывает рейтинг по текущему набору отзывов.
// Повторный запуск на тех же отзывах даёт те же значения.
func (s *Service) RecomputeFacilityRating(ctx context.Context, facilityID uuid.UUID) (RatingAggregate, error) {
	var agg RatingAggregate
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		agg, err = s.recomputeRating(ctx, tx, facilityID)
		return err
	})
	return agg, err
}

func (s *Service) recomputeRating(ctx context.Context, tx *repository.Store, facilityID uuid.UUID) (RatingAggregate, error) {
	ratings, err := tx.Reviews.ListRatings(ctx, facilityID)
	if err != nil {
		return RatingAggregate{}, fmt.Errorf("list ratings: %w", err)
	}

	agg := AggregateRatings(ratings)
	err = tx.Facilities.UpdateRating(ctx, facilityID, agg.Average, agg.Count)
	if errors.Is(err, repository.ErrNotFound) {
		return RatingAggregate{}, fmt.Errorf("facility %s: %w", facilityID, ErrNotFound)
	}
	if err != nil {
		return RatingAggregate{}, fmt.Errorf("update rating: %w", err)
	}
	return agg, nil
}
