// player/service/review_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/Ftotnem/FIFA-SERVICES/shared/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReviewService manages the review sequence embedded in each player.
type ReviewService struct {
	repo   PlayerRepository
	logger *slog.Logger
}

// NewReviewService creates a new ReviewService instance.
func NewReviewService(repo PlayerRepository, logger *slog.Logger) *ReviewService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewService{repo: repo, logger: logger}
}

// AddReview appends a new review to the player and returns the review's identifier.
func (rs *ReviewService) AddReview(ctx context.Context, playerID string, form url.Values) (primitive.ObjectID, error) {
	pid, err := models.ParseID(playerID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	fields, err := ValidateFields(form, models.ReviewFields)
	if err != nil {
		return primitive.NilObjectID, err
	}

	review := models.NewReview(fields["username"], fields["comment"], fields["rating"])
	if err := rs.repo.PushReview(ctx, pid, review); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return primitive.NilObjectID, ErrPlayerNotFound
		}
		return primitive.NilObjectID, fmt.Errorf("service failed to add review to player %s: %w", playerID, err)
	}
	rs.logger.Info("Review added.", "player_id", playerID, "review_id", review.ID.Hex())
	return review.ID, nil
}

// ListReviews returns the player's reviews; never nil for an existing player.
func (rs *ReviewService) ListReviews(ctx context.Context, playerID string) ([]models.Review, error) {
	pid, err := models.ParseID(playerID)
	if err != nil {
		return nil, err
	}
	reviews, err := rs.repo.GetReviews(ctx, pid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("service failed to list reviews of player %s: %w", playerID, err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, nil
}

// GetReview finds a review by its own identifier. The player identifier is
// checked for format only; the review is located in whichever player holds it.
func (rs *ReviewService) GetReview(ctx context.Context, playerID, reviewID string) (*models.Review, error) {
	if _, err := models.ParseID(playerID); err != nil {
		return nil, err
	}
	rid, err := models.ParseID(reviewID)
	if err != nil {
		return nil, err
	}
	review, err := rs.repo.FindReview(ctx, rid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("service failed to get review %s: %w", reviewID, err)
	}
	return review, nil
}

// EditReview replaces username, comment and rating of the review in place.
// Like GetReview it matches on the review identifier alone, so the first
// player found holding that id is the one updated.
func (rs *ReviewService) EditReview(ctx context.Context, playerID, reviewID string, form url.Values) error {
	if _, err := models.ParseID(playerID); err != nil {
		return err
	}
	rid, err := models.ParseID(reviewID)
	if err != nil {
		return err
	}
	fields, err := ValidateFields(form, models.ReviewFields)
	if err != nil {
		return err
	}
	if err := rs.repo.UpdateReview(ctx, rid, fields["username"], fields["comment"], fields["rating"]); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("service failed to edit review %s: %w", reviewID, err)
	}
	return nil
}

// DeleteReview removes the review from the player's sequence.
// Nothing matching is not an error.
func (rs *ReviewService) DeleteReview(ctx context.Context, playerID, reviewID string) error {
	pid, err := models.ParseID(playerID)
	if err != nil {
		return err
	}
	rid, err := models.ParseID(reviewID)
	if err != nil {
		return err
	}
	if err := rs.repo.PullReview(ctx, pid, rid); err != nil {
		return fmt.Errorf("service failed to delete review %s of player %s: %w", reviewID, playerID, err)
	}
	return nil
}
