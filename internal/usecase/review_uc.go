package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/SilnetC/TwoDotHand/internal/domain"
	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ReviewUsecase implements category opinions: one review per
// (user, category, subCategory), independent of orders.
type ReviewUsecase struct {
	reviews domain.ReviewRepository
	logger  *logger.Logger
}

// NewReviewUsecase creates a new ReviewUsecase.
func NewReviewUsecase(reviews domain.ReviewRepository, log *logger.Logger) *ReviewUsecase {
	return &ReviewUsecase{
		reviews: reviews,
		logger:  log.Named("ReviewUsecase"),
	}
}

// Create stores a new category review. The unique index over the
// (user, category, subCategory) triple is the authoritative duplicate
// guard.
func (uc *ReviewUsecase) Create(ctx context.Context, userID, userName, category, subCategory, text string, rating int32) (*domain.Review, error) {
	uc.logger.Info("Creating review",
		zap.String("user_id", userID),
		zap.String("category", category),
		zap.String("sub_category", subCategory))

	review, err := domain.NewReview(userID, userName, category, subCategory, text, rating)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if err := uc.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: you have already reviewed this category", domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("%w: failed to create review: %v", domain.ErrRepository, err)
	}
	return review, nil
}

// ListByCategory returns reviews for the category pair, newest first.
func (uc *ReviewUsecase) ListByCategory(ctx context.Context, category, subCategory string) ([]*domain.Review, error) {
	if category == "" || subCategory == "" {
		return nil, fmt.Errorf("%w: category and subCategory are required", domain.ErrInvalidInput)
	}
	reviews, err := uc.reviews.FindByCategory(ctx, category, subCategory)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load reviews: %v", domain.ErrRepository, err)
	}
	return reviews, nil
}

// MyReviews returns the user's reviews, newest first.
func (uc *ReviewUsecase) MyReviews(ctx context.Context, userID string) ([]*domain.Review, error) {
	reviews, err := uc.reviews.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load reviews: %v", domain.ErrRepository, err)
	}
	return reviews, nil
}

// Update lets the author change the rating and text of their review.
func (uc *ReviewUsecase) Update(ctx context.Context, id primitive.ObjectID, userID string, rating int32, text string) (*domain.Review, error) {
	review, err := uc.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, fmt.Errorf("%w: review belongs to another user", domain.ErrForbidden)
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidInput)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: review text is required", domain.ErrInvalidInput)
	}

	review.Rating = rating
	review.Text = text
	if err := uc.reviews.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("%w: failed to update review: %v", domain.ErrRepository, err)
	}
	return review, nil
}

// Delete removes the author's review.
func (uc *ReviewUsecase) Delete(ctx context.Context, id primitive.ObjectID, userID string) error {
	review, err := uc.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return fmt.Errorf("%w: review belongs to another user", domain.ErrForbidden)
	}
	return uc.reviews.Delete(ctx, id)
}
