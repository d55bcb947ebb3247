package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/SilnetC/TwoDotHand/internal/adapter/messaging/nats"
	"github.com/SilnetC/TwoDotHand/internal/domain"
	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// RatingUsecase implements the rating gate: exactly one rating per
// (order, rater), only after the order is received, only by a participant.
type RatingUsecase struct {
	ratings domain.RatingRepository
	orders  domain.OrderRepository
	events  domain.EventPublisher
	logger  *logger.Logger
}

// NewRatingUsecase creates a new RatingUsecase.
func NewRatingUsecase(ratings domain.RatingRepository, orders domain.OrderRepository, events domain.EventPublisher, log *logger.Logger) *RatingUsecase {
	return &RatingUsecase{
		ratings: ratings,
		orders:  orders,
		events:  events,
		logger:  log.Named("RatingUsecase"),
	}
}

// SubmitRating records raterID's judgement for the order. The duplicate
// pre-check is advisory; the repository's unique index is the final
// backstop and its violation also surfaces as ErrAlreadyExists.
func (uc *RatingUsecase) SubmitRating(ctx context.Context, orderID primitive.ObjectID, raterID string, value domain.RatingValue) (*domain.Rating, error) {
	uc.logger.Info("Submitting rating",
		zap.String("order_id", orderID.Hex()),
		zap.String("rater_id", raterID),
		zap.String("value", string(value)))

	if !value.IsValid() {
		return nil, fmt.Errorf("%w: rating value must be positive or negative", domain.ErrInvalidInput)
	}

	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != domain.OrderStatusReceived {
		return nil, fmt.Errorf("%w: order must be received before rating", domain.ErrInvalidState)
	}
	if !order.IsParticipant(raterID) {
		return nil, fmt.Errorf("%w: only order participants may rate", domain.ErrForbidden)
	}

	if _, err := uc.ratings.FindByOrderAndRater(ctx, orderID, raterID); err == nil {
		return nil, fmt.Errorf("%w: order already rated by this user", domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: failed to check existing rating: %v", domain.ErrRepository, err)
	}

	rating, err := domain.NewRating(orderID, raterID, order.Counterparty(raterID), value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if err := uc.ratings.Create(ctx, rating); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			uc.logger.Warn("Duplicate rating caught by unique index",
				zap.String("order_id", orderID.Hex()),
				zap.String("rater_id", raterID))
			return nil, fmt.Errorf("%w: order already rated by this user", domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("%w: failed to create rating: %v", domain.ErrRepository, err)
	}

	eventData := map[string]interface{}{
		"rating_id": rating.ID.Hex(),
		"order_id":  rating.OrderID.Hex(),
		"rater_id":  rating.RaterID,
		"rated_id":  rating.RatedID,
		"value":     string(rating.Value),
	}
	if err := uc.events.Publish(ctx, nats.SubjectRatingCreated, eventData); err != nil {
		uc.logger.Warn("Failed to publish rating.created event", zap.Error(err), zap.String("rating_id", rating.ID.Hex()))
	}

	return rating, nil
}

// GetForOrder returns the caller's rating for the order, or nil when the
// caller has not rated it yet. Only participants may ask.
func (uc *RatingUsecase) GetForOrder(ctx context.Context, orderID primitive.ObjectID, raterID string) (*domain.Rating, error) {
	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsParticipant(raterID) {
		return nil, fmt.Errorf("%w: only order participants may view ratings", domain.ErrForbidden)
	}

	rating, err := uc.ratings.FindByOrderAndRater(ctx, orderID, raterID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: failed to load rating: %v", domain.ErrRepository, err)
	}
	return rating, nil
}

// Summary returns the public positive/negative counts for a user.
func (uc *RatingUsecase) Summary(ctx context.Context, userID string) (*domain.RatingSummary, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userID cannot be empty", domain.ErrInvalidInput)
	}
	summary, err := uc.ratings.Summary(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to aggregate ratings: %v", domain.ErrRepository, err)
	}
	return summary, nil
}
