package usecase

import (
	"context"
	"testing"

	"github.com/SilnetC/TwoDotHand/internal/domain"
	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRatingUsecase_SubmitRating(t *testing.T) {
	ctx := context.Background()
	listing := activeListing(t, "seller-1", 50000)

	t.Run("buyer rates seller after receipt", func(t *testing.T) {
		order := orderFor(t, listing, "buyer-1", domain.OrderStatusReceived)
		orders := new(MockOrderRepository)
		ratings := new(MockRatingRepository)
		orders.On("GetByID", ctx, order.ID).Return(order, nil).Once()
		ratings.On("FindByOrderAndRater", ctx, order.ID, "buyer-1").Return(nil, domain.ErrNotFound).Once()
		ratings.On("Create", ctx, mock.AnythingOfType("*domain.Rating")).Return(nil).Once()

		uc := NewRatingUsecase(ratings, orders, NoopPublisher{}, logger.NewNop())
		rating, err := uc.SubmitRating(ctx, order.ID, "buyer-1", domain.RatingPositive)
		require.NoError(t, err)
		assert.Equal(t, "buyer-1", rating.RaterID)
		assert.Equal(t, "seller-1", rating.RatedID)
		assert.Equal(t, domain.RatingPositive, rating.Value)
		ratings.AssertExpectations(t)
	})

	t.Run("seller rates buyer", func(t *testing.T) {
		order := orderFor(t, listing, "buyer-1", domain.OrderStatusReceived)
		orders := new(MockOrderRepository)
		ratings := new(MockRatingRepository)
		orders.On("GetByID", ctx, order.ID).Return(order, nil).Once()
		ratings.On("FindByOrderAndRater", ctx, order.ID, "seller-1").Return(nil, domain.ErrNotFound).Once()
		ratings.On("Create", ctx, mock.AnythingOfType("*domain.Rating")).Return(nil).Once()

		uc := NewRatingUsecase(ratings, orders, NoopPublisher{}, logger.NewNop())
		rating, err := uc.SubmitRating(ctx, order.ID, "seller-1", domain.RatingNegative)
		require.NoError(t, err)
		assert.Equal(t, "buyer-1", rating.RatedID)
	})

	t.Run("order not yet received", func(t *testing.T) {
		for _, status := range []domain.OrderStatus{
			domain.OrderStatusPending,
			domain.OrderStatusConfirmed,
			domain.OrderStatusInTransit,
			domain.OrderStatusCancelled,
		} {
			order := orderFor(t, listing, "buyer-1", status)
			orders := new(MockOrderRepository)
			ratings := new(MockRatingRepository)
			orders.On("GetByID", ctx, order.ID).Return(order, nil).Once()

			uc := NewRatingUsecase(ratings, orders, NoopPublisher{}, logger.NewNop())
			_, err := uc.SubmitRating(ctx, order.ID, "buyer-1", domain.RatingPositive)
			assert.ErrorIs(t, err, domain.ErrInvalidState, "status %s", status)
			ratings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		}
	})

	t.Run("non-participant forbidden", func(t *testing.T) {
		order := orderFor(t, listing, "buyer-1", domain.OrderStatusReceived)
		orders := new(MockOrderRepository)
		orders.On("GetByID", ctx, order.ID).Return(order, nil).Once()

		uc := NewRatingUsecase(new(MockRatingRepository), orders, NoopPublisher{}, logger.NewNop())
		_, err := uc.SubmitRating(ctx, order.ID, "stranger", domain.RatingPositive)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("duplicate found by pre-check", func(t *testing.T) {
		order := orderFor(t, listing, "buyer-1", domain.OrderStatusReceived)
		existing, err := domain.NewRating(order.ID, "buyer-1", "seller-1", domain.RatingPositive)
		require.NoError(t, err)

		orders := new(MockOrderRepository)
		ratings := new(MockRatingRepository)
		orders.On("GetByID", ctx, order.ID).Return(order, nil).Once()
		ratings.On("FindByOrderAndRater", ctx, order.ID, "buyer-1").Return(existing, nil).Once()

		uc := NewRatingUsecase(ratings, orders, NoopPublisher{}, logger.NewNop())
		_, err = uc.SubmitRating(ctx, order.ID, "buyer-1", domain.RatingNegative)
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
		ratings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate caught by unique index", func(t *testing.T) {
		order := orderFor(t, listing, "buyer-1", domain.OrderStatusReceived)
		orders := new(MockOrderRepository)
		ratings := new(MockRatingRepository)
		orders.On("GetByID", ctx, order.ID).Return(order, nil).Once()
		ratings.On("FindByOrderAndRater", ctx, order.ID, "buyer-1").Return(nil, domain.ErrNotFound).Once()
		ratings.On("Create", ctx, mock.AnythingOfType("*domain.Rating")).Return(domain.ErrAlreadyExists).Once()

		uc := NewRatingUsecase(ratings, orders, NoopPublisher{}, logger.NewNop())
		_, err := uc.SubmitRating(ctx, order.ID, "buyer-1", domain.RatingPositive)
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	t.Run("invalid value", func(t *testing.T) {
		order := orderFor(t, listing, "buyer-1", domain.OrderStatusReceived)
		uc := NewRatingUsecase(new(MockRatingRepository), new(MockOrderRepository), NoopPublisher{}, logger.NewNop())
		_, err := uc.SubmitRating(ctx, order.ID, "buyer-1", domain.RatingValue("meh"))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestRatingUsecase_GetForOrder(t *testing.T) {
	ctx := context.Background()
	listing := activeListing(t, "seller-1", 50000)
	order := orderFor(t, listing, "buyer-1", domain.OrderStatusReceived)

	t.Run("nil when not rated yet", func(t *testing.T) {
		orders := new(MockOrderRepository)
		ratings := new(MockRatingRepository)
		orders.On("GetByID", ctx, order.ID).Return(order, nil).Once()
		ratings.On("FindByOrderAndRater", ctx, order.ID, "buyer-1").Return(nil, domain.ErrNotFound).Once()

		uc := NewRatingUsecase(ratings, orders, NoopPublisher{}, logger.NewNop())
		rating, err := uc.GetForOrder(ctx, order.ID, "buyer-1")
		require.NoError(t, err)
		assert.Nil(t, rating)
	})

	t.Run("non-participant forbidden", func(t *testing.T) {
		orders := new(MockOrderRepository)
		orders.On("GetByID", ctx, order.ID).Return(order, nil).Once()

		uc := NewRatingUsecase(new(MockRatingRepository), orders, NoopPublisher{}, logger.NewNop())
		_, err := uc.GetForOrder(ctx, order.ID, "stranger")
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestRatingUsecase_Summary(t *testing.T) {
	ctx := context.Background()

	ratings := new(MockRatingRepository)
	ratings.On("Summary", ctx, "user-1").Return(&domain.RatingSummary{UserID: "user-1", Positive: 4, Negative: 1}, nil).Once()

	uc := NewRatingUsecase(ratings, new(MockOrderRepository), NoopPublisher{}, logger.NewNop())
	summary, err := uc.Summary(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), summary.Positive)
	assert.Equal(t, int64(1), summary.Negative)

	_, err = uc.Summary(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
