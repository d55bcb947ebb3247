package usecase

import (
	"context"
	"testing"

	"github.com/SilnetC/TwoDotHand/internal/domain"
	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func activeListing(t *testing.T, sellerID string, price int64) *domain.Listing {
	t.Helper()
	listing, err := domain.NewListing(sellerID, "iPhone 13", "iPhone", "iPhone 13", "Lightly used", price)
	require.NoError(t, err)
	return listing
}

func orderFor(t *testing.T, listing *domain.Listing, buyerID string, status domain.OrderStatus) *domain.Order {
	t.Helper()
	contact := domain.BuyerContact{Name: "Buyer", Email: "buyer@example.com", Phone: "+3612345678"}
	order, err := domain.NewOrder(listing, buyerID, contact, "Foxpost", "")
	require.NoError(t, err)
	order.Status = status
	return order
}

func TestOrderUsecase_CreateOrder(t *testing.T) {
	ctx := context.Background()
	listing := activeListing(t, "seller-1", 100000)

	input := CreateOrderInput{
		ListingID:      listing.ID.Hex(),
		BuyerName:      "Buyer",
		BuyerEmail:     "buyer@example.com",
		BuyerPhone:     "+3612345678",
		ShippingMethod: "GLS",
		ShippingPoint:  "GLS Point Budapest",
	}

	t.Run("computes totals and persists", func(t *testing.T) {
		orders := new(MockOrderRepository)
		listings := new(MockListingRepository)
		listings.On("GetByID", ctx, listing.ID).Return(listing, nil).Once()
		orders.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()

		uc := NewOrderUsecase(orders, listings, NoopPublisher{}, logger.NewNop())
		order, err := uc.CreateOrder(ctx, "buyer-1", input)
		require.NoError(t, err)

		assert.Equal(t, int64(101499), order.TotalPrice)
		assert.Equal(t, "seller-1", order.SellerID)
		assert.Equal(t, domain.OrderStatusPending, order.Status)
		orders.AssertExpectations(t)
		listings.AssertExpectations(t)
	})

	t.Run("rejects self purchase", func(t *testing.T) {
		orders := new(MockOrderRepository)
		listings := new(MockListingRepository)
		listings.On("GetByID", ctx, listing.ID).Return(listing, nil).Once()

		uc := NewOrderUsecase(orders, listings, NoopPublisher{}, logger.NewNop())
		_, err := uc.CreateOrder(ctx, "seller-1", input)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("listing not found", func(t *testing.T) {
		orders := new(MockOrderRepository)
		listings := new(MockListingRepository)
		listings.On("GetByID", ctx, listing.ID).Return(nil, domain.ErrNotFound).Once()

		uc := NewOrderUsecase(orders, listings, NoopPublisher{}, logger.NewNop())
		_, err := uc.CreateOrder(ctx, "buyer-1", input)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("missing contact details", func(t *testing.T) {
		uc := NewOrderUsecase(new(MockOrderRepository), new(MockListingRepository), NoopPublisher{}, logger.NewNop())
		bad := input
		bad.BuyerPhone = ""
		_, err := uc.CreateOrder(ctx, "buyer-1", bad)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("malformed listing id", func(t *testing.T) {
		uc := NewOrderUsecase(new(MockOrderRepository), new(MockListingRepository), NoopPublisher{}, logger.NewNop())
		bad := input
		bad.ListingID = "not-a-hex-id"
		_, err := uc.CreateOrder(ctx, "buyer-1", bad)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown shipping method", func(t *testing.T) {
		uc := NewOrderUsecase(new(MockOrderRepository), new(MockListingRepository), NoopPublisher{}, logger.NewNop())
		bad := input
		bad.ShippingMethod = "PigeonPost"
		_, err := uc.CreateOrder(ctx, "buyer-1", bad)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestOrderUsecase_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	listing := activeListing(t, "seller-1", 50000)

	t.Run("seller confirms pending order", func(t *testing.T) {
		order := orderFor(t, listing, "buyer-1", domain.OrderStatusPending)
		orders := new(MockOrderRepository)
		listings := new(MockListingRepository)
		orders.On("GetByID", ctx, order.ID).Return(order, nil).Once()
		orders.On("Update", ctx, order).Return(nil).Once()
		listings.On("GetByID", ctx, listing.ID).Return(listing, nil).Once()

		uc := NewOrderUsecase(orders, listings, NoopPublisher{}, logger.NewNop())
		view, err := uc.UpdateStatus(ctx, order.ID, "seller-1", domain.OrderStatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusConfirmed, view.Order.Status)
		assert.Equal(t, listing.ID, view.Listing.ID)
		orders.AssertExpectations(t)
	})

	t.Run("buyer cannot ship", func(t *testing.T) {
		order := orderFor(t, listing, "buyer-1", domain.OrderStatusPending)
		orders := new(MockOrderRepository)
		orders.On("GetByID", ctx, order.ID).Return(order, nil).Once()

		uc := NewOrderUsecase(orders, new(MockListingRepository), NoopPublisher{}, logger.NewNop())
		_, err := uc.UpdateStatus(ctx, order.ID, "buyer-1", domain.OrderStatusInTransit)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Equal(t, domain.OrderStatusPending, order.Status)
		orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("illegal edge leaves order untouched", func(t *testing.T) {
		order := orderFor(t, listing, "buyer-1", domain.OrderStatusReceived)
		orders := new(MockOrderRepository)
		orders.On("GetByID", ctx, order.ID).Return(order, nil).Once()

		uc := NewOrderUsecase(orders, new(MockListingRepository), NoopPublisher{}, logger.NewNop())
		_, err := uc.UpdateStatus(ctx, order.ID, "seller-1", domain.OrderStatusCancelled)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Equal(t, domain.OrderStatusReceived, order.Status)
		orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("buyer marks in transit order received", func(t *testing.T) {
		order := orderFor(t, listing, "buyer-1", domain.OrderStatusInTransit)
		orders := new(MockOrderRepository)
		listings := new(MockListingRepository)
		orders.On("GetByID", ctx, order.ID).Return(order, nil).Once()
		orders.On("Update", ctx, order).Return(nil).Once()
		listings.On("GetByID", ctx, listing.ID).Return(listing, nil).Once()

		uc := NewOrderUsecase(orders, listings, NoopPublisher{}, logger.NewNop())
		view, err := uc.UpdateStatus(ctx, order.ID, "buyer-1", domain.OrderStatusReceived)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusReceived, view.Order.Status)
	})
}

func TestOrderUsecase_CheckListing(t *testing.T) {
	ctx := context.Background()
	listing := activeListing(t, "seller-1", 50000)

	t.Run("no live order", func(t *testing.T) {
		orders := new(MockOrderRepository)
		orders.On("FindLiveByListing", ctx, listing.ID).Return(nil, domain.ErrNotFound).Once()

		uc := NewOrderUsecase(orders, new(MockListingRepository), NoopPublisher{}, logger.NewNop())
		status, err := uc.CheckListing(ctx, listing.ID)
		require.NoError(t, err)
		assert.False(t, status.IsOrdered)
		assert.False(t, status.IsSold)
	})

	t.Run("reserved by pending order", func(t *testing.T) {
		order := orderFor(t, listing, "buyer-1", domain.OrderStatusPending)
		orders := new(MockOrderRepository)
		orders.On("FindLiveByListing", ctx, listing.ID).Return(order, nil).Once()

		uc := NewOrderUsecase(orders, new(MockListingRepository), NoopPublisher{}, logger.NewNop())
		status, err := uc.CheckListing(ctx, listing.ID)
		require.NoError(t, err)
		assert.True(t, status.IsOrdered)
		assert.False(t, status.IsSold)
	})

	t.Run("sold when received", func(t *testing.T) {
		order := orderFor(t, listing, "buyer-1", domain.OrderStatusReceived)
		orders := new(MockOrderRepository)
		orders.On("FindLiveByListing", ctx, listing.ID).Return(order, nil).Once()

		uc := NewOrderUsecase(orders, new(MockListingRepository), NoopPublisher{}, logger.NewNop())
		status, err := uc.CheckListing(ctx, listing.ID)
		require.NoError(t, err)
		assert.True(t, status.IsOrdered)
		assert.True(t, status.IsSold)
	})
}

func TestOrderUsecase_CountNotifications(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	orders.On("CountBySellerAndStatus", ctx, "user-1", domain.OrderStatusPending).Return(int64(2), nil).Once()
	orders.On("CountByBuyerAndStatus", ctx, "user-1", domain.OrderStatusInTransit).Return(int64(3), nil).Once()

	uc := NewOrderUsecase(orders, new(MockListingRepository), NoopPublisher{}, logger.NewNop())
	counts, err := uc.CountNotifications(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.PendingSales)
	assert.Equal(t, int64(3), counts.InTransitOrders)
	assert.Equal(t, int64(5), counts.Total)
}

func TestOrderUsecase_MyOrdersExpandsListings(t *testing.T) {
	ctx := context.Background()
	listing := activeListing(t, "seller-1", 50000)
	order := orderFor(t, listing, "buyer-1", domain.OrderStatusPending)

	orders := new(MockOrderRepository)
	listings := new(MockListingRepository)
	orders.On("FindByBuyer", ctx, "buyer-1").Return([]*domain.Order{order}, nil).Once()
	listings.On("FindByIDs", ctx, []primitive.ObjectID{listing.ID}).Return([]*domain.Listing{listing}, nil).Once()

	uc := NewOrderUsecase(orders, listings, NoopPublisher{}, logger.NewNop())
	views, err := uc.MyOrders(ctx, "buyer-1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, order.ID, views[0].Order.ID)
	require.NotNil(t, views[0].Listing)
	assert.Equal(t, listing.ID, views[0].Listing.ID)
}
