package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SilnetC/TwoDotHand/internal/adapter/messaging/nats"
	"github.com/SilnetC/TwoDotHand/internal/domain"
	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// OrderUsecase implements the order lifecycle: creation, role-gated
// status transitions, availability probes and notification counters.
type OrderUsecase struct {
	orders   domain.OrderRepository
	listings domain.ListingRepository
	events   domain.EventPublisher
	logger   *logger.Logger
}

// NewOrderUsecase creates a new OrderUsecase.
func NewOrderUsecase(orders domain.OrderRepository, listings domain.ListingRepository, events domain.EventPublisher, log *logger.Logger) *OrderUsecase {
	return &OrderUsecase{
		orders:   orders,
		listings: listings,
		events:   events,
		logger:   log.Named("OrderUsecase"),
	}
}

// CreateOrderInput holds the request fields for creating an order.
type CreateOrderInput struct {
	ListingID      string
	BuyerName      string
	BuyerEmail     string
	BuyerPhone     string
	ShippingMethod string
	ShippingPoint  string
}

// OrderView is an order with its listing expanded for display.
type OrderView struct {
	Order   *domain.Order
	Listing *domain.Listing
}

// CreateOrder places a pending order for the listing on behalf of buyerID.
// The listing itself is left untouched; availability is derived at read
// time from live orders.
func (uc *OrderUsecase) CreateOrder(ctx context.Context, buyerID string, input CreateOrderInput) (*domain.Order, error) {
	uc.logger.Info("Creating order",
		zap.String("buyer_id", buyerID),
		zap.String("listing_id", input.ListingID))

	listingID, err := primitive.ObjectIDFromHex(input.ListingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid listing id", domain.ErrInvalidInput)
	}
	if input.BuyerEmail == "" || input.BuyerPhone == "" {
		return nil, fmt.Errorf("%w: buyer email and phone are required", domain.ErrInvalidInput)
	}
	if !domain.IsValidShippingMethod(input.ShippingMethod) {
		return nil, fmt.Errorf("%w: unsupported shipping method %q", domain.ErrInvalidInput, input.ShippingMethod)
	}

	listing, err := uc.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: listing not found", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: failed to load listing: %v", domain.ErrRepository, err)
	}

	if listing.SellerID == buyerID {
		uc.logger.Warn("Self-purchase attempt rejected",
			zap.String("buyer_id", buyerID),
			zap.String("listing_id", input.ListingID))
		return nil, fmt.Errorf("%w: you cannot order your own listing", domain.ErrForbidden)
	}

	contact := domain.BuyerContact{
		Name:  input.BuyerName,
		Email: input.BuyerEmail,
		Phone: input.BuyerPhone,
	}
	order, err := domain.NewOrder(listing, buyerID, contact, input.ShippingMethod, input.ShippingPoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if err := uc.orders.Create(ctx, order); err != nil {
		uc.logger.Error("Failed to save order to repository", zap.Error(err))
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to create order: %v", domain.ErrRepository, err)
	}

	eventData := map[string]interface{}{
		"order_id":    order.ID.Hex(),
		"listing_id":  order.ListingID.Hex(),
		"buyer_id":    order.BuyerID,
		"seller_id":   order.SellerID,
		"total_price": order.TotalPrice,
		"created_at":  order.CreatedAt.Format(time.RFC3339Nano),
	}
	if err := uc.events.Publish(ctx, nats.SubjectOrderCreated, eventData); err != nil {
		uc.logger.Warn("Failed to publish order.created event", zap.Error(err), zap.String("order_id", order.ID.Hex()))
	}

	uc.logger.Info("Order created successfully",
		zap.String("order_id", order.ID.Hex()),
		zap.Int64("total_price", order.TotalPrice))
	return order, nil
}

// UpdateStatus applies a status transition on behalf of actorID. Role
// violations surface as ErrForbidden, illegal edges as
// ErrInvalidTransition; the order is untouched on failure.
func (uc *OrderUsecase) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, actorID string, target domain.OrderStatus) (*OrderView, error) {
	uc.logger.Info("Updating order status",
		zap.String("order_id", orderID.Hex()),
		zap.String("actor_id", actorID),
		zap.String("target_status", string(target)))

	order, err := uc.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	if err := order.Transition(actorID, target); err != nil {
		uc.logger.Warn("Order status transition rejected",
			zap.String("order_id", orderID.Hex()),
			zap.String("current_status", string(previous)),
			zap.String("target_status", string(target)),
			zap.Error(err))
		return nil, err
	}

	if err := uc.orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("%w: failed to persist status: %v", domain.ErrRepository, err)
	}

	eventData := map[string]interface{}{
		"order_id":        order.ID.Hex(),
		"previous_status": string(previous),
		"new_status":      string(order.Status),
		"actor_id":        actorID,
	}
	if err := uc.events.Publish(ctx, nats.SubjectOrderStatusUpdated, eventData); err != nil {
		uc.logger.Warn("Failed to publish order.status.updated event", zap.Error(err), zap.String("order_id", order.ID.Hex()))
	}

	listing, err := uc.listings.GetByID(ctx, order.ListingID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: failed to load listing: %v", domain.ErrRepository, err)
	}
	return &OrderView{Order: order, Listing: listing}, nil
}

// expand joins each order with its listing for display.
func (uc *OrderUsecase) expand(ctx context.Context, orders []*domain.Order) ([]*OrderView, error) {
	ids := make([]primitive.ObjectID, 0, len(orders))
	seen := make(map[primitive.ObjectID]bool, len(orders))
	for _, o := range orders {
		if !seen[o.ListingID] {
			seen[o.ListingID] = true
			ids = append(ids, o.ListingID)
		}
	}

	listings, err := uc.listings.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load listings: %v", domain.ErrRepository, err)
	}
	byID := make(map[primitive.ObjectID]*domain.Listing, len(listings))
	for _, l := range listings {
		byID[l.ID] = l
	}

	views := make([]*OrderView, len(orders))
	for i, o := range orders {
		views[i] = &OrderView{Order: o, Listing: byID[o.ListingID]}
	}
	return views, nil
}

// MyOrders returns the user's purchases, newest first, with listings expanded.
func (uc *OrderUsecase) MyOrders(ctx context.Context, buyerID string) ([]*OrderView, error) {
	orders, err := uc.orders.FindByBuyer(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load orders: %v", domain.ErrRepository, err)
	}
	return uc.expand(ctx, orders)
}

// MySales returns the user's sales, newest first, with listings expanded.
func (uc *OrderUsecase) MySales(ctx context.Context, sellerID string) ([]*OrderView, error) {
	orders, err := uc.orders.FindBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load orders: %v", domain.ErrRepository, err)
	}
	return uc.expand(ctx, orders)
}

// ListingOrderStatus is the public availability probe for a listing.
type ListingOrderStatus struct {
	IsOrdered bool
	IsSold    bool
}

// CheckListing reports whether a live order reserves the listing and
// whether that order has been received.
func (uc *OrderUsecase) CheckListing(ctx context.Context, listingID primitive.ObjectID) (*ListingOrderStatus, error) {
	order, err := uc.orders.FindLiveByListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &ListingOrderStatus{}, nil
		}
		return nil, fmt.Errorf("%w: failed to check listing orders: %v", domain.ErrRepository, err)
	}
	return &ListingOrderStatus{
		IsOrdered: true,
		IsSold:    order.Status == domain.OrderStatusReceived,
	}, nil
}

// NotificationCounts holds the polled counters for a user.
type NotificationCounts struct {
	PendingSales    int64
	InTransitOrders int64
	Total           int64
}

// CountNotifications recomputes the user's counters on each poll: orders
// awaiting action as a seller (pending) and as a buyer (in transit).
func (uc *OrderUsecase) CountNotifications(ctx context.Context, userID string) (*NotificationCounts, error) {
	pendingSales, err := uc.orders.CountBySellerAndStatus(ctx, userID, domain.OrderStatusPending)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count pending sales: %v", domain.ErrRepository, err)
	}
	inTransit, err := uc.orders.CountByBuyerAndStatus(ctx, userID, domain.OrderStatusInTransit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count in-transit orders: %v", domain.ErrRepository, err)
	}
	return &NotificationCounts{
		PendingSales:    pendingSales,
		InTransitOrders: inTransit,
		Total:           pendingSales + inTransit,
	}, nil
}
