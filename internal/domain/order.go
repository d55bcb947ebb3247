package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus represents the delivery lifecycle status of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusInTransit OrderStatus = "in_transit"
	OrderStatusReceived  OrderStatus = "received"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the OrderStatus is one of the defined constants.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusInTransit, OrderStatusReceived, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are possible from s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusReceived || s == OrderStatusCancelled
}

// ShippingCost is the flat shipping fee in the smallest currency unit,
// added to every order on top of the listing price.
const ShippingCost int64 = 1499

// DeliveryOffset is how far in the future the expected delivery date is set.
const DeliveryOffset = 72 * time.Hour

// ShippingMethods are the carriers a buyer can choose from.
var ShippingMethods = []string{"Foxpost", "GLS", "Posta"}

// IsValidShippingMethod reports whether method is a supported carrier.
func IsValidShippingMethod(method string) bool {
	for _, m := range ShippingMethods {
		if m == method {
			return true
		}
	}
	return false
}

// LiveOrderStatuses are the statuses under which an order still reserves
// its listing for availability display.
var LiveOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusInTransit,
	OrderStatusReceived,
}

// BuyerContact is a snapshot of the buyer's contact data at order time,
// independent of later profile edits.
type BuyerContact struct {
	Name  string
	Email string
	Phone string
}

// Order is a buyer's commitment to purchase one listing, tracked through
// a delivery lifecycle. SellerID is denormalized from the listing at
// creation time and never changes afterwards.
type Order struct {
	ID                   primitive.ObjectID
	ListingID            primitive.ObjectID
	BuyerID              string
	SellerID             string
	BuyerContact         BuyerContact
	ShippingMethod       string
	ShippingPoint        string
	ProductPrice         int64
	ShippingCost         int64
	TotalPrice           int64
	ExpectedDeliveryDate time.Time
	Status               OrderStatus
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewOrder creates a pending order for the given listing, snapshotting
// the seller and the buyer's contact data.
func NewOrder(listing *Listing, buyerID string, contact BuyerContact, shippingMethod, shippingPoint string) (*Order, error) {
	if buyerID == "" {
		return nil, errors.New("buyerID cannot be empty")
	}
	if contact.Email == "" || contact.Phone == "" {
		return nil, errors.New("buyer email and phone are required")
	}
	if !IsValidShippingMethod(shippingMethod) {
		return nil, errors.New("unsupported shipping method")
	}

	now := time.Now().UTC()
	return &Order{
		ID:                   primitive.NewObjectID(),
		ListingID:            listing.ID,
		BuyerID:              buyerID,
		SellerID:             listing.SellerID,
		BuyerContact:         contact,
		ShippingMethod:       shippingMethod,
		ShippingPoint:        shippingPoint,
		ProductPrice:         listing.Price,
		ShippingCost:         ShippingCost,
		TotalPrice:           listing.Price + ShippingCost,
		ExpectedDeliveryDate: now.Add(DeliveryOffset),
		Status:               OrderStatusPending,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

// allowedTransitions enumerates the legal status edges.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusInTransit, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusInTransit, OrderStatusCancelled},
	OrderStatusInTransit: {OrderStatusReceived, OrderStatusCancelled},
}

// CanTransitionTo reports whether the edge from the order's current status
// to target is legal.
func (o *Order) CanTransitionTo(target OrderStatus) bool {
	for _, next := range allowedTransitions[o.Status] {
		if next == target {
			return true
		}
	}
	return false
}

// AuthorizeTransition checks whether actorID holds the role required for
// the target status. Only the buyer may mark an order received; every
// other target belongs to the seller.
func (o *Order) AuthorizeTransition(actorID string, target OrderStatus) error {
	if target == OrderStatusReceived {
		if actorID != o.BuyerID {
			return ErrForbidden
		}
		return nil
	}
	if actorID != o.SellerID {
		return ErrForbidden
	}
	return nil
}

// Transition applies the role check followed by the edge check and, when
// both pass, moves the order to target. The order is left untouched on
// any failure.
func (o *Order) Transition(actorID string, target OrderStatus) error {
	if !target.IsValid() {
		return ErrInvalidInput
	}
	if err := o.AuthorizeTransition(actorID, target); err != nil {
		return err
	}
	if !o.CanTransitionTo(target) {
		return ErrInvalidTransition
	}
	o.Status = target
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// IsParticipant reports whether userID is the order's buyer or seller.
func (o *Order) IsParticipant(userID string) bool {
	return userID == o.BuyerID || userID == o.SellerID
}

// Counterparty returns the participant who is not userID.
func (o *Order) Counterparty(userID string) string {
	if userID == o.BuyerID {
		return o.SellerID
	}
	return o.BuyerID
}
