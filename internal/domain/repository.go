package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListingRepository defines persistence for listings. Methods operate on
// the clean domain entity; document mapping lives in the adapter.
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Listing, error)
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetStatus(ctx context.Context, id primitive.ObjectID, status ListingStatus) error
	IncrementViews(ctx context.Context, id primitive.ObjectID) error

	// Find applies the filter to active listings, newest first.
	Find(ctx context.Context, filter ListingFilter) ([]*Listing, error)
	// CountMatching counts active listings matching the filter without
	// retrieving them.
	CountMatching(ctx context.Context, filter ListingFilter) (int64, error)
	FindBySeller(ctx context.Context, sellerID string) ([]*Listing, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*Listing, error)
}

// OrderRepository defines persistence for orders. Orders are never
// deleted; mutation happens only through Update after a status transition.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Order, error)
	Update(ctx context.Context, order *Order) error
	FindByBuyer(ctx context.Context, buyerID string) ([]*Order, error)
	FindBySeller(ctx context.Context, sellerID string) ([]*Order, error)

	// FindLiveByListing returns an order in a live status
	// (pending|confirmed|in_transit|received) for the listing, or
	// ErrNotFound when none exists.
	FindLiveByListing(ctx context.Context, listingID primitive.ObjectID) (*Order, error)
	// ExistsByListing reports whether any order, live or not, references
	// the listing.
	ExistsByListing(ctx context.Context, listingID primitive.ObjectID) (bool, error)
	CountBySellerAndStatus(ctx context.Context, sellerID string, status OrderStatus) (int64, error)
	CountByBuyerAndStatus(ctx context.Context, buyerID string, status OrderStatus) (int64, error)
}

// RatingRepository defines persistence for order ratings. The adapter
// must hold a unique index over (order_id, rater_id) and translate its
// violation into ErrAlreadyExists.
type RatingRepository interface {
	Create(ctx context.Context, rating *Rating) error
	FindByOrderAndRater(ctx context.Context, orderID primitive.ObjectID, raterID string) (*Rating, error)
	Summary(ctx context.Context, userID string) (*RatingSummary, error)
}

// FavoriteRepository defines persistence for favorite entries. The
// adapter must hold a unique index over (user_id, listing_id) and
// translate its violation into ErrAlreadyExists.
type FavoriteRepository interface {
	Create(ctx context.Context, favorite *Favorite) error
	Delete(ctx context.Context, userID string, listingID primitive.ObjectID) error
	Exists(ctx context.Context, userID string, listingID primitive.ObjectID) (bool, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	FindByUser(ctx context.Context, userID string) ([]*Favorite, error)
}

// SavedSearchRepository defines persistence for saved searches.
type SavedSearchRepository interface {
	Create(ctx context.Context, search *SavedSearch) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*SavedSearch, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByUser(ctx context.Context, userID string) ([]*SavedSearch, error)
	// UpdateLastChecked advances the watermark. Only the delta operation
	// may call this.
	UpdateLastChecked(ctx context.Context, id primitive.ObjectID, checkedAt time.Time) error
}

// ReviewRepository defines persistence for category reviews. The adapter
// must hold a unique index over (user_id, category, sub_category) and
// translate its violation into ErrAlreadyExists.
type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Review, error)
	Update(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByUser(ctx context.Context, userID string) ([]*Review, error)
	FindByCategory(ctx context.Context, category, subCategory string) ([]*Review, error)
}

// ListingCache is a read-through cache for listing lookups by id.
type ListingCache interface {
	Get(ctx context.Context, id string) (*Listing, error)
	Set(ctx context.Context, listing *Listing) error
	Invalidate(ctx context.Context, id string) error
}

// EventPublisher emits best-effort domain events. Publish failures are
// logged by callers, never surfaced to clients.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload interface{}) error
}
