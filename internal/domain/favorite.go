package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FavoriteLimit is the maximum number of favorite entries per user.
const FavoriteLimit = 10

// Favorite is a user's bookmark of a listing. At most one entry exists
// per (user, listing) pair.
type Favorite struct {
	ID        primitive.ObjectID
	UserID    string
	ListingID primitive.ObjectID
	CreatedAt time.Time
}

// NewFavorite creates a favorite entry for the given user and listing.
func NewFavorite(userID string, listingID primitive.ObjectID) (*Favorite, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}
	return &Favorite{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		ListingID: listingID,
		CreatedAt: time.Now().UTC(),
	}, nil
}
