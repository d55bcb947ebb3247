package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a user's opinion about a product category, independent of any
// order. At most one review exists per (user, category, subCategory).
type Review struct {
	ID          primitive.ObjectID
	UserID      string
	UserName    string
	Category    string
	SubCategory string
	Rating      int32
	Text        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewReview creates a category review by the given user.
func NewReview(userID, userName, category, subCategory, text string, rating int32) (*Review, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}
	if category == "" || subCategory == "" {
		return nil, errors.New("category and subCategory are required")
	}
	if rating < 1 || rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}
	if text == "" {
		return nil, errors.New("review text is required")
	}

	now := time.Now().UTC()
	return &Review{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		UserName:    userName,
		Category:    category,
		SubCategory: subCategory,
		Rating:      rating,
		Text:        text,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
