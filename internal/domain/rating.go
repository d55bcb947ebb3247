package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RatingValue is a binary reputation signal exchanged between order
// participants after completion.
type RatingValue string

const (
	RatingPositive RatingValue = "positive"
	RatingNegative RatingValue = "negative"
)

// IsValid checks if the RatingValue is one of the defined constants.
func (v RatingValue) IsValid() bool {
	return v == RatingPositive || v == RatingNegative
}

// Rating records one participant's judgement of the other for a single
// order. At most one rating exists per (order, rater) pair.
type Rating struct {
	ID        primitive.ObjectID
	OrderID   primitive.ObjectID
	RaterID   string
	RatedID   string
	Value     RatingValue
	CreatedAt time.Time
}

// NewRating creates a rating by raterID about ratedID for the given order.
func NewRating(orderID primitive.ObjectID, raterID, ratedID string, value RatingValue) (*Rating, error) {
	if raterID == "" || ratedID == "" {
		return nil, errors.New("raterID and ratedID cannot be empty")
	}
	if !value.IsValid() {
		return nil, errors.New("rating value must be positive or negative")
	}
	return &Rating{
		ID:        primitive.NewObjectID(),
		OrderID:   orderID,
		RaterID:   raterID,
		RatedID:   ratedID,
		Value:     value,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// RatingSummary aggregates the ratings received by one user.
type RatingSummary struct {
	UserID   string
	Positive int64
	Negative int64
}
