package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SilnetC/TwoDotHand/internal/domain"
	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const ratingCollectionName = "ratings"

// RatingRepository implements domain.RatingRepository using MongoDB.
// The unique index over (order_id, rater_id) is the authoritative guard
// against duplicate ratings; its violation maps to domain.ErrAlreadyExists.
type RatingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewRatingRepository creates the repository and ensures its indexes.
func NewRatingRepository(db *mongo.Database, log *logger.Logger) (*RatingRepository, error) {
	collection := db.Collection(ratingCollectionName)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "order_id", Value: 1}, {Key: "rater_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "rated_id", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for ratings collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for ratings collection")
	}

	return &RatingRepository{
		collection: collection,
		logger:     log.Named("RatingRepository"),
	}, nil
}

// Create inserts a new rating, translating a duplicate-key violation
// into domain.ErrAlreadyExists.
func (r *RatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	r.logger.Info("Creating rating in DB",
		zap.String("order_id", rating.OrderID.Hex()),
		zap.String("rater_id", rating.RaterID))

	doc := fromDomainRating(rating)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	rating.ID = doc.ID

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Duplicate key error on rating creation",
				zap.String("order_id", rating.OrderID.Hex()),
				zap.String("rater_id", rating.RaterID))
			return domain.ErrAlreadyExists
		}
		r.logger.Error("Failed to insert rating into DB", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	return nil
}

// FindByOrderAndRater returns the rating for (order, rater), or
// domain.ErrNotFound when none exists.
func (r *RatingRepository) FindByOrderAndRater(ctx context.Context, orderID primitive.ObjectID, raterID string) (*domain.Rating, error) {
	var doc ratingDocument
	err := r.collection.FindOne(ctx, bson.M{"order_id": orderID, "rater_id": raterID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to find rating by order and rater from DB", zap.Error(err))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomain(), nil
}

// Summary aggregates positive and negative counts for the rated user.
func (r *RatingRepository) Summary(ctx context.Context, userID string) (*domain.RatingSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "rated_id", Value: userID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$value"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("Failed to aggregate rating summary", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("db aggregate failed: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Value string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		r.logger.Error("Failed to decode rating summary aggregation result", zap.Error(err))
		return nil, fmt.Errorf("db cursor all for aggregate failed: %w", err)
	}

	summary := &domain.RatingSummary{UserID: userID}
	for _, res := range results {
		switch domain.RatingValue(res.Value) {
		case domain.RatingPositive:
			summary.Positive = res.Count
		case domain.RatingNegative:
			summary.Negative = res.Count
		}
	}
	return summary, nil
}
