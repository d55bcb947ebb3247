package mongodb

import (
	"context"
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

const favoriteCollectionName = "favorites"

// FavoriteRepository implements domain.FavoriteRepository using MongoDB.
// The unique index over (user_id, listing_id) is the authoritative guard
// against duplicate entries.
type FavoriteRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewFavoriteRepository creates the repository and ensures its indexes.
func NewFavoriteRepository(db *mongo.Database, log *logger.Logger) (*FavoriteRepository, error) {
	collection := db.Collection(favoriteCollectionName)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "listing_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for favorites collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for favorites collection")
	}

	return &FavoriteRepository{
		collection: collection,
		logger:     log.Named("FavoriteRepository"),
	}, nil
}

// Create inserts a favorite entry, translating a duplicate-key violation
// into domain.ErrAlreadyExists.
func (r *FavoriteRepository) Create(ctx context.Context, favorite *domain.Favorite) error {
	doc := fromDomainFavorite(favorite)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	favorite.ID = doc.ID

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Duplicate key error on favorite creation",
				zap.String("user_id", favorite.UserID),
				zap.String("listing_id", favorite.ListingID.Hex()))
			return domain.ErrAlreadyExists
		}
		r.logger.Error("Failed to insert favorite into DB", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	return nil
}

// Delete removes the entry for (user, listing), reporting
// domain.ErrNotFound when no row matched.
func (r *FavoriteRepository) Delete(ctx context.Context, userID string, listingID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "listing_id": listingID})
	if err != nil {
		r.logger.Error("Failed to delete favorite from DB", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("db delete failed: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Exists reports whether the (user, listing) pair is saved.
func (r *FavoriteRepository) Exists(ctx context.Context, userID string, listingID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID, "listing_id": listingID}, options.Count().SetLimit(1))
	if err != nil {
		r.logger.Error("Failed to check favorite existence in DB", zap.Error(err), zap.String("user_id", userID))
		return false, fmt.Errorf("db count failed: %w", err)
	}
	return count > 0, nil
}

// CountByUser counts the user's favorite entries.
func (r *FavoriteRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		r.logger.Error("Failed to count favorites by user in DB", zap.Error(err), zap.String("user_id", userID))
		return 0, fmt.Errorf("db count failed: %w", err)
	}
	return count, nil
}

// FindByUser returns the user's favorite entries, newest first.
func (r *FavoriteRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		r.logger.Error("Failed to find favorites by user from DB", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*favoriteDocument
	if err = cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode favorites from DB", zap.Error(err))
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}

	favorites := make([]*domain.Favorite, len(docs))
	for i, doc := range docs {
		favorites[i] = doc.toDomain()
	}
	return favorites, nil
}
