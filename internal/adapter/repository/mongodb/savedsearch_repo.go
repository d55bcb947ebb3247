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

const savedSearchCollectionName = "saved_searches"

// SavedSearchRepository implements domain.SavedSearchRepository using MongoDB.
type SavedSearchRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewSavedSearchRepository creates the repository and ensures its indexes.
func NewSavedSearchRepository(db *mongo.Database, log *logger.Logger) (*SavedSearchRepository, error) {
	collection := db.Collection(savedSearchCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for saved_searches collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for saved_searches collection")
	}

	return &SavedSearchRepository{
		collection: collection,
		logger:     log.Named("SavedSearchRepository"),
	}, nil
}

// Create inserts a new saved search.
func (r *SavedSearchRepository) Create(ctx context.Context, search *domain.SavedSearch) error {
	r.logger.Info("Creating saved search in DB", zap.String("user_id", search.UserID))

	doc := fromDomainSavedSearch(search)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	search.ID = doc.ID

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert saved search into DB", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	return nil
}

// GetByID retrieves a saved search by its ID.
func (r *SavedSearchRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SavedSearch, error) {
	var doc savedSearchDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get saved search by ID from DB", zap.Error(err), zap.String("saved_search_id", id.Hex()))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomain(), nil
}

// Delete removes a saved search.
func (r *SavedSearchRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete saved search from DB", zap.Error(err), zap.String("saved_search_id", id.Hex()))
		return fmt.Errorf("db delete failed: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindByUser returns the user's saved searches, newest first.
func (r *SavedSearchRepository) FindByUser(ctx context.Context, userID string) ([]*domain.SavedSearch, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		r.logger.Error("Failed to find saved searches by user from DB", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*savedSearchDocument
	if err = cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode saved searches from DB", zap.Error(err))
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}

	searches := make([]*domain.SavedSearch, len(docs))
	for i, doc := range docs {
		searches[i] = doc.toDomain()
	}
	return searches, nil
}

// UpdateLastChecked advances the watermark to checkedAt.
func (r *SavedSearchRepository) UpdateLastChecked(ctx context.Context, id primitive.ObjectID, checkedAt time.Time) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_checked": checkedAt}})
	if err != nil {
		r.logger.Error("Failed to update saved search watermark in DB", zap.Error(err), zap.String("saved_search_id", id.Hex()))
		return fmt.Errorf("db update failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
