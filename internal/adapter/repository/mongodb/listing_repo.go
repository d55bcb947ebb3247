package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/SilnetC/TwoDotHand/internal/domain"
	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const listingCollectionName = "listings"

// ListingRepository implements domain.ListingRepository using MongoDB.
type ListingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewListingRepository creates the repository and ensures its indexes.
func NewListingRepository(db *mongo.Database, log *logger.Logger) (*ListingRepository, error) {
	collection := db.Collection(listingCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "seller_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "sub_category", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for listings collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for listings collection")
	}

	return &ListingRepository{
		collection: collection,
		logger:     log.Named("ListingRepository"),
	}, nil
}

// Create inserts a new listing.
func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	r.logger.Info("Creating listing in DB", zap.String("seller_id", listing.SellerID), zap.String("title", listing.Title))

	doc := fromDomainListing(listing)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	listing.ID = doc.ID

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert listing into DB", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	return nil
}

// GetByID retrieves a listing by its ID.
func (r *ListingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Listing, error) {
	var doc listingDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get listing by ID from DB", zap.Error(err), zap.String("listing_id", id.Hex()))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomain(), nil
}

// Update replaces the mutable fields of a listing.
func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	if listing.ID.IsZero() {
		return errors.New("cannot update listing without ID")
	}
	doc := fromDomainListing(listing)
	doc.UpdatedAt = time.Now().UTC()
	listing.UpdatedAt = doc.UpdatedAt

	update := bson.M{"$set": bson.M{
		"title":                doc.Title,
		"category":             doc.Category,
		"sub_category":         doc.SubCategory,
		"description":          doc.Description,
		"price":                doc.Price,
		"location":             doc.Location,
		"condition":            doc.Condition,
		"color":                doc.Color,
		"battery":              doc.Battery,
		"storage":              doc.Storage,
		"warranty_status":      doc.WarrantyStatus,
		"warranty_expiry_date": doc.WarrantyExpiryDate,
		"images":               doc.Images,
		"status":               doc.Status,
		"updated_at":           doc.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		r.logger.Error("Failed to update listing in DB", zap.Error(err), zap.String("listing_id", doc.ID.Hex()))
		return fmt.Errorf("db update failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a listing permanently.
func (r *ListingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		r.logger.Error("Failed to delete listing from DB", zap.Error(err), zap.String("listing_id", id.Hex()))
		return fmt.Errorf("db delete failed: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetStatus updates only the status field.
func (r *ListingRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status domain.ListingStatus) error {
	update := bson.M{"$set": bson.M{"status": string(status), "updated_at": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		r.logger.Error("Failed to set listing status in DB", zap.Error(err), zap.String("listing_id", id.Hex()))
		return fmt.Errorf("db update failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IncrementViews bumps the view counter by one.
func (r *ListingRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		r.logger.Error("Failed to increment listing views in DB", zap.Error(err), zap.String("listing_id", id.Hex()))
		return fmt.Errorf("db update failed: %w", err)
	}
	return nil
}

// buildFilterQuery translates a domain.ListingFilter into a Mongo query
// over active listings. Substring clauses are case-insensitive regexes
// with the input escaped.
func buildFilterQuery(filter domain.ListingFilter) bson.M {
	query := bson.M{"status": string(domain.ListingStatusActive)}

	if filter.Query != nil {
		pattern := regexp.QuoteMeta(*filter.Query)
		query["$or"] = []bson.M{
			{"title": bson.M{"$regex": pattern, "$options": "i"}},
			{"description": bson.M{"$regex": pattern, "$options": "i"}},
		}
	}
	if filter.Category != nil {
		query["category"] = *filter.Category
	}
	if filter.SubCategory != nil {
		query["sub_category"] = *filter.SubCategory
	}
	if filter.Location != nil {
		query["location"] = bson.M{"$regex": regexp.QuoteMeta(*filter.Location), "$options": "i"}
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		price := bson.M{}
		if filter.MinPrice != nil {
			price["$gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			price["$lte"] = *filter.MaxPrice
		}
		query["price"] = price
	}
	if filter.CreatedAfter != nil {
		query["created_at"] = bson.M{"$gt": *filter.CreatedAfter}
	}
	return query
}

// Find applies the filter to active listings, newest first.
func (r *ListingRepository) Find(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, error) {
	query := buildFilterQuery(filter)

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		findOptions.SetLimit(filter.Limit)
	}

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		r.logger.Error("Failed to find listings in DB", zap.Error(err))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err = cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode listings from DB", zap.Error(err))
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}

	listings := make([]*domain.Listing, len(docs))
	for i, doc := range docs {
		listings[i] = doc.toDomain()
	}
	return listings, nil
}

// CountMatching counts active listings matching the filter.
func (r *ListingRepository) CountMatching(ctx context.Context, filter domain.ListingFilter) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, buildFilterQuery(filter))
	if err != nil {
		r.logger.Error("Failed to count listings in DB", zap.Error(err))
		return 0, fmt.Errorf("db count failed: %w", err)
	}
	return count, nil
}

// FindBySeller returns all listings owned by sellerID, newest first.
func (r *ListingRepository) FindBySeller(ctx context.Context, sellerID string) ([]*domain.Listing, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"seller_id": sellerID}, findOptions)
	if err != nil {
		r.logger.Error("Failed to find listings by seller from DB", zap.Error(err), zap.String("seller_id", sellerID))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}

	listings := make([]*domain.Listing, len(docs))
	for i, doc := range docs {
		listings[i] = doc.toDomain()
	}
	return listings, nil
}

// FindByIDs returns the listings whose IDs are in ids. Missing IDs are
// silently omitted.
func (r *ListingRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		r.logger.Error("Failed to find listings by IDs from DB", zap.Error(err))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}

	listings := make([]*domain.Listing, len(docs))
	for i, doc := range docs {
		listings[i] = doc.toDomain()
	}
	return listings, nil
}
