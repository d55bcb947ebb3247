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

const orderCollectionName = "orders"

// OrderRepository implements domain.OrderRepository using MongoDB.
type OrderRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewOrderRepository creates the repository and ensures its indexes.
func NewOrderRepository(db *mongo.Database, log *logger.Logger) (*OrderRepository, error) {
	collection := db.Collection(orderCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "buyer_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "seller_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "status", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Error("Failed to create indexes for orders collection", zap.Error(err))
	} else {
		log.Info("Successfully ensured indexes for orders collection")
	}

	return &OrderRepository{
		collection: collection,
		logger:     log.Named("OrderRepository"),
	}, nil
}

// Create inserts a new order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	r.logger.Info("Creating order in DB",
		zap.String("listing_id", order.ListingID.Hex()),
		zap.String("buyer_id", order.BuyerID))

	doc := fromDomainOrder(order)
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	order.ID = doc.ID

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.Warn("Duplicate key error on order creation", zap.Error(err))
			return domain.ErrAlreadyExists
		}
		r.logger.Error("Failed to insert order into DB", zap.Error(err))
		return fmt.Errorf("db insert failed: %w", err)
	}
	return nil
}

// GetByID retrieves an order by its ID.
func (r *OrderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	var doc orderDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to get order by ID from DB", zap.Error(err), zap.String("order_id", id.Hex()))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomain(), nil
}

// Update persists the order's status and update timestamp.
func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	if order.ID.IsZero() {
		return errors.New("cannot update order without ID")
	}

	update := bson.M{"$set": bson.M{
		"status":     string(order.Status),
		"updated_at": order.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": order.ID}, update)
	if err != nil {
		r.logger.Error("Failed to update order in DB", zap.Error(err), zap.String("order_id", order.ID.Hex()))
		return fmt.Errorf("db update failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) findMany(ctx context.Context, query bson.M) ([]*domain.Order, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		r.logger.Error("Failed to find orders in DB", zap.Error(err))
		return nil, fmt.Errorf("db find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*orderDocument
	if err = cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode orders from DB", zap.Error(err))
		return nil, fmt.Errorf("db cursor all failed: %w", err)
	}

	orders := make([]*domain.Order, len(docs))
	for i, doc := range docs {
		orders[i] = doc.toDomain()
	}
	return orders, nil
}

// FindByBuyer returns the buyer's orders, newest first.
func (r *OrderRepository) FindByBuyer(ctx context.Context, buyerID string) ([]*domain.Order, error) {
	return r.findMany(ctx, bson.M{"buyer_id": buyerID})
}

// FindBySeller returns the seller's orders, newest first.
func (r *OrderRepository) FindBySeller(ctx context.Context, sellerID string) ([]*domain.Order, error) {
	return r.findMany(ctx, bson.M{"seller_id": sellerID})
}

func liveStatusStrings() []string {
	statuses := make([]string, len(domain.LiveOrderStatuses))
	for i, s := range domain.LiveOrderStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

// FindLiveByListing returns the most recent live order for the listing,
// or domain.ErrNotFound when none exists.
func (r *OrderRepository) FindLiveByListing(ctx context.Context, listingID primitive.ObjectID) (*domain.Order, error) {
	query := bson.M{
		"listing_id": listingID,
		"status":     bson.M{"$in": liveStatusStrings()},
	}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var doc orderDocument
	err := r.collection.FindOne(ctx, query, findOptions).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to find live order by listing from DB", zap.Error(err), zap.String("listing_id", listingID.Hex()))
		return nil, fmt.Errorf("db findone failed: %w", err)
	}
	return doc.toDomain(), nil
}

// ExistsByListing reports whether any order references the listing.
func (r *OrderRepository) ExistsByListing(ctx context.Context, listingID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"listing_id": listingID}, options.Count().SetLimit(1))
	if err != nil {
		r.logger.Error("Failed to count orders by listing in DB", zap.Error(err), zap.String("listing_id", listingID.Hex()))
		return false, fmt.Errorf("db count failed: %w", err)
	}
	return count > 0, nil
}

// CountBySellerAndStatus counts the seller's orders in the given status.
func (r *OrderRepository) CountBySellerAndStatus(ctx context.Context, sellerID string, status domain.OrderStatus) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"seller_id": sellerID, "status": string(status)})
	if err != nil {
		r.logger.Error("Failed to count orders by seller and status in DB", zap.Error(err), zap.String("seller_id", sellerID))
		return 0, fmt.Errorf("db count failed: %w", err)
	}
	return count, nil
}

// CountByBuyerAndStatus counts the buyer's orders in the given status.
func (r *OrderRepository) CountByBuyerAndStatus(ctx context.Context, buyerID string, status domain.OrderStatus) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"buyer_id": buyerID, "status": string(status)})
	if err != nil {
		r.logger.Error("Failed to count orders by buyer and status in DB", zap.Error(err), zap.String("buyer_id", buyerID))
		return 0, fmt.Errorf("db count failed: %w", err)
	}
	return count, nil
}
