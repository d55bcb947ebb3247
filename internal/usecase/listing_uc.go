package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SilnetC/TwoDotHand/internal/adapter/messaging/nats"
	"github.com/SilnetC/TwoDotHand/internal/domain"
	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DefaultLatestLimit is how many listings the landing page shows.
const DefaultLatestLimit = 8

// ListingUsecase implements listing CRUD with external image storage,
// a read-through cache and order-aware deletion.
type ListingUsecase struct {
	listings domain.ListingRepository
	orders   domain.OrderRepository
	storage  domain.ImageStorage
	cache    domain.ListingCache
	events   domain.EventPublisher
	logger   *logger.Logger
}

// NewListingUsecase creates a new ListingUsecase.
func NewListingUsecase(
	listings domain.ListingRepository,
	orders domain.OrderRepository,
	storage domain.ImageStorage,
	cache domain.ListingCache,
	events domain.EventPublisher,
	log *logger.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		listings: listings,
		orders:   orders,
		storage:  storage,
		cache:    cache,
		events:   events,
		logger:   log.Named("ListingUsecase"),
	}
}

// ImageUpload is one image file from a multipart request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ListingAttributes are the optional descriptive fields of a listing.
type ListingAttributes struct {
	Location           string
	Condition          string
	Color              string
	Battery            string
	Storage            string
	WarrantyStatus     string
	WarrantyExpiryDate *time.Time
}

// CreateListingInput holds the request fields for creating a listing.
type CreateListingInput struct {
	Title       string
	Category    string
	SubCategory string
	Description string
	Price       int64
	Attributes  ListingAttributes
	Images      []ImageUpload
}

func applyAttributes(l *domain.Listing, attrs ListingAttributes) {
	l.Location = attrs.Location
	l.Condition = attrs.Condition
	l.Color = attrs.Color
	l.Battery = attrs.Battery
	l.Storage = attrs.Storage
	l.WarrantyStatus = attrs.WarrantyStatus
	l.WarrantyExpiryDate = attrs.WarrantyExpiryDate
}

// cleanupImages deletes uploaded objects best-effort. Failures are
// logged, never surfaced: the primary error already dominates.
func (uc *ListingUsecase) cleanupImages(ctx context.Context, images []domain.ListingImage) {
	for _, img := range images {
		if err := uc.storage.Delete(ctx, img.Key); err != nil {
			uc.logger.Warn("Failed to clean up image object", zap.Error(err), zap.String("key", img.Key))
		}
	}
}

// Create uploads the images and persists a new active listing. The
// first image becomes primary. On a failed insert, already uploaded
// objects are removed best-effort.
func (uc *ListingUsecase) Create(ctx context.Context, sellerID string, input CreateListingInput) (*domain.Listing, error) {
	uc.logger.Info("Creating listing",
		zap.String("seller_id", sellerID),
		zap.String("title", input.Title),
		zap.Int("image_count", len(input.Images)))

	if len(input.Images) == 0 {
		return nil, fmt.Errorf("%w: at least one image is required", domain.ErrInvalidInput)
	}

	listing, err := domain.NewListing(sellerID, input.Title, input.Category, input.SubCategory, input.Description, input.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	applyAttributes(listing, input.Attributes)

	uploaded := make([]domain.ListingImage, 0, len(input.Images))
	for i, img := range input.Images {
		stored, err := uc.storage.Upload(ctx, img.Filename, img.ContentType, img.Data)
		if err != nil {
			uc.cleanupImages(ctx, uploaded)
			return nil, fmt.Errorf("%w: failed to upload image: %v", domain.ErrRepository, err)
		}
		uploaded = append(uploaded, domain.ListingImage{
			URL:       stored.URL,
			Key:       stored.Key,
			IsPrimary: i == 0,
		})
	}
	listing.Images = uploaded
	listing.NormalizeImages()

	if err := uc.listings.Create(ctx, listing); err != nil {
		uc.cleanupImages(ctx, uploaded)
		return nil, fmt.Errorf("%w: failed to create listing: %v", domain.ErrRepository, err)
	}

	eventData := map[string]interface{}{
		"listing_id": listing.ID.Hex(),
		"seller_id":  listing.SellerID,
		"category":   listing.Category,
		"price":      listing.Price,
		"created_at": listing.CreatedAt.Format(time.RFC3339Nano),
	}
	if err := uc.events.Publish(ctx, nats.SubjectListingCreated, eventData); err != nil {
		uc.logger.Warn("Failed to publish listing.created event", zap.Error(err), zap.String("listing_id", listing.ID.Hex()))
	}

	return listing, nil
}

// GetByID returns the listing, serving from cache when possible, and
// bumps the view counter.
func (uc *ListingUsecase) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Listing, error) {
	if cached, err := uc.cache.Get(ctx, id.Hex()); err == nil {
		if err := uc.listings.IncrementViews(ctx, id); err != nil {
			uc.logger.Warn("Failed to increment views for cached listing", zap.Error(err), zap.String("listing_id", id.Hex()))
		}
		cached.Views++
		return cached, nil
	}

	listing, err := uc.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.listings.IncrementViews(ctx, id); err != nil {
		uc.logger.Warn("Failed to increment listing views", zap.Error(err), zap.String("listing_id", id.Hex()))
	} else {
		listing.Views++
	}

	if err := uc.cache.Set(ctx, listing); err != nil {
		uc.logger.Warn("Failed to cache listing", zap.Error(err), zap.String("listing_id", id.Hex()))
	}
	return listing, nil
}

// Latest returns the newest active listings, defaulting to
// DefaultLatestLimit when limit is not positive.
func (uc *ListingUsecase) Latest(ctx context.Context, limit int64) ([]*domain.Listing, error) {
	if limit <= 0 {
		limit = DefaultLatestLimit
	}
	listings, err := uc.listings.Find(ctx, domain.ListingFilter{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load listings: %v", domain.ErrRepository, err)
	}
	return listings, nil
}

// Search applies the filter to active listings.
func (uc *ListingUsecase) Search(ctx context.Context, params domain.SearchParams, limit int64) ([]*domain.Listing, error) {
	params.Normalize()
	filter := params.ToListingFilter(nil)
	filter.Limit = limit
	listings, err := uc.listings.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to search listings: %v", domain.ErrRepository, err)
	}
	return listings, nil
}

// MyAds returns all of the seller's listings regardless of status.
func (uc *ListingUsecase) MyAds(ctx context.Context, sellerID string) ([]*domain.Listing, error) {
	listings, err := uc.listings.FindBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load listings: %v", domain.ErrRepository, err)
	}
	return listings, nil
}

// UpdateListingInput holds the request fields for editing a listing.
// Nil pointers leave the corresponding field unchanged. KeepImageKeys
// names the existing images to retain; images not named are removed
// from storage. PrimaryKey elects the primary image by storage key.
type UpdateListingInput struct {
	Title         *string
	Category      *string
	SubCategory   *string
	Description   *string
	Price         *int64
	Attributes    *ListingAttributes
	KeepImageKeys []string
	NewImages     []ImageUpload
	PrimaryKey    string
}

// Update edits the listing's fields and image set on behalf of its
// owner. Exactly one image stays primary whenever any remain.
func (uc *ListingUsecase) Update(ctx context.Context, id primitive.ObjectID, sellerID string, input UpdateListingInput) (*domain.Listing, error) {
	uc.logger.Info("Updating listing", zap.String("listing_id", id.Hex()), zap.String("seller_id", sellerID))

	listing, err := uc.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != sellerID {
		return nil, fmt.Errorf("%w: listing belongs to another seller", domain.ErrForbidden)
	}

	if input.Title != nil {
		listing.Title = *input.Title
	}
	if input.Category != nil {
		listing.Category = *input.Category
	}
	if input.SubCategory != nil {
		listing.SubCategory = *input.SubCategory
	}
	if input.Description != nil {
		listing.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, fmt.Errorf("%w: price must be positive", domain.ErrInvalidInput)
		}
		listing.Price = *input.Price
	}
	if input.Attributes != nil {
		applyAttributes(listing, *input.Attributes)
	}

	// Rebuild the image set: retained images first, then new uploads.
	keep := make(map[string]bool, len(input.KeepImageKeys))
	for _, key := range input.KeepImageKeys {
		keep[key] = true
	}

	var retained []domain.ListingImage
	var removed []domain.ListingImage
	for _, img := range listing.Images {
		if keep[img.Key] {
			retained = append(retained, img)
		} else {
			removed = append(removed, img)
		}
	}

	uploaded := make([]domain.ListingImage, 0, len(input.NewImages))
	for _, img := range input.NewImages {
		stored, err := uc.storage.Upload(ctx, img.Filename, img.ContentType, img.Data)
		if err != nil {
			uc.cleanupImages(ctx, uploaded)
			return nil, fmt.Errorf("%w: failed to upload image: %v", domain.ErrRepository, err)
		}
		uploaded = append(uploaded, domain.ListingImage{URL: stored.URL, Key: stored.Key})
	}

	images := append(retained, uploaded...)
	if len(images) == 0 {
		uc.cleanupImages(ctx, uploaded)
		return nil, fmt.Errorf("%w: a listing must keep at least one image", domain.ErrInvalidInput)
	}

	for i := range images {
		images[i].IsPrimary = input.PrimaryKey != "" && images[i].Key == input.PrimaryKey
	}
	listing.Images = images
	listing.NormalizeImages()

	if err := uc.listings.Update(ctx, listing); err != nil {
		uc.cleanupImages(ctx, uploaded)
		return nil, fmt.Errorf("%w: failed to update listing: %v", domain.ErrRepository, err)
	}

	uc.cleanupImages(ctx, removed)
	if err := uc.cache.Invalidate(ctx, id.Hex()); err != nil {
		uc.logger.Warn("Failed to invalidate listing cache", zap.Error(err), zap.String("listing_id", id.Hex()))
	}
	return listing, nil
}

// Delete removes the seller's listing. A listing referenced by any
// order is never hard-deleted; its status flips to removed instead.
func (uc *ListingUsecase) Delete(ctx context.Context, id primitive.ObjectID, sellerID string) error {
	uc.logger.Info("Deleting listing", zap.String("listing_id", id.Hex()), zap.String("seller_id", sellerID))

	listing, err := uc.listings.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.SellerID != sellerID {
		return fmt.Errorf("%w: listing belongs to another seller", domain.ErrForbidden)
	}

	referenced, err := uc.orders.ExistsByListing(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: failed to check orders: %v", domain.ErrRepository, err)
	}

	if referenced {
		if err := uc.listings.SetStatus(ctx, id, domain.ListingStatusRemoved); err != nil {
			return fmt.Errorf("%w: failed to mark listing removed: %v", domain.ErrRepository, err)
		}
	} else {
		if err := uc.listings.Delete(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return err
			}
			return fmt.Errorf("%w: failed to delete listing: %v", domain.ErrRepository, err)
		}
		uc.cleanupImages(ctx, listing.Images)
	}

	if err := uc.cache.Invalidate(ctx, id.Hex()); err != nil {
		uc.logger.Warn("Failed to invalidate listing cache", zap.Error(err), zap.String("listing_id", id.Hex()))
	}
	return nil
}
