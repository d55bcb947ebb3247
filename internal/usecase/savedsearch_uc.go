package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/SilnetC/TwoDotHand/internal/domain"
	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// SavedSearchUsecase manages saved filters and their watermarks. The
// delta operation advances the watermark; the count-only poll never does.
type SavedSearchUsecase struct {
	searches domain.SavedSearchRepository
	listings domain.ListingRepository
	logger   *logger.Logger
}

// NewSavedSearchUsecase creates a new SavedSearchUsecase.
func NewSavedSearchUsecase(searches domain.SavedSearchRepository, listings domain.ListingRepository, log *logger.Logger) *SavedSearchUsecase {
	return &SavedSearchUsecase{
		searches: searches,
		listings: listings,
		logger:   log.Named("SavedSearchUsecase"),
	}
}

// Create stores a new saved search for the user. A search with an
// identical normalized filter tuple is rejected; comparison is exact
// field by field, so an explicit zero differs from an absent field.
func (uc *SavedSearchUsecase) Create(ctx context.Context, userID string, params domain.SearchParams) (*domain.SavedSearch, error) {
	uc.logger.Info("Creating saved search", zap.String("user_id", userID))

	search, err := domain.NewSavedSearch(userID, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	existing, err := uc.searches.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load saved searches: %v", domain.ErrRepository, err)
	}
	for _, s := range existing {
		if s.Params.Equal(search.Params) {
			return nil, fmt.Errorf("%w: identical saved search already exists", domain.ErrAlreadyExists)
		}
	}

	if err := uc.searches.Create(ctx, search); err != nil {
		return nil, fmt.Errorf("%w: failed to create saved search: %v", domain.ErrRepository, err)
	}
	return search, nil
}

// List returns the user's saved searches, newest first.
func (uc *SavedSearchUsecase) List(ctx context.Context, userID string) ([]*domain.SavedSearch, error) {
	searches, err := uc.searches.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load saved searches: %v", domain.ErrRepository, err)
	}
	return searches, nil
}

// Delete removes the user's saved search.
func (uc *SavedSearchUsecase) Delete(ctx context.Context, id primitive.ObjectID, userID string) error {
	search, err := uc.searches.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if search.UserID != userID {
		return fmt.Errorf("%w: saved search belongs to another user", domain.ErrForbidden)
	}
	return uc.searches.Delete(ctx, id)
}

// NewAds computes the delta for one saved search: active listings
// matching the filter and created strictly after the watermark. As a
// side effect the watermark advances to now, even when the result is
// empty, so an immediate second call returns nothing.
func (uc *SavedSearchUsecase) NewAds(ctx context.Context, id primitive.ObjectID, userID string) ([]*domain.Listing, error) {
	search, err := uc.searches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if search.UserID != userID {
		return nil, fmt.Errorf("%w: saved search belongs to another user", domain.ErrForbidden)
	}

	watermark := search.LastChecked
	listings, err := uc.listings.Find(ctx, search.Params.ToListingFilter(&watermark))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to search listings: %v", domain.ErrRepository, err)
	}

	now := time.Now().UTC()
	if err := uc.searches.UpdateLastChecked(ctx, id, now); err != nil {
		return nil, fmt.Errorf("%w: failed to advance watermark: %v", domain.ErrRepository, err)
	}

	uc.logger.Info("Computed saved search delta",
		zap.String("saved_search_id", id.Hex()),
		zap.Int("new_listings", len(listings)),
		zap.Time("previous_watermark", watermark))
	return listings, nil
}

// CountNewAds sums delta counts across all of the user's saved searches
// without touching any watermark.
func (uc *SavedSearchUsecase) CountNewAds(ctx context.Context, userID string) (int64, error) {
	searches, err := uc.searches.FindByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to load saved searches: %v", domain.ErrRepository, err)
	}

	var total int64
	for _, search := range searches {
		watermark := search.LastChecked
		count, err := uc.listings.CountMatching(ctx, search.Params.ToListingFilter(&watermark))
		if err != nil {
			return 0, fmt.Errorf("%w: failed to count matching listings: %v", domain.ErrRepository, err)
		}
		total += count
	}
	return total, nil
}
