package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/SilnetC/TwoDotHand/internal/domain"
	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// FavoriteUsecase maintains the per-user bounded set of saved listings.
type FavoriteUsecase struct {
	favorites domain.FavoriteRepository
	listings  domain.ListingRepository
	logger    *logger.Logger
}

// NewFavoriteUsecase creates a new FavoriteUsecase.
func NewFavoriteUsecase(favorites domain.FavoriteRepository, listings domain.ListingRepository, log *logger.Logger) *FavoriteUsecase {
	return &FavoriteUsecase{
		favorites: favorites,
		listings:  listings,
		logger:    log.Named("FavoriteUsecase"),
	}
}

// Add saves a listing to the user's favorites. The count pre-check
// guards the cap; the unique index is the authoritative guard against
// duplicate pairs.
func (uc *FavoriteUsecase) Add(ctx context.Context, userID string, listingID primitive.ObjectID) (*domain.Favorite, error) {
	uc.logger.Info("Adding favorite",
		zap.String("user_id", userID),
		zap.String("listing_id", listingID.Hex()))

	listing, err := uc.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: listing not found", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: failed to load listing: %v", domain.ErrRepository, err)
	}

	if listing.SellerID == userID {
		return nil, fmt.Errorf("%w: you cannot favorite your own listing", domain.ErrForbidden)
	}

	count, err := uc.favorites.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count favorites: %v", domain.ErrRepository, err)
	}
	if count >= domain.FavoriteLimit {
		uc.logger.Warn("Favorite list at capacity", zap.String("user_id", userID), zap.Int64("count", count))
		return nil, fmt.Errorf("%w: at most %d favorites allowed", domain.ErrFavoriteLimit, domain.FavoriteLimit)
	}

	favorite, err := domain.NewFavorite(userID, listingID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if err := uc.favorites.Create(ctx, favorite); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: listing already in favorites", domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("%w: failed to create favorite: %v", domain.ErrRepository, err)
	}
	return favorite, nil
}

// List returns the user's favorites with listings expanded, hiding
// entries whose listing is no longer active. Hidden entries are kept,
// not deleted.
func (uc *FavoriteUsecase) List(ctx context.Context, userID string) ([]*domain.Listing, error) {
	favorites, err := uc.favorites.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load favorites: %v", domain.ErrRepository, err)
	}
	if len(favorites) == 0 {
		return nil, nil
	}

	ids := make([]primitive.ObjectID, len(favorites))
	for i, f := range favorites {
		ids[i] = f.ListingID
	}
	listings, err := uc.listings.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load listings: %v", domain.ErrRepository, err)
	}

	byID := make(map[primitive.ObjectID]*domain.Listing, len(listings))
	for _, l := range listings {
		byID[l.ID] = l
	}

	// Preserve favorite order, newest saved first.
	result := make([]*domain.Listing, 0, len(favorites))
	for _, f := range favorites {
		if l, ok := byID[f.ListingID]; ok && l.Status == domain.ListingStatusActive {
			result = append(result, l)
		}
	}
	return result, nil
}

// Remove deletes the user's favorite entry for the listing, reporting
// ErrNotFound when no entry exists.
func (uc *FavoriteUsecase) Remove(ctx context.Context, userID string, listingID primitive.ObjectID) error {
	uc.logger.Info("Removing favorite",
		zap.String("user_id", userID),
		zap.String("listing_id", listingID.Hex()))
	return uc.favorites.Delete(ctx, userID, listingID)
}

// Check reports whether the listing is in the user's favorites.
func (uc *FavoriteUsecase) Check(ctx context.Context, userID string, listingID primitive.ObjectID) (bool, error) {
	exists, err := uc.favorites.Exists(ctx, userID, listingID)
	if err != nil {
		return false, fmt.Errorf("%w: failed to check favorite: %v", domain.ErrRepository, err)
	}
	return exists, nil
}
