package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/SilnetC/TwoDotHand/internal/domain"
	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(v int64) *int64   { return &v }

func savedSearch(t *testing.T, userID string, params domain.SearchParams) *domain.SavedSearch {
	t.Helper()
	search, err := domain.NewSavedSearch(userID, params)
	require.NoError(t, err)
	return search
}

func TestSavedSearchUsecase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a new search", func(t *testing.T) {
		searches := new(MockSavedSearchRepository)
		searches.On("FindByUser", ctx, "user-1").Return(nil, nil).Once()
		searches.On("Create", ctx, mock.AnythingOfType("*domain.SavedSearch")).Return(nil).Once()

		uc := NewSavedSearchUsecase(searches, new(MockListingRepository), logger.NewNop())
		search, err := uc.Create(ctx, "user-1", domain.SearchParams{Category: strPtr("iPhone")})
		require.NoError(t, err)
		assert.Equal(t, "user-1", search.UserID)
		assert.False(t, search.LastChecked.IsZero())
		searches.AssertExpectations(t)
	})

	t.Run("rejects identical filter tuple", func(t *testing.T) {
		existing := savedSearch(t, "user-1", domain.SearchParams{Category: strPtr("iPhone"), MinPrice: intPtr(1000)})
		searches := new(MockSavedSearchRepository)
		searches.On("FindByUser", ctx, "user-1").Return([]*domain.SavedSearch{existing}, nil).Once()

		uc := NewSavedSearchUsecase(searches, new(MockListingRepository), logger.NewNop())
		_, err := uc.Create(ctx, "user-1", domain.SearchParams{Category: strPtr("iPhone"), MinPrice: intPtr(1000)})
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
		searches.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("explicit zero differs from absent", func(t *testing.T) {
		existing := savedSearch(t, "user-1", domain.SearchParams{Category: strPtr("iPhone")})
		searches := new(MockSavedSearchRepository)
		searches.On("FindByUser", ctx, "user-1").Return([]*domain.SavedSearch{existing}, nil).Once()
		searches.On("Create", ctx, mock.AnythingOfType("*domain.SavedSearch")).Return(nil).Once()

		uc := NewSavedSearchUsecase(searches, new(MockListingRepository), logger.NewNop())
		_, err := uc.Create(ctx, "user-1", domain.SearchParams{Category: strPtr("iPhone"), MinPrice: intPtr(0)})
		require.NoError(t, err)
	})

	t.Run("rejects empty params", func(t *testing.T) {
		uc := NewSavedSearchUsecase(new(MockSavedSearchRepository), new(MockListingRepository), logger.NewNop())
		_, err := uc.Create(ctx, "user-1", domain.SearchParams{Query: strPtr("   ")})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSavedSearchUsecase_NewAds(t *testing.T) {
	ctx := context.Background()

	t.Run("returns delta and advances watermark", func(t *testing.T) {
		search := savedSearch(t, "user-1", domain.SearchParams{Category: strPtr("iPhone")})
		fresh := activeListing(t, "seller-1", 1000)

		searches := new(MockSavedSearchRepository)
		listings := new(MockListingRepository)
		searches.On("GetByID", ctx, search.ID).Return(search, nil).Once()
		listings.On("Find", ctx, mock.MatchedBy(func(f domain.ListingFilter) bool {
			return f.CreatedAfter != nil && f.CreatedAfter.Equal(search.LastChecked)
		})).Return([]*domain.Listing{fresh}, nil).Once()
		searches.On("UpdateLastChecked", ctx, search.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()

		uc := NewSavedSearchUsecase(searches, listings, logger.NewNop())
		result, err := uc.NewAds(ctx, search.ID, "user-1")
		require.NoError(t, err)
		require.Len(t, result, 1)
		searches.AssertExpectations(t)
	})

	t.Run("advances watermark even on empty delta", func(t *testing.T) {
		search := savedSearch(t, "user-1", domain.SearchParams{Category: strPtr("iPhone")})
		searches := new(MockSavedSearchRepository)
		listings := new(MockListingRepository)
		searches.On("GetByID", ctx, search.ID).Return(search, nil).Once()
		listings.On("Find", ctx, mock.AnythingOfType("domain.ListingFilter")).Return([]*domain.Listing{}, nil).Once()
		searches.On("UpdateLastChecked", ctx, search.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()

		uc := NewSavedSearchUsecase(searches, listings, logger.NewNop())
		result, err := uc.NewAds(ctx, search.ID, "user-1")
		require.NoError(t, err)
		assert.Empty(t, result)
		searches.AssertCalled(t, "UpdateLastChecked", ctx, search.ID, mock.AnythingOfType("time.Time"))
	})

	t.Run("forbidden for another user", func(t *testing.T) {
		search := savedSearch(t, "user-1", domain.SearchParams{Category: strPtr("iPhone")})
		searches := new(MockSavedSearchRepository)
		searches.On("GetByID", ctx, search.ID).Return(search, nil).Once()

		uc := NewSavedSearchUsecase(searches, new(MockListingRepository), logger.NewNop())
		_, err := uc.NewAds(ctx, search.ID, "user-2")
		assert.ErrorIs(t, err, domain.ErrForbidden)
		searches.AssertNotCalled(t, "UpdateLastChecked", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSavedSearchUsecase_CountNewAdsNeverAdvancesWatermarks(t *testing.T) {
	ctx := context.Background()

	first := savedSearch(t, "user-1", domain.SearchParams{Category: strPtr("iPhone")})
	second := savedSearch(t, "user-1", domain.SearchParams{Query: strPtr("MacBook")})

	searches := new(MockSavedSearchRepository)
	listings := new(MockListingRepository)
	searches.On("FindByUser", ctx, "user-1").Return([]*domain.SavedSearch{first, second}, nil).Once()
	listings.On("CountMatching", ctx, mock.AnythingOfType("domain.ListingFilter")).Return(int64(2), nil).Twice()

	uc := NewSavedSearchUsecase(searches, listings, logger.NewNop())
	total, err := uc.CountNewAds(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	searches.AssertNotCalled(t, "UpdateLastChecked", mock.Anything, mock.Anything, mock.Anything)
}

func TestSavedSearchUsecase_Delete(t *testing.T) {
	ctx := context.Background()
	search := savedSearch(t, "user-1", domain.SearchParams{Category: strPtr("iPhone")})

	t.Run("owner deletes", func(t *testing.T) {
		searches := new(MockSavedSearchRepository)
		searches.On("GetByID", ctx, search.ID).Return(search, nil).Once()
		searches.On("Delete", ctx, search.ID).Return(nil).Once()

		uc := NewSavedSearchUsecase(searches, new(MockListingRepository), logger.NewNop())
		require.NoError(t, uc.Delete(ctx, search.ID, "user-1"))
		searches.AssertExpectations(t)
	})

	t.Run("forbidden for another user", func(t *testing.T) {
		searches := new(MockSavedSearchRepository)
		searches.On("GetByID", ctx, search.ID).Return(search, nil).Once()

		uc := NewSavedSearchUsecase(searches, new(MockListingRepository), logger.NewNop())
		err := uc.Delete(ctx, search.ID, "user-2")
		assert.ErrorIs(t, err, domain.ErrForbidden)
		searches.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing search", func(t *testing.T) {
		searches := new(MockSavedSearchRepository)
		searches.On("GetByID", ctx, search.ID).Return(nil, domain.ErrNotFound).Once()

		uc := NewSavedSearchUsecase(searches, new(MockListingRepository), logger.NewNop())
		err := uc.Delete(ctx, search.ID, "user-1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSavedSearchUsecase_List(t *testing.T) {
	ctx := context.Background()
	search := savedSearch(t, "user-1", domain.SearchParams{Category: strPtr("iPhone")})

	searches := new(MockSavedSearchRepository)
	searches.On("FindByUser", ctx, "user-1").Return([]*domain.SavedSearch{search}, nil).Once()

	uc := NewSavedSearchUsecase(searches, new(MockListingRepository), logger.NewNop())
	result, err := uc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.WithinDuration(t, time.Now(), result[0].CreatedAt, 5*time.Second)
}
