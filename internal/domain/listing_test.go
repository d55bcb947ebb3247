package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListing_Validation(t *testing.T) {
	_, err := NewListing("", "iPhone 13", "iPhone", "iPhone 13", "desc", 1000)
	assert.Error(t, err)

	_, err = NewListing("seller-1", "", "iPhone", "iPhone 13", "desc", 1000)
	assert.Error(t, err)

	_, err = NewListing("seller-1", "iPhone 13", "iPhone", "iPhone 13", "desc", 0)
	assert.Error(t, err)

	listing, err := NewListing("seller-1", "iPhone 13", "iPhone", "iPhone 13", "desc", 1000)
	require.NoError(t, err)
	assert.Equal(t, ListingStatusActive, listing.Status)
	assert.Zero(t, listing.Views)
}

func TestNormalizeImages_ExactlyOnePrimary(t *testing.T) {
	t.Run("promotes first when none flagged", func(t *testing.T) {
		l := &Listing{Images: []ListingImage{{Key: "a"}, {Key: "b"}}}
		l.NormalizeImages()
		assert.True(t, l.Images[0].IsPrimary)
		assert.False(t, l.Images[1].IsPrimary)
	})

	t.Run("demotes extra primaries", func(t *testing.T) {
		l := &Listing{Images: []ListingImage{
			{Key: "a", IsPrimary: true},
			{Key: "b", IsPrimary: true},
			{Key: "c", IsPrimary: true},
		}}
		l.NormalizeImages()
		primaries := 0
		for _, img := range l.Images {
			if img.IsPrimary {
				primaries++
			}
		}
		assert.Equal(t, 1, primaries)
		assert.True(t, l.Images[0].IsPrimary)
	})

	t.Run("empty set stays empty", func(t *testing.T) {
		l := &Listing{}
		l.NormalizeImages()
		assert.Empty(t, l.Images)
	})
}

func TestPrimaryImage(t *testing.T) {
	l := &Listing{Images: []ListingImage{
		{Key: "a"},
		{Key: "b", IsPrimary: true},
	}}
	img := l.PrimaryImage()
	require.NotNil(t, img)
	assert.Equal(t, "b", img.Key)

	assert.Nil(t, (&Listing{}).PrimaryImage())
}
