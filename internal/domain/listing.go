package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListingStatus represents the lifecycle status of a listing.
type ListingStatus string

const (
	ListingStatusActive  ListingStatus = "active"
	ListingStatusSold    ListingStatus = "sold"
	ListingStatusRemoved ListingStatus = "removed"
)

// IsValid checks if the ListingStatus is one of the defined constants.
func (s ListingStatus) IsValid() bool {
	switch s {
	case ListingStatusActive, ListingStatusSold, ListingStatusRemoved:
		return true
	}
	return false
}

// ListingImage is a reference to an image held by the external object store.
// Exactly one image must be primary whenever the collection is non-empty.
type ListingImage struct {
	URL       string
	Key       string
	IsPrimary bool
}

// Listing represents a for-sale item posted by a seller.
// Prices are stored in the smallest currency unit.
type Listing struct {
	ID                 primitive.ObjectID
	SellerID           string
	Title              string
	Category           string
	SubCategory        string
	Description        string
	Price              int64
	Location           string
	Condition          string
	Color              string
	Battery            string
	Storage            string
	WarrantyStatus     string
	WarrantyExpiryDate *time.Time
	Images             []ListingImage
	Status             ListingStatus
	Views              int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewListing creates a new active listing owned by sellerID.
func NewListing(sellerID, title, category, subCategory, description string, price int64) (*Listing, error) {
	if sellerID == "" {
		return nil, errors.New("sellerID cannot be empty")
	}
	if title == "" || category == "" || subCategory == "" || description == "" {
		return nil, errors.New("title, category, subCategory and description are required")
	}
	if price <= 0 {
		return nil, errors.New("price must be positive")
	}

	now := time.Now().UTC()
	return &Listing{
		ID:          primitive.NewObjectID(),
		SellerID:    sellerID,
		Title:       title,
		Category:    category,
		SubCategory: subCategory,
		Description: description,
		Price:       price,
		Status:      ListingStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// PrimaryImage returns the primary image, or the first one when none is flagged.
func (l *Listing) PrimaryImage() *ListingImage {
	for i := range l.Images {
		if l.Images[i].IsPrimary {
			return &l.Images[i]
		}
	}
	if len(l.Images) > 0 {
		return &l.Images[0]
	}
	return nil
}

// NormalizeImages enforces the exactly-one-primary invariant on a non-empty
// image set by promoting the first image when no primary is flagged and
// demoting extras when more than one is.
func (l *Listing) NormalizeImages() {
	if len(l.Images) == 0 {
		return
	}
	primarySeen := false
	for i := range l.Images {
		if l.Images[i].IsPrimary {
			if primarySeen {
				l.Images[i].IsPrimary = false
			}
			primarySeen = true
		}
	}
	if !primarySeen {
		l.Images[0].IsPrimary = true
	}
}

// ListingFilter holds parameters for querying listings.
// Pointer fields distinguish "absent" from a zero value.
type ListingFilter struct {
	Query        *string
	Category     *string
	SubCategory  *string
	Location     *string
	MinPrice     *int64
	MaxPrice     *int64
	CreatedAfter *time.Time
	Limit        int64
}
