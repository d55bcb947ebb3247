package domain

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SearchParams is a saved search filter. Every field is optional; a nil
// pointer means the field was absent from the request. A set zero value
// (e.g. MinPrice 0) is stored and compared as such, distinct from nil.
type SearchParams struct {
	Query       *string
	Category    *string
	SubCategory *string
	Location    *string
	MinPrice    *int64
	MaxPrice    *int64
}

// Normalize trims whitespace on the string fields and converts empty
// strings to nil so storage and equality comparison see one canonical
// form for "absent".
func (p *SearchParams) Normalize() {
	norm := func(s *string) *string {
		if s == nil {
			return nil
		}
		trimmed := strings.TrimSpace(*s)
		if trimmed == "" {
			return nil
		}
		return &trimmed
	}
	p.Query = norm(p.Query)
	p.Category = norm(p.Category)
	p.SubCategory = norm(p.SubCategory)
	p.Location = norm(p.Location)
}

// Equal compares two normalized filters field by field. Absent fields
// only match absent fields.
func (p SearchParams) Equal(other SearchParams) bool {
	return eqStr(p.Query, other.Query) &&
		eqStr(p.Category, other.Category) &&
		eqStr(p.SubCategory, other.SubCategory) &&
		eqStr(p.Location, other.Location) &&
		eqInt(p.MinPrice, other.MinPrice) &&
		eqInt(p.MaxPrice, other.MaxPrice)
}

func eqStr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqInt(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// IsEmpty reports whether no field is set at all.
func (p SearchParams) IsEmpty() bool {
	return p.Query == nil && p.Category == nil && p.SubCategory == nil &&
		p.Location == nil && p.MinPrice == nil && p.MaxPrice == nil
}

// ToListingFilter converts the saved filter into a listing query. When
// after is non-nil, only listings created strictly after it match.
func (p SearchParams) ToListingFilter(after *time.Time) ListingFilter {
	return ListingFilter{
		Query:        p.Query,
		Category:     p.Category,
		SubCategory:  p.SubCategory,
		Location:     p.Location,
		MinPrice:     p.MinPrice,
		MaxPrice:     p.MaxPrice,
		CreatedAfter: after,
	}
}

// SavedSearch is a persisted filter plus a watermark. LastChecked records
// "results already seen as of this point" and is advanced only by the
// delta-computing operation, never by the count-only poll.
type SavedSearch struct {
	ID          primitive.ObjectID
	UserID      string
	Params      SearchParams
	LastChecked time.Time
	CreatedAt   time.Time
}

// NewSavedSearch creates a saved search whose watermark starts at now.
func NewSavedSearch(userID string, params SearchParams) (*SavedSearch, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}
	params.Normalize()
	if params.IsEmpty() {
		return nil, errors.New("at least one search parameter is required")
	}
	now := time.Now().UTC()
	return &SavedSearch{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Params:      params,
		LastChecked: now,
		CreatedAt:   now,
	}, nil
}
