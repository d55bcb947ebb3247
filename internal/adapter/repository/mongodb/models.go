package mongodb

import (
	"time"

	"github.com/SilnetC/TwoDotHand/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document structs carry the bson mapping so domain entities stay free of
// persistence tags.

type listingImageDocument struct {
	URL       string `bson:"url"`
	Key       string `bson:"key"`
	IsPrimary bool   `bson:"is_primary"`
}

type listingDocument struct {
	ID                 primitive.ObjectID     `bson:"_id,omitempty"`
	SellerID           string                 `bson:"seller_id"`
	Title              string                 `bson:"title"`
	Category           string                 `bson:"category"`
	SubCategory        string                 `bson:"sub_category"`
	Description        string                 `bson:"description"`
	Price              int64                  `bson:"price"`
	Location           string                 `bson:"location,omitempty"`
	Condition          string                 `bson:"condition,omitempty"`
	Color              string                 `bson:"color,omitempty"`
	Battery            string                 `bson:"battery,omitempty"`
	Storage            string                 `bson:"storage,omitempty"`
	WarrantyStatus     string                 `bson:"warranty_status,omitempty"`
	WarrantyExpiryDate *time.Time             `bson:"warranty_expiry_date,omitempty"`
	Images             []listingImageDocument `bson:"images"`
	Status             string                 `bson:"status"`
	Views              int64                  `bson:"views"`
	CreatedAt          time.Time              `bson:"created_at"`
	UpdatedAt          time.Time              `bson:"updated_at"`
}

func fromDomainListing(l *domain.Listing) *listingDocument {
	images := make([]listingImageDocument, len(l.Images))
	for i, img := range l.Images {
		images[i] = listingImageDocument{URL: img.URL, Key: img.Key, IsPrimary: img.IsPrimary}
	}
	return &listingDocument{
		ID:                 l.ID,
		SellerID:           l.SellerID,
		Title:              l.Title,
		Category:           l.Category,
		SubCategory:        l.SubCategory,
		Description:        l.Description,
		Price:              l.Price,
		Location:           l.Location,
		Condition:          l.Condition,
		Color:              l.Color,
		Battery:            l.Battery,
		Storage:            l.Storage,
		WarrantyStatus:     l.WarrantyStatus,
		WarrantyExpiryDate: l.WarrantyExpiryDate,
		Images:             images,
		Status:             string(l.Status),
		Views:              l.Views,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
}

func (d *listingDocument) toDomain() *domain.Listing {
	images := make([]domain.ListingImage, len(d.Images))
	for i, img := range d.Images {
		images[i] = domain.ListingImage{URL: img.URL, Key: img.Key, IsPrimary: img.IsPrimary}
	}
	return &domain.Listing{
		ID:                 d.ID,
		SellerID:           d.SellerID,
		Title:              d.Title,
		Category:           d.Category,
		SubCategory:        d.SubCategory,
		Description:        d.Description,
		Price:              d.Price,
		Location:           d.Location,
		Condition:          d.Condition,
		Color:              d.Color,
		Battery:            d.Battery,
		Storage:            d.Storage,
		WarrantyStatus:     d.WarrantyStatus,
		WarrantyExpiryDate: d.WarrantyExpiryDate,
		Images:             images,
		Status:             domain.ListingStatus(d.Status),
		Views:              d.Views,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

type orderDocument struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	ListingID            primitive.ObjectID `bson:"listing_id"`
	BuyerID              string             `bson:"buyer_id"`
	SellerID             string             `bson:"seller_id"`
	BuyerName            string             `bson:"buyer_name,omitempty"`
	BuyerEmail           string             `bson:"buyer_email"`
	BuyerPhone           string             `bson:"buyer_phone"`
	ShippingMethod       string             `bson:"shipping_method"`
	ShippingPoint        string             `bson:"shipping_point,omitempty"`
	ProductPrice         int64              `bson:"product_price"`
	ShippingCost         int64              `bson:"shipping_cost"`
	TotalPrice           int64              `bson:"total_price"`
	ExpectedDeliveryDate time.Time          `bson:"expected_delivery_date"`
	Status               string             `bson:"status"`
	CreatedAt            time.Time          `bson:"created_at"`
	UpdatedAt            time.Time          `bson:"updated_at"`
}

func fromDomainOrder(o *domain.Order) *orderDocument {
	return &orderDocument{
		ID:                   o.ID,
		ListingID:            o.ListingID,
		BuyerID:              o.BuyerID,
		SellerID:             o.SellerID,
		BuyerName:            o.BuyerContact.Name,
		BuyerEmail:           o.BuyerContact.Email,
		BuyerPhone:           o.BuyerContact.Phone,
		ShippingMethod:       o.ShippingMethod,
		ShippingPoint:        o.ShippingPoint,
		ProductPrice:         o.ProductPrice,
		ShippingCost:         o.ShippingCost,
		TotalPrice:           o.TotalPrice,
		ExpectedDeliveryDate: o.ExpectedDeliveryDate,
		Status:               string(o.Status),
		CreatedAt:            o.CreatedAt,
		UpdatedAt:            o.UpdatedAt,
	}
}

func (d *orderDocument) toDomain() *domain.Order {
	return &domain.Order{
		ID:        d.ID,
		ListingID: d.ListingID,
		BuyerID:   d.BuyerID,
		SellerID:  d.SellerID,
		BuyerContact: domain.BuyerContact{
			Name:  d.BuyerName,
			Email: d.BuyerEmail,
			Phone: d.BuyerPhone,
		},
		ShippingMethod:       d.ShippingMethod,
		ShippingPoint:        d.ShippingPoint,
		ProductPrice:         d.ProductPrice,
		ShippingCost:         d.ShippingCost,
		TotalPrice:           d.TotalPrice,
		ExpectedDeliveryDate: d.ExpectedDeliveryDate,
		Status:               domain.OrderStatus(d.Status),
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
	}
}

type ratingDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	OrderID   primitive.ObjectID `bson:"order_id"`
	RaterID   string             `bson:"rater_id"`
	RatedID   string             `bson:"rated_id"`
	Value     string             `bson:"value"`
	CreatedAt time.Time          `bson:"created_at"`
}

func fromDomainRating(r *domain.Rating) *ratingDocument {
	return &ratingDocument{
		ID:        r.ID,
		OrderID:   r.OrderID,
		RaterID:   r.RaterID,
		RatedID:   r.RatedID,
		Value:     string(r.Value),
		CreatedAt: r.CreatedAt,
	}
}

func (d *ratingDocument) toDomain() *domain.Rating {
	return &domain.Rating{
		ID:        d.ID,
		OrderID:   d.OrderID,
		RaterID:   d.RaterID,
		RatedID:   d.RatedID,
		Value:     domain.RatingValue(d.Value),
		CreatedAt: d.CreatedAt,
	}
}

type favoriteDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	ListingID primitive.ObjectID `bson:"listing_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

func fromDomainFavorite(f *domain.Favorite) *favoriteDocument {
	return &favoriteDocument{
		ID:        f.ID,
		UserID:    f.UserID,
		ListingID: f.ListingID,
		CreatedAt: f.CreatedAt,
	}
}

func (d *favoriteDocument) toDomain() *domain.Favorite {
	return &domain.Favorite{
		ID:        d.ID,
		UserID:    d.UserID,
		ListingID: d.ListingID,
		CreatedAt: d.CreatedAt,
	}
}

type savedSearchDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user_id"`
	Query       *string            `bson:"query"`
	Category    *string            `bson:"category"`
	SubCategory *string            `bson:"sub_category"`
	Location    *string            `bson:"location"`
	MinPrice    *int64             `bson:"min_price"`
	MaxPrice    *int64             `bson:"max_price"`
	LastChecked time.Time          `bson:"last_checked"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func fromDomainSavedSearch(s *domain.SavedSearch) *savedSearchDocument {
	return &savedSearchDocument{
		ID:          s.ID,
		UserID:      s.UserID,
		Query:       s.Params.Query,
		Category:    s.Params.Category,
		SubCategory: s.Params.SubCategory,
		Location:    s.Params.Location,
		MinPrice:    s.Params.MinPrice,
		MaxPrice:    s.Params.MaxPrice,
		LastChecked: s.LastChecked,
		CreatedAt:   s.CreatedAt,
	}
}

func (d *savedSearchDocument) toDomain() *domain.SavedSearch {
	return &domain.SavedSearch{
		ID:     d.ID,
		UserID: d.UserID,
		Params: domain.SearchParams{
			Query:       d.Query,
			Category:    d.Category,
			SubCategory: d.SubCategory,
			Location:    d.Location,
			MinPrice:    d.MinPrice,
			MaxPrice:    d.MaxPrice,
		},
		LastChecked: d.LastChecked,
		CreatedAt:   d.CreatedAt,
	}
}

type reviewDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user_id"`
	UserName    string             `bson:"user_name,omitempty"`
	Category    string             `bson:"category"`
	SubCategory string             `bson:"sub_category"`
	Rating      int32              `bson:"rating"`
	Text        string             `bson:"text"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func fromDomainReview(r *domain.Review) *reviewDocument {
	return &reviewDocument{
		ID:          r.ID,
		UserID:      r.UserID,
		UserName:    r.UserName,
		Category:    r.Category,
		SubCategory: r.SubCategory,
		Rating:      r.Rating,
		Text:        r.Text,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (d *reviewDocument) toDomain() *domain.Review {
	return &domain.Review{
		ID:          d.ID,
		UserID:      d.UserID,
		UserName:    d.UserName,
		Category:    d.Category,
		SubCategory: d.SubCategory,
		Rating:      d.Rating,
		Text:        d.Text,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
