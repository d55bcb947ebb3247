package handler

import (
	"time"

	"github.com/SilnetC/TwoDotHand/internal/domain"
	"github.com/SilnetC/TwoDotHand/internal/usecase"
)

type listingImageResponse struct {
	URL       string `json:"url"`
	Key       string `json:"key"`
	IsPrimary bool   `json:"isPrimary"`
}

type listingResponse struct {
	ID                 string                 `json:"id"`
	SellerID           string                 `json:"sellerId"`
	Title              string                 `json:"title"`
	Category           string                 `json:"category"`
	SubCategory        string                 `json:"subCategory"`
	Description        string                 `json:"description"`
	Price              int64                  `json:"price"`
	Location           string                 `json:"location,omitempty"`
	Condition          string                 `json:"condition,omitempty"`
	Color              string                 `json:"color,omitempty"`
	Battery            string                 `json:"battery,omitempty"`
	Storage            string                 `json:"storage,omitempty"`
	WarrantyStatus     string                 `json:"warrantyStatus,omitempty"`
	WarrantyExpiryDate *time.Time             `json:"warrantyExpiryDate,omitempty"`
	Images             []listingImageResponse `json:"images"`
	Status             string                 `json:"status"`
	Views              int64                  `json:"views"`
	CreatedAt          time.Time              `json:"createdAt"`
	UpdatedAt          time.Time              `json:"updatedAt"`
}

func toListingResponse(l *domain.Listing) listingResponse {
	images := make([]listingImageResponse, len(l.Images))
	for i, img := range l.Images {
		images[i] = listingImageResponse{URL: img.URL, Key: img.Key, IsPrimary: img.IsPrimary}
	}
	return listingResponse{
		ID:                 l.ID.Hex(),
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

func toListingResponses(listings []*domain.Listing) []listingResponse {
	out := make([]listingResponse, len(listings))
	for i, l := range listings {
		out[i] = toListingResponse(l)
	}
	return out
}

type orderResponse struct {
	ID                   string           `json:"id"`
	ListingID            string           `json:"listingId"`
	BuyerID              string           `json:"buyerId"`
	SellerID             string           `json:"sellerId"`
	BuyerName            string           `json:"buyerName,omitempty"`
	BuyerEmail           string           `json:"buyerEmail"`
	BuyerPhone           string           `json:"buyerPhone"`
	ShippingMethod       string           `json:"shippingMethod"`
	ShippingPoint        string           `json:"shippingPoint,omitempty"`
	ProductPrice         int64            `json:"productPrice"`
	ShippingCost         int64            `json:"shippingCost"`
	TotalPrice           int64            `json:"totalPrice"`
	ExpectedDeliveryDate time.Time        `json:"expectedDeliveryDate"`
	Status               string           `json:"status"`
	CreatedAt            time.Time        `json:"createdAt"`
	Listing              *listingResponse `json:"listing,omitempty"`
}

func toOrderResponse(o *domain.Order, listing *domain.Listing) orderResponse {
	resp := orderResponse{
		ID:                   o.ID.Hex(),
		ListingID:            o.ListingID.Hex(),
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
	}
	if listing != nil {
		l := toListingResponse(listing)
		resp.Listing = &l
	}
	return resp
}

func toOrderViewResponses(views []*usecase.OrderView) []orderResponse {
	out := make([]orderResponse, len(views))
	for i, v := range views {
		out[i] = toOrderResponse(v.Order, v.Listing)
	}
	return out
}

type ratingResponse struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"orderId"`
	RaterID   string    `json:"raterId"`
	RatedID   string    `json:"ratedId"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"createdAt"`
}

func toRatingResponse(r *domain.Rating) ratingResponse {
	return ratingResponse{
		ID:        r.ID.Hex(),
		OrderID:   r.OrderID.Hex(),
		RaterID:   r.RaterID,
		RatedID:   r.RatedID,
		Value:     string(r.Value),
		CreatedAt: r.CreatedAt,
	}
}

type savedSearchResponse struct {
	ID          string    `json:"id"`
	Query       *string   `json:"query"`
	Category    *string   `json:"category"`
	SubCategory *string   `json:"subCategory"`
	Location    *string   `json:"location"`
	MinPrice    *int64    `json:"minPrice"`
	MaxPrice    *int64    `json:"maxPrice"`
	LastChecked time.Time `json:"lastChecked"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toSavedSearchResponse(s *domain.SavedSearch) savedSearchResponse {
	return savedSearchResponse{
		ID:          s.ID.Hex(),
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

type reviewResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName,omitempty"`
	Category    string    `json:"category"`
	SubCategory string    `json:"subCategory"`
	Rating      int32     `json:"rating"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toReviewResponse(r *domain.Review) reviewResponse {
	return reviewResponse{
		ID:          r.ID.Hex(),
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

func toReviewResponses(reviews []*domain.Review) []reviewResponse {
	out := make([]reviewResponse, len(reviews))
	for i, r := range reviews {
		out[i] = toReviewResponse(r)
	}
	return out
}
