package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/SilnetC/TwoDotHand/internal/domain"
	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"github.com/SilnetC/TwoDotHand/internal/port/http/middleware"
	"github.com/SilnetC/TwoDotHand/internal/usecase"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxUploadBytes = 32 << 20

// ListingHandler exposes listing CRUD over HTTP. Create and update are
// multipart requests carrying image files.
type ListingHandler struct {
	listings *usecase.ListingUsecase
	logger   *logger.Logger
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(listings *usecase.ListingUsecase, log *logger.Logger) *ListingHandler {
	return &ListingHandler{
		listings: listings,
		logger:   log.Named("ListingHandler"),
	}
}

func readUploads(files []*multipart.FileHeader) ([]usecase.ImageUpload, error) {
	uploads := make([]usecase.ImageUpload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, usecase.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return uploads, nil
}

func parseAttributes(r *http.Request) usecase.ListingAttributes {
	attrs := usecase.ListingAttributes{
		Location:       r.FormValue("location"),
		Condition:      r.FormValue("condition"),
		Color:          r.FormValue("color"),
		Battery:        r.FormValue("battery"),
		Storage:        r.FormValue("storage"),
		WarrantyStatus: r.FormValue("warrantyStatus"),
	}
	if raw := r.FormValue("warrantyExpiryDate"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			attrs.WarrantyExpiryDate = &t
		}
	}
	return attrs
}

// Create handles POST /api/listings (multipart).
func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondValidation(w, "invalid multipart request")
		return
	}

	price, err := strconv.ParseInt(r.FormValue("price"), 10, 64)
	if err != nil {
		respondValidation(w, "price must be an integer in the smallest currency unit")
		return
	}

	uploads, err := readUploads(r.MultipartForm.File["images"])
	if err != nil {
		respondValidation(w, "failed to read uploaded images")
		return
	}

	listing, err := h.listings.Create(r.Context(), userID, usecase.CreateListingInput{
		Title:       r.FormValue("title"),
		Category:    r.FormValue("category"),
		SubCategory: r.FormValue("subCategory"),
		Description: r.FormValue("description"),
		Price:       price,
		Attributes:  parseAttributes(r),
		Images:      uploads,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusCreated, envelope{"listing": toListingResponse(listing)})
}

// GetByID handles GET /api/listings/{id}. Public; bumps the view counter.
func (h *ListingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondValidation(w, "invalid listing id")
		return
	}

	listing, err := h.listings.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusOK, envelope{"listing": toListingResponse(listing)})
}

// Latest handles GET /api/listings. Public.
func (h *ListingHandler) Latest(w http.ResponseWriter, r *http.Request) {
	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.ParseInt(raw, 10, 64)
	}

	listings, err := h.listings.Latest(r.Context(), limit)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusOK, envelope{"listings": toListingResponses(listings)})
}

// Search handles GET /api/listings/search. Public; same filter
// semantics as saved searches, minus the watermark clause.
func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := domain.SearchParams{}

	strParam := func(name string) *string {
		if v := q.Get(name); v != "" {
			return &v
		}
		return nil
	}
	params.Query = strParam("query")
	params.Category = strParam("category")
	params.SubCategory = strParam("subCategory")
	params.Location = strParam("location")

	if raw := q.Get("minPrice"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondValidation(w, "minPrice must be an integer")
			return
		}
		params.MinPrice = &v
	}
	if raw := q.Get("maxPrice"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondValidation(w, "maxPrice must be an integer")
			return
		}
		params.MaxPrice = &v
	}

	var limit int64
	if raw := q.Get("limit"); raw != "" {
		limit, _ = strconv.ParseInt(raw, 10, 64)
	}

	listings, err := h.listings.Search(r.Context(), params, limit)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusOK, envelope{"listings": toListingResponses(listings)})
}

// MyAds handles GET /api/listings/my-ads.
func (h *ListingHandler) MyAds(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	listings, err := h.listings.MyAds(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusOK, envelope{"listings": toListingResponses(listings)})
}

// Update handles PUT /api/listings/{id} (multipart). Form fields left
// out are unchanged; keepImageKeys names retained images and new files
// arrive under images.
func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondValidation(w, "invalid listing id")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondValidation(w, "invalid multipart request")
		return
	}

	input := usecase.UpdateListingInput{
		KeepImageKeys: r.MultipartForm.Value["keepImageKeys"],
		PrimaryKey:    r.FormValue("primaryKey"),
	}

	strField := func(name string) *string {
		if vs, ok := r.MultipartForm.Value[name]; ok && len(vs) > 0 {
			return &vs[0]
		}
		return nil
	}
	input.Title = strField("title")
	input.Category = strField("category")
	input.SubCategory = strField("subCategory")
	input.Description = strField("description")

	if raw := strField("price"); raw != nil {
		price, err := strconv.ParseInt(*raw, 10, 64)
		if err != nil {
			respondValidation(w, "price must be an integer in the smallest currency unit")
			return
		}
		input.Price = &price
	}
	if hasAttributeFields(r) {
		attrs := parseAttributes(r)
		input.Attributes = &attrs
	}

	uploads, err := readUploads(r.MultipartForm.File["images"])
	if err != nil {
		respondValidation(w, "failed to read uploaded images")
		return
	}
	input.NewImages = uploads

	listing, err := h.listings.Update(r.Context(), id, userID, input)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusOK, envelope{"listing": toListingResponse(listing)})
}

func hasAttributeFields(r *http.Request) bool {
	for _, name := range []string{"location", "condition", "color", "battery", "storage", "warrantyStatus", "warrantyExpiryDate"} {
		if _, ok := r.MultipartForm.Value[name]; ok {
			return true
		}
	}
	return false
}

// Delete handles DELETE /api/listings/{id}.
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondValidation(w, "invalid listing id")
		return
	}

	if err := h.listings.Delete(r.Context(), id, userID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusOK, envelope{"message": "listing deleted"})
}
