package handler

import (
	"encoding/json"
	"net/http"

	"github.com/SilnetC/TwoDotHand/internal/domain"
	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"github.com/SilnetC/TwoDotHand/internal/port/http/middleware"
	"github.com/SilnetC/TwoDotHand/internal/usecase"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SavedSearchHandler exposes saved searches and their delta
// notifications over HTTP.
type SavedSearchHandler struct {
	searches *usecase.SavedSearchUsecase
	logger   *logger.Logger
}

// NewSavedSearchHandler creates a new SavedSearchHandler.
func NewSavedSearchHandler(searches *usecase.SavedSearchUsecase, log *logger.Logger) *SavedSearchHandler {
	return &SavedSearchHandler{
		searches: searches,
		logger:   log.Named("SavedSearchHandler"),
	}
}

type searchParamsRequest struct {
	Query       *string `json:"query"`
	Category    *string `json:"category"`
	SubCategory *string `json:"subCategory"`
	Location    *string `json:"location"`
	MinPrice    *int64  `json:"minPrice"`
	MaxPrice    *int64  `json:"maxPrice"`
}

func (r searchParamsRequest) toDomain() domain.SearchParams {
	return domain.SearchParams{
		Query:       r.Query,
		Category:    r.Category,
		SubCategory: r.SubCategory,
		Location:    r.Location,
		MinPrice:    r.MinPrice,
		MaxPrice:    r.MaxPrice,
	}
}

// Create handles POST /api/saved-searches.
func (h *SavedSearchHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req searchParamsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidation(w, "invalid request body")
		return
	}

	search, err := h.searches.Create(r.Context(), userID, req.toDomain())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusCreated, envelope{"savedSearch": toSavedSearchResponse(search)})
}

// List handles GET /api/saved-searches.
func (h *SavedSearchHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	searches, err := h.searches.List(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	out := make([]savedSearchResponse, len(searches))
	for i, s := range searches {
		out[i] = toSavedSearchResponse(s)
	}
	respondSuccess(w, http.StatusOK, envelope{"savedSearches": out})
}

// Delete handles DELETE /api/saved-searches/{id}.
func (h *SavedSearchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondValidation(w, "invalid saved search id")
		return
	}

	if err := h.searches.Delete(r.Context(), id, userID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusOK, envelope{"message": "saved search deleted"})
}

// NewAds handles GET /api/saved-searches/{id}/new-ads. Advances the
// watermark even when the result is empty.
func (h *SavedSearchHandler) NewAds(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondValidation(w, "invalid saved search id")
		return
	}

	listings, err := h.searches.NewAds(r.Context(), id, userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusOK, envelope{"newAds": toListingResponses(listings)})
}

// NotificationCount handles GET /api/saved-searches/notifications/count.
// Read-only: no watermark moves.
func (h *SavedSearchHandler) NotificationCount(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	count, err := h.searches.CountNewAds(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusOK, envelope{"count": count})
}
