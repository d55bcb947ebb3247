package handler

import (
	"encoding/json"
	"net/http"

	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"github.com/SilnetC/TwoDotHand/internal/port/http/middleware"
	"github.com/SilnetC/TwoDotHand/internal/usecase"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FavoriteHandler exposes the favorite list over HTTP.
type FavoriteHandler struct {
	favorites *usecase.FavoriteUsecase
	logger    *logger.Logger
}

// NewFavoriteHandler creates a new FavoriteHandler.
func NewFavoriteHandler(favorites *usecase.FavoriteUsecase, log *logger.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		favorites: favorites,
		logger:    log.Named("FavoriteHandler"),
	}
}

type addFavoriteRequest struct {
	ListingID string `json:"listingId"`
}

// Add handles POST /api/favorites.
func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req addFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidation(w, "invalid request body")
		return
	}
	listingID, err := primitive.ObjectIDFromHex(req.ListingID)
	if err != nil {
		respondValidation(w, "invalid listing id")
		return
	}

	favorite, err := h.favorites.Add(r.Context(), userID, listingID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusCreated, envelope{
		"favorite": envelope{
			"id":        favorite.ID.Hex(),
			"listingId": favorite.ListingID.Hex(),
		},
	})
}

// List handles GET /api/favorites. Entries pointing at inactive
// listings are hidden, not deleted.
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	listings, err := h.favorites.List(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusOK, envelope{"favorites": toListingResponses(listings)})
}

// Check handles GET /api/favorites/check/{listingID}.
func (h *FavoriteHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	listingID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "listingID"))
	if err != nil {
		respondValidation(w, "invalid listing id")
		return
	}

	exists, err := h.favorites.Check(r.Context(), userID, listingID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusOK, envelope{"isFavorite": exists})
}

// Remove handles DELETE /api/favorites/{listingID}.
func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	listingID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "listingID"))
	if err != nil {
		respondValidation(w, "invalid listing id")
		return
	}

	if err := h.favorites.Remove(r.Context(), userID, listingID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusOK, envelope{"message": "favorite removed"})
}
