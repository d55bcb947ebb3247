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

// ReviewHandler exposes category reviews over HTTP.
type ReviewHandler struct {
	reviews *usecase.ReviewUsecase
	logger  *logger.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews *usecase.ReviewUsecase, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		logger:  log.Named("ReviewHandler"),
	}
}

type createReviewRequest struct {
	Category    string `json:"category"`
	SubCategory string `json:"subCategory"`
	Rating      int32  `json:"rating"`
	Text        string `json:"text"`
}

// Create handles POST /api/reviews.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	userName := middleware.UserNameFromContext(r.Context())

	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidation(w, "invalid request body")
		return
	}

	review, err := h.reviews.Create(r.Context(), userID, userName, req.Category, req.SubCategory, req.Text, req.Rating)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusCreated, envelope{"review": toReviewResponse(review)})
}

// ListByCategory handles GET /api/reviews/category/{category}/{subCategory}. Public.
func (h *ReviewHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	subCategory := chi.URLParam(r, "subCategory")

	reviews, err := h.reviews.ListByCategory(r.Context(), category, subCategory)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusOK, envelope{"reviews": toReviewResponses(reviews)})
}

// MyReviews handles GET /api/reviews/my-reviews.
func (h *ReviewHandler) MyReviews(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	reviews, err := h.reviews.MyReviews(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusOK, envelope{"reviews": toReviewResponses(reviews)})
}

type updateReviewRequest struct {
	Rating int32  `json:"rating"`
	Text   string `json:"text"`
}

// Update handles PUT /api/reviews/{id}.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondValidation(w, "invalid review id")
		return
	}

	var req updateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidation(w, "invalid request body")
		return
	}

	review, err := h.reviews.Update(r.Context(), id, userID, req.Rating, req.Text)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusOK, envelope{"review": toReviewResponse(review)})
}

// Delete handles DELETE /api/reviews/{id}.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondValidation(w, "invalid review id")
		return
	}

	if err := h.reviews.Delete(r.Context(), id, userID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusOK, envelope{"message": "review deleted"})
}
