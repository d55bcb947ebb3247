package handler

import (
	"encoding/json"
	"net/http"

	"github.com/SilnetC/TwoDotHand/internal/domain"
	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"github.com/SilnetC/TwoDotHand/internal/platform/metrics"
	"github.com/SilnetC/TwoDotHand/internal/port/http/middleware"
	"github.com/SilnetC/TwoDotHand/internal/usecase"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RatingHandler exposes the rating gate over HTTP.
type RatingHandler struct {
	ratings *usecase.RatingUsecase
	metrics *metrics.Manager
	logger  *logger.Logger
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(ratings *usecase.RatingUsecase, m *metrics.Manager, log *logger.Logger) *RatingHandler {
	return &RatingHandler{
		ratings: ratings,
		metrics: m,
		logger:  log.Named("RatingHandler"),
	}
}

type createRatingRequest struct {
	OrderID string `json:"orderId"`
	Value   string `json:"value"`
}

// Create handles POST /api/ratings.
func (h *RatingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var req createRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidation(w, "invalid request body")
		return
	}
	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		respondValidation(w, "invalid order id")
		return
	}

	rating, err := h.ratings.SubmitRating(r.Context(), orderID, userID, domain.RatingValue(req.Value))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.metrics.RatingsCreatedTotal.Inc()
	respondSuccess(w, http.StatusCreated, envelope{"rating": toRatingResponse(rating)})
}

// GetByOrder handles GET /api/ratings/order/{orderID}. Returns the
// caller's rating for the order, null when not yet rated.
func (h *RatingHandler) GetByOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	orderID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "orderID"))
	if err != nil {
		respondValidation(w, "invalid order id")
		return
	}

	rating, err := h.ratings.GetForOrder(r.Context(), orderID, userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if rating == nil {
		respondSuccess(w, http.StatusOK, envelope{"rating": nil})
		return
	}
	respondSuccess(w, http.StatusOK, envelope{"rating": toRatingResponse(rating)})
}

// GetUserSummary handles GET /api/ratings/user/{userID}. Public.
func (h *RatingHandler) GetUserSummary(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	summary, err := h.ratings.Summary(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusOK, envelope{
		"userId":   summary.UserID,
		"positive": summary.Positive,
		"negative": summary.Negative,
	})
}
