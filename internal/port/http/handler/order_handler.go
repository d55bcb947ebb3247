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

// OrderHandler exposes the order lifecycle over HTTP.
type OrderHandler struct {
	orders  *usecase.OrderUsecase
	metrics *metrics.Manager
	logger  *logger.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *usecase.OrderUsecase, m *metrics.Manager, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		orders:  orders,
		metrics: m,
		logger:  log.Named("OrderHandler"),
	}
}

type createOrderRequest struct {
	ListingID      string `json:"listingId"`
	BuyerName      string `json:"buyerName"`
	BuyerEmail     string `json:"buyerEmail"`
	BuyerPhone     string `json:"buyerPhone"`
	ShippingMethod string `json:"shippingMethod"`
	ShippingPoint  string `json:"shippingPoint"`
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	userName := middleware.UserNameFromContext(r.Context())

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidation(w, "invalid request body")
		return
	}
	if req.BuyerName == "" {
		req.BuyerName = userName
	}

	order, err := h.orders.CreateOrder(r.Context(), userID, usecase.CreateOrderInput{
		ListingID:      req.ListingID,
		BuyerName:      req.BuyerName,
		BuyerEmail:     req.BuyerEmail,
		BuyerPhone:     req.BuyerPhone,
		ShippingMethod: req.ShippingMethod,
		ShippingPoint:  req.ShippingPoint,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.metrics.OrdersCreatedTotal.Inc()
	respondSuccess(w, http.StatusCreated, envelope{"order": toOrderResponse(order, nil)})
}

// MyOrders handles GET /api/orders/my-orders.
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	views, err := h.orders.MyOrders(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusOK, envelope{"orders": toOrderViewResponses(views)})
}

// MySales handles GET /api/orders/my-sales.
func (h *OrderHandler) MySales(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	views, err := h.orders.MySales(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusOK, envelope{"orders": toOrderViewResponses(views)})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /api/orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	orderID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondValidation(w, "invalid order id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidation(w, "invalid request body")
		return
	}
	target := domain.OrderStatus(req.Status)
	if !target.IsValid() {
		respondValidation(w, "unknown order status")
		return
	}

	view, err := h.orders.UpdateStatus(r.Context(), orderID, userID, target)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusOK, envelope{"order": toOrderResponse(view.Order, view.Listing)})
}

// CheckAd handles GET /api/orders/check-ad/{listingID}. Public: listing
// pages use it to show reserved/sold badges.
func (h *OrderHandler) CheckAd(w http.ResponseWriter, r *http.Request) {
	listingID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "listingID"))
	if err != nil {
		respondValidation(w, "invalid listing id")
		return
	}

	status, err := h.orders.CheckListing(r.Context(), listingID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusOK, envelope{
		"isOrdered": status.IsOrdered,
		"isSold":    status.IsSold,
	})
}

// NotificationCount handles GET /api/orders/notifications/count.
func (h *OrderHandler) NotificationCount(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())
	counts, err := h.orders.CountNotifications(r.Context(), userID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondSuccess(w, http.StatusOK, envelope{
		"pendingSales":    counts.PendingSales,
		"inTransitOrders": counts.InTransitOrders,
		"total":           counts.Total,
	})
}
