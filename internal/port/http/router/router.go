package router

import (
	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"github.com/SilnetC/TwoDotHand/internal/platform/metrics"
	"github.com/SilnetC/TwoDotHand/internal/port/http/handler"
	"github.com/SilnetC/TwoDotHand/internal/port/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers bundles the HTTP handlers mounted by New.
type Handlers struct {
	Listings      *handler.ListingHandler
	Orders        *handler.OrderHandler
	Ratings       *handler.RatingHandler
	Favorites     *handler.FavoriteHandler
	SavedSearches *handler.SavedSearchHandler
	Reviews       *handler.ReviewHandler
}

// New builds the chi router with the full API surface under /api.
func New(h Handlers, jwtSecret string, m *metrics.Manager, appLogger *logger.Logger) *chi.Mux {
	mux := chi.NewRouter()

	mux.Use(chimiddleware.RealIP)
	mux.Use(chimiddleware.Recoverer)
	mux.Use(middleware.RequestLogger(appLogger))
	mux.Use(middleware.Metrics(m))

	mux.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.Health)

		// Public listing reads.
		r.Get("/listings", h.Listings.Latest)
		r.Get("/listings/search", h.Listings.Search)
		r.Get("/listings/{id}", h.Listings.GetByID)

		// Public order probe and rating aggregate.
		r.Get("/orders/check-ad/{listingID}", h.Orders.CheckAd)
		r.Get("/ratings/user/{userID}", h.Ratings.GetUserSummary)

		// Public category reviews.
		r.Get("/reviews/category/{category}/{subCategory}", h.Reviews.ListByCategory)

		// Everything else needs a bearer credential.
		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtSecret))

			r.Post("/listings", h.Listings.Create)
			r.Get("/listings/my-ads", h.Listings.MyAds)
			r.Put("/listings/{id}", h.Listings.Update)
			r.Delete("/listings/{id}", h.Listings.Delete)

			r.Post("/orders", h.Orders.Create)
			r.Get("/orders/my-orders", h.Orders.MyOrders)
			r.Get("/orders/my-sales", h.Orders.MySales)
			r.Put("/orders/{id}/status", h.Orders.UpdateStatus)
			r.Get("/orders/notifications/count", h.Orders.NotificationCount)

			r.Post("/ratings", h.Ratings.Create)
			r.Get("/ratings/order/{orderID}", h.Ratings.GetByOrder)

			r.Post("/favorites", h.Favorites.Add)
			r.Get("/favorites", h.Favorites.List)
			r.Get("/favorites/check/{listingID}", h.Favorites.Check)
			r.Delete("/favorites/{listingID}", h.Favorites.Remove)

			r.Post("/saved-searches", h.SavedSearches.Create)
			r.Get("/saved-searches", h.SavedSearches.List)
			r.Get("/saved-searches/notifications/count", h.SavedSearches.NotificationCount)
			r.Delete("/saved-searches/{id}", h.SavedSearches.Delete)
			r.Get("/saved-searches/{id}/new-ads", h.SavedSearches.NewAds)

			r.Post("/reviews", h.Reviews.Create)
			r.Get("/reviews/my-reviews", h.Reviews.MyReviews)
			r.Put("/reviews/{id}", h.Reviews.Update)
			r.Delete("/reviews/{id}", h.Reviews.Delete)
		})
	})

	return mux
}
