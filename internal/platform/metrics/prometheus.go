package metrics

import (
	"net/http"

	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Manager holds the custom Prometheus metrics for the marketplace API.
type Manager struct {
	Registry            *prometheus.Registry
	OrdersCreatedTotal  prometheus.Counter
	RatingsCreatedTotal prometheus.Counter
	HTTPErrorsTotal     *prometheus.CounterVec
	HTTPRequestLatency  *prometheus.HistogramVec
}

// NewManager initializes and registers the marketplace metrics on a
// dedicated registry.
func NewManager(serviceName string) *Manager {
	registry := prometheus.NewRegistry()

	ordersCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "orders_created_total",
		Help:      "Total number of orders created.",
	})
	ratingsCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "ratings_created_total",
		Help:      "Total number of order ratings created.",
	})
	httpErrorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "http_errors_total",
		Help:      "Total number of HTTP error responses by route and status.",
	}, []string{"route", "status"})
	httpRequestLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "http_request_latency_seconds",
		Help:      "Latency of HTTP requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	registry.MustRegister(
		ordersCreatedTotal,
		ratingsCreatedTotal,
		httpErrorsTotal,
		httpRequestLatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:            registry,
		OrdersCreatedTotal:  ordersCreatedTotal,
		RatingsCreatedTotal: ratingsCreatedTotal,
		HTTPErrorsTotal:     httpErrorsTotal,
		HTTPRequestLatency:  httpRequestLatency,
	}
}

// StartServer starts an HTTP server exposing the registry on /metrics.
func StartServer(port string, appLogger *logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	appLogger.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	return server.ListenAndServe()
}
