package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsadapter "github.com/SilnetC/TwoDotHand/internal/adapter/messaging/nats"
	"github.com/SilnetC/TwoDotHand/internal/adapter/repository/cache"
	"github.com/SilnetC/TwoDotHand/internal/adapter/repository/mongodb"
	"github.com/SilnetC/TwoDotHand/internal/adapter/storage/s3"
	"github.com/SilnetC/TwoDotHand/internal/config"
	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"github.com/SilnetC/TwoDotHand/internal/platform/metrics"
	"github.com/SilnetC/TwoDotHand/internal/platform/tracer"
	"github.com/SilnetC/TwoDotHand/internal/port/http/handler"
	"github.com/SilnetC/TwoDotHand/internal/port/http/router"
	"github.com/SilnetC/TwoDotHand/internal/usecase"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// App wires the marketplace service together and owns its lifecycle.
type App struct {
	cfg         *config.Config
	logger      *logger.Logger
	mongoClient *mongo.Client
	redisCache  *cache.ListingCache
	natsPub     *natsadapter.Publisher
	httpServer  *http.Server
	metricsMgr  *metrics.Manager
}

// New builds the application from configuration: platform pieces first,
// then adapters, usecases and the HTTP surface.
func New(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) (*App, error) {
	metricsMgr := metrics.NewManager(cfg.ServiceName)

	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoURI, appLogger)
	if err != nil {
		return nil, fmt.Errorf("mongo setup failed: %w", err)
	}
	db := mongoClient.Database(cfg.MongoDatabase)

	listingRepo, err := mongodb.NewListingRepository(db, appLogger)
	if err != nil {
		return nil, err
	}
	orderRepo, err := mongodb.NewOrderRepository(db, appLogger)
	if err != nil {
		return nil, err
	}
	ratingRepo, err := mongodb.NewRatingRepository(db, appLogger)
	if err != nil {
		return nil, err
	}
	favoriteRepo, err := mongodb.NewFavoriteRepository(db, appLogger)
	if err != nil {
		return nil, err
	}
	savedSearchRepo, err := mongodb.NewSavedSearchRepository(db, appLogger)
	if err != nil {
		return nil, err
	}
	reviewRepo, err := mongodb.NewReviewRepository(db, appLogger)
	if err != nil {
		return nil, err
	}

	listingCache, err := cache.NewListingCache(ctx, cfg.RedisAddr, cfg.RedisPassword, appLogger)
	if err != nil {
		return nil, fmt.Errorf("redis setup failed: %w", err)
	}

	imageStorage, err := s3.NewStorage(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3UseSSL, appLogger)
	if err != nil {
		return nil, fmt.Errorf("s3 setup failed: %w", err)
	}

	natsPub, err := natsadapter.NewPublisher(cfg.NATSURL, appLogger, cfg.ServiceName)
	if err != nil {
		return nil, fmt.Errorf("nats setup failed: %w", err)
	}

	listingUC := usecase.NewListingUsecase(listingRepo, orderRepo, imageStorage, listingCache, natsPub, appLogger)
	orderUC := usecase.NewOrderUsecase(orderRepo, listingRepo, natsPub, appLogger)
	ratingUC := usecase.NewRatingUsecase(ratingRepo, orderRepo, natsPub, appLogger)
	favoriteUC := usecase.NewFavoriteUsecase(favoriteRepo, listingRepo, appLogger)
	savedSearchUC := usecase.NewSavedSearchUsecase(savedSearchRepo, listingRepo, appLogger)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, appLogger)

	mux := router.New(router.Handlers{
		Listings:      handler.NewListingHandler(listingUC, appLogger),
		Orders:        handler.NewOrderHandler(orderUC, metricsMgr, appLogger),
		Ratings:       handler.NewRatingHandler(ratingUC, metricsMgr, appLogger),
		Favorites:     handler.NewFavoriteHandler(favoriteUC, appLogger),
		SavedSearches: handler.NewSavedSearchHandler(savedSearchUC, appLogger),
		Reviews:       handler.NewReviewHandler(reviewUC, appLogger),
	}, cfg.JWTSecret, metricsMgr, appLogger)

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:         cfg,
		logger:      appLogger,
		mongoClient: mongoClient,
		redisCache:  listingCache,
		natsPub:     natsPub,
		httpServer:  httpServer,
		metricsMgr:  metricsMgr,
	}, nil
}

// Run starts the tracer, the metrics server and the HTTP server, then
// blocks until a shutdown signal or a server error.
func (a *App) Run(ctx context.Context) error {
	tp := tracer.InitTracer(a.cfg.ServiceName, a.cfg.OTExporterOTLPEndpoint, a.logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("Failed to shut down tracer provider", zap.Error(err))
		}
	}()

	go func() {
		if err := metrics.StartServer(a.cfg.PrometheusMetricsPort, a.logger, a.metricsMgr.Registry); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Metrics server failed", zap.Error(err))
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", zap.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-quit:
		a.logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case <-ctx.Done():
		a.logger.Info("Context cancelled, shutting down")
	}

	return a.shutdown()
}

func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	a.natsPub.Close()
	if err := a.redisCache.Close(); err != nil {
		a.logger.Error("Failed to close Redis connection", zap.Error(err))
	}
	mongodb.Disconnect(shutdownCtx, a.mongoClient, a.logger)

	a.logger.Info("Shutdown complete")
	return nil
}
