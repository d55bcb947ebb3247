package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// NewClient connects to MongoDB and verifies the connection with a ping.
func NewClient(ctx context.Context, uri string, appLogger *logger.Logger) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect failed: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	appLogger.Info("Connected to MongoDB", zap.String("uri_present", "yes"))
	return client, nil
}

// Disconnect closes the client, logging any error.
func Disconnect(ctx context.Context, client *mongo.Client, appLogger *logger.Logger) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Disconnect(shutdownCtx); err != nil {
		appLogger.Error("Failed to disconnect from MongoDB", zap.Error(err))
	}
}
