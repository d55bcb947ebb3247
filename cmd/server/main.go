package main

import (
	"context"
	"os"

	"github.com/SilnetC/TwoDotHand/internal/app"
	"github.com/SilnetC/TwoDotHand/internal/config"
	"github.com/SilnetC/TwoDotHand/internal/platform/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	appLogger := logger.New()
	defer appLogger.Sync()

	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Error("Failed to load configuration", zap.Error(err))
		os.Exit(1)
	}

	ctx := context.Background()
	application, err := app.New(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize application", zap.Error(err))
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		appLogger.Error("Application exited with error", zap.Error(err))
		os.Exit(1)
	}
}
