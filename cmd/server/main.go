// Package main implements the entry point for the Products API server,
// a product catalog service authenticated by API key.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/phrazzld/products-api/internal/config"
	"github.com/phrazzld/products-api/internal/platform/logger"
)

// main is the entry point for the products-api server.
func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("Failed to run application: %v", err)
	}
}

// run wires the application together and blocks until the server stops.
func run(ctx context.Context) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	l, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(ctx, cfg, l)
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, l, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

// loadAppConfig loads the application configuration from environment variables or config file.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// setupAppLogger configures the process logger from the loaded configuration
// and logs a summary of it.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(logger.LoggerConfig{
		Level:  cfg.Server.LogLevel,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"environment", cfg.Server.Environment)
	if cfg.Database.URL != "" {
		l.Debug("Database configuration", "url_present", true, "required", cfg.Database.Required)
	}

	return l, nil
}
