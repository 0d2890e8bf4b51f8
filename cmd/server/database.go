package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/phrazzld/products-api/internal/config"
	"github.com/phrazzld/products-api/internal/platform/postgres"
	"github.com/phrazzld/products-api/internal/redact"
)

// ErrDatabaseRequired is returned when durability is mandatory but no
// database URL is configured.
var ErrDatabaseRequired = errors.New("database.required is set but database.url is empty")

// setupAppDatabase connects to the durable mirror and applies migrations.
// It returns a nil *sql.DB when no database is configured, or when the
// database is unusable and not required; the catalog then lives in memory only.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	if cfg.Database.URL == "" {
		if cfg.Database.Required {
			return nil, ErrDatabaseRequired
		}
		logger.Info("No database configured, running with an in-memory catalog")
		return nil, nil
	}

	db, err := openDatabase(ctx, cfg.Database.URL, logger)
	if err != nil {
		if cfg.Database.Required {
			return nil, err
		}
		logger.Warn("Database unavailable, running with an in-memory catalog",
			"error", redact.Error(err))
		return nil, nil
	}
	return db, nil
}

func openDatabase(ctx context.Context, url string, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := postgres.Migrate(ctx, db, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database connection established")
	return db, nil
}
