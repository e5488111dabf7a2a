// Package database opens the configured storage backend.
package database

import (
	"context"
	"fmt"

	"github.com/isdelr/keypulse-be/internal/config"
	"github.com/isdelr/keypulse-be/internal/database/postgres"
	"github.com/isdelr/keypulse-be/internal/database/sqlite"
	"github.com/isdelr/keypulse-be/internal/store"
	"github.com/rs/zerolog/log"
)

// Open connects to the backend selected by cfg.DatabaseDriver and runs its
// schema migrations before returning.
func Open(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.DatabaseDriver {
	case "postgres":
		s, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		log.Info().Msg("Connected to PostgreSQL")
		return s, nil
	case "sqlite", "":
		s, err := sqlite.Open(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.DatabasePath, err)
		}
		log.Info().Str("path", cfg.DatabasePath).Msg("Opened SQLite database")
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}
