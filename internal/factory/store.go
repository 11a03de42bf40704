package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/onusone/stakeledger/internal/config"
	"github.com/onusone/stakeledger/internal/store"
	"github.com/onusone/stakeledger/internal/store/memory"
	"github.com/onusone/stakeledger/internal/store/postgres"
	"github.com/onusone/stakeledger/internal/store/sqlite"
)

// NewStore builds the ledger store selected by cfg.DBDriver.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	switch cfg.DBDriver {
	case "memory":
		log.Warn().Msg("Using in-memory store; data will not survive a restart")
		return memory.New(), nil
	case "sqlite":
		st, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store at %s: %w", cfg.SQLitePath, err)
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("SQLite store ready")
		return st, nil
	case "postgres":
		st, err := postgres.New(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		log.Info().Msg("Postgres store ready")
		return st, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.DBDriver)
	}
}
