package storage

import (
	"context"

	"github.com/hannes/kanoon/src/backend/config"
	"go.uber.org/zap"
)

// Open returns the store selected by cfg.Driver. When the database cannot be
// opened it logs the failure and falls back to an in-memory store.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		store Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		store, err = NewSQLiteStore(ctx, cfg, logger)
	case config.DriverPostgres:
		store, err = NewPostgresStore(ctx, cfg, logger)
	default:
		return NewMemoryStore(cfg.MaxLogEntries)
	}

	if err != nil {
		logger.Warn("failed to open database, falling back to in-memory storage",
			zap.String("driver", cfg.Driver), zap.Error(err))
		return NewMemoryStore(cfg.MaxLogEntries)
	}

	logger.Info("storage initialized", zap.String("driver", cfg.Driver))
	return store
}
