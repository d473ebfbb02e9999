package database

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/JonMunkholm/ToolSpend/internal/config"
	"github.com/JonMunkholm/ToolSpend/internal/core"
)

// Open returns the configured store: PostgreSQL when a database URL is
// set, otherwise an in-memory store. The returned func releases the pool.
func Open(ctx context.Context, cfg config.DatabaseConfig) (core.Store, func(), error) {
	if !cfg.Enabled() {
		slog.Warn("no DATABASE_URL configured, imports are kept in memory only")
		return core.NewMemoryStore(cfg.HistoryLimit), func() {}, nil
	}

	pool, err := Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// Log which database we connected to
	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}

	if cfg.MigrateOnStart {
		if err := RunMigrations(pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		slog.Info("database migrations applied")
	}

	return NewStore(pool, cfg.HistoryLimit), pool.Close, nil
}
