// Package driver opens the storage backend selected by configuration.
package driver

import (
	"context"
	"fmt"

	"github.com/kcruz3/bubbl/internal/config"
	"github.com/kcruz3/bubbl/internal/storage"
	"github.com/kcruz3/bubbl/internal/storage/postgres"
	"github.com/kcruz3/bubbl/internal/storage/sqlite"
)

// Open connects to the backend named by cfg.Driver and runs its migrations.
func Open(ctx context.Context, cfg config.DatabaseConfig) (storage.Store, error) {
	switch cfg.Driver {
	case "sqlite":
		store, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "postgres":
		store, err := postgres.New(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
