package driver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kcruz3/bubbl/internal/config"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("sqlite", func(t *testing.T) {
		store, err := Open(ctx, config.DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join(t.TempDir(), "nested", "bubbl.db"),
		})
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		defer store.Close()

		if err := store.Ping(ctx); err != nil {
			t.Errorf("Ping failed: %v", err)
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		if _, err := Open(ctx, config.DatabaseConfig{Driver: "mysql"}); err == nil {
			t.Fatal("expected an error for an unknown driver")
		}
	})
}
