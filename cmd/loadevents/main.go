// Command loadevents imports a scraped events JSON file into the event catalog.
//
// Usage:
//
//	loadevents -file all_events.json
//
// The database is selected the same way as for the server (DB_DRIVER, DB_PATH,
// DATABASE_URL or a config file).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kcruz3/bubbl/internal/catalog"
	"github.com/kcruz3/bubbl/internal/config"
	"github.com/kcruz3/bubbl/internal/storage/driver"
	"github.com/kcruz3/bubbl/pkg/logging"
)

func main() {
	file := flag.String("file", "all_events.json", "path to the events JSON array")
	flag.Parse()

	logger := logging.Setup()

	if err := run(*file); err != nil {
		logger.Error("Import failed", "error", err)
		os.Exit(1)
	}
}

func run(path string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	store, err := driver.Open(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	result, err := catalog.NewLoader(store, nil).Load(ctx, f)
	if err != nil {
		return err
	}

	fmt.Printf("Done. Inserted events: %d, Skipped: %d\n", result.Inserted, result.Skipped)
	return nil
}
