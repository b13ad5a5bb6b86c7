package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kcruz3/bubbl/internal/grouping"
)

// minJWTSecretLength is the shortest accepted HMAC secret, in bytes.
const minJWTSecretLength = 32

// Validate checks the configuration for missing or inconsistent values.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.SwipeRatePerSecond < 0 {
		errs = append(errs, errors.New("server.swipe_rate_per_second must not be negative"))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(c.Auth.JWTSecret) < minJWTSecretLength {
		errs = append(errs, fmt.Errorf("auth.jwt_secret must be at least %d bytes (set JWT_SECRET)", minJWTSecretLength))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}

	if _, err := ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, err)
	}

	if c.Grouping.Threshold < grouping.MinThreshold {
		errs = append(errs, fmt.Errorf("grouping.threshold must be at least %d, got %d", grouping.MinThreshold, c.Grouping.Threshold))
	}
	if c.Grouping.MaxRetries < 0 {
		errs = append(errs, errors.New("grouping.max_retries must not be negative"))
	}

	w := c.Recommend.Weights
	if w.Collaborative < 0 || w.Content < 0 || w.Exploration < 0 {
		errs = append(errs, errors.New("recommend.weights must not be negative"))
	}

	return errors.Join(errs...)
}

// Validate checks that the selected driver has what it needs to connect.
func (d DatabaseConfig) Validate() error {
	switch d.Driver {
	case "sqlite":
		if d.Path == "" {
			return errors.New("database.path is required for the sqlite driver (set DB_PATH)")
		}
	case "postgres":
		if d.DSN == "" {
			return errors.New("database.dsn is required for the postgres driver (set DATABASE_URL)")
		}
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", d.Driver)
	}
	return nil
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logging.level must be debug, info, warn or error, got %q", level)
	}
}
