// Package config loads layered configuration: built-in defaults, an optional
// YAML file, then environment variables (highest priority).
package config

import (
	"time"

	"github.com/kcruz3/bubbl/internal/grouping"
	"github.com/kcruz3/bubbl/internal/recommend"
	"github.com/kcruz3/bubbl/internal/swipe"
)

// Config is the complete application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Auth      AuthConfig      `koanf:"auth"`
	Logging   LoggingConfig   `koanf:"logging"`
	Grouping  GroupingConfig  `koanf:"grouping"`
	Swipe     SwipeConfig     `koanf:"swipe"`
	Recommend RecommendConfig `koanf:"recommend"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`

	// SwipeRatePerSecond limits swipes per user. Zero disables limiting.
	SwipeRatePerSecond float64 `koanf:"swipe_rate_per_second"`
	SwipeBurst         int     `koanf:"swipe_burst"`
}

// DatabaseConfig selects and configures the storage backend.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `koanf:"driver"`

	// Path is the SQLite database file.
	Path string `koanf:"path"`

	// DSN is the PostgreSQL connection string.
	DSN string `koanf:"dsn"`
}

// AuthConfig configures token issuing.
type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `koanf:"level"`
}

// GroupingConfig configures group formation.
type GroupingConfig struct {
	Threshold     int           `koanf:"threshold"`
	MaxRetries    int           `koanf:"max_retries"`
	RetryInterval time.Duration `koanf:"retry_interval"`
}

// SwipeConfig holds swipe policy switches.
type SwipeConfig struct {
	RetractOnNo    bool `koanf:"retract_on_no"`
	CountRepeatYes bool `koanf:"count_repeat_yes"`
}

// RecommendConfig configures the recommendation scorer.
type RecommendConfig struct {
	Weights      WeightsConfig `koanf:"weights"`
	ColdStart    int           `koanf:"cold_start"`
	SimilarUsers int           `koanf:"similar_users"`
	PerKeyword   int           `koanf:"per_keyword"`
	Exploration  int           `koanf:"exploration"`
}

// WeightsConfig holds the per-signal score weights.
type WeightsConfig struct {
	Collaborative float64 `koanf:"collaborative"`
	Content       float64 `koanf:"content"`
	Exploration   float64 `koanf:"exploration"`
}

// GroupingEngine converts the grouping section to an engine configuration.
func (c *Config) GroupingEngine() grouping.Config {
	return grouping.Config{
		Threshold:     c.Grouping.Threshold,
		MaxRetries:    c.Grouping.MaxRetries,
		RetryInterval: c.Grouping.RetryInterval,
	}
}

// SwipePolicy converts the swipe section to an intake policy.
func (c *Config) SwipePolicy() swipe.Policy {
	return swipe.Policy{
		RetractOnNo:    c.Swipe.RetractOnNo,
		CountRepeatYes: c.Swipe.CountRepeatYes,
	}
}

// Scorer converts the recommend section to a scorer configuration.
func (c *Config) Scorer() recommend.Config {
	return recommend.Config{
		Weights: recommend.Weights{
			Collaborative: c.Recommend.Weights.Collaborative,
			Content:       c.Recommend.Weights.Content,
			Exploration:   c.Recommend.Weights.Exploration,
		},
		Limits: recommend.Limits{
			ColdStart:    c.Recommend.ColdStart,
			SimilarUsers: c.Recommend.SimilarUsers,
			PerKeyword:   c.Recommend.PerKeyword,
			Exploration:  c.Recommend.Exploration,
		},
	}
}
