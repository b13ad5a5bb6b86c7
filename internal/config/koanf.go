package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/kcruz3/bubbl/internal/grouping"
	"github.com/kcruz3/bubbl/internal/recommend"
	"github.com/kcruz3/bubbl/internal/swipe"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/bubbl/config.yaml",
}

// ConfigPathEnvVar names the environment variable holding an explicit config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	engine := grouping.DefaultConfig()
	policy := swipe.DefaultPolicy()
	scorer := recommend.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               8080,
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       30 * time.Second,
			ShutdownTimeout:    10 * time.Second,
			CORSOrigins:        []string{"*"},
			SwipeRatePerSecond: 5,
			SwipeBurst:         10,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   "./data/bubbl.db",
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Grouping: GroupingConfig{
			Threshold:     engine.Threshold,
			MaxRetries:    engine.MaxRetries,
			RetryInterval: engine.RetryInterval,
		},
		Swipe: SwipeConfig{
			RetractOnNo:    policy.RetractOnNo,
			CountRepeatYes: policy.CountRepeatYes,
		},
		Recommend: RecommendConfig{
			Weights: WeightsConfig{
				Collaborative: scorer.Weights.Collaborative,
				Content:       scorer.Weights.Content,
				Exploration:   scorer.Weights.Exploration,
			},
			ColdStart:    scorer.Limits.ColdStart,
			SimilarUsers: scorer.Limits.SimilarUsers,
			PerKeyword:   scorer.Limits.PerKeyword,
			Exploration:  scorer.Limits.Exploration,
		},
	}
}

// Load builds the configuration from three layers:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadDatabase loads the layered configuration but validates only the
// database section. Offline tools use it so they do not need server secrets.
func LoadDatabase() (DatabaseConfig, error) {
	cfg, err := load()
	if err != nil {
		return DatabaseConfig{}, err
	}

	if err := cfg.Database.Validate(); err != nil {
		return DatabaseConfig{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg.Database, nil
}

func load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" if none.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when set from the environment.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		var parts []string
		for _, p := range strings.Split(strVal, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to config paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	"port":                        "server.port",
	"bubbl_host":                  "server.host",
	"bubbl_port":                  "server.port",
	"bubbl_read_timeout":          "server.read_timeout",
	"bubbl_write_timeout":         "server.write_timeout",
	"bubbl_shutdown_timeout":      "server.shutdown_timeout",
	"bubbl_cors_origins":          "server.cors_origins",
	"bubbl_swipe_rate_per_second": "server.swipe_rate_per_second",
	"bubbl_swipe_burst":           "server.swipe_burst",

	"db_driver":    "database.driver",
	"db_path":      "database.path",
	"database_url": "database.dsn",

	"jwt_secret":      "auth.jwt_secret",
	"jwt_token_ttl":   "auth.token_ttl",
	"log_level":       "logging.level",
	"group_threshold": "grouping.threshold",

	"bubbl_group_threshold":      "grouping.threshold",
	"bubbl_group_max_retries":    "grouping.max_retries",
	"bubbl_group_retry_interval": "grouping.retry_interval",

	"bubbl_retract_on_no":    "swipe.retract_on_no",
	"bubbl_count_repeat_yes": "swipe.count_repeat_yes",

	"bubbl_weight_collaborative": "recommend.weights.collaborative",
	"bubbl_weight_content":       "recommend.weights.content",
	"bubbl_weight_exploration":   "recommend.weights.exploration",
	"bubbl_cold_start":           "recommend.cold_start",
	"bubbl_similar_users":        "recommend.similar_users",
	"bubbl_per_keyword":          "recommend.per_keyword",
	"bubbl_exploration_pool":     "recommend.exploration",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DB_PATH -> database.path
//   - JWT_SECRET -> auth.jwt_secret
//   - BUBBL_GROUP_THRESHOLD -> grouping.threshold
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
