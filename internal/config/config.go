// Basketrec - Hybrid Basket and Rating Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketrec

// Package config loads application configuration from three layers in
// increasing priority: struct defaults, an optional YAML file, and
// environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/basketrec/internal/recommend"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/basketrec/config.yaml",
	"/etc/basketrec/config.yml",
}

// ConfigPathEnvVar overrides the config file search.
const ConfigPathEnvVar = "CONFIG_PATH"

// Config is the full application configuration.
type Config struct {
	Logging   LoggingConfig    `koanf:"logging" json:"logging"`
	Data      DataConfig       `koanf:"data" json:"data"`
	Models    ModelsConfig     `koanf:"models" json:"models"`
	Recommend recommend.Config `koanf:"recommend" json:"recommend"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `koanf:"level" json:"level"`

	// Format is "json" or "console".
	Format string `koanf:"format" json:"format"`

	// Caller adds file:line to each entry.
	Caller bool `koanf:"caller" json:"caller"`
}

// DataConfig points at the input datasets.
type DataConfig struct {
	TransactionsPath string `koanf:"transactions_path" json:"transactions_path"`
	MoviesPath       string `koanf:"movies_path" json:"movies_path"`
	RatingsPath      string `koanf:"ratings_path" json:"ratings_path"`
}

// ModelsConfig controls trained-model persistence.
type ModelsConfig struct {
	// Dir is where model files are written. Empty disables persistence.
	Dir string `koanf:"dir" json:"dir"`

	// KeepVersions is how many versions Prune retains per model.
	KeepVersions int `koanf:"keep_versions" json:"keep_versions"`
}

// defaultConfig returns the defaults applied before file and env layers.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Data: DataConfig{
			TransactionsPath: "data/transactions.csv",
			MoviesPath:       "data/movies.csv",
			RatingsPath:      "data/ratings.csv",
		},
		Models: ModelsConfig{
			Dir:          "",
			KeepVersions: 3,
		},
		Recommend: *recommend.DefaultConfig(),
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("BASKETREC_", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks fields the loader cannot.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	if c.Models.KeepVersions < 1 {
		return fmt.Errorf("models.keep_versions must be positive, got %d", c.Models.KeepVersions)
	}

	if err := c.Recommend.Validate(); err != nil {
		return err
	}

	return nil
}

// findConfigFile returns the first config file that exists, or "".
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

// envTransformFunc maps BASKETREC_-prefixed environment variables to
// config paths.
//
// Examples:
//   - BASKETREC_LOGGING_LEVEL -> logging.level
//   - BASKETREC_MODELS_DIR -> models.dir
//   - BASKETREC_DATA_RATINGS_PATH -> data.ratings_path
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, "BASKETREC_"))

	// Most variables map section_rest -> section.rest; the recommend
	// section is nested one level deeper.
	mappings := map[string]string{
		"logging_level":  "logging.level",
		"logging_format": "logging.format",
		"logging_caller": "logging.caller",

		"data_transactions_path": "data.transactions_path",
		"data_movies_path":       "data.movies_path",
		"data_ratings_path":      "data.ratings_path",

		"models_dir":           "models.dir",
		"models_keep_versions": "models.keep_versions",

		"apriori_min_support":      "recommend.apriori.min_support",
		"apriori_rule_min_support": "recommend.apriori.rule_min_support",
		"apriori_max_itemset_size": "recommend.apriori.max_itemset_size",
		"apriori_recommend_count":  "recommend.apriori.recommend_count",

		"cf_min_rating_count": "recommend.cf.min_rating_count",
		"cf_coverage_ratio":   "recommend.cf.coverage_ratio",
		"cf_corr_threshold":   "recommend.cf.corr_threshold",
		"cf_rating_threshold": "recommend.cf.rating_threshold",
		"cf_user_top_n":       "recommend.cf.user_top_n",
		"cf_item_top_n":       "recommend.cf.item_top_n",
		"cf_hybrid_total":     "recommend.cf.hybrid_total",
	}

	if path, ok := mappings[key]; ok {
		return path
	}

	// Unknown variables are dropped rather than guessed at.
	return ""
}
