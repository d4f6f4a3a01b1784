// SPDX-License-Identifier: GPL-2.0-or-later

// Package config loads server configuration from layered sources: built-in
// defaults, an optional YAML file, then environment variables, each
// overriding the last.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DatabaseConfig controls the catalog store.
type DatabaseConfig struct {
	Path    string `koanf:"path" validate:"required"`
	Threads int    `koanf:"threads" validate:"min=0"`

	PragmaPageSize    int    `koanf:"pragma.page_size"`
	PragmaCacheSize   string `koanf:"pragma.cache_size"`
	PragmaJournalMode string `koanf:"pragma.journal_mode"`
	PragmaSynchronous string `koanf:"pragma.synchronous"`
}

// ArtworkConfig controls the artwork cache.
type ArtworkConfig struct {
	CachePath      string `koanf:"cache_path" validate:"required"`
	MaxCacheEntries int   `koanf:"max_cache_entries" validate:"min=0"`
	HotCacheSize    int64 `koanf:"hot_cache_size" validate:"min=0"`
}

// LibraryConfig names the server and the filesystem roots it indexes.
type LibraryConfig struct {
	Port  int      `koanf:"port" validate:"required,min=1,max=65535"`
	Name  string   `koanf:"name" validate:"required"`
	Paths []string `koanf:"paths"`
}

// SmartQueryConfig is loaded and validated but not read by any other
// package; the LIKE pattern cap in effect is collation.MaxPatternBytes.
type SmartQueryConfig struct {
	MaxPatternBytes int `koanf:"max_pattern_bytes" validate:"min=1"`
}

// LoggingConfig controls the zerolog wrapper in internal/logging.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// HTTPConfig controls the outer HTTP surface's CORS policy and coarse
// per-remote-address request rate (middleware.RateLimit). It has no
// settings for internal/dispatch's AbuseGuard, a separate limiter.
type HTTPConfig struct {
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"min=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// Config is the fully resolved, validated server configuration. Note the
// absence of an eventbus.* section: the scanner, transcoder, and output
// subsystems are in-process Go callers (see internal/external), not remote
// services reached over a broker.
type Config struct {
	Library    LibraryConfig    `koanf:"library"`
	Database   DatabaseConfig   `koanf:"database"`
	Artwork    ArtworkConfig    `koanf:"artwork"`
	SmartQuery SmartQueryConfig `koanf:"smartquery"`
	Logging    LoggingConfig    `koanf:"logging"`
	HTTP       HTTPConfig       `koanf:"http"`
}

func defaults() Config {
	return Config{
		Library: LibraryConfig{
			Port: 3689,
			Name: "My Library",
		},
		Database: DatabaseConfig{
			Path:              "./data/catalog.db",
			Threads:           0,
			PragmaPageSize:    4096,
			PragmaCacheSize:   "64MB",
			PragmaJournalMode: "WAL",
			PragmaSynchronous: "NORMAL",
		},
		Artwork: ArtworkConfig{
			CachePath:       "./data/artwork.db",
			MaxCacheEntries: 10000,
			HotCacheSize:    64 << 20,
		},
		SmartQuery: SmartQueryConfig{
			MaxPatternBytes: 50000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		HTTP: HTTPConfig{
			CORSAllowedOrigins: []string{},
			RateLimitRequests:  100,
			RateLimitWindow:    time.Minute,
		},
	}
}

// Load resolves configuration from defaults, then an optional YAML file at
// path (skipped if it does not exist), then APP_-prefixed environment
// variables, in that order of increasing priority.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("config: load file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: stat file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("APP_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "APP_")), "_", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// BusyRetryBudget is the maximum wall-clock time exec/prepare retries will
// spend backing off a BUSY/LOCKED result before giving up.
const BusyRetryBudget = 5 * time.Second
