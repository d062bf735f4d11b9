// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

// Package config loads and validates Indicium configuration.
//
// Configuration is layered via Koanf v2, highest priority last:
//
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML config file (CONFIG_PATH or the default search paths)
//  3. Environment variables (explicit mapping in config_env.go)
//
// Validation runs after unmarshaling and fails startup on any violation.
// The confidence weights deliberately have no defaults: LOCAL_CONFIDENCE_WEIGHT
// and EXTERNAL_CONFIDENCE_WEIGHT must be set and sum to 1.0.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the service.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	Cache       CacheConfig       `koanf:"cache"`
	Reputation  ReputationConfig  `koanf:"reputation"`
	Geo         GeoConfig         `koanf:"geo"`
	Correlation CorrelationConfig `koanf:"correlation"`
	Preprocess  PreprocessConfig  `koanf:"preprocess"`
	TAXII       TAXIIConfig       `koanf:"taxii"`
	Admin       AdminConfig       `koanf:"admin"`
	Security    SecurityConfig    `koanf:"security"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	// Host is the listen address.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port"`

	// Timeout is applied as both read and write timeout.
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds the read-only connection to the reported_ips table.
// The credentials should be a read-only role: the reader never writes.
type DatabaseConfig struct {
	// Driver selects the SQL driver: postgres or duckdb.
	Driver string `koanf:"driver"`

	// DSN is the connection string. For duckdb this is the database file path.
	DSN string `koanf:"dsn"`

	// QueryTimeout bounds each fetch query.
	QueryTimeout time.Duration `koanf:"query_timeout"`

	// MaxRows caps one fetch_all projection as a safety valve.
	MaxRows int `koanf:"max_rows"`

	// MaxOpenConns / MaxIdleConns tune the pool. The reader is the only user.
	MaxOpenConns int `koanf:"max_open_conns"`
	MaxIdleConns int `koanf:"max_idle_conns"`
}

// CacheConfig selects and tunes the cache backend.
type CacheConfig struct {
	// Backend is memory, redis, or badger. The budget counter survives
	// restarts only with redis or badger.
	Backend string `koanf:"backend"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// BadgerPath is the directory for the badger backend.
	BadgerPath string `koanf:"badger_path"`

	// CleanupInterval is the expiry sweep period for the memory backend.
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// ReputationConfig tunes the external reputation client.
type ReputationConfig struct {
	// APIKey authenticates against the reputation service. Required.
	APIKey string `koanf:"api_key"`

	// BaseURL is the API base, default https://api.abuseipdb.com/api/v2.
	BaseURL string `koanf:"base_url"`

	// DailyLimit is the outbound request budget per UTC day.
	DailyLimit int64 `koanf:"daily_limit"`

	// MinConfidence is the blacklist confidence floor used by the
	// preprocessor fetch.
	MinConfidence int `koanf:"min_confidence"`

	// BlacklistLimit caps blacklist entries per fetch.
	BlacklistLimit int `koanf:"blacklist_limit"`

	// MaxAgeDays is the report window for per-IP checks (capped at 365).
	MaxAgeDays int `koanf:"max_age_days"`

	// CacheTTL is how long per-IP and blacklist responses are reused.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// Timeout is the per-request deadline.
	Timeout time.Duration `koanf:"timeout"`

	// RetryAttempts / RetryDelay / RetryMaxDelay shape the backoff for
	// 429 and 5xx responses. Delay doubles per attempt with jitter,
	// capped at RetryMaxDelay.
	RetryAttempts int           `koanf:"retry_attempts"`
	RetryDelay    time.Duration `koanf:"retry_delay"`
	RetryMaxDelay time.Duration `koanf:"retry_max_delay"`
}

// GeoConfig tunes the geolocation enricher.
type GeoConfig struct {
	// RequestDelay is the process-global minimum spacing between any two
	// outbound geo requests.
	RequestDelay time.Duration `koanf:"request_delay"`

	// MaxDelay caps the adaptive delay growth.
	MaxDelay time.Duration `koanf:"max_delay"`

	// CacheTTL is the per-IP geo cache lifetime.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// Timeout is the per-request deadline.
	Timeout time.Duration `koanf:"timeout"`

	// ProviderRate is the per-provider requests-per-minute cap.
	ProviderRate int `koanf:"provider_rate"`

	// Providers is the ordered fallback chain. Known names: ip-api,
	// ipwhois, geojs.
	Providers []string `koanf:"providers"`
}

// CorrelationConfig holds the scoring parameters. LocalWeight and
// ExternalWeight have no defaults and must be configured explicitly.
type CorrelationConfig struct {
	LocalWeight    float64 `koanf:"local_weight"`
	ExternalWeight float64 `koanf:"external_weight"`

	// LocalBoost is added to local-only confidence at or above the boost
	// threshold; the result clamps to 100.
	LocalBoost int `koanf:"local_boost"`

	// MinimumFinal floors boosted scores.
	MinimumFinal int `koanf:"minimum_final_confidence"`

	// HighConfidence is the floor for the high-confidence collection.
	HighConfidence int `koanf:"high_confidence_threshold"`
}

// PreprocessConfig tunes the rebuild cycle.
type PreprocessConfig struct {
	// Interval is the period between rebuild cycles.
	Interval time.Duration `koanf:"interval"`

	// TTL is the snapshot key lifetime. Must be at least Interval; the
	// default (30m) covers a cycle that runs up to its soft deadline.
	TTL time.Duration `koanf:"ttl"`

	// BatchSize is the per-batch indicator count for enrichment.
	BatchSize int `koanf:"batch_size"`

	// AutoStart runs a rebuild immediately on startup.
	AutoStart bool `koanf:"auto_start"`
}

// SoftDeadline returns the cycle soft deadline: exceeding it logs a
// warning but does not abort the cycle.
func (p PreprocessConfig) SoftDeadline() time.Duration {
	d := 3 * p.Interval
	if d < 15*time.Minute {
		return 15 * time.Minute
	}
	return d
}

// TAXIIConfig holds the discovery metadata for the TAXII surface.
type TAXIIConfig struct {
	Title       string `koanf:"title"`
	Description string `koanf:"description"`
	Contact     string `koanf:"contact"`

	// ExternalURL overrides the advertised base URL (scheme://host[:port])
	// when the service sits behind a proxy. Empty derives it per request.
	ExternalURL string `koanf:"external_url"`
}

// AdminConfig protects the admin endpoints. Leaving both fields empty
// disables the admin surface entirely.
type AdminConfig struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// Enabled reports whether the admin surface is configured.
func (a AdminConfig) Enabled() bool {
	return a.Username != "" && a.Password != ""
}

// SecurityConfig holds HTTP-surface protections.
type SecurityConfig struct {
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// ListenAddr returns host:port for the HTTP server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// defaultConfig returns the built-in defaults, applied before file and
// environment layers. Correlation weights are intentionally absent.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8000,
			Timeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:       "postgres",
			DSN:          "",
			QueryTimeout: 15 * time.Second,
			MaxRows:      50000,
			MaxOpenConns: 4,
			MaxIdleConns: 2,
		},
		Cache: CacheConfig{
			Backend:         "memory",
			RedisAddr:       "localhost:6379",
			RedisPassword:   "",
			RedisDB:         0,
			BadgerPath:      "/data/indicium/cache",
			CleanupInterval: time.Minute,
		},
		Reputation: ReputationConfig{
			APIKey:         "",
			BaseURL:        "https://api.abuseipdb.com/api/v2",
			DailyLimit:     1000,
			MinConfidence:  50,
			BlacklistLimit: 10000,
			MaxAgeDays:     30,
			CacheTTL:       time.Hour,
			Timeout:        10 * time.Second,
			RetryAttempts:  3,
			RetryDelay:     time.Second,
			RetryMaxDelay:  30 * time.Second,
		},
		Geo: GeoConfig{
			RequestDelay: time.Second,
			MaxDelay:     30 * time.Second,
			CacheTTL:     24 * time.Hour,
			Timeout:      5 * time.Second,
			ProviderRate: 40,
			Providers:    []string{"ip-api", "ipwhois", "geojs"},
		},
		Correlation: CorrelationConfig{
			// LocalWeight and ExternalWeight stay zero: they must be
			// configured explicitly and sum to 1.0.
			LocalBoost:     10,
			MinimumFinal:   85,
			HighConfidence: 80,
		},
		Preprocess: PreprocessConfig{
			Interval:  5 * time.Minute,
			TTL:       30 * time.Minute,
			BatchSize: 100,
			AutoStart: true,
		},
		TAXII: TAXIIConfig{
			Title:       "Indicium TAXII 2.1 Server",
			Description: "STIX 2.1 indicators correlated from local detections and reputation blacklist data",
			Contact:     "security@example.com",
			ExternalURL: "",
		},
		Admin: AdminConfig{
			Username: "",
			Password: "",
		},
		Security: SecurityConfig{
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
