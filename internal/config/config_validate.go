// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package config

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// weightSumTolerance is the allowed deviation when checking that the
// correlation weights sum to 1.0.
const weightSumTolerance = 0.001

// Validate checks the full configuration tree. It returns the first
// error found; startup should treat any error as fatal.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.Reputation.Validate(); err != nil {
		return err
	}
	if err := c.Geo.Validate(); err != nil {
		return err
	}
	if err := c.Correlation.Validate(); err != nil {
		return err
	}
	if err := c.Preprocess.Validate(); err != nil {
		return err
	}
	if err := c.Admin.Validate(); err != nil {
		return err
	}
	if err := c.Security.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks server listen settings.
func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive, got %s", c.Timeout)
	}
	return nil
}

// Validate checks database connectivity settings.
func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case "postgres", "duckdb":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be 'postgres' or 'duckdb', got %q", c.Driver)
	}
	if strings.TrimSpace(c.DSN) == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("DATABASE_QUERY_TIMEOUT must be positive, got %s", c.QueryTimeout)
	}
	if c.MaxRows < 0 {
		return fmt.Errorf("DATABASE_MAX_ROWS must not be negative, got %d", c.MaxRows)
	}
	if c.MaxOpenConns < 1 {
		return fmt.Errorf("DATABASE_MAX_OPEN_CONNS must be at least 1, got %d", c.MaxOpenConns)
	}
	if c.MaxIdleConns < 0 {
		return fmt.Errorf("DATABASE_MAX_IDLE_CONNS must not be negative, got %d", c.MaxIdleConns)
	}
	return nil
}

// Validate checks the cache backend selection and its backend-specific
// settings.
func (c *CacheConfig) Validate() error {
	switch c.Backend {
	case "memory":
	case "redis":
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND is 'redis'")
		}
		if c.RedisDB < 0 || c.RedisDB > 15 {
			return fmt.Errorf("REDIS_DB must be between 0 and 15, got %d", c.RedisDB)
		}
	case "badger":
		if strings.TrimSpace(c.BadgerPath) == "" {
			return fmt.Errorf("BADGER_PATH is required when CACHE_BACKEND is 'badger'")
		}
	default:
		return fmt.Errorf("CACHE_BACKEND must be 'memory', 'redis', or 'badger', got %q", c.Backend)
	}
	if c.CleanupInterval <= 0 {
		return fmt.Errorf("CACHE_CLEANUP_INTERVAL must be positive, got %s", c.CleanupInterval)
	}
	return nil
}

// Validate checks the external reputation provider settings.
func (c *ReputationConfig) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("ABUSEIPDB_API_KEY is required")
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("REPUTATION_BASE_URL must not be empty")
	}
	if c.DailyLimit < 1 {
		return fmt.Errorf("REPUTATION_DAILY_LIMIT must be at least 1, got %d", c.DailyLimit)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 100 {
		return fmt.Errorf("REPUTATION_MIN_CONFIDENCE must be between 0 and 100, got %d", c.MinConfidence)
	}
	if c.BlacklistLimit < 1 {
		return fmt.Errorf("REPUTATION_BLACKLIST_LIMIT must be at least 1, got %d", c.BlacklistLimit)
	}
	if c.MaxAgeDays < 1 || c.MaxAgeDays > 365 {
		return fmt.Errorf("REPUTATION_MAX_AGE_DAYS must be between 1 and 365, got %d", c.MaxAgeDays)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("REPUTATION_CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("REPUTATION_TIMEOUT must be positive, got %s", c.Timeout)
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("REPUTATION_RETRY_ATTEMPTS must not be negative, got %d", c.RetryAttempts)
	}
	if c.RetryDelay <= 0 {
		return fmt.Errorf("REPUTATION_RETRY_DELAY must be positive, got %s", c.RetryDelay)
	}
	if c.RetryMaxDelay < c.RetryDelay {
		return fmt.Errorf("REPUTATION_RETRY_MAX_DELAY must not be smaller than REPUTATION_RETRY_DELAY")
	}
	return nil
}

// Validate checks geolocation provider settings.
func (c *GeoConfig) Validate() error {
	if c.RequestDelay < 0 {
		return fmt.Errorf("GEO_REQUEST_DELAY must not be negative, got %s", c.RequestDelay)
	}
	if c.MaxDelay < c.RequestDelay {
		return fmt.Errorf("GEO_MAX_DELAY must not be smaller than GEO_REQUEST_DELAY")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("GEO_CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("GEO_TIMEOUT must be positive, got %s", c.Timeout)
	}
	if c.ProviderRate < 1 {
		return fmt.Errorf("GEO_PROVIDER_RATE must be at least 1 request per minute, got %d", c.ProviderRate)
	}
	if len(c.Providers) == 0 {
		return fmt.Errorf("GEO_PROVIDERS must name at least one provider")
	}
	for _, p := range c.Providers {
		switch p {
		case "ip-api", "ipwhois", "geojs":
		default:
			return fmt.Errorf("GEO_PROVIDERS contains unknown provider %q (known: ip-api, ipwhois, geojs)", p)
		}
	}
	return nil
}

// Validate checks the confidence correlation weights. Both weights must
// be set explicitly; there are no defaults for them.
func (c *CorrelationConfig) Validate() error {
	if c.LocalWeight == 0 && c.ExternalWeight == 0 {
		return fmt.Errorf("LOCAL_CONFIDENCE_WEIGHT and EXTERNAL_CONFIDENCE_WEIGHT are required and have no defaults")
	}
	if c.LocalWeight < 0 || c.LocalWeight > 1 {
		return fmt.Errorf("LOCAL_CONFIDENCE_WEIGHT must be between 0 and 1, got %g", c.LocalWeight)
	}
	if c.ExternalWeight < 0 || c.ExternalWeight > 1 {
		return fmt.Errorf("EXTERNAL_CONFIDENCE_WEIGHT must be between 0 and 1, got %g", c.ExternalWeight)
	}
	if sum := c.LocalWeight + c.ExternalWeight; math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("LOCAL_CONFIDENCE_WEIGHT and EXTERNAL_CONFIDENCE_WEIGHT must sum to 1.0, got %g", sum)
	}
	if c.LocalBoost < 0 || c.LocalBoost > 100 {
		return fmt.Errorf("LOCAL_CONFIDENCE_BOOST must be between 0 and 100, got %d", c.LocalBoost)
	}
	if c.MinimumFinal < 0 || c.MinimumFinal > 100 {
		return fmt.Errorf("MINIMUM_FINAL_CONFIDENCE must be between 0 and 100, got %d", c.MinimumFinal)
	}
	if c.HighConfidence < 0 || c.HighConfidence > 100 {
		return fmt.Errorf("HIGH_CONFIDENCE_THRESHOLD must be between 0 and 100, got %d", c.HighConfidence)
	}
	return nil
}

// Validate checks preprocessing cycle settings. The snapshot TTL must
// outlive the rebuild interval or consumers would see expired snapshots
// between rebuilds.
func (c *PreprocessConfig) Validate() error {
	if c.Interval < time.Minute {
		return fmt.Errorf("PREPROCESS_INTERVAL must be at least 1 minute, got %s", c.Interval)
	}
	if c.TTL < c.Interval {
		return fmt.Errorf("PREPROCESSING_TTL (%s) must not be smaller than PREPROCESS_INTERVAL (%s)", c.TTL, c.Interval)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("BATCH_SIZE must be at least 1, got %d", c.BatchSize)
	}
	return nil
}

// Validate checks admin credentials. Both must be set together; leaving
// both unset disables the admin endpoints.
func (c *AdminConfig) Validate() error {
	hasUser := strings.TrimSpace(c.Username) != ""
	hasPass := strings.TrimSpace(c.Password) != ""
	if hasUser != hasPass {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together or both left unset")
	}
	if hasPass && len(c.Password) < 8 {
		return fmt.Errorf("ADMIN_PASSWORD must be at least 8 characters")
	}
	return nil
}

// Validate checks rate limiting and CORS settings.
func (c *SecurityConfig) Validate() error {
	if !c.RateLimitDisabled {
		if c.RateLimitRequests < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.RateLimitRequests)
		}
		if c.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow)
		}
	}
	return nil
}

// Validate checks logging settings.
func (c *LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Level)
	}
	switch strings.ToLower(c.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'console', got %q", c.Format)
	}
	return nil
}
