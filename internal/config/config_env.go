// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package config

import "strings"

// envKeyMap maps environment variable names to koanf config paths. Only
// variables listed here reach the config tree; everything else in the
// process environment is ignored.
var envKeyMap = map[string]string{
	// Server
	"SERVER_HOST":    "server.host",
	"SERVER_PORT":    "server.port",
	"SERVER_TIMEOUT": "server.timeout",

	// Database
	"DATABASE_DRIVER":         "database.driver",
	"DATABASE_DSN":            "database.dsn",
	"DATABASE_QUERY_TIMEOUT":  "database.query_timeout",
	"DATABASE_MAX_ROWS":       "database.max_rows",
	"DATABASE_MAX_OPEN_CONNS": "database.max_open_conns",
	"DATABASE_MAX_IDLE_CONNS": "database.max_idle_conns",

	// Cache
	"CACHE_BACKEND":          "cache.backend",
	"REDIS_ADDR":             "cache.redis_addr",
	"REDIS_PASSWORD":         "cache.redis_password",
	"REDIS_DB":               "cache.redis_db",
	"BADGER_PATH":            "cache.badger_path",
	"CACHE_CLEANUP_INTERVAL": "cache.cleanup_interval",

	// Reputation (AbuseIPDB)
	"ABUSEIPDB_API_KEY":           "reputation.api_key",
	"REPUTATION_API_KEY":          "reputation.api_key",
	"REPUTATION_BASE_URL":         "reputation.base_url",
	"REPUTATION_DAILY_LIMIT":      "reputation.daily_limit",
	"REPUTATION_MIN_CONFIDENCE":   "reputation.min_confidence",
	"REPUTATION_BLACKLIST_LIMIT":  "reputation.blacklist_limit",
	"REPUTATION_MAX_AGE_DAYS":     "reputation.max_age_days",
	"REPUTATION_CACHE_TTL":        "reputation.cache_ttl",
	"REPUTATION_TIMEOUT":          "reputation.timeout",
	"REPUTATION_RETRY_ATTEMPTS":   "reputation.retry_attempts",
	"REPUTATION_RETRY_DELAY":      "reputation.retry_delay",
	"REPUTATION_RETRY_MAX_DELAY":  "reputation.retry_max_delay",

	// Correlation
	"LOCAL_CONFIDENCE_WEIGHT":    "correlation.local_weight",
	"EXTERNAL_CONFIDENCE_WEIGHT": "correlation.external_weight",
	"LOCAL_CONFIDENCE_BOOST":     "correlation.local_boost",
	"MINIMUM_FINAL_CONFIDENCE":   "correlation.minimum_final_confidence",
	"HIGH_CONFIDENCE_THRESHOLD":  "correlation.high_confidence_threshold",

	// Preprocessing
	"PREPROCESS_INTERVAL":    "preprocess.interval",
	"PREPROCESSING_TTL":      "preprocess.ttl",
	"BATCH_SIZE":             "preprocess.batch_size",
	"AUTO_START_PROCESSING":  "preprocess.auto_start",

	// Geolocation
	"GEO_REQUEST_DELAY": "geo.request_delay",
	"GEO_MAX_DELAY":     "geo.max_delay",
	"GEO_CACHE_TTL":     "geo.cache_ttl",
	"GEO_TIMEOUT":       "geo.timeout",
	"GEO_PROVIDER_RATE": "geo.provider_rate",
	"GEO_PROVIDERS":     "geo.providers",

	// TAXII discovery metadata
	"TAXII_TITLE":        "taxii.title",
	"TAXII_DESCRIPTION":  "taxii.description",
	"TAXII_CONTACT":      "taxii.contact",
	"TAXII_EXTERNAL_URL": "taxii.external_url",

	// Admin
	"ADMIN_USERNAME": "admin.username",
	"ADMIN_PASSWORD": "admin.password",

	// Security
	"RATE_LIMIT_REQUESTS": "security.rate_limit_requests",
	"RATE_LIMIT_WINDOW":   "security.rate_limit_window",
	"DISABLE_RATE_LIMIT":  "security.rate_limit_disabled",
	"CORS_ALLOWED_ORIGINS": "security.cors_origins",

	// Logging
	"LOG_LEVEL":  "logging.level",
	"LOG_FORMAT": "logging.format",
	"LOG_CALLER": "logging.caller",
}

// envTransformFunc maps environment variable names to config paths.
// Returning "" tells koanf to skip the variable entirely.
func envTransformFunc(s string) string {
	key := strings.ToUpper(strings.TrimSpace(s))
	if path, ok := envKeyMap[key]; ok {
		return path
	}
	return ""
}
