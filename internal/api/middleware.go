// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/indicium/internal/metrics"
)

// RateLimitConfig holds rate limiting settings for an endpoint group.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Default per-group rate limits. The API limit can be overridden from
// configuration; the others keep their relative headroom: probes are
// polled aggressively, exports are expensive, admin calls spend budget.
var (
	APIRateLimit    = RateLimitConfig{Requests: 100, Window: time.Minute}
	HealthRateLimit = RateLimitConfig{Requests: 1000, Window: time.Minute}
	ExportRateLimit = RateLimitConfig{Requests: 10, Window: time.Minute}
	AdminRateLimit  = RateLimitConfig{Requests: 5, Window: time.Minute}
)

// rateLimit builds an IP-keyed limiter for one endpoint group. Rejected
// requests are counted per group and answered with the standard error
// envelope.
func rateLimit(group string, cfg RateLimitConfig) func(http.Handler) http.Handler {
	return httprate.Limit(
		cfg.Requests,
		cfg.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RecordRateLimitHit(group)
			respondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests", nil)
		}),
	)
}

// corsMiddleware builds the global CORS handler. It runs on every route
// so preflight OPTIONS requests are answered before routing.
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           86400,
	})
}

// APISecurityHeaders sets browser protection headers on API responses.
// HSTS is added only when the request arrived over TLS, directly or via
// a terminating proxy.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}
