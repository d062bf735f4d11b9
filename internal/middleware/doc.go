// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

/*
Package middleware provides HTTP middleware components for the application.

This package implements infrastructure middleware for request ID tracking,
Prometheus metrics instrumentation, and response compression. CORS and rate
limiting use the Chi ecosystem (go-chi/cors, go-chi/httprate) and are wired
directly in the router.

Key Components:

  - RequestID: UUID-based request tracking for distributed tracing
  - PrometheusMetrics: HTTP request/response instrumentation
  - Compression: Gzip compression for indicator exports and TAXII bundles

All middleware uses the Chi-compatible func(http.Handler) http.Handler
signature:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)

Usage Example - Request ID:

	// Access request ID in handler
	func handler(w http.ResponseWriter, r *http.Request) {
	    requestID := middleware.GetRequestID(r.Context())
	    zerolog.Ctx(r.Context()).Info().Msg("Processing request")
	}

The request-scoped logger carries the request_id field automatically,
so handlers logging through zerolog.Ctx need no extra wiring.

Metrics Details:

PrometheusMetrics labels requests by the Chi route template rather than
the raw URL path, so per-IP endpoints such as /api/v1/iocs/{ip} produce
a single label value instead of one per looked-up address.

Thread Safety:

All middleware components are thread-safe:
  - Compression uses pooled per-request gzip writers
  - Request ID uses context.Context (immutable)
  - Prometheus metrics use atomic operations

See Also:

  - internal/auth: Basic authentication for admin endpoints
  - internal/api: HTTP handlers wrapped by middleware
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
