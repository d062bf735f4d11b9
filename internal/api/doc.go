// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

// Package api serves the HTTP surface of Indicium: the TAXII 2.1
// endpoints under /taxii2, the REST IOC API under /api/v1, the admin
// endpoints, and the health/stats/metrics observability routes.
//
// All handlers read from the preprocessed snapshot in the cache — no
// request ever queries the threat database or an upstream service
// directly. The only exceptions are the admin endpoints, which exist
// precisely to trigger a rebuild or spend reputation budget on demand.
//
// # Response conventions
//
// REST endpoints wrap payloads in models.APIResponse with a "success"
// or "error" status. TAXII endpoints return the bare shapes the TAXII
// 2.1 specification fixes, with Content-Type
// application/taxii+json;version=2.1.
//
// Errors map the errs taxonomy onto HTTP statuses: NOT_FOUND → 404,
// SERVICE_UNAVAILABLE → 503 with Retry-After, anything else → 500.
// Bodies carry the stable kind string, never internals.
//
// # Routing
//
// Router.Setup builds the chi router: request-id, real-ip, recoverer
// and CORS run globally; the /api/v1 group adds Prometheus metrics,
// gzip compression, security headers and per-group rate limits; the
// admin group is mounted only when credentials are configured and sits
// behind Basic Auth with a strict limit.
package api
