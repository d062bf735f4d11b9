// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

// @title Indicium API
// @version 1.0
// @description Threat intelligence enrichment and distribution service.
// @description
// @description ## Overview
// @description
// @description Indicium correlates locally-reported attacker IPs with AbuseIPDB
// @description reputation data and free-tier geolocation, then distributes the
// @description resulting indicators over TAXII 2.1 / STIX 2.1 and a small REST
// @description surface with multi-format export (JSON, CSV, TXT, STIX bundle,
// @description Elasticsearch bulk NDJSON).
// @description
// @description ## TAXII 2.1
// @description
// @description Discovery lives at `/taxii2`; the single API root is
// @description `/taxii2/iocs/` with two read-only collections
// @description (`ioc-indicators`, `high-confidence-iocs`). TAXII endpoints
// @description negotiate `application/taxii+json;version=2.1` and accept both
// @description trailing-slash and slash-less URLs.
// @description
// @description ## Authentication
// @description
// @description All read endpoints are public. The two admin endpoints
// @description (`/api/v1/admin/*`) require HTTP Basic credentials and exist
// @description only when ADMIN_USERNAME and ADMIN_PASSWORD are configured.
// @description
// @description ## Rate Limiting
// @description
// @description Default limits per client IP: 100 req/min general, 1000 req/min
// @description health probes, 10 req/min exports, 5 req/min admin. A 429
// @description carries the standard error envelope with code RATE_LIMITED.
// @description
// @description ## Error Responses
// @description
// @description Non-TAXII errors use this envelope:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message",
// @description     "details": {}
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-01-02T15:04:05Z"
// @description   }
// @description }
// @description ```
// @description TAXII endpoints return `{"title": "...", "http_status": "..."}`
// @description per the TAXII 2.1 specification instead.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/indicium/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8000
// @BasePath /
// @schemes http https
//
// @securityDefinitions.basic BasicAuth
// @description HTTP Basic credentials from ADMIN_USERNAME / ADMIN_PASSWORD. Required for admin endpoints only.
//
// @tag.name TAXII
// @tag.description TAXII 2.1 discovery, collections, objects, and manifest endpoints serving STIX 2.1 indicators
//
// @tag.name Core
// @tag.description Health checks, readiness/liveness probes, and system statistics
//
// @tag.name IOCs
// @tag.description REST access to the current indicator snapshot with filtering and multi-format export
//
// @tag.name Admin
// @tag.description Administrative operations requiring Basic auth (rebuild trigger, bulk enrichment)
package main
