// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

/*
Package main is the entry point for the Indicium server application.

Indicium is a threat-intelligence enrichment and distribution service. It reads
locally-reported attacker IPs from a read-only database table, enriches them
with AbuseIPDB reputation data and free-tier geolocation, fuses local and
external confidence scores, and distributes the resulting indicators over
TAXII 2.1 / STIX 2.1 plus a small REST surface with multi-format export.

# Application Architecture

The server implements a layered architecture with Suture v4 process supervision:

	RootSupervisor ("indicium")
	├── DataSupervisor ("data-layer")
	│   └── Preprocessor (scheduled snapshot rebuilds)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (TAXII 2.1 + REST)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Cache: memory, Redis, or BadgerDB backend (snapshots + enrichment caches)
 4. Database: read-only reported_ips reader (PostgreSQL or DuckDB)
 5. Reputation client: AbuseIPDB with daily budget and circuit breaker
 6. Geolocation enricher: ip-api/ipwhois/geojs with a global pacer
 7. Correlator: pure confidence-fusion engine (weights are required config)
 8. Preprocessor: rebuild cycle manager publishing immutable snapshots
 9. HTTP handler and Chi router: TAXII, REST, health, admin surfaces
 10. Supervisor Tree: Suture v4 process supervision

The cache is the only channel between the preprocessor and the HTTP surface:
each cycle publishes a full snapshot plus a pre-filtered high-confidence
snapshot, and every read endpoint serves from the last published generation.
A database or upstream outage therefore degrades enrichment, never serving.

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	SERVER_PORT=8000             # HTTP listen port
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Local threat database (read-only)
	DATABASE_DRIVER=postgres     # postgres or duckdb
	DATABASE_DSN=postgres://readonly:...@db:5432/threats

	# Cache backend
	CACHE_BACKEND=memory         # memory, redis, or badger
	REDIS_ADDR=localhost:6379    # when CACHE_BACKEND=redis
	BADGER_PATH=/data/cache      # when CACHE_BACKEND=badger

	# Enrichment
	ABUSEIPDB_API_KEY=<key>      # Required
	REPUTATION_DAILY_LIMIT=1000  # API calls per UTC day

	# Correlation weights (REQUIRED, no defaults, must sum to 1.0)
	LOCAL_CONFIDENCE_WEIGHT=0.7
	EXTERNAL_CONFIDENCE_WEIGHT=0.3

	# Admin surface (both set = enabled, both unset = absent)
	ADMIN_USERNAME=admin
	ADMIN_PASSWORD=<8+ chars>

See .env.example for the complete configuration reference.

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:

 1. Stops accepting new HTTP connections
 2. Waits for in-flight requests (10s timeout)
 3. Stops the preprocessor and waits for a running cycle to wind down
 4. Closes the database pool and cache backend
 5. Reports any services that failed to stop

# Usage Examples

Development (DuckDB + in-memory cache):

	export DATABASE_DRIVER=duckdb DATABASE_DSN=./threats.duckdb
	export ABUSEIPDB_API_KEY=xxx
	export LOCAL_CONFIDENCE_WEIGHT=0.7 EXTERNAL_CONFIDENCE_WEIGHT=0.3
	go run ./cmd/server

Production (PostgreSQL + Redis):

	export DATABASE_DRIVER=postgres
	export DATABASE_DSN=postgres://readonly:...@db:5432/threats
	export CACHE_BACKEND=redis REDIS_ADDR=redis:6379
	export ABUSEIPDB_API_KEY=xxx
	export LOCAL_CONFIDENCE_WEIGHT=0.7 EXTERNAL_CONFIDENCE_WEIGHT=0.3
	export ADMIN_USERNAME=admin ADMIN_PASSWORD=secure-password
	./indicium

Docker:

	docker run -d \
	  -e DATABASE_DRIVER=postgres \
	  -e DATABASE_DSN=postgres://readonly:...@db:5432/threats \
	  -e ABUSEIPDB_API_KEY=xxx \
	  -e LOCAL_CONFIDENCE_WEIGHT=0.7 \
	  -e EXTERNAL_CONFIDENCE_WEIGHT=0.3 \
	  -p 8000:8000 \
	  ghcr.io/tomtom215/indicium

# API Documentation

Swagger documentation is available at /swagger/index.html when the server
is running. The API is organized into categories:

  - TAXII: Discovery, collections, objects, manifest (TAXII 2.1 / STIX 2.1)
  - Core: Health checks, readiness/liveness probes, statistics
  - IOCs: Snapshot listing, per-IP lookup, multi-format export
  - Admin: Rebuild trigger and bulk enrichment (Basic auth)

# See Also

  - internal/config: Configuration management
  - internal/supervisor: Process supervision
  - internal/api: HTTP handlers and routing
  - internal/preprocessor: Snapshot rebuild cycles
*/
package main
