// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry via promauto at package
load, so importing any package that records metrics is enough to expose them.

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8000/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Requests currently in flight (gauge)
  - api_rate_limit_hits_total: Rejected requests (counter)
    Labels: endpoint

TAXII Metrics:
  - taxii_requests_total: TAXII endpoint hits (counter)
    Labels: endpoint (discovery, api_root, collections, objects, manifest, status)
  - taxii_objects_served_total: STIX objects served (counter)

Preprocessing Metrics:
  - preprocess_cycle_duration_seconds: Cycle duration (histogram)
    Buckets: 1, 5, 10, 30, 60, 120, 300, 600
  - preprocess_indicators_produced_total: Indicators produced (counter)
  - preprocess_errors_total: Pipeline failures (counter)
    Labels: stage (local_fetch, blacklist, correlate, geo, publish)
  - preprocess_last_success_timestamp: Unix timestamp of last good cycle (gauge)
  - preprocess_cycles_coalesced_total: Triggers suppressed by a running cycle (counter)
  - snapshot_indicators: Published snapshot sizes (gauge)
    Labels: set (full, high_confidence)
  - snapshot_generation: Snapshot generation counter (gauge)

Reputation Metrics:
  - reputation_requests_total: Lookups by outcome (counter)
    Labels: endpoint (check, blacklist), result (success, failure, cached, budget_exhausted)
  - reputation_request_duration_seconds: Outbound call latency (histogram)
  - reputation_budget_used / reputation_budget_limit: Daily budget state (gauges)
  - reputation_records_skipped_total: Malformed records dropped (counter)

Geolocation Metrics:
  - geo_lookups_total: Outbound lookups (counter)
    Labels: provider, result (success, failure, rate_limited)
  - geo_cache_hits_total / geo_cache_misses_total: Per-IP cache efficiency (counters)
  - geo_pacing_delay_seconds: Current adaptive request spacing (gauge)

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests through the breaker (counter)
    Labels: name, result (success, failure, rejected)
  - circuit_breaker_consecutive_failures: Failure streak (gauge)
    Labels: name
  - circuit_breaker_state_transitions_total: State changes (counter)
    Labels: name, from_state, to_state

System Metrics:
  - app_info: Version and build information (gauge)
    Labels: version, go_version
  - app_uptime_seconds: Process uptime (gauge)

# Usage

Record helpers keep call sites one-line:

	metrics.RecordAPIRequest("GET", "/taxii2/iocs/collections", "200", elapsed)
	metrics.RecordGeoLookup("ip-api", "success")
	metrics.UpdateReputationBudget(used, limit)

Thread Safety: all Prometheus collector operations are safe for
concurrent use.
*/
package metrics
