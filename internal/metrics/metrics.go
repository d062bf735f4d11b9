// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the enrichment pipeline and the
// serving surface:
// - API endpoint latency and throughput (REST + TAXII)
// - Preprocessing cycle outcomes and snapshot sizes
// - Reputation provider calls and the daily request budget
// - Geolocation provider calls and adaptive pacing
// - Circuit breaker state

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// TAXII Metrics
	TAXIIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taxii_requests_total",
			Help: "Total number of TAXII endpoint requests",
		},
		[]string{"endpoint"}, // "discovery", "api_root", "collections", "objects", "manifest", "status"
	)

	TAXIIObjectsServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "taxii_objects_served_total",
			Help: "Total number of STIX objects served over TAXII",
		},
	)

	// Preprocessing Cycle Metrics
	PreprocessCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "preprocess_cycle_duration_seconds",
			Help:    "Duration of preprocessing cycles in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600}, // Full rebuilds can take minutes
		},
	)

	PreprocessIndicatorsProduced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "preprocess_indicators_produced_total",
			Help: "Total number of indicators produced across all cycles",
		},
	)

	PreprocessErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "preprocess_errors_total",
			Help: "Total number of preprocessing errors",
		},
		[]string{"stage"}, // "local_fetch", "blacklist", "correlate", "geo", "publish"
	)

	PreprocessLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "preprocess_last_success_timestamp",
			Help: "Unix timestamp of last successful preprocessing cycle",
		},
	)

	PreprocessCyclesCoalesced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "preprocess_cycles_coalesced_total",
			Help: "Total number of cycle triggers suppressed by an already-running cycle",
		},
	)

	SnapshotIndicators = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "snapshot_indicators",
			Help: "Number of indicators in the published snapshot",
		},
		[]string{"set"}, // "full", "high_confidence"
	)

	SnapshotGeneration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "snapshot_generation",
			Help: "Generation counter of the published snapshot",
		},
	)

	// Reputation Provider Metrics
	ReputationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reputation_requests_total",
			Help: "Total number of reputation lookups by outcome",
		},
		[]string{"endpoint", "result"}, // endpoint: "check", "blacklist"; result: "success", "failure", "cached", "budget_exhausted"
	)

	ReputationRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reputation_request_duration_seconds",
			Help:    "Duration of outbound reputation API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ReputationBudgetUsed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reputation_budget_used",
			Help: "Outbound reputation requests consumed in the current UTC day",
		},
	)

	ReputationBudgetLimit = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reputation_budget_limit",
			Help: "Configured daily limit for outbound reputation requests",
		},
	)

	ReputationRecordsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reputation_records_skipped_total",
			Help: "Total number of malformed provider records skipped during parsing",
		},
	)

	// Geolocation Metrics
	GeoLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geo_lookups_total",
			Help: "Total number of outbound geolocation lookups by provider and outcome",
		},
		[]string{"provider", "result"}, // result: "success", "failure", "rate_limited"
	)

	GeoCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geo_cache_hits_total",
			Help: "Total number of geolocation cache hits",
		},
	)

	GeoCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geo_cache_misses_total",
			Help: "Total number of geolocation cache misses (provider fetch required)",
		},
	)

	GeoPacingDelay = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "geo_pacing_delay_seconds",
			Help: "Current adaptive delay between outbound geolocation requests",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a rejected request on a rate-limited endpoint
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordTAXIIRequest records a TAXII endpoint hit
func RecordTAXIIRequest(endpoint string) {
	TAXIIRequestsTotal.WithLabelValues(endpoint).Inc()
}

// RecordTAXIIObjects records STIX objects served in a TAXII response
func RecordTAXIIObjects(count int) {
	TAXIIObjectsServed.Add(float64(count))
}

// RecordPreprocessCycle records the outcome of one preprocessing cycle.
// A successful cycle updates the last-success timestamp; a failed one
// only observes the duration so dashboards still see the attempt.
func RecordPreprocessCycle(duration time.Duration, produced int, err error) {
	PreprocessCycleDuration.Observe(duration.Seconds())
	if err != nil {
		return
	}
	PreprocessIndicatorsProduced.Add(float64(produced))
	PreprocessLastSuccess.Set(float64(time.Now().Unix()))
}

// RecordPreprocessError records a failure within a named pipeline stage
func RecordPreprocessError(stage string) {
	PreprocessErrors.WithLabelValues(stage).Inc()
}

// RecordCoalescedCycle records a trigger suppressed by a running cycle
func RecordCoalescedCycle() {
	PreprocessCyclesCoalesced.Inc()
}

// RecordSnapshotPublished updates the snapshot gauges after an atomic swap
func RecordSnapshotPublished(generation int64, full, highConfidence int) {
	SnapshotGeneration.Set(float64(generation))
	SnapshotIndicators.WithLabelValues("full").Set(float64(full))
	SnapshotIndicators.WithLabelValues("high_confidence").Set(float64(highConfidence))
}

// RecordReputationRequest records a reputation lookup by endpoint and outcome
func RecordReputationRequest(endpoint, result string) {
	ReputationRequests.WithLabelValues(endpoint, result).Inc()
}

// RecordReputationCall records the latency of one outbound provider call
func RecordReputationCall(duration time.Duration) {
	ReputationRequestDuration.Observe(duration.Seconds())
}

// UpdateReputationBudget updates the daily budget gauges
func UpdateReputationBudget(used, limit int64) {
	ReputationBudgetUsed.Set(float64(used))
	ReputationBudgetLimit.Set(float64(limit))
}

// RecordReputationSkippedRecord records a malformed provider record
// dropped during defensive parsing
func RecordReputationSkippedRecord() {
	ReputationRecordsSkipped.Inc()
}

// RecordGeoLookup records an outbound geolocation lookup outcome
func RecordGeoLookup(provider, result string) {
	GeoLookups.WithLabelValues(provider, result).Inc()
}

// RecordGeoCacheHit records a geolocation cache hit
func RecordGeoCacheHit() {
	GeoCacheHits.Inc()
}

// RecordGeoCacheMiss records a geolocation cache miss
func RecordGeoCacheMiss() {
	GeoCacheMisses.Inc()
}

// UpdateGeoPacingDelay exports the current adaptive pacing delay
func UpdateGeoPacingDelay(delay time.Duration) {
	GeoPacingDelay.Set(delay.Seconds())
}
