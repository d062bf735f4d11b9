// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package models

import (
	"time"
)

// APIResponse is the standard response wrapper for the REST endpoints
// (/api/v1/*, /health, /stats). TAXII endpoints do not use it: their shapes
// are fixed by the TAXII 2.1 media type.
//
// Status is "success" or "error". Data carries the payload; Error is set
// only when Status is "error".
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "NOT_FOUND",
//	    "message": "indicator not found"
//	  },
//	  "metadata": {"timestamp": "2026-08-24T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response generation details for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is the structured error body. Code is one of the stable error
// kind strings (CONFIG, TRANSIENT, BUDGET_EXHAUSTED, NOT_FOUND,
// SERVICE_UNAVAILABLE, FATAL) or VALIDATION_ERROR for rejected input.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the /health payload. Status is "ok" when the last
// rebuild finished within three intervals, "degraded" when it is older
// or absent, and "fail" when the cache is unreachable.
type HealthStatus struct {
	Status             string      `json:"status"`
	Cache              bool        `json:"cache"`
	Database           bool        `json:"database"`
	SnapshotAgeSeconds *float64    `json:"snapshot_age_seconds,omitempty"`
	Budget             BudgetState `json:"budget"`
	Timestamp          time.Time   `json:"timestamp"`
}

// CacheStats mirrors the cache backend counters for /stats.
type CacheStats struct {
	Backend  string  `json:"backend"`
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	Sets     int64   `json:"sets"`
	Keys     int64   `json:"keys"`
	HitRatio float64 `json:"hit_ratio"`
}

// SnapshotCounts summarizes the live snapshot for /stats.
type SnapshotCounts struct {
	Total           int     `json:"total"`
	HighConfidence  int     `json:"high_confidence"`
	WithGeo         int     `json:"with_geo"`
	GeoSuccessRatio float64 `json:"geo_success_ratio"`
}

// StatsResponse is the /stats payload.
type StatsResponse struct {
	Counts        SnapshotCounts `json:"counts"`
	Budget        BudgetState    `json:"budget"`
	Cache         CacheStats     `json:"cache"`
	LastRebuild   *RebuildInfo   `json:"last_rebuild,omitempty"`
	UptimeSeconds float64        `json:"uptime_seconds"`
}

// IOCPage is one page of indicators from GET /api/v1/iocs. Total counts
// the filtered set before pagination.
type IOCPage struct {
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Items    []Indicator `json:"items"`
}

// EnrichData is the per-IP reputation summary returned by bulk enrich.
type EnrichData struct {
	AbuseConfidenceScore int    `json:"abuse_confidence_score"`
	CountryCode          string `json:"country_code,omitempty"`
	ISP                  string `json:"isp,omitempty"`
}

// EnrichResult is the outcome for one IP in a bulk enrich request.
// BudgetExhausted distinguishes a denied call from a lookup failure.
type EnrichResult struct {
	Enriched        bool        `json:"enriched"`
	BudgetExhausted bool        `json:"budget_exhausted,omitempty"`
	Data            *EnrichData `json:"data,omitempty"`
}

// EnrichResponse is the POST /api/v1/admin/enrich payload.
type EnrichResponse struct {
	Total    int                     `json:"total"`
	Enriched int                     `json:"enriched"`
	Results  map[string]EnrichResult `json:"results"`
}
