// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package models

import (
	"strings"
	"time"
)

// Source identifies where confidence for an indicator came from.
type Source string

const (
	// SourceLocal marks confidence observed by the local sensor network
	// (the reported_ips table).
	SourceLocal Source = "LOCAL"

	// SourceExternal marks confidence from the external reputation service.
	SourceExternal Source = "EXTERNAL"
)

// Provenance records one source that contributed to an indicator. Entries
// are ordered local-first and surface as STIX external_references.
type Provenance struct {
	SourceName  string    `json:"source_name"`
	SourceURL   string    `json:"source_url,omitempty"`
	Description string    `json:"description,omitempty"`
	ObservedAt  time.Time `json:"observed_at"`
}

// GeoRecord is a geolocation result for one IP from one provider.
// Lat is in [-90,90] and Lon in [-180,180]; records outside those ranges
// are rejected at the provider boundary.
type GeoRecord struct {
	IP          string    `json:"ip"`
	CountryCode string    `json:"country_code"`
	CountryName string    `json:"country_name,omitempty"`
	City        string    `json:"city,omitempty"`
	Region      string    `json:"region,omitempty"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	ASN         string    `json:"asn,omitempty"`
	ISP         string    `json:"isp,omitempty"`
	Timezone    string    `json:"timezone,omitempty"`
	ThreatLevel string    `json:"threat_level,omitempty"`
	Provider    string    `json:"provider"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Indicator is the central entity: one IP-keyed threat record with fused
// confidence and provenance. Indicators are immutable after snapshot commit
// and replaced wholesale by the next rebuild cycle.
type Indicator struct {
	IP                 string       `json:"ip"`
	SourceSet          []Source     `json:"source_set"`
	LocalConfidence    *int         `json:"local_confidence,omitempty"`
	ExternalConfidence *int         `json:"external_confidence,omitempty"`
	FinalConfidence    int          `json:"final_confidence"`
	Categories         []string     `json:"categories,omitempty"`
	ReportID           string       `json:"report_id,omitempty"`
	FirstReportedAt    time.Time    `json:"first_reported_at"`
	LastReportedAt     time.Time    `json:"last_reported_at"`
	FreshnessScore     float64      `json:"freshness_score"`
	Geo                *GeoRecord   `json:"geo,omitempty"`
	Provenance         []Provenance `json:"provenance,omitempty"`
	ProcessedAt        time.Time    `json:"processed_at"`
}

// HasSource reports whether the indicator carries the given source.
func (i *Indicator) HasSource(s Source) bool {
	for _, src := range i.SourceSet {
		if src == s {
			return true
		}
	}
	return false
}

// IsIPv6 reports whether the indicator address is IPv6.
func (i *Indicator) IsIPv6() bool {
	return strings.Contains(i.IP, ":")
}

// LocalRecord is one deduplicated row projected from the reported_ips table.
type LocalRecord struct {
	IP              string    `json:"ip" db:"ip_address"`
	Confidence      int       `json:"confidence" db:"confidence"`
	Categories      []string  `json:"categories,omitempty" db:"-"`
	RawCategories   string    `json:"-" db:"categories"`
	ReportID        string    `json:"report_id,omitempty" db:"report_id"`
	FirstReportedAt time.Time `json:"first_reported_at" db:"first_reported_at"`
	LastReportedAt  time.Time `json:"last_reported_at" db:"last_reported_at"`
	ReportCount     int       `json:"report_count" db:"report_count"`
}

// Snapshot is the atomically-committed output of one rebuild cycle.
// Generation increases monotonically; pagination cursors bind to it so a
// consumer can never interleave two generations.
type Snapshot struct {
	Generation int64       `json:"generation"`
	BuiltAt    time.Time   `json:"built_at"`
	Indicators []Indicator `json:"indicators"`
}

// RebuildInfo summarizes the most recent rebuild cycle for /health, /stats,
// and the last_rebuild cache key.
type RebuildInfo struct {
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	DurationSeconds float64   `json:"duration_seconds"`
	Locals          int       `json:"locals"`
	Externals       int       `json:"externals"`
	Produced        int       `json:"produced"`
	Failed          int       `json:"failed"`
	GeoEnriched     int       `json:"geo_enriched"`
	GeoSuccessRatio float64   `json:"geo_success_ratio"`
	BudgetExhausted bool      `json:"budget_exhausted"`
}
