// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package cache

import (
	"fmt"
	"time"
)

// Well-known snapshot keys written by the preprocessor and read by the
// API layer.
const (
	// KeySnapshot holds the full indicator snapshot.
	KeySnapshot = "preprocessed_iocs"

	// KeyHighConfidence holds the snapshot filtered to indicators at
	// or above the high-confidence threshold.
	KeyHighConfidence = "high_confidence_iocs"

	// KeyLastRebuild holds metadata about the most recent cycle.
	KeyLastRebuild = "last_rebuild"
)

// GeoKey returns the cache key for a geolocation result.
func GeoKey(ip string) string {
	return "geo:" + ip
}

// ReputationKey returns the cache key for a per-IP reputation lookup.
func ReputationKey(ip string) string {
	return "rep:" + ip
}

// BlacklistKey returns the cache key for a blacklist page at the given
// minimum confidence.
func BlacklistKey(minConfidence int) string {
	return fmt.Sprintf("rep:blacklist:%d", minConfidence)
}

// BudgetKey returns the daily reputation budget counter key. Days roll
// over at UTC midnight.
func BudgetKey(day time.Time) string {
	return "rep:budget:" + day.UTC().Format("2006-01-02")
}
