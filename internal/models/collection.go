// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package models

// TAXIIMediaType is the content type for TAXII 2.1 responses.
const TAXIIMediaType = "application/taxii+json;version=2.1"

// STIXMediaType is the media type advertised for collection objects.
const STIXMediaType = "application/stix+json;version=2.1"

// CollectionAll is the id of the unfiltered indicator collection.
const CollectionAll = "ioc-indicators"

// CollectionHighConfidence is the id of the high-confidence subset.
const CollectionHighConfidence = "high-confidence-iocs"

// Collection is a named, filtered view of the snapshot. Collections are
// static for the process lifetime; Predicate must be pure.
type Collection struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CanRead     bool     `json:"can_read"`
	CanWrite    bool     `json:"can_write"`
	MediaTypes  []string `json:"media_types"`

	Predicate func(ind *Indicator) bool `json:"-"`
}

// DefaultCollections returns the two served collections. highConfidence is
// the final-confidence floor for the high-confidence subset (config,
// default 80).
func DefaultCollections(highConfidence int) []Collection {
	return []Collection{
		{
			ID:          CollectionAll,
			Title:       "IOC Indicators",
			Description: "Correlated IP indicators from local detections and reputation blacklist data",
			CanRead:     true,
			CanWrite:    false,
			MediaTypes:  []string{STIXMediaType},
			Predicate:   func(*Indicator) bool { return true },
		},
		{
			ID:          CollectionHighConfidence,
			Title:       "High Confidence IOCs",
			Description: "Indicators with high fused confidence, suitable for automated blocking",
			CanRead:     true,
			CanWrite:    false,
			MediaTypes:  []string{STIXMediaType},
			Predicate: func(ind *Indicator) bool {
				return ind.FinalConfidence >= highConfidence
			},
		},
	}
}
