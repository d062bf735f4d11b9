// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

// Package stix serializes indicators as STIX 2.1 indicator objects and
// bundles. Indicator ids are UUIDv5 over the OASIS STIX namespace and the
// IP string, so the same address maps to the same id across rebuilds and
// replicas. Category-derived labels, threat types, and kill chain phases
// follow the AbuseIPDB category taxonomy.
package stix

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/indicium/internal/models"
)

// validityWindow is how long an indicator stays valid past its last report.
const validityWindow = 30 * 24 * time.Hour

// killChainName identifies the kill chain model used for phase names.
const killChainName = "lockheed-martin-cyber-kill-chain"

// stixNamespace is the OASIS namespace for deterministic STIX 2.1 ids.
var stixNamespace = uuid.MustParse("00abedb4-aa42-466c-9c01-fed23315a9b7")

// categoryLabels maps AbuseIPDB category ids to STIX indicator labels.
// Categories without a mapping fall back to malicious-activity, which is
// always present.
var categoryLabels = map[int]string{
	3:  "anonymization",
	5:  "anonymization",
	7:  "phishing",
	8:  "fraud",
	9:  "anonymization",
	13: "anonymization",
}

// categoryThreatTypes maps category ids to x_threat_types entries.
var categoryThreatTypes = map[int]string{
	4:  "ddos",
	5:  "brute-force",
	14: "reconnaissance",
	15: "exploit",
	16: "data-collection",
	18: "credential-access",
	21: "web-attack",
	22: "remote-access",
}

// categoryKillChain maps category ids to kill chain phase names.
var categoryKillChain = map[int]string{
	4:  "impact",
	5:  "credential-access",
	14: "reconnaissance",
	15: "initial-access",
	16: "collection",
	18: "credential-access",
	21: "initial-access",
	22: "persistence",
}

// GeoPoint is a lat/lon pair for the Elastic-style geo fields.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// KillChainPhase is one STIX kill chain phase reference.
type KillChainPhase struct {
	KillChainName string `json:"kill_chain_name"`
	PhaseName     string `json:"phase_name"`
}

// ExternalReference points at a source that contributed to the indicator.
type ExternalReference struct {
	SourceName  string `json:"source_name"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

// Indicator is a STIX 2.1 indicator object with the Indicium custom
// extensions. The x_elastic_geo_* fields are emitted only when the source
// indicator carries geolocation.
type Indicator struct {
	Type               string              `json:"type"`
	SpecVersion        string              `json:"spec_version"`
	ID                 string              `json:"id"`
	Created            time.Time           `json:"created"`
	Modified           time.Time           `json:"modified"`
	Pattern            string              `json:"pattern"`
	PatternType        string              `json:"pattern_type"`
	ValidFrom          time.Time           `json:"valid_from"`
	ValidUntil         time.Time           `json:"valid_until"`
	Labels             []string            `json:"labels"`
	Confidence         int                 `json:"confidence"`
	KillChainPhases    []KillChainPhase    `json:"kill_chain_phases,omitempty"`
	ExternalReferences []ExternalReference `json:"external_references,omitempty"`

	XLocalConfidence    *int            `json:"x_local_confidence,omitempty"`
	XExternalConfidence *int            `json:"x_external_confidence,omitempty"`
	XSourceSet          []models.Source `json:"x_source_set"`
	XCategories         []string        `json:"x_categories,omitempty"`
	XThreatTypes        []string        `json:"x_threat_types,omitempty"`

	XElasticGeoCountryCode string    `json:"x_elastic_geo_country_code,omitempty"`
	XElasticGeoCountryName string    `json:"x_elastic_geo_country_name,omitempty"`
	XElasticGeoCity        string    `json:"x_elastic_geo_city,omitempty"`
	XElasticGeoCoordinates *GeoPoint `json:"x_elastic_geo_coordinates,omitempty"`
	XElasticGeoLocation    *GeoPoint `json:"x_elastic_geo_location,omitempty"`
	XElasticGeoPoint       []float64 `json:"x_elastic_geo_point,omitempty"`
}

// Bundle wraps indicator objects for TAXII object responses.
type Bundle struct {
	Type    string      `json:"type"`
	ID      string      `json:"id"`
	Objects []Indicator `json:"objects"`
}

// IndicatorID returns the deterministic STIX id for an IP address.
func IndicatorID(ip string) string {
	return "indicator--" + uuid.NewSHA1(stixNamespace, []byte(ip)).String()
}

// Object converts one indicator to its STIX representation.
func Object(ind *models.Indicator) Indicator {
	validFrom := ind.LastReportedAt
	if validFrom.IsZero() {
		validFrom = ind.ProcessedAt
	}
	validFrom = validFrom.UTC()

	obj := Indicator{
		Type:               "indicator",
		SpecVersion:        "2.1",
		ID:                 IndicatorID(ind.IP),
		Created:            ind.ProcessedAt.UTC(),
		Modified:           ind.ProcessedAt.UTC(),
		Pattern:            pattern(ind),
		PatternType:        "stix",
		ValidFrom:          validFrom,
		ValidUntil:         validFrom.Add(validityWindow),
		Labels:             Labels(ind.Categories),
		Confidence:         ind.FinalConfidence,
		KillChainPhases:    killChainPhases(ind.Categories),
		ExternalReferences: externalReferences(ind.Provenance),

		XLocalConfidence:    ind.LocalConfidence,
		XExternalConfidence: ind.ExternalConfidence,
		XSourceSet:          ind.SourceSet,
		XCategories:         ind.Categories,
		XThreatTypes:        threatTypes(ind.Categories),
	}

	if g := ind.Geo; g != nil {
		obj.XElasticGeoCountryCode = g.CountryCode
		obj.XElasticGeoCountryName = g.CountryName
		obj.XElasticGeoCity = g.City
		obj.XElasticGeoCoordinates = &GeoPoint{Lat: g.Lat, Lon: g.Lon}
		obj.XElasticGeoLocation = &GeoPoint{Lat: g.Lat, Lon: g.Lon}
		obj.XElasticGeoPoint = []float64{g.Lon, g.Lat} // GeoJSON order: longitude first
	}

	return obj
}

// NewBundle wraps indicators in a STIX bundle with a fresh random id.
func NewBundle(indicators []models.Indicator) Bundle {
	objects := make([]Indicator, 0, len(indicators))
	for i := range indicators {
		objects = append(objects, Object(&indicators[i]))
	}
	return Bundle{
		Type:    "bundle",
		ID:      "bundle--" + uuid.New().String(),
		Objects: objects,
	}
}

func pattern(ind *models.Indicator) string {
	if ind.IsIPv6() {
		return fmt.Sprintf("[ipv6-addr:value = '%s']", ind.IP)
	}
	return fmt.Sprintf("[ipv4-addr:value = '%s']", ind.IP)
}

// Labels derives STIX labels from category ids. malicious-activity always
// leads; mapped categories append their label once, in category order.
func Labels(categories []string) []string {
	out := []string{"malicious-activity"}
	seen := map[string]struct{}{"malicious-activity": {}}

	for _, cat := range categories {
		id, err := strconv.Atoi(cat)
		if err != nil {
			continue
		}
		label, ok := categoryLabels[id]
		if !ok {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}

func threatTypes(categories []string) []string {
	var out []string
	seen := make(map[string]struct{})

	for _, cat := range categories {
		id, err := strconv.Atoi(cat)
		if err != nil {
			continue
		}
		tt, ok := categoryThreatTypes[id]
		if !ok {
			continue
		}
		if _, dup := seen[tt]; dup {
			continue
		}
		seen[tt] = struct{}{}
		out = append(out, tt)
	}
	return out
}

func killChainPhases(categories []string) []KillChainPhase {
	var out []KillChainPhase
	seen := make(map[string]struct{})

	for _, cat := range categories {
		id, err := strconv.Atoi(cat)
		if err != nil {
			continue
		}
		phase, ok := categoryKillChain[id]
		if !ok {
			continue
		}
		if _, dup := seen[phase]; dup {
			continue
		}
		seen[phase] = struct{}{}
		out = append(out, KillChainPhase{KillChainName: killChainName, PhaseName: phase})
	}
	return out
}

func externalReferences(provenance []models.Provenance) []ExternalReference {
	if len(provenance) == 0 {
		return nil
	}
	out := make([]ExternalReference, 0, len(provenance))
	for _, p := range provenance {
		out = append(out, ExternalReference{
			SourceName:  p.SourceName,
			URL:         p.SourceURL,
			Description: p.Description,
		})
	}
	return out
}
