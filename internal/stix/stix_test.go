// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package stix

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/indicium/internal/models"
)

func intPtr(v int) *int {
	return &v
}

func sampleIndicator() *models.Indicator {
	processed := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	return &models.Indicator{
		IP:                 "203.0.113.9",
		SourceSet:          []models.Source{models.SourceLocal, models.SourceExternal},
		LocalConfidence:    intPtr(85),
		ExternalConfidence: intPtr(75),
		FinalConfidence:    85,
		Categories:         []string{"18", "22"},
		ReportID:           "RPT-1001",
		FirstReportedAt:    processed.Add(-72 * time.Hour),
		LastReportedAt:     processed.Add(-24 * time.Hour),
		Provenance: []models.Provenance{
			{SourceName: "local-sensors", Description: "reported 4 times", ObservedAt: processed.Add(-24 * time.Hour)},
			{SourceName: "AbuseIPDB", SourceURL: "https://www.abuseipdb.com/check/203.0.113.9", ObservedAt: processed},
		},
		ProcessedAt: processed,
	}
}

func TestIndicatorIDDeterministic(t *testing.T) {
	t.Parallel()

	// UUIDv5 over the OASIS STIX namespace: stable across processes.
	want := "indicator--36aaf61b-3cce-525a-bc0c-f6fab336271b"
	if got := IndicatorID("8.8.8.8"); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}

	if IndicatorID("203.0.113.9") == IndicatorID("203.0.113.10") {
		t.Error("Expected distinct ids for distinct IPs")
	}
	if IndicatorID("203.0.113.9") != IndicatorID("203.0.113.9") {
		t.Error("Expected identical ids for repeated calls")
	}
}

func TestObjectRequiredFields(t *testing.T) {
	t.Parallel()

	ind := sampleIndicator()
	obj := Object(ind)

	if obj.Type != "indicator" {
		t.Errorf("Expected type indicator, got %s", obj.Type)
	}
	if obj.SpecVersion != "2.1" {
		t.Errorf("Expected spec_version 2.1, got %s", obj.SpecVersion)
	}
	if obj.ID != "indicator--7e08d994-a1c8-5991-b41a-e48dadc3686a" {
		t.Errorf("Unexpected id %s", obj.ID)
	}
	if obj.Pattern != "[ipv4-addr:value = '203.0.113.9']" {
		t.Errorf("Unexpected pattern %s", obj.Pattern)
	}
	if obj.PatternType != "stix" {
		t.Errorf("Expected pattern_type stix, got %s", obj.PatternType)
	}
	if !obj.Created.Equal(ind.ProcessedAt) || !obj.Modified.Equal(ind.ProcessedAt) {
		t.Errorf("Expected created/modified %v, got %v/%v", ind.ProcessedAt, obj.Created, obj.Modified)
	}
	if !obj.ValidFrom.Equal(ind.LastReportedAt) {
		t.Errorf("Expected valid_from %v, got %v", ind.LastReportedAt, obj.ValidFrom)
	}
	if want := ind.LastReportedAt.Add(30 * 24 * time.Hour); !obj.ValidUntil.Equal(want) {
		t.Errorf("Expected valid_until %v, got %v", want, obj.ValidUntil)
	}
	if obj.Confidence != 85 {
		t.Errorf("Expected confidence 85, got %d", obj.Confidence)
	}
	if obj.XLocalConfidence == nil || *obj.XLocalConfidence != 85 {
		t.Errorf("Unexpected x_local_confidence %v", obj.XLocalConfidence)
	}
	if obj.XExternalConfidence == nil || *obj.XExternalConfidence != 75 {
		t.Errorf("Unexpected x_external_confidence %v", obj.XExternalConfidence)
	}
	if len(obj.XSourceSet) != 2 || obj.XSourceSet[0] != models.SourceLocal {
		t.Errorf("Unexpected x_source_set %v", obj.XSourceSet)
	}
	if len(obj.ExternalReferences) != 2 {
		t.Fatalf("Expected 2 external references, got %d", len(obj.ExternalReferences))
	}
	if obj.ExternalReferences[1].URL != "https://www.abuseipdb.com/check/203.0.113.9" {
		t.Errorf("Unexpected reference URL %s", obj.ExternalReferences[1].URL)
	}
}

func TestObjectValidFromFallsBackToProcessedAt(t *testing.T) {
	t.Parallel()

	ind := sampleIndicator()
	ind.LastReportedAt = time.Time{}
	obj := Object(ind)

	if !obj.ValidFrom.Equal(ind.ProcessedAt) {
		t.Errorf("Expected valid_from to fall back to processed_at, got %v", obj.ValidFrom)
	}
	if want := ind.ProcessedAt.Add(30 * 24 * time.Hour); !obj.ValidUntil.Equal(want) {
		t.Errorf("Expected valid_until %v, got %v", want, obj.ValidUntil)
	}
}

func TestObjectIPv6Pattern(t *testing.T) {
	t.Parallel()

	ind := sampleIndicator()
	ind.IP = "2001:db8::1"
	obj := Object(ind)

	if obj.Pattern != "[ipv6-addr:value = '2001:db8::1']" {
		t.Errorf("Unexpected pattern %s", obj.Pattern)
	}
}

func TestLabels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		categories []string
		want       []string
	}{
		{"no mapped categories", []string{"18", "22"}, []string{"malicious-activity"}},
		{"phishing", []string{"7"}, []string{"malicious-activity", "phishing"}},
		{"anonymization dedup", []string{"3", "5", "9", "13"}, []string{"malicious-activity", "anonymization"}},
		{"category order preserved", []string{"8", "7"}, []string{"malicious-activity", "fraud", "phishing"}},
		{"non-numeric ignored", []string{"abuseipdb-blacklist"}, []string{"malicious-activity"}},
		{"empty", nil, []string{"malicious-activity"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Labels(tt.categories)
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Label %d: expected %s, got %s", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestThreatTypes(t *testing.T) {
	t.Parallel()

	got := threatTypes([]string{"4", "5", "21", "1"})
	want := []string{"ddos", "brute-force", "web-attack"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Threat type %d: expected %s, got %s", i, want[i], got[i])
		}
	}

	if tt := threatTypes([]string{"1", "2"}); len(tt) != 0 {
		t.Errorf("Expected no threat types for unmapped categories, got %v", tt)
	}
}

func TestKillChainPhases(t *testing.T) {
	t.Parallel()

	// 5 and 18 both map to credential-access: one phase, not two.
	phases := killChainPhases([]string{"5", "18"})
	if len(phases) != 1 {
		t.Fatalf("Expected 1 deduplicated phase, got %d", len(phases))
	}
	if phases[0].PhaseName != "credential-access" {
		t.Errorf("Expected credential-access, got %s", phases[0].PhaseName)
	}
	if phases[0].KillChainName != "lockheed-martin-cyber-kill-chain" {
		t.Errorf("Unexpected kill chain name %s", phases[0].KillChainName)
	}

	phases = killChainPhases([]string{"14", "15", "4"})
	want := []string{"reconnaissance", "initial-access", "impact"}
	if len(phases) != len(want) {
		t.Fatalf("Expected %d phases, got %d", len(want), len(phases))
	}
	for i := range want {
		if phases[i].PhaseName != want[i] {
			t.Errorf("Phase %d: expected %s, got %s", i, want[i], phases[i].PhaseName)
		}
	}
}

func TestObjectGeoFields(t *testing.T) {
	t.Parallel()

	ind := sampleIndicator()
	ind.Geo = &models.GeoRecord{
		IP:          ind.IP,
		CountryCode: "DE",
		CountryName: "Germany",
		City:        "Frankfurt",
		Lat:         50.1109,
		Lon:         8.6821,
		Provider:    "ip-api",
	}
	obj := Object(ind)

	if obj.XElasticGeoCountryCode != "DE" {
		t.Errorf("Expected country code DE, got %s", obj.XElasticGeoCountryCode)
	}
	if obj.XElasticGeoCity != "Frankfurt" {
		t.Errorf("Expected city Frankfurt, got %s", obj.XElasticGeoCity)
	}
	if obj.XElasticGeoCoordinates == nil || obj.XElasticGeoCoordinates.Lat != 50.1109 {
		t.Errorf("Unexpected coordinates %+v", obj.XElasticGeoCoordinates)
	}
	if obj.XElasticGeoLocation == nil || obj.XElasticGeoLocation.Lon != 8.6821 {
		t.Errorf("Unexpected location %+v", obj.XElasticGeoLocation)
	}
	// GeoJSON point order is [lon, lat].
	if len(obj.XElasticGeoPoint) != 2 || obj.XElasticGeoPoint[0] != 8.6821 || obj.XElasticGeoPoint[1] != 50.1109 {
		t.Errorf("Unexpected geo point %v", obj.XElasticGeoPoint)
	}
}

func TestObjectWithoutGeoOmitsGeoFields(t *testing.T) {
	t.Parallel()

	obj := Object(sampleIndicator())

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "x_elastic_geo_") {
		t.Errorf("Expected geo fields to be omitted, got %s", data)
	}
}

func TestObjectRoundTrip(t *testing.T) {
	t.Parallel()

	ind := sampleIndicator()
	ind.Geo = &models.GeoRecord{IP: ind.IP, CountryCode: "NL", Lat: 52.37, Lon: 4.89, Provider: "geojs"}
	obj := Object(ind)

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var parsed Indicator
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if parsed.ID != obj.ID {
		t.Errorf("Expected id %s, got %s", obj.ID, parsed.ID)
	}
	if parsed.Pattern != obj.Pattern {
		t.Errorf("Expected pattern %s, got %s", obj.Pattern, parsed.Pattern)
	}
	if parsed.Confidence != obj.Confidence {
		t.Errorf("Expected confidence %d, got %d", obj.Confidence, parsed.Confidence)
	}
	if !parsed.ValidFrom.Equal(obj.ValidFrom) || !parsed.ValidUntil.Equal(obj.ValidUntil) {
		t.Errorf("Validity window changed in round trip: %v-%v vs %v-%v",
			parsed.ValidFrom, parsed.ValidUntil, obj.ValidFrom, obj.ValidUntil)
	}
	if parsed.XLocalConfidence == nil || *parsed.XLocalConfidence != *obj.XLocalConfidence {
		t.Errorf("x_local_confidence changed in round trip: %v vs %v", parsed.XLocalConfidence, obj.XLocalConfidence)
	}
	if len(parsed.XCategories) != len(obj.XCategories) {
		t.Errorf("x_categories changed in round trip: %v vs %v", parsed.XCategories, obj.XCategories)
	}
	if parsed.XElasticGeoCountryCode != "NL" {
		t.Errorf("Expected country NL after round trip, got %s", parsed.XElasticGeoCountryCode)
	}
}

func TestNewBundle(t *testing.T) {
	t.Parallel()

	first := sampleIndicator()
	second := sampleIndicator()
	second.IP = "198.51.100.7"

	bundle := NewBundle([]models.Indicator{*first, *second})

	if bundle.Type != "bundle" {
		t.Errorf("Expected type bundle, got %s", bundle.Type)
	}
	if !strings.HasPrefix(bundle.ID, "bundle--") {
		t.Errorf("Expected bundle-- id prefix, got %s", bundle.ID)
	}
	if len(bundle.Objects) != 2 {
		t.Fatalf("Expected 2 objects, got %d", len(bundle.Objects))
	}
	if bundle.Objects[0].ID == bundle.Objects[1].ID {
		t.Error("Expected distinct object ids")
	}

	if other := NewBundle(nil); other.ID == bundle.ID {
		t.Error("Expected fresh bundle ids per call")
	}
}

func TestNewBundleEmptyObjectsArray(t *testing.T) {
	t.Parallel()

	bundle := NewBundle(nil)
	data, err := json.Marshal(bundle)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"objects":[]`) {
		t.Errorf("Expected empty objects array, got %s", data)
	}
}
