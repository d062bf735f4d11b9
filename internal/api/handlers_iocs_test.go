// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/indicium/internal/models"
)

// TestListIOCs checks the default page over a full snapshot.
func TestListIOCs(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	full := buildSnapshot(1, 10)
	env.publish(t, full, highSubset(full, env.cfg.Correlation.HighConfidence))
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/iocs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	var page models.IOCPage
	decodeData(t, decodeEnvelope(t, rec), &page)

	if page.Total != 10 {
		t.Errorf("Total = %d, want 10", page.Total)
	}
	if page.Page != 1 || page.PageSize != 100 {
		t.Errorf("Page = %d PageSize = %d, want 1/100", page.Page, page.PageSize)
	}
	if len(page.Items) != 10 {
		t.Fatalf("Items = %d, want 10", len(page.Items))
	}
	// Fixture index 0 is the newest report.
	if page.Items[0].IP != "203.0.113.1" {
		t.Errorf("First item = %s, want the newest indicator", page.Items[0].IP)
	}
	for i := 1; i < len(page.Items); i++ {
		if page.Items[i].LastReportedAt.After(page.Items[i-1].LastReportedAt) {
			t.Errorf("Items out of order at position %d", i)
		}
	}
}

// TestListIOCsPagination checks skip/limit windows and page numbering.
func TestListIOCsPagination(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	full := buildSnapshot(1, 25)
	env.publish(t, full, highSubset(full, env.cfg.Correlation.HighConfidence))
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/iocs?limit=10&skip=10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d\nbody: %s", rec.Code, rec.Body.String())
	}

	var page models.IOCPage
	decodeData(t, decodeEnvelope(t, rec), &page)

	if page.Total != 25 || page.Page != 2 || page.PageSize != 10 {
		t.Errorf("Got total=%d page=%d size=%d, want 25/2/10", page.Total, page.Page, page.PageSize)
	}
	if len(page.Items) != 10 {
		t.Fatalf("Items = %d, want 10", len(page.Items))
	}
	if page.Items[0].IP != "203.0.113.11" {
		t.Errorf("First item = %s, want the 11th newest", page.Items[0].IP)
	}

	// A skip past the end yields an empty page, not an error.
	rec = doRequest(t, mux, http.MethodGet, "/api/v1/iocs?limit=10&skip=100", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200 for past-the-end skip", rec.Code)
	}
	decodeData(t, decodeEnvelope(t, rec), &page)
	if len(page.Items) != 0 {
		t.Errorf("Expected empty page, got %d items", len(page.Items))
	}
}

// TestListIOCsMinConfidence checks the confidence floor.
func TestListIOCsMinConfidence(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	full := buildSnapshot(1, 10)
	env.publish(t, full, highSubset(full, env.cfg.Correlation.HighConfidence))
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/iocs?min_confidence=75", "")

	var page models.IOCPage
	decodeData(t, decodeEnvelope(t, rec), &page)

	if page.Total != 5 {
		t.Fatalf("Total = %d, want the 5 high-confidence indicators", page.Total)
	}
	for _, item := range page.Items {
		if item.FinalConfidence < 75 {
			t.Errorf("Indicator %s confidence %d below the floor", item.IP, item.FinalConfidence)
		}
	}
}

// TestListIOCsFreshOnly checks the 7-day freshness filter against a
// snapshot with mixed report ages.
func TestListIOCsFreshOnly(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	now := time.Now().UTC()
	snap := &models.Snapshot{
		Generation: 1,
		BuiltAt:    now,
		Indicators: []models.Indicator{
			{IP: "203.0.113.1", FinalConfidence: 90, LastReportedAt: now.Add(-time.Hour), ProcessedAt: now},
			{IP: "203.0.113.2", FinalConfidence: 90, LastReportedAt: now.Add(-6 * 24 * time.Hour), ProcessedAt: now},
			{IP: "203.0.113.3", FinalConfidence: 90, LastReportedAt: now.Add(-30 * 24 * time.Hour), ProcessedAt: now},
		},
	}
	env.publish(t, snap, snap)
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/iocs?fresh_only=true", "")

	var page models.IOCPage
	decodeData(t, decodeEnvelope(t, rec), &page)

	if page.Total != 2 {
		t.Fatalf("Total = %d, want 2 fresh indicators", page.Total)
	}
	for _, item := range page.Items {
		if item.IP == "203.0.113.3" {
			t.Error("Stale indicator leaked through fresh_only")
		}
	}
}

// TestListIOCsValidation covers parameter rejection.
func TestListIOCsValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	full := buildSnapshot(1, 5)
	env.publish(t, full, highSubset(full, env.cfg.Correlation.HighConfidence))
	mux := env.router(t)

	tests := []struct {
		name  string
		query string
	}{
		{name: "limit zero", query: "?limit=0"},
		{name: "limit too large", query: "?limit=1001"},
		{name: "negative skip", query: "?skip=-1"},
		{name: "confidence above 100", query: "?min_confidence=101"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, mux, http.MethodGet, "/api/v1/iocs"+tt.query, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Status = %d, want 400", rec.Code)
			}
			resp := decodeEnvelope(t, rec)
			if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("Error = %+v, want VALIDATION_ERROR", resp.Error)
			}
		})
	}
}

// TestListIOCsNoSnapshot checks the 503 with Retry-After before the
// first rebuild.
func TestListIOCsNoSnapshot(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/iocs", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Status = %d, want 503", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After on 503")
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != "SERVICE_UNAVAILABLE" {
		t.Errorf("Error = %+v", resp.Error)
	}
}

// TestGetIOC covers lookup hit, miss, and invalid input.
func TestGetIOC(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	full := buildSnapshot(1, 5)
	env.publish(t, full, highSubset(full, env.cfg.Correlation.HighConfidence))
	mux := env.router(t)

	t.Run("hit", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/v1/iocs/203.0.113.3", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("Status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
		}

		var ind models.Indicator
		decodeData(t, decodeEnvelope(t, rec), &ind)
		if ind.IP != "203.0.113.3" {
			t.Errorf("IP = %s", ind.IP)
		}
		if ind.FinalConfidence != 90 {
			t.Errorf("FinalConfidence = %d, want 90", ind.FinalConfidence)
		}
	})

	t.Run("miss", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/v1/iocs/198.51.100.77", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("Status = %d, want 404", rec.Code)
		}
		resp := decodeEnvelope(t, rec)
		if resp.Error == nil || resp.Error.Code != "NOT_FOUND" {
			t.Errorf("Error = %+v", resp.Error)
		}
	})

	t.Run("invalid ip", func(t *testing.T) {
		rec := doRequest(t, mux, http.MethodGet, "/api/v1/iocs/not-an-ip", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("Status = %d, want 400", rec.Code)
		}
	})

	t.Run("ipv6 hit", func(t *testing.T) {
		now := time.Now().UTC()
		snap := &models.Snapshot{
			Generation: 2,
			BuiltAt:    now,
			Indicators: []models.Indicator{
				{IP: "2001:db8::1", FinalConfidence: 80, LastReportedAt: now, ProcessedAt: now},
			},
		}
		env.publish(t, snap, snap)

		rec := doRequest(t, mux, http.MethodGet, "/api/v1/iocs/2001:db8::1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("Status = %d, want 200 for IPv6 lookup\nbody: %s", rec.Code, rec.Body.String())
		}
	})
}

// TestExportIOCs checks headers and body shape per format.
func TestExportIOCs(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	full := buildSnapshot(1, 6)
	env.publish(t, full, highSubset(full, env.cfg.Correlation.HighConfidence))
	mux := env.router(t)

	tests := []struct {
		format      string
		contentType string
		extension   string
	}{
		{format: "json", contentType: "application/json", extension: ".json"},
		{format: "stix", contentType: models.STIXMediaType, extension: ".json"},
		{format: "csv", contentType: "text/csv", extension: ".csv"},
		{format: "txt", contentType: "text/plain; charset=utf-8", extension: ".txt"},
		{format: "elastic", contentType: "application/x-ndjson", extension: ".ndjson"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := doRequest(t, mux, http.MethodGet, "/api/v1/iocs/export/"+tt.format, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("Status = %d\nbody: %s", rec.Code, rec.Body.String())
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}

			disposition := rec.Header().Get("Content-Disposition")
			if !strings.HasPrefix(disposition, "attachment; filename=iocs_") {
				t.Errorf("Content-Disposition = %q", disposition)
			}
			if !strings.HasSuffix(disposition, tt.extension) {
				t.Errorf("Content-Disposition = %q, want %s suffix", disposition, tt.extension)
			}
			if rec.Body.Len() == 0 {
				t.Error("Expected a non-empty export body")
			}
			if !strings.Contains(rec.Body.String(), "203.0.113.1") {
				t.Error("Export body missing indicator data")
			}
		})
	}
}

// TestExportIOCsJSONShape checks the {total, indicators} document and
// the export limit.
func TestExportIOCsJSONShape(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	full := buildSnapshot(1, 10)
	env.publish(t, full, highSubset(full, env.cfg.Correlation.HighConfidence))
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/iocs/export/json?limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d", rec.Code)
	}

	var doc struct {
		Total      int                `json:"total"`
		Indicators []models.Indicator `json:"indicators"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("Failed to decode export: %v", err)
	}
	if doc.Total != 5 || len(doc.Indicators) != 5 {
		t.Errorf("Got total=%d len=%d, want 5/5", doc.Total, len(doc.Indicators))
	}
	// Newest first: the limit keeps the most recent reports.
	if doc.Indicators[0].IP != "203.0.113.1" {
		t.Errorf("First export item = %s", doc.Indicators[0].IP)
	}
}

// TestExportIOCsMinConfidence checks the export filter.
func TestExportIOCsMinConfidence(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	full := buildSnapshot(1, 10)
	env.publish(t, full, highSubset(full, env.cfg.Correlation.HighConfidence))
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/iocs/export/txt?min_confidence=75", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d", rec.Code)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("Expected 5 lines, got %d:\n%s", len(lines), rec.Body.String())
	}
	for _, line := range lines {
		if !strings.Contains(line, "# Confidence: 90%") {
			t.Errorf("Line %q missing confidence annotation", line)
		}
	}
}

// TestExportIOCsBadFormat checks unknown formats are rejected before
// any snapshot read.
func TestExportIOCsBadFormat(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/iocs/export/xml", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Status = %d, want 400", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("Error = %+v", resp.Error)
	}
}

// TestExportIOCsNoSnapshot checks exports 503 before the first rebuild.
func TestExportIOCsNoSnapshot(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/iocs/export/json", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Status = %d, want 503", rec.Code)
	}
}

// TestFilterIndicatorsCopies checks filtering never aliases the
// snapshot slice, so sorting cannot corrupt the cached order.
func TestFilterIndicatorsCopies(t *testing.T) {
	t.Parallel()

	snap := buildSnapshot(1, 5)
	original := make([]string, len(snap.Indicators))
	for i, ind := range snap.Indicators {
		original[i] = ind.IP
	}

	filtered := filterIndicators(snap.Indicators, 0, false)
	// Reverse the copy; the source must be untouched.
	for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	}

	for i, ind := range snap.Indicators {
		if ind.IP != original[i] {
			t.Fatalf("Snapshot order mutated at %d", i)
		}
	}
}

// TestSortNewestFirstTiebreak checks equal timestamps fall back to IP
// order so pagination is deterministic.
func TestSortNewestFirstTiebreak(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	indicators := []models.Indicator{
		{IP: "203.0.113.9", LastReportedAt: at},
		{IP: "203.0.113.1", LastReportedAt: at},
		{IP: "203.0.113.5", LastReportedAt: at.Add(time.Minute)},
	}

	sortNewestFirst(indicators)

	want := []string{"203.0.113.5", "203.0.113.1", "203.0.113.9"}
	for i, ip := range want {
		if indicators[i].IP != ip {
			t.Errorf("Position %d = %s, want %s", i, indicators[i].IP, ip)
		}
	}
}
