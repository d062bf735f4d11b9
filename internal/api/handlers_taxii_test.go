// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/indicium/internal/models"
)

// taxiiBundlePage is the decoded objects response used by tests.
type taxiiBundlePage struct {
	More bool   `json:"more"`
	Next string `json:"next"`
	Data struct {
		Type    string `json:"type"`
		ID      string `json:"id"`
		Objects []struct {
			Type        string `json:"type"`
			SpecVersion string `json:"spec_version"`
			ID          string `json:"id"`
			Pattern     string `json:"pattern"`
			PatternType string `json:"pattern_type"`
			Confidence  int    `json:"confidence"`
		} `json:"objects"`
	} `json:"data"`
}

func decodeTAXII(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	if got := rec.Header().Get("Content-Type"); got != models.TAXIIMediaType {
		t.Errorf("Content-Type = %q, want %q", got, models.TAXIIMediaType)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("Failed to decode TAXII body: %v\nbody: %s", err, rec.Body.String())
	}
}

// TestTAXIIDiscovery checks the discovery document against the
// configured server identity.
func TestTAXIIDiscovery(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/taxii2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}

	var disc TAXIIDiscoveryResponse
	decodeTAXII(t, rec, &disc)

	if disc.Title != env.cfg.TAXII.Title {
		t.Errorf("Title = %q, want %q", disc.Title, env.cfg.TAXII.Title)
	}
	if disc.Contact != env.cfg.TAXII.Contact {
		t.Errorf("Contact = %q, want %q", disc.Contact, env.cfg.TAXII.Contact)
	}
	if len(disc.APIRoots) != 1 {
		t.Fatalf("Expected exactly one API root, got %v", disc.APIRoots)
	}
	if disc.Default != disc.APIRoots[0] {
		t.Errorf("Default %q should equal the only API root %q", disc.Default, disc.APIRoots[0])
	}
	if !strings.HasSuffix(disc.Default, "/taxii2/iocs/") {
		t.Errorf("API root %q should end with /taxii2/iocs/", disc.Default)
	}
}

// TestTAXIIDiscoveryExternalURL checks the advertised root honors the
// configured external URL, trailing slash normalized.
func TestTAXIIDiscoveryExternalURL(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.cfg.TAXII.ExternalURL = "https://intel.example.org/"
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/taxii2", "")

	var disc TAXIIDiscoveryResponse
	decodeTAXII(t, rec, &disc)

	want := "https://intel.example.org/taxii2/iocs/"
	if disc.Default != want {
		t.Errorf("Default = %q, want %q", disc.Default, want)
	}
}

// TestTAXIIAPIRoot checks the version advertisement and content cap.
func TestTAXIIAPIRoot(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	mux := env.router(t)

	// TAXII clients request with a trailing slash.
	rec := doRequest(t, mux, http.MethodGet, "/taxii2/iocs/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}

	var root TAXIIAPIRootResponse
	decodeTAXII(t, rec, &root)

	if len(root.Versions) != 1 || root.Versions[0] != models.TAXIIMediaType {
		t.Errorf("Versions = %v, want [%s]", root.Versions, models.TAXIIMediaType)
	}
	if root.MaxContentLength != 10485760 {
		t.Errorf("MaxContentLength = %d, want 10485760", root.MaxContentLength)
	}
}

// TestTAXIICollections checks both collection descriptors are served
// read-only.
func TestTAXIICollections(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/taxii2/iocs/collections/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}

	var list TAXIICollectionList
	decodeTAXII(t, rec, &list)

	if len(list.Collections) != 2 {
		t.Fatalf("Expected 2 collections, got %d", len(list.Collections))
	}
	ids := map[string]bool{}
	for _, col := range list.Collections {
		ids[col.ID] = true
		if !col.CanRead {
			t.Errorf("Collection %s should be readable", col.ID)
		}
		if col.CanWrite {
			t.Errorf("Collection %s must not be writable", col.ID)
		}
		if len(col.MediaTypes) != 1 || col.MediaTypes[0] != models.STIXMediaType {
			t.Errorf("Collection %s media types = %v", col.ID, col.MediaTypes)
		}
	}
	if !ids[models.CollectionAll] || !ids[models.CollectionHighConfidence] {
		t.Errorf("Missing expected collection ids: %v", ids)
	}
}

// TestTAXIICollection checks descriptor lookup and the unknown-id error.
func TestTAXIICollection(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/taxii2/iocs/collections/"+models.CollectionAll+"/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}

	var col models.Collection
	decodeTAXII(t, rec, &col)
	if col.ID != models.CollectionAll {
		t.Errorf("ID = %q, want %q", col.ID, models.CollectionAll)
	}

	rec = doRequest(t, mux, http.MethodGet, "/taxii2/iocs/collections/nope/", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Status = %d, want 404", rec.Code)
	}

	var taxiiErr map[string]string
	decodeTAXII(t, rec, &taxiiErr)
	if taxiiErr["title"] != "Collection not found" {
		t.Errorf("title = %q", taxiiErr["title"])
	}
	if taxiiErr["http_status"] != "404" {
		t.Errorf("http_status = %q, want 404", taxiiErr["http_status"])
	}
}

// TestTAXIIObjects checks a full bundle is served from the snapshot.
func TestTAXIIObjects(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	full := buildSnapshot(1, 10)
	env.publish(t, full, highSubset(full, env.cfg.Correlation.HighConfidence))
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/taxii2/iocs/collections/"+models.CollectionAll+"/objects/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	var page taxiiBundlePage
	decodeTAXII(t, rec, &page)

	if page.More {
		t.Error("Expected more=false for an unbounded request")
	}
	if page.Data.Type != "bundle" {
		t.Errorf("Data type = %q, want bundle", page.Data.Type)
	}
	if !strings.HasPrefix(page.Data.ID, "bundle--") {
		t.Errorf("Bundle id %q missing bundle-- prefix", page.Data.ID)
	}
	if len(page.Data.Objects) != 10 {
		t.Fatalf("Expected 10 objects, got %d", len(page.Data.Objects))
	}
	for _, obj := range page.Data.Objects {
		if obj.Type != "indicator" || obj.SpecVersion != "2.1" {
			t.Errorf("Object %s has type=%q spec=%q", obj.ID, obj.Type, obj.SpecVersion)
		}
		if !strings.HasPrefix(obj.ID, "indicator--") {
			t.Errorf("Object id %q missing indicator-- prefix", obj.ID)
		}
		if obj.PatternType != "stix" {
			t.Errorf("Object %s pattern_type = %q", obj.ID, obj.PatternType)
		}
		if !strings.Contains(obj.Pattern, "ipv4-addr:value") {
			t.Errorf("Object %s pattern %q is not an address comparison", obj.ID, obj.Pattern)
		}
	}
}

// TestTAXIIObjectsPagination walks a 25-indicator snapshot in pages of
// 10 through the HTTP surface.
func TestTAXIIObjectsPagination(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	full := buildSnapshot(2, 25)
	env.publish(t, full, highSubset(full, env.cfg.Correlation.HighConfidence))
	mux := env.router(t)

	base := "/taxii2/iocs/collections/" + models.CollectionAll + "/objects/?limit=10"
	seen := map[string]bool{}
	next := ""

	for pageNum := 1; ; pageNum++ {
		target := base
		if next != "" {
			target += "&next=" + next
		}
		rec := doRequest(t, mux, http.MethodGet, target, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("Page %d status = %d\nbody: %s", pageNum, rec.Code, rec.Body.String())
		}

		var page taxiiBundlePage
		decodeTAXII(t, rec, &page)

		for _, obj := range page.Data.Objects {
			if seen[obj.ID] {
				t.Fatalf("Object %s served twice", obj.ID)
			}
			seen[obj.ID] = true
		}

		if !page.More {
			if pageNum != 3 {
				t.Errorf("Expected 3 pages, finished after %d", pageNum)
			}
			if len(page.Data.Objects) != 5 {
				t.Errorf("Final page has %d objects, want 5", len(page.Data.Objects))
			}
			break
		}
		if len(page.Data.Objects) != 10 {
			t.Errorf("Page %d has %d objects, want 10", pageNum, len(page.Data.Objects))
		}
		next = page.Next
	}

	if len(seen) != 25 {
		t.Errorf("Expected 25 distinct objects, got %d", len(seen))
	}
}

// TestTAXIIObjectsHighConfidence checks the filtered collection serves
// only indicators at or above the threshold.
func TestTAXIIObjectsHighConfidence(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	full := buildSnapshot(1, 10)
	env.publish(t, full, highSubset(full, env.cfg.Correlation.HighConfidence))
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/taxii2/iocs/collections/"+models.CollectionHighConfidence+"/objects/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d\nbody: %s", rec.Code, rec.Body.String())
	}

	var page taxiiBundlePage
	decodeTAXII(t, rec, &page)

	// Even indexes of the fixture are high confidence: 5 of 10.
	if len(page.Data.Objects) != 5 {
		t.Fatalf("Expected 5 high-confidence objects, got %d", len(page.Data.Objects))
	}
	for _, obj := range page.Data.Objects {
		if obj.Confidence < env.cfg.Correlation.HighConfidence {
			t.Errorf("Object %s confidence %d below threshold", obj.ID, obj.Confidence)
		}
	}
}

// TestTAXIIObjectsNoSnapshot checks the 503 with Retry-After before the
// first rebuild completes.
func TestTAXIIObjectsNoSnapshot(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/taxii2/iocs/collections/"+models.CollectionAll+"/objects/", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Status = %d, want 503", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header on 503")
	}

	var taxiiErr map[string]string
	decodeTAXII(t, rec, &taxiiErr)
	if taxiiErr["title"] != "No snapshot available" {
		t.Errorf("title = %q", taxiiErr["title"])
	}
}

// TestTAXIIObjectsBadQuery covers cursor and parameter rejection.
func TestTAXIIObjectsBadQuery(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	full := buildSnapshot(1, 5)
	env.publish(t, full, highSubset(full, env.cfg.Correlation.HighConfidence))
	mux := env.router(t)

	base := "/taxii2/iocs/collections/" + models.CollectionAll + "/objects/"
	tests := []struct {
		name  string
		query string
	}{
		{name: "malformed cursor", query: "?next=@@@"},
		{name: "negative limit", query: "?limit=-3"},
		{name: "bad added_after", query: "?added_after=yesterday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, mux, http.MethodGet, base+tt.query, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Status = %d, want 400\nbody: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

// TestTAXIIObjectsAddedAfter checks the freshness filter through the
// HTTP surface.
func TestTAXIIObjectsAddedAfter(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	full := buildSnapshot(1, 20)
	env.publish(t, full, highSubset(full, env.cfg.Correlation.HighConfidence))
	mux := env.router(t)

	// Keep only the 5 newest (indexes 0..4 are under 5 minutes old).
	threshold := full.Indicators[5].ProcessedAt.Format("2006-01-02T15:04:05Z07:00")
	target := "/taxii2/iocs/collections/" + models.CollectionAll + "/objects/?added_after=" + threshold

	rec := doRequest(t, mux, http.MethodGet, target, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d\nbody: %s", rec.Code, rec.Body.String())
	}

	var page taxiiBundlePage
	decodeTAXII(t, rec, &page)
	if len(page.Data.Objects) != 5 {
		t.Errorf("Expected 5 objects after threshold, got %d", len(page.Data.Objects))
	}
}

// TestTAXIIManifest checks manifest entries mirror the objects endpoint.
func TestTAXIIManifest(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	full := buildSnapshot(1, 6)
	env.publish(t, full, highSubset(full, env.cfg.Correlation.HighConfidence))
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/taxii2/iocs/collections/"+models.CollectionAll+"/manifest/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d\nbody: %s", rec.Code, rec.Body.String())
	}

	var page struct {
		More bool `json:"more"`
		Data struct {
			Objects []TAXIIManifestEntry `json:"objects"`
		} `json:"data"`
	}
	decodeTAXII(t, rec, &page)

	if len(page.Data.Objects) != 6 {
		t.Fatalf("Expected 6 manifest entries, got %d", len(page.Data.Objects))
	}
	for i, entry := range page.Data.Objects {
		if !strings.HasPrefix(entry.ID, "indicator--") {
			t.Errorf("Entry %d id %q missing indicator-- prefix", i, entry.ID)
		}
		if entry.Version != "1" {
			t.Errorf("Entry %d version = %q, want 1", i, entry.Version)
		}
		if entry.MediaType != models.STIXMediaType {
			t.Errorf("Entry %d media type = %q", i, entry.MediaType)
		}
		if !entry.DateAdded.Equal(full.Indicators[i].ProcessedAt) {
			t.Errorf("Entry %d date_added = %v, want %v", i, entry.DateAdded, full.Indicators[i].ProcessedAt)
		}
	}
}

// TestTAXIIManifestMatchesObjects checks the two endpoints agree on ids
// for the same page.
func TestTAXIIManifestMatchesObjects(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	full := buildSnapshot(1, 8)
	env.publish(t, full, highSubset(full, env.cfg.Correlation.HighConfidence))
	mux := env.router(t)

	base := "/taxii2/iocs/collections/" + models.CollectionAll

	var objects taxiiBundlePage
	decodeTAXII(t, doRequest(t, mux, http.MethodGet, base+"/objects/", ""), &objects)

	var manifest struct {
		Data struct {
			Objects []TAXIIManifestEntry `json:"objects"`
		} `json:"data"`
	}
	decodeTAXII(t, doRequest(t, mux, http.MethodGet, base+"/manifest/", ""), &manifest)

	if len(objects.Data.Objects) != len(manifest.Data.Objects) {
		t.Fatalf("Objects %d vs manifest %d", len(objects.Data.Objects), len(manifest.Data.Objects))
	}
	for i := range objects.Data.Objects {
		if objects.Data.Objects[i].ID != manifest.Data.Objects[i].ID {
			t.Errorf("Position %d: object id %q != manifest id %q",
				i, objects.Data.Objects[i].ID, manifest.Data.Objects[i].ID)
		}
	}
}

// TestTAXIIStatus checks the static status document.
func TestTAXIIStatus(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/taxii2/iocs/status/abc-123/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}

	var status TAXIIStatusResponse
	decodeTAXII(t, rec, &status)

	if status.ID != "abc-123" {
		t.Errorf("ID = %q, want abc-123", status.ID)
	}
	if status.Status != "complete" {
		t.Errorf("Status = %q, want complete", status.Status)
	}
	if status.TotalCount != 0 || status.SuccessCount != 0 || status.FailureCount != 0 {
		t.Errorf("Counts must be zero: %+v", status)
	}
}

// TestTAXIITrailingSlashOptional checks routes answer with and without
// the TAXII-style trailing slash.
func TestTAXIITrailingSlashOptional(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	mux := env.router(t)

	for _, target := range []string{
		"/taxii2/iocs/collections",
		"/taxii2/iocs/collections/",
	} {
		rec := doRequest(t, mux, http.MethodGet, target, "")
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", target, rec.Code)
		}
	}
}

// TestStableIndicatorIDsAcrossGenerations checks the same IP keeps its
// STIX id after a rebuild, which deduplication on consumers depends on.
func TestStableIndicatorIDsAcrossGenerations(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	mux := env.router(t)

	idsFor := func(gen int64) map[string]bool {
		full := buildSnapshot(gen, 4)
		env.publish(t, full, highSubset(full, env.cfg.Correlation.HighConfidence))

		rec := doRequest(t, mux, http.MethodGet, "/taxii2/iocs/collections/"+models.CollectionAll+"/objects/", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("Status = %d", rec.Code)
		}
		var page taxiiBundlePage
		decodeTAXII(t, rec, &page)

		out := map[string]bool{}
		for _, obj := range page.Data.Objects {
			out[obj.ID] = true
		}
		return out
	}

	first := idsFor(1)
	second := idsFor(2)

	if len(first) != len(second) {
		t.Fatalf("ID count changed across generations: %d vs %d", len(first), len(second))
	}
	for id := range first {
		if !second[id] {
			t.Errorf("ID %s not stable across generations", id)
		}
	}
}

// TestTAXIIObjectsUnknownCollection checks objects under an unknown
// collection 404 with a TAXII error.
func TestTAXIIObjectsUnknownCollection(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/taxii2/iocs/collections/ghost/objects/", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Status = %d, want 404", rec.Code)
	}

	var taxiiErr map[string]string
	decodeTAXII(t, rec, &taxiiErr)
	if taxiiErr["title"] == "" {
		t.Error("Expected a TAXII error title")
	}
}

// TestTAXIIObjectsCursorSurvivesRepublishOfSameGeneration checks a
// cursor keeps working while the generation is unchanged.
func TestTAXIIObjectsCursorSurvivesRepublishOfSameGeneration(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	full := buildSnapshot(9, 15)
	env.publish(t, full, highSubset(full, env.cfg.Correlation.HighConfidence))
	mux := env.router(t)

	base := "/taxii2/iocs/collections/" + models.CollectionAll + "/objects/"

	rec := doRequest(t, mux, http.MethodGet, base+"?limit=10", "")
	var first taxiiBundlePage
	decodeTAXII(t, rec, &first)
	if !first.More || first.Next == "" {
		t.Fatalf("Expected a continuation, got more=%v", first.More)
	}

	// Same snapshot written again, as a TTL refresh would.
	env.publish(t, full, highSubset(full, env.cfg.Correlation.HighConfidence))

	rec = doRequest(t, mux, http.MethodGet, fmt.Sprintf("%s?limit=10&next=%s", base, first.Next), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d", rec.Code)
	}
	var second taxiiBundlePage
	decodeTAXII(t, rec, &second)
	if len(second.Data.Objects) != 5 {
		t.Errorf("Expected the 5 remaining objects, got %d", len(second.Data.Objects))
	}
}
