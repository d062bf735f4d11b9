// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/indicium/internal/cache"
	"github.com/tomtom215/indicium/internal/errs"
	"github.com/tomtom215/indicium/internal/metrics"
	"github.com/tomtom215/indicium/internal/models"
	"github.com/tomtom215/indicium/internal/stix"
)

// maxContentLength is the advertised API root request body cap (10 MB).
// The server is read-only, so the value is informational.
const maxContentLength = 10485760

// TAXIIEnvelope wraps objects and manifest responses. Next is present
// only when More is true.
type TAXIIEnvelope struct {
	More bool        `json:"more"`
	Next string      `json:"next,omitempty"`
	Data interface{} `json:"data"`
}

// TAXIIDiscoveryResponse is the /taxii2 discovery document.
type TAXIIDiscoveryResponse struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Contact     string   `json:"contact,omitempty"`
	Default     string   `json:"default"`
	APIRoots    []string `json:"api_roots"`
}

// TAXIIAPIRootResponse is the /taxii2/iocs/ API root document.
type TAXIIAPIRootResponse struct {
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	Versions         []string `json:"versions"`
	MaxContentLength int      `json:"max_content_length"`
}

// TAXIICollectionList is the collections listing body.
type TAXIICollectionList struct {
	Collections []models.Collection `json:"collections"`
}

// TAXIIManifestEntry describes one object in a manifest response.
type TAXIIManifestEntry struct {
	ID        string    `json:"id"`
	DateAdded time.Time `json:"date_added"`
	Version   string    `json:"version"`
	MediaType string    `json:"media_type"`
}

// TAXIIManifest is the data payload of a manifest envelope.
type TAXIIManifest struct {
	Objects []TAXIIManifestEntry `json:"objects"`
}

// TAXIIStatusResponse is the static status document. The server accepts
// no writes, so every status reads complete with zero counts.
type TAXIIStatusResponse struct {
	ID               string    `json:"id"`
	Status           string    `json:"status"`
	RequestTimestamp time.Time `json:"request_timestamp"`
	TotalCount       int       `json:"total_count"`
	SuccessCount     int       `json:"success_count"`
	FailureCount     int       `json:"failure_count"`
}

// taxiiQuery carries the validated query parameters shared by the
// objects and manifest endpoints.
type taxiiQuery struct {
	Limit      int    `validate:"min=0"`
	AddedAfter string `validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Next       string `validate:"omitempty,base64url"`
}

// baseURL derives the advertised URL base: the configured external URL
// when set, otherwise the request's scheme and host.
func (h *Handler) baseURL(r *http.Request) string {
	if h.cfg.TAXII.ExternalURL != "" {
		return strings.TrimRight(h.cfg.TAXII.ExternalURL, "/")
	}

	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// snapshotKey maps a collection to its cache key. The high-confidence
// collection reads its pre-filtered snapshot; everything else reads the
// full one.
func snapshotKey(collectionID string) string {
	if collectionID == models.CollectionHighConfidence {
		return cache.KeyHighConfidence
	}
	return cache.KeySnapshot
}

// filterByPredicate applies a collection's membership predicate.
func filterByPredicate(col *models.Collection, indicators []models.Indicator) []models.Indicator {
	if col.Predicate == nil {
		return indicators
	}
	out := make([]models.Indicator, 0, len(indicators))
	for i := range indicators {
		if col.Predicate(&indicators[i]) {
			out = append(out, indicators[i])
		}
	}
	return out
}

// TAXIIDiscovery handles the TAXII 2.1 discovery endpoint
//
// @Summary TAXII 2.1 discovery
// @Description Returns the server discovery document with the available API roots
// @Tags TAXII
// @Produce json
// @Success 200 {object} TAXIIDiscoveryResponse "Discovery document"
// @Router /taxii2 [get]
func (h *Handler) TAXIIDiscovery(w http.ResponseWriter, r *http.Request) {
	metrics.RecordTAXIIRequest("discovery")

	root := h.baseURL(r) + "/taxii2/iocs/"
	respondTAXII(w, http.StatusOK, TAXIIDiscoveryResponse{
		Title:       h.cfg.TAXII.Title,
		Description: h.cfg.TAXII.Description,
		Contact:     h.cfg.TAXII.Contact,
		Default:     root,
		APIRoots:    []string{root},
	})
}

// TAXIIAPIRoot handles the API root information endpoint
//
// @Summary TAXII 2.1 API root
// @Description Returns the iocs API root document with supported versions
// @Tags TAXII
// @Produce json
// @Success 200 {object} TAXIIAPIRootResponse "API root document"
// @Router /taxii2/iocs/ [get]
func (h *Handler) TAXIIAPIRoot(w http.ResponseWriter, r *http.Request) {
	metrics.RecordTAXIIRequest("api_root")

	respondTAXII(w, http.StatusOK, TAXIIAPIRootResponse{
		Title:            h.cfg.TAXII.Title,
		Description:      h.cfg.TAXII.Description,
		Versions:         []string{models.TAXIIMediaType},
		MaxContentLength: maxContentLength,
	})
}

// TAXIICollections lists the served collections
//
// @Summary List TAXII collections
// @Description Returns the descriptors of all served collections
// @Tags TAXII
// @Produce json
// @Success 200 {object} TAXIICollectionList "Collection descriptors"
// @Router /taxii2/iocs/collections/ [get]
func (h *Handler) TAXIICollections(w http.ResponseWriter, r *http.Request) {
	metrics.RecordTAXIIRequest("collections")

	respondTAXII(w, http.StatusOK, TAXIICollectionList{Collections: h.collections})
}

// TAXIICollection returns a single collection descriptor
//
// @Summary Get TAXII collection
// @Description Returns the descriptor of one collection by id
// @Tags TAXII
// @Produce json
// @Param id path string true "Collection id"
// @Success 200 {object} models.Collection "Collection descriptor"
// @Failure 404 {object} map[string]string "Unknown collection"
// @Router /taxii2/iocs/collections/{id}/ [get]
func (h *Handler) TAXIICollection(w http.ResponseWriter, r *http.Request) {
	metrics.RecordTAXIIRequest("collection")

	col, ok := h.collection(chi.URLParam(r, "collectionID"))
	if !ok {
		taxiiError(w, http.StatusNotFound, "Collection not found", nil)
		return
	}
	respondTAXII(w, http.StatusOK, col)
}

// TAXIIObjects serves a paginated STIX bundle from a collection
//
// @Summary Get collection objects
// @Description Returns the collection's indicators as a STIX 2.1 bundle inside a TAXII envelope. Supports limit, added_after, and next cursor pagination.
// @Tags TAXII
// @Produce json
// @Param id path string true "Collection id"
// @Param limit query int false "Maximum objects per page (0 = unbounded)"
// @Param added_after query string false "RFC3339 timestamp; only objects processed after it"
// @Param next query string false "Opaque cursor from a prior page"
// @Success 200 {object} TAXIIEnvelope "Envelope with STIX bundle"
// @Failure 404 {object} map[string]string "Unknown collection"
// @Failure 503 {object} map[string]string "No snapshot available"
// @Router /taxii2/iocs/collections/{id}/objects/ [get]
func (h *Handler) TAXIIObjects(w http.ResponseWriter, r *http.Request) {
	metrics.RecordTAXIIRequest("objects")

	res, ok := h.collectionPage(w, r)
	if !ok {
		return
	}

	metrics.RecordTAXIIObjects(len(res.items))
	respondTAXII(w, http.StatusOK, TAXIIEnvelope{
		More: res.more,
		Next: res.next,
		Data: stix.NewBundle(res.items),
	})
}

// TAXIIManifest serves object metadata for a collection
//
// @Summary Get collection manifest
// @Description Returns id, date_added, version, and media type for each object in the collection, with the same pagination as the objects endpoint
// @Tags TAXII
// @Produce json
// @Param id path string true "Collection id"
// @Param limit query int false "Maximum entries per page (0 = unbounded)"
// @Param added_after query string false "RFC3339 timestamp; only objects processed after it"
// @Param next query string false "Opaque cursor from a prior page"
// @Success 200 {object} TAXIIEnvelope "Envelope with manifest entries"
// @Failure 404 {object} map[string]string "Unknown collection"
// @Failure 503 {object} map[string]string "No snapshot available"
// @Router /taxii2/iocs/collections/{id}/manifest/ [get]
func (h *Handler) TAXIIManifest(w http.ResponseWriter, r *http.Request) {
	metrics.RecordTAXIIRequest("manifest")

	res, ok := h.collectionPage(w, r)
	if !ok {
		return
	}

	entries := make([]TAXIIManifestEntry, 0, len(res.items))
	for i := range res.items {
		ind := &res.items[i]
		entries = append(entries, TAXIIManifestEntry{
			ID:        stix.IndicatorID(ind.IP),
			DateAdded: ind.ProcessedAt.UTC(),
			Version:   "1",
			MediaType: models.STIXMediaType,
		})
	}

	respondTAXII(w, http.StatusOK, TAXIIEnvelope{
		More: res.more,
		Next: res.next,
		Data: TAXIIManifest{Objects: entries},
	})
}

// TAXIIStatus reports a static complete status. The server is
// read-only; the endpoint exists for client compliance.
//
// @Summary Get status
// @Description Returns a static complete status document. The server accepts no writes.
// @Tags TAXII
// @Produce json
// @Param id path string true "Status id"
// @Success 200 {object} TAXIIStatusResponse "Status document"
// @Router /taxii2/iocs/status/{id}/ [get]
func (h *Handler) TAXIIStatus(w http.ResponseWriter, r *http.Request) {
	metrics.RecordTAXIIRequest("status")

	respondTAXII(w, http.StatusOK, TAXIIStatusResponse{
		ID:               chi.URLParam(r, "statusID"),
		Status:           "complete",
		RequestTimestamp: time.Now().UTC(),
		TotalCount:       0,
		SuccessCount:     0,
		FailureCount:     0,
	})
}

// collectionPage resolves the collection, loads its snapshot, and
// applies predicate plus pagination. On failure it writes the TAXII
// error response and returns ok=false.
func (h *Handler) collectionPage(w http.ResponseWriter, r *http.Request) (pageResult, bool) {
	col, ok := h.collection(chi.URLParam(r, "collectionID"))
	if !ok {
		taxiiError(w, http.StatusNotFound, "Collection not found", nil)
		return pageResult{}, false
	}

	q := taxiiQuery{
		Limit:      getIntParam(r, "limit", 0),
		AddedAfter: r.URL.Query().Get("added_after"),
		Next:       r.URL.Query().Get("next"),
	}
	if apiErr := validateRequest(&q); apiErr != nil {
		taxiiError(w, http.StatusBadRequest, apiErr.Message, nil)
		return pageResult{}, false
	}

	snap, err := h.loadSnapshot(r.Context(), snapshotKey(col.ID))
	if err != nil {
		if errs.IsKind(err, errs.KindUnavailable) {
			taxiiError(w, http.StatusServiceUnavailable, "No snapshot available", err)
		} else {
			taxiiError(w, http.StatusInternalServerError, "Snapshot read failed", err)
		}
		return pageResult{}, false
	}

	params := pageParams{limit: q.Limit, next: q.Next}
	if q.AddedAfter != "" {
		// Validated as RFC3339 above.
		params.addedAfter, _ = time.Parse(time.RFC3339, q.AddedAfter)
	}

	res, err := paginate(filterByPredicate(col, snap.Indicators), snap.Generation, params)
	if err != nil {
		taxiiError(w, http.StatusBadRequest, "Invalid pagination cursor", err)
		return pageResult{}, false
	}
	return res, true
}
