// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package api

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/indicium/internal/cache"
	"github.com/tomtom215/indicium/internal/errs"
	"github.com/tomtom215/indicium/internal/export"
	"github.com/tomtom215/indicium/internal/logging"
	"github.com/tomtom215/indicium/internal/models"
)

// freshWindow bounds the fresh_only filter: indicators last reported
// within this window count as fresh.
const freshWindow = 7 * 24 * time.Hour

type listIOCsRequest struct {
	Limit         int `validate:"min=1,max=1000"`
	Skip          int `validate:"min=0"`
	MinConfidence int `validate:"min=0,max=100"`
}

type getIOCRequest struct {
	IP string `validate:"required,ip"`
}

type exportIOCsRequest struct {
	Format        string `validate:"required,oneof=json stix csv txt elastic"`
	Limit         int    `validate:"min=1,max=10000"`
	MinConfidence int    `validate:"min=0,max=100"`
}

// ListIOCs returns a page of indicators from the live snapshot
//
// @Summary List IOCs
// @Description Returns indicators from the live snapshot, newest first. Supports confidence and freshness filters with skip/limit pagination.
// @Tags IOCs
// @Accept json
// @Produce json
// @Param limit query int false "Page size (1-1000, default 100)"
// @Param skip query int false "Records to skip"
// @Param min_confidence query int false "Minimum final confidence (0-100)"
// @Param fresh_only query bool false "Only indicators reported in the last 7 days"
// @Success 200 {object} models.APIResponse{data=models.IOCPage} "IOC page retrieved successfully"
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Failure 503 {object} models.APIResponse "No snapshot available"
// @Router /api/v1/iocs [get]
func (h *Handler) ListIOCs(w http.ResponseWriter, r *http.Request) {
	req := listIOCsRequest{
		Limit:         getIntParam(r, "limit", 100),
		Skip:          getIntParam(r, "skip", 0),
		MinConfidence: getIntParam(r, "min_confidence", 0),
	}
	freshOnly := getBoolParam(r, "fresh_only", false)

	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	snap, err := h.loadSnapshot(r.Context(), cache.KeySnapshot)
	if err != nil {
		respondKindError(w, err, "no snapshot available")
		return
	}

	filtered := filterIndicators(snap.Indicators, req.MinConfidence, freshOnly)
	sortNewestFirst(filtered)

	total := len(filtered)
	start := req.Skip
	if start > total {
		start = total
	}
	end := start + req.Limit
	if end > total {
		end = total
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.IOCPage{
			Total:    total,
			Page:     req.Skip/req.Limit + 1,
			PageSize: req.Limit,
			Items:    filtered[start:end],
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// GetIOC returns a single indicator by IP
//
// @Summary Get one IOC
// @Description Returns the indicator for one IP address from the live snapshot
// @Tags IOCs
// @Accept json
// @Produce json
// @Param ip path string true "IP address"
// @Success 200 {object} models.APIResponse{data=models.Indicator} "Indicator retrieved successfully"
// @Failure 400 {object} models.APIResponse "Invalid IP address"
// @Failure 404 {object} models.APIResponse "Indicator not found"
// @Failure 503 {object} models.APIResponse "No snapshot available"
// @Router /api/v1/iocs/{ip} [get]
func (h *Handler) GetIOC(w http.ResponseWriter, r *http.Request) {
	req := getIOCRequest{IP: chi.URLParam(r, "ip")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	snap, err := h.loadSnapshot(r.Context(), cache.KeySnapshot)
	if err != nil {
		respondKindError(w, err, "no snapshot available")
		return
	}

	for i := range snap.Indicators {
		if snap.Indicators[i].IP == req.IP {
			respondJSON(w, http.StatusOK, &models.APIResponse{
				Status:   "success",
				Data:     snap.Indicators[i],
				Metadata: models.Metadata{Timestamp: time.Now()},
			})
			return
		}
	}

	respondKindError(w, errs.NotFound("indicator %s not in snapshot", req.IP), "indicator not found")
}

// ExportIOCs streams the snapshot in a download format
//
// @Summary Export IOCs
// @Description Exports filtered indicators as json, stix, csv, txt, or elastic bulk format with an attachment disposition
// @Tags IOCs
// @Produce json
// @Param format path string true "Export format" Enums(json, stix, csv, txt, elastic)
// @Param limit query int false "Maximum indicators to export (1-10000, default 1000)"
// @Param min_confidence query int false "Minimum final confidence (0-100)"
// @Success 200 {string} string "Exported payload"
// @Failure 400 {object} models.APIResponse "Invalid format or parameters"
// @Failure 503 {object} models.APIResponse "No snapshot available"
// @Router /api/v1/iocs/export/{format} [get]
func (h *Handler) ExportIOCs(w http.ResponseWriter, r *http.Request) {
	req := exportIOCsRequest{
		Format:        chi.URLParam(r, "format"),
		Limit:         getIntParam(r, "limit", 1000),
		MinConfidence: getIntParam(r, "min_confidence", 0),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	snap, err := h.loadSnapshot(r.Context(), cache.KeySnapshot)
	if err != nil {
		respondKindError(w, err, "no snapshot available")
		return
	}

	filtered := filterIndicators(snap.Indicators, req.MinConfidence, false)
	sortNewestFirst(filtered)
	if len(filtered) > req.Limit {
		filtered = filtered[:req.Limit]
	}

	filename := fmt.Sprintf("iocs_%s.%s", time.Now().UTC().Format("20060102_150405"), export.Extension(req.Format))
	w.Header().Set("Content-Type", export.ContentType(req.Format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := export.Write(w, req.Format, filtered); err != nil {
		// Headers are already on the wire; all we can do is log.
		logging.Error().Err(err).Str("format", req.Format).Msg("Export write failed")
	}
}

// filterIndicators copies the indicators passing the confidence and
// freshness filters. It always allocates so callers can sort freely.
func filterIndicators(indicators []models.Indicator, minConfidence int, freshOnly bool) []models.Indicator {
	cutoff := time.Now().Add(-freshWindow)

	out := make([]models.Indicator, 0, len(indicators))
	for i := range indicators {
		ind := &indicators[i]
		if ind.FinalConfidence < minConfidence {
			continue
		}
		if freshOnly && !ind.LastReportedAt.After(cutoff) {
			continue
		}
		out = append(out, *ind)
	}
	return out
}

// sortNewestFirst orders indicators by last report, newest first, with
// IP as the tiebreak so pages are stable across requests.
func sortNewestFirst(indicators []models.Indicator) {
	sort.SliceStable(indicators, func(i, j int) bool {
		if indicators[i].LastReportedAt.Equal(indicators[j].LastReportedAt) {
			return indicators[i].IP < indicators[j].IP
		}
		return indicators[i].LastReportedAt.After(indicators[j].LastReportedAt)
	})
}
