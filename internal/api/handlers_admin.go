// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/indicium/internal/errs"
	"github.com/tomtom215/indicium/internal/logging"
	"github.com/tomtom215/indicium/internal/models"
)

type enrichRequest struct {
	IPs []string `json:"ips" validate:"required,min=1,max=10,dive,ip"`
}

// TriggerPreprocess starts a rebuild cycle on demand
//
// @Summary Trigger a rebuild cycle
// @Description Starts a snapshot rebuild in the background. A request arriving while a cycle runs coalesces into it and reports already_running.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BasicAuth
// @Success 202 {object} models.APIResponse "Cycle started or coalesced"
// @Failure 401 {object} models.APIResponse "Missing or invalid credentials"
// @Router /api/v1/admin/preprocess [post]
func (h *Handler) TriggerPreprocess(w http.ResponseWriter, r *http.Request) {
	status := "already_running"
	if h.manager.Trigger() {
		status = "started"
	}

	logging.Info().Str("status", status).Msg("Admin rebuild trigger")

	respondJSON(w, http.StatusAccepted, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"status": status},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// BulkEnrich checks up to ten IPs against the reputation service
//
// @Summary Bulk enrich IPs
// @Description Spends reputation budget to look up 1-10 IP addresses. Budget exhaustion surfaces per IP rather than failing the whole request.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param request body enrichRequest true "IPs to enrich"
// @Success 200 {object} models.APIResponse{data=models.EnrichResponse} "Per-IP enrichment results"
// @Failure 400 {object} models.APIResponse "Invalid request body"
// @Failure 401 {object} models.APIResponse "Missing or invalid credentials"
// @Router /api/v1/admin/enrich [post]
func (h *Handler) BulkEnrich(w http.ResponseWriter, r *http.Request) {
	var req enrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	ctx := r.Context()
	results := make(map[string]models.EnrichResult, len(req.IPs))
	enriched := 0

	for _, ip := range req.IPs {
		rec, err := h.reputation.Check(ctx, ip)
		switch {
		case err != nil && errs.IsKind(err, errs.KindBudgetExhausted):
			results[ip] = models.EnrichResult{Enriched: false, BudgetExhausted: true}
		case err != nil:
			logging.Warn().Err(err).Str("ip", sanitizeLogValue(ip)).Msg("Enrich lookup failed")
			results[ip] = models.EnrichResult{Enriched: false}
		case rec == nil:
			results[ip] = models.EnrichResult{Enriched: false}
		default:
			enriched++
			results[ip] = models.EnrichResult{
				Enriched: true,
				Data: &models.EnrichData{
					AbuseConfidenceScore: rec.Confidence,
					CountryCode:          rec.CountryCode,
					ISP:                  rec.ISP,
				},
			}
		}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.EnrichResponse{
			Total:    len(req.IPs),
			Enriched: enriched,
			Results:  results,
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
