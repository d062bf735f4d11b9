// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/indicium/internal/cache"
	"github.com/tomtom215/indicium/internal/logging"
	"github.com/tomtom215/indicium/internal/models"
)

// Health handles health check requests
//
// @Summary Get system health status
// @Description Returns cache and database reachability, snapshot freshness, and reputation budget usage. Status is ok when the last rebuild finished within three intervals, degraded when it is older or absent, fail (503) when the cache is unreachable.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Health status retrieved successfully"
// @Failure 503 {object} models.APIResponse{data=models.HealthStatus} "Cache unreachable"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheOK := h.store.Ping(ctx) == nil
	dbOK := h.db != nil && h.db.Ping(ctx) == nil

	budget, err := h.reputation.Budget(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Budget read failed during health check")
	}

	var snapshotAge *float64
	status := "degraded"
	if info, found, _ := h.snapshots.LastRebuild(ctx); found {
		age := time.Since(info.FinishedAt).Seconds()
		snapshotAge = &age
		if age <= (3 * h.cfg.Preprocess.Interval).Seconds() {
			status = "ok"
		}
	}

	httpStatus := http.StatusOK
	if !cacheOK {
		status = "fail"
		httpStatus = http.StatusServiceUnavailable
	}

	health := models.HealthStatus{
		Status:             status,
		Cache:              cacheOK,
		Database:           dbOK,
		SnapshotAgeSeconds: snapshotAge,
		Budget:             budget,
		Timestamp:          time.Now().UTC(),
	}

	response := &models.APIResponse{
		Status:   "success",
		Data:     health,
		Metadata: models.Metadata{Timestamp: time.Now()},
	}
	if httpStatus != http.StatusOK {
		response.Status = "error"
		response.Error = &models.APIError{
			Code:    "SERVICE_UNAVAILABLE",
			Message: "cache unreachable",
		}
	}

	respondJSON(w, httpStatus, response)
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Kubernetes liveness probe
// @Description Returns 200 OK if the process is alive, regardless of external dependencies.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Service is alive"
// @Router /api/v1/health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Ready means the cache answers and a snapshot exists to serve.
//
// @Summary Kubernetes readiness probe
// @Description Returns 200 OK only when the cache is reachable and a snapshot is present. Returns 503 otherwise.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Service is ready"
// @Failure 503 {object} models.APIResponse "Service is not ready"
// @Router /api/v1/health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheOK := h.store.Ping(ctx) == nil
	snapshotPresent := false
	if cacheOK {
		_, found, err := h.snapshots.Load(ctx, cache.KeySnapshot)
		snapshotPresent = found && err == nil
	}
	ready := cacheOK && snapshotPresent

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"cache_connected":  cacheOK,
			"snapshot_present": snapshotPresent,
			"ready_to_serve":   ready,
			"uptime":           time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// Stats reports snapshot counts, budget usage, and cache counters
//
// @Summary Get system statistics
// @Description Returns indicator counts from the live snapshot, reputation budget usage, cache hit counters, and the last rebuild summary. Counts are zero before the first rebuild.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.StatsResponse} "Statistics retrieved successfully"
// @Router /stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var counts models.SnapshotCounts
	if full, found, err := h.snapshots.Load(ctx, cache.KeySnapshot); err == nil && found {
		counts.Total = len(full.Indicators)
		for i := range full.Indicators {
			if full.Indicators[i].Geo != nil {
				counts.WithGeo++
			}
		}
		if counts.Total > 0 {
			counts.GeoSuccessRatio = float64(counts.WithGeo) / float64(counts.Total)
		}
	}
	if high, found, err := h.snapshots.Load(ctx, cache.KeyHighConfidence); err == nil && found {
		counts.HighConfidence = len(high.Indicators)
	}

	budget, err := h.reputation.Budget(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Budget read failed during stats")
	}

	cacheStats := h.store.Stats()
	var lastRebuild *models.RebuildInfo
	if info, found, _ := h.snapshots.LastRebuild(ctx); found {
		lastRebuild = info
	}

	stats := models.StatsResponse{
		Counts: counts,
		Budget: budget,
		Cache: models.CacheStats{
			Backend:  cacheStats.Backend,
			Hits:     cacheStats.Hits,
			Misses:   cacheStats.Misses,
			Sets:     cacheStats.Sets,
			Keys:     cacheStats.Keys,
			HitRatio: cacheStats.HitRate(),
		},
		LastRebuild:   lastRebuild,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     stats,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
