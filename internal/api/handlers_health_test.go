// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/tomtom215/indicium/internal/cache"
	"github.com/tomtom215/indicium/internal/models"
)

// failingEnv rebuilds the handler around a store whose Ping always
// fails. Reads and writes still work, so only reachability degrades.
func failingEnv(t *testing.T, env *testEnv) http.Handler {
	t.Helper()

	wrapped := &failingStore{Store: env.store}
	env.handler = NewHandler(env.cfg, wrapped, cache.NewSnapshotStore(wrapped), env.db, env.rep, env.manager)
	return env.router(t)
}

// TestHealthOK covers the happy path: fresh rebuild, reachable cache
// and database.
func TestHealthOK(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	full := buildSnapshot(1, 4)
	env.publish(t, full, highSubset(full, env.cfg.Correlation.HighConfidence))
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	resp := decodeEnvelope(t, rec)
	if resp.Status != "success" {
		t.Errorf("Envelope status = %q", resp.Status)
	}

	var health models.HealthStatus
	decodeData(t, resp, &health)

	if health.Status != "ok" {
		t.Errorf("Health status = %q, want ok", health.Status)
	}
	if !health.Cache {
		t.Error("Expected cache reachable")
	}
	if !health.Database {
		t.Error("Expected database reachable")
	}
	if health.SnapshotAgeSeconds == nil {
		t.Fatal("Expected snapshot age after a rebuild")
	}
	if *health.SnapshotAgeSeconds < 0 || *health.SnapshotAgeSeconds > 60 {
		t.Errorf("Snapshot age %.1fs outside the plausible window", *health.SnapshotAgeSeconds)
	}
	if health.Budget.Limit != 1000 || health.Budget.Used != 12 {
		t.Errorf("Budget = %+v", health.Budget)
	}
}

// TestHealthDegradedBeforeFirstRebuild checks the pre-snapshot state.
func TestHealthDegradedBeforeFirstRebuild(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200 for degraded", rec.Code)
	}

	var health models.HealthStatus
	decodeData(t, decodeEnvelope(t, rec), &health)

	if health.Status != "degraded" {
		t.Errorf("Health status = %q, want degraded", health.Status)
	}
	if health.SnapshotAgeSeconds != nil {
		t.Error("Expected no snapshot age before the first rebuild")
	}
}

// TestHealthDegradedStaleRebuild checks freshness is measured against
// three preprocess intervals.
func TestHealthDegradedStaleRebuild(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	stale := &models.RebuildInfo{
		StartedAt:  time.Now().UTC().Add(-4*time.Hour - time.Minute),
		FinishedAt: time.Now().UTC().Add(-4 * time.Hour),
		Produced:   3,
	}
	if err := env.snaps.RecordRebuild(context.Background(), stale); err != nil {
		t.Fatalf("RecordRebuild failed: %v", err)
	}
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/health", "")

	var health models.HealthStatus
	decodeData(t, decodeEnvelope(t, rec), &health)

	if health.Status != "degraded" {
		t.Errorf("Health status = %q, want degraded for a 4h-old rebuild with 1h interval", health.Status)
	}
	if health.SnapshotAgeSeconds == nil {
		t.Fatal("Expected snapshot age to be reported")
	}
	if *health.SnapshotAgeSeconds < (4 * time.Hour).Seconds() {
		t.Errorf("Snapshot age %.0fs should be at least 4h", *health.SnapshotAgeSeconds)
	}
}

// TestHealthFailCacheUnreachable checks the 503 path.
func TestHealthFailCacheUnreachable(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	mux := failingEnv(t, env)

	rec := doRequest(t, mux, http.MethodGet, "/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Status = %d, want 503", rec.Code)
	}

	resp := decodeEnvelope(t, rec)
	if resp.Status != "error" {
		t.Errorf("Envelope status = %q, want error", resp.Status)
	}
	if resp.Error == nil || resp.Error.Code != "SERVICE_UNAVAILABLE" {
		t.Errorf("Error = %+v", resp.Error)
	}

	var health models.HealthStatus
	decodeData(t, resp, &health)
	if health.Status != "fail" {
		t.Errorf("Health status = %q, want fail", health.Status)
	}
	if health.Cache {
		t.Error("Expected cache reported unreachable")
	}
}

// TestHealthWithoutDatabase checks a nil database degrades the field,
// not the status.
func TestHealthWithoutDatabase(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	full := buildSnapshot(1, 2)
	env.publish(t, full, highSubset(full, env.cfg.Correlation.HighConfidence))
	env.handler = NewHandler(env.cfg, env.store, env.snaps, nil, env.rep, env.manager)
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}

	var health models.HealthStatus
	decodeData(t, decodeEnvelope(t, rec), &health)
	if health.Database {
		t.Error("Expected database false with no database wired")
	}
	if health.Status != "ok" {
		t.Errorf("Health status = %q; a missing database must not fail health", health.Status)
	}
}

// TestHealthBudgetReadFailure checks a budget read error is tolerated.
func TestHealthBudgetReadFailure(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.rep.budgetErr = errors.New("redis: connection pool timeout")
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d; budget failures must not fail health", rec.Code)
	}
}

// TestHealthLive checks liveness ignores dependencies entirely.
func TestHealthLive(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	mux := failingEnv(t, env)

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/health/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200 even with the cache down", rec.Code)
	}

	var data map[string]interface{}
	decodeData(t, decodeEnvelope(t, rec), &data)
	if data["alive"] != true {
		t.Errorf("alive = %v", data["alive"])
	}
}

// TestHealthReady covers the readiness transitions around the first
// snapshot.
func TestHealthReady(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	mux := env.router(t)

	// Before the first rebuild: cache answers but nothing to serve.
	rec := doRequest(t, mux, http.MethodGet, "/api/v1/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Status = %d, want 503 before the first snapshot", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Status != "not_ready" {
		t.Errorf("Envelope status = %q, want not_ready", resp.Status)
	}

	var data map[string]interface{}
	decodeData(t, resp, &data)
	if data["cache_connected"] != true {
		t.Error("Expected cache_connected true")
	}
	if data["snapshot_present"] != false {
		t.Error("Expected snapshot_present false")
	}

	// After a publish the service becomes ready.
	full := buildSnapshot(1, 3)
	env.publish(t, full, highSubset(full, env.cfg.Correlation.HighConfidence))

	rec = doRequest(t, mux, http.MethodGet, "/api/v1/health/ready", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200 after publish", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp.Status != "ready" {
		t.Errorf("Envelope status = %q, want ready", resp.Status)
	}
}

// TestHealthReadyCacheDown checks readiness fails closed when the cache
// is unreachable.
func TestHealthReadyCacheDown(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	mux := failingEnv(t, env)

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Status = %d, want 503", rec.Code)
	}

	var data map[string]interface{}
	decodeData(t, decodeEnvelope(t, rec), &data)
	if data["cache_connected"] != false {
		t.Error("Expected cache_connected false")
	}
}

// TestStatsBeforeFirstRebuild checks stats never 503s: counts are zero
// until a snapshot exists.
func TestStatsBeforeFirstRebuild(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}

	var stats models.StatsResponse
	decodeData(t, decodeEnvelope(t, rec), &stats)

	if stats.Counts.Total != 0 || stats.Counts.HighConfidence != 0 {
		t.Errorf("Expected zero counts, got %+v", stats.Counts)
	}
	if stats.LastRebuild != nil {
		t.Error("Expected no last rebuild record")
	}
	if stats.Cache.Backend != "memory" {
		t.Errorf("Cache backend = %q, want memory", stats.Cache.Backend)
	}
}

// TestStatsPopulated checks counts, ratios, and the rebuild summary
// after a publish.
func TestStatsPopulated(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	full := buildSnapshot(1, 10)
	env.publish(t, full, highSubset(full, env.cfg.Correlation.HighConfidence))
	mux := env.router(t)

	rec := doRequest(t, mux, http.MethodGet, "/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", rec.Code)
	}

	var stats models.StatsResponse
	decodeData(t, decodeEnvelope(t, rec), &stats)

	if stats.Counts.Total != 10 {
		t.Errorf("Total = %d, want 10", stats.Counts.Total)
	}
	// Even fixture indexes are high confidence; every third has geo.
	if stats.Counts.HighConfidence != 5 {
		t.Errorf("HighConfidence = %d, want 5", stats.Counts.HighConfidence)
	}
	if stats.Counts.WithGeo != 4 {
		t.Errorf("WithGeo = %d, want 4", stats.Counts.WithGeo)
	}
	if stats.Counts.GeoSuccessRatio < 0.39 || stats.Counts.GeoSuccessRatio > 0.41 {
		t.Errorf("GeoSuccessRatio = %.2f, want 0.40", stats.Counts.GeoSuccessRatio)
	}
	if stats.Budget.Used != 12 || stats.Budget.Limit != 1000 {
		t.Errorf("Budget = %+v", stats.Budget)
	}
	if stats.LastRebuild == nil {
		t.Fatal("Expected a last rebuild record")
	}
	if stats.LastRebuild.Produced != 10 {
		t.Errorf("LastRebuild.Produced = %d, want 10", stats.LastRebuild.Produced)
	}
	if stats.UptimeSeconds < 0 {
		t.Errorf("UptimeSeconds = %.1f", stats.UptimeSeconds)
	}
	if stats.Cache.Hits == 0 {
		t.Error("Expected cache hits after snapshot reads")
	}
}
