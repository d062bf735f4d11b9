// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/indicium/internal/metrics"
)

func TestPrometheusMetrics(t *testing.T) {
	t.Parallel()

	t.Run("passes through successful request", func(t *testing.T) {
		t.Parallel()
		handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("OK"))
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/test", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", rec.Code)
		}
		if rec.Body.String() != "OK" {
			t.Errorf("Expected body OK, got %s", rec.Body.String())
		}
	})

	t.Run("passes through error response", func(t *testing.T) {
		t.Parallel()
		handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/test", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("Expected status 500, got %d", rec.Code)
		}
	})

	t.Run("defaults to 200 when WriteHeader not called", func(t *testing.T) {
		t.Parallel()
		handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("Hello"))
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/test", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("Expected default status 200, got %d", rec.Code)
		}
	})

	t.Run("labels requests by route template", func(t *testing.T) {
		t.Parallel()

		r := chi.NewRouter()
		r.Use(PrometheusMetrics)
		r.Get("/metricstest/iocs/{ip}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/metricstest/iocs/{ip}", "200")
		before := testutil.ToFloat64(counter)

		for _, ip := range []string{"203.0.113.9", "198.51.100.7"} {
			req := httptest.NewRequest(http.MethodGet, "/metricstest/iocs/"+ip, nil)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("Expected status 200 for %s, got %d", ip, rec.Code)
			}
		}

		// Both lookups land on one template label, not one label per IP
		after := testutil.ToFloat64(counter)
		if after-before != 2 {
			t.Errorf("Expected 2 requests recorded under template label, got %v", after-before)
		}
	})
}

func TestRoutePattern_FallsBackToPath(t *testing.T) {
	t.Parallel()

	// Outside a Chi router there is no route context
	req := httptest.NewRequest(http.MethodGet, "/plain/path", nil)

	if got := routePattern(req); got != "/plain/path" {
		t.Errorf("Expected raw path fallback, got %s", got)
	}
}
