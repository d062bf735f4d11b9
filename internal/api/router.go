// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/indicium/internal/auth"
	"github.com/tomtom215/indicium/internal/config"
	"github.com/tomtom215/indicium/internal/errs"
	"github.com/tomtom215/indicium/internal/middleware"
)

// Router wires handlers, middleware, and optional admin authentication
// into a Chi route tree.
type Router struct {
	handler *Handler
	admin   *auth.BasicAuthManager
	cfg     *config.Config
}

// NewRouter creates a router. Admin routes are mounted only when admin
// credentials are configured; NewRouter fails if they are configured
// but unusable (for example a password below the minimum length).
func NewRouter(handler *Handler, cfg *config.Config) (*Router, error) {
	var admin *auth.BasicAuthManager
	if cfg.Admin.Enabled() {
		manager, err := auth.NewBasicAuthManager(cfg.Admin.Username, cfg.Admin.Password)
		if err != nil {
			return nil, errs.Wrap(errs.KindConfig, err, "admin credentials rejected")
		}
		admin = manager
	}

	return &Router{handler: handler, admin: admin, cfg: cfg}, nil
}

// apiLimit returns the general API rate limit, with the configured
// override applied when set. Health, export, and admin groups keep
// their own defaults so their headroom stays proportional.
func (router *Router) apiLimit() RateLimitConfig {
	limit := APIRateLimit
	if router.cfg.Security.RateLimitRequests > 0 {
		limit.Requests = router.cfg.Security.RateLimitRequests
	}
	if router.cfg.Security.RateLimitWindow > 0 {
		limit.Window = router.cfg.Security.RateLimitWindow
	}
	return limit
}

// limit builds a rate limiter for one endpoint group, or a passthrough
// when rate limiting is disabled in configuration.
func (router *Router) limit(group string, cfg RateLimitConfig) func(http.Handler) http.Handler {
	if router.cfg.Security.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return rateLimit(group, cfg)
}

// Setup configures all HTTP routes.
func (router *Router) Setup() *chi.Mux {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(middleware.RequestID)                            // Add X-Request-ID header with logging context
	r.Use(chimiddleware.RealIP)                            // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.StripSlashes)                      // TAXII clients use trailing-slash URLs
	r.Use(chimiddleware.Recoverer)                         // Recover from panics
	r.Use(corsMiddleware(router.cfg.Security.CORSOrigins)) // CORS must be global to handle OPTIONS preflight

	// ========================
	// Fallbacks
	// ========================
	// API-only server: unmatched routes get the JSON error envelope.
	// Registered before the route groups because Chi copies these into
	// subrouters when they are mounted.
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// ========================
	// TAXII 2.1 Surface
	// ========================
	// Media types and response shapes follow the TAXII 2.1 committee
	// specification; errors use TAXII error objects, not the REST envelope.
	r.Group(func(r chi.Router) {
		r.Use(router.limit("taxii", router.apiLimit()))
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Compression)

		r.Get("/taxii2", router.handler.TAXIIDiscovery)
		r.Route("/taxii2/iocs", func(r chi.Router) {
			r.Get("/", router.handler.TAXIIAPIRoot)
			r.Get("/collections", router.handler.TAXIICollections)
			r.Get("/collections/{collectionID}", router.handler.TAXIICollection)
			r.Get("/collections/{collectionID}/objects", router.handler.TAXIIObjects)
			r.Get("/collections/{collectionID}/manifest", router.handler.TAXIIManifest)
			r.Get("/status/{statusID}", router.handler.TAXIIStatus)
		})
	})

	// ========================
	// Health & Stats
	// ========================
	// Permissive rate limiting (1000/min) so monitors can poll freely.
	r.Group(func(r chi.Router) {
		r.Use(router.limit("health", HealthRateLimit))

		r.Get("/health", router.handler.Health)
		r.Get("/stats", router.handler.Stats)
		r.Get("/api/v1/health/live", router.handler.HealthLive)
		r.Get("/api/v1/health/ready", router.handler.HealthReady)
	})

	// ========================
	// IOC REST API
	// ========================
	r.Route("/api/v1/iocs", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Compression)

		r.Group(func(r chi.Router) {
			r.Use(router.limit("api", router.apiLimit()))
			r.Get("/", router.handler.ListIOCs)
			r.Get("/{ip}", router.handler.GetIOC)
		})

		// Exports render the whole snapshot, so they get a tight limit.
		r.Group(func(r chi.Router) {
			r.Use(router.limit("export", ExportRateLimit))
			r.Get("/export/{format}", router.handler.ExportIOCs)
		})
	})

	// ========================
	// Admin Endpoints
	// ========================
	// Mounted only when credentials are configured; otherwise the paths
	// fall through to the 404 handler.
	if router.admin != nil {
		r.Route("/api/v1/admin", func(r chi.Router) {
			r.Use(APISecurityHeaders())
			r.Use(router.limit("admin", AdminRateLimit))
			r.Use(router.admin.Middleware)

			r.Post("/preprocess", router.handler.TriggerPreprocess)
			r.Post("/enrich", router.handler.BulkEnrich)
		})
	}

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
