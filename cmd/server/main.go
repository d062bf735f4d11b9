// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	_ "github.com/tomtom215/indicium/docs" // Import generated swagger docs
	"github.com/tomtom215/indicium/internal/api"
	"github.com/tomtom215/indicium/internal/cache"
	"github.com/tomtom215/indicium/internal/config"
	"github.com/tomtom215/indicium/internal/correlation"
	"github.com/tomtom215/indicium/internal/database"
	"github.com/tomtom215/indicium/internal/geo"
	"github.com/tomtom215/indicium/internal/logging"
	"github.com/tomtom215/indicium/internal/preprocessor"
	"github.com/tomtom215/indicium/internal/reputation"
	"github.com/tomtom215/indicium/internal/supervisor"
	"github.com/tomtom215/indicium/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Indicium with supervisor tree")
	logging.Info().
		Str("database_driver", cfg.Database.Driver).
		Str("cache_backend", cfg.Cache.Backend).
		Dur("preprocess_interval", cfg.Preprocess.Interval).
		Bool("admin_enabled", cfg.Admin.Enabled()).
		Msg("Configuration loaded")

	// Cache first: it is the only channel between the preprocessor and
	// the HTTP surface, and every enrichment client reads through it.
	store, err := cache.New(cfg.Cache)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize cache")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing cache")
		}
	}()

	// A cold Redis is not fatal: operations fail transiently and /health
	// reports the outage until it comes back.
	if err := store.Ping(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Cache not reachable yet (operations will retry)")
	} else {
		logging.Info().Str("backend", cfg.Cache.Backend).Msg("Cache initialized successfully")
	}

	snapshots := cache.NewSnapshotStore(store)

	// Read-only reader over the reported_ips table. Connectivity is
	// verified here; a database that goes away later only aborts rebuild
	// cycles while the last snapshot keeps serving.
	db, err := database.New(cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	// Enrichment clients share the cache store for budget counters,
	// per-IP records, and geolocation results.
	rep := reputation.New(store, cfg.Reputation)
	enricher := geo.New(store, cfg.Geo)

	correlator, err := correlation.New(cfg.Correlation)
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid correlation configuration")
	}

	manager := preprocessor.New(db, rep, enricher, correlator, snapshots, cfg)

	handler := api.NewHandler(cfg, store, snapshots, db, rep, manager)

	router, err := api.NewRouter(handler, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build router")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (RATE_LIMIT_DISABLED=true)")
		logging.Warn().Msg("This should only be used for local development and CI!")
	}

	if cfg.Admin.Enabled() && slices.Contains(cfg.Security.CORSOrigins, "*") {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: CORS wildcard origin with admin endpoints enabled")
		logging.Warn().Msg("  ")
		logging.Warn().Msg("  Any website can make cross-origin requests to this API.")
		logging.Warn().Msg("  RECOMMENDED: Set specific origins in production:")
		logging.Warn().Msg("    CORS_ORIGINS=https://intel.yourdomain.com")
		logging.Warn().Msg("============================================================")
	}

	if !cfg.Admin.Enabled() {
		logging.Info().Msg("Admin endpoints disabled (ADMIN_USERNAME/ADMIN_PASSWORD not set)")
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create structured logger for supervisor using our slog adapter
	// This bridges zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	server := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Data layer: the rebuild loop. A crash here restarts with backoff
	// while the API layer keeps serving the last snapshot.
	tree.AddDataService(services.NewPreprocessorService(manager))
	logging.Info().Msg("Preprocessor added to supervisor tree")

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
