// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package api

import (
	"context"
	"time"

	"github.com/tomtom215/indicium/internal/cache"
	"github.com/tomtom215/indicium/internal/config"
	"github.com/tomtom215/indicium/internal/models"
)

// Preprocessor triggers rebuild cycles. Implemented by
// preprocessor.Manager.
type Preprocessor interface {
	// Trigger starts a cycle and reports whether one was started; false
	// means the request coalesced into a cycle already in flight.
	Trigger() bool

	// Running reports whether a cycle is currently in flight.
	Running() bool
}

// ReputationService answers per-IP reputation lookups for the admin
// enrich endpoint. Implemented by reputation.Client.
type ReputationService interface {
	// Check returns the reputation record for one IP, spending budget on
	// a cache miss. A BUDGET_EXHAUSTED error means the daily limit is hit.
	Check(ctx context.Context, ip string) (*models.ReputationRecord, error)

	// Budget reports today's spend against the daily limit.
	Budget(ctx context.Context) (models.BudgetState, error)
}

// DatabasePinger reports threat-database reachability for /health.
// Implemented by database.DB.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// Handler carries the dependencies shared by all HTTP handlers.
//
// Handler methods are split across files by surface:
//   - handlers.go: Handler struct, constructor, dependency interfaces
//   - handlers_helpers.go: response writers and error mapping
//   - handlers_taxii.go: TAXII 2.1 endpoints
//   - handlers_iocs.go: REST IOC list/get/export endpoints
//   - handlers_admin.go: admin trigger and bulk enrich endpoints
//   - handlers_health.go: health, probes, and stats
type Handler struct {
	cfg         *config.Config
	store       cache.Store
	snapshots   *cache.SnapshotStore
	db          DatabasePinger
	reputation  ReputationService
	manager     Preprocessor
	collections []models.Collection
	startTime   time.Time
}

// NewHandler wires a Handler. A nil db makes /health report database
// false instead of probing.
func NewHandler(cfg *config.Config, store cache.Store, snapshots *cache.SnapshotStore, db DatabasePinger, rep ReputationService, manager Preprocessor) *Handler {
	return &Handler{
		cfg:         cfg,
		store:       store,
		snapshots:   snapshots,
		db:          db,
		reputation:  rep,
		manager:     manager,
		collections: models.DefaultCollections(cfg.Correlation.HighConfidence),
		startTime:   time.Now(),
	}
}

// collection resolves a collection id. The second return is false for
// unknown ids.
func (h *Handler) collection(id string) (*models.Collection, bool) {
	for i := range h.collections {
		if h.collections[i].ID == id {
			return &h.collections[i], true
		}
	}
	return nil, false
}
