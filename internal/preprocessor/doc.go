// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

// Package preprocessor runs the rebuild cycle that turns raw threat data
// into the served snapshot.
//
// Each cycle fetches local detections and the external reputation
// blacklist, unions them by IP (local wins), correlates confidence per
// IP, geo-enriches in batches, and atomically publishes the full and
// high-confidence snapshots to the cache. Readers never see a partially
// built snapshot: the swap replaces both keys in one step, and a cycle
// whose inputs all fail leaves the previous snapshot untouched.
//
// Cycles start three ways: automatically at startup when configured, on
// a fixed interval, and on demand from the admin API. Only one cycle
// runs at a time; triggers that arrive mid-cycle coalesce and report
// "already running".
//
// The manager implements the Start/Stop contract expected by the
// supervision tree:
//
//	mgr := preprocessor.New(db, repClient, enricher, correlator, snapshots, cfg)
//	if err := mgr.Start(ctx); err != nil { ... }
//	defer mgr.Stop()
//
// Budget exhaustion is not fatal: the cycle proceeds with whatever the
// reputation cache still holds and records budget_exhausted for /stats.
package preprocessor
