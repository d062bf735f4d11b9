// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

/*
Package cache provides the key-value store behind snapshots, budget
counters, and enrichment caches.

All values are JSON bytes; callers own serialization. Three backends
implement the same Store interface and are selected by configuration:

  - memory (default): mutex-guarded map with per-entry TTL and a janitor
    goroutine. State is lost on restart, which resets the reputation
    budget counter; fine for development, not for production.
  - redis: go-redis client. Counters use native INCR, snapshot swaps use
    a MULTI/EXEC pipeline. The budget counter survives restarts.
  - badger: embedded persistent store for single-host deployments that
    need restart-safe counters without a Redis instance.

# Key Conventions

	preprocessed_iocs        // full indicator snapshot
	high_confidence_iocs     // filtered snapshot
	last_rebuild             // metadata about the most recent cycle
	geo:<ip>                 // geolocation result, 24h
	rep:<ip>                 // per-IP reputation, 1h
	rep:blacklist:<min>      // blacklist page, 1h
	rep:budget:<yyyy-mm-dd>  // daily API budget counter, 48h

# Consistency

Swap replaces a set of keys atomically so readers observe either the
previous snapshot generation or the new one, never a mixture. There are
no cross-key transactions beyond Swap; each snapshot value is
self-consistent. Incr is atomic per backend (native INCR, locked map,
or a Badger transaction) so concurrent budget spends never undercount.

# Thread Safety

All Store implementations are safe for concurrent use. The memory
backend serializes writes behind a sync.RWMutex; redis and badger
delegate to their clients' own concurrency control.
*/
package cache
