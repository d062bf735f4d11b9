// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

// Package correlation fuses local sensor reports with external reputation
// data into scored indicators.
//
// # Scoring
//
// Final confidence depends on which inputs are present:
//
//   - Local only: the local score, plus a boost when it is at or above 75,
//     floored at the configured minimum and clamped to [0,100].
//   - External only: the external score multiplied by the external weight.
//   - Both: the weighted sum of the two scores; locals at or above 75 keep
//     the same floor as the local-only path.
//
// The weights are operator-supplied with no defaults and must sum to 1.0.
// New rejects a Correlator whose weights fail validation, so a constructed
// Correlator is always safe to score with.
//
// # Freshness
//
// Every indicator carries a freshness score in (0,1] derived from the age
// of its most recent report: 1.0 within a day, decaying in steps to 0.1
// past 180 days. Freshness never changes the confidence score; it exists
// for consumers that want to rank or expire indicators themselves.
//
// # Determinism
//
// Correlate is a pure function of its inputs and the supplied reference
// time. Rebuilding from identical sources yields identical indicators,
// which keeps snapshot generations comparable and STIX object IDs stable.
package correlation
