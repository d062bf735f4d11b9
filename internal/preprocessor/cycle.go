// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package preprocessor

import (
	"context"
	"time"

	"github.com/tomtom215/indicium/internal/correlation"
	"github.com/tomtom215/indicium/internal/errs"
	"github.com/tomtom215/indicium/internal/logging"
	"github.com/tomtom215/indicium/internal/metrics"
	"github.com/tomtom215/indicium/internal/models"
)

// blacklistCategory marks indicators known only from the reputation
// blacklist, which carries no category detail of its own.
const blacklistCategory = "abuseipdb-blacklist"

// pair is one IP's inputs heading into correlation.
type pair struct {
	local    *models.LocalRecord
	external *models.ReputationRecord
}

// runCycle executes one rebuild: fetch both sources, correlate and enrich
// per IP, then atomically publish the snapshots. A cycle that produces
// nothing because its inputs failed leaves the previous snapshot in place.
func (m *Manager) runCycle(ctx context.Context) {
	started := time.Now().UTC()
	logging.Info().Msg("Starting rebuild cycle")

	info := models.RebuildInfo{StartedAt: started}

	locals, err := m.reader.FetchAll(ctx)
	if err != nil {
		metrics.RecordPreprocessError("local_fetch")
		metrics.RecordPreprocessCycle(time.Since(started), 0, err)
		logging.Error().Err(err).Msg("Rebuild aborted: local fetch failed")
		return
	}

	externals, blacklistErr := m.fetchBlacklist(ctx)

	if state, stateErr := m.reputation.Budget(ctx); stateErr == nil {
		info.BudgetExhausted = state.Exhausted
	}

	info.Locals = len(locals)
	info.Externals = len(externals)

	pairs := buildPairs(locals, externals)
	indicators, enriched := m.processBatches(ctx, pairs, started, &info)

	// All inputs failing is a broken cycle; genuinely empty sources are a
	// valid (empty) snapshot.
	if len(indicators) == 0 && (blacklistErr != nil || info.Failed > 0) {
		metrics.RecordPreprocessCycle(time.Since(started), 0, errs.New(errs.KindTransient, "rebuild produced no indicators"))
		logging.Error().
			Int("pairs", len(pairs)).
			Int("failed", info.Failed).
			Msg("Rebuild aborted: no indicators produced, keeping previous snapshot")
		return
	}

	generation := m.generation.Add(1)
	builtAt := time.Now().UTC()
	full := &models.Snapshot{Generation: generation, BuiltAt: builtAt, Indicators: indicators}
	high := &models.Snapshot{
		Generation: generation,
		BuiltAt:    builtAt,
		Indicators: correlation.FilterByConfidence(indicators, m.highConfidence),
	}

	if err := m.snapshots.Publish(ctx, full, high, m.ttl); err != nil {
		metrics.RecordPreprocessError("publish")
		metrics.RecordPreprocessCycle(time.Since(started), 0, err)
		logging.Error().Err(err).Msg("Rebuild aborted: snapshot publish failed")
		return
	}
	metrics.RecordSnapshotPublished(generation, len(full.Indicators), len(high.Indicators))

	info.FinishedAt = time.Now().UTC()
	info.DurationSeconds = info.FinishedAt.Sub(started).Seconds()
	info.Produced = len(indicators)
	info.GeoEnriched = enriched
	if len(indicators) > 0 {
		info.GeoSuccessRatio = float64(enriched) / float64(len(indicators))
	}

	if err := m.snapshots.RecordRebuild(ctx, &info); err != nil {
		logging.Warn().Err(err).Msg("Failed to record rebuild info")
	}

	metrics.RecordPreprocessCycle(info.FinishedAt.Sub(started), len(indicators), nil)
	logging.Info().
		Int64("generation", generation).
		Int("locals", info.Locals).
		Int("externals", info.Externals).
		Int("produced", info.Produced).
		Int("high_confidence", len(high.Indicators)).
		Int("failed", info.Failed).
		Int("geo_enriched", enriched).
		Bool("budget_exhausted", info.BudgetExhausted).
		Float64("duration_seconds", info.DurationSeconds).
		Msg("Rebuild cycle complete")
}

// fetchBlacklist pulls external records, tolerating budget exhaustion.
// The cached blacklist, when present, is served by the client even with
// the budget spent; only the hard-exhausted cacheless case yields nothing.
func (m *Manager) fetchBlacklist(ctx context.Context) ([]models.ReputationRecord, error) {
	externals, err := m.reputation.GetBlacklist(ctx, m.minBlacklist)
	if err == nil {
		return externals, nil
	}

	if errs.IsKind(err, errs.KindBudgetExhausted) {
		logging.Warn().Msg("Reputation budget exhausted, rebuilding from local data only")
		return nil, nil
	}

	metrics.RecordPreprocessError("blacklist")
	logging.Error().Err(err).Msg("Blacklist fetch failed, rebuilding from local data only")
	return nil, err
}

// buildPairs unions both sources by IP. Locals keep their order and win
// the dedup; blacklist-only entries follow in blacklist order, tagged
// with the synthetic blacklist category.
func buildPairs(locals []models.LocalRecord, externals []models.ReputationRecord) []pair {
	pairs := make([]pair, 0, len(locals)+len(externals))
	byIP := make(map[string]int, len(locals))

	for i := range locals {
		byIP[locals[i].IP] = len(pairs)
		pairs = append(pairs, pair{local: &locals[i]})
	}

	for i := range externals {
		ext := &externals[i]
		if idx, seen := byIP[ext.IP]; seen {
			pairs[idx].external = ext
			continue
		}
		if len(ext.Categories) == 0 {
			ext.Categories = []string{blacklistCategory}
		}
		pairs = append(pairs, pair{external: ext})
	}

	return pairs
}

// processBatches correlates and geo-enriches the pairs in batch-sized
// slices. Per-IP failures are logged and skipped; the soft deadline only
// warns, batches always complete.
func (m *Manager) processBatches(ctx context.Context, pairs []pair, started time.Time, info *models.RebuildInfo) ([]models.Indicator, int) {
	indicators := make([]models.Indicator, 0, len(pairs))
	enriched := 0
	deadline := m.softDeadline()
	warned := false

	batchSize := m.batchSize
	if batchSize <= 0 {
		batchSize = len(pairs)
	}

	for start := 0; start < len(pairs); start += batchSize {
		if ctx.Err() != nil {
			logging.Warn().Err(ctx.Err()).Msg("Rebuild cycle cancelled mid-batch")
			break
		}
		if !warned && time.Since(started) > deadline {
			logging.Warn().
				Dur("deadline", deadline).
				Dur("elapsed", time.Since(started)).
				Msg("Rebuild cycle exceeded soft deadline")
			warned = true
		}

		end := start + batchSize
		if end > len(pairs) {
			end = len(pairs)
		}

		for i := start; i < end; i++ {
			p := pairs[i]
			ind, err := m.correlator.Correlate(p.local, p.external, started)
			if err != nil {
				info.Failed++
				metrics.RecordPreprocessError("correlate")
				logging.Warn().Err(err).Msg("Skipping indicator: correlation failed")
				continue
			}

			geo, err := m.enricher.Enrich(ctx, ind.IP)
			if err != nil {
				metrics.RecordPreprocessError("geo")
				logging.Debug().Str("ip", ind.IP).Err(err).Msg("Geo enrichment failed, continuing without")
			} else if geo != nil {
				ind.Geo = geo
				enriched++
			}

			indicators = append(indicators, ind)
		}
	}

	return indicators, enriched
}
