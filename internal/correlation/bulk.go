// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package correlation

import (
	"sort"
	"time"

	"github.com/tomtom215/indicium/internal/logging"
	"github.com/tomtom215/indicium/internal/models"
)

// Pair bundles the per-IP inputs to BulkCorrelate. Either side may be nil,
// but not both.
type Pair struct {
	Local    *models.LocalRecord
	External *models.ReputationRecord
}

// BulkCorrelate correlates each pair and returns the indicators ordered by
// (final_confidence, freshness_score) descending, with IP as a final
// tiebreak so identical inputs always produce identical output. Invalid
// pairs are logged and skipped.
func (c *Correlator) BulkCorrelate(pairs []Pair, now time.Time) []models.Indicator {
	indicators := make([]models.Indicator, 0, len(pairs))
	for _, p := range pairs {
		ind, err := c.Correlate(p.Local, p.External, now)
		if err != nil {
			logging.Warn().Err(err).Msg("Skipping uncorrelatable pair")
			continue
		}
		indicators = append(indicators, ind)
	}

	sort.Slice(indicators, func(i, j int) bool {
		a, b := &indicators[i], &indicators[j]
		if a.FinalConfidence != b.FinalConfidence {
			return a.FinalConfidence > b.FinalConfidence
		}
		if a.FreshnessScore != b.FreshnessScore {
			return a.FreshnessScore > b.FreshnessScore
		}
		return a.IP < b.IP
	})

	return indicators
}

// FilterByConfidence returns the indicators whose final confidence is at
// least minimum, preserving input order.
func FilterByConfidence(indicators []models.Indicator, minimum int) []models.Indicator {
	filtered := make([]models.Indicator, 0, len(indicators))
	for _, ind := range indicators {
		if ind.FinalConfidence >= minimum {
			filtered = append(filtered, ind)
		}
	}
	return filtered
}
