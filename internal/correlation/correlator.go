// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package correlation

import (
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/indicium/internal/config"
	"github.com/tomtom215/indicium/internal/errs"
	"github.com/tomtom215/indicium/internal/models"
)

const (
	// boostThreshold is the local confidence at or above which the
	// local boost and the minimum-final floor apply.
	boostThreshold = 75

	minConfidence = 0
	maxConfidence = 100

	// freshnessFloor is the score for reports older than the last decay
	// band, and for records with no report time at all.
	freshnessFloor = 0.1
)

// freshnessBands maps report age in days to a freshness score. Bands are
// checked in order; the first match wins.
var freshnessBands = []struct {
	maxAgeDays float64
	score      float64
}{
	{1, 1.0},
	{7, 0.9},
	{30, 0.7},
	{90, 0.5},
	{180, 0.3},
}

// Correlator scores and merges per-IP threat inputs. Construct with New;
// the zero value has zero weights and will score everything to the floor.
type Correlator struct {
	localWeight    float64
	externalWeight float64
	boost          int
	minimumFinal   int
}

// New builds a Correlator from validated configuration. The weights are
// re-checked here so that callers constructing a CorrelationConfig by hand
// get the same CONFIG failure they would get at startup.
func New(cfg config.CorrelationConfig) (*Correlator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errs.Wrap(errs.KindConfig, err, "correlation config rejected")
	}
	return &Correlator{
		localWeight:    cfg.LocalWeight,
		externalWeight: cfg.ExternalWeight,
		boost:          cfg.LocalBoost,
		minimumFinal:   cfg.MinimumFinal,
	}, nil
}

// Score computes final confidence from the inputs that are present.
// Both nil yields 0; the result is always within [0,100].
func (c *Correlator) Score(local, external *int) int {
	switch {
	case local != nil && external != nil:
		weighted := int(math.Round(float64(*local)*c.localWeight + float64(*external)*c.externalWeight))
		if *local >= boostThreshold && weighted < c.minimumFinal {
			weighted = c.minimumFinal
		}
		return clamp(weighted)

	case local != nil:
		score := *local
		if score >= boostThreshold {
			score += c.boost
			if score < c.minimumFinal {
				score = c.minimumFinal
			}
		}
		return clamp(score)

	case external != nil:
		return clamp(int(math.Round(float64(*external) * c.externalWeight)))

	default:
		return 0
	}
}

// Freshness scores the age of a report against the reference time.
// Future or zero-age reports score 1.0; a zero reportedAt scores the floor
// because nothing is known about when the activity was seen.
func Freshness(reportedAt, reference time.Time) float64 {
	if reportedAt.IsZero() {
		return freshnessFloor
	}
	ageDays := reference.Sub(reportedAt).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	for _, band := range freshnessBands {
		if ageDays <= band.maxAgeDays {
			return band.score
		}
	}
	return freshnessFloor
}

// Correlate merges one local record and one external record for the same
// IP into an Indicator. Either input may be nil, but not both. The caller
// supplies now so a whole rebuild cycle shares a single processed_at.
func (c *Correlator) Correlate(local *models.LocalRecord, external *models.ReputationRecord, now time.Time) (models.Indicator, error) {
	if local == nil && external == nil {
		return models.Indicator{}, errs.New(errs.KindFatal, "correlate called with no inputs")
	}
	if local != nil && external != nil && local.IP != external.IP {
		return models.Indicator{}, errs.New(errs.KindFatal, "correlate inputs disagree on ip: %q vs %q", local.IP, external.IP)
	}

	ind := models.Indicator{ProcessedAt: now}

	var localConf, externalConf *int
	if local != nil {
		v := local.Confidence
		localConf = &v
		ind.IP = local.IP
		ind.SourceSet = append(ind.SourceSet, models.SourceLocal)
	}
	if external != nil {
		v := external.Confidence
		externalConf = &v
		if ind.IP == "" {
			ind.IP = external.IP
		}
		ind.SourceSet = append(ind.SourceSet, models.SourceExternal)
	}

	ind.LocalConfidence = localConf
	ind.ExternalConfidence = externalConf
	ind.FinalConfidence = c.Score(localConf, externalConf)

	switch {
	case local != nil:
		ind.ReportID = local.ReportID
		ind.FirstReportedAt = local.FirstReportedAt
		ind.LastReportedAt = local.LastReportedAt
	case external != nil:
		// Blacklist entries carry no report of their own; synthesize a
		// stable identifier from the score that produced them.
		ind.ReportID = fmt.Sprintf("ABUSEIPDB-%d", external.Confidence)
		seen := external.LastSeen
		if seen.IsZero() {
			seen = now
		}
		ind.FirstReportedAt = seen
		ind.LastReportedAt = seen
	}

	var localCats, externalCats []string
	if local != nil {
		localCats = local.Categories
	}
	if external != nil {
		externalCats = external.Categories
	}
	ind.Categories = mergeCategories(localCats, externalCats)

	ind.FreshnessScore = Freshness(ind.LastReportedAt, now)
	ind.Provenance = provenance(ind.IP, local, external, now)

	return ind, nil
}

// mergeCategories unions two category lists, keeping local order first and
// appending external categories not already present.
func mergeCategories(local, external []string) []string {
	if len(local) == 0 && len(external) == 0 {
		return nil
	}
	merged := make([]string, 0, len(local)+len(external))
	seen := make(map[string]struct{}, len(local)+len(external))
	for _, c := range local {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		merged = append(merged, c)
	}
	for _, c := range external {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		merged = append(merged, c)
	}
	return merged
}

// provenance builds the source trail, local entry first to match the
// source set ordering.
func provenance(ip string, local *models.LocalRecord, external *models.ReputationRecord, now time.Time) []models.Provenance {
	entries := make([]models.Provenance, 0, 2)
	if local != nil {
		entries = append(entries, models.Provenance{
			SourceName:  "Local Detection",
			Description: "reported_ips",
			ObservedAt:  local.LastReportedAt,
		})
	}
	if external != nil {
		observed := external.LastSeen
		if observed.IsZero() {
			observed = external.FetchedAt
		}
		if observed.IsZero() {
			observed = now
		}
		entries = append(entries, models.Provenance{
			SourceName:  "AbuseIPDB",
			SourceURL:   "https://www.abuseipdb.com/check/" + ip,
			Description: "blacklist-api",
			ObservedAt:  observed,
		})
	}
	return entries
}

func clamp(score int) int {
	if score < minConfidence {
		return minConfidence
	}
	if score > maxConfidence {
		return maxConfidence
	}
	return score
}
