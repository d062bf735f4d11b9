// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package models

import (
	"time"
)

// ReputationRecord is the per-IP result from the external reputation
// service, owned by the reputation client and cached under rep:<ip>.
// Stale marks a record served from cache after the daily budget was
// exhausted.
type ReputationRecord struct {
	IP            string    `json:"ip"`
	Confidence    int       `json:"confidence"`
	Categories    []string  `json:"categories,omitempty"`
	ReporterCount int       `json:"reporter_count,omitempty"`
	CountryCode   string    `json:"country_code,omitempty"`
	ISP           string    `json:"isp,omitempty"`
	UsageType     string    `json:"usage_type,omitempty"`
	LastSeen      time.Time `json:"last_seen"`
	FetchedAt     time.Time `json:"fetched_at"`
	Stale         bool      `json:"stale,omitempty"`
}

// BudgetState is the observable state of the reputation daily budget.
// The underlying counter lives in the cache under rep:budget:<yyyy-mm-dd>
// so restarts within one UTC day do not double-count.
type BudgetState struct {
	Day       string `json:"day"`
	Used      int64  `json:"used"`
	Limit     int64  `json:"limit"`
	Exhausted bool   `json:"exhausted"`
}
