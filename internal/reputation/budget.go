// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package reputation

import (
	"context"
	"time"

	"github.com/tomtom215/indicium/internal/cache"
	"github.com/tomtom215/indicium/internal/errs"
	"github.com/tomtom215/indicium/internal/metrics"
	"github.com/tomtom215/indicium/internal/models"
)

// budgetKeyTTL keeps yesterday's counter around long enough to survive
// clock skew between replicas, then lets it expire. The day key itself
// provides the UTC-midnight reset.
const budgetKeyTTL = 48 * time.Hour

// budget allocates outbound request slots from a day-keyed atomic
// counter in the shared cache. Slots are claimed with a single Incr so
// concurrent callers never double-spend.
type budget struct {
	store cache.Store
	limit int64
}

func newBudget(store cache.Store, limit int64) *budget {
	return &budget{store: store, limit: limit}
}

// consume claims one outbound slot for the current UTC day. Returns
// false once the daily limit is spent. Denied attempts still bump the
// underlying counter; State clamps the overshoot when reporting.
func (b *budget) consume(ctx context.Context) (bool, error) {
	used, err := b.store.Incr(ctx, cache.BudgetKey(time.Now()), budgetKeyTTL)
	if err != nil {
		return false, errs.Unavailable(err, "budget counter unavailable")
	}

	reported := used
	if reported > b.limit {
		reported = b.limit
	}
	metrics.UpdateReputationBudget(reported, b.limit)

	return used <= b.limit, nil
}

// State reports the observable budget for health and stats responses.
// Used never exceeds Limit even when denied attempts ran the counter
// past it.
func (b *budget) State(ctx context.Context) (models.BudgetState, error) {
	day := time.Now().UTC()
	used, err := b.store.Counter(ctx, cache.BudgetKey(day))
	if err != nil {
		return models.BudgetState{}, errs.Unavailable(err, "budget counter unavailable")
	}

	exhausted := used >= b.limit
	if used > b.limit {
		used = b.limit
	}

	return models.BudgetState{
		Day:       day.Format("2006-01-02"),
		Used:      used,
		Limit:     b.limit,
		Exhausted: exhausted,
	}, nil
}
