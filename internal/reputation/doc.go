// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

/*
Package reputation implements the AbuseIPDB v2 client behind a daily
request budget, a circuit breaker, and a response cache.

Every lookup is cache-first. On a miss the client claims one slot from
the day-keyed budget counter before going outbound; a spent budget
serves whatever the cache still holds (marked stale) or fails with
BUDGET_EXHAUSTED. The counter lives in the shared cache under
rep:budget:<yyyy-mm-dd> so restarts within one UTC day do not reset it.

Outbound calls retry 429 and 5xx responses with jittered exponential
backoff and run through a gobreaker circuit: five consecutive failed
calls open it for a minute, during which lookups report TRANSIENT
without touching the network.

Provider responses are parsed defensively. Records missing ipAddress or
abuseConfidenceScore are skipped with a warning; one malformed entry
never fails a blacklist batch.
*/
package reputation
