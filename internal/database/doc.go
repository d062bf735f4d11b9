// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

/*
Package database reads the upstream reported_ips table.

The table is owned by the sensor ingestion pipeline and is strictly
read-only here; this package never issues writes and should be given
read-only credentials.

# Drivers

Two drivers are supported, selected by DATABASE_DRIVER:

  - postgres: the production deployment, via the pgx stdlib adapter.
  - duckdb: local development and offline analysis against a file copy
    of the table.

Queries are written with ? placeholders and rebound per driver through
sqlx, so both dialects share one query text.

# Deduplication

reported_ips may carry multiple rows per address. FetchAll collapses
them to one LocalRecord per IP: the most recent row (by reported_at)
wins, ties broken by higher confidence. The aggregate keeps the
earliest report time, the latest report time, and the row count.

# Failure Modes

Connection-level failures surface as TRANSIENT so the preprocessor can
retry the cycle later. Schema mismatches (missing table or column)
surface as FATAL: retrying cannot help, and the operator must fix the
deployment.
*/
package database
