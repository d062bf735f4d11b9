// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes that indicate the deployment schema does not
// match what this reader expects.
const (
	pgUndefinedTable    = "42P01"
	pgUndefinedColumn   = "42703"
	pgUndefinedFunction = "42883"
	pgDatatypeMismatch  = "42804"
)

// isSchemaError reports whether the error means the reported_ips table
// or its columns are missing or mistyped. These are unrecoverable by
// retry and classified FATAL.
func isSchemaError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUndefinedTable, pgUndefinedColumn, pgUndefinedFunction, pgDatatypeMismatch:
			return true
		}
		return false
	}

	// DuckDB reports schema problems through error message classes.
	msg := err.Error()
	return strings.Contains(msg, "Catalog Error") ||
		strings.Contains(msg, "Binder Error") ||
		strings.Contains(msg, "does not exist")
}

// isConnectionError reports whether the error indicates connection
// loss rather than a bad query.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "bad connection") ||
		strings.Contains(msg, "database is closed")
}
