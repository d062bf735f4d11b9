// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package database

import (
	"context"
	"database/sql"
	"sort"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/tomtom215/indicium/internal/config"
	"github.com/tomtom215/indicium/internal/errs"
	"github.com/tomtom215/indicium/internal/logging"
	"github.com/tomtom215/indicium/internal/models"
)

// fetchQuery projects the raw rows; deduplication happens in Go so the
// SQL stays portable across both dialects.
const fetchQuery = `
SELECT ip_address, confidence, categories, report_id, reported_at
FROM reported_ips
ORDER BY reported_at DESC`

const countQuery = `SELECT COUNT(*) FROM reported_ips`

// driverNames maps the configured driver to the registered sql driver.
var driverNames = map[string]string{
	"postgres": "pgx",
	"duckdb":   "duckdb",
}

// DB is the read-only reader over the reported_ips table.
type DB struct {
	db  *sqlx.DB
	cfg config.DatabaseConfig
}

// New opens the configured database, applies pool settings, and
// verifies connectivity.
func New(cfg config.DatabaseConfig) (*DB, error) {
	driver, ok := driverNames[cfg.Driver]
	if !ok {
		return nil, errs.Config("unsupported database driver %q", cfg.Driver)
	}

	db, err := sqlx.Open(driver, cfg.DSN)
	if err != nil {
		return nil, errs.Wrap(errs.KindConfig, err, "failed to open %s database", cfg.Driver)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errs.Wrap(errs.KindTransient, err, "failed to reach %s database", cfg.Driver)
	}

	logging.Info().
		Str("driver", cfg.Driver).
		Int("max_open_conns", cfg.MaxOpenConns).
		Msg("Database connection established")

	return &DB{db: db, cfg: cfg}, nil
}

// reportedRow is one raw row scanned from reported_ips.
type reportedRow struct {
	IP         string         `db:"ip_address"`
	Confidence int            `db:"confidence"`
	Categories []byte         `db:"categories"`
	ReportID   sql.NullString `db:"report_id"`
	ReportedAt time.Time      `db:"reported_at"`
}

// FetchAll reads the table and returns one deduplicated record per IP,
// ordered most recent first. DATABASE_MAX_ROWS bounds the raw rows
// read, not the deduplicated output.
func (d *DB) FetchAll(ctx context.Context) ([]models.LocalRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.QueryTimeout)
	defer cancel()

	query := fetchQuery
	args := []interface{}{}
	if d.cfg.MaxRows > 0 {
		query = d.db.Rebind(fetchQuery + " LIMIT ?")
		args = append(args, d.cfg.MaxRows)
	}

	var rows []reportedRow
	if err := d.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, classify(err, "failed to fetch reported_ips")
	}

	records := deduplicate(rows)

	logging.Debug().
		Int("rows", len(rows)).
		Int("unique_ips", len(records)).
		Msg("Fetched local threat records")

	return records, nil
}

// Count returns the raw row count. Used by health reporting.
func (d *DB) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.QueryTimeout)
	defer cancel()

	var count int64
	if err := d.db.GetContext(ctx, &count, countQuery); err != nil {
		return 0, classify(err, "failed to count reported_ips")
	}
	return count, nil
}

// Ping verifies the connection is alive.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return errs.Wrap(errs.KindTransient, err, "database ping failed")
	}
	return nil
}

// Close releases the connection pool.
func (d *DB) Close() error {
	return d.db.Close()
}

// deduplicate collapses raw rows to one record per IP. The most recent
// row wins; ties go to the higher confidence. First/last report times
// and the report count aggregate over the whole group.
func deduplicate(rows []reportedRow) []models.LocalRecord {
	type group struct {
		winner reportedRow
		first  time.Time
		last   time.Time
		count  int
	}

	groups := make(map[string]*group, len(rows))
	for _, row := range rows {
		g, seen := groups[row.IP]
		if !seen {
			groups[row.IP] = &group{winner: row, first: row.ReportedAt, last: row.ReportedAt, count: 1}
			continue
		}

		g.count++
		if row.ReportedAt.Before(g.first) {
			g.first = row.ReportedAt
		}
		if row.ReportedAt.After(g.last) {
			g.last = row.ReportedAt
		}
		if betterRow(row, g.winner) {
			g.winner = row
		}
	}

	records := make([]models.LocalRecord, 0, len(groups))
	for _, g := range groups {
		records = append(records, models.LocalRecord{
			IP:              g.winner.IP,
			Confidence:      g.winner.Confidence,
			Categories:      ParseCategories(g.winner.Categories),
			ReportID:        g.winner.ReportID.String,
			FirstReportedAt: g.first,
			LastReportedAt:  g.last,
			ReportCount:     g.count,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].LastReportedAt.Equal(records[j].LastReportedAt) {
			return records[i].LastReportedAt.After(records[j].LastReportedAt)
		}
		return records[i].IP < records[j].IP
	})

	return records
}

// betterRow reports whether a should replace b as the group winner.
func betterRow(a, b reportedRow) bool {
	if !a.ReportedAt.Equal(b.ReportedAt) {
		return a.ReportedAt.After(b.ReportedAt)
	}
	return a.Confidence > b.Confidence
}

// classify maps driver errors onto the error taxonomy: schema problems
// are FATAL, everything else at this boundary is TRANSIENT.
func classify(err error, msg string) error {
	if isSchemaError(err) {
		return errs.Wrap(errs.KindFatal, err, "%s: schema mismatch", msg)
	}
	return errs.Wrap(errs.KindTransient, err, "%s", msg)
}
