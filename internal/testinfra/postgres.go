// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

//go:build integration

package testinfra

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultPostgresImage matches the oldest Postgres major the
	// reader is deployed against.
	DefaultPostgresImage = "postgres:16-alpine"

	// DefaultPostgresPort is the in-container Postgres port.
	DefaultPostgresPort = "5432"

	testUser     = "indicium"
	testPassword = "indicium-test"
	testDatabase = "threats"
)

// reportedIPsSchema mirrors the upstream table this service reads.
const reportedIPsSchema = `
CREATE TABLE IF NOT EXISTS reported_ips (
    ip_address  VARCHAR(45) NOT NULL,
    reported_at TIMESTAMPTZ NOT NULL,
    report_id   VARCHAR(255),
    categories  JSONB,
    confidence  INTEGER DEFAULT 75,
    created_at  TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
)`

// SeedRow is one reported_ips row to insert at startup.
type SeedRow struct {
	IP         string
	Confidence int
	Categories string // JSON text, e.g. `[18, 22]`
	ReportID   string
	ReportedAt time.Time
}

// PostgresContainer is a running Postgres instance with the
// reported_ips table created.
type PostgresContainer struct {
	testcontainers.Container
	DSN string
}

// PostgresOption configures the container.
type PostgresOption func(*postgresConfig)

type postgresConfig struct {
	image        string
	seedRows     []SeedRow
	startTimeout time.Duration
}

// WithPostgresImage sets a custom Postgres image.
func WithPostgresImage(image string) PostgresOption {
	return func(c *postgresConfig) {
		c.image = image
	}
}

// WithSeedRows inserts rows into reported_ips after the schema is
// created.
func WithSeedRows(rows []SeedRow) PostgresOption {
	return func(c *postgresConfig) {
		c.seedRows = rows
	}
}

// WithStartTimeout sets the startup wait timeout.
func WithStartTimeout(timeout time.Duration) PostgresOption {
	return func(c *postgresConfig) {
		c.startTimeout = timeout
	}
}

// NewPostgresContainer creates and starts a Postgres container, builds
// the reported_ips table, and applies any seed rows.
func NewPostgresContainer(ctx context.Context, opts ...PostgresOption) (*PostgresContainer, error) {
	cfg := &postgresConfig{
		image:        DefaultPostgresImage,
		startTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultPostgresPort + "/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     testUser,
			"POSTGRES_PASSWORD": testPassword,
			"POSTGRES_DB":       testDatabase,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(DefaultPostgresPort+"/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, DefaultPostgresPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		testUser, testPassword, host, port.Port(), testDatabase)

	if err := initSchema(ctx, dsn, cfg.seedRows); err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &PostgresContainer{Container: container, DSN: dsn}, nil
}

// initSchema creates the reported_ips table and inserts seed rows.
func initSchema(ctx context.Context, dsn string, rows []SeedRow) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, reportedIPsSchema); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	for _, row := range rows {
		_, err := db.ExecContext(ctx,
			`INSERT INTO reported_ips (ip_address, reported_at, report_id, categories, confidence)
			 VALUES ($1, $2, $3, $4, $5)`,
			row.IP, row.ReportedAt, row.ReportID, row.Categories, row.Confidence)
		if err != nil {
			return fmt.Errorf("insert seed row %s: %w", row.IP, err)
		}
	}

	return nil
}

// DropColumn removes a column so tests can assert schema-mismatch
// classification.
func (c *PostgresContainer) DropColumn(ctx context.Context, column string) error {
	db, err := sql.Open("pgx", c.DSN)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, fmt.Sprintf("ALTER TABLE reported_ips DROP COLUMN %s", column))
	return err
}

// Terminate stops and removes the container.
func (c *PostgresContainer) Terminate(ctx context.Context, opts ...testcontainers.TerminateOption) error {
	return c.Container.Terminate(ctx, opts...)
}
