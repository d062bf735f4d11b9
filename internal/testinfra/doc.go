// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

// Package testinfra provides container-backed infrastructure for
// integration tests.
//
// The package uses testcontainers-go to run the services the
// preprocessor depends on, so integration tests exercise real drivers
// instead of mocks.
//
// # Postgres Container
//
// PostgresContainer runs a throwaway Postgres instance with the
// reported_ips table created and optionally seeded:
//
//	func TestFetchAll(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    pg, err := testinfra.NewPostgresContainer(ctx,
//	        testinfra.WithSeedRows(rows),
//	    )
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer pg.Terminate(ctx)
//
//	    db, err := database.New(config.DatabaseConfig{
//	        Driver: "postgres",
//	        DSN:    pg.DSN,
//	        ...
//	    })
//	    // Test against the real driver
//	}
//
// # CI Considerations
//
// These tests require Docker; they are tagged `integration` and skip
// gracefully when the daemon is unreachable. First runs download the
// postgres image, later runs hit the local cache.
package testinfra
