// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package services

import (
	"context"
	"fmt"
)

// StartStopManager interface matches the preprocessor manager lifecycle.
//
// This interface abstracts the manager's Start/Stop pattern, allowing the
// PreprocessorService wrapper to adapt it to suture's Serve pattern without
// modifying the existing manager code.
//
// The interface is satisfied by *preprocessor.Manager:
//   - Start(ctx context.Context) error
//   - Stop() error
type StartStopManager interface {
	Start(ctx context.Context) error
	Stop() error
}

// PreprocessorService wraps the preprocessing pipeline manager as a
// supervised service.
//
// It adapts the Start/Stop lifecycle pattern to suture's Serve pattern:
//  1. Calls Start(ctx) to begin the scheduled rebuild loop
//  2. Waits for context cancellation
//  3. Calls Stop() for graceful shutdown
//
// The manager handles its own goroutines internally via WaitGroup,
// so this wrapper simply orchestrates the lifecycle transitions.
type PreprocessorService struct {
	manager StartStopManager
	name    string
}

// NewPreprocessorService creates a new preprocessor service wrapper.
//
// Example usage:
//
//	manager := preprocessor.New(db, rep, enricher, correlator, snaps, cfg)
//	svc := services.NewPreprocessorService(manager)
//	tree.AddDataService(svc)
func NewPreprocessorService(manager StartStopManager) *PreprocessorService {
	return &PreprocessorService{
		manager: manager,
		name:    "preprocessor",
	}
}

// Serve implements suture.Service.
//
// This method:
//  1. Starts the manager (which spawns its internal rebuild loop)
//  2. Blocks until the context is canceled
//  3. Stops the manager (which waits for its goroutines to complete)
//
// If Start() fails, the error is returned immediately, causing suture to
// restart the service according to its backoff policy.
func (s *PreprocessorService) Serve(ctx context.Context) error {
	// Start the manager - this spawns internal goroutines but returns immediately
	if err := s.manager.Start(ctx); err != nil {
		return fmt.Errorf("preprocessor start failed: %w", err)
	}

	// Wait for shutdown signal
	<-ctx.Done()

	// Stop the manager - this blocks until the rebuild loop has drained
	if err := s.manager.Stop(); err != nil {
		// The context error is the primary cause; surface the stop failure
		// so the supervisor logs it
		return fmt.Errorf("preprocessor stop failed: %w", err)
	}

	return ctx.Err()
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (s *PreprocessorService) String() string {
	return s.name
}
