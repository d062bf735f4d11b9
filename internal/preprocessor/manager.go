// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package preprocessor

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/indicium/internal/cache"
	"github.com/tomtom215/indicium/internal/config"
	"github.com/tomtom215/indicium/internal/correlation"
	"github.com/tomtom215/indicium/internal/logging"
	"github.com/tomtom215/indicium/internal/metrics"
	"github.com/tomtom215/indicium/internal/models"
)

// minSoftDeadline is the floor for the cycle soft deadline.
const minSoftDeadline = 15 * time.Minute

// Reader supplies local threat records. Implemented by database.DB.
type Reader interface {
	FetchAll(ctx context.Context) ([]models.LocalRecord, error)
}

// ReputationClient supplies external reputation data and budget state.
// Implemented by reputation.Client.
type ReputationClient interface {
	GetBlacklist(ctx context.Context, minConfidence int) ([]models.ReputationRecord, error)
	Budget(ctx context.Context) (models.BudgetState, error)
}

// Enricher resolves geolocation for one IP. Implemented by geo.Enricher.
type Enricher interface {
	Enrich(ctx context.Context, ip string) (*models.GeoRecord, error)
}

// Manager runs rebuild cycles: fetch, correlate, enrich, publish. At most
// one cycle runs at a time; triggers during a run coalesce into nothing.
//
// Thread Safety: safe for concurrent use.
type Manager struct {
	reader     Reader
	reputation ReputationClient
	enricher   Enricher
	correlator *correlation.Correlator
	snapshots  *cache.SnapshotStore

	interval       time.Duration
	ttl            time.Duration
	batchSize      int
	autoStart      bool
	minBlacklist   int
	highConfidence int

	// generation seeds from the wall clock so cursors minted before a
	// restart can never match a post-restart snapshot.
	generation atomic.Int64
	inCycle    atomic.Bool

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup

	cycleCtx    context.Context
	cycleCancel context.CancelFunc
}

// New creates a preprocessor manager. The correlator and snapshot store
// are required; reader, reputation, and enricher are exercised per cycle.
func New(reader Reader, rep ReputationClient, enricher Enricher, correlator *correlation.Correlator, snapshots *cache.SnapshotStore, cfg *config.Config) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	m := &Manager{
		reader:         reader,
		reputation:     rep,
		enricher:       enricher,
		correlator:     correlator,
		snapshots:      snapshots,
		interval:       cfg.Preprocess.Interval,
		ttl:            cfg.Preprocess.TTL,
		batchSize:      cfg.Preprocess.BatchSize,
		autoStart:      cfg.Preprocess.AutoStart,
		minBlacklist:   cfg.Reputation.MinConfidence,
		highConfidence: cfg.Correlation.HighConfidence,
		stopChan:       make(chan struct{}),
		cycleCtx:       ctx,
		cycleCancel:    cancel,
	}
	m.generation.Store(time.Now().UnixNano())

	logging.Info().
		Dur("interval", m.interval).
		Dur("ttl", m.ttl).
		Int("batch_size", m.batchSize).
		Bool("auto_start", m.autoStart).
		Msg("Preprocessor config loaded")

	return m
}

// Start begins the rebuild schedule. When auto-start is configured the
// first cycle runs immediately in the background.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("preprocessor is already running")
	}
	m.running = true
	m.mu.Unlock()

	logging.Info().Msg("Starting preprocessor...")

	if m.autoStart {
		m.Trigger()
	}

	m.wg.Add(1)
	go m.rebuildLoop(ctx)

	return nil
}

// Stop cancels any in-flight cycle and waits for goroutines to exit.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return fmt.Errorf("preprocessor is not running")
	}
	m.running = false
	m.mu.Unlock()

	logging.Info().Msg("Stopping preprocessor...")

	close(m.stopChan)
	m.cycleCancel()
	m.wg.Wait()

	logging.Info().Msg("Preprocessor stopped")
	return nil
}

// Trigger starts a cycle in the background and reports whether one was
// started. A false return means a cycle was already in flight and the
// request coalesced into it, or the manager is stopped.
func (m *Manager) Trigger() bool {
	if !m.inCycle.CompareAndSwap(false, true) {
		metrics.RecordCoalescedCycle()
		logging.Debug().Msg("Rebuild trigger coalesced into running cycle")
		return false
	}

	// The running check and wg.Add share the mutex with Stop so a cycle
	// can never be added after Stop has begun waiting.
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		m.inCycle.Store(false)
		return false
	}
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		defer m.inCycle.Store(false)
		m.runCycle(m.cycleCtx)
	}()

	return true
}

// Running reports whether a cycle is currently in flight.
func (m *Manager) Running() bool {
	return m.inCycle.Load()
}

// rebuildLoop fires a cycle every interval until stopped.
func (m *Manager) rebuildLoop(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopChan:
			return
		case <-ticker.C:
			m.Trigger()
		}
	}
}

// softDeadline is how long a cycle may run before it logs a warning.
func (m *Manager) softDeadline() time.Duration {
	if d := 3 * m.interval; d > minSoftDeadline {
		return d
	}
	return minSoftDeadline
}
