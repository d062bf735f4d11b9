// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/tomtom215/indicium/internal/config"
)

// Store is the backend-agnostic key-value interface. Values are opaque
// JSON bytes; a zero ttl means the entry never expires.
type Store interface {
	// Get retrieves a value. The second return is false on a miss;
	// err is reserved for backend failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Swap replaces all given keys atomically with a shared TTL.
	// Readers observe either none or all of the new values.
	Swap(ctx context.Context, entries map[string][]byte, ttl time.Duration) error

	// Incr atomically increments a counter and returns the new value.
	// The TTL is applied only when the increment creates the key.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Counter reads a counter without modifying it. Missing keys
	// read as zero.
	Counter(ctx context.Context, key string) (int64, error)

	// ExpireAt resets a key's expiration to an absolute time.
	ExpireAt(ctx context.Context, key string, at time.Time) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Stats returns operation counters for the stats endpoint.
	Stats() Stats

	// Close releases backend resources.
	Close() error
}

// Stats holds cache operation counters.
type Stats struct {
	Backend string `json:"backend"`
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
	Sets    int64  `json:"sets"`
	Keys    int64  `json:"keys"`
}

// HitRate returns the hit percentage, or 0 when nothing was read yet.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}
	return float64(s.Hits) / float64(total) * 100.0
}

// counters tracks hit/miss/set counts shared by all backends.
type counters struct {
	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

func (c *counters) hit()  { c.hits.Add(1) }
func (c *counters) miss() { c.misses.Add(1) }
func (c *counters) set()  { c.sets.Add(1) }

func (c *counters) snapshot(backend string, keys int64) Stats {
	return Stats{
		Backend: backend,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Sets:    c.sets.Load(),
		Keys:    keys,
	}
}

// New creates a Store for the configured backend.
func New(cfg config.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemory(cfg.CleanupInterval), nil
	case "redis":
		return NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), nil
	case "badger":
		return NewBadger(cfg.BadgerPath)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
