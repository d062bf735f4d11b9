// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// entry is a stored value with its expiration. A zero expiresAt means
// the entry never expires.
type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore is the default in-process backend. A janitor goroutine
// removes expired entries on an interval; reads also expire lazily.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]entry
	counters counters
	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemory creates a memory store and starts its janitor.
func NewMemory(cleanupInterval time.Duration) *MemoryStore {
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	m := &MemoryStore{
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
	}
	go m.janitor(cleanupInterval)
	return m
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, exists := m.entries[key]
	m.mu.RUnlock()

	if !exists {
		m.counters.miss()
		return nil, false, nil
	}
	if e.expired(time.Now()) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		m.counters.miss()
		return nil, false, nil
	}

	m.counters.hit()
	// Copy so callers cannot mutate the stored slice.
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

// Set implements Store.
func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	m.entries[key] = entry{value: stored, expiresAt: expiry(ttl)}
	m.mu.Unlock()

	m.counters.set()
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Swap implements Store. All entries become visible under a single
// write lock acquisition.
func (m *MemoryStore) Swap(_ context.Context, entries map[string][]byte, ttl time.Duration) error {
	at := expiry(ttl)

	m.mu.Lock()
	for key, value := range entries {
		stored := make([]byte, len(value))
		copy(stored, value)
		m.entries[key] = entry{value: stored, expiresAt: at}
	}
	m.mu.Unlock()

	for range entries {
		m.counters.set()
	}
	return nil
}

// Incr implements Store. Counters are stored as decimal strings so Get
// and Counter interoperate.
func (m *MemoryStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	var current int64
	e, exists := m.entries[key]
	if exists && !e.expired(now) {
		parsed, err := strconv.ParseInt(string(e.value), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("key %q does not hold a counter: %w", key, err)
		}
		current = parsed
	} else {
		exists = false
	}

	current++
	next := entry{value: []byte(strconv.FormatInt(current, 10))}
	if exists {
		next.expiresAt = e.expiresAt
	} else {
		next.expiresAt = expiry(ttl)
	}
	m.entries[key] = next
	return current, nil
}

// Counter implements Store.
func (m *MemoryStore) Counter(ctx context.Context, key string) (int64, error) {
	value, found, err := m.Get(ctx, key)
	if err != nil || !found {
		return 0, err
	}
	parsed, err := strconv.ParseInt(string(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("key %q does not hold a counter: %w", key, err)
	}
	return parsed, nil
}

// ExpireAt implements Store.
func (m *MemoryStore) ExpireAt(_ context.Context, key string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, exists := m.entries[key]
	if !exists || e.expired(time.Now()) {
		return nil
	}
	e.expiresAt = at
	m.entries[key] = e
	return nil
}

// Ping implements Store. The memory backend is always reachable.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Stats implements Store.
func (m *MemoryStore) Stats() Stats {
	m.mu.RLock()
	keys := int64(len(m.entries))
	m.mu.RUnlock()
	return m.counters.snapshot("memory", keys)
}

// Close stops the janitor. The store remains usable afterwards but no
// longer removes expired entries in the background.
func (m *MemoryStore) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	return nil
}

// janitor periodically removes expired entries.
func (m *MemoryStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.stop:
			return
		}
	}
}

func (m *MemoryStore) cleanup() {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, key)
		}
	}
}

func expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}

var _ Store = (*MemoryStore)(nil)
