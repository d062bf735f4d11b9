// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// incrRetries bounds optimistic-concurrency retries on counter writes.
const incrRetries = 5

// BadgerStore is an embedded persistent backend for single-host
// deployments that need restart-safe counters without Redis.
type BadgerStore struct {
	db       *badger.DB
	counters counters
	stop     chan struct{}
	stopOnce sync.Once
}

// NewBadger opens (or creates) the database at path and starts a value
// log GC goroutine.
func NewBadger(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger open %s: %w", path, err)
	}

	b := &BadgerStore{
		db:   db,
		stop: make(chan struct{}),
	}
	go b.gcLoop()
	return b, nil
}

// Get implements Store.
func (b *BadgerStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		b.counters.miss()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("badger get %s: %w", key, err)
	}
	b.counters.hit()
	return value, true, nil
}

// Set implements Store.
func (b *BadgerStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(newEntry(key, value, ttl))
	})
	if err != nil {
		return fmt.Errorf("badger set %s: %w", key, err)
	}
	b.counters.set()
	return nil
}

// Delete implements Store.
func (b *BadgerStore) Delete(_ context.Context, key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("badger delete %s: %w", key, err)
	}
	return nil
}

// Swap implements Store. A single update transaction commits all keys
// together.
func (b *BadgerStore) Swap(_ context.Context, entries map[string][]byte, ttl time.Duration) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		for key, value := range entries {
			if err := txn.SetEntry(newEntry(key, value, ttl)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("badger swap: %w", err)
	}
	for range entries {
		b.counters.set()
	}
	return nil
}

// Incr implements Store. Badger detects write conflicts under its
// serializable transactions, so concurrent increments retry instead of
// losing updates.
func (b *BadgerStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	var result int64
	for attempt := 0; attempt < incrRetries; attempt++ {
		err := b.db.Update(func(txn *badger.Txn) error {
			var current int64
			var remaining time.Duration

			item, err := txn.Get([]byte(key))
			switch {
			case errors.Is(err, badger.ErrKeyNotFound):
				remaining = ttl
			case err != nil:
				return err
			default:
				raw, err := item.ValueCopy(nil)
				if err != nil {
					return err
				}
				current, err = strconv.ParseInt(string(raw), 10, 64)
				if err != nil {
					return fmt.Errorf("key %q does not hold a counter: %w", key, err)
				}
				if exp := item.ExpiresAt(); exp > 0 {
					remaining = time.Until(time.Unix(int64(exp), 0))
					if remaining <= 0 {
						current = 0
						remaining = ttl
					}
				}
			}

			result = current + 1
			return txn.SetEntry(newEntry(key, []byte(strconv.FormatInt(result, 10)), remaining))
		})
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("badger incr %s: %w", key, err)
		}
		return result, nil
	}
	return 0, fmt.Errorf("badger incr %s: too many conflicts", key)
}

// Counter implements Store.
func (b *BadgerStore) Counter(ctx context.Context, key string) (int64, error) {
	value, found, err := b.Get(ctx, key)
	if err != nil || !found {
		return 0, err
	}
	parsed, err := strconv.ParseInt(string(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("key %q does not hold a counter: %w", key, err)
	}
	return parsed, nil
}

// ExpireAt implements Store. Badger entries carry TTLs, not absolute
// deadlines, so the value is rewritten with the remaining duration.
func (b *BadgerStore) ExpireAt(_ context.Context, key string, at time.Time) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return txn.SetEntry(newEntry(key, value, time.Until(at)))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("badger expireat %s: %w", key, err)
	}
	return nil
}

// Ping implements Store.
func (b *BadgerStore) Ping(_ context.Context) error {
	if b.db.IsClosed() {
		return fmt.Errorf("badger database is closed")
	}
	return nil
}

// Stats implements Store. Key counts are not tracked; -1 marks the
// count as unknown.
func (b *BadgerStore) Stats() Stats {
	return b.counters.snapshot("badger", -1)
}

// Close stops the GC loop and closes the database.
func (b *BadgerStore) Close() error {
	b.stopOnce.Do(func() { close(b.stop) })
	return b.db.Close()
}

// gcLoop reclaims value log space. RunValueLogGC returns ErrNoRewrite
// when there is nothing left to collect.
func (b *BadgerStore) gcLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for {
				if err := b.db.RunValueLogGC(0.5); err != nil {
					break
				}
			}
		case <-b.stop:
			return
		}
	}
}

func newEntry(key string, value []byte, ttl time.Duration) *badger.Entry {
	e := badger.NewEntry([]byte(key), value)
	if ttl > 0 {
		e = e.WithTTL(ttl)
	}
	return e
}

var _ Store = (*BadgerStore)(nil)
