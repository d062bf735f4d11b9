// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the production backend. Counters ride on native INCR
// and snapshot swaps go through a MULTI/EXEC pipeline, so budget state
// and snapshots survive process restarts.
type RedisStore struct {
	client   *redis.Client
	counters counters
}

// NewRedis creates a redis-backed store. Connectivity is verified by
// the caller via Ping.
func NewRedis(addr, password string, db int) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: client}
}

// Get implements Store.
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		r.counters.miss()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	r.counters.hit()
	return value, true, nil
}

// Set implements Store.
func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	r.counters.set()
	return nil
}

// Delete implements Store.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Swap implements Store. The pipeline executes as a transaction so
// concurrent readers see all new values or none.
func (r *RedisStore) Swap(ctx context.Context, entries map[string][]byte, ttl time.Duration) error {
	pipe := r.client.TxPipeline()
	for key, value := range entries {
		pipe.Set(ctx, key, value, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis swap: %w", err)
	}
	for range entries {
		r.counters.set()
	}
	return nil
}

// Incr implements Store. The expiry is attached only on the increment
// that creates the key, matching the contract that later increments
// never extend a counter's life.
func (r *RedisStore) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	value, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	if value == 1 && ttl > 0 {
		if err := r.client.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("redis expire %s: %w", key, err)
		}
	}
	return value, nil
}

// Counter implements Store.
func (r *RedisStore) Counter(ctx context.Context, key string) (int64, error) {
	value, err := r.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis counter %s: %w", key, err)
	}
	return value, nil
}

// ExpireAt implements Store.
func (r *RedisStore) ExpireAt(ctx context.Context, key string, at time.Time) error {
	if err := r.client.ExpireAt(ctx, key, at).Err(); err != nil {
		return fmt.Errorf("redis expireat %s: %w", key, err)
	}
	return nil
}

// Ping implements Store.
func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Stats implements Store. Key counts are not tracked for remote
// backends; -1 marks the count as unknown.
func (r *RedisStore) Stats() Stats {
	return r.counters.snapshot("redis", -1)
}

// Close implements Store.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

var _ Store = (*RedisStore)(nil)
