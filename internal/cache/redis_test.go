// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedis(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisBasicOperations(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedis(t)
	ctx := context.Background()

	if err := store.Set(ctx, "key1", []byte("value1"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, found, err := store.Get(ctx, "key1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("Expected key1 to exist")
	}
	if string(value) != "value1" {
		t.Errorf("Expected value1, got %s", value)
	}

	_, found, err = store.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("Expected missing key to not exist")
	}

	if err := store.Delete(ctx, "key1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	_, found, _ = store.Get(ctx, "key1")
	if found {
		t.Error("Expected key1 to be deleted")
	}
}

func TestRedisExpiration(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedis(t)
	ctx := context.Background()

	if err := store.Set(ctx, "key1", []byte("value1"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	_, found, _ := store.Get(ctx, "key1")
	if found {
		t.Error("Expected key1 to be expired")
	}
}

func TestRedisSwap(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedis(t)
	ctx := context.Background()

	err := store.Swap(ctx, map[string][]byte{
		"a": []byte("new-a"),
		"b": []byte("new-b"),
	}, time.Minute)
	if err != nil {
		t.Fatalf("Swap failed: %v", err)
	}

	a, _, _ := store.Get(ctx, "a")
	b, _, _ := store.Get(ctx, "b")
	if string(a) != "new-a" || string(b) != "new-b" {
		t.Errorf("Expected both keys set, got a=%s b=%s", a, b)
	}
}

func TestRedisIncr(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedis(t)
	ctx := context.Background()

	got, err := store.Incr(ctx, "counter", time.Hour)
	if err != nil {
		t.Fatalf("Incr failed: %v", err)
	}
	if got != 1 {
		t.Errorf("Expected first increment to return 1, got %d", got)
	}

	got, err = store.Incr(ctx, "counter", time.Hour)
	if err != nil {
		t.Fatalf("Incr failed: %v", err)
	}
	if got != 2 {
		t.Errorf("Expected second increment to return 2, got %d", got)
	}

	// The TTL was attached on creation.
	if ttl := mr.TTL("counter"); ttl != time.Hour {
		t.Errorf("Expected counter TTL 1h, got %s", ttl)
	}

	value, err := store.Counter(ctx, "counter")
	if err != nil {
		t.Fatalf("Counter failed: %v", err)
	}
	if value != 2 {
		t.Errorf("Expected counter read 2, got %d", value)
	}

	missing, err := store.Counter(ctx, "absent")
	if err != nil {
		t.Fatalf("Counter failed: %v", err)
	}
	if missing != 0 {
		t.Errorf("Expected missing counter to read 0, got %d", missing)
	}
}

func TestRedisExpireAt(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedis(t)
	ctx := context.Background()

	_ = store.Set(ctx, "key1", []byte("value1"), time.Hour)
	if err := store.ExpireAt(ctx, "key1", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("ExpireAt failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	_, found, _ := store.Get(ctx, "key1")
	if found {
		t.Error("Expected key1 to expire at the new deadline")
	}
}

func TestRedisPing(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedis(t)
	ctx := context.Background()

	if err := store.Ping(ctx); err != nil {
		t.Errorf("Expected ping to succeed, got %v", err)
	}

	mr.Close()

	if err := store.Ping(ctx); err == nil {
		t.Error("Expected ping to fail after server close")
	}
}
