// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/indicium/internal/models"
)

// SnapshotStore is a typed wrapper over Store for snapshot publish and
// load. It owns the JSON encoding of snapshots and rebuild metadata.
type SnapshotStore struct {
	store Store
}

// NewSnapshotStore wraps a Store.
func NewSnapshotStore(store Store) *SnapshotStore {
	return &SnapshotStore{store: store}
}

// Publish swaps both snapshot keys atomically. Readers observe the
// previous generation or the new one, never one key from each.
func (s *SnapshotStore) Publish(ctx context.Context, full, high *models.Snapshot, ttl time.Duration) error {
	fullData, err := json.Marshal(full)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	highData, err := json.Marshal(high)
	if err != nil {
		return fmt.Errorf("marshal high-confidence snapshot: %w", err)
	}

	return s.store.Swap(ctx, map[string][]byte{
		KeySnapshot:       fullData,
		KeyHighConfidence: highData,
	}, ttl)
}

// Load reads and decodes a snapshot. The second return is false when
// the key is missing or expired.
func (s *SnapshotStore) Load(ctx context.Context, key string) (*models.Snapshot, bool, error) {
	data, found, err := s.store.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, fmt.Errorf("unmarshal snapshot %s: %w", key, err)
	}
	return &snap, true, nil
}

// RecordRebuild stores cycle metadata. It is kept without a TTL so
// health reporting can show the last rebuild even when snapshots have
// expired.
func (s *SnapshotStore) RecordRebuild(ctx context.Context, info *models.RebuildInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal rebuild info: %w", err)
	}
	return s.store.Set(ctx, KeyLastRebuild, data, 0)
}

// LastRebuild reads the most recent cycle metadata.
func (s *SnapshotStore) LastRebuild(ctx context.Context) (*models.RebuildInfo, bool, error) {
	data, found, err := s.store.Get(ctx, KeyLastRebuild)
	if err != nil || !found {
		return nil, false, err
	}

	var info models.RebuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, false, fmt.Errorf("unmarshal rebuild info: %w", err)
	}
	return &info, true, nil
}
