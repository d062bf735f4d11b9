// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package api

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/indicium/internal/models"
)

// pageCursor is the decoded form of the opaque `next` parameter. It
// binds an offset to the snapshot generation it was computed against,
// so a consumer can never interleave indicators from two generations.
type pageCursor struct {
	Generation int64 `json:"generation"`
	Offset     int   `json:"offset"`
}

// encodeCursor serializes a cursor as padded base64url JSON. Padded
// encoding keeps the value valid under the validator base64url tag.
func encodeCursor(c pageCursor) string {
	data, err := json.Marshal(c)
	if err != nil {
		// A two-field struct of integers cannot fail to marshal.
		return ""
	}
	return base64.URLEncoding.EncodeToString(data)
}

// decodeCursor parses an opaque cursor. Malformed input is a client
// error; the caller maps it to 400.
func decodeCursor(s string) (pageCursor, error) {
	data, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return pageCursor{}, fmt.Errorf("invalid cursor encoding: %w", err)
	}

	var c pageCursor
	if err := json.Unmarshal(data, &c); err != nil {
		return pageCursor{}, fmt.Errorf("invalid cursor payload: %w", err)
	}
	if c.Offset < 0 {
		return pageCursor{}, fmt.Errorf("invalid cursor offset %d", c.Offset)
	}
	return c, nil
}

// pageParams are the pagination inputs shared by the objects and
// manifest endpoints. A zero limit means unbounded; a zero addedAfter
// disables the freshness filter.
type pageParams struct {
	limit      int
	addedAfter time.Time
	next       string
}

// pageResult is one paginated slice. next is set only when more is true.
type pageResult struct {
	items []models.Indicator
	more  bool
	next  string
}

// paginate applies added_after, the cursor, and the limit over one
// snapshot generation. A cursor minted against a different generation
// yields an empty final page (more=false): the consumer restarts from
// the beginning rather than silently interleaving generations.
func paginate(indicators []models.Indicator, generation int64, p pageParams) (pageResult, error) {
	filtered := indicators
	if !p.addedAfter.IsZero() {
		filtered = make([]models.Indicator, 0, len(indicators))
		for i := range indicators {
			if indicators[i].ProcessedAt.After(p.addedAfter) {
				filtered = append(filtered, indicators[i])
			}
		}
	}

	offset := 0
	if p.next != "" {
		cur, err := decodeCursor(p.next)
		if err != nil {
			return pageResult{}, err
		}
		if cur.Generation != generation {
			return pageResult{items: []models.Indicator{}, more: false}, nil
		}
		offset = cur.Offset
	}

	if offset >= len(filtered) {
		return pageResult{items: []models.Indicator{}, more: false}, nil
	}
	slice := filtered[offset:]

	if p.limit > 0 && len(slice) > p.limit {
		return pageResult{
			items: slice[:p.limit],
			more:  true,
			next:  encodeCursor(pageCursor{Generation: generation, Offset: offset + p.limit}),
		}, nil
	}

	return pageResult{items: slice, more: false}, nil
}
