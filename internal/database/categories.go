// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package database

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// ParseCategories decodes the categories column defensively. Deployed
// tables have carried JSON arrays of numbers, JSON arrays of strings,
// JSON objects with an id field, and plain comma-separated text; all
// of them normalize to a string slice of category codes.
func ParseCategories(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}

	var parsed interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return splitCategories(string(raw))
	}

	switch v := parsed.(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := categoryString(item); s != "" {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case string:
		return splitCategories(v)
	case float64:
		return []string{strconv.Itoa(int(v))}
	default:
		return nil
	}
}

// categoryString normalizes one category element.
func categoryString(item interface{}) string {
	switch v := item.(type) {
	case float64:
		return strconv.Itoa(int(v))
	case string:
		return strings.TrimSpace(v)
	case map[string]interface{}:
		for _, key := range []string{"id", "category_id"} {
			if id, ok := v[key].(float64); ok {
				return strconv.Itoa(int(id))
			}
			if id, ok := v[key].(string); ok {
				return strings.TrimSpace(id)
			}
		}
	}
	return ""
}

func splitCategories(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
