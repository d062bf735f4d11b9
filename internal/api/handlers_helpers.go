// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/indicium/internal/errs"
	"github.com/tomtom215/indicium/internal/logging"
	"github.com/tomtom215/indicium/internal/models"
	"github.com/tomtom215/indicium/internal/validation"
)

// retryAfterSeconds is the Retry-After hint sent with 503 responses.
// The snapshot usually appears within the first rebuild cycle, well
// before the preprocess interval elapses.
const retryAfterSeconds = 30

// sanitizeLogValue removes control characters from strings to prevent log
// injection attacks. This includes newlines, carriage returns, tabs, and
// other control characters that could allow attackers to forge log entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		// Replace control characters (0x00-0x1F and 0x7F) with a safe representation
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a REST envelope response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=60")
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	etag := generateETag(data)
	w.Header().Set("ETag", etag)

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondTAXII sends a bare TAXII 2.1 payload with the protocol media type.
func respondTAXII(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", models.TAXIIMediaType)

	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal TAXII response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write TAXII response")
	}
}

// generateETag creates a simple ETag from data using FNV-1a hash
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		// Sanitize error output to prevent log injection attacks
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondKindError maps the error taxonomy onto HTTP statuses:
// NOT_FOUND → 404, SERVICE_UNAVAILABLE → 503 with Retry-After,
// everything else → 500. The body carries the stable kind string and a
// short message, never internals.
func respondKindError(w http.ResponseWriter, err error, message string) {
	kind := errs.KindOf(err)
	switch kind {
	case errs.KindNotFound:
		respondError(w, http.StatusNotFound, string(errs.KindNotFound), message, err)
	case errs.KindUnavailable:
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
		respondError(w, http.StatusServiceUnavailable, string(errs.KindUnavailable), message, err)
	default:
		code := string(kind)
		if code == "" {
			code = "INTERNAL"
		}
		respondError(w, http.StatusInternalServerError, code, message, err)
	}
}

// taxiiError sends a TAXII-shaped error body with the same status
// mapping as respondKindError. TAXII 2.1 error objects carry title and
// http_status rather than the REST envelope.
func taxiiError(w http.ResponseWriter, status int, title string, err error) {
	if err != nil {
		logging.Error().Str("title", sanitizeLogValue(title)).Str("error", sanitizeLogValue(err.Error())).Msg("TAXII Error")
	}
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	respondTAXII(w, status, map[string]string{
		"title":       title,
		"http_status": strconv.Itoa(status),
	})
}

// loadSnapshot reads a snapshot key, normalizing cache failures and
// missing keys into SERVICE_UNAVAILABLE.
func (h *Handler) loadSnapshot(ctx context.Context, key string) (*models.Snapshot, error) {
	snap, found, err := h.snapshots.Load(ctx, key)
	if err != nil {
		return nil, errs.Unavailable(err, "snapshot read failed")
	}
	if !found {
		return nil, errs.Unavailable(nil, "no snapshot available yet")
	}
	return snap, nil
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a models.APIError describing the
// first failures when it does not.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// getIntParam extracts an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// getBoolParam extracts a boolean query parameter; absent or unparsable
// values fall back to the default.
func getBoolParam(r *http.Request, key string, defaultValue bool) bool {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}
