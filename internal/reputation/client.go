// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package reputation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/indicium/internal/cache"
	"github.com/tomtom215/indicium/internal/config"
	"github.com/tomtom215/indicium/internal/errs"
	"github.com/tomtom215/indicium/internal/logging"
	"github.com/tomtom215/indicium/internal/metrics"
	"github.com/tomtom215/indicium/internal/models"
)

const (
	// maxResponseBytes bounds response reads; a 10k-entry blacklist is
	// roughly 1 MB, so this leaves ample headroom.
	maxResponseBytes = 16 << 20

	// retryJitterFraction spreads retry delays ±25% so replicas do not
	// hammer the provider in lockstep.
	retryJitterFraction = 0.25
)

// httpError carries a non-200 provider status through the retry and
// breaker layers.
type httpError struct {
	status int
}

func (e *httpError) Error() string {
	return fmt.Sprintf("reputation API returned status %d", e.status)
}

// Client is the AbuseIPDB v2 API client. All lookups are cache-first
// and budget-gated; see the package documentation for the full flow.
//
// Thread Safety: safe for concurrent use.
type Client struct {
	store   cache.Store
	budget  *budget
	breaker *breaker
	client  *http.Client

	apiKey         string
	baseURL        string
	cacheTTL       time.Duration
	maxAgeDays     int
	blacklistLimit int

	retryAttempts int
	retryDelay    time.Duration
	retryMaxDelay time.Duration

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New creates a reputation client over the shared cache. Configuration
// is assumed validated by config.Load.
func New(store cache.Store, cfg config.ReputationConfig) *Client {
	return &Client{
		store:          store,
		budget:         newBudget(store, cfg.DailyLimit),
		breaker:        newBreaker(),
		client:         &http.Client{Timeout: cfg.Timeout},
		apiKey:         cfg.APIKey,
		baseURL:        cfg.BaseURL,
		cacheTTL:       cfg.CacheTTL,
		maxAgeDays:     cfg.MaxAgeDays,
		blacklistLimit: cfg.BlacklistLimit,
		retryAttempts:  cfg.RetryAttempts,
		retryDelay:     cfg.RetryDelay,
		retryMaxDelay:  cfg.RetryMaxDelay,
		//nolint:gosec // G404: weak random is fine for non-cryptographic retry jitter
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Check looks up the abuse record for one IP. A nil record with a nil
// error means the provider has no verdict for the address.
func (c *Client) Check(ctx context.Context, ip string) (*models.ReputationRecord, error) {
	if rec, ok := c.recordFromCache(ctx, ip); ok {
		metrics.RecordReputationRequest("check", "cached")
		return rec, nil
	}

	allowed, err := c.budget.consume(ctx)
	if err != nil {
		return nil, err
	}
	if !allowed {
		// A concurrent lookup may have cached this IP between our miss
		// and the budget gate. A stale serve beats a hard failure.
		if rec, ok := c.recordFromCache(ctx, ip); ok {
			rec.Stale = true
			metrics.RecordReputationRequest("check", "cached")
			return rec, nil
		}
		metrics.RecordReputationRequest("check", "budget_exhausted")
		return nil, errs.BudgetExhausted("daily reputation budget spent, %s not cached", ip)
	}

	q := url.Values{}
	q.Set("ipAddress", ip)
	q.Set("maxAgeInDays", strconv.Itoa(c.maxAgeDays))
	q.Set("verbose", "")

	body, err := c.fetch(ctx, "/check", q)
	if err != nil {
		var he *httpError
		if errors.As(err, &he) && he.status == http.StatusNotFound {
			metrics.RecordReputationRequest("check", "success")
			return nil, nil
		}
		metrics.RecordReputationRequest("check", "failure")
		return nil, err
	}

	rec, err := parseCheck(body, ip)
	if err != nil {
		metrics.RecordReputationRequest("check", "failure")
		return nil, err
	}
	if rec == nil {
		metrics.RecordReputationRequest("check", "success")
		return nil, nil
	}

	c.recordToCache(ctx, rec)
	metrics.RecordReputationRequest("check", "success")
	return rec, nil
}

// GetBlacklist fetches all IPs at or above minConfidence, capped at the
// configured entry limit.
func (c *Client) GetBlacklist(ctx context.Context, minConfidence int) ([]models.ReputationRecord, error) {
	key := cache.BlacklistKey(minConfidence)
	if recs, ok := c.blacklistFromCache(ctx, key); ok {
		metrics.RecordReputationRequest("blacklist", "cached")
		return recs, nil
	}

	allowed, err := c.budget.consume(ctx)
	if err != nil {
		return nil, err
	}
	if !allowed {
		if recs, ok := c.blacklistFromCache(ctx, key); ok {
			for i := range recs {
				recs[i].Stale = true
			}
			metrics.RecordReputationRequest("blacklist", "cached")
			return recs, nil
		}
		metrics.RecordReputationRequest("blacklist", "budget_exhausted")
		return nil, errs.BudgetExhausted("daily reputation budget spent, blacklist(%d) not cached", minConfidence)
	}

	q := url.Values{}
	q.Set("confidenceMinimum", strconv.Itoa(minConfidence))
	q.Set("limit", strconv.Itoa(c.blacklistLimit))

	body, err := c.fetch(ctx, "/blacklist", q)
	if err != nil {
		metrics.RecordReputationRequest("blacklist", "failure")
		return nil, err
	}

	recs, err := parseBlacklist(body)
	if err != nil {
		metrics.RecordReputationRequest("blacklist", "failure")
		return nil, err
	}

	c.blacklistToCache(ctx, key, recs)
	metrics.RecordReputationRequest("blacklist", "success")
	return recs, nil
}

// Budget reports the current daily budget state.
func (c *Client) Budget(ctx context.Context) (models.BudgetState, error) {
	return c.budget.State(ctx)
}

// fetch runs one logical provider call: the circuit sees the whole
// retried sequence as a single success or failure.
func (c *Client) fetch(ctx context.Context, path string, q url.Values) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		return c.fetchWithRetry(ctx, path, q)
	})
}

// fetchWithRetry retries 429/5xx and network failures with jittered
// exponential backoff. Definitive 4xx verdicts return immediately.
func (c *Client) fetchWithRetry(ctx context.Context, path string, q url.Values) ([]byte, error) {
	var lastErr error
	delay := c.retryDelay

	for attempt := 0; attempt <= c.retryAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		body, err := c.do(ctx, path, q)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !retryable(err) {
			return nil, err
		}
		if attempt == c.retryAttempts {
			break
		}

		wait := c.withJitter(delay)
		logging.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Int("max_retries", c.retryAttempts).
			Dur("delay", wait).
			Str("path", path).
			Msg("Retrying reputation request")

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		delay *= 2
		if delay > c.retryMaxDelay {
			delay = c.retryMaxDelay
		}
	}

	return nil, errs.Transient(lastErr, "reputation request failed after %d retries", c.retryAttempts)
}

// do performs one outbound request and returns the body on HTTP 200.
func (c *Client) do(ctx context.Context, path string, q url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.RecordReputationCall(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("reputation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &httpError{status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read reputation response: %w", err)
	}
	return body, nil
}

// retryable reports whether another attempt could succeed.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var he *httpError
	if errors.As(err, &he) {
		return he.status == http.StatusTooManyRequests || he.status >= 500
	}
	return true // network-level failure
}

// withJitter spreads a delay by ±retryJitterFraction.
func (c *Client) withJitter(d time.Duration) time.Duration {
	c.rngMu.Lock()
	jitter := float64(d) * retryJitterFraction * (c.rng.Float64()*2 - 1) // -jitter to +jitter
	c.rngMu.Unlock()
	return time.Duration(float64(d) + jitter)
}

func (c *Client) recordFromCache(ctx context.Context, ip string) (*models.ReputationRecord, bool) {
	data, ok, err := c.store.Get(ctx, cache.ReputationKey(ip))
	if err != nil || !ok {
		return nil, false
	}

	var rec models.ReputationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		logging.Warn().Str("ip", ip).Err(err).Msg("Discarding undecodable cached reputation record")
		return nil, false
	}
	return &rec, true
}

func (c *Client) recordToCache(ctx context.Context, rec *models.ReputationRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, cache.ReputationKey(rec.IP), data, c.cacheTTL); err != nil {
		logging.Warn().Str("ip", rec.IP).Err(err).Msg("Failed to cache reputation record")
	}
}

func (c *Client) blacklistFromCache(ctx context.Context, key string) ([]models.ReputationRecord, bool) {
	data, ok, err := c.store.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}

	var recs []models.ReputationRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		logging.Warn().Str("key", key).Err(err).Msg("Discarding undecodable cached blacklist")
		return nil, false
	}
	return recs, true
}

func (c *Client) blacklistToCache(ctx context.Context, key string, recs []models.ReputationRecord) {
	data, err := json.Marshal(recs)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, key, data, c.cacheTTL); err != nil {
		logging.Warn().Str("key", key).Err(err).Msg("Failed to cache blacklist")
	}
}

// checkResponse is the /check envelope. Unknown fields are ignored.
type checkResponse struct {
	Data checkData `json:"data"`
}

type checkData struct {
	IPAddress            string        `json:"ipAddress"`
	AbuseConfidenceScore *int          `json:"abuseConfidenceScore"`
	CountryCode          string        `json:"countryCode"`
	UsageType            string        `json:"usageType"`
	ISP                  string        `json:"isp"`
	TotalReports         int           `json:"totalReports"`
	NumDistinctUsers     int           `json:"numDistinctUsers"`
	LastReportedAt       string        `json:"lastReportedAt"`
	Reports              []checkReport `json:"reports"`
}

type checkReport struct {
	Categories []int `json:"categories"`
}

// blacklistResponse is the /blacklist envelope.
type blacklistResponse struct {
	Data []blacklistEntry `json:"data"`
}

type blacklistEntry struct {
	IPAddress            string `json:"ipAddress"`
	AbuseConfidenceScore *int   `json:"abuseConfidenceScore"`
	CountryCode          string `json:"countryCode"`
	LastReportedAt       string `json:"lastReportedAt"`
}

// parseCheck builds a record from a /check response. A response missing
// the required fields yields (nil, nil): logged, skipped, not fatal.
func parseCheck(body []byte, ip string) (*models.ReputationRecord, error) {
	var resp checkResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode check response: %w", err)
	}

	d := resp.Data
	if d.IPAddress == "" || d.AbuseConfidenceScore == nil {
		logging.Warn().Str("ip", ip).Msg("Reputation check response missing required fields, skipping")
		metrics.RecordReputationSkippedRecord()
		return nil, nil
	}

	reporters := d.NumDistinctUsers
	if reporters == 0 {
		reporters = d.TotalReports
	}

	return &models.ReputationRecord{
		IP:            d.IPAddress,
		Confidence:    *d.AbuseConfidenceScore,
		Categories:    reportCategories(d.Reports),
		ReporterCount: reporters,
		CountryCode:   d.CountryCode,
		ISP:           d.ISP,
		UsageType:     d.UsageType,
		LastSeen:      parseTimestamp(d.LastReportedAt),
		FetchedAt:     time.Now().UTC(),
	}, nil
}

// parseBlacklist builds records from a /blacklist response, skipping
// malformed entries without failing the batch.
func parseBlacklist(body []byte) ([]models.ReputationRecord, error) {
	var resp blacklistResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode blacklist response: %w", err)
	}

	now := time.Now().UTC()
	records := make([]models.ReputationRecord, 0, len(resp.Data))
	for _, e := range resp.Data {
		if e.IPAddress == "" || e.AbuseConfidenceScore == nil {
			logging.Warn().Str("ip", e.IPAddress).Msg("Skipping blacklist entry missing required fields")
			metrics.RecordReputationSkippedRecord()
			continue
		}
		records = append(records, models.ReputationRecord{
			IP:          e.IPAddress,
			Confidence:  *e.AbuseConfidenceScore,
			CountryCode: e.CountryCode,
			LastSeen:    parseTimestamp(e.LastReportedAt),
			FetchedAt:   now,
		})
	}
	return records, nil
}

// reportCategories unions numeric category IDs across reports,
// preserving first-seen order. IDs stay numeric strings to match the
// local reader's category representation.
func reportCategories(reports []checkReport) []string {
	if len(reports) == 0 {
		return nil
	}
	seen := make(map[int]struct{})
	var out []string
	for _, r := range reports {
		for _, id := range r.Categories {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, strconv.Itoa(id))
		}
	}
	return out
}

// parseTimestamp parses the provider's RFC 3339 timestamps, returning
// the zero time for absent or malformed values.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
