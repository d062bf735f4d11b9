// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package geo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/indicium/internal/logging"
	"github.com/tomtom215/indicium/internal/models"
)

// Provider fetches geolocation for one IP from one upstream service.
// Implementations are stateless values; the enricher owns ordering,
// caching, and pacing.
type Provider interface {
	// Name returns the provider name for logging, metrics, and the
	// GeoRecord provenance field.
	Name() string

	// Fetch queries the upstream service. It returns an error when the
	// response is unusable (missing country code, out-of-range
	// coordinates, provider-reported failure).
	Fetch(ctx context.Context, ip string) (*models.GeoRecord, error)
}

// errRateLimited marks an HTTP 429 so the enricher can widen pacing
// harder than for an ordinary failure.
var errRateLimited = errors.New("provider rate limited")

// maxResponseBytes bounds provider response bodies. Geo payloads are a
// few hundred bytes; anything larger is misbehavior.
const maxResponseBytes = 1 << 20

// providersFor builds the ordered fallback chain from configured names.
// Unknown names are skipped with a warning rather than failing startup,
// so a typo degrades the chain instead of disabling geolocation.
func providersFor(names []string, client *http.Client) []Provider {
	chain := make([]Provider, 0, len(names))
	for _, name := range names {
		switch name {
		case "ip-api":
			chain = append(chain, newIPAPIProvider(client))
		case "ipwhois":
			chain = append(chain, newIPWhoisProvider(client))
		case "geojs":
			chain = append(chain, newGeoJSProvider(client))
		default:
			logging.Warn().Str("provider", name).Msg("Unknown geo provider, skipping")
		}
	}
	return chain
}

// fetchBody issues the GET and returns the response body. HTTP 429 maps
// to errRateLimited; any other non-200 status is an error.
func fetchBody(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// finishRecord validates the minimum usable fields and derives the
// country threat level. Providers return records only through here.
func finishRecord(rec *models.GeoRecord) (*models.GeoRecord, error) {
	if rec.CountryCode == "" {
		return nil, fmt.Errorf("%s response missing country code", rec.Provider)
	}
	if rec.Lat < -90 || rec.Lat > 90 || rec.Lon < -180 || rec.Lon > 180 {
		return nil, fmt.Errorf("%s returned out-of-range coordinates (%v, %v)", rec.Provider, rec.Lat, rec.Lon)
	}
	rec.ThreatLevel = CountryThreatLevel(rec.CountryCode)
	rec.FetchedAt = time.Now().UTC()
	return rec, nil
}

// ========================================
// ip-api.com (free tier, no API key)
// ========================================

// ipAPIProvider queries ip-api.com. Free tier allows 45 requests per
// minute over plain HTTP; the commercial endpoint is not used.
type ipAPIProvider struct {
	client  *http.Client
	baseURL string
}

func newIPAPIProvider(client *http.Client) *ipAPIProvider {
	return &ipAPIProvider{
		client:  client,
		baseURL: "http://ip-api.com/json",
	}
}

// ipAPIFields is the explicit field selection; requesting only what is
// consumed keeps the response small.
const ipAPIFields = "status,message,continent,continentCode,country,countryCode,region,regionName,city,lat,lon,timezone,isp,org"

type ipAPIResponse struct {
	Status      string  `json:"status"`  // "success" or "fail"
	Message     string  `json:"message"` // error detail when status is "fail"
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	Region      string  `json:"region"`
	RegionName  string  `json:"regionName"`
	City        string  `json:"city"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Timezone    string  `json:"timezone"`
	ISP         string  `json:"isp"`
	Org         string  `json:"org"`
}

func (p *ipAPIProvider) Name() string { return "ip-api" }

func (p *ipAPIProvider) Fetch(ctx context.Context, ip string) (*models.GeoRecord, error) {
	url := fmt.Sprintf("%s/%s?fields=%s", p.baseURL, ip, ipAPIFields)
	body, err := fetchBody(ctx, p.client, url)
	if err != nil {
		return nil, err
	}

	var r ipAPIResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("failed to decode ip-api response: %w", err)
	}
	if r.Status != "success" {
		return nil, fmt.Errorf("ip-api lookup failed: %s", r.Message)
	}

	return finishRecord(&models.GeoRecord{
		IP:          ip,
		CountryCode: r.CountryCode,
		CountryName: r.Country,
		City:        r.City,
		Region:      r.RegionName,
		Lat:         r.Lat,
		Lon:         r.Lon,
		ISP:         r.ISP,
		Timezone:    r.Timezone,
		Provider:    p.Name(),
	})
}

// ========================================
// ipwhois.app (free tier, no API key)
// ========================================

// ipWhoisProvider queries ipwhois.app. Free tier allows 10,000 requests
// per month and carries the ASN, which ip-api's free tier does not.
type ipWhoisProvider struct {
	client  *http.Client
	baseURL string
}

func newIPWhoisProvider(client *http.Client) *ipWhoisProvider {
	return &ipWhoisProvider{
		client:  client,
		baseURL: "http://ipwhois.app/json",
	}
}

type ipWhoisResponse struct {
	Success     bool    `json:"success"`
	Message     string  `json:"message"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Region      string  `json:"region"`
	City        string  `json:"city"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	ASN         string  `json:"asn"`
	ISP         string  `json:"isp"`
	Timezone    string  `json:"timezone"`
}

func (p *ipWhoisProvider) Name() string { return "ipwhois" }

func (p *ipWhoisProvider) Fetch(ctx context.Context, ip string) (*models.GeoRecord, error) {
	url := fmt.Sprintf("%s/%s", p.baseURL, ip)
	body, err := fetchBody(ctx, p.client, url)
	if err != nil {
		return nil, err
	}

	var r ipWhoisResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("failed to decode ipwhois response: %w", err)
	}
	if !r.Success {
		return nil, fmt.Errorf("ipwhois lookup failed: %s", r.Message)
	}

	return finishRecord(&models.GeoRecord{
		IP:          ip,
		CountryCode: r.CountryCode,
		CountryName: r.Country,
		City:        r.City,
		Region:      r.Region,
		Lat:         r.Latitude,
		Lon:         r.Longitude,
		ASN:         r.ASN,
		ISP:         r.ISP,
		Timezone:    r.Timezone,
		Provider:    p.Name(),
	})
}

// ========================================
// geojs.io (free, no rate limit published)
// ========================================

// geoJSProvider queries get.geojs.io. The service has no documented rate
// limit, making it a good last resort. Latitude and longitude arrive as
// strings and are parsed here.
type geoJSProvider struct {
	client  *http.Client
	baseURL string
}

func newGeoJSProvider(client *http.Client) *geoJSProvider {
	return &geoJSProvider{
		client:  client,
		baseURL: "https://get.geojs.io/v1/ip/geo",
	}
}

type geoJSResponse struct {
	Country      string `json:"country"`
	CountryCode  string `json:"country_code"`
	Region       string `json:"region"`
	City         string `json:"city"`
	Latitude     string `json:"latitude"`
	Longitude    string `json:"longitude"`
	Timezone     string `json:"timezone"`
	Organization string `json:"organization_name"`
	ASN          int    `json:"asn"`
}

func (p *geoJSProvider) Name() string { return "geojs" }

func (p *geoJSProvider) Fetch(ctx context.Context, ip string) (*models.GeoRecord, error) {
	url := fmt.Sprintf("%s/%s.json", p.baseURL, ip)
	body, err := fetchBody(ctx, p.client, url)
	if err != nil {
		return nil, err
	}

	var r geoJSResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("failed to decode geojs response: %w", err)
	}
	if r.CountryCode == "" {
		return nil, fmt.Errorf("geojs response missing country code")
	}

	lat, err := strconv.ParseFloat(r.Latitude, 64)
	if err != nil {
		return nil, fmt.Errorf("geojs returned unparseable latitude %q", r.Latitude)
	}
	lon, err := strconv.ParseFloat(r.Longitude, 64)
	if err != nil {
		return nil, fmt.Errorf("geojs returned unparseable longitude %q", r.Longitude)
	}

	var asn string
	if r.ASN != 0 {
		asn = fmt.Sprintf("AS%d", r.ASN)
	}

	return finishRecord(&models.GeoRecord{
		IP:          ip,
		CountryCode: r.CountryCode,
		CountryName: r.Country,
		City:        r.City,
		Region:      r.Region,
		Lat:         lat,
		Lon:         lon,
		ASN:         asn,
		ISP:         r.Organization,
		Timezone:    r.Timezone,
		Provider:    p.Name(),
	})
}

// ========================================
// Country threat buckets
// ========================================

// Country buckets follow observed attack-origin concentration. The list
// is deliberately coarse: it tunes the threat_level hint only and never
// gates an indicator.
var (
	highThreatCountries = map[string]struct{}{
		"CN": {}, "RU": {}, "KP": {}, "IR": {}, "PK": {}, "BD": {}, "VN": {}, "ID": {},
	}
	mediumThreatCountries = map[string]struct{}{
		"BR": {}, "IN": {}, "TR": {}, "EG": {}, "MX": {}, "TH": {}, "PH": {}, "MY": {},
	}
)

// CountryThreatLevel buckets an ISO country code into high, medium, or low.
func CountryThreatLevel(code string) string {
	code = strings.ToUpper(code)
	if _, ok := highThreatCountries[code]; ok {
		return "high"
	}
	if _, ok := mediumThreatCountries[code]; ok {
		return "medium"
	}
	return "low"
}
