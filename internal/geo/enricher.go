// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package geo

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/indicium/internal/cache"
	"github.com/tomtom215/indicium/internal/config"
	"github.com/tomtom215/indicium/internal/logging"
	"github.com/tomtom215/indicium/internal/metrics"
	"github.com/tomtom215/indicium/internal/models"
)

// Enricher resolves geolocation cache-first over an ordered provider
// chain. A nil record with a nil error means not-found: the address is
// private, or every provider failed. Enrichment failures never fail the
// caller's pipeline — an indicator without geo is still an indicator.
type Enricher struct {
	store     cache.Store
	providers []Provider
	limiters  map[string]*rate.Limiter
	pacer     *Pacer
	cacheTTL  time.Duration
	timeout   time.Duration
}

// New creates an Enricher from configuration. The provider chain is
// fixed at construction; an empty chain yields not-found for every IP.
func New(store cache.Store, cfg config.GeoConfig) *Enricher {
	client := &http.Client{Timeout: cfg.Timeout}
	providers := providersFor(cfg.Providers, client)

	perMinute := cfg.ProviderRate
	if perMinute <= 0 {
		perMinute = 40
	}
	limiters := make(map[string]*rate.Limiter, len(providers))
	for _, p := range providers {
		limiters[p.Name()] = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
	}

	return &Enricher{
		store:     store,
		providers: providers,
		limiters:  limiters,
		pacer:     NewPacer(cfg.RequestDelay, cfg.MaxDelay),
		cacheTTL:  cfg.CacheTTL,
		timeout:   cfg.Timeout,
	}
}

// Enrich resolves geolocation for one IP. The port suffix, if any, is
// stripped first. Returns (nil, nil) when no usable record exists.
func (e *Enricher) Enrich(ctx context.Context, ip string) (*models.GeoRecord, error) {
	addr := normalizeIP(ip)
	if addr == nil {
		logging.Debug().Str("ip", ip).Msg("Skipping geolocation for unparseable address")
		return nil, nil
	}
	if isNonRoutable(addr) {
		logging.Debug().Str("ip", addr.String()).Msg("Skipping geolocation for non-routable address")
		return nil, nil
	}

	canonical := addr.String()
	if rec, ok := e.fromCache(ctx, canonical); ok {
		metrics.RecordGeoCacheHit()
		return rec, nil
	}
	metrics.RecordGeoCacheMiss()

	rec, err := e.fetch(ctx, canonical)
	if err != nil || rec == nil {
		return nil, err
	}

	e.toCache(ctx, rec)
	return rec, nil
}

// fetch walks the provider chain. Every outbound attempt first acquires
// the provider's own token bucket, then the process-global pacer slot.
func (e *Enricher) fetch(ctx context.Context, ip string) (*models.GeoRecord, error) {
	for _, p := range e.providers {
		if lim := e.limiters[p.Name()]; lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return nil, err
			}
		}
		if err := e.pacer.Wait(ctx); err != nil {
			return nil, err
		}

		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		rec, err := p.Fetch(callCtx, ip)
		cancel()

		if err != nil {
			if errors.Is(err, errRateLimited) {
				e.pacer.RateLimited()
				metrics.RecordGeoLookup(p.Name(), "rate_limited")
			} else {
				e.pacer.Failure()
				metrics.RecordGeoLookup(p.Name(), "failure")
			}
			metrics.UpdateGeoPacingDelay(e.pacer.Delay())
			logging.Debug().
				Str("provider", p.Name()).
				Str("ip", ip).
				Err(err).
				Msg("Geo provider lookup failed, trying next")
			continue
		}

		e.pacer.Success()
		metrics.RecordGeoLookup(p.Name(), "success")
		metrics.UpdateGeoPacingDelay(e.pacer.Delay())
		return rec, nil
	}

	logging.Debug().Str("ip", ip).Int("providers", len(e.providers)).Msg("All geo providers failed")
	return nil, nil
}

func (e *Enricher) fromCache(ctx context.Context, ip string) (*models.GeoRecord, bool) {
	data, ok, err := e.store.Get(ctx, cache.GeoKey(ip))
	if err != nil || !ok {
		return nil, false
	}

	var rec models.GeoRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		logging.Warn().Str("ip", ip).Err(err).Msg("Discarding undecodable cached geo record")
		return nil, false
	}
	return &rec, true
}

func (e *Enricher) toCache(ctx context.Context, rec *models.GeoRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := e.store.Set(ctx, cache.GeoKey(rec.IP), data, e.cacheTTL); err != nil {
		logging.Warn().Str("ip", rec.IP).Err(err).Msg("Failed to cache geo record")
	}
}

// Delay exposes the current adaptive pacing for the stats surface.
func (e *Enricher) Delay() time.Duration {
	return e.pacer.Delay()
}

// normalizeIP parses an address, stripping a :port suffix if present.
// Returns nil when the string is not an IP address.
func normalizeIP(addr string) net.IP {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	return net.ParseIP(addr)
}

// isNonRoutable reports whether the address can never have a useful
// public geolocation.
func isNonRoutable(ip net.IP) bool {
	return ip.IsPrivate() ||
		ip.IsLoopback() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsMulticast() ||
		ip.IsUnspecified()
}
