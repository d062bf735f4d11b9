// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package geo

import (
	"context"
	"sync"
	"time"
)

// Pacer spaces outbound geolocation requests process-wide. Every caller
// must Wait before making a request; the pacer hands out send slots at
// least the current delay apart, so concurrent enrichment goroutines and
// provider fallbacks can never burst an upstream service.
//
// The delay adapts to provider feedback: it shrinks back toward the
// configured base while requests succeed, grows after repeated errors,
// and doubles on an explicit rate-limit response.
type Pacer struct {
	mu sync.Mutex

	base  time.Duration
	max   time.Duration
	delay time.Duration

	// next is the earliest time the next request may be sent. Claimed
	// under the lock so two waiters cannot share a slot.
	next time.Time

	consecutiveErrors int
}

// NewPacer creates a pacer with the given base spacing and growth cap.
func NewPacer(base, max time.Duration) *Pacer {
	if base <= 0 {
		base = time.Second
	}
	if max < base {
		max = base
	}
	return &Pacer{
		base:  base,
		max:   max,
		delay: base,
	}
}

// Wait blocks until the caller may send the next outbound request, or
// until the context is done. The send slot is claimed immediately, so
// callers that go on to fail still consume their spacing.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	now := time.Now()
	target := p.next
	if target.Before(now) {
		target = now
	}
	p.next = target.Add(p.delay)
	p.mu.Unlock()

	sleep := time.Until(target)
	if sleep <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(sleep)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Success records a successful request. The delay decays by 10% per
// success, floored at the configured base.
func (p *Pacer) Success() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.consecutiveErrors = 0
	p.delay = time.Duration(float64(p.delay) * 0.9)
	if p.delay < p.base {
		p.delay = p.base
	}
}

// Failure records a failed request. Three or more consecutive failures
// grow the delay by 50% per further failure, capped at max.
func (p *Pacer) Failure() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.consecutiveErrors++
	if p.consecutiveErrors >= 3 {
		p.grow(1.5)
	}
}

// RateLimited records an HTTP 429. The delay doubles immediately.
func (p *Pacer) RateLimited() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.consecutiveErrors++
	p.grow(2.0)
}

// Delay returns the current spacing between requests.
func (p *Pacer) Delay() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.delay
}

// grow must be called with the lock held.
func (p *Pacer) grow(factor float64) {
	p.delay = time.Duration(float64(p.delay) * factor)
	if p.delay > p.max {
		p.delay = p.max
	}
}
