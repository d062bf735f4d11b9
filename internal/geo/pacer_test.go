// Indicium - Threat Intelligence Enrichment and TAXII Distribution
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

package geo

import (
	"context"
	"testing"
	"time"
)

func TestPacerEnforcesMinimumSpacing(t *testing.T) {
	t.Parallel()

	p := NewPacer(50*time.Millisecond, time.Second)
	ctx := context.Background()

	if err := p.Wait(ctx); err != nil {
		t.Fatalf("First Wait failed: %v", err)
	}

	start := time.Now()
	if err := p.Wait(ctx); err != nil {
		t.Fatalf("Second Wait failed: %v", err)
	}
	elapsed := time.Since(start)

	// Allow scheduler slop but require most of the configured gap.
	if elapsed < 40*time.Millisecond {
		t.Errorf("Expected second request paced by ~50ms, got %v", elapsed)
	}
}

func TestPacerAdaptiveDelay(t *testing.T) {
	t.Parallel()

	p := NewPacer(time.Second, 30*time.Second)

	if got := p.Delay(); got != time.Second {
		t.Fatalf("Expected initial delay 1s, got %v", got)
	}

	// Fewer than three consecutive errors leave the delay alone.
	p.Failure()
	p.Failure()
	if got := p.Delay(); got != time.Second {
		t.Errorf("Expected delay unchanged after two failures, got %v", got)
	}

	// The third failure grows it by 50%.
	p.Failure()
	if got := p.Delay(); got != 1500*time.Millisecond {
		t.Errorf("Expected delay 1.5s after third failure, got %v", got)
	}

	// A rate limit doubles the current delay.
	p.RateLimited()
	if got := p.Delay(); got != 3*time.Second {
		t.Errorf("Expected delay 3s after rate limit, got %v", got)
	}

	// Success decays 10% and resets the error streak.
	p.Success()
	if got := p.Delay(); got != 2700*time.Millisecond {
		t.Errorf("Expected delay 2.7s after success, got %v", got)
	}
	p.Failure()
	p.Failure()
	if got := p.Delay(); got != 2700*time.Millisecond {
		t.Errorf("Expected streak reset by success, got %v", got)
	}
}

func TestPacerDelayFlooredAtBase(t *testing.T) {
	t.Parallel()

	p := NewPacer(time.Second, 30*time.Second)
	p.RateLimited() // 2s

	for i := 0; i < 20; i++ {
		p.Success()
	}
	if got := p.Delay(); got != time.Second {
		t.Errorf("Expected decay floored at base 1s, got %v", got)
	}
}

func TestPacerDelayCappedAtMax(t *testing.T) {
	t.Parallel()

	p := NewPacer(time.Second, 4*time.Second)
	for i := 0; i < 10; i++ {
		p.RateLimited()
	}
	if got := p.Delay(); got != 4*time.Second {
		t.Errorf("Expected delay capped at 4s, got %v", got)
	}
}

func TestPacerWaitHonorsContext(t *testing.T) {
	t.Parallel()

	p := NewPacer(10*time.Second, 30*time.Second)
	ctx := context.Background()

	// Claim the first slot so the next Wait must sleep 10s.
	if err := p.Wait(ctx); err != nil {
		t.Fatalf("First Wait failed: %v", err)
	}

	cancelCtx, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := p.Wait(cancelCtx)
	if err == nil {
		t.Fatal("Expected context error from Wait")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Expected Wait to return promptly on cancellation, took %v", elapsed)
	}
}
