package worker

import (
	"context"
	"testing"
	"time"

	"github.com/ppiankov/edgarscan/internal/model"
	"golang.org/x/time/rate"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 1 {
		t.Errorf("expected default burst 1 for negative input, got %d", l2.defaultBurst)
	}

	l3 := NewLimiter(0, 1)
	if l3.defaultRate != rate.Inf {
		t.Errorf("expected unlimited rate for zero input, got %v", l3.defaultRate)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "https://www.sec.gov/Archives/edgar/data/1/a.txt"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Different host should also work
	if err := limiter.Wait(ctx, "https://example.com/b.txt"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx := context.Background()
	url := "https://www.sec.gov/a.txt"

	if err := limiter.Wait(ctx, url); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Burst of 1 is used up
	if limiter.Allow(url) {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	// Different host has its own bucket
	if !limiter.Allow("https://other.example.com/a.txt") {
		t.Errorf("expected allow for other host")
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.001, 1)
	url := "https://www.sec.gov/a.txt"
	_ = limiter.Allow(url)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, url); err == nil {
		t.Error("expected error when context ends before a token is available")
	}
}

func TestLimiter_SlowDown(t *testing.T) {
	limiter := LimiterFromConfig(model.RateLimitingConfig{RequestsPerSecond: 10, BurstSize: 1})
	url := "https://www.sec.gov/a.txt"

	limiter.SlowDown(url, 2*time.Second)
	if got := limiter.getLimiter("www.sec.gov").Limit(); got != rate.Every(2*time.Second) {
		t.Errorf("limit = %v, want one per 2s", got)
	}

	// A shorter delay never speeds a host up again
	limiter.SlowDown(url, 100*time.Millisecond)
	if got := limiter.getLimiter("www.sec.gov").Limit(); got != rate.Every(2*time.Second) {
		t.Errorf("limit = %v after shorter delay, want unchanged", got)
	}
}
