package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestNewRateLimiter_ZeroRPS(t *testing.T) {
	rl := NewRateLimiter(0)
	if rl == nil {
		t.Fatal("expected non-nil rate limiter even with zero RPS")
	}

	// Should not block with zero RPS
	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := rl.Wait(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 10*time.Millisecond {
		t.Errorf("zero RPS should not block, took %v", elapsed)
	}
	if rl.Rate() != 0 {
		t.Errorf("expected rate 0, got %v", rl.Rate())
	}
}

func TestRateLimiter_NilIsUnlimited(t *testing.T) {
	var rl *RateLimiter
	if err := rl.Wait(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if rl.Rate() != 0 {
		t.Errorf("expected rate 0, got %v", rl.Rate())
	}
}

func TestRateLimiter_FirstWaitIsImmediate(t *testing.T) {
	rl := NewRateLimiter(1)

	start := time.Now()
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("first wait took too long: %v", elapsed)
	}
}

func TestRateLimiter_ContextCancelled(t *testing.T) {
	rl := NewRateLimiter(1) // Very slow - 1 RPS

	// Exhaust the burst
	_ = rl.Wait(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := rl.Wait(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestRateLimiter_UnlimitedHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewRateLimiter(0).Wait(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestRateLimiter_SpacesRequests(t *testing.T) {
	rl := NewRateLimiter(20) // one request every 50ms

	ctx := context.Background()
	start := time.Now()

	// 5 requests: first immediate, then 4 intervals of 50ms
	for i := 0; i < 5; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("wait failed: %v", err)
		}
	}

	// Allow some tolerance
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("rate limiting doesn't appear to be working, elapsed: %v", elapsed)
	}
	if rl.Rate() != 20 {
		t.Errorf("expected rate 20, got %v", rl.Rate())
	}
}
