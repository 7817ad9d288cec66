package tmdb

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRateLimiterUnderLimit(t *testing.T) {
	limiter := newRateLimiter(3, time.Second)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.wait(context.Background()); err != nil {
			t.Fatalf("wait() error = %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("wait() blocked for %v under the limit", elapsed)
	}
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	limiter := newRateLimiter(2, 200*time.Millisecond)

	for i := 0; i < 2; i++ {
		if err := limiter.wait(context.Background()); err != nil {
			t.Fatalf("wait() error = %v", err)
		}
	}

	start := time.Now()
	if err := limiter.wait(context.Background()); err != nil {
		t.Fatalf("wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("wait() returned after %v, expected to block for the window", elapsed)
	}
}

func TestRateLimiterCanceledContext(t *testing.T) {
	limiter := newRateLimiter(1, time.Minute)

	if err := limiter.wait(context.Background()); err != nil {
		t.Fatalf("wait() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := limiter.wait(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("wait() error = %v, want %v", err, context.Canceled)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("wait() took %v to honor cancellation", elapsed)
	}
}
