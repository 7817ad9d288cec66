package tmdb

import (
	"context"
	"sync"
	"time"
)

// rateLimiter is a sliding-window limiter for outbound TMDB calls.
type rateLimiter struct {
	mu     sync.Mutex
	sent   []time.Time
	limit  int
	window time.Duration
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:  limit,
		window: window,
		sent:   make([]time.Time, 0, limit),
	}
}

// wait blocks until a request slot opens inside the window, or until the
// context is canceled.
func (r *rateLimiter) wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		now := time.Now()
		cutoff := now.Add(-r.window)
		kept := r.sent[:0]
		for _, ts := range r.sent {
			if ts.After(cutoff) {
				kept = append(kept, ts)
			}
		}
		r.sent = kept

		if len(r.sent) < r.limit {
			r.sent = append(r.sent, now)
			r.mu.Unlock()
			return nil
		}

		// The oldest slot expires first; wait it out plus a small buffer
		// so the recheck sees it gone.
		delay := r.window - now.Sub(r.sent[0]) + 10*time.Millisecond
		r.mu.Unlock()

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
