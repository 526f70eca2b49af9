package enrich

import (
	"context"
	"sync"
	"time"
)

// RateLimiter spaces outgoing requests at least interval apart. Wait blocks
// until the next slot or until the context ends.
type RateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

func NewRateLimiter(interval time.Duration) *RateLimiter {
	if interval < 0 {
		interval = 0
	}
	return &RateLimiter{interval: interval}
}

func (rl *RateLimiter) Wait(ctx context.Context) error {
	rl.mu.Lock()
	now := time.Now()
	if rl.last.IsZero() || now.Sub(rl.last) >= rl.interval {
		rl.last = now
		rl.mu.Unlock()
		return nil
	}

	waitUntil := rl.last.Add(rl.interval)
	rl.last = waitUntil
	rl.mu.Unlock()

	delay := time.Until(waitUntil)
	if delay <= 0 {
		return nil
	}
	return sleepWithContext(ctx, delay)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
