package metadata

import (
	"context"
	"sync"
	"time"
)

// Limiter enforces a minimum interval between calls to an external
// source. It replaces ad-hoc sleep-in-loop pacing so the delay policy is
// testable on its own.
type Limiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func NewLimiter(interval time.Duration) *Limiter {
	return &Limiter{interval: interval}
}

// Wait blocks until the configured interval since the previous call has
// elapsed, or returns early with the context's error on cancellation.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if remaining := l.interval - time.Since(l.lastCall); remaining > 0 {
		timer := time.NewTimer(remaining)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	l.lastCall = time.Now()
	return nil
}
