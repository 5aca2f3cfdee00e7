package pacing

import (
	"context"
	"sync"
	"time"
)

// Pacer spaces out calls to a rate-limited dependency. Wait blocks until
// the next call is allowed or the context is done.
type Pacer interface {
	Wait(ctx context.Context) error
}

// IntervalPacer enforces a fixed minimum delay between consecutive calls.
// The first Wait returns immediately. Safe for concurrent use: each caller
// reserves the next free slot under the lock, then sleeps outside it.
type IntervalPacer struct {
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

func NewIntervalPacer(interval time.Duration) *IntervalPacer {
	return &IntervalPacer{interval: interval}
}

func (p *IntervalPacer) Wait(ctx context.Context) error {
	now := time.Now()

	p.mu.Lock()
	at := p.next
	if at.Before(now) {
		at = now
	}
	p.next = at.Add(p.interval)
	p.mu.Unlock()

	if remaining := at.Sub(now); remaining > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(remaining):
		}
	}
	return nil
}

// NopPacer never waits. Useful in tests and for on-demand paths that are
// not subject to the external service's rate ceiling.
type NopPacer struct{}

func (NopPacer) Wait(ctx context.Context) error {
	return ctx.Err()
}
