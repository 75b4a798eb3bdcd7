package fetch

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// DefaultConcurrency is the pool width used when none is configured.
const DefaultConcurrency = 4

// Limiter gates outbound requests.
type Limiter interface {
	// Do runs fn once a request slot is available.
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Pool is a fixed-width request pool. Waiters are admitted in arrival order.
type Pool struct {
	sem    *semaphore.Weighted
	pace   *rate.Limiter
	width  int
	queued atomic.Int32
}

// NewPool creates a pool admitting at most width concurrent requests.
// A positive rps additionally paces admissions.
func NewPool(width int, rps float64) *Pool {
	if width <= 0 {
		width = DefaultConcurrency
	}

	p := &Pool{
		sem:   semaphore.NewWeighted(int64(width)),
		width: width,
	}
	if rps > 0 {
		p.pace = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return p
}

// Width returns the number of concurrent slots.
func (p *Pool) Width() int {
	return p.width
}

// Queued returns the number of callers waiting for a slot.
func (p *Pool) Queued() int {
	return int(p.queued.Load())
}

// Do runs fn while holding one slot.
func (p *Pool) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	p.queued.Add(1)
	err := p.sem.Acquire(ctx, 1)
	p.queued.Add(-1)
	if err != nil {
		return fmt.Errorf("failed to acquire request slot: %w", err)
	}
	defer p.sem.Release(1)

	if p.pace != nil {
		if err := p.pace.Wait(ctx); err != nil {
			return fmt.Errorf("failed to wait for request pacing: %w", err)
		}
	}

	return fn(ctx)
}

type unbounded struct{}

// Unbounded returns a Limiter that never blocks.
func Unbounded() Limiter {
	return unbounded{}
}

func (unbounded) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
