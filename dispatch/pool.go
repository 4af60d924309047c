package dispatch

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Pool bounds the number of requests whose network phases may run
// concurrently. Each request's state machine runs start-to-finish on a
// single worker goroutine.
type Pool struct {
	sem *semaphore.Weighted
}

// NewPool creates a pool with at least one slot.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size))}
}

// Go runs fn on its own goroutine once a slot is free. Acquisition is not
// tied to any caller context: once submitted, a request runs to a
// terminal state.
func (p *Pool) Go(fn func()) {
	go func() {
		// Acquire with Background cannot fail.
		_ = p.sem.Acquire(context.Background(), 1)
		defer p.sem.Release(1)
		fn()
	}()
}
