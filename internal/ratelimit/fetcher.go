// Package ratelimit throttles outbound provider calls per sync cycle.
//
// A Fetcher admits up to limit calls. The call that reaches the limit closes
// the cycle's pause signal; every later call blocks until Reset starts a new
// cycle or its context ends. Nothing sleeps or polls.
package ratelimit

import (
	"context"
	"net/http"
	"sync"
)

// Doer performs one HTTP round trip.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to Doer.
type DoerFunc func(req *http.Request) (*http.Response, error)

func (f DoerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// Fetcher wraps a Doer with a per-cycle call budget.
type Fetcher struct {
	next  Doer
	limit int

	mu      sync.Mutex
	count   int
	pending int
	paused  chan struct{}
	pauseOn bool
	resetC  chan struct{}
}

// New returns a Fetcher admitting limit calls per cycle. limit below 1 is treated as 1.
func New(limit int, next Doer) *Fetcher {
	if limit < 1 {
		limit = 1
	}
	return &Fetcher{
		next:   next,
		limit:  limit,
		paused: make(chan struct{}),
		resetC: make(chan struct{}),
	}
}

// Do performs req once the cycle budget admits it.
func (f *Fetcher) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := f.acquire(ctx); err != nil {
		return nil, err
	}
	return f.next.Do(req.WithContext(ctx))
}

func (f *Fetcher) acquire(ctx context.Context) error {
	for {
		f.mu.Lock()
		if f.count < f.limit {
			f.count++
			if f.count == f.limit {
				f.pauseLocked()
			}
			f.mu.Unlock()
			return nil
		}
		f.pauseLocked()
		wait := f.resetC
		f.pending++
		f.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			f.mu.Lock()
			if wait == f.resetC {
				f.pending--
			}
			f.mu.Unlock()
			return ctx.Err()
		}
	}
}

func (f *Fetcher) pauseLocked() {
	if f.pauseOn {
		return
	}
	f.pauseOn = true
	close(f.paused)
}

// Reset zeroes the counter, releases every blocked caller and starts a new cycle.
func (f *Fetcher) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.count = 0
	f.pending = 0
	close(f.resetC)
	f.resetC = make(chan struct{})
	if f.pauseOn {
		f.pauseOn = false
		f.paused = make(chan struct{})
	}
}

// Paused is closed the moment the current cycle reaches its limit.
func (f *Fetcher) Paused() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paused
}

// ResetC is closed by the next Reset.
func (f *Fetcher) ResetC() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resetC
}

// Count returns the number of calls admitted in the current cycle.
func (f *Fetcher) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

// Pending returns the number of callers blocked on the current cycle.
func (f *Fetcher) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// Limit returns the per-cycle budget.
func (f *Fetcher) Limit() int {
	return f.limit
}
