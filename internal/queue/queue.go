// Package queue provides bounded-concurrency work queues. One shared queue
// bounds outbound provider calls across all organizers; each organizer owns
// a queue of size one that serializes its database writes.
package queue

import (
	"context"
	"net/http"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Queue runs functions with at most Size of them in flight.
type Queue struct {
	name     string
	size     int64
	sem      *semaphore.Weighted
	inFlight atomic.Int64
	waiting  atomic.Int64
}

// New creates a queue with the given concurrency. size below 1 is treated as 1.
func New(name string, size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{name: name, size: int64(size), sem: semaphore.NewWeighted(int64(size))}
}

// NewSerial creates a queue that runs one function at a time.
func NewSerial(name string) *Queue {
	return New(name, 1)
}

// Run waits for a slot and runs fn in the caller's goroutine.
func (q *Queue) Run(ctx context.Context, fn func(context.Context) error) error {
	q.waiting.Add(1)
	err := q.sem.Acquire(ctx, 1)
	q.waiting.Add(-1)
	if err != nil {
		return err
	}
	q.inFlight.Add(1)
	defer func() {
		q.inFlight.Add(-1)
		q.sem.Release(1)
	}()
	return fn(ctx)
}

// Name returns the queue label used in logs.
func (q *Queue) Name() string { return q.name }

// Size returns the configured concurrency.
func (q *Queue) Size() int { return int(q.size) }

// InFlight returns the number of functions currently running.
func (q *Queue) InFlight() int { return int(q.inFlight.Load()) }

// Waiting returns the number of callers blocked on a slot.
func (q *Queue) Waiting() int { return int(q.waiting.Load()) }

// Doer is the HTTP round-trip contract the queue can bound.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type boundedDoer struct {
	queue *Queue
	next  Doer
}

// BoundDoer wraps next so every request holds one slot of q while in flight.
// The slot is released when the response headers arrive; body reads are not
// counted.
func BoundDoer(q *Queue, next Doer) Doer {
	return &boundedDoer{queue: q, next: next}
}

func (d *boundedDoer) Do(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	err := d.queue.Run(req.Context(), func(context.Context) error {
		var doErr error
		resp, doErr = d.next.Do(req)
		return doErr
	})
	return resp, err
}
