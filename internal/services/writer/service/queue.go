// Package service implements the write queue, batch collector and the
// batch transaction coordinator
package service

import (
	"context"
	"sync"

	perr "quill/internal/platform/errors"
	"quill/internal/services/writer/domain"
)

type result struct {
	val any
	err error
}

// request pairs a unit of work with its one-shot result slot
type request struct {
	fn   domain.WriteFunc
	done chan result
}

// resolve fills the result slot. The coordinator is the only resolver and
// calls this exactly once per request; the channel is 1-buffered so a caller
// that stopped waiting never blocks the worker
func (r *request) resolve(v any, err error) {
	r.done <- result{val: v, err: err}
}

type pending struct{ done <-chan result }

// Wait implements domain.Pending
func (p *pending) Wait(ctx context.Context) (any, error) {
	select {
	case r := <-p.done:
		return r.val, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Queue is the bounded multi-producer channel feeding the workers.
// FIFO order across producers is load-bearing: batch ordering guarantees
// are defined in terms of successful enqueue order
type Queue struct {
	ch     chan *request
	closed chan struct{}
	once   sync.Once
}

// NewQueue constructs a Queue with the given capacity
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 256
	}
	return &Queue{
		ch:     make(chan *request, capacity),
		closed: make(chan struct{}),
	}
}

// Enqueue implements domain.QueuePort. A full queue blocks the producer
// (backpressure) until space frees, the caller cancels, or the queue closes
func (q *Queue) Enqueue(ctx context.Context, fn domain.WriteFunc) (domain.Pending, error) {
	if fn == nil {
		return nil, perr.InvalidArgf("nil unit of work")
	}
	select {
	case <-q.closed:
		return nil, perr.Unavailablef("write queue closed")
	default:
	}

	req := &request{fn: fn, done: make(chan result, 1)}
	select {
	case q.ch <- req:
		queueDepth.Set(float64(len(q.ch)))
		return &pending{done: req.done}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-q.closed:
		return nil, perr.Unavailablef("write queue closed")
	}
}

// dequeue pulls the next request, or reports false when the caller cancels
// or the queue is closed and drained
func (q *Queue) dequeue(ctx context.Context) (*request, bool) {
	select {
	case req := <-q.ch:
		queueDepth.Set(float64(len(q.ch)))
		return req, true
	case <-ctx.Done():
		return nil, false
	case <-q.closed:
		// closed: drain what was accepted before shutdown
		select {
		case req := <-q.ch:
			queueDepth.Set(float64(len(q.ch)))
			return req, true
		default:
			return nil, false
		}
	}
}

// Depth reports the number of queued requests
func (q *Queue) Depth() int { return len(q.ch) }

// Close rejects new producers; already-accepted requests are still drained
func (q *Queue) Close() {
	q.once.Do(func() { close(q.closed) })
}

func (q *Queue) isClosed() bool {
	select {
	case <-q.closed:
		return true
	default:
		return false
	}
}
