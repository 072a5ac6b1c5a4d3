package service

import (
	"context"
	"time"
)

// Collector drains the queue into bounded batches: a count limit caps
// per-transaction overhead, a time window caps tail latency
type Collector struct {
	q      *Queue
	max    int
	window time.Duration
}

// NewCollector constructs a Collector
func NewCollector(q *Queue, maxItems int, window time.Duration) *Collector {
	if maxItems <= 0 {
		maxItems = 32
	}
	if window <= 0 {
		window = 50 * time.Millisecond
	}
	return &Collector{q: q, max: maxItems, window: window}
}

// Collect blocks for the first item with no timeout so an idle worker does
// not spin, then keeps collecting until the count limit or the window is
// hit. A cancelled first dequeue yields an empty batch, not an error; the
// caller just skips to its next iteration
func (c *Collector) Collect(ctx context.Context) []*request {
	first, ok := c.q.dequeue(ctx)
	if !ok {
		return nil
	}

	batch := make([]*request, 1, c.max)
	batch[0] = first

	timer := time.NewTimer(c.window)
	defer timer.Stop()

	for len(batch) < c.max {
		select {
		case req := <-c.q.ch:
			queueDepth.Set(float64(len(c.q.ch)))
			batch = append(batch, req)
		case <-timer.C:
			return batch
		case <-ctx.Done():
			return batch
		}
	}
	return batch
}
