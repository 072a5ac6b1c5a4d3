package service

import (
	"context"
	"testing"
	"time"
)

func TestCollector_CountLimitCapsBatch(t *testing.T) {
	t.Parallel()
	q := NewQueue(16)
	c := NewCollector(q, 3, time.Second)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := q.Enqueue(ctx, noopUnit(i)); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	if got := len(c.Collect(ctx)); got != 3 {
		t.Fatalf("batch size = %d, want 3", got)
	}
	if got := len(c.Collect(ctx)); got != 2 {
		t.Fatalf("second batch size = %d, want 2", got)
	}
}

func TestCollector_WindowFlushesPartialBatch(t *testing.T) {
	t.Parallel()
	q := NewQueue(16)
	c := NewCollector(q, 32, 25*time.Millisecond)
	ctx := context.Background()

	if _, err := q.Enqueue(ctx, noopUnit("solo")); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	start := time.Now()
	batch := c.Collect(ctx)
	if len(batch) != 1 {
		t.Fatalf("batch size = %d, want 1", len(batch))
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("window did not flush, waited %v", elapsed)
	}
}

func TestCollector_EmptyBatchOnCancelledFirstWait(t *testing.T) {
	t.Parallel()
	q := NewQueue(4)
	c := NewCollector(q, 4, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if batch := c.Collect(ctx); batch != nil {
		t.Fatalf("expected nil batch, got %d requests", len(batch))
	}
}
