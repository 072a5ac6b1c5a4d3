package service

import (
	"context"
	"sync"

	"quill/internal/modkit/repokit"
	"quill/internal/platform/clock"
	"quill/internal/platform/events"
	"quill/internal/platform/logger"
	"quill/internal/services/writer/domain"
)

// Runner owns the shared queue and its worker partitions. Each partition
// drains the queue through its own Collector and runs its own transactions;
// ordering holds within a partition's batch, never across partitions
type Runner struct {
	cfg   domain.Config
	queue *Queue
	deps  workerDeps
	log   logger.Logger
}

type workerDeps struct {
	db    repokit.TxRunner
	docs  domain.DocSource
	index domain.IndexPort
	box   domain.OutboxPort
	bus   *events.Bus
	clk   clock.Clock
}

// NewRunner constructs the queue and the partition set
func NewRunner(
	cfg domain.Config,
	db repokit.TxRunner,
	docs domain.DocSource,
	index domain.IndexPort,
	box domain.OutboxPort,
	bus *events.Bus,
	clk clock.Clock,
	log logger.Logger,
) *Runner {
	cfg = cfg.Normalized()
	return &Runner{
		cfg:   cfg,
		queue: NewQueue(cfg.QueueCap),
		deps:  workerDeps{db: db, docs: docs, index: index, box: box, bus: bus, clk: clk},
		log:   log,
	}
}

// Queue returns the enqueue surface producers use
func (r *Runner) Queue() domain.QueuePort { return r.queue }

// Run starts every partition and blocks until all have exited. It returns
// nil on clean drain after Close, or the context error on cancellation
func (r *Runner) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	errs := make([]error, r.cfg.Partitions)

	for i := 0; i < r.cfg.Partitions; i++ {
		w := NewWorker(
			r.cfg,
			r.deps.db,
			NewCollector(r.queue, r.cfg.BatchMax, r.cfg.Window),
			r.deps.docs,
			r.deps.index,
			r.deps.box,
			r.deps.bus,
			r.deps.clk,
			r.log.With().Str("component", "writer").Int("partition", i).Logger(),
		)
		wg.Add(1)
		go func(i int, w *Worker) {
			defer wg.Done()
			errs[i] = w.Run(ctx)
		}(i, w)
	}

	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Close stops accepting new work; partitions drain what was already queued
func (r *Runner) Close() { r.queue.Close() }
