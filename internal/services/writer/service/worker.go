package service

import (
	"context"

	"quill/internal/modkit/repokit"
	"quill/internal/platform/clock"
	"quill/internal/platform/events"
	"quill/internal/platform/logger"
	docsdom "quill/internal/services/docs/domain"
	"quill/internal/services/writer/domain"
)

// Worker is the batch transaction coordinator. Each iteration collects one
// batch, runs every unit inside a single transaction in FIFO order, applies
// index maintenance, commits, resolves the waiting producers, and finally
// publishes domain events.
//
// At most one transaction is active per worker partition; batch N+1 does not
// begin until batch N committed or rolled back. That sequencing is what
// makes inspect-changes / stamp-indexed / commit safe without extra locking
type Worker struct {
	cfg   domain.Config
	db    repokit.TxRunner
	col   *Collector
	docs  domain.DocSource
	index domain.IndexPort
	box   domain.OutboxPort
	bus   *events.Bus
	clk   clock.Clock
	log   logger.Logger
}

// NewWorker constructs a Worker draining col into db
func NewWorker(
	cfg domain.Config,
	db repokit.TxRunner,
	col *Collector,
	docs domain.DocSource,
	index domain.IndexPort,
	box domain.OutboxPort,
	bus *events.Bus,
	clk clock.Clock,
	log logger.Logger,
) *Worker {
	return &Worker{
		cfg:   cfg.Normalized(),
		db:    db,
		col:   col,
		docs:  docs,
		index: index,
		box:   box,
		bus:   bus,
		clk:   clk,
		log:   log,
	}
}

// Run loops until ctx is cancelled or the queue is closed and drained
func (w *Worker) Run(ctx context.Context) error {
	for {
		batch := w.col.Collect(ctx)
		if len(batch) == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			if w.col.q.isClosed() && w.col.q.Depth() == 0 {
				return nil
			}
			continue
		}
		w.runBatch(ctx, batch)
	}
}

// runBatch executes one batch and always resolves every request exactly once
func (w *Worker) runBatch(ctx context.Context, batch []*request) {
	out, evts := w.execute(ctx, batch)
	w.settle(batch, out)

	if !out.Committed {
		return
	}
	// storage effects are final here; publication is best-effort and must
	// never re-fail the committed, resolved batch
	for _, e := range evts {
		w.bus.Publish(ctx, docsdom.EventKindReindex, e)
	}
}

// execute runs every unit inside one transaction and reports the batch
// outcome plus the reindex events drained before commit
func (w *Worker) execute(ctx context.Context, batch []*request) (domain.Outcome, []docsdom.ReindexEvent) {
	tracker := docsdom.NewTracker()
	results := make([]any, len(batch))
	var evts []docsdom.ReindexEvent

	err := w.db.Tx(ctx, func(q repokit.Queryer) error {
		scope := &domain.TxScope{Q: q, Docs: tracker, Clock: w.clk}
		for i, req := range batch {
			// cancellation counts as a unit failure: it aborts the batch
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := req.fn(ctx, scope)
			if err != nil {
				// first failure stops execution; remaining units never run
				return err
			}
			results[i] = v
		}
		evts = tracker.DrainEvents()
		return w.maintainIndex(ctx, q, tracker.Changes(), evts)
	})
	if err != nil {
		return domain.AbortedOutcome(err), nil
	}
	return domain.CommittedOutcome(results), evts
}

// settle resolves every waiting producer from the batch outcome
func (w *Worker) settle(batch []*request, out domain.Outcome) {
	if !out.Committed {
		// the transaction rolled back, so every unit's effects are gone:
		// fail the whole batch, innocent bystanders included
		for _, req := range batch {
			req.resolve(nil, out.Err)
		}
		batchesAborted.Inc()
		w.log.Warn().Err(out.Err).Int("batch_size", len(batch)).Msg("batch aborted")
		return
	}

	for i, req := range batch {
		req.resolve(out.Results[i], nil)
	}
	batchesCommitted.Inc()
	batchItems.Observe(float64(len(batch)))
}

// maintainIndex runs inside the batch transaction, after every unit has
// executed. Same-transaction mode projects stale and deleted entities into
// the full-text index and stamps them confirmed; outbox mode persists the
// intent durably instead
func (w *Worker) maintainIndex(
	ctx context.Context,
	q repokit.Queryer,
	changes []docsdom.Change,
	evts []docsdom.ReindexEvent,
) error {
	if w.cfg.Mode == domain.ModeOutbox {
		var deleted []string
		for _, ch := range changes {
			if ch.Kind == docsdom.ChangeDeleted {
				deleted = append(deleted, ch.DocID)
			}
		}
		if len(evts) == 0 && len(deleted) == 0 {
			return nil
		}
		return w.box.Append(ctx, q, evts, deleted, w.clk.Now())
	}

	for _, ch := range changes {
		if ch.Kind == docsdom.ChangeDeleted {
			if err := w.index.Delete(ctx, q, ch.DocID); err != nil {
				return err
			}
			continue
		}
		doc, err := w.docs.Get(ctx, q, ch.DocID)
		if err != nil {
			return err
		}
		if !doc.SearchStale {
			continue
		}
		if err := w.index.IndexDocument(ctx, q, doc); err != nil {
			return err
		}
		if err := w.docs.StampIndexed(ctx, q, doc.ID, w.index.SchemaVersion(), w.clk.Now()); err != nil {
			return err
		}
	}
	return nil
}
