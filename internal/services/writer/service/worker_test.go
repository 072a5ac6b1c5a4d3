package service

import (
	"context"
	stderrs "errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"quill/internal/platform/clock"
	"quill/internal/platform/events"
	"quill/internal/platform/store"
	"quill/internal/platform/testkit"
	docsdom "quill/internal/services/docs/domain"
	docsrepo "quill/internal/services/docs/repo"
	outboxrepo "quill/internal/services/outbox/repo"
	searchrepo "quill/internal/services/search/repo"
	searchsvc "quill/internal/services/search/service"
	"quill/internal/services/writer/domain"
)

func newWorkerHarness(t *testing.T, mode domain.Mode) (*Worker, *Queue, *store.Store, *events.Bus) {
	t.Helper()
	st := testkit.NewLiteStore(t)
	q := NewQueue(16)
	bus := events.New(zerolog.Nop())
	w := NewWorker(
		domain.Config{BatchMax: 8, Window: 10 * time.Millisecond, Mode: mode},
		st.DB,
		NewCollector(q, 8, 10*time.Millisecond),
		docsrepo.NewTxStore(),
		searchsvc.NewIndexer(nil),
		outboxrepo.NewStore(),
		bus,
		clock.System{},
		zerolog.Nop(),
	)
	return w, q, st, bus
}

func makeReq(fn domain.WriteFunc) *request {
	return &request{fn: fn, done: make(chan result, 1)}
}

func insertDocUnit(id, title, content string) domain.WriteFunc {
	return func(ctx context.Context, scope *domain.TxScope) (any, error) {
		now := scope.Clock.Now()
		d := docsdom.Document{
			ID: id, Title: title, Mime: "text/plain", Content: content,
			Version: 1, SearchStale: true, CreatedAt: now, UpdatedAt: now,
		}
		if err := docsrepo.NewLite().Bind(scope.Q).Insert(ctx, d); err != nil {
			return nil, err
		}
		scope.Docs.Added(id)
		scope.Docs.Raise(docsdom.ReindexEvent{DocID: id, Reason: docsdom.ReasonCreated, OccurredAt: now})
		return id, nil
	}
}

func waitResult(t *testing.T, r *request) result {
	t.Helper()
	select {
	case res := <-r.done:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("request never resolved")
		return result{}
	}
}

func TestWorker_CommitResolvesResultsInOrderAndIndexes(t *testing.T) {
	t.Parallel()
	w, _, st, bus := newWorkerHarness(t, domain.ModeSameTx)
	ctx := context.Background()

	var published int
	bus.Subscribe(docsdom.EventKindReindex, func(context.Context, any) error {
		published++
		return nil
	})

	ids := []string{"doc-a", "doc-b", "doc-c"}
	batch := []*request{
		makeReq(insertDocUnit(ids[0], "Alpha", "the quick brown fox")),
		makeReq(insertDocUnit(ids[1], "Beta", "jumps over")),
		makeReq(insertDocUnit(ids[2], "Gamma", "the lazy dog")),
	}
	w.runBatch(ctx, batch)

	for i, req := range batch {
		res := waitResult(t, req)
		if res.err != nil {
			t.Fatalf("unit %d failed: %v", i, res.err)
		}
		if res.val != ids[i] {
			t.Fatalf("result order broken: got %v want %s", res.val, ids[i])
		}
	}
	if published != 3 {
		t.Fatalf("published %d events, want 3", published)
	}

	// same-transaction mode must leave every document indexed and stamped
	for _, id := range ids {
		d, err := docsrepo.NewTxStore().Get(ctx, st.DB, id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		if d.SearchStale {
			t.Fatalf("%s still stale after commit", id)
		}
		if d.IndexedSchema == 0 || d.IndexedAt.IsZero() {
			t.Fatalf("%s missing index stamp", id)
		}
	}

	hits, err := searchrepo.NewBridge().Search(ctx, st.DB, "fox", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].DocID != "doc-a" {
		t.Fatalf("search hits = %+v, want doc-a", hits)
	}
}

func TestWorker_FailingUnitAbortsWholeBatch(t *testing.T) {
	t.Parallel()
	w, _, st, _ := newWorkerHarness(t, domain.ModeSameTx)
	ctx := context.Background()

	boom := stderrs.New("unit exploded")
	batch := []*request{
		makeReq(insertDocUnit("doc-ok", "Fine", "harmless")),
		makeReq(func(context.Context, *domain.TxScope) (any, error) { return nil, boom }),
	}
	w.runBatch(ctx, batch)

	// all-or-nothing: the healthy unit fails with the same error
	for i, req := range batch {
		res := waitResult(t, req)
		if !stderrs.Is(res.err, boom) {
			t.Fatalf("unit %d error = %v, want %v", i, res.err, boom)
		}
	}

	var n int
	if err := st.DB.QueryRow(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("rolled-back batch left %d rows", n)
	}
}

func TestWorker_DeleteRemovesSearchProjection(t *testing.T) {
	t.Parallel()
	w, _, st, _ := newWorkerHarness(t, domain.ModeSameTx)
	ctx := context.Background()

	first := makeReq(insertDocUnit("doc-x", "Doomed", "transient words"))
	w.runBatch(ctx, []*request{first})
	if res := waitResult(t, first); res.err != nil {
		t.Fatalf("insert batch: %v", res.err)
	}

	second := makeReq(func(ctx context.Context, scope *domain.TxScope) (any, error) {
		if err := docsrepo.NewLite().Bind(scope.Q).Delete(ctx, "doc-x"); err != nil {
			return nil, err
		}
		scope.Docs.Deleted("doc-x")
		return "doc-x", nil
	})
	w.runBatch(ctx, []*request{second})
	if res := waitResult(t, second); res.err != nil {
		t.Fatalf("delete batch: %v", res.err)
	}

	hits, err := searchrepo.NewBridge().Search(ctx, st.DB, "transient", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("projection survived delete: %+v", hits)
	}
}

func TestWorker_OutboxModeDefersProjection(t *testing.T) {
	t.Parallel()
	w, _, st, _ := newWorkerHarness(t, domain.ModeOutbox)
	ctx := context.Background()

	req := makeReq(insertDocUnit("doc-later", "Deferred", "catch up soon"))
	w.runBatch(ctx, []*request{req})
	if res := waitResult(t, req); res.err != nil {
		t.Fatalf("batch: %v", res.err)
	}

	d, err := docsrepo.NewTxStore().Get(ctx, st.DB, "doc-later")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !d.SearchStale {
		t.Fatal("outbox mode must not index inside the batch")
	}

	var pending int
	if err := st.DB.QueryRow(ctx, `SELECT COUNT(*) FROM outbox`).Scan(&pending); err != nil {
		t.Fatalf("count outbox: %v", err)
	}
	if pending != 1 {
		t.Fatalf("outbox rows = %d, want 1", pending)
	}
}

func TestWorker_RunExitsNilAfterCloseAndDrain(t *testing.T) {
	t.Parallel()
	w, q, _, _ := newWorkerHarness(t, domain.ModeSameTx)

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()

	p, err := q.Enqueue(context.Background(), insertDocUnit("doc-last", "Last", "closing time"))
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if _, err := p.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}

	q.Close()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run exited with %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not exit after close")
	}
}
