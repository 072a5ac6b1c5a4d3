package service

import (
	"context"
	stderrs "errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"quill/internal/modkit/repokit"
	"quill/internal/platform/clock"
	"quill/internal/platform/store"
	"quill/internal/platform/testkit"
	docsdom "quill/internal/services/docs/domain"
	docsrepo "quill/internal/services/docs/repo"
	"quill/internal/services/outbox/domain"
	"quill/internal/services/outbox/repo"
	searchrepo "quill/internal/services/search/repo"
	searchsvc "quill/internal/services/search/service"
	writerdom "quill/internal/services/writer/domain"
)

type failingIndex struct {
	writerdom.IndexPort
	err error
}

func (f failingIndex) IndexDocument(context.Context, repokit.Queryer, docsdom.Document) error {
	return f.err
}

func newDrainHarness(t *testing.T) (*Svc, *store.Store) {
	t.Helper()
	st := testkit.NewLiteStore(t)
	svc := New(st.DB, docsrepo.NewTxStore(), searchsvc.NewIndexer(nil), clock.System{},
		Config{Interval: 10 * time.Millisecond, TakeBatch: 16, MaxAttempts: 3}, zerolog.Nop())
	return svc, st
}

func seedStaleDoc(t *testing.T, st *store.Store, id, content string) {
	t.Helper()
	now := time.Now().UTC()
	d := docsdom.Document{
		ID: id, Title: "Pending", Mime: "text/plain", Content: content,
		Version: 1, SearchStale: true, CreatedAt: now, UpdatedAt: now,
	}
	if err := docsrepo.NewLite().Bind(st.DB).Insert(context.Background(), d); err != nil {
		t.Fatalf("seed doc: %v", err)
	}
}

func appendUpsert(t *testing.T, st *store.Store, docID string) {
	t.Helper()
	evts := []docsdom.ReindexEvent{{DocID: docID, Reason: docsdom.ReasonCreated, OccurredAt: time.Now().UTC()}}
	if err := repo.NewStore().Append(context.Background(), st.DB, evts, nil, time.Now()); err != nil {
		t.Fatalf("append: %v", err)
	}
}

func outboxCount(t *testing.T, st *store.Store) int {
	t.Helper()
	var n int
	if err := st.DB.QueryRow(context.Background(), `SELECT COUNT(*) FROM outbox`).Scan(&n); err != nil {
		t.Fatalf("count outbox: %v", err)
	}
	return n
}

func TestAppend_StampsDeletionsWithCallerClock(t *testing.T) {
	t.Parallel()
	st := testkit.NewLiteStore(t)
	ctx := context.Background()

	at := time.Date(2026, 8, 26, 12, 30, 0, 0, time.UTC)
	if err := repo.NewStore().Append(ctx, st.DB, nil, []string{"doc-del"}, at); err != nil {
		t.Fatalf("append: %v", err)
	}

	entries, err := repo.NewStore().Take(ctx, st.DB, 10, 3)
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Type != domain.TypeIndexDelete || e.Payload.DocID != "doc-del" {
		t.Fatalf("entry = %+v", e)
	}
	if !e.Payload.OccurredUTC.Equal(at) || !e.CreatedAt.Equal(at) {
		t.Fatalf("occurred=%v created=%v, want both %v", e.Payload.OccurredUTC, e.CreatedAt, at)
	}
}

func TestDrainOnce_AppliesUpsertAndCompletes(t *testing.T) {
	t.Parallel()
	svc, st := newDrainHarness(t)
	ctx := context.Background()

	seedStaleDoc(t, st, "doc-1", "deferred body text")
	appendUpsert(t, st, "doc-1")

	n, err := svc.DrainOnce(ctx)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if n != 1 {
		t.Fatalf("settled %d entries, want 1", n)
	}
	if outboxCount(t, st) != 0 {
		t.Fatal("completed entry not removed")
	}

	d, err := docsrepo.NewTxStore().Get(ctx, st.DB, "doc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.SearchStale {
		t.Fatal("document still stale after drain")
	}
	hits, err := searchrepo.NewBridge().Search(ctx, st.DB, "deferred", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].DocID != "doc-1" {
		t.Fatalf("hits = %+v, want doc-1", hits)
	}
}

func TestDrainOnce_VanishedDocumentDropsProjection(t *testing.T) {
	t.Parallel()
	svc, st := newDrainHarness(t)
	ctx := context.Background()

	// upsert queued, then the document vanished before the drain ran
	appendUpsert(t, st, "doc-gone")

	n, err := svc.DrainOnce(ctx)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if n != 1 {
		t.Fatalf("settled %d entries, want 1", n)
	}
	if outboxCount(t, st) != 0 {
		t.Fatal("entry for vanished document not completed")
	}
}

func TestDrainOnce_FailureBumpsAttemptsThenGivesUp(t *testing.T) {
	t.Parallel()
	st := testkit.NewLiteStore(t)
	boom := stderrs.New("index unavailable")
	svc := New(st.DB, docsrepo.NewTxStore(),
		failingIndex{IndexPort: searchsvc.NewIndexer(nil), err: boom},
		clock.System{}, Config{TakeBatch: 16, MaxAttempts: 2}, zerolog.Nop())
	ctx := context.Background()

	seedStaleDoc(t, st, "doc-f", "never indexed")
	appendUpsert(t, st, "doc-f")

	for i := 0; i < 2; i++ {
		n, err := svc.DrainOnce(ctx)
		if err != nil {
			t.Fatalf("drain %d: %v", i, err)
		}
		if n != 0 {
			t.Fatalf("drain %d settled %d entries, want 0", i, n)
		}
	}

	var attempts int
	var lastErr string
	err := st.DB.QueryRow(ctx, `SELECT attempts, last_error FROM outbox`).Scan(&attempts, &lastErr)
	if err != nil {
		t.Fatalf("inspect entry: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
	testkit.MustContain(t, lastErr, boom.Error())

	// attempts exhausted: the entry is parked, not retaken
	if _, err := svc.DrainOnce(ctx); err != nil {
		t.Fatalf("final drain: %v", err)
	}
	if got := outboxCount(t, st); got != 1 {
		t.Fatalf("parked entry count = %d, want 1", got)
	}
}
