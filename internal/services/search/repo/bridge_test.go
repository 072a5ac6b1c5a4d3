package repo

import (
	"context"
	"testing"
	"time"

	"quill/internal/modkit/repokit"
	"quill/internal/platform/testkit"
)

// insertDoc seeds a bare documents row so search joins have something to hit
func insertDoc(t *testing.T, q repokit.Queryer, id, title string) {
	t.Helper()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := q.Exec(context.Background(), `
		INSERT INTO documents (id, title, version, search_stale, created_utc, updated_utc)
		VALUES (?, ?, 1, 1, ?, ?)`, id, title, now, now)
	if err != nil {
		t.Fatalf("seed document %s: %v", id, err)
	}
}

func TestBridge_EnsureRowIDIsStable(t *testing.T) {
	t.Parallel()
	store := testkit.NewLiteStore(t)
	b := NewBridge()
	ctx := context.Background()

	first, err := b.EnsureRowID(ctx, store.DB, "doc-1")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	second, err := b.EnsureRowID(ctx, store.DB, "doc-1")
	if err != nil {
		t.Fatalf("re-ensure: %v", err)
	}
	if first != second {
		t.Fatalf("rowid changed across calls: %d != %d", first, second)
	}

	other, err := b.EnsureRowID(ctx, store.DB, "doc-2")
	if err != nil {
		t.Fatalf("ensure other: %v", err)
	}
	if other == first {
		t.Fatal("distinct documents share a rowid")
	}
}

func TestBridge_IndexRowReplacesPriorContent(t *testing.T) {
	t.Parallel()
	store := testkit.NewLiteStore(t)
	b := NewBridge()
	ctx := context.Background()

	insertDoc(t, store.DB, "doc-1", "Notes")
	rowID, err := b.EnsureRowID(ctx, store.DB, "doc-1")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := b.IndexRow(ctx, store.DB, rowID, "notes", "text/plain", "", "first draft"); err != nil {
		t.Fatalf("index: %v", err)
	}
	if err := b.IndexRow(ctx, store.DB, rowID, "notes", "text/plain", "", "final version"); err != nil {
		t.Fatalf("reindex: %v", err)
	}

	if hits, _ := b.Search(ctx, store.DB, "draft", 10); len(hits) != 0 {
		t.Fatalf("stale content still matches: %+v", hits)
	}
	hits, err := b.Search(ctx, store.DB, "final", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].DocID != "doc-1" {
		t.Fatalf("hits = %+v, want doc-1", hits)
	}
}

func TestBridge_DeleteIsIdempotent(t *testing.T) {
	t.Parallel()
	store := testkit.NewLiteStore(t)
	b := NewBridge()
	ctx := context.Background()

	// deleting a never-indexed document is a no-op, not an error
	if err := b.Delete(ctx, store.DB, "ghost"); err != nil {
		t.Fatalf("delete unindexed: %v", err)
	}

	insertDoc(t, store.DB, "doc-1", "Doomed")
	rowID, _ := b.EnsureRowID(ctx, store.DB, "doc-1")
	if err := b.IndexRow(ctx, store.DB, rowID, "doomed", "text/plain", "", "short lived"); err != nil {
		t.Fatalf("index: %v", err)
	}

	if err := b.Delete(ctx, store.DB, "doc-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := b.Delete(ctx, store.DB, "doc-1"); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
	if hits, _ := b.Search(ctx, store.DB, "lived", 10); len(hits) != 0 {
		t.Fatalf("deleted projection still matches: %+v", hits)
	}
}

func TestBridge_SearchJoinsBackToLiveDocuments(t *testing.T) {
	t.Parallel()
	store := testkit.NewLiteStore(t)
	b := NewBridge()
	ctx := context.Background()

	insertDoc(t, store.DB, "doc-live", "Kept")
	rowID, _ := b.EnsureRowID(ctx, store.DB, "doc-live")
	if err := b.IndexRow(ctx, store.DB, rowID, "kept", "text/plain", "", "shared phrase"); err != nil {
		t.Fatalf("index live: %v", err)
	}

	// an orphaned projection (document row gone) must not surface
	orphan, _ := b.EnsureRowID(ctx, store.DB, "doc-gone")
	if err := b.IndexRow(ctx, store.DB, orphan, "gone", "text/plain", "", "shared phrase"); err != nil {
		t.Fatalf("index orphan: %v", err)
	}

	hits, err := b.Search(ctx, store.DB, "shared", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].DocID != "doc-live" {
		t.Fatalf("hits = %+v, want only doc-live", hits)
	}
}
