package repo

import (
	"context"
	"testing"
	"time"

	perr "quill/internal/platform/errors"
	"quill/internal/platform/testkit"
	"quill/internal/services/docs/domain"
)

func seedDoc(t *testing.T, st Storage, id string) domain.Document {
	t.Helper()
	now := time.Now().UTC()
	d := domain.Document{
		ID: id, Title: "Seed", Mime: "text/plain", Author: "tester",
		Content: "body", Version: 1, SearchStale: true,
		CreatedAt: now, UpdatedAt: now,
	}
	if err := st.Insert(context.Background(), d); err != nil {
		t.Fatalf("seed insert: %v", err)
	}
	return d
}

func TestStorage_InsertGetRoundtrip(t *testing.T) {
	t.Parallel()
	store := testkit.NewLiteStore(t)
	st := NewLite().Bind(store.DB)

	want := seedDoc(t, st, "doc-1")
	got, err := st.Get(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != want.Title || got.Content != want.Content || got.Version != 1 {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
	if !got.SearchStale {
		t.Fatal("new document must start stale")
	}
	if got.IndexedSchema != 0 || !got.IndexedAt.IsZero() {
		t.Fatalf("new document carries an index stamp: %+v", got)
	}
}

func TestStorage_InsertDuplicateID(t *testing.T) {
	t.Parallel()
	store := testkit.NewLiteStore(t)
	st := NewLite().Bind(store.DB)

	d := seedDoc(t, st, "doc-dup")
	err := st.Insert(context.Background(), d)
	if !perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
		t.Fatalf("expected duplicate key, got %v", err)
	}
}

func TestStorage_GetMissing(t *testing.T) {
	t.Parallel()
	store := testkit.NewLiteStore(t)
	st := NewLite().Bind(store.DB)

	_, err := st.Get(context.Background(), "nope")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStorage_UpdateStaleVersionConflicts(t *testing.T) {
	t.Parallel()
	store := testkit.NewLiteStore(t)
	st := NewLite().Bind(store.DB)
	ctx := context.Background()

	d := seedDoc(t, st, "doc-v")
	d.Title = "Renamed"
	d.Version = 2
	if err := st.Update(ctx, d, 1); err != nil {
		t.Fatalf("update: %v", err)
	}

	// second writer still holding version 1 loses
	d.Title = "Late"
	err := st.Update(ctx, d, 1)
	if !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	got, err := st.Get(ctx, "doc-v")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Renamed" || got.Version != 2 {
		t.Fatalf("loser overwrote winner: %+v", got)
	}
}

func TestStorage_DeleteMissing(t *testing.T) {
	t.Parallel()
	store := testkit.NewLiteStore(t)
	st := NewLite().Bind(store.DB)

	err := st.Delete(context.Background(), "ghost")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStorage_StampIndexedClearsStale(t *testing.T) {
	t.Parallel()
	store := testkit.NewLiteStore(t)
	st := NewLite().Bind(store.DB)
	ctx := context.Background()

	seedDoc(t, st, "doc-s")
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if err := st.StampIndexed(ctx, "doc-s", 1, at); err != nil {
		t.Fatalf("stamp: %v", err)
	}

	got, err := st.Get(ctx, "doc-s")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SearchStale {
		t.Fatal("stamp left document stale")
	}
	if got.IndexedSchema != 1 || !got.IndexedAt.Equal(at) {
		t.Fatalf("bad stamp: schema=%d at=%v", got.IndexedSchema, got.IndexedAt)
	}

	if err := st.MarkStale(ctx, "doc-s"); err != nil {
		t.Fatalf("mark stale: %v", err)
	}
	got, _ = st.Get(ctx, "doc-s")
	if !got.SearchStale {
		t.Fatal("mark stale had no effect")
	}
}
