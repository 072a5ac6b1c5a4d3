package lite

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(context.Background(), Config{
		Path: filepath.Join(t.TempDir(), "lite_test.db"),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestEnsureInitialized_ReportsFirstCallOnly(t *testing.T) {
	t.Parallel()
	d := openTestDB(t)
	ctx := context.Background()

	created, err := d.EnsureInitialized(ctx)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !created {
		t.Fatal("first call must report initialization")
	}

	created, err = d.EnsureInitialized(ctx)
	if err != nil {
		t.Fatalf("re-init: %v", err)
	}
	if created {
		t.Fatal("second call must be a no-op")
	}
}

func TestEnsureInitialized_SchemaIsUsable(t *testing.T) {
	t.Parallel()
	d := openTestDB(t)
	ctx := context.Background()

	if _, err := d.EnsureInitialized(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	for _, table := range []string{"documents", "idempotency_keys", "doc_fts_map", "outbox"} {
		var n int
		if err := d.SQL.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
			t.Fatalf("table %s unusable: %v", table, err)
		}
	}

	// the full-text table accepts a MATCH query
	rows, err := d.SQL.QueryContext(ctx, `SELECT rowid FROM doc_fts WHERE doc_fts MATCH ?`, "anything")
	if err != nil {
		t.Fatalf("fts query: %v", err)
	}
	_ = rows.Close()
}

func TestOpen_DefaultsAndPing(t *testing.T) {
	t.Parallel()
	d := openTestDB(t)

	if err := d.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}

	var mode string
	if err := d.SQL.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Fatalf("journal_mode = %q, want wal", mode)
	}
}
