package testkit

import (
	"context"
	"path/filepath"
	"testing"

	"quill/internal/platform/store"
)

// NewLiteStore opens an initialized throwaway store backed by a per-test
// database file. File-backed rather than in-memory so parallel tests never
// share state through the process-wide memory cache
func NewLiteStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.Open(context.Background(), store.Config{
		AppName: "test",
		Lite: store.LiteConfig{
			Path: filepath.Join(t.TempDir(), "quill_test.db"),
		},
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	if _, err := st.EnsureInitialized(context.Background()); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return st
}
