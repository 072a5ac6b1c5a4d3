package repokit

import (
	"context"
	"testing"

	"quill/internal/platform/store"
	"quill/internal/platform/testkit"
)

func TestRequireQueryer_PanicsOnNil(t *testing.T) {
	t.Parallel()
	testkit.MustPanic(t, func() { RequireQueryer(nil) })
}

func TestMustBind_ValidatesBeforeBinding(t *testing.T) {
	t.Parallel()
	st := testkit.NewLiteStore(t)
	b := BindFunc[Queryer](func(q Queryer) Queryer { return q })

	testkit.MustNotPanic(t, func() {
		if got := MustBind(b, st.DB); got == nil {
			t.Fatal("bound queryer is nil")
		}
	})
	testkit.MustPanic(t, func() { MustBind(b, nil) })
}

func TestMustPing(t *testing.T) {
	t.Parallel()
	st := testkit.NewLiteStore(t)
	ctx := context.Background()

	p, ok := any(st.DB).(store.Pinger)
	if !ok {
		t.Fatal("store adapter lost its Ping seam")
	}
	testkit.MustNotPanic(t, func() { MustPing(ctx, "store", p) })
	testkit.MustPanic(t, func() { MustPing(ctx, "store", nil) })
}

func TestMustGuard_PassesOnHealthyStore(t *testing.T) {
	t.Parallel()
	st := testkit.NewLiteStore(t)
	testkit.MustNotPanic(t, func() { MustGuard(context.Background(), st) })
}

func TestWithTx_CommitsAndRollsBack(t *testing.T) {
	t.Parallel()
	st := testkit.NewLiteStore(t)
	ctx := context.Background()

	err := WithTx(ctx, st.DB, func(q Queryer) error {
		_, err := q.Exec(ctx, `INSERT INTO idempotency_keys (key, created_utc) VALUES ('tx-1', '2026-01-01T00:00:00Z')`)
		return err
	})
	if err != nil {
		t.Fatalf("committed tx: %v", err)
	}

	rollback := context.Canceled
	err = WithTx(ctx, st.DB, func(q Queryer) error {
		_, err := q.Exec(ctx, `INSERT INTO idempotency_keys (key, created_utc) VALUES ('tx-2', '2026-01-01T00:00:00Z')`)
		if err != nil {
			return err
		}
		return rollback
	})
	if err != rollback {
		t.Fatalf("tx error = %v", err)
	}

	var n int
	if err := st.DB.QueryRow(ctx, `SELECT COUNT(*) FROM idempotency_keys`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("rows = %d, want the committed row only", n)
	}
}
