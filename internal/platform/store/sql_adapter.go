package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"quill/internal/platform/retry"
	"quill/internal/platform/store/lite"
)

// liteAdapter wraps lite.DB and implements RowQuerier + TxRunner
// it emits query trace events when a tracer is configured and retries
// individual write statements and commits on busy/locked contention
type liteAdapter struct {
	d   *lite.DB
	pol retry.Policy
}

func newLiteAdapter(d *lite.DB, pol retry.Policy) *liteAdapter {
	if pol.MaxAttempts == 0 {
		pol = retry.DefaultPolicy()
	}
	return &liteAdapter{d: d, pol: pol}
}

func (a *liteAdapter) Ping(ctx context.Context) error {
	if a == nil {
		return errors.New("lite: nil adapter")
	}
	return a.d.Ping(ctx)
}

func (a *liteAdapter) Exec(ctx context.Context, sqlText string, args ...any) (CommandTag, error) {
	var res sql.Result
	start := time.Now()
	err := retry.Execute(ctx, a.pol, func() error {
		var e error
		res, e = a.d.SQL.ExecContext(ctx, sqlText, args...)
		return e
	})
	a.emit(ctx, sqlText, args, start, err)
	return tag{res}, err
}

func (a *liteAdapter) Query(ctx context.Context, sqlText string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := a.d.SQL.QueryContext(ctx, sqlText, args...)
	a.emit(ctx, sqlText, args, start, err)
	if err != nil {
		return nil, err
	}
	return rows{r: rs}, nil
}

func (a *liteAdapter) QueryRow(ctx context.Context, sqlText string, args ...any) Row {
	start := time.Now()
	r := a.d.SQL.QueryRowContext(ctx, sqlText, args...)
	// wrap to emit after Scan completes, capturing error from Scan
	return row{
		r: r,
		after: func(scanErr error) {
			a.emit(ctx, sqlText, args, start, scanErr)
		},
	}
}

// Tx runs fn inside one transaction. The transaction object is exclusively
// owned by the caller for its duration; commit is retried on busy contention,
// any error from fn rolls back and propagates unchanged
func (a *liteAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	var tx *sql.Tx
	if err := retry.Execute(ctx, a.pol, func() error {
		var e error
		tx, e = a.d.SQL.BeginTx(ctx, nil)
		return e
	}); err != nil {
		return err
	}

	q := txQuerier{tx: tx, a: a}
	if err := fn(q); err != nil {
		_ = tx.Rollback()
		return err
	}
	return retry.Execute(ctx, a.pol, tx.Commit)
}

// emit sends a query event to the configured tracer
func (a *liteAdapter) emit(ctx context.Context, sqlText string, args []any, start time.Time, err error) {
	if a == nil || a.d == nil || a.d.Tracer == nil {
		return
	}
	elapsedUS := time.Since(start).Microseconds()
	slow := a.d.SlowMs >= 0 && elapsedUS >= int64(a.d.SlowMs)*1000
	a.d.Tracer.OnQuery(ctx, lite.QueryEvent{
		SQL:       sqlText,
		Args:      args,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      slow,
	})
}

// adapters for database/sql to our tiny Row/Rows/CommandTag

type row struct {
	r     *sql.Row
	after func(error)
}

func (x row) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}

type rows struct{ r *sql.Rows }

func (x rows) Next() bool            { return x.r.Next() }
func (x rows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x rows) Err() error            { return x.r.Err() }
func (x rows) Close()                { _ = x.r.Close() }
func (x rows) Columns() []string {
	cols, err := x.r.Columns()
	if err != nil {
		return nil
	}
	return cols
}

// tag wraps sql.Result so we satisfy our CommandTag interface
type tag struct{ r sql.Result }

func (t tag) RowsAffected() int64 {
	if t.r == nil {
		return 0
	}
	n, err := t.r.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}

// txQuerier uses *sql.Tx to satisfy RowQuerier inside a Tx
// it mirrors liteAdapter emit and retry behavior so statements inside
// transactions are also traced and survive short-lived contention
type txQuerier struct {
	tx *sql.Tx
	a  *liteAdapter
}

func (t txQuerier) Exec(ctx context.Context, sqlText string, args ...any) (CommandTag, error) {
	var res sql.Result
	start := time.Now()
	err := retry.Execute(ctx, t.a.pol, func() error {
		var e error
		res, e = t.tx.ExecContext(ctx, sqlText, args...)
		return e
	})
	t.a.emit(ctx, sqlText, args, start, err)
	return tag{res}, err
}

func (t txQuerier) Query(ctx context.Context, sqlText string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := t.tx.QueryContext(ctx, sqlText, args...)
	t.a.emit(ctx, sqlText, args, start, err)
	if err != nil {
		return nil, err
	}
	return rows{r: rs}, nil
}

func (t txQuerier) QueryRow(ctx context.Context, sqlText string, args ...any) Row {
	start := time.Now()
	r := t.tx.QueryRowContext(ctx, sqlText, args...)
	return row{
		r: r,
		after: func(scanErr error) {
			t.a.emit(ctx, sqlText, args, start, scanErr)
		},
	}
}
