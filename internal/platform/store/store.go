// Package store provides a unified interface to the embedded storage backend
package store

import (
	"context"
	"errors"

	"quill/internal/platform/logger"
	"quill/internal/platform/store/lite"
)

// Store is the facade over the embedded engine
// zero value is safe but does nothing
type Store struct {
	// Log is the logger used by subclients
	// zero means a no op zerolog logger
	Log logger.Logger

	// DB is the transactional sql seam
	DB TxRunner

	lite *lite.DB
}

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes the minimal iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag is a tiny interface to inspect command results
type CommandTag interface {
	RowsAffected() int64
}

// RowQuerier is the read and write surface repos use for sql
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner wraps transaction execution around a function
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Open constructs a Store backed by the embedded engine
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	// defaults for zero logger to avoid nil checks
	s.Log = s.Log.With().Logger()

	var tracer lite.QueryTracer
	if cfg.Lite.LogSQL {
		tracer = lite.Tracer(s.Log)
	}

	d, err := lite.Open(ctx, lite.Config{
		Path:        cfg.Lite.Path,
		BusyTimeout: cfg.Lite.BusyTimeout,
		SlowMs:      cfg.Lite.SlowQueryMs,
		Tracer:      tracer,
	})
	if err != nil {
		return nil, err
	}

	s.lite = d
	s.DB = newLiteAdapter(d, cfg.Retry)
	return s, nil
}

// EnsureInitialized creates the schema exactly once per process and reports
// whether this call performed the initialization
func (s *Store) EnsureInitialized(ctx context.Context) (bool, error) {
	if s == nil || s.lite == nil {
		return false, errors.New("store: not open")
	}
	return s.lite.EnsureInitialized(ctx)
}

// Guard verifies the configured seams the Store knows about
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	if s.DB != nil {
		if p, ok := any(s.DB).(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes the backend gracefully
func (s *Store) Close(context.Context) error {
	if s == nil || s.lite == nil {
		return nil
	}
	return s.lite.Close()
}
