// Package lite owns the embedded SQLite handle: open, pragmas, and the
// one-time schema initialization gate
package lite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Config configures the embedded database
type Config struct {
	// Path is the database file; ":memory:" opens a private in-memory database
	Path string
	// BusyTimeout is handed to the engine's busy handler before SQLITE_BUSY surfaces
	BusyTimeout time.Duration
	// SlowMs marks traced queries slower than this as slow; negative disables the flag
	SlowMs int
	// Tracer receives per-statement query events when non-nil
	Tracer QueryTracer
}

// DB wraps the sql handle plus trace settings shared by the adapters
type DB struct {
	SQL    *sql.DB
	Tracer QueryTracer
	SlowMs int

	path string

	initMu sync.Mutex
	inited bool
}

// Open opens the database and applies connection pragmas.
// The pool is pinned to a single connection: the engine is a single-writer
// store and the in-memory form does not survive connection churn
func Open(ctx context.Context, cfg Config) (*DB, error) {
	path := cfg.Path
	if path == "" {
		path = "quill.db"
	}
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
	} else {
		path = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", busy.Milliseconds()),
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}

	return &DB{SQL: db, Tracer: cfg.Tracer, SlowMs: cfg.SlowMs, path: cfg.Path}, nil
}

// EnsureInitialized creates the schema exactly once per process.
// It reports whether this call performed the initialization, so callers can
// log or act on first-time setup without ambient global state
func (d *DB) EnsureInitialized(ctx context.Context) (bool, error) {
	d.initMu.Lock()
	defer d.initMu.Unlock()
	if d.inited {
		return false, nil
	}

	tx, err := d.SQL.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin schema init: %w", err)
	}
	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return false, fmt.Errorf("schema init: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit schema init: %w", err)
	}

	d.inited = true
	return true, nil
}

// Ping reports readiness
func (d *DB) Ping(ctx context.Context) error { return d.SQL.PingContext(ctx) }

// Path returns the configured database path
func (d *DB) Path() string { return d.path }

// Close closes the handle
func (d *DB) Close() error { return d.SQL.Close() }
