// Package domain holds the write-coalescing contracts: units of work, the
// transaction scope they run in, and batch outcomes
package domain

import (
	"context"
	"time"

	"quill/internal/modkit/repokit"
	"quill/internal/platform/clock"
	docsdom "quill/internal/services/docs/domain"
)

// TxScope is what a unit of work sees while it runs: the transaction-bound
// Queryer, the batch change tracker, and the injected clock. A unit must not
// retain the scope beyond its own invocation; the transaction it is bound to
// ends with the batch
type TxScope struct {
	Q     repokit.Queryer
	Docs  *docsdom.Tracker
	Clock clock.Clock
}

// WriteFunc is one opaque unit of work. It runs inside an active batch
// transaction, mutates storage through scope.Q, records entity changes and
// reindex intent on scope.Docs, and returns its result or error.
// It is consumed exactly once and resolved exactly once
type WriteFunc func(ctx context.Context, scope *TxScope) (any, error)

// Outcome is the tagged result of executing one batch:
// Committed carries per-unit results in submission order, Aborted carries
// the first failing unit's error, which every unit in the batch observes.
// A batch is all-or-nothing: a valid unit sharing a batch with a failing one
// fails too, because one transaction cannot partially commit
type Outcome struct {
	Committed bool
	Results   []any
	Err       error
}

// CommittedOutcome builds the success variant
func CommittedOutcome(results []any) Outcome { return Outcome{Committed: true, Results: results} }

// AbortedOutcome builds the failure variant
func AbortedOutcome(err error) Outcome { return Outcome{Err: err} }

// Mode selects how index maintenance couples to the primary write
type Mode string

// Indexing modes
const (
	// ModeSameTx applies index maintenance inside the batch transaction;
	// the index is always consistent with primary data
	ModeSameTx Mode = "same-transaction"

	// ModeOutbox writes durable outbox rows instead; the index catches up
	// asynchronously and is eventually consistent
	ModeOutbox Mode = "outbox"
)

// Config is the writer configuration surface
type Config struct {
	// QueueCap bounds the write queue; a full queue blocks producers
	QueueCap int
	// BatchMax caps the number of units coalesced into one transaction
	BatchMax int
	// Window bounds how long the collector waits for more units after the first
	Window time.Duration
	// Partitions is the number of worker loops draining the shared queue.
	// Ordering is only guaranteed within one worker's batch
	Partitions int
	// Mode selects same-transaction or outbox index maintenance
	Mode Mode
}

// Normalized returns cfg with zero fields replaced by defaults
func (c Config) Normalized() Config {
	if c.QueueCap <= 0 {
		c.QueueCap = 256
	}
	if c.BatchMax <= 0 {
		c.BatchMax = 32
	}
	if c.Window <= 0 {
		c.Window = 50 * time.Millisecond
	}
	if c.Partitions <= 0 {
		c.Partitions = 1
	}
	if c.Mode == "" {
		c.Mode = ModeSameTx
	}
	return c
}
