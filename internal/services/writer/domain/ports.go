package domain

import (
	"context"
	"time"

	"quill/internal/modkit/repokit"
	docsdom "quill/internal/services/docs/domain"
)

// Pending is the caller's handle for a submitted unit of work.
// Wait suspends until the unit's batch commits or aborts; cancelling the
// caller's ctx abandons the wait but never unruns the unit - it still
// executes to completion and is resolved for bookkeeping
type Pending interface {
	Wait(ctx context.Context) (any, error)
}

// QueuePort accepts units of work for batched execution
type QueuePort interface {
	Enqueue(ctx context.Context, fn WriteFunc) (Pending, error)
}

// RunnerPort drives the worker partitions until shutdown
type RunnerPort interface {
	Run(ctx context.Context) error
	Close()
}

// DocSource is the document access the coordinator needs at commit time,
// transaction-explicit so statements join the batch transaction
type DocSource interface {
	Get(ctx context.Context, q repokit.Queryer, id string) (docsdom.Document, error)
	StampIndexed(ctx context.Context, q repokit.Queryer, id string, schema int64, at time.Time) error
}

// IndexPort is the full-text bridge surface the coordinator drives.
// All operations run inside the caller-supplied transaction
type IndexPort interface {
	IndexDocument(ctx context.Context, q repokit.Queryer, d docsdom.Document) error
	Delete(ctx context.Context, q repokit.Queryer, docID string) error
	SchemaVersion() int64
}

// OutboxPort persists index-affecting events durably inside the batch
// transaction, for deferred application by the outbox worker. Deletions
// carry no event of their own, so they are stamped with the batch clock's at
type OutboxPort interface {
	Append(ctx context.Context, q repokit.Queryer, evts []docsdom.ReindexEvent, deleted []string, at time.Time) error
}
