// Package domain holds the idempotency contracts
package domain

import (
	"context"
	"time"

	"quill/internal/modkit/repokit"
)

// KeyPort registers request keys inside the caller's transaction.
// Registration rides the batch transaction: commit makes the key durable,
// rollback unregisters it, so a failed request can be retried with the
// same key
type KeyPort interface {
	// TryRegister claims key. false means the key was already claimed by a
	// committed request; the claim itself is never an error
	TryRegister(ctx context.Context, q repokit.Queryer, key string, at time.Time) (bool, error)

	// MarkProcessed refreshes the claim timestamp after success
	MarkProcessed(ctx context.Context, q repokit.Queryer, key string, at time.Time) error

	// MarkFailed releases a claim that was made outside a batch transaction.
	// Never call it on a claim whose registration rode a batch: rollback is
	// the release there, and a surviving row belongs to a committed request
	MarkFailed(ctx context.Context, q repokit.Queryer, key string) error
}

// SweeperPort expires old keys so the table stays bounded
type SweeperPort interface {
	Run(ctx context.Context) error
	SweepOnce(ctx context.Context) (int64, error)
}
