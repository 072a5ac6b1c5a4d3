// Package repo persists idempotency keys. Uniqueness is enforced by the
// storage engine's primary key, never by application-level locks
package repo

import (
	"context"
	"time"

	"quill/internal/modkit/repokit"
	perr "quill/internal/platform/errors"
)

// Store is the stateless idempotency repository
type Store struct{}

// NewStore constructs a Store
func NewStore() Store { return Store{} }

// TryRegister implements domain.KeyPort. A duplicate key reads as a
// committed earlier claim, not a failure; the constraint violation stays
// statement-scoped so the surrounding transaction remains healthy
func (Store) TryRegister(ctx context.Context, q repokit.Queryer, key string, at time.Time) (bool, error) {
	_, err := q.Exec(ctx, `
		INSERT INTO idempotency_keys (key, created_utc) VALUES (?, ?)`,
		key, at.UTC().Format(time.RFC3339Nano),
	)
	if perr.IsDuplicateKey(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkProcessed refreshes the claim's timestamp once the request's effects
// are durable, so the TTL runs from completion rather than first claim
func (Store) MarkProcessed(ctx context.Context, q repokit.Queryer, key string, at time.Time) error {
	_, err := q.Exec(ctx, `UPDATE idempotency_keys SET created_utc = ? WHERE key = ?`,
		at.UTC().Format(time.RFC3339Nano), key,
	)
	return err
}

// MarkFailed releases a claim made outside a batch transaction so a
// legitimate retry can re-register. Claims made inside a rolled-back batch
// are already gone; releasing an absent key is a no-op
func (Store) MarkFailed(ctx context.Context, q repokit.Queryer, key string) error {
	_, err := q.Exec(ctx, `DELETE FROM idempotency_keys WHERE key = ?`, key)
	return err
}

// PurgeOlderThan deletes keys registered before cutoff and reports how many
func (Store) PurgeOlderThan(ctx context.Context, q repokit.Queryer, cutoff time.Time) (int64, error) {
	tag, err := q.Exec(ctx, `DELETE FROM idempotency_keys WHERE created_utc < ?`,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
