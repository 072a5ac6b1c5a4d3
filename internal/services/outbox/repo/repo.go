// Package repo persists outbox entries. Append runs on the batch
// transaction's Queryer; the drain side reads and settles entries in its
// own transactions
package repo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"quill/internal/modkit/repokit"
	docsdom "quill/internal/services/docs/domain"
	"quill/internal/services/outbox/domain"
)

// Store is the stateless outbox repository
type Store struct{}

// NewStore constructs a Store
func NewStore() Store { return Store{} }

// Append writes one entry per reindex event and per deletion, inside the
// caller's transaction so the intent commits atomically with the writes
// that caused it. Deletions are stamped with at, the caller's injected clock
func (Store) Append(ctx context.Context, q repokit.Queryer, evts []docsdom.ReindexEvent, deleted []string, at time.Time) error {
	for _, e := range evts {
		p := domain.Payload{DocID: e.DocID, Reason: string(e.Reason), OccurredUTC: e.OccurredAt.UTC()}
		if err := insert(ctx, q, domain.TypeIndexUpsert, p); err != nil {
			return err
		}
	}
	for _, id := range deleted {
		p := domain.Payload{DocID: id, OccurredUTC: at.UTC()}
		if err := insert(ctx, q, domain.TypeIndexDelete, p); err != nil {
			return err
		}
	}
	return nil
}

func insert(ctx context.Context, q repokit.Queryer, typ string, p domain.Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, `
		INSERT INTO outbox (id, type, payload, created_utc, attempts)
		VALUES (?, ?, ?, ?, 0)`,
		uuid.NewString(), typ, string(body), p.OccurredUTC.Format(time.RFC3339Nano),
	)
	return err
}

// Take returns up to limit pending entries oldest first, skipping entries
// that already burned maxAttempts
func (Store) Take(ctx context.Context, q repokit.Queryer, limit, maxAttempts int) ([]domain.Entry, error) {
	rows, err := q.Query(ctx, `
		SELECT id, type, payload, created_utc, attempts, COALESCE(last_error, '')
		FROM outbox
		WHERE attempts < ?
		ORDER BY created_utc, id
		LIMIT ?`,
		maxAttempts, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Entry
	for rows.Next() {
		var (
			e       domain.Entry
			payload string
			created string
		)
		if err := rows.Scan(&e.ID, &e.Type, &payload, &created, &e.Attempts, &e.LastError); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payload), &e.Payload); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			e.CreatedAt = t.UTC()
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Complete removes a settled entry
func (Store) Complete(ctx context.Context, q repokit.Queryer, id string) error {
	_, err := q.Exec(ctx, `DELETE FROM outbox WHERE id = ?`, id)
	return err
}

// Fail bumps the attempt counter and records the failure for inspection
func (Store) Fail(ctx context.Context, q repokit.Queryer, id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	_, err := q.Exec(ctx, `
		UPDATE outbox SET attempts = attempts + 1, last_error = ? WHERE id = ?`,
		msg, id,
	)
	return err
}
