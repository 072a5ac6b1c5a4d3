package repo

import (
	"context"
	"time"

	"quill/internal/modkit/repokit"
	"quill/internal/services/docs/domain"
)

// TxStore exposes the subset of Storage the batch coordinator and outbox
// worker need, with the Queryer passed explicitly per call so every
// statement joins the caller's transaction
type TxStore struct{ bind repokit.Binder[Storage] }

// NewTxStore constructs a TxStore over the lite binder
func NewTxStore() TxStore { return TxStore{bind: NewLite()} }

// Get loads one document inside the caller's transaction
func (t TxStore) Get(ctx context.Context, q repokit.Queryer, id string) (domain.Document, error) {
	return t.bind.Bind(q).Get(ctx, id)
}

// StampIndexed confirms the document's projection inside the caller's transaction
func (t TxStore) StampIndexed(ctx context.Context, q repokit.Queryer, id string, schema int64, at time.Time) error {
	return t.bind.Bind(q).StampIndexed(ctx, id, schema, at)
}
