// Package service implements the full-text indexer and the query side
package service

import (
	"context"

	"quill/internal/modkit/repokit"
	docsdom "quill/internal/services/docs/domain"
	"quill/internal/services/search/domain"
	"quill/internal/services/search/repo"
)

// schemaVersion stamps each confirmed projection. Bump it when the pipeline
// or the indexed column set changes so existing rows read as needing reindex
const schemaVersion int64 = 1

// Indexer projects documents into the full-text index. Every operation runs
// on the caller's Queryer so the projection commits or rolls back with the
// primary write
type Indexer struct {
	bridge repo.Bridge
	ex     domain.ExtractorPort
}

// NewIndexer constructs an Indexer. A nil extractor falls back to the
// plain-text extractor
func NewIndexer(ex domain.ExtractorPort) *Indexer {
	if ex == nil {
		ex = PlainExtractor{}
	}
	return &Indexer{bridge: repo.NewBridge(), ex: ex}
}

// IndexDocument replaces d's projection inside the caller's transaction
func (ix *Indexer) IndexDocument(ctx context.Context, q repokit.Queryer, d docsdom.Document) error {
	body, err := ix.ex.Extract(d.Mime, d.Content)
	if err != nil {
		return err
	}
	rowID, err := ix.bridge.EnsureRowID(ctx, q, d.ID)
	if err != nil {
		return err
	}
	return ix.bridge.IndexRow(ctx, q, rowID,
		normalizeText(d.Title),
		d.Mime,
		normalizeText(d.Author),
		normalizeText(body),
	)
}

// Delete removes d's projection; absent projections are a no-op
func (ix *Indexer) Delete(ctx context.Context, q repokit.Queryer, docID string) error {
	return ix.bridge.Delete(ctx, q, docID)
}

// SchemaVersion reports the projection schema this indexer writes
func (ix *Indexer) SchemaVersion() int64 { return schemaVersion }
