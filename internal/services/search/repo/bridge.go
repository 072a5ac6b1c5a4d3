// Package repo implements the full-text bridge over the embedded engine.
// The virtual table has no natural-key rows, so a mapping table pins each
// document id to a stable rowid; all writes take the caller's Queryer and
// join whatever transaction owns it
package repo

import (
	"context"
	"database/sql"
	stderrs "errors"

	"quill/internal/modkit/repokit"
)

// Bridge is the stateless full-text repository
type Bridge struct{}

// NewBridge constructs a Bridge
func NewBridge() Bridge { return Bridge{} }

// EnsureRowID returns the stable rowid for docID, allocating one on first use.
// The insert is conflict-tolerant so re-indexing the same document is cheap
func (Bridge) EnsureRowID(ctx context.Context, q repokit.Queryer, docID string) (int64, error) {
	if _, err := q.Exec(ctx, `
		INSERT INTO doc_fts_map (doc_id) VALUES (?)
		ON CONFLICT(doc_id) DO NOTHING`, docID,
	); err != nil {
		return 0, err
	}
	var rowID int64
	err := q.QueryRow(ctx, `SELECT row_id FROM doc_fts_map WHERE doc_id = ?`, docID).Scan(&rowID)
	return rowID, err
}

// IndexRow replaces the full-text row at rowID. Delete-then-insert because
// the engine has no upsert for virtual table rows
func (Bridge) IndexRow(ctx context.Context, q repokit.Queryer, rowID int64, title, mime, author, content string) error {
	if _, err := q.Exec(ctx, `DELETE FROM doc_fts WHERE rowid = ?`, rowID); err != nil {
		return err
	}
	_, err := q.Exec(ctx, `
		INSERT INTO doc_fts (rowid, title, mime, author, content)
		VALUES (?, ?, ?, ?, ?)`,
		rowID, title, mime, author, content,
	)
	return err
}

// Delete removes docID's full-text row and its mapping. A document that was
// never indexed is not an error; delete must stay idempotent because the
// coordinator replays it for every deletion it sees
func (Bridge) Delete(ctx context.Context, q repokit.Queryer, docID string) error {
	var rowID int64
	err := q.QueryRow(ctx, `SELECT row_id FROM doc_fts_map WHERE doc_id = ?`, docID).Scan(&rowID)
	if stderrs.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := q.Exec(ctx, `DELETE FROM doc_fts WHERE rowid = ?`, rowID); err != nil {
		return err
	}
	_, err = q.Exec(ctx, `DELETE FROM doc_fts_map WHERE doc_id = ?`, docID)
	return err
}

// SearchRow is one raw match joined back to the documents table
type SearchRow struct {
	DocID string
	Title string
	Rank  float64
}

// Search runs a MATCH query and joins hits back to live documents.
// Rows whose document vanished between index and query are filtered by the
// inner join rather than surfaced as dangling ids
func (Bridge) Search(ctx context.Context, q repokit.Queryer, match string, limit int) ([]SearchRow, error) {
	rows, err := q.Query(ctx, `
		SELECT m.doc_id, d.title, bm25(doc_fts) AS rank
		FROM doc_fts
		JOIN doc_fts_map m ON m.row_id = doc_fts.rowid
		JOIN documents d ON d.id = m.doc_id
		WHERE doc_fts MATCH ?
		ORDER BY rank
		LIMIT ?`,
		match, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SearchRow
	for rows.Next() {
		var r SearchRow
		if err := rows.Scan(&r.DocID, &r.Title, &r.Rank); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
