// Package repo provides the documents repository implementation.
// Every statement runs on the caller's Queryer, so the repo participates in
// whatever transaction the coordinator owns
package repo

import (
	"context"
	"database/sql"
	stderrs "errors"
	"time"

	"quill/internal/modkit/repokit"
	perr "quill/internal/platform/errors"
	"quill/internal/services/docs/domain"
)

type (
	lite   struct{ q repokit.Queryer }
	binder struct{}
)

// NewLite constructs a repo binder for the embedded store
func NewLite() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &lite{q: q} }

// Storage defines the documents repository
type Storage interface {
	Insert(ctx context.Context, d domain.Document) error
	Get(ctx context.Context, id string) (domain.Document, error)
	Update(ctx context.Context, d domain.Document, expectedVersion int64) error
	Delete(ctx context.Context, id string) error
	MarkStale(ctx context.Context, id string) error
	StampIndexed(ctx context.Context, id string, schema int64, at time.Time) error
}

const docColumns = `id, title, mime, author, content, version, search_stale, indexed_schema, indexed_utc, created_utc, updated_utc`

// Insert implements Storage
func (s *lite) Insert(ctx context.Context, d domain.Document) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO documents (`+docColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Title, d.Mime, d.Author, nullStr(d.Content),
		d.Version, boolInt(d.SearchStale),
		nullInt(d.IndexedSchema), nullTime(d.IndexedAt),
		encodeTime(d.CreatedAt), encodeTime(d.UpdatedAt),
	)
	if perr.IsDuplicateKey(err) {
		return perr.Wrapf(err, perr.ErrorCodeDuplicateKey, "document %s already exists", d.ID)
	}
	return perr.FromLite(err, "insert document")
}

// Get implements Storage
func (s *lite) Get(ctx context.Context, id string) (domain.Document, error) {
	row := s.q.QueryRow(ctx, `SELECT `+docColumns+` FROM documents WHERE id = ?`, id)
	d, err := scanDocument(row)
	if stderrs.Is(err, sql.ErrNoRows) {
		return domain.Document{}, perr.NotFoundf("document %s not found", id)
	}
	return d, err
}

// Update implements Storage. The statement is conditioned on the expected
// version; zero rows affected means somebody else won the race
func (s *lite) Update(ctx context.Context, d domain.Document, expectedVersion int64) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE documents
		SET title = ?, mime = ?, author = ?, content = ?,
			version = ?, search_stale = ?, updated_utc = ?
		WHERE id = ? AND version = ?`,
		d.Title, d.Mime, d.Author, nullStr(d.Content),
		d.Version, boolInt(d.SearchStale), encodeTime(d.UpdatedAt),
		d.ID, expectedVersion,
	)
	if err != nil {
		return perr.FromLite(err, "update document")
	}
	if tag.RowsAffected() == 0 {
		return perr.Conflictf("document %s version %d is stale", d.ID, expectedVersion)
	}
	return nil
}

// Delete implements Storage
func (s *lite) Delete(ctx context.Context, id string) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("document %s not found", id)
	}
	return nil
}

// MarkStale implements Storage
func (s *lite) MarkStale(ctx context.Context, id string) error {
	tag, err := s.q.Exec(ctx, `UPDATE documents SET search_stale = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return perr.NotFoundf("document %s not found", id)
	}
	return nil
}

// StampIndexed implements Storage: the projection is confirmed current at
// the given schema version and timestamp, so the row is no longer stale
func (s *lite) StampIndexed(ctx context.Context, id string, schema int64, at time.Time) error {
	_, err := s.q.Exec(ctx, `
		UPDATE documents
		SET search_stale = 0, indexed_schema = ?, indexed_utc = ?
		WHERE id = ?`,
		schema, encodeTime(at), id,
	)
	return err
}

func scanDocument(row repokit.Row) (domain.Document, error) {
	var (
		d         domain.Document
		content   sql.NullString
		stale     int64
		idxSchema sql.NullInt64
		idxUTC    sql.NullString
		created   string
		updated   string
	)
	err := row.Scan(&d.ID, &d.Title, &d.Mime, &d.Author, &content,
		&d.Version, &stale, &idxSchema, &idxUTC, &created, &updated)
	if err != nil {
		return domain.Document{}, err
	}
	d.Content = content.String
	d.SearchStale = stale != 0
	d.IndexedSchema = idxSchema.Int64
	if idxUTC.Valid {
		d.IndexedAt = decodeTime(idxUTC.String)
	}
	d.CreatedAt = decodeTime(created)
	d.UpdatedAt = decodeTime(updated)
	return d, nil
}

// encoding helpers: timestamps are RFC3339Nano UTC text

func encodeTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func decodeTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return encodeTime(t)
}
