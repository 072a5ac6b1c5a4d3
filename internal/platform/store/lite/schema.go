package lite

// schemaStatements is the full logical schema. All DDL is idempotent so the
// init gate can re-run against an existing database file.
//
// doc_fts is addressed by rowid; doc_fts_map translates the stable document
// id into that rowid because the full-text engine has no natural-key rows.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		id             TEXT PRIMARY KEY,
		title          TEXT NOT NULL,
		mime           TEXT NOT NULL DEFAULT '',
		author         TEXT NOT NULL DEFAULT '',
		content        TEXT,
		version        INTEGER NOT NULL DEFAULT 1,
		search_stale   INTEGER NOT NULL DEFAULT 1,
		indexed_schema INTEGER,
		indexed_utc    TEXT,
		created_utc    TEXT NOT NULL,
		updated_utc    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS idempotency_keys (
		key         TEXT PRIMARY KEY,
		created_utc TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS doc_fts_map (
		row_id INTEGER PRIMARY KEY AUTOINCREMENT,
		doc_id TEXT NOT NULL UNIQUE
	)`,

	`CREATE VIRTUAL TABLE IF NOT EXISTS doc_fts USING fts5(
		title, mime, author, content
	)`,

	`CREATE TABLE IF NOT EXISTS outbox (
		id          TEXT PRIMARY KEY,
		type        TEXT NOT NULL,
		payload     TEXT NOT NULL,
		created_utc TEXT NOT NULL,
		attempts    INTEGER NOT NULL DEFAULT 0,
		last_error  TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_outbox_created ON outbox(created_utc)`,
	`CREATE INDEX IF NOT EXISTS idx_idempotency_created ON idempotency_keys(created_utc)`,
}
