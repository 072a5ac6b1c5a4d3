// Package domain holds the document entity and its change-tracking types
package domain

import "time"

// Document is the primary entity. Content is the raw text body; the
// search projection of it lives in the full-text index, not here
type Document struct {
	ID      string
	Title   string
	Mime    string
	Author  string
	Content string

	// Version is the optimistic concurrency token, bumped on every update
	Version int64

	// SearchStale marks the full-text projection as out of date
	SearchStale bool
	// IndexedSchema is the projection schema version confirmed at last index; 0 means never indexed
	IndexedSchema int64
	// IndexedAt is the confirmation timestamp of the last index; zero means never indexed
	IndexedAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReindexReason says why a search projection must be regenerated
type ReindexReason string

// Reindex reasons raised by domain logic
const (
	ReasonCreated         ReindexReason = "created"
	ReasonMetadataChanged ReindexReason = "metadata-changed"
	ReasonContentChanged  ReindexReason = "content-changed"
	ReasonValidityChanged ReindexReason = "validity-changed"
	ReasonManual          ReindexReason = "manual"
	ReasonSchemaUpgrade   ReindexReason = "schema-upgrade"
)

// EventKindReindex is the bus kind under which ReindexEvent is published
const EventKindReindex = "doc.reindex"

// ReindexEvent is the value object raised when a projection goes stale
type ReindexEvent struct {
	DocID      string
	Reason     ReindexReason
	OccurredAt time.Time
}
