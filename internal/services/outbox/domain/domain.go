// Package domain holds the outbox entry types and worker contracts
package domain

import (
	"context"
	"time"
)

// Entry kinds. Upserts re-project a live document; deletes drop a vanished
// one from the index
const (
	TypeIndexUpsert = "index.upsert"
	TypeIndexDelete = "index.delete"
)

// Payload is the JSON body of one outbox entry
type Payload struct {
	DocID       string    `json:"doc_id"`
	Reason      string    `json:"reason,omitempty"`
	OccurredUTC time.Time `json:"occurred_utc"`
}

// Entry is one durable unit of deferred index maintenance
type Entry struct {
	ID        string
	Type      string
	Payload   Payload
	CreatedAt time.Time
	Attempts  int
	LastError string
}

// DrainerPort drives deferred index maintenance until shutdown
type DrainerPort interface {
	Run(ctx context.Context) error
	DrainOnce(ctx context.Context) (int, error)
}
