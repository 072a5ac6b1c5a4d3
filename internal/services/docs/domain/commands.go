package domain

import "context"

// Commands carry a caller-supplied RequestID so retried submissions are
// deduplicated at the storage layer. ExpectedVersion of zero means
// last-writer-wins against the currently loaded version

// CreateDocumentCmd creates a new document
type CreateDocumentCmd struct {
	RequestID string `validate:"required,uuid"`
	Title     string `validate:"required,max=512"`
	Mime      string `validate:"omitempty,max=128"`
	Author    string `validate:"omitempty,max=256"`
	Content   string `validate:"omitempty,max=1048576"`
}

// RenameDocumentCmd retitles an existing document
type RenameDocumentCmd struct {
	RequestID       string `validate:"required,uuid"`
	DocID           string `validate:"required,uuid"`
	Title           string `validate:"required,max=512"`
	ExpectedVersion int64  `validate:"omitempty,min=0"`
}

// UpdateContentCmd replaces a document's body
type UpdateContentCmd struct {
	RequestID       string `validate:"required,uuid"`
	DocID           string `validate:"required,uuid"`
	Mime            string `validate:"omitempty,max=128"`
	Content         string `validate:"omitempty,max=1048576"`
	ExpectedVersion int64  `validate:"omitempty,min=0"`
}

// DeleteDocumentCmd removes a document and its search projection
type DeleteDocumentCmd struct {
	RequestID string `validate:"required,uuid"`
	DocID     string `validate:"required,uuid"`
}

// ReindexDocumentCmd forces a projection rebuild for one document
type ReindexDocumentCmd struct {
	RequestID string `validate:"required,uuid"`
	DocID     string `validate:"required,uuid"`
}

// CommandPort is the write surface. Every call coalesces into a batch
// transaction and blocks until that batch commits or aborts
type CommandPort interface {
	Create(ctx context.Context, cmd CreateDocumentCmd) (Document, error)
	Rename(ctx context.Context, cmd RenameDocumentCmd) (Document, error)
	UpdateContent(ctx context.Context, cmd UpdateContentCmd) (Document, error)
	Delete(ctx context.Context, cmd DeleteDocumentCmd) error
	Reindex(ctx context.Context, cmd ReindexDocumentCmd) error
}

// ReaderPort is the read surface, served outside any batch transaction
type ReaderPort interface {
	Get(ctx context.Context, id string) (Document, error)
}
