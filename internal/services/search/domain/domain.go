// Package domain holds the search module's contracts
package domain

import "context"

// Hit is one full-text match. Rank comes from the engine's bm25 scoring;
// lower ranks sort first
type Hit struct {
	DocID string
	Title string
	Rank  float64
}

// QueryPort answers full-text queries against the committed index
type QueryPort interface {
	Search(ctx context.Context, query string, limit int) ([]Hit, error)
}

// ExtractorPort turns a document body into indexable text for its mime type.
// An empty result means the body carries nothing worth indexing; metadata
// columns are still indexed
type ExtractorPort interface {
	Extract(mime, content string) (string, error)
}
