package service

import (
	"context"

	"quill/internal/modkit/repokit"
	perr "quill/internal/platform/errors"
	"quill/internal/services/search/domain"
	"quill/internal/services/search/repo"
)

// Query answers read-side searches outside any batch transaction
type Query struct {
	db     repokit.Queryer
	bridge repo.Bridge
	limit  int
}

// NewQuery constructs the query service; hardLimit caps result sizes
func NewQuery(db repokit.Queryer, hardLimit int) *Query {
	if hardLimit <= 0 {
		hardLimit = 100
	}
	return &Query{db: db, bridge: repo.NewBridge(), limit: hardLimit}
}

// Search implements domain.QueryPort. The query text goes through the same
// normalization as indexed text so folding is symmetric
func (s *Query) Search(ctx context.Context, query string, limit int) ([]domain.Hit, error) {
	match := normalizeText(query)
	if match == "" {
		return nil, perr.InvalidArgf("empty search query")
	}
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}

	rows, err := s.bridge.Search(ctx, s.db, match, limit)
	if err != nil {
		return nil, err
	}
	hits := make([]domain.Hit, 0, len(rows))
	for _, r := range rows {
		hits = append(hits, domain.Hit{DocID: r.DocID, Title: r.Title, Rank: r.Rank})
	}
	return hits, nil
}
