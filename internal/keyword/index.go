// Package keyword indexes corpus titles and credited people for search and "did you mean" hints.
package keyword

import (
	"context"

	"github.com/hyperjump/reelmatch/internal/corpus"
)

// Hit is a single title search result.
type Hit struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// TitleIndex defines title search operations.
type TitleIndex interface {
	// Rebuild replaces the indexed contents with catalog.
	Rebuild(ctx context.Context, catalog *corpus.Catalog) error
	Search(ctx context.Context, query string, limit int) ([]Hit, error)
	// DidYouMean returns up to limit distinct known titles close to query, best first.
	DidYouMean(ctx context.Context, query string, limit int) ([]string, error)
	DocCount() (uint64, error)
	Close() error
}
