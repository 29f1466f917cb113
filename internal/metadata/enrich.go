package metadata

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/hyperjump/reelmatch/internal/models"
)

const defaultEnrichWorkers = 4

// Enricher attaches provider detail to suggestion results.
type Enricher struct {
	provider    Provider
	placeholder string
	workers     int
	logger      *zap.Logger
}

// NewEnricher returns an Enricher. Entries whose lookup fails get a catalog-only detail
// carrying the placeholder image.
func NewEnricher(p Provider, placeholder string, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{provider: p, placeholder: placeholder, workers: defaultEnrichWorkers, logger: logger}
}

// Enrich fills Detail on every suggestion in res and returns how many lookups failed.
func (e *Enricher) Enrich(ctx context.Context, res *models.SuggestionResult) int {
	if res == nil || len(res.Suggestions) == 0 {
		return 0
	}
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)
	sem := make(chan struct{}, e.workers)
	for i := range res.Suggestions {
		s := &res.Suggestions[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			d, err := e.provider.MovieDetail(ctx, s.ID)
			if err != nil {
				e.logger.Debug("metadata lookup failed", zap.Int("id", s.ID), zap.Error(err))
				mu.Lock()
				failures++
				mu.Unlock()
				d = &models.MovieDetail{ID: s.ID, Title: s.Title, ImageURL: e.placeholder}
			}
			s.Detail = d
		}()
	}
	wg.Wait()
	return failures
}
