package keyword

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	blevequery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/hyperjump/reelmatch/internal/corpus"
	"github.com/hyperjump/reelmatch/internal/models"
	"github.com/hyperjump/reelmatch/internal/textvec"
)

const (
	defaultFuzziness = 2
	titleBoost       = 3.0
	batchSize        = 500
)

// titleDoc is the indexed form of a corpus entry.
type titleDoc struct {
	Title  string `json:"title"`
	People string `json:"people"`
}

// BleveIndex implements TitleIndex using Bleve.
type BleveIndex struct {
	path      string
	tokenizer *textvec.Tokenizer

	mu     sync.RWMutex
	index  bleve.Index
	titles []string
}

// NewBleveIndex creates an empty index. With an empty path the index lives in memory;
// otherwise it is stored at path and rebuilt from scratch by each Rebuild.
func NewBleveIndex(path string) (*BleveIndex, error) {
	tok, err := textvec.NewTokenizer(models.ModeOverview)
	if err != nil {
		return nil, err
	}
	b := &BleveIndex{path: path, tokenizer: tok}
	index, err := b.create(path)
	if err != nil {
		return nil, err
	}
	b.index = index
	return b, nil
}

func indexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	docMapping.AddFieldMappingsAt("people", textFieldMapping)
	im.AddDocumentMapping("movie", docMapping)
	im.DefaultType = "movie"
	im.DefaultMapping = docMapping
	return im
}

func (b *BleveIndex) create(path string) (bleve.Index, error) {
	if path == "" {
		index, err := bleve.NewMemOnly(indexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create Bleve index: %w", err)
		}
		return index, nil
	}
	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("failed to clear Bleve index: %w", err)
	}
	index, err := bleve.New(path, indexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return index, nil
}

// Rebuild indexes every catalog entry into a fresh index and swaps it in.
func (b *BleveIndex) Rebuild(ctx context.Context, catalog *corpus.Catalog) error {
	buildPath := ""
	if b.path != "" {
		buildPath = b.path + ".building"
	}
	next, err := b.create(buildPath)
	if err != nil {
		return err
	}
	if err := fill(ctx, next, catalog); err != nil {
		next.Close()
		if buildPath != "" {
			os.RemoveAll(buildPath)
		}
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.index != nil {
		b.index.Close()
	}
	if b.path != "" {
		next.Close()
		if err := os.RemoveAll(b.path); err != nil {
			return fmt.Errorf("failed to remove old Bleve index: %w", err)
		}
		if err := os.Rename(buildPath, b.path); err != nil {
			return fmt.Errorf("failed to move Bleve index into place: %w", err)
		}
		if next, err = bleve.Open(b.path); err != nil {
			b.index = nil
			return fmt.Errorf("failed to open Bleve index: %w", err)
		}
	}
	b.index = next
	b.titles = catalog.Titles()
	return nil
}

func fill(ctx context.Context, index bleve.Index, catalog *corpus.Catalog) error {
	batch := index.NewBatch()
	for i := 0; i < catalog.Len(); i++ {
		m := catalog.At(i)
		doc := titleDoc{Title: m.Title, People: strings.Join(m.People(), " ")}
		if err := batch.Index(strconv.Itoa(m.ID), doc); err != nil {
			return fmt.Errorf("index movie %d: %w", m.ID, err)
		}
		if batch.Size() >= batchSize {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := index.Batch(batch); err != nil {
				return fmt.Errorf("Bleve batch failed: %w", err)
			}
			batch.Reset()
		}
	}
	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			return fmt.Errorf("Bleve batch failed: %w", err)
		}
	}
	return nil
}

// Search matches query against titles (boosted, with prefix matching on the last term so
// partial input autocompletes) and credited people.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	terms := b.tokenizer.Tokens(query)
	if len(terms) == 0 || limit <= 0 {
		return []Hit{}, nil
	}
	title := bleve.NewMatchQuery(query)
	title.SetField("title")
	title.SetBoost(titleBoost)
	prefix := bleve.NewPrefixQuery(terms[len(terms)-1])
	prefix.SetField("title")
	people := bleve.NewMatchQuery(query)
	people.SetField("people")
	return b.search(ctx, bleve.NewDisjunctionQuery(title, prefix, people), limit)
}

func (b *BleveIndex) search(ctx context.Context, q blevequery.Query, limit int) ([]Hit, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.index == nil {
		return nil, fmt.Errorf("Bleve index is closed")
	}
	req := bleve.NewSearchRequest(q)
	req.Size = limit
	req.Fields = []string{"title"}
	results, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]Hit, 0, len(results.Hits))
	for _, hit := range results.Hits {
		id, err := strconv.Atoi(hit.ID)
		if err != nil {
			continue
		}
		title, _ := hit.Fields["title"].(string)
		out = append(out, Hit{ID: id, Title: title, Score: hit.Score})
	}
	return out, nil
}

// buildFuzzyQuery creates a disjunction of title FuzzyQueries, one per query term.
func buildFuzzyQuery(terms []string, fuzziness int) blevequery.Query {
	queries := make([]blevequery.Query, 0, len(terms))
	for _, term := range terms {
		fq := bleve.NewFuzzyQuery(term)
		fq.SetFuzziness(fuzziness)
		fq.SetField("title")
		queries = append(queries, fq)
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewDisjunctionQuery(queries...)
}

// DidYouMean runs a fuzzy title query and orders the distinct hit titles by edit distance to
// query. When the index finds nothing, every known title is ranked by edit distance instead.
func (b *BleveIndex) DidYouMean(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	var candidates []string
	if terms := b.tokenizer.Tokens(query); len(terms) > 0 {
		hits, err := b.search(ctx, buildFuzzyQuery(terms, defaultFuzziness), limit*4)
		if err != nil {
			return nil, err
		}
		candidates = make([]string, 0, len(hits))
		for _, h := range hits {
			candidates = append(candidates, h.Title)
		}
	}
	if len(candidates) > 0 {
		return rankByDistance(query, candidates, limit, -1), nil
	}
	b.mu.RLock()
	titles := b.titles
	b.mu.RUnlock()
	return rankByDistance(query, titles, limit, maxFallbackDistance(query)), nil
}

// DocCount returns the number of indexed entries.
func (b *BleveIndex) DocCount() (uint64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.index == nil {
		return 0, fmt.Errorf("Bleve index is closed")
	}
	return b.index.DocCount()
}

// Close closes the Bleve index.
func (b *BleveIndex) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.index == nil {
		return nil
	}
	err := b.index.Close()
	b.index = nil
	return err
}
