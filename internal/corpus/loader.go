package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hyperjump/reelmatch/internal/models"
	"go.uber.org/zap"
)

// listSeparator splits multi-valued columns (cast, directors, keywords, genres).
const listSeparator = "|"

// column aliases accepted in tabular headers.
var columnAliases = map[string]string{
	"id":        "id",
	"movie_id":  "id",
	"tmdb_id":   "id",
	"title":     "title",
	"overview":  "overview",
	"synopsis":  "overview",
	"cast":      "cast",
	"director":  "directors",
	"directors": "directors",
	"crew":      "directors",
	"keywords":  "keywords",
	"genres":    "genres",
	"genre":     "genres",
}

// Loader reads corpus files into movies.
type Loader struct {
	logger *zap.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets a logger for skipped-row diagnostics.
func WithLogger(l *zap.Logger) LoaderOption {
	return func(ld *Loader) { ld.logger = l }
}

// NewLoader returns a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	ld := &Loader{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(ld)
	}
	if ld.logger == nil {
		ld.logger = zap.NewNop()
	}
	return ld
}

// Load reads the file at path and returns its movies in file order.
// Supported formats: .csv, .tsv, .xlsx and .json (an array of movies).
func (ld *Loader) Load(path string) ([]models.Movie, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	movies, err := ld.LoadBytes(content, ext)
	if err != nil {
		return nil, fmt.Errorf("load corpus %s: %w", path, err)
	}
	ld.logger.Debug("corpus file loaded", zap.String("path", path), zap.Int("movies", len(movies)))
	return movies, nil
}

// LoadBytes parses content according to ext (with leading dot).
func (ld *Loader) LoadBytes(content []byte, ext string) ([]models.Movie, error) {
	switch ext {
	case ".csv", "":
		return ld.loadDelimited(content, ',')
	case ".tsv":
		return ld.loadDelimited(content, '\t')
	case ".xlsx":
		return ld.loadExcel(content)
	case ".json":
		return loadJSON(content)
	default:
		return nil, fmt.Errorf("unsupported corpus format %q", ext)
	}
}

// LoadCatalog loads path and builds a Catalog from it.
func LoadCatalog(path string, opts ...LoaderOption) (*Catalog, error) {
	movies, err := NewLoader(opts...).Load(path)
	if err != nil {
		return nil, err
	}
	return NewCatalog(movies)
}

// fromRows converts a header plus data rows into movies, skipping unusable rows.
func (ld *Loader) fromRows(header []string, rows [][]string) ([]models.Movie, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if canon, ok := columnAliases[key]; ok {
			if _, seen := cols[canon]; !seen {
				cols[canon] = i
			}
		}
	}
	if _, ok := cols["id"]; !ok {
		return nil, fmt.Errorf("missing id column")
	}
	if _, ok := cols["title"]; !ok {
		return nil, fmt.Errorf("missing title column")
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	movies := make([]models.Movie, 0, len(rows))
	for n, row := range rows {
		idStr := cell(row, "id")
		id, err := strconv.Atoi(idStr)
		if err != nil || id <= 0 {
			ld.logger.Debug("skipping row with invalid id", zap.Int("row", n+2), zap.String("id", idStr))
			continue
		}
		title := cell(row, "title")
		if title == "" {
			ld.logger.Debug("skipping row without title", zap.Int("row", n+2), zap.Int("id", id))
			continue
		}
		movies = append(movies, models.Movie{
			ID:        id,
			Title:     title,
			Overview:  cell(row, "overview"),
			Cast:      splitList(cell(row, "cast")),
			Directors: splitList(cell(row, "directors")),
			Keywords:  splitList(cell(row, "keywords")),
			Genres:    splitList(cell(row, "genres")),
		})
	}
	return movies, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, listSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
