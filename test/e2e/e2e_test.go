package e2e

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"

	"github.com/hyperjump/reelmatch/internal/config"
	"github.com/hyperjump/reelmatch/internal/corpus"
	"github.com/hyperjump/reelmatch/internal/keyword"
	"github.com/hyperjump/reelmatch/internal/models"
	"github.com/hyperjump/reelmatch/internal/recommend"
	"github.com/hyperjump/reelmatch/internal/server"
	"github.com/hyperjump/reelmatch/internal/storage"
)

func writeCorpusFile(t *testing.T, dir, ext string, movies []models.Movie) string {
	t.Helper()
	data, err := EncodeCorpus(ext, movies)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "movies"+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestE2E_LoadEveryFormat(t *testing.T) {
	c := BuildCorpus()
	dir := t.TempDir()
	for _, ext := range SupportedCorpusExtensions {
		path := writeCorpusFile(t, dir, ext, c.Movies)
		cat, err := corpus.LoadCatalog(path)
		if err != nil {
			t.Fatalf("%s: %v", ext, err)
		}
		if cat.Len() != len(c.Movies) {
			t.Errorf("%s: expected %d entries, got %d", ext, len(c.Movies), cat.Len())
		}
	}
}

// setupPipeline imports the generated corpus into SQLite and serves it over HTTP.
func setupPipeline(t *testing.T) (*httptest.Server, *Corpus) {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	c := BuildCorpus()

	path := writeCorpusFile(t, dir, ".xlsx", c.Movies)
	movies, err := corpus.NewLoader().Load(path)
	if err != nil {
		t.Fatal(err)
	}

	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	inserted, _, err := store.UpsertMovies(ctx, movies)
	if err != nil {
		t.Fatal(err)
	}
	if inserted != len(c.Movies) {
		t.Fatalf("inserted %d, want %d", inserted, len(c.Movies))
	}

	stored, err := store.ListMovies(ctx, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	catalog, err := corpus.NewCatalog(stored)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := recommend.NewSnapshot(ctx, catalog, recommend.BuildOptions{CacheDir: filepath.Join(dir, "matrices")})
	if err != nil {
		t.Fatal(err)
	}
	idx, err := keyword.NewBleveIndex(filepath.Join(dir, "titles"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = idx.Close() })
	if err := idx.Rebuild(ctx, catalog); err != nil {
		t.Fatal(err)
	}
	rec, err := recommend.New(snap, recommend.WithHinter(idx))
	if err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Server.RateLimit = 0
	cfg.Storage.DatabasePath = filepath.Join(dir, "catalog.db")
	cfg.Storage.BleveIndexPath = filepath.Join(dir, "titles")
	cfg.Storage.MatrixCachePath = filepath.Join(dir, "matrices")
	srv := httptest.NewServer(server.NewServer(rec, idx, nil, cfg, nil).Handler())
	t.Cleanup(srv.Close)
	return srv, c
}

func getSuggestions(t *testing.T, base, query string, mode models.Mode) (*models.SuggestionResult, int) {
	t.Helper()
	v := url.Values{"query": {query}, "mode": {string(mode)}}
	resp, err := http.Get(base + "/api/v1/suggestions?" + v.Encode())
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode
	}
	var res models.SuggestionResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	return &res, resp.StatusCode
}

func TestE2E_QueryCases(t *testing.T) {
	srv, c := setupPipeline(t)
	for _, tc := range c.TestCases {
		t.Run(tc.Description, func(t *testing.T) {
			res, code := getSuggestions(t, srv.URL, tc.Query, tc.Mode)
			if code != http.StatusOK {
				t.Fatalf("status %d for %q", code, tc.Query)
			}
			if len(res.Suggestions) < tc.Top {
				t.Fatalf("got %d suggestions, want at least %d", len(res.Suggestions), tc.Top)
			}
			want := make(map[int]bool, len(tc.ExpectedIDs))
			for _, id := range tc.ExpectedIDs {
				want[id] = true
			}
			for i, s := range res.Suggestions[:tc.Top] {
				if !want[s.ID] {
					t.Errorf("rank %d: id %d (%s) not in expected %v", i+1, s.ID, s.Title, tc.ExpectedIDs)
				}
			}
			if res.Suggestions[0].Score != 100 {
				t.Errorf("leading score = %d, want 100", res.Suggestions[0].Score)
			}
			for i := 1; i < len(res.Suggestions); i++ {
				if res.Suggestions[i].Score > res.Suggestions[i-1].Score {
					t.Errorf("scores not descending at rank %d", i+1)
				}
			}
		})
	}
}

func TestE2E_TitleQueryExcludesItself(t *testing.T) {
	srv, c := setupPipeline(t)
	first := c.Movies[0]
	for _, mode := range models.Modes {
		res, code := getSuggestions(t, srv.URL, first.Title, mode)
		if code != http.StatusOK {
			t.Fatalf("%s: status %d", mode, code)
		}
		if res.MatchedID != first.ID {
			t.Errorf("%s: matched id %d, want %d", mode, res.MatchedID, first.ID)
		}
		for _, s := range res.Suggestions {
			if s.ID == first.ID {
				t.Errorf("%s: query entry %d appears in its own suggestions", mode, first.ID)
			}
		}
	}
}

func TestE2E_UnknownQueryHints(t *testing.T) {
	srv, _ := setupPipeline(t)
	v := url.Values{"query": {"Starfal"}}
	resp, err := http.Get(srv.URL + "/api/v1/suggestions?" + v.Encode())
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	var body struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Suggestions) == 0 || body.Suggestions[0] != "Starfall" {
		t.Errorf("hints = %v, want Starfall first", body.Suggestions)
	}
}

func TestE2E_SnapshotCacheReused(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	catalog, err := corpus.NewCatalog(BuildCorpus().Movies)
	if err != nil {
		t.Fatal(err)
	}
	opts := recommend.BuildOptions{CacheDir: dir}
	first, err := recommend.NewSnapshot(ctx, catalog, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := recommend.NewSnapshot(ctx, catalog, opts)
	if err != nil {
		t.Fatal(err)
	}
	for _, mode := range models.Modes {
		a, b := first.Matrix(mode), second.Matrix(mode)
		for i := 0; i < catalog.Len(); i++ {
			ra, rb := a.Row(i), b.Row(i)
			for j := range ra {
				if ra[j] != rb[j] {
					t.Fatalf("%s: cached matrix differs at (%d,%d): %v vs %v", mode, i, j, ra[j], rb[j])
				}
			}
		}
	}
	r, err := recommend.New(second)
	if err != nil {
		t.Fatal(err)
	}
	st := r.Stats()
	for mode, m := range st.Matrices {
		if !m.FromCache {
			t.Errorf("%s matrix was rebuilt, want loaded from cache", mode)
		}
	}
}
