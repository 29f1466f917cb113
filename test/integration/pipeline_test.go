// Package integration exercises the import, build, serve and reload pipeline against real storage.
package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/reelmatch/internal/corpus"
	"github.com/hyperjump/reelmatch/internal/keyword"
	"github.com/hyperjump/reelmatch/internal/models"
	"github.com/hyperjump/reelmatch/internal/recommend"
	"github.com/hyperjump/reelmatch/internal/storage"
	"github.com/hyperjump/reelmatch/internal/watcher"
)

const heatRow = "949,Heat,\"Obsessive master thief Neil McCauley leads a top-notch crew on various daring heists throughout Los Angeles.\",Al Pacino|Robert De Niro|Val Kilmer,Michael Mann,bank robbery|detective|heist,Action|Crime|Drama\n"

type pipeline struct {
	dir     string
	csvPath string
	store   *storage.SQLiteStorage
	index   *keyword.BleveIndex
	rec     *recommend.Recommender
	build   recommend.BuildOptions
}

func copyFixture(t *testing.T, dst string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "movies.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	p := &pipeline{dir: dir, csvPath: filepath.Join(dir, "movies.csv")}
	copyFixture(t, p.csvPath)

	movies, err := corpus.NewLoader().Load(p.csvPath)
	if err != nil {
		t.Fatal(err)
	}
	p.store, err = storage.NewSQLiteStorage(filepath.Join(dir, "data", "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = p.store.Close() })
	if _, _, err := p.store.UpsertMovies(ctx, movies); err != nil {
		t.Fatal(err)
	}

	stored, err := p.store.ListMovies(ctx, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	catalog, err := corpus.NewCatalog(stored)
	if err != nil {
		t.Fatal(err)
	}
	p.build = recommend.BuildOptions{CacheDir: filepath.Join(dir, "matrices"), Workers: 2}
	snap, err := recommend.NewSnapshot(ctx, catalog, p.build)
	if err != nil {
		t.Fatal(err)
	}
	p.index, err = keyword.NewBleveIndex(filepath.Join(dir, "titles"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = p.index.Close() })
	if err := p.index.Rebuild(ctx, catalog); err != nil {
		t.Fatal(err)
	}
	p.rec, err = recommend.New(snap, recommend.WithTopN(5), recommend.WithHinter(p.index))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestIntegration_SuggestFromStoredCatalog(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	res, err := p.rec.Suggest(ctx, "the matrix", models.ModeSoup)
	if err != nil {
		t.Fatal(err)
	}
	if res.MatchedID != 603 {
		t.Errorf("matched id = %d, want 603", res.MatchedID)
	}
	if len(res.Suggestions) != 5 {
		t.Fatalf("got %d suggestions, want 5", len(res.Suggestions))
	}
	if top := res.Suggestions[0].ID; top != 604 && top != 605 {
		t.Errorf("top suggestion = %d, want a Matrix sequel", top)
	}

	res, err = p.rec.Suggest(ctx, "Dune", models.ModeOverview)
	if err != nil {
		t.Fatal(err)
	}
	if res.MatchedID != 841 {
		t.Errorf("duplicate title resolved to %d, want first occurrence 841", res.MatchedID)
	}
	for _, s := range res.Suggestions {
		if s.ID == 841 {
			t.Error("query entry appears in its own suggestions")
		}
	}
}

func TestIntegration_PersonQuery(t *testing.T) {
	p := newPipeline(t)
	res, err := p.rec.Suggest(context.Background(), "Christopher Nolan", models.ModeSoup)
	if err != nil {
		t.Fatal(err)
	}
	if res.MatchedBy != models.MatchedByPerson {
		t.Errorf("matched by %q, want person", res.MatchedBy)
	}
	nolan := map[int]bool{155: true, 272: true, 27205: true, 157336: true}
	for i, s := range res.Suggestions[:4] {
		if !nolan[s.ID] {
			t.Errorf("rank %d: %d (%s) is not a Nolan film", i+1, s.ID, s.Title)
		}
	}
}

func TestIntegration_NotFoundHints(t *testing.T) {
	p := newPipeline(t)
	_, err := p.rec.Suggest(context.Background(), "Interstelar", models.ModeSoup)
	var nf *recommend.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if len(nf.Suggestions) == 0 || nf.Suggestions[0] != "Interstellar" {
		t.Errorf("hints = %v, want Interstellar first", nf.Suggestions)
	}
}

func TestIntegration_ReloadPicksUpNewEntries(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()
	before := p.rec.Current()

	f, err := os.OpenFile(p.csvPath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(heatRow); err != nil {
		t.Fatal(err)
	}
	f.Close()

	r := watcher.NewReloader(p.rec, p.index, nil, p.build, nil)
	if err := r.Reload(ctx, p.csvPath); err != nil {
		t.Fatal(err)
	}
	after := p.rec.Current()
	if after == before {
		t.Fatal("snapshot was not swapped")
	}
	if got := p.rec.Stats().Entries; got != 15 {
		t.Errorf("entries = %d, want 15", got)
	}
	if n, _ := p.index.DocCount(); n != 15 {
		t.Errorf("title index docs = %d, want 15", n)
	}
	if _, err := p.rec.Suggest(ctx, "heat", models.ModeOverview); err != nil {
		t.Errorf("suggest for reloaded entry: %v", err)
	}

	if err := os.WriteFile(p.csvPath, []byte("title\nno ids here\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := r.Reload(ctx, p.csvPath); err == nil {
		t.Error("expected reload of malformed corpus to fail")
	}
	if p.rec.Current() != after {
		t.Error("failed reload replaced the serving snapshot")
	}
}

func TestIntegration_MatrixCacheSurvivesRestart(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()
	catalog := p.rec.Current().Catalog()

	snap, err := recommend.NewSnapshot(ctx, catalog, p.build)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := recommend.New(snap)
	if err != nil {
		t.Fatal(err)
	}
	for mode, m := range rec.Stats().Matrices {
		if !m.FromCache {
			t.Errorf("%s matrix rebuilt instead of loaded from cache", mode)
		}
	}
	want, _ := p.rec.Suggest(ctx, "Inception", models.ModeOverview)
	got, err := rec.Suggest(ctx, "Inception", models.ModeOverview)
	if err != nil {
		t.Fatal(err)
	}
	for i := range want.Suggestions {
		if got.Suggestions[i].ID != want.Suggestions[i].ID {
			t.Errorf("rank %d: cached %d, fresh %d", i+1, got.Suggestions[i].ID, want.Suggestions[i].ID)
		}
	}
}
