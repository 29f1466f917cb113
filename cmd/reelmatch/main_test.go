package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/reelmatch/internal/config"
	"github.com/hyperjump/reelmatch/internal/models"
	"github.com/hyperjump/reelmatch/internal/server"
)

const fixtureCorpus = "../../testdata/movies.csv"

func TestArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after query are moved first",
			args:     []string{"The Matrix", "--mode", "soup"},
			expected: []string{"--mode", "soup", "The Matrix"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"--mode", "soup", "The Matrix"},
			expected: []string{"--mode", "soup", "The Matrix"},
		},
		{
			name:     "query only returns unchanged",
			args:     []string{"The Matrix"},
			expected: []string{"The Matrix"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"Christopher", "Nolan", "-output", "json"},
			expected: []string{"-output", "json", "Christopher", "Nolan"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := argsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("argsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"Inception"}, "Inception"},
		{"multiple words", []string{"The", "Dark", "Knight"}, "The Dark Knight"},
		{"single quoted phrase", []string{"The Dark Knight"}, "The Dark Knight"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildQuery(tt.args); got != tt.expected {
				t.Errorf("buildQuery(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8080
storage:
  database_path: "./test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while t.TempDir() is /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s, want %s", resolvedCanon, configPathCanon)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
recommend:
  top_n: 5
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Port != 9000 || cfg.Recommend.TopN != 5 || cfg.Recommend.DefaultMode != "overview" {
		t.Errorf("unexpected config: %+v %+v", cfg.Server, cfg.Recommend)
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Storage.DatabasePath = filepath.Join(dir, "db", "catalog.db")
	cfg.Storage.BleveIndexPath = filepath.Join(dir, "indices", "titles")
	cfg.Storage.MatrixCachePath = filepath.Join(dir, "matrices")
	cfg.Recommend.TopN = 5
	return cfg
}

func TestImportThenInitialize(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	logger := zap.NewNop()

	if _, err := initializeComponents(ctx, cfg, logger, true); err == nil {
		t.Fatal("empty catalog database should fail to initialize")
	}

	inserted, updated, err := importFile(ctx, cfg, fixtureCorpus, logger)
	if err != nil {
		t.Fatalf("importFile: %v", err)
	}
	if inserted != 14 || updated != 0 {
		t.Errorf("inserted=%d updated=%d", inserted, updated)
	}
	if inserted, updated, err = importFile(ctx, cfg, fixtureCorpus, logger); err != nil || inserted != 0 || updated != 14 {
		t.Errorf("re-import: inserted=%d updated=%d err=%v", inserted, updated, err)
	}

	c, err := initializeComponents(ctx, cfg, logger, false)
	if err != nil {
		t.Fatalf("initializeComponents: %v", err)
	}
	st := c.Recommender.Stats()
	c.Close()
	if st.Entries != 14 || st.Matrices[models.ModeSoup].FromCache {
		t.Errorf("first build stats = %+v", st)
	}

	// A second start reuses the persisted matrices.
	c, err = initializeComponents(ctx, cfg, logger, true)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if !c.Recommender.Stats().Matrices[models.ModeOverview].FromCache {
		t.Error("second start should load matrices from the cache")
	}
	res, err := c.Recommender.Suggest(ctx, "the dark knight", "")
	if err != nil {
		t.Fatal(err)
	}
	if res.MatchedTitle != "The Dark Knight" || len(res.Suggestions) != 5 {
		t.Errorf("result = %+v", res)
	}
}

func TestInitializeComponents_CorpusFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Corpus.Path = fixtureCorpus
	cfg.Recommend.DefaultMode = "soup"
	c, err := initializeComponents(context.Background(), cfg, zap.NewNop(), true)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if c.Storage != nil {
		t.Error("file corpus should not open the catalog database")
	}
	if c.Recommender.DefaultMode() != models.ModeSoup {
		t.Errorf("default mode = %s", c.Recommender.DefaultMode())
	}

	cfg.Recommend.DefaultMode = "plot"
	if _, err := initializeComponents(context.Background(), cfg, zap.NewNop(), true); !errors.Is(err, models.ErrInvalidMode) {
		t.Errorf("err = %v, want ErrInvalidMode", err)
	}
}

func TestSuggestAndStatusViaHTTP(t *testing.T) {
	cfg := testConfig(t)
	cfg.Corpus.Path = fixtureCorpus
	c, err := initializeComponents(context.Background(), cfg, zap.NewNop(), true)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	ts := httptest.NewServer(server.NewServer(c.Recommender, c.Index, c.Provider, cfg, nil).Handler())
	defer ts.Close()

	res, err := suggestViaHTTP(ts.URL, &models.SuggestRequest{Query: "The Matrix", Mode: "soup"})
	if err != nil {
		t.Fatal(err)
	}
	if res.MatchedTitle != "The Matrix" || res.Suggestions[0].Title != "The Matrix Reloaded" {
		t.Errorf("result = %+v", res)
	}

	_, err = suggestViaHTTP(ts.URL, &models.SuggestRequest{Query: "The Matrx"})
	var nf *errNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want *errNotFound", err)
	}
	if len(nf.hints) == 0 || nf.hints[0] != "The Matrix" {
		t.Errorf("hints = %v", nf.hints)
	}

	if _, err := suggestViaHTTP(ts.URL, &models.SuggestRequest{Query: "Heat", Mode: "plot"}); err == nil || errors.As(err, &nf) {
		t.Errorf("bad mode err = %v", err)
	}

	status, err := statusViaHTTP(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	if status.Snapshot.Entries != 14 {
		t.Errorf("status entries = %d", status.Snapshot.Entries)
	}
	var buf bytes.Buffer
	writeStatusText(&buf, status)
	for _, want := range []string{"entries:            14", "matrix_overview:", "matrix_soup:"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("status text missing %q:\n%s", want, buf.String())
		}
	}
}
