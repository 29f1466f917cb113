package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "test.db"
recommend:
  top_n: 5
  default_mode: soup
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Storage.DatabasePath == "" {
		t.Error("database_path should be set")
	}
	if cfg.Recommend.TopN != 5 || cfg.Recommend.DefaultMode != "soup" {
		t.Errorf("unexpected recommend config: %+v", cfg.Recommend)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_durations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
metadata:
  timeout: 2s
  open_timeout: 1m
watch:
  enabled: true
  debounce: 250ms
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Metadata.Timeout != 2*time.Second {
		t.Errorf("timeout = %v, want 2s", cfg.Metadata.Timeout)
	}
	if cfg.Metadata.OpenTimeout != time.Minute {
		t.Errorf("open_timeout = %v, want 1m", cfg.Metadata.OpenTimeout)
	}
	if !cfg.Watch.Enabled || cfg.Watch.Debounce != 250*time.Millisecond {
		t.Errorf("unexpected watch config: %+v", cfg.Watch)
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
storage:
  database_path: "./data/db/catalog.db"
corpus:
  path: "./data/movies.csv"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	wantDB := filepath.Join(dir, "data", "db", "catalog.db")
	if cfg.Storage.DatabasePath != wantDB {
		t.Errorf("database_path = %q, want %q", cfg.Storage.DatabasePath, wantDB)
	}
	wantCorpus := filepath.Join(dir, "data", "movies.csv")
	if cfg.Corpus.Path != wantCorpus {
		t.Errorf("corpus.path = %q, want %q", cfg.Corpus.Path, wantCorpus)
	}
}

func TestLoad_emptyCorpusPathStaysEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("debug: true\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Corpus.Path != "" {
		t.Errorf("corpus.path = %q, want empty", cfg.Corpus.Path)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
}

func TestLoad_apiKeyFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("metadata:\n  api_key: from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvTMDBAPIKey, "from-env")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Metadata.APIKey != "from-env" {
		t.Errorf("api_key = %q, want from-env", cfg.Metadata.APIKey)
	}
}

func TestLoad_apiKeyFromEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("metadata:\n  api_key: from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, EnvFile), []byte(EnvTMDBAPIKey+"=from-dotenv\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvTMDBAPIKey, "")
	os.Unsetenv(EnvTMDBAPIKey)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Metadata.APIKey != "from-dotenv" {
		t.Errorf("api_key = %q, want from-dotenv", cfg.Metadata.APIKey)
	}
}

func TestLoad_environmentBeatsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("debug: false\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, EnvFile), []byte(EnvTMDBAPIKey+"=from-dotenv\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvTMDBAPIKey, "from-env")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Metadata.APIKey != "from-env" {
		t.Errorf("api_key = %q, want from-env", cfg.Metadata.APIKey)
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	ApplyDefaults(&cfg)
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Recommend.TopN != 10 {
		t.Errorf("top_n = %d, want 10", cfg.Recommend.TopN)
	}
	if cfg.Recommend.DefaultMode != "overview" {
		t.Errorf("default_mode = %q, want overview", cfg.Recommend.DefaultMode)
	}
	if cfg.Corpus.TopCast != 3 {
		t.Errorf("top_cast = %d, want 3", cfg.Corpus.TopCast)
	}
	if cfg.Metadata.FailureThreshold == 0 || cfg.Metadata.CacheSize == 0 {
		t.Errorf("metadata defaults not applied: %+v", cfg.Metadata)
	}
}

func TestSave_roundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Recommend.TopN = 7
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Recommend.TopN != 7 {
		t.Errorf("top_n = %d, want 7", loaded.Recommend.TopN)
	}
}
