// Package config provides configuration loading and structs for the reelmatch server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvTMDBAPIKey overrides metadata.api_key when set.
const EnvTMDBAPIKey = "REELMATCH_TMDB_API_KEY"

// EnvFile is read from the config file's directory before overrides are applied.
// Variables already present in the environment win.
const EnvFile = ".env"

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Recommend RecommendConfig `yaml:"recommend"`
	Metadata  MetadataConfig  `yaml:"metadata"`
	Watch     WatchConfig     `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// RateLimit is the number of requests allowed per client IP per minute. Zero disables limiting.
	RateLimit      int      `yaml:"rate_limit"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig holds paths for the catalog database and derived indices.
type StorageConfig struct {
	DatabasePath    string `yaml:"database_path"`
	BleveIndexPath  string `yaml:"bleve_index_path"`
	MatrixCachePath string `yaml:"matrix_cache_path"`
}

// CorpusConfig describes where the movie corpus comes from.
type CorpusConfig struct {
	// Path is a .csv, .tsv, .xlsx or .json file. When empty the SQLite catalog is used.
	Path string `yaml:"path"`
	// TopCast limits how many billed cast members go into the soup.
	TopCast int `yaml:"top_cast"`
}

// RecommendConfig holds similarity lookup settings.
type RecommendConfig struct {
	TopN        int    `yaml:"top_n"`
	DefaultMode string `yaml:"default_mode"`
	// Workers bounds the goroutines used to build similarity matrices.
	Workers int `yaml:"workers"`
}

// MetadataConfig holds settings for the external movie metadata provider.
type MetadataConfig struct {
	Enabled          bool          `yaml:"enabled"`
	BaseURL          string        `yaml:"base_url"`
	ImageBaseURL     string        `yaml:"image_base_url"`
	PlaceholderImage string        `yaml:"placeholder_image"`
	APIKey           string        `yaml:"api_key"`
	Timeout          time.Duration `yaml:"timeout"`
	RequestsPerSec   float64       `yaml:"requests_per_second"`
	Burst            int           `yaml:"burst"`
	FailureThreshold uint32        `yaml:"failure_threshold"`
	OpenTimeout      time.Duration `yaml:"open_timeout"`
	CacheSize        int           `yaml:"cache_size"`
}

// WatchConfig holds corpus hot reload settings.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	configDir := filepath.Dir(path)
	if err := godotenv.Load(filepath.Join(configDir, EnvFile)); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", EnvFile, err)
	}
	if key := os.Getenv(EnvTMDBAPIKey); key != "" {
		cfg.Metadata.APIKey = key
	}

	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.BleveIndexPath = expandPath(cfg.Storage.BleveIndexPath, configDir)
	cfg.Storage.MatrixCachePath = expandPath(cfg.Storage.MatrixCachePath, configDir)
	if cfg.Corpus.Path != "" {
		cfg.Corpus.Path = expandPath(cfg.Corpus.Path, configDir)
	}

	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
