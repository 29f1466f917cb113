package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.AllowedOrigins == nil {
		cfg.Server.AllowedOrigins = []string{"*"}
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/reelmatch/data/db/catalog.db"
	}
	if cfg.Storage.BleveIndexPath == "" {
		cfg.Storage.BleveIndexPath = "/usr/local/var/reelmatch/data/indices/titles"
	}
	if cfg.Storage.MatrixCachePath == "" {
		cfg.Storage.MatrixCachePath = "/usr/local/var/reelmatch/data/matrices"
	}
	if cfg.Corpus.TopCast == 0 {
		cfg.Corpus.TopCast = 3
	}
	if cfg.Recommend.TopN == 0 {
		cfg.Recommend.TopN = 10
	}
	if cfg.Recommend.DefaultMode == "" {
		cfg.Recommend.DefaultMode = "overview"
	}
	if cfg.Metadata.BaseURL == "" {
		cfg.Metadata.BaseURL = "https://api.themoviedb.org/3/"
	}
	if cfg.Metadata.ImageBaseURL == "" {
		cfg.Metadata.ImageBaseURL = "https://image.tmdb.org/t/p/w500/"
	}
	if cfg.Metadata.PlaceholderImage == "" {
		cfg.Metadata.PlaceholderImage = "/static/images/noImage.jpg"
	}
	if cfg.Metadata.Timeout == 0 {
		cfg.Metadata.Timeout = 5 * time.Second
	}
	if cfg.Metadata.RequestsPerSec == 0 {
		cfg.Metadata.RequestsPerSec = 20
	}
	if cfg.Metadata.Burst == 0 {
		cfg.Metadata.Burst = 10
	}
	if cfg.Metadata.FailureThreshold == 0 {
		cfg.Metadata.FailureThreshold = 5
	}
	if cfg.Metadata.OpenTimeout == 0 {
		cfg.Metadata.OpenTimeout = 30 * time.Second
	}
	if cfg.Metadata.CacheSize == 0 {
		cfg.Metadata.CacheSize = 1000
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 400 * time.Millisecond
	}
}
