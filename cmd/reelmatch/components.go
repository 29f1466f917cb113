package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/reelmatch/internal/config"
	"github.com/hyperjump/reelmatch/internal/corpus"
	"github.com/hyperjump/reelmatch/internal/keyword"
	"github.com/hyperjump/reelmatch/internal/metadata"
	"github.com/hyperjump/reelmatch/internal/models"
	"github.com/hyperjump/reelmatch/internal/recommend"
	"github.com/hyperjump/reelmatch/internal/storage"
)

// Components holds initialized services.
type Components struct {
	Storage     storage.Storage
	Index       *keyword.BleveIndex
	Recommender *recommend.Recommender
	Provider    metadata.Provider
	Catalog     *corpus.Catalog
	Build       recommend.BuildOptions
}

// Close releases storage and index handles.
func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Index != nil {
		_ = c.Index.Close()
	}
}

// initializeComponents loads the corpus, builds (or reuses) the similarity snapshot and the
// title index, and sets up the metadata provider. memIndex keeps the title index in memory,
// which lets direct CLI commands run while a server holds the on-disk index.
func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger, memIndex bool) (*Components, error) {
	c := &Components{
		Build: recommend.BuildOptions{
			Workers:  cfg.Recommend.Workers,
			TopCast:  cfg.Corpus.TopCast,
			CacheDir: cfg.Storage.MatrixCachePath,
			Logger:   logger,
		},
	}
	ok := false
	defer func() {
		if !ok {
			c.Close()
		}
	}()

	catalog, store, err := loadCatalog(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	c.Catalog, c.Storage = catalog, store

	snap, err := recommend.NewSnapshot(ctx, catalog, c.Build)
	if err != nil {
		return nil, fmt.Errorf("failed to build similarity snapshot: %w", err)
	}

	indexPath := cfg.Storage.BleveIndexPath
	if memIndex {
		indexPath = ""
	}
	c.Index, err = keyword.NewBleveIndex(indexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize title index: %w", err)
	}
	if err := c.Index.Rebuild(ctx, catalog); err != nil {
		return nil, fmt.Errorf("failed to build title index: %w", err)
	}

	defaultMode, err := models.ParseMode(cfg.Recommend.DefaultMode, models.ModeOverview)
	if err != nil {
		return nil, fmt.Errorf("recommend.default_mode: %w", err)
	}
	c.Recommender, err = recommend.New(snap,
		recommend.WithTopN(cfg.Recommend.TopN),
		recommend.WithDefaultMode(defaultMode),
		recommend.WithHinter(c.Index),
		recommend.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	c.Provider, err = newProvider(cfg, logger)
	if err != nil {
		return nil, err
	}
	ok = true
	return c, nil
}

// loadCatalog reads corpus.path when set, otherwise the imported catalog database.
// The returned storage is nil when the corpus came from a file.
func loadCatalog(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*corpus.Catalog, storage.Storage, error) {
	if cfg.Corpus.Path != "" {
		catalog, err := corpus.LoadCatalog(cfg.Corpus.Path, corpus.WithLogger(logger))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load corpus: %w", err)
		}
		logger.Info("corpus loaded from file", zap.String("path", cfg.Corpus.Path), zap.Int("entries", catalog.Len()))
		return catalog, nil, nil
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	movies, err := store.ListMovies(ctx, 0, 0)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	catalog, err := corpus.NewCatalog(movies)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("catalog database %s: %w (run \"reelmatch import <file>\" first)", cfg.Storage.DatabasePath, err)
	}
	logger.Info("corpus loaded from database", zap.String("path", cfg.Storage.DatabasePath), zap.Int("entries", catalog.Len()))
	return catalog, store, nil
}

func newProvider(cfg *config.Config, logger *zap.Logger) (metadata.Provider, error) {
	if !cfg.Metadata.Enabled {
		return metadata.Disabled{}, nil
	}
	if cfg.Metadata.APIKey == "" {
		logger.Warn("metadata provider enabled without an API key; details disabled",
			zap.String("env", config.EnvTMDBAPIKey))
		return metadata.Disabled{}, nil
	}
	client, err := metadata.NewTMDBClient(cfg.Metadata, metadata.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metadata provider: %w", err)
	}
	return client, nil
}
