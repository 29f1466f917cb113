package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/reelmatch/internal/corpus"
	"github.com/hyperjump/reelmatch/internal/metrics"
	"github.com/hyperjump/reelmatch/internal/recommend"
)

// LoadFunc reads the corpus at path.
type LoadFunc func(path string) (*corpus.Catalog, error)

// Indexer is rebuilt after each successful reload.
type Indexer interface {
	Rebuild(ctx context.Context, catalog *corpus.Catalog) error
}

// Reloader rebuilds the recommender snapshot and title index from a corpus file.
// Reloads are serialized; a failed reload leaves the previous snapshot serving.
type Reloader struct {
	rec     *recommend.Recommender
	index   Indexer
	load    LoadFunc
	build   recommend.BuildOptions
	timeout time.Duration
	mu      sync.Mutex
	logger  *zap.Logger
}

// NewReloader returns a Reloader. index may be nil.
func NewReloader(rec *recommend.Recommender, index Indexer, load LoadFunc, build recommend.BuildOptions, logger *zap.Logger) *Reloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if load == nil {
		load = func(path string) (*corpus.Catalog, error) {
			return corpus.LoadCatalog(path, corpus.WithLogger(logger))
		}
	}
	return &Reloader{
		rec:     rec,
		index:   index,
		load:    load,
		build:   build,
		timeout: 10 * time.Minute,
		logger:  logger,
	}
}

// Reload loads path, builds a fresh snapshot and swaps it in.
func (r *Reloader) Reload(ctx context.Context, path string) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer func() { metrics.RecordReload(err) }()

	start := time.Now()
	catalog, err := r.load(path)
	if err != nil {
		return fmt.Errorf("reload corpus: %w", err)
	}
	if cur := r.rec.Current(); cur != nil && cur.Catalog().Fingerprint() == catalog.Fingerprint() {
		r.logger.Debug("corpus unchanged, skipping reload", zap.String("path", path))
		return nil
	}
	snap, err := recommend.NewSnapshot(ctx, catalog, r.build)
	if err != nil {
		return fmt.Errorf("rebuild snapshot: %w", err)
	}
	if r.index != nil {
		if err := r.index.Rebuild(ctx, catalog); err != nil {
			return fmt.Errorf("rebuild title index: %w", err)
		}
	}
	r.rec.Swap(snap)
	r.logger.Info("corpus reloaded",
		zap.String("path", path),
		zap.Int("entries", catalog.Len()),
		zap.String("build_id", snap.ID),
		zap.Duration("took", time.Since(start)))
	return nil
}

// OnChange adapts Reload to a Watcher callback. Errors are logged.
func (r *Reloader) OnChange(ctx context.Context) func(path string) {
	return func(path string) {
		rctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		if err := r.Reload(rctx, path); err != nil {
			r.logger.Error("corpus reload failed, keeping previous snapshot", zap.String("path", path), zap.Error(err))
		}
	}
}
