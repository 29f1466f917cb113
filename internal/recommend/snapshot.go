package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/reelmatch/internal/corpus"
	"github.com/hyperjump/reelmatch/internal/metrics"
	"github.com/hyperjump/reelmatch/internal/models"
	"github.com/hyperjump/reelmatch/internal/similarity"
	"github.com/hyperjump/reelmatch/internal/textvec"
)

// BuildOptions controls snapshot construction.
type BuildOptions struct {
	// Workers bounds matrix-building goroutines; <= 0 uses GOMAXPROCS.
	Workers int
	// TopCast is the number of billed cast members in the soup.
	TopCast int
	// CacheDir holds persisted matrices keyed by mode. Empty disables the cache.
	CacheDir string
	Logger   *zap.Logger
}

// Snapshot is an immutable corpus version: the catalog plus one similarity matrix per mode.
type Snapshot struct {
	ID      string
	BuiltAt time.Time

	catalog   *corpus.Catalog
	matrices  map[models.Mode]*similarity.Matrix
	vocab     map[models.Mode]int
	fromCache map[models.Mode]bool
}

// NewSnapshot vectorizes every mode's text representation and builds its similarity matrix.
// When opts.CacheDir is set, a persisted matrix whose fingerprint matches the catalog is
// reused, and freshly built matrices are written back.
func NewSnapshot(ctx context.Context, catalog *corpus.Catalog, opts BuildOptions) (*Snapshot, error) {
	if catalog == nil || catalog.Len() == 0 {
		return nil, corpus.ErrEmptyCorpus
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()
	s := &Snapshot{
		ID:        uuid.NewString(),
		catalog:   catalog,
		matrices:  make(map[models.Mode]*similarity.Matrix, len(models.Modes)),
		vocab:     make(map[models.Mode]int, len(models.Modes)),
		fromCache: make(map[models.Mode]bool, len(models.Modes)),
	}
	for _, mode := range models.Modes {
		vz, err := textvec.ForMode(mode)
		if err != nil {
			return nil, err
		}
		key := cacheKey(catalog, mode, vz, opts.TopCast)
		if m := loadCached(opts.CacheDir, mode, key, catalog.Len(), logger); m != nil {
			s.matrices[mode] = m
			s.fromCache[mode] = true
			continue
		}
		vectors, err := vz.FitTransform(ctx, catalog.Texts(mode, opts.TopCast))
		if err != nil {
			return nil, err
		}
		m, err := similarity.Build(ctx, vectors, opts.Workers)
		if err != nil {
			return nil, fmt.Errorf("%s matrix: %w", mode, err)
		}
		m.Mode = mode.String()
		m.Fingerprint = key
		s.matrices[mode] = m
		s.vocab[mode] = vz.VocabularySize()
		if opts.CacheDir != "" {
			if err := m.Save(cachePath(opts.CacheDir, mode)); err != nil {
				logger.Warn("failed to persist similarity matrix", zap.String("mode", mode.String()), zap.Error(err))
			}
		}
	}
	s.BuiltAt = time.Now()
	metrics.RecordSnapshot(catalog.Len(), s.BuiltAt.Sub(start))
	logger.Info("snapshot built",
		zap.String("id", s.ID),
		zap.Int("entries", catalog.Len()),
		zap.Duration("elapsed", s.BuiltAt.Sub(start)))
	return s, nil
}

// NewSnapshotFromMatrices assembles a snapshot from prebuilt matrices. Every mode must be
// present and sized to the catalog.
func NewSnapshotFromMatrices(catalog *corpus.Catalog, matrices map[models.Mode]*similarity.Matrix) (*Snapshot, error) {
	if catalog == nil || catalog.Len() == 0 {
		return nil, corpus.ErrEmptyCorpus
	}
	s := &Snapshot{
		ID:        uuid.NewString(),
		BuiltAt:   time.Now(),
		catalog:   catalog,
		matrices:  make(map[models.Mode]*similarity.Matrix, len(models.Modes)),
		vocab:     make(map[models.Mode]int),
		fromCache: make(map[models.Mode]bool),
	}
	for _, mode := range models.Modes {
		m, ok := matrices[mode]
		if !ok {
			return nil, fmt.Errorf("missing %s matrix", mode)
		}
		if m.Size() != catalog.Len() {
			return nil, fmt.Errorf("%s matrix has %d rows, catalog has %d entries", mode, m.Size(), catalog.Len())
		}
		s.matrices[mode] = m
	}
	return s, nil
}

// Catalog returns the snapshot's catalog.
func (s *Snapshot) Catalog() *corpus.Catalog {
	return s.catalog
}

// Matrix returns the similarity matrix for mode, or nil.
func (s *Snapshot) Matrix(mode models.Mode) *similarity.Matrix {
	return s.matrices[mode]
}

func cachePath(dir string, mode models.Mode) string {
	return filepath.Join(dir, mode.String()+".matrix")
}

// cacheKey identifies everything a mode's matrix is computed from: the catalog content, the
// analyzer and weighting, and for soup the number of billed cast members.
func cacheKey(catalog *corpus.Catalog, mode models.Mode, vz *textvec.Vectorizer, topCast int) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s", catalog.Fingerprint(), mode, vz.Analyzer(), vz.Weighting())
	if mode == models.ModeSoup {
		if topCast <= 0 {
			topCast = corpus.DefaultTopCast
		}
		fmt.Fprintf(h, "|top_cast=%d", topCast)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func loadCached(dir string, mode models.Mode, key string, entries int, logger *zap.Logger) *similarity.Matrix {
	if dir == "" {
		return nil
	}
	m, err := similarity.Load(cachePath(dir, mode))
	switch {
	case errors.Is(err, os.ErrNotExist):
		metrics.MatrixCacheTotal.WithLabelValues(mode.String(), "miss").Inc()
		return nil
	case err != nil:
		logger.Warn("ignoring unreadable matrix cache", zap.String("mode", mode.String()), zap.Error(err))
		metrics.MatrixCacheTotal.WithLabelValues(mode.String(), "miss").Inc()
		return nil
	}
	if m.Mode != mode.String() || m.Fingerprint != key || m.Size() != entries {
		logger.Debug("matrix cache is stale", zap.String("mode", mode.String()))
		metrics.MatrixCacheTotal.WithLabelValues(mode.String(), "stale").Inc()
		return nil
	}
	metrics.MatrixCacheTotal.WithLabelValues(mode.String(), "hit").Inc()
	return m
}
