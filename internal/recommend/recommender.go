// Package recommend answers similarity lookups against an immutable corpus snapshot.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/reelmatch/internal/metrics"
	"github.com/hyperjump/reelmatch/internal/models"
	"github.com/hyperjump/reelmatch/pkg/utils"
)

// DefaultTopN is the result size when none is configured.
const DefaultTopN = 10

// defaultHintLimit bounds "did you mean" titles on a miss.
const defaultHintLimit = 5

// Hinter proposes known titles close to an unmatched query.
type Hinter interface {
	DidYouMean(ctx context.Context, query string, limit int) ([]string, error)
}

// Recommender serves lookups from the current snapshot. Snapshots are swapped atomically;
// a lookup uses the snapshot current when it started.
type Recommender struct {
	current     atomic.Pointer[Snapshot]
	topN        int
	defaultMode models.Mode
	hinter      Hinter
	logger      *zap.Logger
}

// Option configures a Recommender.
type Option func(*Recommender)

// WithTopN sets the maximum number of suggestions per lookup.
func WithTopN(n int) Option {
	return func(r *Recommender) {
		if n > 0 {
			r.topN = n
		}
	}
}

// WithDefaultMode sets the mode used when a lookup passes an empty mode.
func WithDefaultMode(m models.Mode) Option {
	return func(r *Recommender) {
		if m.Valid() {
			r.defaultMode = m
		}
	}
}

// WithHinter sets the source of "did you mean" titles for misses.
func WithHinter(h Hinter) Option {
	return func(r *Recommender) { r.hinter = h }
}

// WithLogger sets a logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Recommender) { r.logger = utils.OrNop(l) }
}

// New returns a Recommender serving snap.
func New(snap *Snapshot, opts ...Option) (*Recommender, error) {
	if snap == nil {
		return nil, ErrNotReady
	}
	r := &Recommender{
		topN:        DefaultTopN,
		defaultMode: models.ModeOverview,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.current.Store(snap)
	return r, nil
}

// Current returns the snapshot currently served.
func (r *Recommender) Current() *Snapshot {
	return r.current.Load()
}

// Swap installs snap and returns the previous snapshot. In-flight lookups finish on the old one.
func (r *Recommender) Swap(snap *Snapshot) *Snapshot {
	if snap == nil {
		return r.current.Load()
	}
	old := r.current.Swap(snap)
	r.logger.Info("snapshot swapped", zap.String("id", snap.ID), zap.Int("entries", snap.catalog.Len()))
	return old
}

// TopN returns the configured result bound.
func (r *Recommender) TopN() int {
	return r.topN
}

// DefaultMode returns the mode used for empty mode arguments.
func (r *Recommender) DefaultMode() models.Mode {
	return r.defaultMode
}

// Suggest resolves query to a corpus title (or, failing that, a cast or crew member) and returns
// the most similar movies under mode, best first. A title match excludes the matched entry.
// A person match ranks against the mean row of the person's credited movies. A query with
// no match returns a *NotFoundError.
func (r *Recommender) Suggest(ctx context.Context, query string, mode models.Mode) (*models.SuggestionResult, error) {
	start := time.Now()
	snap := r.current.Load()
	mode, err := r.resolveMode(mode)
	if err != nil {
		return nil, err
	}
	cat := snap.catalog
	m := snap.matrices[mode]
	res := &models.SuggestionResult{Query: query, Mode: mode, BuildID: snap.ID}

	var row []float32
	exclude := -1
	q := utils.CollapseSpaces(query)
	if idx := cat.LookupTitle(q); len(idx) > 0 {
		anchor := idx[0]
		row, exclude = m.Row(anchor), anchor
		entry := cat.At(anchor)
		res.MatchedID, res.MatchedTitle, res.MatchedBy = entry.ID, entry.Title, models.MatchedByTitle
		for _, i := range idx[1:] {
			res.Alternatives = append(res.Alternatives, cat.At(i).ID)
		}
	} else if idx := cat.LookupPerson(q); len(idx) > 0 {
		row = m.MeanRow(idx)
		res.MatchedBy = models.MatchedByPerson
	} else {
		metrics.RecordSuggestion(mode.String(), metrics.OutcomeNotFound, time.Since(start))
		return nil, r.notFound(ctx, query)
	}

	res.Suggestions = r.rank(snap, row, exclude)
	res.QueryTime = time.Since(start).Microseconds()
	metrics.RecordSuggestion(mode.String(), metrics.OutcomeOK, time.Since(start))
	r.logger.Debug("suggestions computed",
		zap.String("query", query),
		zap.String("mode", mode.String()),
		zap.String("matched_by", res.MatchedBy),
		zap.Int("results", len(res.Suggestions)))
	return res, nil
}

// SuggestByID is Suggest anchored on a corpus identifier instead of a title.
func (r *Recommender) SuggestByID(ctx context.Context, id int, mode models.Mode) (*models.SuggestionResult, error) {
	start := time.Now()
	snap := r.current.Load()
	mode, err := r.resolveMode(mode)
	if err != nil {
		return nil, err
	}
	anchor, ok := snap.catalog.IndexOf(id)
	if !ok {
		metrics.RecordSuggestion(mode.String(), metrics.OutcomeNotFound, time.Since(start))
		return nil, &NotFoundError{Query: strconv.Itoa(id)}
	}
	entry := snap.catalog.At(anchor)
	res := &models.SuggestionResult{
		Query:        strconv.Itoa(id),
		Mode:         mode,
		MatchedID:    entry.ID,
		MatchedTitle: entry.Title,
		MatchedBy:    models.MatchedByID,
		BuildID:      snap.ID,
	}
	res.Suggestions = r.rank(snap, snap.matrices[mode].Row(anchor), anchor)
	res.QueryTime = time.Since(start).Microseconds()
	metrics.RecordSuggestion(mode.String(), metrics.OutcomeOK, time.Since(start))
	return res, nil
}

func (r *Recommender) resolveMode(mode models.Mode) (models.Mode, error) {
	if mode == "" {
		return r.defaultMode, nil
	}
	if !mode.Valid() {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidMode, mode)
	}
	return mode, nil
}

// rank orders every entry except exclude by descending similarity, ties by corpus order,
// and scores the top slice relative to its own maximum.
func (r *Recommender) rank(snap *Snapshot, row []float32, exclude int) []models.Suggestion {
	order := make([]int, 0, len(row))
	for i := range row {
		if i != exclude {
			order = append(order, i)
		}
	}
	sort.Slice(order, func(a, b int) bool {
		va, vb := row[order[a]], row[order[b]]
		if va != vb {
			return va > vb
		}
		return order[a] < order[b]
	})
	if len(order) > r.topN {
		order = order[:r.topN]
	}
	if len(order) == 0 {
		return []models.Suggestion{}
	}

	best := float64(row[order[0]])
	out := make([]models.Suggestion, len(order))
	for rank, i := range order {
		entry := snap.catalog.At(i)
		sim := float64(row[i])
		out[rank] = models.Suggestion{
			ID:         entry.ID,
			Title:      entry.Title,
			Score:      utils.PercentOf(sim, best),
			Similarity: sim,
			Rank:       rank + 1,
		}
	}
	return out
}

func (r *Recommender) notFound(ctx context.Context, query string) error {
	nf := &NotFoundError{Query: query}
	if r.hinter == nil {
		return nf
	}
	hints, err := r.hinter.DidYouMean(ctx, query, defaultHintLimit)
	if err != nil {
		r.logger.Debug("did-you-mean lookup failed", zap.String("query", query), zap.Error(err))
		return nf
	}
	nf.Suggestions = hints
	return nf
}
