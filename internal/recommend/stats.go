package recommend

import (
	"time"

	"github.com/hyperjump/reelmatch/internal/models"
)

// MatrixStats describes one mode's similarity matrix.
type MatrixStats struct {
	Size       int   `json:"size"`
	Bytes      int64 `json:"bytes"`
	Vocabulary int   `json:"vocabulary,omitempty"`
	FromCache  bool  `json:"from_cache"`
}

// Stats summarizes the snapshot being served.
type Stats struct {
	BuildID     string                      `json:"build_id"`
	BuiltAt     time.Time                   `json:"built_at"`
	Entries     int                         `json:"entries"`
	People      int                         `json:"people"`
	TopN        int                         `json:"top_n"`
	DefaultMode models.Mode                 `json:"default_mode"`
	Matrices    map[models.Mode]MatrixStats `json:"matrices"`
}

// Stats returns a summary of the current snapshot.
func (r *Recommender) Stats() Stats {
	snap := r.current.Load()
	st := Stats{
		BuildID:     snap.ID,
		BuiltAt:     snap.BuiltAt,
		Entries:     snap.catalog.Len(),
		People:      len(snap.catalog.People()),
		TopN:        r.topN,
		DefaultMode: r.defaultMode,
		Matrices:    make(map[models.Mode]MatrixStats, len(snap.matrices)),
	}
	for mode, m := range snap.matrices {
		st.Matrices[mode] = MatrixStats{
			Size:       m.Size(),
			Bytes:      m.Bytes(),
			Vocabulary: snap.vocab[mode],
			FromCache:  snap.fromCache[mode],
		}
	}
	return st
}
