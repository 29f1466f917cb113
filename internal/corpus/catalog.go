// Package corpus loads the movie corpus and exposes it as an immutable, indexed catalog.
package corpus

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/hyperjump/reelmatch/internal/models"
	"github.com/hyperjump/reelmatch/pkg/utils"
)

// ErrEmptyCorpus is returned when no usable entries remain after loading.
var ErrEmptyCorpus = errors.New("corpus has no usable entries")

// Catalog is the immutable, ordered set of corpus entries with lookup indices.
// Entry order is corpus order and is the tie-break order for similarity ranking.
// Nothing mutates a Catalog after NewCatalog returns.
type Catalog struct {
	movies      []models.Movie
	byID        map[int]int
	byTitle     map[string][]int
	byPerson    map[string][]int
	fingerprint string
}

// NewCatalog builds a catalog from movies. Entries with a non-positive ID or an empty
// title are dropped; a repeated ID keeps its first occurrence.
func NewCatalog(movies []models.Movie) (*Catalog, error) {
	c := &Catalog{
		movies:   make([]models.Movie, 0, len(movies)),
		byID:     make(map[int]int, len(movies)),
		byTitle:  make(map[string][]int, len(movies)),
		byPerson: make(map[string][]int),
	}
	for _, m := range movies {
		m.Title = utils.CollapseSpaces(m.Title)
		if m.ID <= 0 || m.Title == "" {
			continue
		}
		if _, dup := c.byID[m.ID]; dup {
			continue
		}
		idx := len(c.movies)
		c.movies = append(c.movies, m)
		c.byID[m.ID] = idx
		key := utils.NormalizeKey(m.Title)
		c.byTitle[key] = append(c.byTitle[key], idx)
		seen := make(map[string]struct{})
		for _, p := range m.People() {
			pk := utils.NormalizeKey(p)
			if pk == "" {
				continue
			}
			if _, ok := seen[pk]; ok {
				continue
			}
			seen[pk] = struct{}{}
			c.byPerson[pk] = append(c.byPerson[pk], idx)
		}
	}
	if len(c.movies) == 0 {
		return nil, ErrEmptyCorpus
	}
	c.fingerprint = fingerprint(c.movies)
	return c, nil
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.movies)
}

// At returns the entry at corpus position i. The returned slices must not be modified.
func (c *Catalog) At(i int) models.Movie {
	return c.movies[i]
}

// IndexOf returns the corpus position of id.
func (c *Catalog) IndexOf(id int) (int, bool) {
	i, ok := c.byID[id]
	return i, ok
}

// Get returns the entry with the given id.
func (c *Catalog) Get(id int) (models.Movie, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Movie{}, false
	}
	return c.movies[i], true
}

// LookupTitle returns corpus positions whose title matches q case-insensitively, in corpus order.
func (c *Catalog) LookupTitle(q string) []int {
	return c.byTitle[utils.NormalizeKey(q)]
}

// LookupPerson returns corpus positions crediting the cast or crew member q, in corpus order.
func (c *Catalog) LookupPerson(q string) []int {
	return c.byPerson[utils.NormalizeKey(q)]
}

// Movies returns a copy of all entries in corpus order.
func (c *Catalog) Movies() []models.Movie {
	return append([]models.Movie(nil), c.movies...)
}

// Titles returns entry titles in corpus order.
func (c *Catalog) Titles() []string {
	out := make([]string, len(c.movies))
	for i, m := range c.movies {
		out[i] = m.Title
	}
	return out
}

// People returns every distinct normalized person name.
func (c *Catalog) People() []string {
	out := make([]string, 0, len(c.byPerson))
	for p := range c.byPerson {
		out = append(out, p)
	}
	return out
}

// Fingerprint identifies the catalog content. Equal fingerprints mean equal similarity inputs.
func (c *Catalog) Fingerprint() string {
	return c.fingerprint
}

func fingerprint(movies []models.Movie) string {
	h := sha256.New()
	var buf [8]byte
	for _, m := range movies {
		binary.LittleEndian.PutUint64(buf[:], uint64(m.ID))
		h.Write(buf[:])
		h.Write([]byte(m.Title))
		h.Write([]byte{0})
		h.Write([]byte(m.Overview))
		h.Write([]byte{0})
		for _, list := range [][]string{m.Cast, m.Directors, m.Keywords, m.Genres} {
			h.Write([]byte(strings.Join(list, "|")))
			h.Write([]byte{0})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
