package textvec

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/hyperjump/reelmatch/internal/models"
)

// Weighting selects how term counts become vector values.
type Weighting int

const (
	// Counts uses raw term counts.
	Counts Weighting = iota
	// TFIDF multiplies counts by the smoothed inverse document frequency ln((1+n)/(1+df))+1.
	TFIDF
)

func (w Weighting) String() string {
	if w == TFIDF {
		return "tfidf"
	}
	return "counts"
}

// Vectorizer builds a vocabulary over a set of documents and returns one normalized vector per document.
type Vectorizer struct {
	tokenizer *Tokenizer
	weighting Weighting
	vocab     map[string]int32
	idf       []float64
}

// NewVectorizer returns a vectorizer with the given tokenizer and weighting.
func NewVectorizer(tok *Tokenizer, w Weighting) *Vectorizer {
	return &Vectorizer{tokenizer: tok, weighting: w}
}

// ForMode returns the vectorizer used for mode: TF-IDF over overview text, counts over soup text.
func ForMode(mode models.Mode) (*Vectorizer, error) {
	tok, err := NewTokenizer(mode)
	if err != nil {
		return nil, err
	}
	w := TFIDF
	if mode == models.ModeSoup {
		w = Counts
	}
	return NewVectorizer(tok, w), nil
}

// Analyzer returns the name of the analyzer that tokenizes documents.
func (v *Vectorizer) Analyzer() string {
	return v.tokenizer.Name()
}

// Weighting returns the weighting scheme.
func (v *Vectorizer) Weighting() Weighting {
	return v.weighting
}

// VocabularySize returns the number of distinct terms seen by the last FitTransform.
func (v *Vectorizer) VocabularySize() int {
	return len(v.vocab)
}

// FitTransform builds the vocabulary from docs and returns their L2-normalized vectors in
// input order. Term indices are assigned in first-seen order. Documents without terms
// produce empty vectors.
func (v *Vectorizer) FitTransform(ctx context.Context, docs []string) ([]Vector, error) {
	v.vocab = make(map[string]int32)
	counts := make([]map[int32]int, len(docs))
	var df []int
	for i, doc := range docs {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("vectorize: %w", err)
			}
		}
		tc := make(map[int32]int)
		for _, term := range v.tokenizer.Tokens(doc) {
			id, ok := v.vocab[term]
			if !ok {
				id = int32(len(v.vocab))
				v.vocab[term] = id
				df = append(df, 0)
			}
			if tc[id] == 0 {
				df[id]++
			}
			tc[id]++
		}
		counts[i] = tc
	}

	v.idf = nil
	if v.weighting == TFIDF {
		n := float64(len(docs))
		v.idf = make([]float64, len(df))
		for id, d := range df {
			v.idf[id] = math.Log((1+n)/(1+float64(d))) + 1
		}
	}

	out := make([]Vector, len(docs))
	for i, tc := range counts {
		vec := Vector{
			Indices: make([]int32, 0, len(tc)),
			Values:  make([]float64, 0, len(tc)),
		}
		for id := range tc {
			vec.Indices = append(vec.Indices, id)
		}
		sort.Slice(vec.Indices, func(a, b int) bool { return vec.Indices[a] < vec.Indices[b] })
		for _, id := range vec.Indices {
			val := float64(tc[id])
			if v.idf != nil {
				val *= v.idf[id]
			}
			vec.Values = append(vec.Values, val)
		}
		vec.Normalize()
		out[i] = vec
	}
	return out, nil
}
