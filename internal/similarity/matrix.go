// Package similarity provides the dense pairwise cosine-similarity matrix over corpus vectors.
package similarity

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/hyperjump/reelmatch/internal/textvec"
)

// Matrix is a symmetric n×n similarity table stored row-major as float32.
// It is read-only once built and safe for concurrent readers.
type Matrix struct {
	n    int
	data []float32

	// Mode and Fingerprint identify the text representation and build inputs the
	// matrix was computed from; they are persisted with it.
	Mode        string
	Fingerprint string
}

// Build computes cosine similarities between all pairs of L2-normalized vectors.
// Each unordered pair is computed once. Rows are distributed across workers goroutines
// (GOMAXPROCS when workers <= 0).
func Build(ctx context.Context, vectors []textvec.Vector, workers int) (*Matrix, error) {
	n := len(vectors)
	if n == 0 {
		return nil, fmt.Errorf("no vectors to compare")
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	m := &Matrix{n: n, data: make([]float32, n*n)}

	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				vi := vectors[i]
				for j := i; j < n; j++ {
					s := float32(clamp(vi.Dot(vectors[j])))
					m.data[i*n+j] = s
					m.data[j*n+i] = s
				}
			}
		}()
	}

	var err error
feed:
	for i := 0; i < n; i++ {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case rows <- i:
		}
	}
	close(rows)
	wg.Wait()
	if err != nil {
		return nil, fmt.Errorf("build similarity matrix: %w", err)
	}
	return m, nil
}

// FromRows builds a matrix from explicit rows. Every row must have len(rows) entries.
func FromRows(rows [][]float32) (*Matrix, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("no rows")
	}
	m := &Matrix{n: n, data: make([]float32, 0, n*n)}
	for i, r := range rows {
		if len(r) != n {
			return nil, fmt.Errorf("row %d has %d entries, expected %d", i, len(r), n)
		}
		m.data = append(m.data, r...)
	}
	return m, nil
}

// Size returns the number of rows (and columns).
func (m *Matrix) Size() int {
	return m.n
}

// Row returns row i. The returned slice aliases the matrix and must not be modified.
func (m *Matrix) Row(i int) []float32 {
	return m.data[i*m.n : (i+1)*m.n : (i+1)*m.n]
}

// At returns the similarity between entries i and j.
func (m *Matrix) At(i, j int) float32 {
	return m.data[i*m.n+j]
}

// MeanRow returns the element-wise mean of the given rows as a new slice.
func (m *Matrix) MeanRow(rows []int) []float32 {
	out := make([]float32, m.n)
	if len(rows) == 0 {
		return out
	}
	sums := make([]float64, m.n)
	for _, r := range rows {
		for j, v := range m.Row(r) {
			sums[j] += float64(v)
		}
	}
	k := float64(len(rows))
	for j, s := range sums {
		out[j] = float32(s / k)
	}
	return out
}

// Bytes returns the in-memory size of the similarity values.
func (m *Matrix) Bytes() int64 {
	return int64(len(m.data)) * 4
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
