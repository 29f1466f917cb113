package textvec

import (
	"math"

	"github.com/hyperjump/reelmatch/pkg/utils"
)

// Vector is a sparse vector with strictly increasing term indices.
type Vector struct {
	Indices []int32
	Values  []float64
}

// Len returns the number of non-zero terms.
func (v Vector) Len() int {
	return len(v.Indices)
}

// Norm returns the L2 norm.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dot returns the inner product of v and o. For L2-normalized vectors this is the cosine similarity.
func (v Vector) Dot(o Vector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			dot += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return dot
}

// Normalize scales v in place to unit L2 norm. A zero vector is left unchanged.
func (v Vector) Normalize() {
	utils.NormalizeL2(v.Values)
}
