package utils

import "math"

// NormalizeL2 normalizes the slice in place to unit L2 norm and returns the original norm.
// If the norm is zero, the slice is unchanged.
func NormalizeL2(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	if sum == 0 {
		return 0
	}
	norm := math.Sqrt(sum)
	for i := range x {
		x[i] /= norm
	}
	return norm
}

// PercentOf returns round(100*v/max), or 0 when max is not positive.
func PercentOf(v, max float64) int {
	if max <= 0 || v <= 0 {
		return 0
	}
	p := math.Round(100 * v / max)
	if p > 100 {
		return 100
	}
	return int(p)
}
