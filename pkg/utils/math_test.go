package utils

import (
	"math"
	"testing"
)

func TestNormalizeL2(t *testing.T) {
	x := []float64{3, 4}
	norm := NormalizeL2(x)
	if norm != 5 {
		t.Errorf("norm = %v, want 5", norm)
	}
	if math.Abs(x[0]-0.6) > 1e-12 || math.Abs(x[1]-0.8) > 1e-12 {
		t.Errorf("normalized = %v", x)
	}

	zero := []float64{0, 0}
	if NormalizeL2(zero) != 0 || zero[0] != 0 {
		t.Errorf("zero vector should be unchanged: %v", zero)
	}
}

func TestPercentOf(t *testing.T) {
	tests := []struct {
		v, max float64
		want   int
	}{
		{1, 1, 100},
		{0.5, 1, 50},
		{0.333, 1, 33},
		{0.335, 1, 34},
		{0.2, 0.4, 50},
		{0, 1, 0},
		{1, 0, 0},
		{-1, 1, 0},
	}
	for _, tt := range tests {
		if got := PercentOf(tt.v, tt.max); got != tt.want {
			t.Errorf("PercentOf(%v, %v) = %d, want %d", tt.v, tt.max, got, tt.want)
		}
	}
}
