package domain

import (
	"fmt"
	"math"
)

// Normalize scales v to unit Euclidean length. Stored embeddings are always
// unit-normalized so similarity scoring can use a plain dot product instead
// of a full cosine division on the hot path.
// Returns ErrDegenerateVector when the norm is zero or non-finite, which
// guards against all-zero provider responses.
func Normalize(v []float32) ([]float32, error) {
	if len(v) == 0 {
		return nil, fmt.Errorf("empty vector: %w", ErrDegenerateVector)
	}

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)

	if norm == 0 || math.IsInf(norm, 0) || math.IsNaN(norm) {
		return nil, fmt.Errorf("norm %v: %w", norm, ErrDegenerateVector)
	}

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out, nil
}

// Dot returns the dot product of a and b. For unit vectors this equals
// cosine similarity and lies in [-1, 1].
// Returns an error on dimensionality mismatch so a single malformed
// embedding can be excluded instead of silently miscompared.
func Dot(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimensions %d vs %d: %w", len(a), len(b), ErrVersionMismatch)
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum, nil
}
