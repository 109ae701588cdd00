package embeddings

import "math"

// Normalize scales v to unit L2 norm. A zero (or all-but-negligible)
// vector is returned unchanged: it is the store's legal sentinel for "the
// embedding provider failed for this session", and normalizing it would
// divide by zero.
func Normalize(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	norm := math.Sqrt(sumSq)
	if norm < 1e-9 {
		return v
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
