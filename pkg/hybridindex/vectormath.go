package hybridindex

import "gonum.org/v1/gonum/floats"

// isZeroVector reports whether vec is the all-zero embedding-failure
// sentinel (spec §4.C). The cos = 1 - L2²/2 identity only holds between
// two unit vectors; a zero row has no direction, so its similarity is
// forced to 0 rather than run through that identity.
func isZeroVector(vec []float32) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}

// squaredL2Linear computes squared Euclidean distance via gonum/floats.
// It is used by the exhaustive linear backend, where vectors are read
// once per query rather than traversed millions of times as in the HNSW
// graph's hot path, so the float64 conversion overhead is immaterial.
func squaredL2Linear(a, b []float32) float64 {
	bufA := make([]float64, len(a))
	bufB := make([]float64, len(b))
	for i := range a {
		bufA[i] = float64(a[i])
		bufB[i] = float64(b[i])
	}
	diff := make([]float64, len(a))
	floats.SubTo(diff, bufA, bufB)
	return floats.Dot(diff, diff)
}
