package hybridindex

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestHNSW_FindsExactMatch(t *testing.T) {
	dim := 8
	vectors := make([][]float32, 20)
	rng := rand.New(rand.NewSource(1))
	for i := range vectors {
		v := make([]float32, dim)
		var sumSq float64
		for j := range v {
			x := rng.NormFloat64()
			v[j] = float32(x)
			sumSq += x * x
		}
		norm := float32(math.Sqrt(sumSq))
		for j := range v {
			v[j] /= norm
		}
		vectors[i] = v
	}

	g := newHNSWGraph(4, 42)
	g.build(vectors)

	results := g.searchN(vectors[5], len(vectors))
	require.NotEmpty(t, results)
	assert.Equal(t, 5, results[0].id, "searching for a stored vector should surface itself as the nearest neighbor")
	assert.True(t, scalar.EqualWithinAbs(float64(results[0].dist), 0, 1e-5))
}

func TestHNSW_SearchNReturnsUpToCorpusSize(t *testing.T) {
	dim := 4
	vectors := [][]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
	}
	g := newHNSWGraph(2, 1)
	g.build(vectors)

	results := g.searchN([]float32{1, 0, 0, 0}, len(vectors))
	assert.LessOrEqual(t, len(results), len(vectors))
	assert.NotEmpty(t, results)
}

func TestSquaredL2_Zero(t *testing.T) {
	a := []float32{1, 0, 0}
	assert.Zero(t, squaredL2(a, a))
}
