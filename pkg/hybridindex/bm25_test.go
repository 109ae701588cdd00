package hybridindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBM25_ScoresFavorTermFrequency(t *testing.T) {
	idx := newBM25(DefaultK1, DefaultB)
	idx.build([][]string{
		{"apple", "apple", "apple"},
		{"apple", "banana"},
		{"cherry"},
	})

	scores := idx.score([]string{"apple"})
	assert.Greater(t, scores[0], scores[1])
	assert.Zero(t, scores[2])
}

func TestBM25_NormalizeHandlesAllZero(t *testing.T) {
	got := normalize([]float64{0, 0, 0})
	assert.Equal(t, []float64{0, 0, 0}, got)
}

func TestBM25_NormalizeDividesByMax(t *testing.T) {
	got := normalize([]float64{2, 4, 0})
	assert.Equal(t, 0.5, got[0])
	assert.Equal(t, 1.0, got[1])
	assert.Equal(t, 0.0, got[2])
}

func TestBM25_StateTransitions(t *testing.T) {
	idx := newBM25(DefaultK1, DefaultB)
	assert.Equal(t, Uninitialized, idx.state)
	idx.build([][]string{{"a"}})
	assert.Equal(t, Built, idx.state)
	idx.markStale()
	assert.Equal(t, Stale, idx.state)
}
