package vectorstore_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mixuechu/wememory/pkg/session"
	"github.com/mixuechu/wememory/pkg/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitVector(dim int, hot int) []float32 {
	v := make([]float32, dim)
	v[hot] = 1
	return v
}

func TestStore_AddRejectsWrongDimension(t *testing.T) {
	s, err := vectorstore.New(4)
	require.NoError(t, err)

	err = s.Add(make([]float32, 3), make([]float32, 4), vectorstore.Meta{})
	assert.Error(t, err)
}

func TestStore_AddRejectsNonUnitVector(t *testing.T) {
	s, err := vectorstore.New(4)
	require.NoError(t, err)

	bad := []float32{1, 1, 1, 1} // norm = 2
	err = s.Add(bad, unitVector(4, 0), vectorstore.Meta{})
	assert.Error(t, err)
}

func TestStore_AddAcceptsZeroVectorSentinel(t *testing.T) {
	s, err := vectorstore.New(4)
	require.NoError(t, err)

	zero := make([]float32, 4)
	err = s.Add(zero, zero, vectorstore.Meta{ConversationName: "failed embed"})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestStore_AddAndLookup(t *testing.T) {
	s, err := vectorstore.New(4)
	require.NoError(t, err)

	meta := vectorstore.Meta{ConversationName: "alpha", StartTS: time.Unix(1000, 0)}
	require.NoError(t, s.Add(unitVector(4, 0), unitVector(4, 1), meta))

	assert.Equal(t, 1, s.Len())
	got, err := s.Meta(0)
	require.NoError(t, err)
	assert.Equal(t, meta, got)

	content, err := s.Content(0)
	require.NoError(t, err)
	assert.Equal(t, unitVector(4, 0), content)

	_, err = s.Meta(1)
	assert.Error(t, err)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s, err := vectorstore.New(4)
	require.NoError(t, err)
	require.NoError(t, s.Add(unitVector(4, 0), unitVector(4, 1), vectorstore.Meta{
		ConversationName: "alpha",
		Participants:     []string{"alice", "bob"},
		SessionKind:      session.KindMain,
		StartTS:          time.Unix(1000, 0).UTC(),
		EndTS:            time.Unix(2000, 0).UTC(),
	}))
	require.NoError(t, s.Add(unitVector(4, 2), unitVector(4, 3), vectorstore.Meta{ConversationName: "beta"}))

	path := filepath.Join(t.TempDir(), "snap.store")
	require.NoError(t, s.Save(path))

	loaded, err := vectorstore.Load(path)
	require.NoError(t, err)
	assert.Equal(t, s.Len(), loaded.Len())
	assert.Equal(t, s.Dimension(), loaded.Dimension())

	origMeta, _ := s.Meta(0)
	gotMeta, _ := loaded.Meta(0)
	assert.Equal(t, origMeta, gotMeta)

	origContent, _ := s.Content(1)
	gotContent, _ := loaded.Content(1)
	assert.Equal(t, origContent, gotContent)
}

func TestStore_LoadRejectsUnreadableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.store")
	require.NoError(t, os.WriteFile(path, []byte("not a snapshot"), 0o644))
	_, err := vectorstore.Load(path)
	assert.Error(t, err)
}

func TestUnitVectorNormSanity(t *testing.T) {
	v := unitVector(8, 3)
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSq), 1e-9)
}
