package ingest_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mixuechu/wememory/pkg/ingest"
	"github.com/mixuechu/wememory/pkg/session"
	"github.com/mixuechu/wememory/pkg/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLoader_RoundTrip(t *testing.T) {
	raw := map[string]any{
		"name": "team chat",
		"kind": "group",
		"messages": []map[string]any{
			{"sender_id": "u1", "display_name": "alice", "timestamp": 1000, "content": "hi", "kind": "text"},
			{"sender_id": "u2", "display_name": "bob", "timestamp": 1060, "content": "hello", "kind": "text"},
		},
	}
	data, err := json.Marshal(raw)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "log.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loader := ingest.JSONLoader{}
	msgs, meta, err := loader.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "team chat", meta.Name)
	assert.Equal(t, session.ConversationGroup, meta.Kind)
	require.Len(t, msgs, 2)
	assert.Equal(t, "alice", msgs[0].DisplayName)
	assert.Equal(t, time.Unix(1000, 0).UTC(), msgs[0].Timestamp)
	assert.Equal(t, session.KindText, msgs[0].Kind)
}

func TestPlanBatches_SplitsOnBudget(t *testing.T) {
	sessions := []session.Session{
		{ContentText: stringOfLen(100)},
		{ContentText: stringOfLen(100)},
		{ContentText: stringOfLen(100)},
	}
	batches := ingest.PlanBatches(sessions, 80) // each session costs 50 tokens
	require.Len(t, batches, 3)
	for _, b := range batches {
		assert.Len(t, b, 1)
	}
}

func TestPlanBatches_OversizedSessionGetsOwnBatch(t *testing.T) {
	sessions := []session.Session{{ContentText: stringOfLen(1000)}}
	batches := ingest.PlanBatches(sessions, 10)
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 1)
}

func TestPlanBatches_ZeroBudgetUsesDefault(t *testing.T) {
	batches := ingest.PlanBatches([]session.Session{{ContentText: "hi"}}, 0)
	require.Len(t, batches, 1)
}

func stringOfLen(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'x'
	}
	return string(b)
}

func TestShard_WriteAndMerge(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shards")

	shardA, err := vectorstore.New(4)
	require.NoError(t, err)
	require.NoError(t, shardA.Add([]float32{1, 0, 0, 0}, []float32{1, 0, 0, 0}, vectorstore.Meta{ConversationName: "a"}))
	require.NoError(t, ingest.WriteShard(dir, "conv-a", shardA))

	shardB, err := vectorstore.New(4)
	require.NoError(t, err)
	require.NoError(t, shardB.Add([]float32{0, 1, 0, 0}, []float32{0, 1, 0, 0}, vectorstore.Meta{ConversationName: "b"}))
	require.NoError(t, ingest.WriteShard(dir, "conv-b", shardB))

	merged, err := ingest.MergeShards(dir, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, merged.Len())
}
