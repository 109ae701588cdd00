package ingest

import (
	"context"

	"github.com/mixuechu/wememory/pkg/embeddings"
)

// EmbedWithFallback embeds texts as one batch call where possible. The
// embedder is driven through langchaingo's own embeddings.Embedder
// contract (EmbedDocuments/EmbedQuery) via embeddings.LangchainAdapter,
// so a provider written against that ecosystem's document-embedding
// tooling can be dropped in unchanged. If the batch call fails, each
// text is retried individually so a single provider failure can't sink
// an entire batch; a text that still fails is replaced by a zero vector
// of dimension, per spec §6's "on provider failure, zero-vectors are
// substituted for the failed slice" contract.
func EmbedWithFallback(ctx context.Context, embedder embeddings.Embedder, texts []string, dimension int) [][]float32 {
	adapter := embeddings.LangchainAdapter{Embedder: embedder}

	if vecs, err := adapter.EmbedDocuments(ctx, texts); err == nil {
		return normalizeAll(vecs, dimension)
	}

	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := adapter.EmbedQuery(ctx, t)
		if err != nil {
			out[i] = make([]float32, dimension)
			continue
		}
		out[i] = embeddings.Normalize(v)
	}
	return out
}

func normalizeAll(vecs [][]float32, dimension int) [][]float32 {
	out := make([][]float32, len(vecs))
	for i, v := range vecs {
		if len(v) != dimension {
			out[i] = make([]float32, dimension)
			continue
		}
		out[i] = embeddings.Normalize(v)
	}
	return out
}
