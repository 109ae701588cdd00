package embeddings

import (
	"context"

	lcembeddings "github.com/tmc/langchaingo/embeddings"
)

// LangchainAdapter exposes an Embedder through langchaingo's own
// embeddings.Embedder contract (EmbedDocuments/EmbedQuery), so the
// ingest pipeline can hand session text to langchaingo-based document
// tooling without a bespoke interface at that boundary.
type LangchainAdapter struct {
	Embedder
}

// EmbedDocuments embeds a batch of documents.
func (a LangchainAdapter) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return a.EmbedTexts(ctx, texts)
}

// EmbedQuery embeds a single query string.
func (a LangchainAdapter) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return a.EmbedText(ctx, text)
}

var _ lcembeddings.Embedder = LangchainAdapter{}
