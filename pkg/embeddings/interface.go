// Package embeddings is the Embed(texts) -> vectors collaborator contract
// (spec §6): the hybrid index and recall service never talk to a
// provider directly, only through this interface.
package embeddings

import (
	"context"
)

// Embedder is the embedding-provider contract. Implementations return
// vectors of a fixed dimensionality; on provider failure at ingest time,
// callers substitute zero vectors rather than failing the whole batch
// (spec §6, §7 ProviderError).
type Embedder interface {
	// EmbedText creates an embedding for a single text
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts creates embeddings for multiple texts
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// GetDimensions returns the dimensionality of the embeddings
	GetDimensions() int

	// Close releases any resources
	Close() error
}
