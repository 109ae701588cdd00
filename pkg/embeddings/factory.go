package embeddings

import (
	"fmt"
	"time"
)

// NewFromConfig resolves the embedding provider named by provider
// (ollama, mock) into a concrete Embedder, mirroring the teacher's
// provider-string-to-client selection (pkg/models.Provider) but scoped to
// this repo's single Embed(texts) -> vectors contract.
func NewFromConfig(provider, model, baseURL string, dimension int) (Embedder, error) {
	switch provider {
	case "", "ollama":
		return NewOllamaEmbedder(OllamaConfig{
			Endpoint: baseURL,
			Model:    model,
			Timeout:  90 * time.Second,
		})
	case "mock":
		return NewMockEmbedder(dimension), nil
	default:
		return nil, fmt.Errorf("embeddings: unknown provider %q", provider)
	}
}
