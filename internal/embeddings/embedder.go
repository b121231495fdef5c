// Package embeddings turns lesson text into vectors for the lesson index.
package embeddings

import (
	"context"
	"fmt"
	"os"

	"github.com/ziadkadry99/edugen/internal/config"
	"github.com/ziadkadry99/edugen/internal/credentials"
	"github.com/ziadkadry99/edugen/internal/llm"
)

// Embedder generates text embeddings.
type Embedder interface {
	// Embed returns one vector per text, in order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the vector size, or 0 when the model decides.
	Dimensions() int

	// Name identifies the embedding model.
	Name() string
}

// New returns the embedder selected by cfg. It returns nil and no error
// when lesson search is disabled.
func New(cfg *config.Config) (Embedder, error) {
	provider, model := cfg.Embeddings()
	switch provider {
	case config.EmbeddingNone:
		return nil, nil
	case config.EmbeddingGoogle, config.EmbeddingOpenAI:
		key := credentials.GetAPIKey(string(provider))
		if key == "" {
			return nil, fmt.Errorf("no API key for %s embeddings: set the environment variable or run `edugen keys set %s`", provider, provider)
		}
		if provider == config.EmbeddingGoogle {
			return NewGoogleEmbedder(key, model), nil
		}
		return NewOpenAIEmbedder(key, model), nil
	case config.EmbeddingOllama:
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = llm.DefaultOllamaHost
		}
		return NewOllamaEmbedder(host, model), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}

func checkCount(name string, got, want int) error {
	if got != want {
		return fmt.Errorf("%s returned %d embeddings for %d texts", name, got, want)
	}
	return nil
}
