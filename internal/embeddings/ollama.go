package embeddings

import (
	"context"
	"net/http"
	"strings"

	"github.com/ziadkadry99/edugen/internal/llm"
)

// OllamaEmbedder calls a local Ollama server.
type OllamaEmbedder struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaEmbedder creates an embedder for a model served by Ollama.
func NewOllamaEmbedder(baseURL, model string) *OllamaEmbedder {
	return &OllamaEmbedder{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{},
	}
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed sends every text in a single /api/embed call.
func (e *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	var resp ollamaEmbedResponse
	req := ollamaEmbedRequest{Model: e.model, Input: texts}
	if err := llm.PostJSON(ctx, e.client, "ollama", e.baseURL+"/api/embed", nil, req, &resp); err != nil {
		return nil, err
	}
	if err := checkCount("ollama", len(resp.Embeddings), len(texts)); err != nil {
		return nil, err
	}
	return resp.Embeddings, nil
}

func (e *OllamaEmbedder) Dimensions() int { return 0 }

func (e *OllamaEmbedder) Name() string { return "ollama/" + e.model }
