package embeddings

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ziadkadry99/edugen/internal/llm"
)

const googleDimensions = 768

// GoogleEmbedder calls the Gemini batchEmbedContents endpoint.
type GoogleEmbedder struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGoogleEmbedder creates an embedder for a Gemini embedding model.
func NewGoogleEmbedder(apiKey, model string) *GoogleEmbedder {
	return &GoogleEmbedder{
		apiKey:  apiKey,
		model:   model,
		baseURL: llm.GoogleAPIBaseURL,
		client:  &http.Client{},
	}
}

// WithBaseURL points the embedder at another endpoint.
func (e *GoogleEmbedder) WithBaseURL(url string) *GoogleEmbedder {
	e.baseURL = strings.TrimRight(url, "/")
	return e
}

type googleEmbedRequest struct {
	Model                string        `json:"model"`
	Content              googleContent `json:"content"`
	TaskType             string        `json:"taskType,omitempty"`
	OutputDimensionality int           `json:"outputDimensionality,omitempty"`
}

type googleContent struct {
	Parts []googlePart `json:"parts"`
}

type googlePart struct {
	Text string `json:"text"`
}

type googleBatchRequest struct {
	Requests []googleEmbedRequest `json:"requests"`
}

type googleBatchResponse struct {
	Embeddings []struct {
		Values []float32 `json:"values"`
	} `json:"embeddings"`
}

func (e *GoogleEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	model := "models/" + e.model
	req := googleBatchRequest{Requests: make([]googleEmbedRequest, len(texts))}
	for i, text := range texts {
		req.Requests[i] = googleEmbedRequest{
			Model:                model,
			Content:              googleContent{Parts: []googlePart{{Text: text}}},
			TaskType:             "SEMANTIC_SIMILARITY",
			OutputDimensionality: googleDimensions,
		}
	}

	url := fmt.Sprintf("%s/%s:batchEmbedContents", e.baseURL, e.model)
	var resp googleBatchResponse
	if err := llm.PostJSON(ctx, e.client, "gemini", url, map[string]string{"x-goog-api-key": e.apiKey}, req, &resp); err != nil {
		return nil, err
	}
	if err := checkCount("gemini", len(resp.Embeddings), len(texts)); err != nil {
		return nil, err
	}

	out := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		out[i] = emb.Values
	}
	return out, nil
}

func (e *GoogleEmbedder) Dimensions() int { return googleDimensions }

func (e *GoogleEmbedder) Name() string { return "google/" + e.model }
