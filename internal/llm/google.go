package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// GoogleAPIBaseURL is the Gemini REST endpoint.
const GoogleAPIBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GoogleProvider implements Provider using the Google Gemini API via direct HTTP.
type GoogleProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGoogleProvider creates a new Google Gemini provider.
func NewGoogleProvider(apiKey string, model string) *GoogleProvider {
	return &GoogleProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: GoogleAPIBaseURL,
		client:  &http.Client{},
	}
}

// WithBaseURL points the provider at another endpoint.
func (p *GoogleProvider) WithBaseURL(url string) *GoogleProvider {
	p.baseURL = strings.TrimRight(url, "/")
	return p
}

func (p *GoogleProvider) Name() string {
	return "google"
}

// GeminiRequest is the generateContent request body. It is exported so the
// image and speech transports can reuse it with other response modalities.
type GeminiRequest struct {
	Contents          []GeminiContent         `json:"contents"`
	SystemInstruction *GeminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *GeminiGenerationConfig `json:"generationConfig,omitempty"`
}

type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

type GeminiPart struct {
	Text       string        `json:"text,omitempty"`
	InlineData *GeminiInline `json:"inlineData,omitempty"`
}

type GeminiInline struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type GeminiGenerationConfig struct {
	MaxOutputTokens    int                 `json:"maxOutputTokens,omitempty"`
	Temperature        *float64            `json:"temperature,omitempty"`
	ResponseMIMEType   string              `json:"responseMimeType,omitempty"`
	ResponseSchema     map[string]any      `json:"responseSchema,omitempty"`
	ResponseModalities []string            `json:"responseModalities,omitempty"`
	SpeechConfig       *GeminiSpeechConfig `json:"speechConfig,omitempty"`
}

type GeminiSpeechConfig struct {
	VoiceConfig GeminiVoiceConfig `json:"voiceConfig"`
}

type GeminiVoiceConfig struct {
	PrebuiltVoiceConfig GeminiPrebuiltVoice `json:"prebuiltVoiceConfig"`
}

type GeminiPrebuiltVoice struct {
	VoiceName string `json:"voiceName"`
}

type GeminiResponse struct {
	Candidates    []GeminiCandidate    `json:"candidates"`
	UsageMetadata *geminiUsageMetadata `json:"usageMetadata"`
}

type GeminiCandidate struct {
	Content      *GeminiContent `json:"content"`
	FinishReason string         `json:"finishReason"`
}

type geminiUsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
}

// FirstInline returns the first inline-data part of the first candidate.
func (r *GeminiResponse) FirstInline() (*GeminiInline, bool) {
	if len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return nil, false
	}
	for _, part := range r.Candidates[0].Content.Parts {
		if part.InlineData != nil && part.InlineData.Data != "" {
			return part.InlineData, true
		}
	}
	return nil, false
}

// Text concatenates the text parts of the first candidate.
func (r *GeminiResponse) Text() string {
	if len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range r.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// Generate posts a raw generateContent request for model.
func (p *GoogleProvider) Generate(ctx context.Context, model string, req GeminiRequest) (*GeminiResponse, error) {
	if model == "" {
		model = p.model
	}
	url := fmt.Sprintf("%s/%s:generateContent", p.baseURL, model)
	var resp GeminiResponse
	if err := postJSON(ctx, p.client, "gemini", url, map[string]string{"x-goog-api-key": p.apiKey}, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (p *GoogleProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	var systemParts []GeminiPart
	var contents []GeminiContent
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			systemParts = append(systemParts, GeminiPart{Text: msg.Content})
		case RoleUser:
			contents = append(contents, GeminiContent{Role: "user", Parts: []GeminiPart{{Text: msg.Content}}})
		case RoleAssistant:
			contents = append(contents, GeminiContent{Role: "model", Parts: []GeminiPart{{Text: msg.Content}}})
		}
	}
	if len(contents) == 0 {
		return nil, fmt.Errorf("gemini: request has no user content")
	}

	temp := req.Temperature
	apiReq := GeminiRequest{
		Contents:         contents,
		GenerationConfig: &GeminiGenerationConfig{Temperature: &temp},
	}
	if len(systemParts) > 0 {
		apiReq.SystemInstruction = &GeminiContent{Parts: systemParts}
	}
	if req.MaxTokens > 0 {
		apiReq.GenerationConfig.MaxOutputTokens = req.MaxTokens
	}
	if req.JSONMode || req.Schema != nil {
		apiReq.GenerationConfig.ResponseMIMEType = "application/json"
		apiReq.GenerationConfig.ResponseSchema = geminiSchema(req.Schema)
	}

	apiResp, err := p.Generate(ctx, model, apiReq)
	if err != nil {
		return nil, err
	}

	text := apiResp.Text()
	if text == "" {
		return nil, ErrEmptyCompletion
	}

	out := &CompletionResponse{
		Content:      text,
		Model:        model,
		FinishReason: apiResp.Candidates[0].FinishReason,
	}
	if apiResp.UsageMetadata != nil {
		out.InputTokens = apiResp.UsageMetadata.PromptTokenCount
		out.OutputTokens = apiResp.UsageMetadata.CandidatesTokenCount
	}
	return out, nil
}

// geminiSchema converts a JSON schema to the OpenAPI subset Gemini accepts,
// where type names are upper case.
func geminiSchema(schema map[string]any) map[string]any {
	if schema == nil {
		return nil
	}
	out := make(map[string]any, len(schema))
	for k, v := range schema {
		switch val := v.(type) {
		case string:
			if k == "type" {
				val = strings.ToUpper(val)
			}
			out[k] = val
		case map[string]any:
			out[k] = geminiSchema(val)
		default:
			out[k] = v
		}
	}
	return out
}
