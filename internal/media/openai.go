package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ziadkadry99/edugen/internal/content"
)

// OpenAIImages generates illustrations with the Images API.
type OpenAIImages struct {
	client *openai.Client
	model  string
}

// NewOpenAIImages creates an image generator (e.g. model "dall-e-3").
func NewOpenAIImages(client *openai.Client, model string) *OpenAIImages {
	return &OpenAIImages{client: client, model: model}
}

func (o *OpenAIImages) Name() string { return "openai" }

func (o *OpenAIImages) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	resp, err := o.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          o.model,
		N:              1,
		Size:           openai.CreateImageSize1792x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai image: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, ErrNoMedia
	}
	item := resp.Data[0]
	if item.B64JSON != "" {
		data, err := base64.StdEncoding.DecodeString(item.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("decoding openai image: %w", err)
		}
		return &Image{Data: data, MIMEType: "image/png"}, nil
	}
	if item.URL != "" {
		return &Image{URL: item.URL}, nil
	}
	return nil, ErrNoMedia
}

// OpenAISpeech narrates with the Audio Speech API.
type OpenAISpeech struct {
	client *openai.Client
	model  string
	voice  string
}

// NewOpenAISpeech creates a synthesizer (e.g. model "tts-1", voice "alloy").
func NewOpenAISpeech(client *openai.Client, model, voice string) *OpenAISpeech {
	return &OpenAISpeech{client: client, model: model, voice: voice}
}

func (o *OpenAISpeech) Name() string { return "openai" }

// Synthesize ignores lang: the OpenAI voices read the input language as written.
func (o *OpenAISpeech) Synthesize(ctx context.Context, text string, _ content.Language) (*Speech, error) {
	resp, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(o.model),
		Input:          text,
		Voice:          openai.SpeechVoice(o.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("reading openai speech: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoMedia
	}
	return &Speech{Data: data, MIMEType: "audio/mpeg"}, nil
}
