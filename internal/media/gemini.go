package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/ziadkadry99/edugen/internal/content"
	"github.com/ziadkadry99/edugen/internal/llm"
)

// GeminiImages generates illustrations through the image output modality
// of generateContent.
type GeminiImages struct {
	provider *llm.GoogleProvider
	model    string
}

func NewGeminiImages(provider *llm.GoogleProvider, model string) *GeminiImages {
	return &GeminiImages{provider: provider, model: model}
}

func (g *GeminiImages) Name() string { return "google" }

func (g *GeminiImages) GenerateImage(ctx context.Context, prompt string) (*Image, error) {
	resp, err := g.provider.Generate(ctx, g.model, llm.GeminiRequest{
		Contents: []llm.GeminiContent{{Role: "user", Parts: []llm.GeminiPart{{Text: prompt}}}},
		GenerationConfig: &llm.GeminiGenerationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini image: %w", err)
	}
	inline, ok := resp.FirstInline()
	if !ok {
		return nil, ErrNoMedia
	}
	data, err := base64.StdEncoding.DecodeString(inline.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding gemini image: %w", err)
	}
	return &Image{Data: data, MIMEType: inline.MIMEType}, nil
}

// GeminiSpeech narrates through the audio output modality. Gemini returns raw
// 16-bit PCM, which is wrapped in a WAV container so players can read it.
type GeminiSpeech struct {
	provider *llm.GoogleProvider
	model    string
	voice    string
}

func NewGeminiSpeech(provider *llm.GoogleProvider, model, voice string) *GeminiSpeech {
	if voice == "" {
		voice = "Kore"
	}
	return &GeminiSpeech{provider: provider, model: model, voice: voice}
}

func (g *GeminiSpeech) Name() string { return "google" }

func (g *GeminiSpeech) Synthesize(ctx context.Context, text string, lang content.Language) (*Speech, error) {
	resp, err := g.provider.Generate(ctx, g.model, llm.GeminiRequest{
		Contents: []llm.GeminiContent{{Parts: []llm.GeminiPart{{Text: text}}}},
		GenerationConfig: &llm.GeminiGenerationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &llm.GeminiSpeechConfig{
				VoiceConfig: llm.GeminiVoiceConfig{
					PrebuiltVoiceConfig: llm.GeminiPrebuiltVoice{VoiceName: g.voice},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini speech: %w", err)
	}
	inline, ok := resp.FirstInline()
	if !ok {
		return nil, ErrNoMedia
	}
	data, err := base64.StdEncoding.DecodeString(inline.Data)
	if err != nil {
		return nil, fmt.Errorf("decoding gemini speech: %w", err)
	}

	if strings.HasPrefix(inline.MIMEType, "audio/L16") || strings.Contains(inline.MIMEType, "pcm") {
		return &Speech{Data: PCMToWAV(data, pcmRate(inline.MIMEType), 1), MIMEType: "audio/wav"}, nil
	}
	return &Speech{Data: data, MIMEType: inline.MIMEType}, nil
}

// pcmRate reads the rate parameter of "audio/L16;codec=pcm;rate=24000".
func pcmRate(mime string) int {
	for _, param := range strings.Split(mime, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(param), "=")
		if ok && k == "rate" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				return n
			}
		}
	}
	return 24000
}
