package media

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ziadkadry99/edugen/internal/config"
	"github.com/ziadkadry99/edugen/internal/credentials"
	"github.com/ziadkadry99/edugen/internal/llm"
)

// NewImageGenerator builds the configured illustration backend.
func NewImageGenerator(cfg *config.Config) (ImageGenerator, error) {
	switch cfg.ImageProvider {
	case config.ImageGoogle:
		key := credentials.GetAPIKey("google")
		if key == "" {
			return nil, fmt.Errorf("image provider google needs GOOGLE_API_KEY")
		}
		return NewGeminiImages(llm.NewGoogleProvider(key, cfg.ImageModel), cfg.ImageModel), nil
	case config.ImageOpenAI:
		key := credentials.GetAPIKey("openai")
		if key == "" {
			return nil, fmt.Errorf("image provider openai needs OPENAI_API_KEY")
		}
		return NewOpenAIImages(openai.NewClient(key), cfg.ImageModel), nil
	case config.ImagePlaceholder, "":
		return &Placeholder{Pattern: cfg.PlaceholderImage}, nil
	default:
		return nil, fmt.Errorf("unsupported image provider: %s", cfg.ImageProvider)
	}
}

// NewSpeechSynthesizer builds the configured narration backend. A nil
// synthesizer with a nil error means narration is disabled.
func NewSpeechSynthesizer(ctx context.Context, cfg *config.Config) (SpeechSynthesizer, error) {
	switch cfg.SpeechProvider {
	case config.SpeechGoogle:
		key := credentials.GetAPIKey("google")
		if key == "" {
			return nil, fmt.Errorf("speech provider google needs GOOGLE_API_KEY")
		}
		return NewGeminiSpeech(llm.NewGoogleProvider(key, cfg.SpeechModel), cfg.SpeechModel, cfg.Voice), nil
	case config.SpeechOpenAI:
		key := credentials.GetAPIKey("openai")
		if key == "" {
			return nil, fmt.Errorf("speech provider openai needs OPENAI_API_KEY")
		}
		return NewOpenAISpeech(openai.NewClient(key), cfg.SpeechModel, cfg.Voice), nil
	case config.SpeechGCP:
		return NewGCPSpeech(ctx, cfg.GCPCredentialsFile, cfg.Voice)
	case config.SpeechNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported speech provider: %s", cfg.SpeechProvider)
	}
}
