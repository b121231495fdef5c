package config

import "github.com/ziadkadry99/edugen/internal/content"

// ProviderPreset describes the default models for a text provider and the
// media backends that pair with it.
type ProviderPreset struct {
	Model          string
	ImageProvider  ImageProviderType
	ImageModel     string
	SpeechProvider SpeechProviderType
	SpeechModel    string
	Voice          string

	EmbeddingProvider EmbeddingProviderType
	EmbeddingModel    string
}

var providerPresets = map[ProviderType]ProviderPreset{
	ProviderGoogle: {
		Model:          "gemini-2.5-flash",
		ImageProvider:  ImageGoogle,
		ImageModel:     "gemini-2.5-flash-image",
		SpeechProvider: SpeechGoogle,
		SpeechModel:    "gemini-2.5-flash-preview-tts",
		Voice:          "Kore",

		EmbeddingProvider: EmbeddingGoogle,
		EmbeddingModel:    "gemini-embedding-001",
	},
	ProviderOpenAI: {
		Model:          "gpt-4o-mini",
		ImageProvider:  ImageOpenAI,
		ImageModel:     "dall-e-3",
		SpeechProvider: SpeechOpenAI,
		SpeechModel:    "tts-1",
		Voice:          "alloy",

		EmbeddingProvider: EmbeddingOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
	},
	ProviderAnthropic: {
		Model:          "claude-sonnet-4-5-20250929",
		ImageProvider:  ImagePlaceholder,
		SpeechProvider: SpeechNone,

		EmbeddingProvider: EmbeddingNone,
	},
	ProviderOllama: {
		Model:          "llama3",
		ImageProvider:  ImagePlaceholder,
		SpeechProvider: SpeechNone,

		EmbeddingProvider: EmbeddingOllama,
		EmbeddingModel:    "nomic-embed-text",
	},
	ProviderOpenRouter: {
		Model:          "google/gemini-2.5-flash",
		ImageProvider:  ImagePlaceholder,
		SpeechProvider: SpeechNone,

		EmbeddingProvider: EmbeddingNone,
	},
}

// DefaultPlaceholderImage is the fallback illustration used when an image
// request fails. %d is replaced by a per-slide seed.
const DefaultPlaceholderImage = "https://picsum.photos/seed/%d/1280/720"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	preset := providerPresets[ProviderGoogle]
	return &Config{
		Provider:          ProviderGoogle,
		Model:             preset.Model,
		ImageProvider:     preset.ImageProvider,
		ImageModel:        preset.ImageModel,
		SpeechProvider:    preset.SpeechProvider,
		SpeechModel:       preset.SpeechModel,
		Voice:             preset.Voice,
		Language:          content.DefaultLanguage,
		Theme:             content.DefaultTheme,
		QuizSize:          5,
		SlideCount:        5,
		DataDir:           ".edugen",
		PlaceholderImage:  DefaultPlaceholderImage,
		StorageQuotaBytes: 5 << 20,
		RequestsPerMinute: 30,
		LogMode:           "dev",
		Server: ServerConfig{
			Port:            8080,
			AllowAllOrigins: true,
		},
	}
}

// GetPreset returns the preset for the given provider.
// Returns the Google preset if the provider is not known.
func GetPreset(provider ProviderType) ProviderPreset {
	if preset, ok := providerPresets[provider]; ok {
		return preset
	}
	return providerPresets[ProviderGoogle]
}

var defaultEmbeddingModels = map[EmbeddingProviderType]string{
	EmbeddingGoogle: "gemini-embedding-001",
	EmbeddingOpenAI: "text-embedding-3-small",
	EmbeddingOllama: "nomic-embed-text",
}

// Embeddings resolves the lesson search backend and model. An unset
// provider follows the text provider's preset; an unset model takes the
// provider's default.
func (c *Config) Embeddings() (EmbeddingProviderType, string) {
	provider := c.EmbeddingProvider
	if provider == "" {
		provider = GetPreset(c.Provider).EmbeddingProvider
	}
	if provider == EmbeddingNone {
		return EmbeddingNone, ""
	}
	model := c.EmbeddingModel
	if model == "" {
		model = defaultEmbeddingModels[provider]
	}
	return provider, model
}
