package config

import "github.com/ziadkadry99/edugen/internal/content"

// ProviderType identifies a text-generation provider.
type ProviderType string

const (
	ProviderAnthropic  ProviderType = "anthropic"
	ProviderOpenAI     ProviderType = "openai"
	ProviderGoogle     ProviderType = "google"
	ProviderOllama     ProviderType = "ollama"
	ProviderOpenRouter ProviderType = "openrouter"
)

// ImageProviderType identifies the slide illustration backend.
type ImageProviderType string

const (
	ImageGoogle      ImageProviderType = "google"
	ImageOpenAI      ImageProviderType = "openai"
	ImagePlaceholder ImageProviderType = "placeholder"
)

// SpeechProviderType identifies the narration backend.
type SpeechProviderType string

const (
	SpeechGoogle SpeechProviderType = "google"
	SpeechOpenAI SpeechProviderType = "openai"
	SpeechGCP    SpeechProviderType = "gcp"
	SpeechNone   SpeechProviderType = "none"
)

// EmbeddingProviderType identifies the backend that embeds lessons for
// search.
type EmbeddingProviderType string

const (
	EmbeddingGoogle EmbeddingProviderType = "google"
	EmbeddingOpenAI EmbeddingProviderType = "openai"
	EmbeddingOllama EmbeddingProviderType = "ollama"
	EmbeddingNone   EmbeddingProviderType = "none"
)

// Config is the top-level edugen configuration, corresponding to .edugen.yml.
type Config struct {
	Provider       ProviderType       `yaml:"provider" koanf:"provider"`
	Model          string             `yaml:"model" koanf:"model"`
	ImageProvider  ImageProviderType  `yaml:"image_provider" koanf:"image_provider"`
	ImageModel     string             `yaml:"image_model" koanf:"image_model"`
	SpeechProvider SpeechProviderType `yaml:"speech_provider" koanf:"speech_provider"`
	SpeechModel    string             `yaml:"speech_model" koanf:"speech_model"`
	Voice          string             `yaml:"voice" koanf:"voice"`

	// Empty embedding fields follow the text provider's preset.
	EmbeddingProvider EmbeddingProviderType `yaml:"embedding_provider,omitempty" koanf:"embedding_provider"`
	EmbeddingModel    string                `yaml:"embedding_model,omitempty" koanf:"embedding_model"`

	Language content.Language `yaml:"language" koanf:"language"`
	Theme    content.Theme    `yaml:"theme" koanf:"theme"`

	QuizSize   int `yaml:"quiz_size" koanf:"quiz_size"`
	SlideCount int `yaml:"slide_count" koanf:"slide_count"`

	DataDir             string `yaml:"data_dir" koanf:"data_dir"`
	PlaceholderImage    string `yaml:"placeholder_image" koanf:"placeholder_image"`
	StorageQuotaBytes   int64  `yaml:"storage_quota_bytes" koanf:"storage_quota_bytes"`
	RequestsPerMinute   int    `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	PersistThemeChanges bool   `yaml:"persist_theme_changes" koanf:"persist_theme_changes"`
	LogMode             string `yaml:"log_mode" koanf:"log_mode"`
	GCPCredentialsFile  string `yaml:"gcp_credentials_file" koanf:"gcp_credentials_file"`
	WebhookURL          string `yaml:"webhook_url,omitempty" koanf:"webhook_url"`
	WebhookFailuresOnly bool   `yaml:"webhook_failures_only,omitempty" koanf:"webhook_failures_only"`

	Server ServerConfig `yaml:"server" koanf:"server"`
}

// ServerConfig holds dashboard settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
