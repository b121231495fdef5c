package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "EDUGEN_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (EDUGEN_*). Nested keys use a double
// underscore: EDUGEN_SERVER__PORT -> server.port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validProviders = map[ProviderType]bool{
	ProviderAnthropic:  true,
	ProviderOpenAI:     true,
	ProviderGoogle:     true,
	ProviderOllama:     true,
	ProviderOpenRouter: true,
}

var validImageProviders = map[ImageProviderType]bool{
	ImageGoogle:      true,
	ImageOpenAI:      true,
	ImagePlaceholder: true,
}

var validSpeechProviders = map[SpeechProviderType]bool{
	SpeechGoogle: true,
	SpeechOpenAI: true,
	SpeechGCP:    true,
	SpeechNone:   true,
}

var validEmbeddingProviders = map[EmbeddingProviderType]bool{
	"":              true,
	EmbeddingGoogle: true,
	EmbeddingOpenAI: true,
	EmbeddingOllama: true,
	EmbeddingNone:   true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of anthropic, openai, google, ollama, openrouter", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if !validImageProviders[c.ImageProvider] {
		return fmt.Errorf("invalid image_provider %q: must be one of google, openai, placeholder", c.ImageProvider)
	}
	if c.ImageProvider != ImagePlaceholder && c.ImageModel == "" {
		return fmt.Errorf("image_model is required for image_provider %q", c.ImageProvider)
	}
	if !validSpeechProviders[c.SpeechProvider] {
		return fmt.Errorf("invalid speech_provider %q: must be one of google, openai, gcp, none", c.SpeechProvider)
	}
	if !validEmbeddingProviders[c.EmbeddingProvider] {
		return fmt.Errorf("invalid embedding_provider %q: must be one of google, openai, ollama, none", c.EmbeddingProvider)
	}
	if !c.Language.Valid() {
		return fmt.Errorf("invalid language %q: must be one of kk, ru, en", c.Language)
	}
	if !c.Theme.Valid() {
		return fmt.Errorf("invalid theme %q: must be one of modern, dark, playful, classic", c.Theme)
	}
	if c.QuizSize < 1 || c.QuizSize > 20 {
		return fmt.Errorf("quiz_size must be between 1 and 20")
	}
	if c.SlideCount < 1 || c.SlideCount > 20 {
		return fmt.Errorf("slide_count must be between 1 and 20")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.StorageQuotaBytes < 0 {
		return fmt.Errorf("storage_quota_bytes must be non-negative")
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute must be non-negative")
	}
	if c.WebhookURL != "" {
		u, err := url.Parse(c.WebhookURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("webhook_url must be an absolute http(s) URL")
		}
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535")
	}
	return nil
}

// HistoryDBPath is the SQLite file holding lesson history.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// IndexDir is the directory of the lesson search index.
func (c *Config) IndexDir() string {
	return filepath.Join(c.DataDir, "index")
}

// KVDir is the directory of the account/session key-value medium.
func (c *Config) KVDir() string {
	return filepath.Join(c.DataDir, "kv")
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGoogle:
		return "GOOGLE_API_KEY"
	case ProviderOpenRouter:
		return "OPENROUTER_API_KEY"
	default:
		return ""
	}
}
