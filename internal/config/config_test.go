package config

import (
	"path/filepath"
	"testing"

	"github.com/ziadkadry99/edugen/internal/content"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderGoogle {
		t.Errorf("expected default provider %q, got %q", ProviderGoogle, cfg.Provider)
	}
	if cfg.Language != content.LanguageKazakh {
		t.Errorf("expected default language kk, got %q", cfg.Language)
	}
	if cfg.Theme != content.ThemeModern {
		t.Errorf("expected default theme modern, got %q", cfg.Theme)
	}
	if cfg.QuizSize != 5 || cfg.SlideCount != 5 {
		t.Errorf("expected 5 questions and 5 slides, got %d and %d", cfg.QuizSize, cfg.SlideCount)
	}
	if cfg.Voice != "Kore" {
		t.Errorf("expected default voice Kore, got %q", cfg.Voice)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.edugen.yml")

	original := DefaultConfig()
	original.Provider = ProviderOpenAI
	original.Model = "gpt-4o"
	original.Language = content.LanguageRussian
	original.Theme = content.ThemeClassic
	original.QuizSize = 7
	original.PersistThemeChanges = true
	original.Server.Port = 9090

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Provider != original.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Provider, original.Provider)
	}
	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.Language != original.Language {
		t.Errorf("language: got %q, want %q", loaded.Language, original.Language)
	}
	if loaded.Theme != original.Theme {
		t.Errorf("theme: got %q, want %q", loaded.Theme, original.Theme)
	}
	if loaded.QuizSize != 7 {
		t.Errorf("quiz_size: got %d, want 7", loaded.QuizSize)
	}
	if !loaded.PersistThemeChanges {
		t.Error("persist_theme_changes lost in round trip")
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("server.port: got %d, want 9090", loaded.Server.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yml"))
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Provider != ProviderGoogle {
		t.Errorf("expected default provider, got %q", cfg.Provider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("EDUGEN_PROVIDER", "openai")
	t.Setenv("EDUGEN_LANGUAGE", "en")
	t.Setenv("EDUGEN_SERVER__PORT", "7070")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Provider != ProviderOpenAI {
		t.Errorf("env override failed: got %q, want %q", loaded.Provider, ProviderOpenAI)
	}
	if loaded.Language != content.LanguageEnglish {
		t.Errorf("language override failed: got %q", loaded.Language)
	}
	if loaded.Server.Port != 7070 {
		t.Errorf("nested override failed: got %d", loaded.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty provider", func(c *Config) { c.Provider = "" }, true},
		{"invalid provider", func(c *Config) { c.Provider = "invalid" }, true},
		{"empty model", func(c *Config) { c.Model = "" }, true},
		{"invalid image provider", func(c *Config) { c.ImageProvider = "midjourney" }, true},
		{"image model required", func(c *Config) { c.ImageModel = "" }, true},
		{"placeholder needs no model", func(c *Config) { c.ImageProvider = ImagePlaceholder; c.ImageModel = "" }, false},
		{"invalid speech provider", func(c *Config) { c.SpeechProvider = "polly" }, true},
		{"invalid language", func(c *Config) { c.Language = "de" }, true},
		{"invalid theme", func(c *Config) { c.Theme = "sepia" }, true},
		{"zero quiz", func(c *Config) { c.QuizSize = 0 }, true},
		{"too many slides", func(c *Config) { c.SlideCount = 21 }, true},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, true},
		{"negative quota", func(c *Config) { c.StorageQuotaBytes = -1 }, true},
		{"negative rpm", func(c *Config) { c.RequestsPerMinute = -1 }, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"webhook", func(c *Config) { c.WebhookURL = "https://lms.example/hooks/edugen" }, false},
		{"relative webhook", func(c *Config) { c.WebhookURL = "/hooks" }, true},
		{"embedding provider", func(c *Config) { c.EmbeddingProvider = EmbeddingOllama }, false},
		{"invalid embedding provider", func(c *Config) { c.EmbeddingProvider = "cohere" }, true},
		{"ftp webhook", func(c *Config) { c.WebhookURL = "ftp://example.com/x" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset(ProviderOpenAI)
	if p.ImageModel != "dall-e-3" || p.SpeechProvider != SpeechOpenAI {
		t.Errorf("unexpected openai preset: %+v", p)
	}
	p = GetPreset(ProviderAnthropic)
	if p.ImageProvider != ImagePlaceholder || p.SpeechProvider != SpeechNone {
		t.Errorf("anthropic has no media backends, got %+v", p)
	}
	p = GetPreset("unknown")
	if p.Model != "gemini-2.5-flash" {
		t.Errorf("expected fallback to google preset, got %q", p.Model)
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	tests := []struct {
		provider ProviderType
		want     string
	}{
		{ProviderAnthropic, "ANTHROPIC_API_KEY"},
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderGoogle, "GOOGLE_API_KEY"},
		{ProviderOpenRouter, "OPENROUTER_API_KEY"},
		{ProviderOllama, ""},
	}
	for _, tt := range tests {
		if got := APIKeyEnvVar(tt.provider); got != tt.want {
			t.Errorf("APIKeyEnvVar(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}

func TestPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/data"
	if cfg.HistoryDBPath() != filepath.Join("/data", "history.db") {
		t.Errorf("HistoryDBPath = %q", cfg.HistoryDBPath())
	}
	if cfg.KVDir() != filepath.Join("/data", "kv") {
		t.Errorf("KVDir = %q", cfg.KVDir())
	}
	if cfg.IndexDir() != filepath.Join("/data", "index") {
		t.Errorf("IndexDir = %q", cfg.IndexDir())
	}
}

func TestEmbeddings(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		provider  EmbeddingProviderType
		wantModel string
	}{
		{"google preset", func(c *Config) {}, EmbeddingGoogle, "gemini-embedding-001"},
		{"openai preset", func(c *Config) { c.Provider = ProviderOpenAI }, EmbeddingOpenAI, "text-embedding-3-small"},
		{"anthropic has none", func(c *Config) { c.Provider = ProviderAnthropic }, EmbeddingNone, ""},
		{"explicit ollama", func(c *Config) { c.Provider = ProviderAnthropic; c.EmbeddingProvider = EmbeddingOllama }, EmbeddingOllama, "nomic-embed-text"},
		{"explicit model", func(c *Config) { c.EmbeddingModel = "text-embedding-004" }, EmbeddingGoogle, "text-embedding-004"},
		{"disabled", func(c *Config) { c.EmbeddingProvider = EmbeddingNone; c.EmbeddingModel = "x" }, EmbeddingNone, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			provider, model := cfg.Embeddings()
			if provider != tt.provider || model != tt.wantModel {
				t.Errorf("Embeddings() = %q, %q; want %q, %q", provider, model, tt.provider, tt.wantModel)
			}
		})
	}
}

func TestValidateCount(t *testing.T) {
	for in, ok := range map[string]bool{"5": true, "0": false, "abc": false, "20": true} {
		if err := validateCount(in); (err == nil) != ok {
			t.Errorf("validateCount(%q) = %v", in, err)
		}
	}
}
