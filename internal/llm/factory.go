package llm

import (
	"fmt"
	"os"

	"github.com/ziadkadry99/edugen/internal/credentials"
)

// NewProvider creates a new LLM provider based on the given provider type and model.
// API keys come from the environment or the stored credentials.
// Supported provider types: "anthropic", "openai", "google", "ollama", "openrouter".
func NewProvider(providerType string, model string) (Provider, error) {
	switch providerType {
	case "anthropic", "openai", "google", "openrouter":
		apiKey := credentials.GetAPIKey(providerType)
		if apiKey == "" {
			return nil, fmt.Errorf("no API key for %s: set the environment variable or run `edugen keys set %s`", providerType, providerType)
		}
		switch providerType {
		case "anthropic":
			return NewAnthropicProvider(apiKey, model), nil
		case "openai":
			return NewOpenAIProvider(apiKey, model), nil
		case "google":
			return NewGoogleProvider(apiKey, model), nil
		default:
			return NewCompatibleProvider("openrouter", OpenRouterBaseURL, apiKey, model), nil
		}

	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = DefaultOllamaHost
		}
		return NewOllamaProvider(host, model), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
