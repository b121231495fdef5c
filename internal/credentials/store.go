// Package credentials stores provider API keys outside the project config.
package credentials

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// PathEnvVar overrides the credentials file location.
const PathEnvVar = "EDUGEN_CREDENTIALS_PATH"

// Credentials holds stored API keys, keyed by provider name.
type Credentials struct {
	APIKeys map[string]string `json:"api_keys,omitempty"`
}

var envVars = map[string]string{
	"anthropic":  "ANTHROPIC_API_KEY",
	"openai":     "OPENAI_API_KEY",
	"google":     "GOOGLE_API_KEY",
	"openrouter": "OPENROUTER_API_KEY",
}

// Providers lists the provider names that accept a stored key.
func Providers() []string {
	names := make([]string, 0, len(envVars))
	for name := range envVars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether provider accepts a stored key.
func Known(provider string) bool {
	_, ok := envVars[provider]
	return ok
}

// CredentialPath returns the path to the credentials file
// (~/.edugen/credentials.json unless overridden).
func CredentialPath() (string, error) {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".edugen", "credentials.json"), nil
}

// Load reads the credentials file. Returns empty credentials if it doesn't exist.
func Load() (*Credentials, error) {
	path, err := CredentialPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Credentials{APIKeys: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	if creds.APIKeys == nil {
		creds.APIKeys = map[string]string{}
	}
	return &creds, nil
}

// Save writes credentials with restricted permissions.
func Save(creds *Credentials) error {
	path, err := CredentialPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling credentials: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// SetAPIKey stores key for provider.
func SetAPIKey(provider, key string) error {
	if !Known(provider) {
		return fmt.Errorf("unknown provider %q", provider)
	}
	creds, err := Load()
	if err != nil {
		return err
	}
	creds.APIKeys[provider] = key
	return Save(creds)
}

// RemoveAPIKey deletes the stored key for provider.
func RemoveAPIKey(provider string) error {
	creds, err := Load()
	if err != nil {
		return err
	}
	delete(creds.APIKeys, provider)
	return Save(creds)
}

// GetAPIKey returns the API key for the given provider.
// The environment variable wins over the stored key.
func GetAPIKey(provider string) string {
	if env, ok := envVars[provider]; ok {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}

	creds, err := Load()
	if err != nil {
		return ""
	}
	return creds.APIKeys[provider]
}

// Source reports where the key for provider comes from: "env", "stored" or "".
func Source(provider string) string {
	if env, ok := envVars[provider]; ok && os.Getenv(env) != "" {
		return "env"
	}
	creds, err := Load()
	if err == nil && creds.APIKeys[provider] != "" {
		return "stored"
	}
	return ""
}
