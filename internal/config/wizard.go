package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/edugen/internal/content"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to edugen! Let's configure your lesson studio.")
	fmt.Println()

	providerPrompt := promptui.Select{
		Label: "Select text provider",
		Items: []string{"google", "openai", "anthropic", "ollama", "openrouter"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)
	preset := GetPreset(provider)

	langPrompt := promptui.Select{
		Label: "Default lesson language",
		Items: []string{"kk (Kazakh)", "ru (Russian)", "en (English)"},
	}
	langIdx, _, err := langPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("language selection: %w", err)
	}

	themePrompt := promptui.Select{
		Label: "Default theme",
		Items: content.Themes,
	}
	themeIdx, _, err := themePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("theme selection: %w", err)
	}

	dataPrompt := promptui.Prompt{
		Label:   "Data directory (history and accounts)",
		Default: ".edugen",
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	quizPrompt := promptui.Prompt{
		Label:    "Questions per quiz",
		Default:  "5",
		Validate: validateCount,
	}
	quizStr, err := quizPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("quiz size: %w", err)
	}
	quizSize, _ := strconv.Atoi(quizStr)

	cfg := DefaultConfig()
	cfg.Provider = provider
	cfg.Model = preset.Model
	cfg.ImageProvider = preset.ImageProvider
	cfg.ImageModel = preset.ImageModel
	cfg.SpeechProvider = preset.SpeechProvider
	cfg.SpeechModel = preset.SpeechModel
	cfg.Voice = preset.Voice
	cfg.Language = content.Languages[langIdx]
	cfg.Theme = content.Themes[themeIdx]
	cfg.DataDir = dataDir
	cfg.QuizSize = quizSize

	if envVar := APIKeyEnvVar(provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: set %s or run `edugen keys set %s` before generating lessons.\n", envVar, provider)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validateCount(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("enter a number")
	}
	if n < 1 || n > 20 {
		return fmt.Errorf("must be between 1 and 20")
	}
	return nil
}
