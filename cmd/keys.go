package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/edugen/internal/credentials"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage API keys for AI providers",
	Long: `Store and manage API keys for AI providers.

Keys are stored in ~/.edugen/credentials.json and used as a fallback
when environment variables are not set.`,
}

var keysSetCmd = &cobra.Command{
	Use:   "set <provider>",
	Short: "Store the API key for a provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runKeysSet,
}

var keysRemoveCmd = &cobra.Command{
	Use:   "remove [provider]",
	Short: "Remove stored keys",
	Long: `Remove the stored key for a provider.

If no provider is specified, removes all stored keys.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runKeysRemove,
}

var keysStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which providers have a key",
	RunE:  runKeysStatus,
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysSetCmd)
	keysCmd.AddCommand(keysRemoveCmd)
	keysCmd.AddCommand(keysStatusCmd)
}

func runKeysSet(cmd *cobra.Command, args []string) error {
	provider := args[0]
	if !credentials.Known(provider) {
		return fmt.Errorf("unknown provider %q (valid: %s)", provider, strings.Join(credentials.Providers(), ", "))
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s API key: ", provider)
	input, _ := reader.ReadString('\n')
	apiKey := strings.TrimSpace(input)
	if apiKey == "" {
		return fmt.Errorf("API key is required")
	}

	if err := credentials.SetAPIKey(provider, apiKey); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}
	fmt.Printf("%s key stored successfully!\n", provider)
	return nil
}

func runKeysRemove(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		if err := credentials.Save(&credentials.Credentials{}); err != nil {
			return err
		}
		fmt.Println("All stored keys removed.")
		return nil
	}
	if !credentials.Known(args[0]) {
		return fmt.Errorf("unknown provider %q (valid: %s)", args[0], strings.Join(credentials.Providers(), ", "))
	}
	if err := credentials.RemoveAPIKey(args[0]); err != nil {
		return err
	}
	fmt.Printf("%s key removed.\n", args[0])
	return nil
}

func runKeysStatus(cmd *cobra.Command, args []string) error {
	path, err := credentials.CredentialPath()
	if err != nil {
		return err
	}
	fmt.Printf("Credentials file: %s\n\n", path)

	fmt.Println("Provider     Status")
	fmt.Println("--------     ------")
	for _, p := range credentials.Providers() {
		switch credentials.Source(p) {
		case "env":
			fmt.Printf("%-12s configured (env var)\n", p)
		case "stored":
			fmt.Printf("%-12s configured (stored)\n", p)
		default:
			fmt.Printf("%-12s not configured\n", p)
		}
	}
	fmt.Printf("%-12s available (local)\n", "ollama")
	return nil
}
