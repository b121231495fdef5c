package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/edugen/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize edugen configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to choose providers, language and theme, and writes a .edugen.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.RunWizard(cfgFile); err != nil {
			return err
		}
		fmt.Println("Next: `edugen user signup` to keep a history, then `edugen generate \"<topic>\"`.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
