package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/edugen/internal/vectordb"
	"github.com/ziadkadry99/edugen/internal/workspace"
)

var historySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find saved lessons by meaning",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		hits, err := a.rt.Search(ctx, strings.Join(args, " "), limit)
		if err != nil {
			return searchError(err)
		}
		if len(hits) == 0 {
			fmt.Println("No matching lessons.")
			return nil
		}
		for i, h := range hits {
			fmt.Printf("%d. %s  (%s, %.2f)\n   %s\n", i+1, h.Topic, h.Language, h.Similarity, h.RecordID)
			if h.Snippet != "" {
				fmt.Printf("   %s\n", h.Snippet)
			}
		}
		return nil
	},
}

var historyReindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the search index from saved lessons",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.rt.Reindex(ctx)
		if err != nil {
			return searchError(err)
		}
		fmt.Printf("Indexed %d lesson(s).\n", n)
		return nil
	},
}

func searchError(err error) error {
	switch {
	case errors.Is(err, workspace.ErrSignedOut):
		return fmt.Errorf("%w; run `edugen user login` first", err)
	case errors.Is(err, workspace.ErrSearchDisabled):
		return fmt.Errorf("%w; set embedding_provider in %s", err, cfgFile)
	case errors.Is(err, vectordb.ErrEmptyQuery):
		return fmt.Errorf("search query is empty")
	}
	return err
}

func init() {
	historySearchCmd.Flags().Int("limit", vectordb.DefaultLimit, "maximum number of lessons to show")
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyReindexCmd)
}
