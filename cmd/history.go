package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/edugen/internal/audit"
	"github.com/ziadkadry99/edugen/internal/history"
	"github.com/ziadkadry99/edugen/internal/i18n"
	"github.com/ziadkadry99/edugen/internal/workspace"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse the signed-in user's saved lessons",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved lessons, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		match, _ := cmd.Flags().GetString("match")
		return withHistory(func(ctx context.Context, store *history.Store, userID string) error {
			records, err := store.List(ctx, userID)
			if err != nil {
				return err
			}
			if records, err = history.FilterTopics(records, match); err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No saved lessons yet.")
				return nil
			}
			fmt.Printf("%-36s  %-16s  %-4s  %s\n", "ID", "CREATED", "LANG", "TOPIC")
			for _, rec := range records {
				sum := rec.Summary()
				fmt.Printf("%-36s  %-16s  %-4s  %s\n",
					sum.ID, sum.CreatedAt.Local().Format("2006-01-02 15:04"), sum.Language, sum.Topic)
			}
			return nil
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved lesson",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(ctx context.Context, store *history.Store, userID string) error {
			rec, err := getRecord(ctx, store, userID, args[0])
			if err != nil {
				return err
			}
			c := rec.Data
			lang := c.Language
			fmt.Printf("%s\n%s\n\n", c.Topic, strings.Repeat("=", len([]rune(c.Topic))))
			fmt.Printf("%s\n\n%s\n\n", i18n.T(lang, i18n.HeadExplanation), c.Explanation)
			fmt.Println(i18n.T(lang, i18n.HeadSlides))
			for i, s := range c.Slides {
				fmt.Printf("  %d. %s\n", i+1, s.Title)
				for _, b := range s.BulletPoints {
					fmt.Printf("     - %s\n", b)
				}
			}
			fmt.Printf("\n%s\n", i18n.T(lang, i18n.HeadQuiz))
			for i, q := range c.Quiz {
				fmt.Printf("  %d. %s\n", i+1, q.Question)
				fmt.Printf("     A) %s\n     B) %s\n     C) %s\n     D) %s\n", q.Options.A, q.Options.B, q.Options.C, q.Options.D)
				fmt.Printf("     %s: %s\n", i18n.T(lang, i18n.HeadAnswer), q.CorrectAnswer)
			}
			return nil
		})
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a saved lesson to files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		return withHistory(func(ctx context.Context, store *history.Store, userID string) error {
			rec, err := getRecord(ctx, store, userID, args[0])
			if err != nil {
				return err
			}
			paths, err := writeExports(dir, rec.Data)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Printf("Wrote %s\n", p)
			}
			return nil
		})
	},
}

var historyRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent generation runs and how they ended",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		rt, userID, err := openSignedIn()
		if err != nil {
			return err
		}
		defer rt.Close()

		entries, err := rt.AuditStore().Query(context.Background(), audit.QueryFilter{UserID: userID, Limit: limit})
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No runs recorded yet.")
			return nil
		}
		fmt.Printf("%-16s  %-16s  %-9s  %-11s  %8s  %s\n", "WHEN", "ACTION", "OUTCOME", "FAILED AT", "SECONDS", "TOPIC")
		for _, e := range entries {
			fmt.Printf("%-16s  %-16s  %-9s  %-11s  %8.1f  %s\n",
				e.Timestamp.Local().Format("2006-01-02 15:04"), e.Action, e.Outcome, e.FailedStep,
				float64(e.DurationMS)/1000, e.Topic)
		}
		return nil
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete recorded runs older than a given age",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		age, _ := cmd.Flags().GetDuration("older-than")
		if age <= 0 {
			return fmt.Errorf("--older-than must be positive")
		}
		rt, err := openStorage()
		if err != nil {
			return err
		}
		defer rt.Close()

		n, err := rt.AuditStore().DeleteBefore(context.Background(), time.Now().Add(-age))
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d run record(s).\n", n)
		return nil
	},
}

func init() {
	historyListCmd.Flags().String("match", "", `only topics matching a glob, e.g. "{photo,chloro}*"`)
	historyRunsCmd.Flags().Int("limit", 20, "maximum number of runs to show")
	historyPruneCmd.Flags().Duration("older-than", 30*24*time.Hour, "age of the records to delete")
	historyExportCmd.Flags().String("dir", ".", "output directory")
	exitOnError(historyExportCmd.MarkFlagDirname("dir"))
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyRunsCmd)
	historyCmd.AddCommand(historyPruneCmd)
}

// withHistory runs fn for the signed-in user.
func withHistory(fn func(context.Context, *history.Store, string) error) error {
	rt, userID, err := openSignedIn()
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(context.Background(), rt.HistoryStore(), userID)
}

// openSignedIn opens the stores and resolves the signed-in user.
func openSignedIn() (*workspace.Runtime, string, error) {
	rt, err := openStorage()
	if err != nil {
		return nil, "", err
	}
	user, ok, err := rt.Accounts().Current()
	if err != nil {
		rt.Close()
		return nil, "", err
	}
	if !ok {
		rt.Close()
		return nil, "", fmt.Errorf("%w; run `edugen user login` first", workspace.ErrSignedOut)
	}
	return rt, user.ID, nil
}

func getRecord(ctx context.Context, store *history.Store, userID, id string) (history.Record, error) {
	rec, err := store.Get(ctx, userID, id)
	if errors.Is(err, history.ErrNotFound) {
		return rec, fmt.Errorf("no saved lesson with id %s", id)
	}
	return rec, err
}
