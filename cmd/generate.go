package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/edugen/internal/content"
	"github.com/ziadkadry99/edugen/internal/export"
	"github.com/ziadkadry99/edugen/internal/media"
	"github.com/ziadkadry99/edugen/internal/pipeline"
	"github.com/ziadkadry99/edugen/internal/presentation"
	"github.com/ziadkadry99/edugen/internal/progress"
)

var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Generate a lesson for a topic",
	Long: `Generates the explanation, quiz, slides, slide images and narration for
a topic. When a user is signed in the lesson is saved to their history.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("lang", "", "lesson language: kk, ru or en (overrides config)")
	generateCmd.Flags().String("theme", "", "visual theme: modern, dark, playful or classic (overrides config)")
	generateCmd.Flags().String("as", "", "sign in with this e-mail before generating")
	generateCmd.Flags().String("export-dir", "", "write the printable document, slide deck and narration here")
	exitOnError(generateCmd.MarkFlagDirname("export-dir"))
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx, stop := signalContext()
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	rt := a.rt

	if email, _ := cmd.Flags().GetString("as"); email != "" {
		user, found, err := rt.Login(email)
		if err != nil {
			return fmt.Errorf("signing in: %w", err)
		}
		if !found {
			return fmt.Errorf("no account for %s; run `edugen user signup` first", email)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Signed in as %s\n", user.Name)
		}
	}
	if lang, _ := cmd.Flags().GetString("lang"); lang != "" {
		l, err := content.ParseLanguage(lang)
		if err != nil {
			return err
		}
		if err := rt.SetLanguage(l); err != nil {
			return err
		}
	}
	if theme, _ := cmd.Flags().GetString("theme"); theme != "" {
		th, err := content.ParseTheme(theme)
		if err != nil {
			return err
		}
		if err := rt.SetTheme(ctx, th); err != nil {
			return err
		}
	}

	reporter := progress.NewReporter()
	unsubscribe := rt.Pipeline().Subscribe(progress.Observe(reporter))
	lesson, err := rt.Generate(ctx, args[0])
	unsubscribe()
	if err != nil {
		if errors.Is(err, pipeline.ErrBlankTopic) {
			return fmt.Errorf("topic must not be blank")
		}
		return fmt.Errorf("generation failed: %w", err)
	}

	savedID, saved := rt.Pipeline().SavedID()
	calls, in, out, cost := rt.Usage.Snapshot()

	fmt.Println()
	fmt.Println("Lesson generation complete!")
	fmt.Printf("  Topic:           %s\n", lesson.Topic)
	fmt.Printf("  Language:        %s\n", lesson.Language.Name())
	fmt.Printf("  Theme:           %s\n", lesson.Theme)
	fmt.Printf("  Slides:          %d\n", len(lesson.Slides))
	fmt.Printf("  Quiz questions:  %d\n", len(lesson.Quiz))
	if lesson.HasAudio() {
		fmt.Printf("  Narration:       %s\n", narrationLength(lesson))
	} else {
		fmt.Println("  Narration:       unavailable")
	}
	fmt.Printf("  Text calls:      %d (%d input, %d output tokens)\n", calls, in, out)
	if cost > 0 {
		fmt.Printf("  Estimated cost:  $%.4f\n", cost)
	}
	if saved {
		fmt.Printf("  Saved:           %s\n", savedID)
	} else {
		fmt.Println("  Saved:           no")
	}
	fmt.Printf("  Duration:        %s\n", time.Since(start).Round(time.Millisecond))

	if dir, _ := cmd.Flags().GetString("export-dir"); dir != "" {
		paths, err := writeExports(dir, lesson)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Printf("  Wrote:           %s\n", p)
		}
	}
	return nil
}

func narrationLength(c *content.GeneratedContent) string {
	d, err := presentation.AudioDuration(c)
	if err != nil || d == 0 {
		return "present"
	}
	return d.Round(time.Second).String()
}

// writeExports writes the printable document, the slide deck and, when
// present, the decoded narration into dir.
func writeExports(dir string, c *content.GeneratedContent) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export dir: %w", err)
	}

	doc, err := export.Document(c)
	if err != nil {
		return nil, err
	}
	deck, err := export.Deck(c)
	if err != nil {
		return nil, err
	}

	files := []struct {
		name string
		data []byte
	}{
		{export.Filename(c.Topic, export.DocumentSuffix), doc},
		{export.Filename(c.Topic, export.DeckSuffix), deck},
	}
	if audio, mimeType, err := presentation.DecodeAudio(c); err == nil {
		files = append(files, struct {
			name string
			data []byte
		}{export.Filename(c.Topic, media.Extension(mimeType)), audio})
	}

	var written []string
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, f.data, 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// signalContext is cancelled on interrupt or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
