package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/edugen/internal/content"
	"github.com/ziadkadry99/edugen/internal/history"
	"github.com/ziadkadry99/edugen/internal/i18n"
	"github.com/ziadkadry99/edugen/internal/pipeline"
	"github.com/ziadkadry99/edugen/internal/vectordb"
	"github.com/ziadkadry99/edugen/internal/workspace"
)

// handleListHistory lists the saved lessons of the signed-in user.
func (s *Server) handleListHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records, err := s.lessons.History(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing history failed: %v", err)), nil
	}
	match := request.GetString("match", "")
	if records, err = history.FilterTopics(records, match); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(records) == 0 && match != "" {
		return mcp.NewToolResultText(fmt.Sprintf("No saved lessons match %q.", match)), nil
	}
	if len(records) == 0 {
		return mcp.NewToolResultText("No saved lessons. Sign in with `edugen user login` and generate one first."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d lesson(s):\n", len(records)))
	for i, rec := range records {
		sum := rec.Summary()
		sb.WriteString(fmt.Sprintf("%d. %s [%s] id=%s created=%s\n",
			i+1, sum.Topic, sum.Language, sum.ID, sum.CreatedAt.Format("2006-01-02 15:04")))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleGetLesson returns one saved lesson.
func (s *Server) handleGetLesson(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	rec, err := s.lessons.Lesson(ctx, id)
	switch {
	case errors.Is(err, workspace.ErrSignedOut):
		return mcp.NewToolResultError("No user is signed in. Run `edugen user login` first."), nil
	case errors.Is(err, history.ErrNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("No lesson with id %q.", id)), nil
	case err != nil:
		return mcp.NewToolResultError(fmt.Sprintf("reading lesson failed: %v", err)), nil
	}

	if request.GetString("format", "markdown") == "json" {
		// Narration is omitted; it is large and useless to an agent.
		lesson := rec.Data.WithAudio("", "")
		out, err := json.MarshalIndent(lesson, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encoding lesson failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	}
	return mcp.NewToolResultText(formatLesson(rec.Data)), nil
}

// handleGenerateLesson runs the pipeline and returns the finished lesson.
func (s *Server) handleGenerateLesson(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := request.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: topic"), nil
	}
	if lang := request.GetString("language", ""); lang != "" {
		if err := s.lessons.SetLanguage(content.Language(lang)); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	if theme := request.GetString("theme", ""); theme != "" {
		if err := s.lessons.SetTheme(ctx, content.Theme(theme)); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	lesson, err := s.lessons.Generate(ctx, topic)
	switch {
	case errors.Is(err, pipeline.ErrBlankTopic):
		return mcp.NewToolResultError("topic must not be blank"), nil
	case errors.Is(err, pipeline.ErrBusy):
		return mcp.NewToolResultError("another lesson is being generated; try again shortly"), nil
	case err != nil:
		return mcp.NewToolResultError(fmt.Sprintf("generation failed: %v", err)), nil
	}
	return mcp.NewToolResultText(formatLesson(lesson)), nil
}

// handleSearchLessons runs a semantic search over saved lessons.
func (s *Server) handleSearchLessons(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	limit := request.GetInt("limit", vectordb.DefaultLimit)

	hits, err := s.lessons.Search(ctx, query, limit)
	switch {
	case errors.Is(err, workspace.ErrSignedOut):
		return mcp.NewToolResultError("No user is signed in. Run `edugen user login` first."), nil
	case errors.Is(err, workspace.ErrSearchDisabled):
		return mcp.NewToolResultError("Lesson search is not configured: set embedding_provider in .edugen.yml."), nil
	case errors.Is(err, vectordb.ErrEmptyQuery):
		return mcp.NewToolResultError("query must not be blank"), nil
	case err != nil:
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(hits) == 0 {
		return mcp.NewToolResultText("No matching lessons."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d lesson(s):\n", len(hits)))
	for i, h := range hits {
		sb.WriteString(fmt.Sprintf("%d. %s [%s] id=%s similarity=%.2f\n", i+1, h.Topic, h.Language, h.RecordID, h.Similarity))
		if h.Snippet != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", h.Snippet))
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// formatLesson renders a lesson as markdown for agent consumption.
func formatLesson(c *content.GeneratedContent) string {
	lang := c.Language
	if !lang.Valid() {
		lang = content.DefaultLanguage
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", c.Topic))
	sb.WriteString(fmt.Sprintf("Language: %s, theme: %s, narration: %t\n\n", lang.Name(), c.Theme, c.HasAudio()))

	sb.WriteString(fmt.Sprintf("## %s\n\n%s\n\n", i18n.T(lang, i18n.HeadExplanation), c.Explanation))

	sb.WriteString(fmt.Sprintf("## %s\n\n", i18n.T(lang, i18n.HeadSlides)))
	for i, sl := range c.Slides {
		sb.WriteString(fmt.Sprintf("%d. **%s**: %s\n", i+1, sl.Title, strings.Join(sl.BulletPoints, "; ")))
	}

	sb.WriteString(fmt.Sprintf("\n## %s\n\n", i18n.T(lang, i18n.HeadQuiz)))
	for i, q := range c.Quiz {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, q.Question))
		for _, k := range content.OptionKeys {
			text, _ := q.Options.Get(k)
			sb.WriteString(fmt.Sprintf("   %s) %s\n", k, text))
		}
		sb.WriteString(fmt.Sprintf("   %s: %s\n", i18n.T(lang, i18n.HeadAnswer), q.CorrectAnswer))
	}
	return sb.String()
}
