// Package mcp exposes the lesson history and generation to AI agents over
// the Model Context Protocol.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/edugen/internal/content"
	"github.com/ziadkadry99/edugen/internal/history"
	"github.com/ziadkadry99/edugen/internal/vectordb"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Lessons is what the tools need from a session.
type Lessons interface {
	History(ctx context.Context) ([]history.Record, error)
	Lesson(ctx context.Context, id string) (history.Record, error)
	Generate(ctx context.Context, topic string) (*content.GeneratedContent, error)
	SetLanguage(lang content.Language) error
	SetTheme(ctx context.Context, theme content.Theme) error
	Search(ctx context.Context, query string, limit int) ([]vectordb.Hit, error)
}

// Server wraps an MCP server that exposes lesson tools.
type Server struct {
	lessons Lessons
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server over lessons.
func NewServer(lessons Lessons) *Server {
	s := &Server{lessons: lessons}

	s.mcp = server.NewMCPServer(
		"edugen",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listHistoryTool, s.handleListHistory)
	s.mcp.AddTool(getLessonTool, s.handleGetLesson)
	s.mcp.AddTool(generateLessonTool, s.handleGenerateLesson)
	s.mcp.AddTool(searchLessonsTool, s.handleSearchLessons)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
