package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/edugen/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing the lesson
history and lesson generation as tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		who := "nobody"
		if u, ok := a.rt.User(); ok {
			who = u.Email
		}
		// Stdout carries the protocol; everything else goes to stderr.
		fmt.Fprintf(os.Stderr, "edugen MCP server started on stdio (signed in: %s)\n", who)

		return mcpserver.NewServer(a.rt.Workspace).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
