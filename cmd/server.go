package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/edugen/internal/dashboard"
	"github.com/ziadkadry99/edugen/internal/server"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the lesson dashboard",
	Long: `Starts the edugen dashboard: a single-page lesson studio with live
generation progress, slides synchronized to the narration, the quiz,
exports and the per-user history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		cfg, log := a.cfg, a.log

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") || port == 0 {
			port = serverPort
		}

		srv := server.New(server.Config{
			Port:     port,
			AllowAll: cfg.Server.AllowAllOrigins,
		}, a.rt.DB, log.With("component", "server"))

		dash := dashboard.New(a.rt.Workspace, log.With("component", "dashboard"))
		dash.RegisterRoutes(srv.Router())

		// Graceful shutdown.
		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("shutdown", "error", err)
			}
		}()

		fmt.Fprintf(os.Stderr, "edugen dashboard v%s starting on http://localhost:%d\n", Version, port)
		fmt.Fprintf(os.Stderr, "  History:  %s\n", cfg.HistoryDBPath())
		fmt.Fprintf(os.Stderr, "  Language: %s\n", a.rt.Language().Name())
		fmt.Fprintf(os.Stderr, "  Provider: %s (%s)\n", cfg.Provider, cfg.Model)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serverCmd)
}
