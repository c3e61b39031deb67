package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/SUMITRAUTHAN09/rosca/internal/api"
	"github.com/SUMITRAUTHAN09/rosca/internal/handlers"
	"github.com/SUMITRAUTHAN09/rosca/internal/media"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the companion API for the web front-end",
		Long: `Starts a local HTTP API that backs the add-room form and the owner
dashboard of a web front-end.

Drafts hold form fields and selected media; previews of the selected media
are served under /previews/. Submitting a draft, editing and deleting rooms
go to the Rosca API with the session of this CLI. Prometheus metrics are
exposed at /metrics.`,
		Example: `  # Start server on the configured address (default :8888)
  rosca serve

  # Start server on a custom address
  rosca serve --addr 127.0.0.1:3001`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Serve.Addr
			}

			notes := handlers.NewNotifications()
			dash := a.dashboard(notes)
			defer dash.Close()

			if a.session.HasToken() {
				if err := dash.LoadProfile(cmd.Context()); err != nil {
					slog.Warn("Profile not loaded at startup", "err", api.Message(err))
				}
			}

			previews := media.NewMemoryPreviews(handlers.PreviewPath)
			spool := filepath.Join(os.TempDir(), "rosca-media")
			handler := handlers.New(dash, previews, notes, spool)
			defer handler.Close()

			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(a.registry, a.cfg.Serve.CORSOrigins),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Rosca companion API available", "addr", addr, "api", a.cfg.API.BaseURL)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (overrides serve.addr)")

	return cmd
}
