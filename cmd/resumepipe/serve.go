package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"resume-pipeline/internal/shared/config"
	"resume-pipeline/internal/shared/server"
	"resume-pipeline/internal/shared/storage/db"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only records API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		conn, repo, err := openRepo(ctx, cfg, db.DefaultServerOptions())
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := db.RunMigrations(ctx, conn); err != nil {
			return err
		}

		srv := &http.Server{
			Addr:    server.Addr(cfg.Port),
			Handler: server.NewRouter(repo, cfg.CORSAllowOrigin),
		}

		errCh := make(chan error, 1)
		go func() {
			printStep("listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case <-ctx.Done():
			printStep("shutting down...")
		case err := <-errCh:
			if err != nil {
				return err
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
