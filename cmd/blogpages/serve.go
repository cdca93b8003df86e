package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/blogpages/internal/adapter/driven/gitcli"
	sqliteadapter "github.com/ericfisherdev/blogpages/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/blogpages/internal/adapter/driving/http"
	"github.com/ericfisherdev/blogpages/internal/application"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	// Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	cfg := a.cfg

	// Wire the repository pipeline.
	gitClient, err := gitcli.NewClient(cfg.GitPath)
	if err != nil {
		return err
	}
	repoConfigs := sqliteadapter.NewRepoConfigRepo(a.settings)
	manager := application.NewRepositoryManager(gitClient, repoConfigs, cfg.WorkspaceDir, cfg.NetworkTimeout, slog.Default())
	syncSvc := application.NewSyncService(manager, a.pipeline, cfg.ContentDir, slog.Default())
	publishSvc := application.NewPublishService(manager, syncSvc, slog.Default())

	// Create HTTP handler and register API routes.
	apiHandler := httphandler.NewHandler(publishSvc, a.archive, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// A push makes two bounded network calls (fetch and push).
		WriteTimeout: 2*cfg.NetworkTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	slog.Info("blogpages started",
		"listen_addr", cfg.ListenAddr,
		"workspace_dir", cfg.WorkspaceDir,
		"network_timeout", cfg.NetworkTimeout,
	)

	// Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// Graceful shutdown gives an in-flight push time to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.NetworkTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
