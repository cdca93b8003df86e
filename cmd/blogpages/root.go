package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	sqliteadapter "github.com/ericfisherdev/blogpages/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/blogpages/internal/application"
	"github.com/ericfisherdev/blogpages/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "blogpages",
		Short: "Publish blog posts to a git-hosted static site",
		Long: `blogpages renders stored blog posts into static-site documents and keeps
a git working copy in sync with its remote, so each push only exports the
posts changed since the last successful one.

Configuration is read from BLOGPAGES_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(newServeCmd(), newExportCmd(), newHealthcheckCmd())
	return root
}

// app holds the adapters shared by every subcommand that touches the
// database.
type app struct {
	cfg      *config.Config
	db       *sqliteadapter.DB
	settings *sqliteadapter.SettingsRepo
	pipeline *application.ExportPipeline
	archive  *application.ArchiveService
}

func openApp(ctx context.Context) (*app, error) {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"workspace_dir", cfg.WorkspaceDir,
		"template", cfg.Template,
	)

	// 2. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	slog.Info("database opened", "path", cfg.DBPath)

	// 3. Run migrations on writer connection.
	version, err := sqliteadapter.RunMigrations(db.Writer)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", cfg.DBPath, err)
	}
	slog.Info("migrations complete", "schema_version", version)

	// 4. Wire export.
	posts := sqliteadapter.NewPostRepo(db)
	pipeline := application.NewExportPipeline(posts, application.NewRenderer(), cfg.Template, slog.Default())

	return &app{
		cfg:      cfg,
		db:       db,
		settings: sqliteadapter.NewSettingsRepo(db),
		pipeline: pipeline,
		archive:  application.NewArchiveService(pipeline, cfg.ExportDir, slog.Default()),
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
