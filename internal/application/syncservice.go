package application

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/ericfisherdev/blogpages/internal/domain/model"
)

// SyncResult describes a successful push.
type SyncResult struct {
	Exported int     // files written by the export pass
	CommitID *string // nil when the export changed nothing
	Epoch    int64   // last_export_epoch after the push
}

// SyncService runs the push workflow: pull, export changed posts, commit,
// push, and only then advance the recorded export epoch.
type SyncService struct {
	manager    *RepositoryManager
	pipeline   *ExportPipeline
	contentDir string
	now        func() time.Time
	logger     *slog.Logger
}

// NewSyncService creates a SyncService exporting into contentDir, relative
// to the working copy root.
func NewSyncService(manager *RepositoryManager, pipeline *ExportPipeline, contentDir string, logger *slog.Logger) *SyncService {
	return &SyncService{
		manager:    manager,
		pipeline:   pipeline,
		contentDir: contentDir,
		now:        time.Now,
		logger:     logger,
	}
}

// Push exports posts changed since the last successful push and pushes them.
// The stored epoch moves forward only after the remote accepted the push, so
// a failure at any step leaves the next push exporting the same window.
func (s *SyncService) Push(ctx context.Context, creds model.Credentials) (SyncResult, error) {
	cfg, err := s.manager.Config(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	if cfg == nil {
		return SyncResult{}, ErrRepositoryNotConfigured
	}

	// Posts saved while the push runs get a timestamp after startedAt and
	// are picked up by the next push.
	startedAt := s.now().Unix()

	if err := s.manager.Pull(ctx, *cfg); err != nil {
		return SyncResult{}, fmt.Errorf("pull: %w", err)
	}

	dir := filepath.Join(s.manager.WorkingCopyPath(*cfg), s.contentDir)
	exported, err := s.pipeline.ExportSince(ctx, dir, cfg.LastExportEpoch)
	if err != nil {
		return SyncResult{}, fmt.Errorf("export: %w", err)
	}

	commitID, err := s.manager.CommitAll(ctx, *cfg, commitMessage(len(exported.Written)))
	if err != nil {
		return SyncResult{}, fmt.Errorf("commit: %w", err)
	}
	if commitID == nil {
		s.logger.Info("nothing to commit", "branch", cfg.ActiveBranch)
	}

	if err := s.manager.Push(ctx, *cfg, creds); err != nil {
		return SyncResult{}, fmt.Errorf("push: %w", err)
	}

	cfg.LastExportEpoch = max(cfg.LastExportEpoch, startedAt)
	if err := s.manager.SaveConfig(ctx, *cfg); err != nil {
		return SyncResult{}, fmt.Errorf("record export epoch: %w", err)
	}

	s.logger.Info("push complete",
		"branch", cfg.ActiveBranch,
		"exported", len(exported.Written),
		"skipped", exported.Skipped,
		"epoch", cfg.LastExportEpoch,
	)
	return SyncResult{
		Exported: len(exported.Written),
		CommitID: commitID,
		Epoch:    cfg.LastExportEpoch,
	}, nil
}

func commitMessage(n int) string {
	if n == 1 {
		return "Export 1 post from blogpages"
	}
	return fmt.Sprintf("Export %d posts from blogpages", n)
}
