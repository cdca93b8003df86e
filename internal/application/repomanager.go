package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/ericfisherdev/blogpages/internal/domain/model"
	"github.com/ericfisherdev/blogpages/internal/domain/port/driven"
)

// DefaultNetworkTimeout bounds every call that talks to the remote.
const DefaultNetworkTimeout = 60 * time.Second

// RepositoryManager owns the lifecycle of the single local working copy.
// The config is passed in on every call and never cached. Callers serialize
// access; RepositoryManager does no locking of its own.
type RepositoryManager struct {
	git            driven.GitClient
	configs        driven.RepositoryConfigStore
	workspaceDir   string
	networkTimeout time.Duration
	logger         *slog.Logger
}

// NewRepositoryManager creates a RepositoryManager keeping working copies
// under workspaceDir. A non-positive networkTimeout uses
// DefaultNetworkTimeout.
func NewRepositoryManager(
	git driven.GitClient,
	configs driven.RepositoryConfigStore,
	workspaceDir string,
	networkTimeout time.Duration,
	logger *slog.Logger,
) *RepositoryManager {
	if networkTimeout <= 0 {
		networkTimeout = DefaultNetworkTimeout
	}
	return &RepositoryManager{
		git:            git,
		configs:        configs,
		workspaceDir:   workspaceDir,
		networkTimeout: networkTimeout,
		logger:         logger,
	}
}

// Config loads the stored config. It returns (nil, nil) when no repository
// is configured.
func (m *RepositoryManager) Config(ctx context.Context) (*model.RepositoryConfig, error) {
	cfg, err := m.configs.Get(ctx)
	if err != nil {
		return nil, storageErr("load repository config", err)
	}
	return cfg, nil
}

// SaveConfig persists cfg as the one repository config.
func (m *RepositoryManager) SaveConfig(ctx context.Context, cfg model.RepositoryConfig) error {
	if err := m.configs.Put(ctx, cfg); err != nil {
		return storageErr("save repository config", err)
	}
	return nil
}

// WorkingCopyPath returns the checkout directory for cfg.
func (m *RepositoryManager) WorkingCopyPath(cfg model.RepositoryConfig) string {
	return cfg.WorkingCopyPath(m.workspaceDir)
}

func (m *RepositoryManager) networkContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.networkTimeout)
}

// remoteErr reports an exceeded network deadline as
// driven.ErrNetworkUnavailable, whatever the client returned.
func remoteErr(netCtx context.Context, err error) error {
	if err == nil || errors.Is(err, driven.ErrNetworkUnavailable) {
		return err
	}
	if errors.Is(netCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", driven.ErrNetworkUnavailable, err)
	}
	return err
}

// ensureWorkingCopy fails with ErrWorkingCopyMissing when the checkout
// directory disappeared while the config still exists.
func (m *RepositoryManager) ensureWorkingCopy(cfg model.RepositoryConfig) (string, error) {
	dir := m.WorkingCopyPath(cfg)
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) || (err == nil && !info.IsDir()) {
		return "", fmt.Errorf("%w: %s", ErrWorkingCopyMissing, dir)
	}
	if err != nil {
		return "", fmt.Errorf("stat working copy %s: %w", dir, err)
	}
	return dir, nil
}

// NewRepository creates the working copy for cfg and stores cfg. The remote
// is cloned when it is reachable and has at least one branch; otherwise an
// empty repository is initialized with origin set to the remote URL.
func (m *RepositoryManager) NewRepository(ctx context.Context, cfg model.RepositoryConfig) error {
	existing, err := m.Config(ctx)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: %s", ErrRepositoryAlreadyExists, existing.RemoteURL)
	}

	cfg.ActiveBranch = ""
	cfg.LastExportEpoch = 0
	dir := m.WorkingCopyPath(cfg)

	// A directory without a config is left over from an interrupted setup
	// or removal.
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove stale working copy %s: %w", dir, err)
	}
	if err := os.MkdirAll(m.workspaceDir, 0o755); err != nil {
		return fmt.Errorf("create workspace %s: %w", m.workspaceDir, err)
	}

	if err := m.createWorkingCopy(ctx, cfg, dir); err != nil {
		_ = os.RemoveAll(dir)
		return err
	}

	if err := m.SaveConfig(ctx, cfg); err != nil {
		_ = os.RemoveAll(dir)
		return err
	}

	m.logger.Info("repository created", "remote", cfg.RemoteURL, "dir", dir)
	return nil
}

func (m *RepositoryManager) createWorkingCopy(ctx context.Context, cfg model.RepositoryConfig, dir string) error {
	branches, err := m.lsRemote(ctx, "", cfg.RemoteURL)
	if err != nil {
		m.logger.Warn("remote not readable, initializing empty repository", "remote", cfg.RemoteURL, "error", err)
	}

	if err == nil && len(branches) > 0 {
		netCtx, cancel := m.networkContext(ctx)
		defer cancel()
		if err := remoteErr(netCtx, m.git.Clone(netCtx, cfg.RemoteURL, dir)); err != nil {
			return fmt.Errorf("clone %s: %w", cfg.RemoteURL, err)
		}
	} else if err := m.git.Init(ctx, cfg.RemoteURL, dir); err != nil {
		return fmt.Errorf("init %s: %w", dir, err)
	}

	if err := m.git.SetAuthor(ctx, dir, cfg.AuthorName, cfg.AuthorEmail); err != nil {
		return fmt.Errorf("set author: %w", err)
	}
	return nil
}

func (m *RepositoryManager) lsRemote(ctx context.Context, dir, remote string) ([]string, error) {
	netCtx, cancel := m.networkContext(ctx)
	defer cancel()

	branches, err := m.git.LsRemoteHeads(netCtx, dir, remote)
	return branches, remoteErr(netCtx, err)
}

// ListRemoteBranches returns the branch names on the remote without
// changing local state.
func (m *RepositoryManager) ListRemoteBranches(ctx context.Context, cfg model.RepositoryConfig) ([]string, error) {
	dir, err := m.ensureWorkingCopy(cfg)
	if err != nil {
		return nil, err
	}

	branches, err := m.lsRemote(ctx, dir, "origin")
	if err != nil {
		return nil, fmt.Errorf("list remote branches: %w", err)
	}
	return branches, nil
}

// SetBranch checks out branch, creating a local tracking branch when needed,
// and stores it as the active branch.
func (m *RepositoryManager) SetBranch(ctx context.Context, cfg model.RepositoryConfig, branch string) error {
	branches, err := m.ListRemoteBranches(ctx, cfg)
	if err != nil {
		return err
	}
	if !slices.Contains(branches, branch) {
		return fmt.Errorf("%w: %s", ErrBranchNotFound, branch)
	}

	dir := m.WorkingCopyPath(cfg)
	if err := m.fetch(ctx, dir, branch); err != nil {
		return err
	}
	if err := m.checkout(ctx, dir, branch); err != nil {
		return err
	}

	cfg.ActiveBranch = branch
	if err := m.SaveConfig(ctx, cfg); err != nil {
		return err
	}

	m.logger.Info("branch selected", "branch", branch)
	return nil
}

func (m *RepositoryManager) fetch(ctx context.Context, dir, branch string) error {
	netCtx, cancel := m.networkContext(ctx)
	defer cancel()

	if err := remoteErr(netCtx, m.git.Fetch(netCtx, dir, branch)); err != nil {
		return fmt.Errorf("fetch %s: %w", branch, err)
	}
	return nil
}

func (m *RepositoryManager) checkout(ctx context.Context, dir, branch string) error {
	exists, err := m.git.LocalBranchExists(ctx, dir, branch)
	if err != nil {
		return fmt.Errorf("check local branch %s: %w", branch, err)
	}
	if err := m.git.Checkout(ctx, dir, branch, !exists); err != nil {
		return fmt.Errorf("checkout %s: %w", branch, err)
	}
	return nil
}

// Pull fetches the active branch and fast-forwards the working copy to it.
// A diverged working copy fails with driven.ErrMergeConflict; it is never
// merged.
func (m *RepositoryManager) Pull(ctx context.Context, cfg model.RepositoryConfig) error {
	if cfg.ActiveBranch == "" {
		return ErrNoBranchSelected
	}
	dir, err := m.ensureWorkingCopy(cfg)
	if err != nil {
		return err
	}

	if err := m.fetch(ctx, dir, cfg.ActiveBranch); err != nil {
		return err
	}

	current, err := m.git.CurrentBranch(ctx, dir)
	if err != nil || current != cfg.ActiveBranch {
		m.logger.Warn("working copy not on active branch, switching",
			"current", current,
			"branch", cfg.ActiveBranch,
		)
		if err := m.checkout(ctx, dir, cfg.ActiveBranch); err != nil {
			return err
		}
	}

	if err := m.git.FastForward(ctx, dir, cfg.ActiveBranch); err != nil {
		return fmt.Errorf("fast-forward %s: %w", cfg.ActiveBranch, err)
	}
	return nil
}

// CommitAll stages every change in the working copy and commits it. It
// returns a nil commit ID, not an error, when there is nothing to commit.
func (m *RepositoryManager) CommitAll(ctx context.Context, cfg model.RepositoryConfig, message string) (*string, error) {
	dir, err := m.ensureWorkingCopy(cfg)
	if err != nil {
		return nil, err
	}

	if err := m.git.StageAll(ctx, dir); err != nil {
		return nil, fmt.Errorf("stage changes: %w", err)
	}

	staged, err := m.git.HasStagedChanges(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("inspect staged changes: %w", err)
	}
	if !staged {
		return nil, nil
	}

	id, err := m.git.Commit(ctx, dir, message)
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &id, nil
}

// Push sends the active branch to the remote with one-shot credentials.
func (m *RepositoryManager) Push(ctx context.Context, cfg model.RepositoryConfig, creds model.Credentials) error {
	if cfg.ActiveBranch == "" {
		return ErrNoBranchSelected
	}
	dir, err := m.ensureWorkingCopy(cfg)
	if err != nil {
		return err
	}

	netCtx, cancel := m.networkContext(ctx)
	defer cancel()

	if err := remoteErr(netCtx, m.git.Push(netCtx, dir, cfg.ActiveBranch, creds)); err != nil {
		return fmt.Errorf("push %s: %w", cfg.ActiveBranch, err)
	}
	return nil
}

// RemoveRepository deletes the working copy and the stored config. A
// missing or partially deleted working copy is not an error.
func (m *RepositoryManager) RemoveRepository(ctx context.Context, cfg model.RepositoryConfig) error {
	dir := m.WorkingCopyPath(cfg)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove working copy %s: %w", dir, err)
	}
	if err := m.configs.Delete(ctx); err != nil {
		return storageErr("delete repository config", err)
	}

	m.logger.Info("repository removed", "remote", cfg.RemoteURL, "dir", dir)
	return nil
}
