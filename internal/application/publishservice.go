package application

import (
	"context"
	"log/slog"

	"golang.org/x/sync/semaphore"

	"github.com/ericfisherdev/blogpages/internal/domain/model"
)

// PublishService is the operation surface the HTTP layer calls. It
// serializes every repository operation behind one lock and returns
// failures as *OpError.
type PublishService struct {
	manager *RepositoryManager
	sync    *SyncService
	lock    *semaphore.Weighted
	logger  *slog.Logger
}

// NewPublishService creates a PublishService.
func NewPublishService(manager *RepositoryManager, sync *SyncService, logger *slog.Logger) *PublishService {
	return &PublishService{
		manager: manager,
		sync:    sync,
		lock:    semaphore.NewWeighted(1),
		logger:  logger,
	}
}

// acquire waits for the repository lock. Lifecycle operations queue behind
// an in-flight push.
func (s *PublishService) acquire(ctx context.Context) (func(), error) {
	if err := s.lock.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { s.lock.Release(1) }, nil
}

func (s *PublishService) fail(op string, err error) error {
	opErr := Classify(err)
	s.logger.Error("publish operation failed", "op", op, "error", err)
	return opErr
}

// loadConfig returns the stored config or ErrRepositoryNotConfigured.
func (s *PublishService) loadConfig(ctx context.Context) (model.RepositoryConfig, error) {
	cfg, err := s.manager.Config(ctx)
	if err != nil {
		return model.RepositoryConfig{}, err
	}
	if cfg == nil {
		return model.RepositoryConfig{}, ErrRepositoryNotConfigured
	}
	return *cfg, nil
}

// Create validates the input and sets up the one repository.
func (s *PublishService) Create(ctx context.Context, remoteURL, authorName, authorEmail string) error {
	cfg, err := NewRepositoryConfig(remoteURL, authorName, authorEmail)
	if err != nil {
		return s.fail("create", err)
	}

	release, err := s.acquire(ctx)
	if err != nil {
		return s.fail("create", err)
	}
	defer release()

	if err := s.manager.NewRepository(ctx, cfg); err != nil {
		return s.fail("create", err)
	}
	return nil
}

// Info returns the stored repository config.
func (s *PublishService) Info(ctx context.Context) (model.RepositoryConfig, error) {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return model.RepositoryConfig{}, s.fail("info", err)
	}
	return cfg, nil
}

// ListBranches returns the branches available on the remote.
func (s *PublishService) ListBranches(ctx context.Context) ([]string, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, s.fail("list_branches", err)
	}
	defer release()

	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, s.fail("list_branches", err)
	}

	branches, err := s.manager.ListRemoteBranches(ctx, cfg)
	if err != nil {
		return nil, s.fail("list_branches", err)
	}
	if branches == nil {
		branches = []string{}
	}
	return branches, nil
}

// SelectBranch makes name the active branch.
func (s *PublishService) SelectBranch(ctx context.Context, name string) error {
	if name == "" {
		return s.fail("select_branch", &ValidationError{Field: "branch", Message: "must not be empty"})
	}

	release, err := s.acquire(ctx)
	if err != nil {
		return s.fail("select_branch", err)
	}
	defer release()

	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return s.fail("select_branch", err)
	}
	if err := s.manager.SetBranch(ctx, cfg, name); err != nil {
		return s.fail("select_branch", err)
	}
	return nil
}

// Push runs the sync workflow. A push arriving while another operation holds
// the lock is rejected with ErrSyncInProgress rather than queued.
func (s *PublishService) Push(ctx context.Context, creds model.Credentials) (SyncResult, error) {
	if !s.lock.TryAcquire(1) {
		return SyncResult{}, s.fail("push", ErrSyncInProgress)
	}
	defer s.lock.Release(1)

	result, err := s.sync.Push(ctx, creds)
	if err != nil {
		return SyncResult{}, s.fail("push", err)
	}
	return result, nil
}

// Remove deletes the working copy and the stored config.
func (s *PublishService) Remove(ctx context.Context) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return s.fail("remove", err)
	}
	defer release()

	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return s.fail("remove", err)
	}
	if err := s.manager.RemoveRepository(ctx, cfg); err != nil {
		return s.fail("remove", err)
	}
	return nil
}
