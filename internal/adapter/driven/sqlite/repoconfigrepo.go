package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ericfisherdev/blogpages/internal/domain/model"
	"github.com/ericfisherdev/blogpages/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RepositoryConfigStore = (*RepoConfigRepo)(nil)

// RepoConfigRepo stores the RepositoryConfig as a JSON document in the
// settings table under model.RepositoryConfigKey.
type RepoConfigRepo struct {
	settings driven.SettingStore
}

// NewRepoConfigRepo creates a RepoConfigRepo on top of a SettingStore.
func NewRepoConfigRepo(settings driven.SettingStore) *RepoConfigRepo {
	return &RepoConfigRepo{settings: settings}
}

// Get returns the stored config, or (nil, nil) when none is configured.
func (r *RepoConfigRepo) Get(ctx context.Context) (*model.RepositoryConfig, error) {
	s, err := r.settings.Get(ctx, model.RepositoryConfigKey)
	if err != nil {
		return nil, err
	}
	if s == nil || s.Content == "" {
		return nil, nil
	}

	var cfg model.RepositoryConfig
	if err := json.Unmarshal([]byte(s.Content), &cfg); err != nil {
		return nil, fmt.Errorf("decode repository config: %w", err)
	}
	return &cfg, nil
}

// Put replaces the stored config.
func (r *RepoConfigRepo) Put(ctx context.Context, cfg model.RepositoryConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode repository config: %w", err)
	}
	return r.settings.Set(ctx, model.RepositoryConfigKey, string(data))
}

// Delete removes the stored config.
func (r *RepoConfigRepo) Delete(ctx context.Context) error {
	return r.settings.Delete(ctx, model.RepositoryConfigKey)
}
