package driven

import (
	"context"

	"github.com/ericfisherdev/blogpages/internal/domain/model"
)

// RepositoryConfigStore persists the single RepositoryConfig record.
// Get returns (nil, nil) when no repository has been configured.
// Delete succeeds when the record is already absent.
type RepositoryConfigStore interface {
	Get(ctx context.Context) (*model.RepositoryConfig, error)
	Put(ctx context.Context, cfg model.RepositoryConfig) error
	Delete(ctx context.Context) error
}
