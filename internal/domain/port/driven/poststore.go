package driven

import (
	"context"

	"github.com/ericfisherdev/blogpages/internal/domain/model"
)

// PostStore defines the read-only driven port over persisted blog posts.
// Both methods return posts ordered by ID ascending.
type PostStore interface {
	ListAll(ctx context.Context) ([]model.Post, error)
	// ListSince returns posts created or updated at or after epoch (Unix seconds).
	ListSince(ctx context.Context, epoch int64) ([]model.Post, error)
}
