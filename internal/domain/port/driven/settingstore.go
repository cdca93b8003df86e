package driven

import (
	"context"

	"github.com/ericfisherdev/blogpages/internal/domain/model"
)

// SettingStore defines the driven port for named settings records.
// Get returns (nil, nil) when the item does not exist; absence is an
// expected state, not an error.
type SettingStore interface {
	Get(ctx context.Context, item string) (*model.Setting, error)
	Set(ctx context.Context, item, content string) error
	Delete(ctx context.Context, item string) error
}
