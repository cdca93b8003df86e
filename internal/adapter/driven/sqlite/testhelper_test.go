package sqlite

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/blogpages/internal/domain/model"
)

// setupTestDB opens a migrated in-memory database private to the test.
// Reader and writer share it through cache=shared under a name derived
// from t.Name().
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)",
		url.PathEscape(t.Name()),
	)

	db, err := openDSN(context.Background(), dsn, dsn)
	require.NoError(t, err, "open test db")
	t.Cleanup(func() { _ = db.Close() })

	_, err = RunMigrations(db.Writer)
	require.NoError(t, err, "run migrations")
	return db
}

// seedPost stores a post created at the given Unix second. A nil updated
// leaves the post unedited.
func seedPost(t *testing.T, repo *PostRepo, id, created int64, updated *int64) {
	t.Helper()
	p := model.Post{
		ID:              id,
		Title:           "Post",
		MarkdownContent: "# Post",
		CreatedAt:       time.Unix(created, 0),
	}
	if updated != nil {
		u := time.Unix(*updated, 0)
		p.UpdatedAt = &u
	}
	require.NoError(t, repo.Save(context.Background(), p))
}
