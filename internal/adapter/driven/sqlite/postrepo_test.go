package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/blogpages/internal/domain/model"
)

func TestPostRepo_ListAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepo(db)
	seedPost(t, repo, 30, 300, nil)
	seedPost(t, repo, 10, 100, nil)
	seedPost(t, repo, 20, 200, nil)

	posts, err := repo.ListAll(context.Background())

	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, int64(10), posts[0].ID)
	assert.Equal(t, int64(20), posts[1].ID)
	assert.Equal(t, int64(30), posts[2].ID)
	assert.Equal(t, "# Post", posts[0].MarkdownContent)
	assert.Equal(t, int64(100), posts[0].CreatedAt.Unix())
	assert.Nil(t, posts[0].UpdatedAt)
}

func TestPostRepo_ListAll_Empty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepo(db)

	posts, err := repo.ListAll(context.Background())

	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostRepo_ListSince(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepo(db)
	edited := int64(1200)
	seedPost(t, repo, 1, 900, nil)
	seedPost(t, repo, 2, 1500, nil)
	seedPost(t, repo, 3, 500, &edited)
	seedPost(t, repo, 4, 1000, nil)

	posts, err := repo.ListSince(context.Background(), 1000)

	require.NoError(t, err)
	var ids []int64
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int64{2, 3, 4}, ids)
	require.NotNil(t, posts[1].UpdatedAt)
	assert.Equal(t, int64(1200), posts[1].UpdatedAt.Unix())
}

func TestPostRepo_SaveUpdates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepo(db)
	ctx := context.Background()
	seedPost(t, repo, 1, 900, nil)

	updated := time.Unix(2000, 0)
	require.NoError(t, repo.Save(ctx, model.Post{
		ID:              1,
		Title:           "Edited",
		MarkdownContent: "new body",
		CreatedAt:       time.Unix(1, 0),
		UpdatedAt:       &updated,
	}))

	posts, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Edited", posts[0].Title)
	assert.Equal(t, int64(900), posts[0].CreatedAt.Unix(), "created_at is immutable")
	require.NotNil(t, posts[0].UpdatedAt)
	assert.Equal(t, int64(2000), posts[0].UpdatedAt.Unix())
}
