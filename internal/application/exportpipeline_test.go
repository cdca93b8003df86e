package application_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/blogpages/internal/application"
	"github.com/ericfisherdev/blogpages/internal/domain/model"
)

func postAt(id, created int64) model.Post {
	return model.Post{
		ID:              id,
		Title:           "Post",
		MarkdownContent: "body\n",
		CreatedAt:       time.Unix(created, 0).UTC(),
	}
}

func newPipeline(posts *mockPostStore, kind model.TemplateKind) *application.ExportPipeline {
	return application.NewExportPipeline(posts, application.NewRenderer(), kind, discardLogger())
}

func TestExportPipeline_ExportAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "content")
	p := newPipeline(&mockPostStore{posts: []model.Post{postAt(1, 900), postAt(2, 1500)}}, model.TemplateHugo)

	result, err := p.ExportAll(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, []string{"1.md", "2.md"}, result.Written)
	assert.Zero(t, result.Skipped)
	assert.ElementsMatch(t, []string{"1.md", "2.md"}, listFiles(dir))
}

func TestExportPipeline_ExportSince(t *testing.T) {
	updated := time.Unix(1200, 0).UTC()
	edited := postAt(3, 100)
	edited.UpdatedAt = &updated

	dir := t.TempDir()
	p := newPipeline(&mockPostStore{posts: []model.Post{postAt(1, 900), postAt(2, 1500), edited}}, model.TemplateHugo)

	result, err := p.ExportSince(context.Background(), dir, 1000)

	require.NoError(t, err)
	assert.Equal(t, []string{"2.md", "3.md"}, result.Written)
	assert.ElementsMatch(t, []string{"2.md", "3.md"}, listFiles(dir))
}

func TestExportPipeline_ExportSince_Idempotent(t *testing.T) {
	dir := t.TempDir()
	p := newPipeline(&mockPostStore{posts: []model.Post{postAt(1, 900), postAt(2, 1500)}}, model.TemplateHugo)

	_, err := p.ExportSince(context.Background(), dir, 0)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(dir, "2.md"))
	require.NoError(t, err)

	_, err = p.ExportSince(context.Background(), dir, 0)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, "2.md"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExportPipeline_OverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "1.md")
	require.NoError(t, os.WriteFile(stale, []byte("a much longer stale file that must be truncated\n"), 0o644))

	p := newPipeline(&mockPostStore{posts: []model.Post{postAt(1, 900)}}, model.TemplateHugo)
	_, err := p.ExportAll(context.Background(), dir)
	require.NoError(t, err)

	data, err := os.ReadFile(stale)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
	assert.Contains(t, string(data), "body\n")
}

func TestExportPipeline_RenderFailureSkipsPost(t *testing.T) {
	dir := t.TempDir()
	p := newPipeline(&mockPostStore{posts: []model.Post{postAt(1, 900), postAt(2, 1500)}}, model.TemplateKind("missing"))

	result, err := p.ExportAll(context.Background(), dir)

	require.NoError(t, err)
	assert.Empty(t, result.Written)
	assert.Equal(t, 2, result.Skipped)
	assert.Empty(t, listFiles(dir))
}

func TestExportPipeline_WriteFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file should go makes the write fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "2.md"), 0o755))

	p := newPipeline(&mockPostStore{posts: []model.Post{postAt(1, 900), postAt(2, 1500), postAt(3, 1600)}}, model.TemplateHugo)
	result, err := p.ExportAll(context.Background(), dir)

	require.Error(t, err)
	assert.ErrorIs(t, err, application.ErrExportIO)
	assert.Equal(t, []string{"1.md"}, result.Written)
	assert.NoFileExists(t, filepath.Join(dir, "3.md"))
}

func TestExportPipeline_StoreFailure(t *testing.T) {
	p := newPipeline(&mockPostStore{err: errors.New("db closed")}, model.TemplateHugo)

	_, err := p.ExportSince(context.Background(), t.TempDir(), 0)

	require.Error(t, err)
	assert.ErrorIs(t, err, application.ErrStorage)
}

func TestExportPipeline_HTMLExtension(t *testing.T) {
	dir := t.TempDir()
	p := newPipeline(&mockPostStore{posts: []model.Post{postAt(5, 900)}}, model.TemplateHTML)

	result, err := p.ExportAll(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, []string{"5.html"}, result.Written)
}
