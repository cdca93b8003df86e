package application_test

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/blogpages/internal/application"
	"github.com/ericfisherdev/blogpages/internal/domain/model"
)

func TestArchiveService_ExportAllAsArchive(t *testing.T) {
	exportDir := filepath.Join(t.TempDir(), "export")
	posts := &mockPostStore{posts: []model.Post{postAt(1, 900), postAt(2, 1500)}}
	svc := application.NewArchiveService(newPipeline(posts, model.TemplateHugo), exportDir, discardLogger())

	name, err := svc.ExportAllAsArchive(context.Background())
	require.NoError(t, err)

	assert.Regexp(t, `^[0-9a-f]{32}\.zip$`, name)

	zr, err := zip.OpenReader(filepath.Join(exportDir, name))
	require.NoError(t, err)
	defer zr.Close()

	var entries []string
	for _, f := range zr.File {
		entries = append(entries, f.Name)
	}
	assert.Equal(t, []string{"1.md", "2.md"}, entries)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)

	want, err := application.NewRenderer().Render(postAt(1, 900), model.TemplateHugo)
	require.NoError(t, err)
	assert.Equal(t, want, string(data))
}

func TestArchiveService_Open(t *testing.T) {
	exportDir := t.TempDir()
	svc := application.NewArchiveService(newPipeline(&mockPostStore{}, model.TemplateHugo), exportDir, discardLogger())
	svc.SetNameGenerator(func() string { return "fixed" })

	name, err := svc.ExportAllAsArchive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fixed.zip", name)

	f, err := svc.Open(name)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = svc.Open("../fixed.zip")
	assert.ErrorIs(t, err, application.ErrArchiveNotFound)
	_, err = svc.Open("other.zip")
	assert.ErrorIs(t, err, application.ErrArchiveNotFound)
}

func TestArchiveService_StoreFailure(t *testing.T) {
	exportDir := t.TempDir()
	posts := &mockPostStore{err: errors.New("db closed")}
	svc := application.NewArchiveService(newPipeline(posts, model.TemplateHugo), exportDir, discardLogger())

	_, err := svc.ExportAllAsArchive(context.Background())

	var opErr *application.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, application.KindStorage, opErr.Kind)

	entries, err := os.ReadDir(exportDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
