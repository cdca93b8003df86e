package application

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ArchiveService builds downloadable zip archives of every post. It is
// independent of the repository sync state.
type ArchiveService struct {
	pipeline  *ExportPipeline
	exportDir string
	newName   func() string
	logger    *slog.Logger
}

// NewArchiveService creates an ArchiveService writing archives to exportDir.
func NewArchiveService(pipeline *ExportPipeline, exportDir string, logger *slog.Logger) *ArchiveService {
	return &ArchiveService{
		pipeline:  pipeline,
		exportDir: exportDir,
		newName: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")
		},
		logger: logger,
	}
}

// Dir returns the directory archives are written to.
func (s *ArchiveService) Dir() string {
	return s.exportDir
}

// ExportAllAsArchive writes every rendered post into a new zip file and
// returns its file name. Errors are returned as *OpError.
func (s *ArchiveService) ExportAllAsArchive(ctx context.Context) (string, error) {
	name, err := s.exportAll(ctx)
	if err != nil {
		s.logger.Error("archive export failed", "error", err)
		return "", Classify(err)
	}
	return name, nil
}

func (s *ArchiveService) exportAll(ctx context.Context) (name string, err error) {
	posts, err := s.pipeline.posts.ListAll(ctx)
	if err != nil {
		return "", storageErr("list posts", err)
	}

	if err := os.MkdirAll(s.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s: %w", ErrExportIO, s.exportDir, err)
	}

	name = s.newName() + ".zip"
	path := filepath.Join(s.exportDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: create %s: %w", ErrExportIO, name, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	zw := zip.NewWriter(f)
	var skipped int
	err = s.pipeline.each(posts, func(entry, content string) error {
		w, err := zw.Create(entry)
		if err != nil {
			return fmt.Errorf("%w: add %s: %w", ErrExportIO, entry, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			return fmt.Errorf("%w: write %s: %w", ErrExportIO, entry, err)
		}
		return nil
	}, &skipped)

	if closeErr := zw.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("%w: finish %s: %w", ErrExportIO, name, closeErr)
	}
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("%w: close %s: %w", ErrExportIO, name, closeErr)
	}
	if err != nil {
		return "", err
	}

	s.logger.Info("archive exported", "file", name, "posts", len(posts)-skipped, "skipped", skipped)
	return name, nil
}

// Open returns a reader for a previously exported archive. name must be a
// bare file name produced by ExportAllAsArchive.
func (s *ArchiveService) Open(name string) (*os.File, error) {
	if name != filepath.Base(name) || !strings.HasSuffix(name, ".zip") {
		return nil, ErrArchiveNotFound
	}
	f, err := os.Open(filepath.Join(s.exportDir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrArchiveNotFound
	}
	return f, err
}
