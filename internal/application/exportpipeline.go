package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ericfisherdev/blogpages/internal/domain/model"
	"github.com/ericfisherdev/blogpages/internal/domain/port/driven"
)

// ExportResult summarizes one export pass.
type ExportResult struct {
	Written []string // file names, relative to the destination directory
	Skipped int      // posts whose rendering failed
}

// ExportPipeline writes one rendered file per post into a directory.
type ExportPipeline struct {
	posts    driven.PostStore
	renderer *Renderer
	template model.TemplateKind
	logger   *slog.Logger
}

// NewExportPipeline creates an ExportPipeline rendering with the given
// template variant.
func NewExportPipeline(posts driven.PostStore, renderer *Renderer, template model.TemplateKind, logger *slog.Logger) *ExportPipeline {
	return &ExportPipeline{
		posts:    posts,
		renderer: renderer,
		template: template,
		logger:   logger,
	}
}

// ExportAll writes every post into dir.
func (p *ExportPipeline) ExportAll(ctx context.Context, dir string) (ExportResult, error) {
	posts, err := p.posts.ListAll(ctx)
	if err != nil {
		return ExportResult{}, storageErr("list posts", err)
	}
	return p.write(dir, posts)
}

// ExportSince writes posts created or updated at or after cutoff (Unix
// seconds) into dir.
func (p *ExportPipeline) ExportSince(ctx context.Context, dir string, cutoff int64) (ExportResult, error) {
	posts, err := p.posts.ListSince(ctx, cutoff)
	if err != nil {
		return ExportResult{}, storageErr(fmt.Sprintf("list posts since %d", cutoff), err)
	}
	return p.write(dir, posts)
}

// write renders and writes posts. Existing files are truncated and
// overwritten. The first write error aborts the pass and leaves any files
// already written in place.
func (p *ExportPipeline) write(dir string, posts []model.Post) (ExportResult, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ExportResult{}, fmt.Errorf("%w: create %s: %w", ErrExportIO, dir, err)
	}

	result := ExportResult{Written: make([]string, 0, len(posts))}
	err := p.each(posts, func(name, content string) error {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			return fmt.Errorf("%w: write %s: %w", ErrExportIO, name, err)
		}
		result.Written = append(result.Written, name)
		return nil
	}, &result.Skipped)
	if err != nil {
		return result, err
	}

	p.logger.Info("posts exported", "dir", dir, "written", len(result.Written), "skipped", result.Skipped)
	return result, nil
}

// each renders every post and hands the file name and content to emit.
// Render failures are logged and counted in skipped; emit errors stop the
// loop.
func (p *ExportPipeline) each(posts []model.Post, emit func(name, content string) error, skipped *int) error {
	for _, post := range posts {
		content, err := p.renderer.Render(post, p.template)
		if err != nil {
			p.logger.Error("failed to render post", "post_id", post.ID, "template", p.template, "error", err)
			*skipped++
			continue
		}
		if err := emit(p.template.FileName(post.ID), content); err != nil {
			return err
		}
	}
	return nil
}
