package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ericfisherdev/blogpages/internal/domain/model"
	"github.com/ericfisherdev/blogpages/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.PostStore = (*PostRepo)(nil)

// PostRepo is the SQLite implementation of the PostStore port.
type PostRepo struct {
	db *DB
}

// NewPostRepo creates a new PostRepo backed by the given DB.
func NewPostRepo(db *DB) *PostRepo {
	return &PostRepo{db: db}
}

const postColumns = `id, title, markdown_content, rendered_content, created_at, updated_at`

// ListAll returns every post ordered by ID.
func (r *PostRepo) ListAll(ctx context.Context) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY id`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return scanPosts(rows)
}

// ListSince returns posts created or updated at or after epoch, ordered by ID.
func (r *PostRepo) ListSince(ctx context.Context, epoch int64) ([]model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts
		WHERE created_at >= ? OR (updated_at IS NOT NULL AND updated_at >= ?)
		ORDER BY id`

	rows, err := r.db.Reader.QueryContext(ctx, query, epoch, epoch)
	if err != nil {
		return nil, fmt.Errorf("list posts since %d: %w", epoch, err)
	}
	return scanPosts(rows)
}

// Save inserts or replaces a post. Post authoring lives outside this
// service; Save seeds the table for imports and tests.
func (r *PostRepo) Save(ctx context.Context, p model.Post) error {
	const query = `
		INSERT INTO posts (id, title, markdown_content, rendered_content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			markdown_content = excluded.markdown_content,
			rendered_content = excluded.rendered_content,
			updated_at = excluded.updated_at
	`

	var updatedAt sql.NullInt64
	if p.UpdatedAt != nil {
		updatedAt = sql.NullInt64{Int64: p.UpdatedAt.Unix(), Valid: true}
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		p.ID, p.Title, p.MarkdownContent, p.RenderedContent, p.CreatedAt.Unix(), updatedAt,
	)
	if err != nil {
		return fmt.Errorf("save post %d: %w", p.ID, err)
	}
	return nil
}

func scanPosts(rows *sql.Rows) ([]model.Post, error) {
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var (
			p         model.Post
			createdAt int64
			updatedAt sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.MarkdownContent, &p.RenderedContent, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		p.CreatedAt = time.Unix(createdAt, 0).UTC()
		if updatedAt.Valid {
			t := time.Unix(updatedAt.Int64, 0).UTC()
			p.UpdatedAt = &t
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	return posts, nil
}
