package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/blogpages/internal/domain/model"
	"github.com/ericfisherdev/blogpages/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SettingStore = (*SettingsRepo)(nil)

// SettingsRepo is the SQLite implementation of the SettingStore port.
// Timestamps are stored as Unix seconds.
type SettingsRepo struct {
	db  *DB
	now func() time.Time
}

// NewSettingsRepo creates a new SettingsRepo backed by the given DB.
func NewSettingsRepo(db *DB) *SettingsRepo {
	return &SettingsRepo{db: db, now: time.Now}
}

// Get retrieves a setting by item name. Returns (nil, nil) if it does not exist.
func (r *SettingsRepo) Get(ctx context.Context, item string) (*model.Setting, error) {
	const query = `SELECT item, content, created_at, updated_at FROM settings WHERE item = ?`

	var (
		s                    model.Setting
		createdAt, updatedAt int64
	)
	err := r.db.Reader.QueryRowContext(ctx, query, item).Scan(&s.Item, &s.Content, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get setting %q: %w", item, err)
	}

	s.CreatedAt = time.Unix(createdAt, 0).UTC()
	s.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &s, nil
}

// Set inserts or replaces the content of a setting. created_at is kept on
// update.
func (r *SettingsRepo) Set(ctx context.Context, item, content string) error {
	const query = `
		INSERT INTO settings (item, content, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(item) DO UPDATE SET
			content = excluded.content,
			updated_at = excluded.updated_at
	`

	now := r.now().Unix()
	if _, err := r.db.Writer.ExecContext(ctx, query, item, content, now, now); err != nil {
		return fmt.Errorf("set setting %q: %w", item, err)
	}
	return nil
}

// Delete removes a setting. Deleting an absent item is not an error.
func (r *SettingsRepo) Delete(ctx context.Context, item string) error {
	const query = `DELETE FROM settings WHERE item = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("delete setting %q: %w", item, err)
	}
	return nil
}
