package model

import "time"

// Post is a persisted blog post. ID is a snowflake identifier: unique and
// roughly time-ordered, used as the export file name.
type Post struct {
	ID              int64
	Title           string
	MarkdownContent string
	RenderedContent string
	CreatedAt       time.Time
	UpdatedAt       *time.Time // nil until the post is first edited.
}

// TouchedSince reports whether the post was created or updated at or after
// the given Unix epoch in seconds.
func (p Post) TouchedSince(epoch int64) bool {
	if p.CreatedAt.Unix() >= epoch {
		return true
	}
	return p.UpdatedAt != nil && p.UpdatedAt.Unix() >= epoch
}
