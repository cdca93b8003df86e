package model

import "time"

// Setting is a single named record in the settings table. Content is opaque
// to the store; callers own its encoding.
type Setting struct {
	Item      string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
