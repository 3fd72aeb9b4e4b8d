// Package models defines the value types shared between the store and
// handler layers: discussion threads and the posts that belong to them.
package models

import "time"

// DefaultCategory is assigned to threads created without a category.
const DefaultCategory = "雑談"

// Thread is a top-level discussion topic. Display order on the board is
// controlled by Position (ascending), not by creation time.
type Thread struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	AuthorID  *string   `json:"author_id"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`

	// Count is the live number of posts in the thread. It is computed by
	// the directory listing query and is zero elsewhere.
	Count int `json:"count"`
}
