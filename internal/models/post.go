package models

import "time"

// DefaultPostName is the display name used when a poster leaves the name
// field empty.
const DefaultPostName = "名無しさん"

// Post is a single reply within a thread, optionally carrying one file
// attachment. AuthorID is an opaque client-generated token used only for
// ownership checks on edit and delete; it is never verified beyond string
// equality.
type Post struct {
	ID             int64     `json:"id"`
	ThreadID       int64     `json:"thread_id"`
	Name           string    `json:"name"`
	Content        string    `json:"content"`
	AuthorID       *string   `json:"author_id"`
	AttachmentURL  *string   `json:"attachment_url"`
	AttachmentName *string   `json:"attachment_name"`
	AttachmentType *string   `json:"attachment_type"`
	CreatedAt      time.Time `json:"created_at"`
}

// HasAttachment returns true if the post carries an attached file.
func (p *Post) HasAttachment() bool {
	return p.AttachmentURL != nil && *p.AttachmentURL != ""
}

// OwnedBy reports whether authorID matches the post's stored author token.
// Posts stored without an author token are owned by nobody: they can never
// be edited or deleted through the API.
func (p *Post) OwnedBy(authorID string) bool {
	return p.AuthorID != nil && authorID != "" && *p.AuthorID == authorID
}
