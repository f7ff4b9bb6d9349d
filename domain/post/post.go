package post

import (
	"time"

	"github.com/google/uuid"
)

// Post is the single entity this service stores. All three fields are part
// of the public GraphQL contract; the timestamps are exposed as optional
// fields and maintained by the storage layer on writes.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New creates a Post with a random 128-bit id. Random ids keep concurrent
// creates collision-free regardless of clock resolution. Empty title or
// content is allowed; the API boundary enforces presence and type only.
func New(title, content string) *Post {
	now := time.Now().UTC()
	return &Post{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch replaces both writable fields and bumps UpdatedAt. An update always
// carries the full field set, so there is no partial merge to worry about.
func (p *Post) Touch(title, content string) {
	p.Title = title
	p.Content = content
	p.UpdatedAt = time.Now().UTC()
}
