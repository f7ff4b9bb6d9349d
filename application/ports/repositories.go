package ports

import (
	"context"

	"postgraph/domain/events"
	"postgraph/domain/post"
)

// PostRepository defines the interface for post persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type PostRepository interface {
	// ListAll retrieves every post in the table
	ListAll(ctx context.Context) ([]*post.Post, error)

	// Save persists a new post
	Save(ctx context.Context, p *post.Post) error

	// Update rewrites a post's fields and returns the stored state.
	// Missing ids are created (upsert semantics).
	Update(ctx context.Context, p *post.Post) (*post.Post, error)

	// Delete removes a post; deleting an absent id is not an error
	Delete(ctx context.Context, id string) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single domain event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple domain events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// StorePinger reports whether the backing store is reachable.
// The readiness endpoint depends on it.
type StorePinger interface {
	Ping(ctx context.Context) error
}
