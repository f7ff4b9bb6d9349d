package events

import (
	"time"

	"postgraph/domain/post"
)

// Source identifies this service on the event bus
const Source = "postgraph"

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Post Events

// PostCreated is raised when a new post is stored
type PostCreated struct {
	BaseEvent
	PostID string `json:"post_id"`
	Title  string `json:"title"`
}

// NewPostCreated creates a PostCreated event
func NewPostCreated(p *post.Post) PostCreated {
	return PostCreated{
		BaseEvent: BaseEvent{
			AggregateID: p.ID,
			EventType:   "post.created",
			Timestamp:   p.CreatedAt,
			Version:     1,
		},
		PostID: p.ID,
		Title:  p.Title,
	}
}

// PostUpdated is raised when a post is rewritten. Updates are upserts, so
// this event also fires for ids that did not previously exist.
type PostUpdated struct {
	BaseEvent
	PostID string `json:"post_id"`
	Title  string `json:"title"`
}

// NewPostUpdated creates a PostUpdated event
func NewPostUpdated(p *post.Post) PostUpdated {
	return PostUpdated{
		BaseEvent: BaseEvent{
			AggregateID: p.ID,
			EventType:   "post.updated",
			Timestamp:   p.UpdatedAt,
			Version:     1,
		},
		PostID: p.ID,
		Title:  p.Title,
	}
}

// PostDeleted is raised when a delete is issued for an id, whether or not
// the item existed
type PostDeleted struct {
	BaseEvent
	PostID string `json:"post_id"`
}

// NewPostDeleted creates a PostDeleted event
func NewPostDeleted(id string, timestamp time.Time) PostDeleted {
	return PostDeleted{
		BaseEvent: BaseEvent{
			AggregateID: id,
			EventType:   "post.deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		PostID: id,
	}
}
