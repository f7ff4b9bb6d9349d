package services

import (
	"context"
	"time"

	"postgraph/application/ports"
	"postgraph/domain/events"
	"postgraph/domain/post"

	"go.uber.org/zap"
)

// PostService coordinates post persistence and domain event publishing.
// It is the single entry point the GraphQL resolvers talk to.
type PostService struct {
	repo      ports.PostRepository
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewPostService creates a new post service
func NewPostService(repo ports.PostRepository, publisher ports.EventPublisher, logger *zap.Logger) *PostService {
	return &PostService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// ListAll returns every stored post
func (s *PostService) ListAll(ctx context.Context) ([]*post.Post, error) {
	posts, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("listed posts", zap.Int("count", len(posts)))
	return posts, nil
}

// Create stores a new post under a fresh random id. Empty title or content
// is allowed; presence of the arguments is the resolvers' concern.
func (s *PostService) Create(ctx context.Context, title, content string) (*post.Post, error) {
	p := post.New(title, content)

	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("post created", zap.String("postID", p.ID))
	s.publish(ctx, events.NewPostCreated(p))
	return p, nil
}

// Update rewrites a post's title and content and returns the stored state.
// Unknown ids are created rather than rejected, matching the repository's
// upsert semantics.
func (s *PostService) Update(ctx context.Context, id, title, content string) (*post.Post, error) {
	p := &post.Post{ID: id}
	p.Touch(title, content)

	stored, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, err
	}

	s.logger.Info("post updated", zap.String("postID", id))
	s.publish(ctx, events.NewPostUpdated(stored))
	return stored, nil
}

// Delete removes a post and returns the id it was asked to remove. Deleting
// an id that never existed succeeds; the operation is idempotent.
func (s *PostService) Delete(ctx context.Context, id string) (string, error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		return "", err
	}

	s.logger.Info("post deleted", zap.String("postID", id))
	s.publish(ctx, events.NewPostDeleted(id, time.Now().UTC()))
	return id, nil
}

// publish sends a domain event without letting a broker problem fail the
// mutation that already committed. Failures are logged and dropped.
func (s *PostService) publish(ctx context.Context, event events.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("domain event publish failed",
			zap.String("eventType", event.GetEventType()),
			zap.String("aggregateID", event.GetAggregateID()),
			zap.Error(err),
		)
	}
}
