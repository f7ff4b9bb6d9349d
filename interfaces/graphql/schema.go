package graphql

import (
	"context"
	"time"

	"postgraph/application/services"
	"postgraph/domain/post"
	"postgraph/pkg/observability"
	"postgraph/pkg/utils"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

// resolvers binds the schema's fields to the post service. The executor has
// already validated argument presence and types by the time a resolver runs,
// so the type assertions on Args cannot fail.
type resolvers struct {
	service *services.PostService
	metrics *observability.Metrics
	tracer  *observability.Tracer
	logger  *zap.Logger
}

// NewSchema builds the executable schema: one query (getAllPosts) and three
// mutations (createPost, updatePost, deletePost) over the Post type. A nil
// tracer or metrics sink disables that concern without changing behavior.
func NewSchema(service *services.PostService, metrics *observability.Metrics, tracer *observability.Tracer, logger *zap.Logger) (graphql.Schema, error) {
	r := &resolvers{service: service, metrics: metrics, tracer: tracer, logger: logger}

	postType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
			},
			"title": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
			},
			"content": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
			},
			// Timestamps are additive: stored on every item but optional in
			// the schema, so clients written against the id/title/content
			// trio keep working.
			"createdAt": &graphql.Field{
				Type:    graphql.String,
				Resolve: timestampResolver(func(p *post.Post) time.Time { return p.CreatedAt }),
			},
			"updatedAt": &graphql.Field{
				Type:    graphql.String,
				Resolve: timestampResolver(func(p *post.Post) time.Time { return p.UpdatedAt }),
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"getAllPosts": &graphql.Field{
				Type:    graphql.NewList(postType),
				Resolve: r.instrument("getAllPosts", r.getAllPosts),
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createPost": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"title":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"content": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.instrument("createPost", r.createPost),
			},
			"updatePost": &graphql.Field{
				Type: postType,
				Args: graphql.FieldConfigArgument{
					"id":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"title":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"content": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.instrument("updatePost", r.updatePost),
			},
			"deletePost": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.instrument("deletePost", r.deletePost),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

func (r *resolvers) getAllPosts(p graphql.ResolveParams) (interface{}, error) {
	return r.service.ListAll(p.Context)
}

func (r *resolvers) createPost(p graphql.ResolveParams) (interface{}, error) {
	title := p.Args["title"].(string)
	content := p.Args["content"].(string)
	return r.service.Create(p.Context, title, content)
}

func (r *resolvers) updatePost(p graphql.ResolveParams) (interface{}, error) {
	id := p.Args["id"].(string)
	title := p.Args["title"].(string)
	content := p.Args["content"].(string)
	return r.service.Update(p.Context, id, title, content)
}

func (r *resolvers) deletePost(p graphql.ResolveParams) (interface{}, error) {
	return r.service.Delete(p.Context, p.Args["id"].(string))
}

// instrument wraps a resolver with an X-Ray subsegment, latency/outcome
// metrics and error logging. Service errors still propagate so the executor
// renders them in the response's errors member.
func (r *resolvers) instrument(operation string, fn graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		start := time.Now()

		var out interface{}
		err := r.tracer.Capture(p.Context, operation, func(ctx context.Context) error {
			p.Context = ctx
			var resolveErr error
			out, resolveErr = fn(p)
			return resolveErr
		})

		r.metrics.RecordOperation(p.Context, operation, time.Since(start), err)
		if err != nil {
			r.tracer.RecordError(p.Context, err)
			r.logger.Error("graphql operation failed",
				zap.String("operation", operation),
				zap.Error(err),
			)
		}
		return out, err
	}
}

func timestampResolver(field func(*post.Post) time.Time) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		pst, ok := p.Source.(*post.Post)
		if !ok {
			return nil, nil
		}
		t := field(pst)
		if t.IsZero() {
			return nil, nil
		}
		return utils.FormatRFC3339(t), nil
	}
}
