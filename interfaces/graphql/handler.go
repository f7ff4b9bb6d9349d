package graphql

import (
	"context"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
	"go.uber.org/zap"
)

// NewHTTPHandler wraps the schema in the standard GraphQL HTTP handler.
// Execution failures ride inside a 200 response per the GraphQL convention;
// this layer only logs them. With graphiql set (development), GET serves the
// GraphiQL console and responses are pretty-printed.
func NewHTTPHandler(schema graphql.Schema, logger *zap.Logger, graphiql bool) http.Handler {
	return handler.New(&handler.Config{
		Schema:   &schema,
		Pretty:   graphiql,
		GraphiQL: graphiql,
		ResultCallbackFn: func(ctx context.Context, params *graphql.Params, result *graphql.Result, _ []byte) {
			if result == nil || !result.HasErrors() {
				return
			}
			for _, gqlErr := range result.Errors {
				logger.Warn("graphql request completed with errors",
					zap.String("operation", params.OperationName),
					zap.String("message", gqlErr.Message),
				)
			}
		},
	})
}
