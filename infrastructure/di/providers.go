package di

import (
	"context"
	"fmt"
	"net/http"

	"postgraph/application/ports"
	"postgraph/application/services"
	"postgraph/infrastructure/config"
	"postgraph/infrastructure/messaging/eventbridge"
	"postgraph/infrastructure/persistence/dynamodb"
	graphqlapi "postgraph/interfaces/graphql"
	"postgraph/interfaces/http/rest"
	"postgraph/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	DynamoDB       dynamodb.API
	PostRepository ports.PostRepository
	StorePinger    ports.StorePinger
	EventPublisher ports.EventPublisher
	Metrics        *observability.Metrics
	Tracer         *observability.Tracer
	PostService    *services.PostService
	Router         *rest.Router
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if level, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = level
	}

	return zapCfg.Build()
}

// ProvideAWSConfig creates AWS configuration. When DYNAMODB_ENDPOINT points
// at a local emulator, static credentials stand in for a real identity; the
// emulator accepts any signed request.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.DynamoDBEndpoint != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, err
	}

	if cfg.EnableTracing {
		observability.InstrumentAWSClients(&awsCfg)
	}

	return awsCfg, nil
}

// ProvideDynamoDBClient creates a DynamoDB client, pointed at the local
// emulator when an endpoint override is configured
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvidePostRepository creates the posts table repository
func ProvidePostRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) *dynamodb.PostRepository {
	return dynamodb.NewPostRepository(client, cfg.TableName, logger)
}

// ProvideEventPublisher creates the lifecycle event publisher. Without a
// configured bus name events are dropped rather than sent.
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return eventbridge.NewNopPublisher()
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetrics creates the metrics sink. With metrics disabled the sink
// carries no client and every record call is a no-op.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	namespace := fmt.Sprintf("Postgraph/%s", cfg.Environment)
	if !cfg.EnableMetrics {
		return observability.NewMetrics(namespace, nil)
	}
	return observability.NewMetrics(namespace, client)
}

// ProvideTracer creates the subsegment tracer. Without tracing enabled it is
// nil and every capture runs its callback directly.
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	if !cfg.EnableTracing {
		return nil
	}
	return observability.NewTracer("postgraph")
}

// ProvideSchema builds the executable GraphQL schema
func ProvideSchema(service *services.PostService, metrics *observability.Metrics, tracer *observability.Tracer, logger *zap.Logger) (graphql.Schema, error) {
	return graphqlapi.NewSchema(service, metrics, tracer, logger)
}

// ProvideGraphQLHandler wraps the schema in its HTTP handler; GraphiQL is
// served only in development
func ProvideGraphQLHandler(schema graphql.Schema, cfg *config.Config, logger *zap.Logger) http.Handler {
	return graphqlapi.NewHTTPHandler(schema, logger, cfg.IsDevelopment())
}

// ProvideRouter creates the HTTP router
func ProvideRouter(graphqlHandler http.Handler, pinger ports.StorePinger, cfg *config.Config, logger *zap.Logger) *rest.Router {
	return rest.NewRouter(graphqlHandler, pinger, cfg, logger)
}
