//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"postgraph/application/ports"
	"postgraph/application/services"
	"postgraph/infrastructure/config"
	"postgraph/infrastructure/persistence/dynamodb"

	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvidePostRepository,
	ProvideEventPublisher,
	ProvideMetrics,
	ProvideTracer,
	services.NewPostService,
	ProvideSchema,
	ProvideGraphQLHandler,
	ProvideRouter,
	wire.Bind(new(dynamodb.API), new(*awsdynamodb.Client)),
	wire.Bind(new(ports.PostRepository), new(*dynamodb.PostRepository)),
	wire.Bind(new(ports.StorePinger), new(*dynamodb.PostRepository)),
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
