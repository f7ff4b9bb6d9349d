package dynamodb

import (
	"context"
	"errors"
	"time"

	apperrors "postgraph/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// EnsureTable verifies the posts table exists before serving traffic. With
// createIfMissing set (the local development path against DynamoDB Local) a
// missing table is created with id as the partition key and on-demand
// billing, then waited on until active. In deployed environments the table
// comes from infrastructure templates and a missing table is an error.
func EnsureTable(ctx context.Context, client API, tableName string, createIfMissing bool, logger *zap.Logger) error {
	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	})
	if err == nil {
		return nil
	}

	var rnf *types.ResourceNotFoundException
	if !errors.As(err, &rnf) {
		return apperrors.NewDatabaseError("DescribeTable", err).WithCode(CodeStoreUnavailable)
	}
	if !createIfMissing {
		return apperrors.NewUnavailableError(tableName).
			WithCode(CodeStoreUnavailable).
			WithCause(err)
	}

	logger.Info("creating posts table", zap.String("table", tableName))

	_, err = client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(tableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{
				AttributeName: aws.String("id"),
				AttributeType: types.ScalarAttributeTypeS,
			},
		},
		KeySchema: []types.KeySchemaElement{
			{
				AttributeName: aws.String("id"),
				KeyType:       types.KeyTypeHash,
			},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return apperrors.NewDatabaseError("CreateTable", err).WithCode(CodeStoreUnavailable)
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tableName)}, 2*time.Minute); err != nil {
		return apperrors.NewTimeoutError("TableExistsWaiter").WithCause(err)
	}

	logger.Info("posts table active", zap.String("table", tableName))
	return nil
}
