package dynamodb

import (
	"context"
	"errors"

	"postgraph/application/ports"
	"postgraph/domain/post"
	apperrors "postgraph/pkg/errors"
	"postgraph/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// CodeStoreUnavailable marks errors caused by the backing table rather than
// the request contents. The GraphQL layer forwards it in error extensions.
const CodeStoreUnavailable = "STORE_UNAVAILABLE"

// PostRepository implements post persistence on a single DynamoDB table
// keyed by id. Every method issues exactly one DynamoDB call.
type PostRepository struct {
	client    API
	tableName string
	logger    *zap.Logger
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(client API, tableName string, logger *zap.Logger) *PostRepository {
	return &PostRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

var (
	_ ports.PostRepository = (*PostRepository)(nil)
	_ ports.StorePinger    = (*PostRepository)(nil)
)

// postItem represents the DynamoDB item structure for a post
type postItem struct {
	ID        string `dynamodbav:"id"`
	Title     string `dynamodbav:"title"`
	Content   string `dynamodbav:"content"`
	CreatedAt string `dynamodbav:"createdAt,omitempty"`
	UpdatedAt string `dynamodbav:"updatedAt,omitempty"`
}

func newPostItem(p *post.Post) postItem {
	return postItem{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: utils.FormatRFC3339(p.CreatedAt),
		UpdatedAt: utils.FormatRFC3339(p.UpdatedAt),
	}
}

func (i postItem) toPost() *post.Post {
	p := &post.Post{
		ID:      i.ID,
		Title:   i.Title,
		Content: i.Content,
	}
	if t, err := utils.ParseRFC3339(i.CreatedAt); err == nil {
		p.CreatedAt = t
	}
	if t, err := utils.ParseRFC3339(i.UpdatedAt); err == nil {
		p.UpdatedAt = t
	}
	return p
}

func postKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

// ListAll returns every post via a single Scan page. The table is expected
// to stay small; if it ever outgrows one page the truncation is logged, not
// silently paginated over, so the limitation stays visible.
func (r *PostRepository) ListAll(ctx context.Context) ([]*post.Post, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, r.storeError("Scan", err)
	}

	if len(out.LastEvaluatedKey) > 0 {
		r.logger.Warn("scan returned a partial page, table exceeds the single-page design limit",
			zap.String("table", r.tableName),
			zap.Int32("scannedCount", out.ScannedCount),
		)
	}

	items := make([]postItem, 0, len(out.Items))
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, apperrors.Wrap(err, "unmarshal posts")
	}

	posts := make([]*post.Post, 0, len(items))
	for _, item := range items {
		posts = append(posts, item.toPost())
	}

	r.logger.Debug("posts listed",
		zap.String("table", r.tableName),
		zap.Int("count", len(posts)),
	)
	return posts, nil
}

// Save persists a new post
func (r *PostRepository) Save(ctx context.Context, p *post.Post) error {
	av, err := attributevalue.MarshalMap(newPostItem(p))
	if err != nil {
		return apperrors.Wrap(err, "marshal post")
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		return r.storeError("PutItem", err)
	}

	r.logger.Info("post saved",
		zap.String("postID", p.ID),
		zap.String("table", r.tableName),
	)
	return nil
}

// Update rewrites title and content for the given id and returns the stored
// state. This is deliberately an upsert: UpdateItem without a condition
// creates the item when the id is unknown, and if_not_exists keeps an
// existing createdAt while stamping a fresh one otherwise. Switching to a
// strict not-found policy would mean adding a ConditionExpression here and
// mapping ConditionalCheckFailedException to a NOT_FOUND error.
func (r *PostRepository) Update(ctx context.Context, p *post.Post) (*post.Post, error) {
	stamp := utils.FormatRFC3339(p.UpdatedAt)

	update := expression.
		Set(expression.Name("title"), expression.Value(p.Title)).
		Set(expression.Name("content"), expression.Value(p.Content)).
		Set(expression.Name("updatedAt"), expression.Value(stamp)).
		Set(expression.Name("createdAt"),
			expression.IfNotExists(expression.Name("createdAt"), expression.Value(stamp)))

	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return nil, apperrors.Wrap(err, "build update expression")
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       postKey(p.ID),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, r.storeError("UpdateItem", err)
	}

	var item postItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return nil, apperrors.Wrap(err, "unmarshal updated post")
	}

	r.logger.Info("post updated",
		zap.String("postID", p.ID),
		zap.String("table", r.tableName),
	)
	return item.toPost(), nil
}

// Delete removes a post. DeleteItem succeeds whether or not the key exists,
// which makes deletes idempotent; callers get no existence signal back.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       postKey(id),
	})
	if err != nil {
		return r.storeError("DeleteItem", err)
	}

	r.logger.Info("post deleted",
		zap.String("postID", id),
		zap.String("table", r.tableName),
	)
	return nil
}

// Ping verifies the table is reachable and active
func (r *PostRepository) Ping(ctx context.Context) error {
	out, err := r.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return r.storeError("DescribeTable", err)
	}
	if out.Table == nil || out.Table.TableStatus != types.TableStatusActive {
		return apperrors.NewUnavailableError(r.tableName).WithCode(CodeStoreUnavailable)
	}
	return nil
}

// storeError classifies a failed DynamoDB call. Everything reaching here has
// already passed argument validation, so the cause is store-side: missing
// table, throttling, networking, expired context.
func (r *PostRepository) storeError(operation string, err error) error {
	r.logger.Error("dynamodb call failed",
		zap.String("operation", operation),
		zap.String("table", r.tableName),
		zap.Error(err),
	)

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperrors.NewTimeoutError(operation).
			WithCode(CodeStoreUnavailable).
			WithCause(err)
	}

	var rnf *types.ResourceNotFoundException
	if errors.As(err, &rnf) {
		return apperrors.NewUnavailableError(r.tableName).
			WithCode(CodeStoreUnavailable).
			WithCause(err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apperrors.NewDatabaseError(operation, err).
			WithCode(CodeStoreUnavailable).
			WithDetails(map[string]interface{}{"awsErrorCode": apiErr.ErrorCode()})
	}

	return apperrors.NewDatabaseError(operation, err).WithCode(CodeStoreUnavailable)
}
