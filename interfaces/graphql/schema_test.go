package graphql

import (
	"context"
	"fmt"
	"testing"

	"postgraph/application/services"
	persistence "postgraph/infrastructure/persistence/dynamodb"
	"postgraph/infrastructure/persistence/dynamodb/ddbtest"
	"postgraph/pkg/observability"

	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testTable = "posts"

func newTestSchema(t *testing.T) (graphql.Schema, *ddbtest.Client) {
	t.Helper()

	store := ddbtest.New(testTable)
	repo := persistence.NewPostRepository(store, testTable, zap.NewNop())
	svc := services.NewPostService(repo, nil, zap.NewNop())

	schema, err := NewSchema(svc, nil, nil, zap.NewNop())
	require.NoError(t, err)
	return schema, store
}

func execute(t *testing.T, schema graphql.Schema, query string) *graphql.Result {
	t.Helper()
	return graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: query,
		Context:       context.Background(),
	})
}

func data(t *testing.T, result *graphql.Result) map[string]interface{} {
	t.Helper()
	require.False(t, result.HasErrors(), "unexpected errors: %v", result.Errors)
	m, ok := result.Data.(map[string]interface{})
	require.True(t, ok)
	return m
}

func listPosts(t *testing.T, schema graphql.Schema) []interface{} {
	t.Helper()
	result := execute(t, schema, `{ getAllPosts { id title content } }`)
	posts, ok := data(t, result)["getAllPosts"].([]interface{})
	require.True(t, ok)
	return posts
}

func TestGetAllPosts_EmptyTable(t *testing.T) {
	schema, _ := newTestSchema(t)

	posts := listPosts(t, schema)
	assert.Empty(t, posts)
}

func TestCreatePost_ThenList(t *testing.T) {
	schema, _ := newTestSchema(t)

	result := execute(t, schema,
		`mutation { createPost(title: "first", content: "hello") { id title content createdAt } }`)
	created, ok := data(t, result)["createPost"].(map[string]interface{})
	require.True(t, ok)

	assert.NotEmpty(t, created["id"])
	assert.Equal(t, "first", created["title"])
	assert.Equal(t, "hello", created["content"])
	assert.NotEmpty(t, created["createdAt"])

	posts := listPosts(t, schema)
	require.Len(t, posts, 1)
	got := posts[0].(map[string]interface{})
	assert.Equal(t, created["id"], got["id"])
	assert.Equal(t, "first", got["title"])
	assert.Equal(t, "hello", got["content"])
}

func TestCreatePost_MissingContentRejected(t *testing.T) {
	schema, store := newTestSchema(t)

	var puts int
	store.PutItemOverride = func(context.Context, *awsdynamodb.PutItemInput, ...func(*awsdynamodb.Options)) (*awsdynamodb.PutItemOutput, error) {
		puts++
		return nil, fmt.Errorf("store must not be reached")
	}

	result := execute(t, schema, `mutation { createPost(title: "first") { id } }`)
	assert.True(t, result.HasErrors())
	assert.Zero(t, puts, "executor must reject the request before any resolver runs")

	store.ResetOverrides()
	assert.Empty(t, listPosts(t, schema))
}

func TestCreatePost_AcceptsEmptyStrings(t *testing.T) {
	schema, _ := newTestSchema(t)

	result := execute(t, schema,
		`mutation { createPost(title: "", content: "") { id title content } }`)
	created := data(t, result)["createPost"].(map[string]interface{})

	assert.NotEmpty(t, created["id"])
	assert.Equal(t, "", created["title"])
	assert.Equal(t, "", created["content"])
}

func TestUpdatePost_RewritesExisting(t *testing.T) {
	schema, _ := newTestSchema(t)

	result := execute(t, schema,
		`mutation { createPost(title: "A", content: "B") { id } }`)
	id := data(t, result)["createPost"].(map[string]interface{})["id"].(string)

	result = execute(t, schema, fmt.Sprintf(
		`mutation { updatePost(id: %q, title: "A2", content: "B2") { id title content } }`, id))
	updated := data(t, result)["updatePost"].(map[string]interface{})
	assert.Equal(t, id, updated["id"])
	assert.Equal(t, "A2", updated["title"])
	assert.Equal(t, "B2", updated["content"])

	posts := listPosts(t, schema)
	require.Len(t, posts, 1)
	got := posts[0].(map[string]interface{})
	assert.Equal(t, id, got["id"])
	assert.Equal(t, "A2", got["title"])
	assert.Equal(t, "B2", got["content"])
}

func TestUpdatePost_UnknownIDCreates(t *testing.T) {
	schema, _ := newTestSchema(t)

	result := execute(t, schema,
		`mutation { updatePost(id: "ghost", title: "t", content: "c") { id title content } }`)
	updated := data(t, result)["updatePost"].(map[string]interface{})
	assert.Equal(t, "ghost", updated["id"])

	posts := listPosts(t, schema)
	require.Len(t, posts, 1)
	assert.Equal(t, "ghost", posts[0].(map[string]interface{})["id"])
}

func TestDeletePost_ReturnsIDAndIsIdempotent(t *testing.T) {
	schema, _ := newTestSchema(t)

	result := execute(t, schema,
		`mutation { createPost(title: "A", content: "B") { id } }`)
	id := data(t, result)["createPost"].(map[string]interface{})["id"].(string)

	deleteQuery := fmt.Sprintf(`mutation { deletePost(id: %q) }`, id)

	result = execute(t, schema, deleteQuery)
	assert.Equal(t, id, data(t, result)["deletePost"])
	assert.Empty(t, listPosts(t, schema))

	// Second delete of the same id succeeds identically.
	result = execute(t, schema, deleteQuery)
	assert.Equal(t, id, data(t, result)["deletePost"])
}

func TestResolvers_RunUnderTracer(t *testing.T) {
	store := ddbtest.New(testTable)
	repo := persistence.NewPostRepository(store, testTable, zap.NewNop())
	svc := services.NewPostService(repo, nil, zap.NewNop())

	// Outside a trace the tracer runs resolvers directly; operations must
	// behave identically with it attached.
	schema, err := NewSchema(svc, nil, observability.NewTracer("postgraph"), zap.NewNop())
	require.NoError(t, err)

	result := execute(t, schema,
		`mutation { createPost(title: "traced", content: "body") { id title } }`)
	created := data(t, result)["createPost"].(map[string]interface{})
	assert.Equal(t, "traced", created["title"])

	result = execute(t, schema, `{ getAllPosts { id } }`)
	posts := data(t, result)["getAllPosts"].([]interface{})
	assert.Len(t, posts, 1)
}

func TestStoreFailure_SurfacesAsGraphQLError(t *testing.T) {
	schema, store := newTestSchema(t)

	store.ScanOverride = func(context.Context, *awsdynamodb.ScanInput, ...func(*awsdynamodb.Options)) (*awsdynamodb.ScanOutput, error) {
		return nil, fmt.Errorf("connection refused")
	}

	result := execute(t, schema, `{ getAllPosts { id } }`)
	require.True(t, result.HasErrors())
	assert.Contains(t, result.Errors[0].Message, "Scan")
}
