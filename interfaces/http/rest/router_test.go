package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"postgraph/application/ports"
	"postgraph/application/services"
	"postgraph/infrastructure/config"
	persistence "postgraph/infrastructure/persistence/dynamodb"
	"postgraph/infrastructure/persistence/dynamodb/ddbtest"
	graphqlapi "postgraph/interfaces/graphql"

	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error { return s.err }

func testConfig() *config.Config {
	return &config.Config{
		ServerAddress: ":8080",
		Environment:   "development",
		AWSRegion:     "us-east-1",
		TableName:     "posts",
		LogLevel:      "info",
		EnableCORS:    true,
	}
}

// newTestRouter assembles the real stack over the in-memory store: upstream
// repository, service, schema, HTTP handler, chi router.
func newTestRouter(t *testing.T, pinger ports.StorePinger) (http.Handler, *ddbtest.Client) {
	t.Helper()

	store := ddbtest.New("posts")
	repo := persistence.NewPostRepository(store, "posts", zap.NewNop())
	svc := services.NewPostService(repo, nil, zap.NewNop())

	schema, err := graphqlapi.NewSchema(svc, nil, nil, zap.NewNop())
	require.NoError(t, err)
	gql := graphqlapi.NewHTTPHandler(schema, zap.NewNop(), false)

	if pinger == nil {
		pinger = repo
	}
	return NewRouter(gql, pinger, testConfig(), zap.NewNop()).Setup(), store
}

type graphqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func postGraphQL(t *testing.T, handler http.Handler, path, query string) (*httptest.ResponseRecorder, graphqlResponse) {
	t.Helper()

	body, err := json.Marshal(map[string]string{"query": query})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var resp graphqlResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestHealthEndpoint(t *testing.T) {
	handler, _ := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestReadyEndpoint_StoreReachable(t *testing.T) {
	handler, _ := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())
}

func TestReadyEndpoint_StoreUnreachable(t *testing.T) {
	handler, _ := newTestRouter(t, stubPinger{err: fmt.Errorf("no route to host")})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
}

func TestGraphQLEndpoint_Query(t *testing.T) {
	handler, _ := newTestRouter(t, nil)

	rec, resp := postGraphQL(t, handler, "/graphql", `{ getAllPosts { id } }`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp.Errors)
	assert.JSONEq(t, `[]`, string(resp.Data["getAllPosts"]))
}

func TestGraphQLEndpoint_MutationRoundTrip(t *testing.T) {
	handler, _ := newTestRouter(t, nil)

	rec, resp := postGraphQL(t, handler, "/graphql",
		`mutation { createPost(title: "over http", content: "body") { id title content } }`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, resp.Errors)

	var created struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["createPost"], &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "over http", created.Title)

	_, resp = postGraphQL(t, handler, "/graphql", `{ getAllPosts { id title content } }`)
	require.Empty(t, resp.Errors)

	var posts []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data["getAllPosts"], &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, created.ID, posts[0].ID)
}

func TestGraphQLEndpoint_WildcardSubPath(t *testing.T) {
	handler, _ := newTestRouter(t, nil)

	rec, resp := postGraphQL(t, handler, "/graphql/anything", `{ getAllPosts { id } }`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp.Errors)
}

func TestGraphQLEndpoint_StoreErrorStaysHTTP200(t *testing.T) {
	handler, store := newTestRouter(t, nil)

	store.ScanOverride = func(context.Context, *awsdynamodb.ScanInput, ...func(*awsdynamodb.Options)) (*awsdynamodb.ScanOutput, error) {
		return nil, fmt.Errorf("connection refused")
	}

	rec, resp := postGraphQL(t, handler, "/graphql", `{ getAllPosts { id } }`)
	assert.Equal(t, http.StatusOK, rec.Code, "store failures ride inside the GraphQL envelope")
	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, resp.Errors[0].Message, "Scan")
}

func TestGraphQLEndpoint_ValidationErrorStaysHTTP200(t *testing.T) {
	handler, _ := newTestRouter(t, nil)

	rec, resp := postGraphQL(t, handler, "/graphql", `mutation { createPost(title: "solo") { id } }`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, resp.Errors)
}

func TestCORSPreflight(t *testing.T) {
	handler, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/graphql", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
