// Package ddbtest provides an in-memory double for the DynamoDB operations
// postgraph uses. It backs repository, router and handler tests without a
// DynamoDB Local process.
package ddbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/btree"
)

// Client is an in-memory stand-in for *dynamodb.Client. Items live in a
// btree ordered by partition key, so Scan output is deterministic. Each
// operation has an Override hook for failure injection; when set, the hook
// fully replaces the built-in behavior for that call.
type Client struct {
	mu     sync.Mutex
	tables map[string]*table

	ScanOverride          func(context.Context, *dynamodb.ScanInput, ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	PutItemOverride       func(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItemOverride    func(context.Context, *dynamodb.UpdateItemInput, ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItemOverride    func(context.Context, *dynamodb.DeleteItemInput, ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	DescribeTableOverride func(context.Context, *dynamodb.DescribeTableInput, ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTableOverride   func(context.Context, *dynamodb.CreateTableInput, ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

type table struct {
	keyAttr string
	items   *btree.BTreeG[document]
}

type document struct {
	key   string
	value map[string]types.AttributeValue
}

func lessDocument(a, b document) bool { return a.key < b.key }

// New creates a Client with the named tables, each keyed by a string "id"
// attribute like the posts table.
func New(tableNames ...string) *Client {
	c := &Client{tables: make(map[string]*table)}
	for _, name := range tableNames {
		c.tables[name] = &table{
			keyAttr: "id",
			items:   btree.NewG(2, lessDocument),
		}
	}
	return c
}

// ResetOverrides clears all failure injection hooks.
func (c *Client) ResetOverrides() {
	c.ScanOverride = nil
	c.PutItemOverride = nil
	c.UpdateItemOverride = nil
	c.DeleteItemOverride = nil
	c.DescribeTableOverride = nil
	c.CreateTableOverride = nil
}

// Seed inserts items directly, bypassing PutItem and its override.
func (c *Client) Seed(tableName string, items ...map[string]types.AttributeValue) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.lookup(&tableName)
	if err != nil {
		return err
	}
	for _, item := range items {
		key, err := t.extractKey(item)
		if err != nil {
			return err
		}
		t.items.ReplaceOrInsert(document{key: key, value: cloneItem(item)})
	}
	return nil
}

func (c *Client) lookup(name *string) (*table, error) {
	if name == nil || *name == "" {
		return nil, fmt.Errorf("table name is required")
	}
	t, ok := c.tables[*name]
	if !ok {
		return nil, &types.ResourceNotFoundException{
			Message: aws.String(fmt.Sprintf("Requested resource not found: Table: %s not found", *name)),
		}
	}
	return t, nil
}

func (t *table) extractKey(item map[string]types.AttributeValue) (string, error) {
	av, ok := item[t.keyAttr]
	if !ok {
		return "", fmt.Errorf("partition key %q not found in item", t.keyAttr)
	}
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("partition key %q must be a string attribute", t.keyAttr)
	}
	return s.Value, nil
}

func (t *table) keyFrom(key map[string]types.AttributeValue) (string, error) {
	return t.extractKey(key)
}

func cloneItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

// Scan returns every item in key order on a single page.
func (c *Client) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if c.ScanOverride != nil {
		return c.ScanOverride(ctx, params, optFns...)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.lookup(params.TableName)
	if err != nil {
		return nil, err
	}

	items := make([]map[string]types.AttributeValue, 0, t.items.Len())
	t.items.Ascend(func(doc document) bool {
		items = append(items, cloneItem(doc.value))
		return true
	})

	return &dynamodb.ScanOutput{
		Items:        items,
		Count:        int32(len(items)),
		ScannedCount: int32(len(items)),
	}, nil
}

func (c *Client) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if c.PutItemOverride != nil {
		return c.PutItemOverride(ctx, params, optFns...)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.lookup(params.TableName)
	if err != nil {
		return nil, err
	}
	if params.Item == nil {
		return nil, fmt.Errorf("item is required")
	}
	key, err := t.extractKey(params.Item)
	if err != nil {
		return nil, err
	}

	t.items.ReplaceOrInsert(document{key: key, value: cloneItem(params.Item)})
	return &dynamodb.PutItemOutput{}, nil
}

// UpdateItem interprets the SET expressions the repository builds, including
// if_not_exists, and upserts missing keys exactly like the real service.
func (c *Client) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if c.UpdateItemOverride != nil {
		return c.UpdateItemOverride(ctx, params, optFns...)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.lookup(params.TableName)
	if err != nil {
		return nil, err
	}
	key, err := t.keyFrom(params.Key)
	if err != nil {
		return nil, err
	}

	item := map[string]types.AttributeValue{t.keyAttr: &types.AttributeValueMemberS{Value: key}}
	if doc, ok := t.items.Get(document{key: key}); ok {
		item = cloneItem(doc.value)
	}

	if params.UpdateExpression != nil {
		if err := applyUpdateExpression(*params.UpdateExpression, params.ExpressionAttributeNames, params.ExpressionAttributeValues, item); err != nil {
			return nil, err
		}
	}

	t.items.ReplaceOrInsert(document{key: key, value: item})

	out := &dynamodb.UpdateItemOutput{}
	if params.ReturnValues == types.ReturnValueAllNew {
		out.Attributes = cloneItem(item)
	}
	return out, nil
}

func (c *Client) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if c.DeleteItemOverride != nil {
		return c.DeleteItemOverride(ctx, params, optFns...)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.lookup(params.TableName)
	if err != nil {
		return nil, err
	}
	key, err := t.keyFrom(params.Key)
	if err != nil {
		return nil, err
	}

	// Deleting an absent key is not an error, matching DynamoDB.
	t.items.Delete(document{key: key})
	return &dynamodb.DeleteItemOutput{}, nil
}

func (c *Client) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if c.DescribeTableOverride != nil {
		return c.DescribeTableOverride(ctx, params, optFns...)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.lookup(params.TableName)
	if err != nil {
		return nil, err
	}

	return &dynamodb.DescribeTableOutput{
		Table: &types.TableDescription{
			TableName:   params.TableName,
			TableStatus: types.TableStatusActive,
			ItemCount:   aws.Int64(int64(t.items.Len())),
		},
	}, nil
}

func (c *Client) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	if c.CreateTableOverride != nil {
		return c.CreateTableOverride(ctx, params, optFns...)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if params.TableName == nil {
		return nil, fmt.Errorf("table name is required")
	}
	if _, ok := c.tables[*params.TableName]; ok {
		return nil, &types.ResourceInUseException{
			Message: aws.String(fmt.Sprintf("Table already exists: %s", *params.TableName)),
		}
	}

	keyAttr := "id"
	if len(params.KeySchema) > 0 && params.KeySchema[0].AttributeName != nil {
		keyAttr = *params.KeySchema[0].AttributeName
	}
	c.tables[*params.TableName] = &table{
		keyAttr: keyAttr,
		items:   btree.NewG(2, lessDocument),
	}

	return &dynamodb.CreateTableOutput{
		TableDescription: &types.TableDescription{
			TableName:   params.TableName,
			TableStatus: types.TableStatusActive,
		},
	}, nil
}

// applyUpdateExpression supports the subset of UpdateExpression grammar the
// repository emits: a single SET section whose operands are value
// placeholders, attribute names, or if_not_exists over those.
func applyUpdateExpression(exprStr string, names map[string]string, values map[string]types.AttributeValue, item map[string]types.AttributeValue) error {
	s := strings.TrimSpace(exprStr)
	if !strings.HasPrefix(s, "SET ") {
		return fmt.Errorf("unsupported update expression %q", exprStr)
	}

	for _, clause := range splitClauses(s[len("SET "):]) {
		parts := strings.SplitN(clause, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("malformed SET clause %q", clause)
		}
		name, err := resolveName(strings.TrimSpace(parts[0]), names)
		if err != nil {
			return err
		}
		value, err := evalOperand(strings.TrimSpace(parts[1]), names, values, item)
		if err != nil {
			return err
		}
		item[name] = value
	}
	return nil
}

// splitClauses splits on commas outside parentheses, so function operands
// like if_not_exists(a, b) stay intact.
func splitClauses(s string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}

func resolveName(ref string, names map[string]string) (string, error) {
	if !strings.HasPrefix(ref, "#") {
		return ref, nil
	}
	name, ok := names[ref]
	if !ok {
		return "", fmt.Errorf("undefined name placeholder %s", ref)
	}
	return name, nil
}

func evalOperand(op string, names map[string]string, values map[string]types.AttributeValue, item map[string]types.AttributeValue) (types.AttributeValue, error) {
	switch {
	case strings.HasPrefix(op, "if_not_exists"):
		inner := strings.TrimSpace(strings.TrimPrefix(op, "if_not_exists"))
		if !strings.HasPrefix(inner, "(") || !strings.HasSuffix(inner, ")") {
			return nil, fmt.Errorf("malformed if_not_exists operand %q", op)
		}
		args := strings.SplitN(inner[1:len(inner)-1], ",", 2)
		if len(args) != 2 {
			return nil, fmt.Errorf("if_not_exists expects two arguments, got %q", op)
		}
		name, err := resolveName(strings.TrimSpace(args[0]), names)
		if err != nil {
			return nil, err
		}
		if v, ok := item[name]; ok {
			return v, nil
		}
		return evalOperand(strings.TrimSpace(args[1]), names, values, item)

	case strings.HasPrefix(op, ":"):
		v, ok := values[op]
		if !ok {
			return nil, fmt.Errorf("undefined value placeholder %s", op)
		}
		return v, nil

	default:
		name, err := resolveName(op, names)
		if err != nil {
			return nil, err
		}
		v, ok := item[name]
		if !ok {
			return nil, fmt.Errorf("attribute %q does not exist", name)
		}
		return v, nil
	}
}
