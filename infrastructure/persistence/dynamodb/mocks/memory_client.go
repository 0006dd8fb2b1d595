// Package mocks provides an in-memory DynamoDB client for repository tests.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

const maxTransactItems = 100

type itemKey struct {
	pk, sk string
}

// MemoryClient keeps a single table in memory. It understands the equality key conditions,
// equality filters and existence conditions produced by the expression builder, which is all the
// repositories emit.
type MemoryClient struct {
	mu    sync.Mutex
	items map[itemKey]map[string]types.AttributeValue

	// PageSize limits the items returned by one Query call. Zero means unlimited.
	PageSize int

	// BatchWriteHook runs before a batch write is applied. A non-nil output or error is returned
	// in place of the real write.
	BatchWriteHook func(call int, input *dynamodb.BatchWriteItemInput) (*dynamodb.BatchWriteItemOutput, error)

	shouldFailOn map[string]error

	QueryCalls    []*dynamodb.QueryInput
	TransactCalls []*dynamodb.TransactWriteItemsInput
	BatchCalls    []*dynamodb.BatchWriteItemInput
}

// NewMemoryClient creates an empty table
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		items:        make(map[itemKey]map[string]types.AttributeValue),
		shouldFailOn: make(map[string]error),
	}
}

// SetError makes every call of method ("Query", "TransactWriteItems", "BatchWriteItem") fail with err
func (m *MemoryClient) SetError(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFailOn[method] = err
}

// Put stores an item directly
func (m *MemoryClient) Put(item map[string]types.AttributeValue) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[keyOf(item)] = item
}

// Get returns the item at (pk, sk)
func (m *MemoryClient) Get(pk, sk string) (map[string]types.AttributeValue, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemKey{pk, sk}]
	return item, ok
}

// Keys returns every stored "pk|sk" in sorted order
func (m *MemoryClient) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k.pk+"|"+k.sk)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored items
func (m *MemoryClient) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *MemoryClient) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueryCalls = append(m.QueryCalls, params)
	if err := m.shouldFailOn["Query"]; err != nil {
		return nil, err
	}

	keyConds, err := parseEqualities(aws.ToString(params.KeyConditionExpression), params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}
	filters, err := parseEqualities(aws.ToString(params.FilterExpression), params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}

	var matched []map[string]types.AttributeValue
	for _, item := range m.items {
		if matches(item, keyConds) {
			matched = append(matched, item)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return stringAttr(matched[i], "sk") < stringAttr(matched[j], "sk") })

	if start := params.ExclusiveStartKey; start != nil {
		after := stringAttr(start, "sk")
		idx := sort.Search(len(matched), func(i int) bool { return stringAttr(matched[i], "sk") > after })
		matched = matched[idx:]
	}

	out := &dynamodb.QueryOutput{}
	page := matched
	if m.PageSize > 0 && len(matched) > m.PageSize {
		page = matched[:m.PageSize]
		last := page[len(page)-1]
		out.LastEvaluatedKey = map[string]types.AttributeValue{"pk": last["pk"], "sk": last["sk"]}
	}
	for _, item := range page {
		if matches(item, filters) {
			out.Items = append(out.Items, item)
		}
	}
	out.Count = int32(len(out.Items))
	return out, nil
}

func (m *MemoryClient) TransactWriteItems(_ context.Context, params *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TransactCalls = append(m.TransactCalls, params)
	if err := m.shouldFailOn["TransactWriteItems"]; err != nil {
		return nil, err
	}
	if len(params.TransactItems) > maxTransactItems {
		return nil, validationException(fmt.Sprintf("Member must have length less than or equal to %d", maxTransactItems))
	}

	keys := make([]itemKey, len(params.TransactItems))
	seen := make(map[itemKey]bool)
	for i, ti := range params.TransactItems {
		k, err := transactKey(ti)
		if err != nil {
			return nil, err
		}
		if seen[k] {
			return nil, validationException("Transaction request cannot include multiple operations on one item")
		}
		seen[k] = true
		keys[i] = k
	}

	reasons := make([]types.CancellationReason, len(params.TransactItems))
	failed := false
	for i, ti := range params.TransactItems {
		reasons[i] = types.CancellationReason{Code: aws.String("None")}
		_, exists := m.items[keys[i]]
		if !conditionHolds(transactCondition(ti), exists) {
			reasons[i] = types.CancellationReason{
				Code:    aws.String("ConditionalCheckFailed"),
				Message: aws.String("The conditional request failed"),
			}
			failed = true
		}
	}
	if failed {
		codes := make([]string, len(reasons))
		for i, r := range reasons {
			codes[i] = aws.ToString(r.Code)
		}
		return nil, &types.TransactionCanceledException{
			Message:             aws.String(fmt.Sprintf("Transaction cancelled, please refer cancellation reasons for specific reasons [%s]", strings.Join(codes, ", "))),
			CancellationReasons: reasons,
		}
	}

	for i, ti := range params.TransactItems {
		switch {
		case ti.Put != nil:
			m.items[keys[i]] = ti.Put.Item
		case ti.Delete != nil:
			delete(m.items, keys[i])
		}
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func (m *MemoryClient) BatchWriteItem(_ context.Context, params *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BatchCalls = append(m.BatchCalls, params)
	if err := m.shouldFailOn["BatchWriteItem"]; err != nil {
		return nil, err
	}
	if m.BatchWriteHook != nil {
		out, err := m.BatchWriteHook(len(m.BatchCalls), params)
		if err != nil {
			return nil, err
		}
		if out != nil {
			m.applyBatch(params, out)
			return out, nil
		}
	}
	out := &dynamodb.BatchWriteItemOutput{}
	m.applyBatch(params, out)
	return out, nil
}

// applyBatch writes every request except those reported back as unprocessed
func (m *MemoryClient) applyBatch(params *dynamodb.BatchWriteItemInput, out *dynamodb.BatchWriteItemOutput) {
	skip := make(map[itemKey]bool)
	for _, requests := range out.UnprocessedItems {
		for _, r := range requests {
			skip[requestKey(r)] = true
		}
	}
	for _, requests := range params.RequestItems {
		for _, r := range requests {
			k := requestKey(r)
			if skip[k] {
				continue
			}
			switch {
			case r.PutRequest != nil:
				m.items[k] = r.PutRequest.Item
			case r.DeleteRequest != nil:
				delete(m.items, k)
			}
		}
	}
}

type equality struct {
	name  string
	value types.AttributeValue
}

// parseEqualities reads "#0 = :0" and "(#0 = :0) AND (#1 = :1)"
func parseEqualities(expr string, names map[string]string, values map[string]types.AttributeValue) ([]equality, error) {
	if expr == "" {
		return nil, nil
	}
	var out []equality
	for _, clause := range strings.Split(expr, " AND ") {
		clause = strings.Trim(strings.TrimSpace(clause), "()")
		parts := strings.Split(clause, " = ")
		if len(parts) != 2 {
			return nil, validationException("unsupported expression: " + expr)
		}
		name, ok := names[strings.TrimSpace(parts[0])]
		if !ok {
			return nil, validationException("unknown attribute name in: " + expr)
		}
		value, ok := values[strings.TrimSpace(parts[1])]
		if !ok {
			return nil, validationException("unknown attribute value in: " + expr)
		}
		out = append(out, equality{name: name, value: value})
	}
	return out, nil
}

func matches(item map[string]types.AttributeValue, conds []equality) bool {
	for _, c := range conds {
		if !equalAttr(item[c.name], c.value) {
			return false
		}
	}
	return true
}

func equalAttr(a, b types.AttributeValue) bool {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		bv, ok := b.(*types.AttributeValueMemberS)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberBOOL:
		bv, ok := b.(*types.AttributeValueMemberBOOL)
		return ok && av.Value == bv.Value
	case *types.AttributeValueMemberN:
		bv, ok := b.(*types.AttributeValueMemberN)
		if !ok {
			return false
		}
		x, errX := strconv.ParseFloat(av.Value, 64)
		y, errY := strconv.ParseFloat(bv.Value, 64)
		return errX == nil && errY == nil && x == y
	}
	return false
}

func conditionHolds(condition string, exists bool) bool {
	switch {
	case condition == "":
		return true
	case strings.Contains(condition, "attribute_not_exists"):
		return !exists
	case strings.Contains(condition, "attribute_exists"):
		return exists
	}
	return true
}

func transactCondition(ti types.TransactWriteItem) string {
	switch {
	case ti.Put != nil:
		return aws.ToString(ti.Put.ConditionExpression)
	case ti.Delete != nil:
		return aws.ToString(ti.Delete.ConditionExpression)
	}
	return ""
}

func transactKey(ti types.TransactWriteItem) (itemKey, error) {
	switch {
	case ti.Put != nil:
		return keyOf(ti.Put.Item), nil
	case ti.Delete != nil:
		return keyOf(ti.Delete.Key), nil
	}
	return itemKey{}, validationException("transact item has no supported operation")
}

func requestKey(r types.WriteRequest) itemKey {
	if r.PutRequest != nil {
		return keyOf(r.PutRequest.Item)
	}
	if r.DeleteRequest != nil {
		return keyOf(r.DeleteRequest.Key)
	}
	return itemKey{}
}

func keyOf(item map[string]types.AttributeValue) itemKey {
	return itemKey{pk: stringAttr(item, "pk"), sk: stringAttr(item, "sk")}
}

func stringAttr(item map[string]types.AttributeValue, name string) string {
	if s, ok := item[name].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func validationException(message string) error {
	return &smithy.GenericAPIError{Code: "ValidationException", Message: message}
}
