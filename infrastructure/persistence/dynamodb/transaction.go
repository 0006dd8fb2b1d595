package dynamodb

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MaxTransactItems is the most operations DynamoDB accepts in one transaction
const MaxTransactItems = 100

// Operation is the write a TransactItem performs
type Operation string

const (
	OperationPut    Operation = "Put"
	OperationDelete Operation = "Delete"
)

// Condition guards a TransactItem on the existence of its row
type Condition string

const (
	ConditionNone         Condition = ""
	ConditionMustNotExist Condition = "must_not_exist"
	ConditionMustExist    Condition = "must_exist"
)

// TransactItem is one conditional put or delete of one physical row
type TransactItem struct {
	Operation Operation
	PK        string
	SK        string
	Item      map[string]types.AttributeValue
	Condition Condition
}

type itemKey struct {
	pk, sk string
}

func (t TransactItem) key() itemKey {
	return itemKey{pk: t.PK, sk: t.SK}
}

// String describes the statement for diagnostics
func (t TransactItem) String() string {
	if t.Condition == ConditionNone {
		return fmt.Sprintf("%s pk=%q sk=%q", t.Operation, t.PK, t.SK)
	}
	return fmt.Sprintf("%s pk=%q sk=%q if %s", t.Operation, t.PK, t.SK, t.Condition)
}

func (t TransactItem) build(tableName string) (types.TransactWriteItem, error) {
	var condition *string
	var names map[string]string
	var values map[string]types.AttributeValue
	if t.Condition != ConditionNone {
		cond := expression.AttributeExists(expression.Name("pk"))
		if t.Condition == ConditionMustNotExist {
			cond = expression.AttributeNotExists(expression.Name("pk"))
		}
		expr, err := expression.NewBuilder().WithCondition(cond).Build()
		if err != nil {
			return types.TransactWriteItem{}, fmt.Errorf("building condition for %s: %w", t, err)
		}
		condition, names, values = expr.Condition(), expr.Names(), expr.Values()
	}

	switch t.Operation {
	case OperationPut:
		return types.TransactWriteItem{Put: &types.Put{
			TableName:                 aws.String(tableName),
			Item:                      t.Item,
			ConditionExpression:       condition,
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
		}}, nil
	case OperationDelete:
		return types.TransactWriteItem{Delete: &types.Delete{
			TableName:                 aws.String(tableName),
			Key:                       primaryKey(t.PK, t.SK),
			ConditionExpression:       condition,
			ExpressionAttributeNames:  names,
			ExpressionAttributeValues: values,
		}}, nil
	default:
		return types.TransactWriteItem{}, fmt.Errorf("unknown operation %q", t.Operation)
	}
}

func primaryKey(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: pk},
		"sk": &types.AttributeValueMemberS{Value: sk},
	}
}

// splitTransactionsByKey groups items into transactions in their original order. A transaction never
// touches the same row twice: reaching a row already in the current group closes the group. Groups
// are then cut into chunks of at most nMax items.
func splitTransactionsByKey(items []TransactItem, nMax int) [][]TransactItem {
	if nMax <= 0 {
		nMax = MaxTransactItems
	}

	var batches [][]TransactItem
	var current []TransactItem
	seen := make(map[itemKey]struct{})
	flush := func() {
		batches = append(batches, chunk(current, nMax)...)
		current = nil
		seen = make(map[itemKey]struct{})
	}

	for _, item := range items {
		if _, ok := seen[item.key()]; ok {
			flush()
		}
		current = append(current, item)
		seen[item.key()] = struct{}{}
	}
	if len(current) > 0 {
		flush()
	}
	return batches
}

func chunk[T any](items []T, size int) [][]T {
	var out [][]T
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}
