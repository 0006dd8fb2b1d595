package dynamodb

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"connecting-party-manager/domain/events"
	pkgerrors "connecting-party-manager/pkg/errors"
	"connecting-party-manager/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// Aggregate is anything that raises events a repository can write
type Aggregate interface {
	GetUncommittedEvents() []events.Event
	MarkEventsAsCommitted()
}

// EventPublisher receives events once they are committed to the table
type EventPublisher interface {
	Publish(ctx context.Context, committed []events.Event) error
}

// EventHandler turns one event into the statements that update every row it affects
type EventHandler func(ev events.Event) ([]TransactItem, error)

// Option configures a repository
type Option func(*options)

type options struct {
	maxTransactItems int
	metrics          *observability.Metrics
	publisher        EventPublisher
}

// WithMaxTransactItems caps the number of items per transaction
func WithMaxTransactItems(n int) Option {
	return func(o *options) {
		if n > 0 && n <= MaxTransactItems {
			o.maxTransactItems = n
		}
	}
}

// WithMetrics records repository metrics
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithPublisher publishes committed events
func WithPublisher(p EventPublisher) Option {
	return func(o *options) { o.publisher = p }
}

// Repository projects the events of one aggregate type into the table and reads aggregates back
// from their root rows.
type Repository[T Aggregate] struct {
	client    Client
	tableName string
	logger    *zap.Logger
	entity    string
	rowType   TableKey
	handlers  map[string]EventHandler
	parse     func(item map[string]types.AttributeValue) (T, error)
	isActive  func(T) bool
	options
}

type repositoryConfig[T Aggregate] struct {
	entity     string
	rowType    TableKey
	eventTypes []string
	handlers   map[string]EventHandler
	parse      func(item map[string]types.AttributeValue) (T, error)
	isActive   func(T) bool
}

// newRepository panics when a handler is missing for any of the aggregate's event types.
func newRepository[T Aggregate](client Client, tableName string, logger *zap.Logger, cfg repositoryConfig[T], opts ...Option) *Repository[T] {
	var missing []string
	for _, eventType := range cfg.eventTypes {
		if _, ok := cfg.handlers[eventType]; !ok {
			missing = append(missing, eventType)
		}
	}
	if len(missing) > 0 {
		panic(fmt.Sprintf("%s repository has no handler for %s", cfg.entity, strings.Join(missing, ", ")))
	}

	o := options{maxTransactItems: MaxTransactItems}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Repository[T]{
		client:    client,
		tableName: tableName,
		logger:    logger.With(zap.String("entity", cfg.entity)),
		entity:    cfg.entity,
		rowType:   cfg.rowType,
		handlers:  cfg.handlers,
		parse:     cfg.parse,
		isActive:  cfg.isActive,
		options:   o,
	}
}

// Write commits the aggregate's pending events in order. Each batch produced by
// splitTransactionsByKey is one atomic transaction; a batch starts only after the previous one
// committed. Pending events are cleared once every batch has committed.
func (r *Repository[T]) Write(ctx context.Context, entity T) error {
	pending := entity.GetUncommittedEvents()
	if len(pending) == 0 {
		return nil
	}

	var items []TransactItem
	for _, ev := range pending {
		handler, ok := r.handlers[ev.GetEventType()]
		if !ok {
			return pkgerrors.NewInternalError(fmt.Sprintf("%s repository cannot handle %s", r.entity, ev.GetEventType()))
		}
		statements, err := handler(ev)
		if err != nil {
			return pkgerrors.Wrap(err, fmt.Sprintf("handling %s", ev.GetEventType()))
		}
		items = append(items, statements...)
	}

	batches := splitTransactionsByKey(items, r.maxTransactItems)
	for i, batch := range batches {
		r.logger.Debug("Executing transaction",
			zap.Int("batch", i+1),
			zap.Int("batches", len(batches)),
			zap.Int("batch_size", len(batch)),
		)
		if err := r.transact(ctx, batch); err != nil {
			return err
		}
	}

	entity.MarkEventsAsCommitted()
	r.logger.Info("Aggregate written",
		zap.String("aggregate_id", pending[0].GetAggregateID()),
		zap.Int("events", len(pending)),
		zap.Int("transactions", len(batches)),
	)
	r.publish(ctx, pending)
	return nil
}

func (r *Repository[T]) transact(ctx context.Context, batch []TransactItem) error {
	writeItems := make([]types.TransactWriteItem, len(batch))
	for i, item := range batch {
		built, err := item.build(r.tableName)
		if err != nil {
			return pkgerrors.NewInternalError("building transaction").WithCause(err)
		}
		writeItems[i] = built
	}

	_, err := r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: writeItems})
	if err != nil {
		translated := translateTransactionError(batch, err)
		r.metrics.RecordTransaction(r.entity, string(pkgerrors.GetAppError(translated).Type), len(batch))
		r.logger.Error("Transaction failed", zap.Int("batch_size", len(batch)), zap.Error(err))
		return translated
	}
	r.metrics.RecordTransaction(r.entity, "committed", len(batch))
	return nil
}

func (r *Repository[T]) publish(ctx context.Context, committed []events.Event) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, committed); err != nil {
		r.metrics.RecordPublishFailure(len(committed))
		r.logger.Warn("Failed to publish committed events", zap.Int("events", len(committed)), zap.Error(err))
	}
}

// read fetches the single row at (pk, sk) and rebuilds the aggregate from it
func (r *Repository[T]) read(ctx context.Context, pk, sk string) (T, error) {
	defer r.metrics.ObserveQuery(r.entity, "read", time.Now())
	var zero T

	keyCond := expression.Key(attrPK).Equal(expression.Value(pk)).
		And(expression.Key(attrSK).Equal(expression.Value(sk)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return zero, pkgerrors.NewInternalError("building read query").WithCause(err)
	}

	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return zero, pkgerrors.NewDatabaseError("read", err)
	}
	if len(out.LastEvaluatedKey) > 0 {
		return zero, pkgerrors.NewTooManyResultsError(pk, sk)
	}
	if len(out.Items) != 1 {
		return zero, pkgerrors.NewItemNotFoundError(pk, sk)
	}

	entity, err := r.parse(out.Items[0])
	if err != nil {
		return zero, pkgerrors.NewDatabaseError("read", err)
	}
	if !r.isActive(entity) {
		return zero, pkgerrors.NewItemNotFoundError(pk, sk)
	}
	return entity, nil
}

// readAny tries each sort key in turn and returns the first aggregate found. Only ItemNotFound moves
// on to the next key; when every key misses, the error of the first is returned.
func (r *Repository[T]) readAny(ctx context.Context, pk string, sks ...string) (T, error) {
	var zero T
	var firstErr error
	for _, sk := range sks {
		entity, err := r.read(ctx, pk, sk)
		if err == nil {
			return entity, nil
		}
		if !pkgerrors.IsItemNotFound(err) {
			return zero, err
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return zero, firstErr
}

// search returns the active aggregates whose root rows live in the partition. Devices and device
// reference data share a partition, so root rows are also filtered by row type.
func (r *Repository[T]) search(ctx context.Context, pk string) ([]T, error) {
	defer r.metrics.ObserveQuery(r.entity, "search", time.Now())

	keyCond := expression.Key(attrPK).Equal(expression.Value(pk))
	rootOnly := expression.Name(attrRoot).Equal(expression.Value(true)).
		And(expression.Name(attrRowType).Equal(expression.Value(string(r.rowType))))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithFilter(rootOnly).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("building search query").WithCause(err)
	}

	items, err := r.queryAll(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, err
	}
	return r.parseActive(items, func(item map[string]types.AttributeValue) bool {
		root, ok := item[attrRoot].(*types.AttributeValueMemberBOOL)
		rowType, _ := item[attrRowType].(*types.AttributeValueMemberS)
		return ok && root.Value && rowType != nil && rowType.Value == string(r.rowType)
	})
}

// queryAll follows LastEvaluatedKey until the query is exhausted
func (r *Repository[T]) queryAll(ctx context.Context, input *dynamodb.QueryInput) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("query", err)
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (r *Repository[T]) parseActive(items []map[string]types.AttributeValue, keep func(map[string]types.AttributeValue) bool) ([]T, error) {
	results := make([]T, 0, len(items))
	for _, item := range items {
		if !keep(item) {
			continue
		}
		entity, err := r.parse(item)
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("search", err)
		}
		if r.isActive(entity) {
			results = append(results, entity)
		}
	}
	return slices.Clip(results), nil
}
