package dynamodb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"connecting-party-manager/domain/core/entities"
	pkgerrors "connecting-party-manager/pkg/errors"
	"connecting-party-manager/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// MaxBatchWriteItems is the store's limit of write requests per batch write
const MaxBatchWriteItems = 25

// ObjectTypeNameField names the entity kind of a serialized object
const ObjectTypeNameField = "object_type_name"

var errRetriesExhausted = errors.New("retries exhausted")

// BulkRepository writes serialized entities straight to the table for first loads. Writes are
// unconditional: existing rows at the same keys are overwritten and no events are raised.
type BulkRepository struct {
	client    Client
	tableName string
	logger    *zap.Logger
	retry     RetryConfig
	batchSize int
	metrics   *observability.Metrics
	sleep     func(ctx context.Context, d time.Duration) error
}

// BulkOption configures a BulkRepository
type BulkOption func(*BulkRepository)

// WithRetryConfig overrides the backoff of transient failures
func WithRetryConfig(cfg RetryConfig) BulkOption {
	return func(r *BulkRepository) { r.retry = cfg }
}

// WithBatchSize caps the write requests per batch write
func WithBatchSize(n int) BulkOption {
	return func(r *BulkRepository) {
		if n > 0 && n <= MaxBatchWriteItems {
			r.batchSize = n
		}
	}
}

// WithBulkMetrics records rows written and retries
func WithBulkMetrics(m *observability.Metrics) BulkOption {
	return func(r *BulkRepository) { r.metrics = m }
}

// NewBulkRepository creates a bulk repository
func NewBulkRepository(client Client, tableName string, logger *zap.Logger, opts ...BulkOption) *BulkRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &BulkRepository{
		client:    client,
		tableName: tableName,
		logger:    logger.With(zap.String("component", "bulk_repository")),
		retry:     DefaultRetryConfig(),
		batchSize: MaxBatchWriteItems,
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Write puts every index row of every object. Chunks whose transient failures outlast the retry
// budget are collected into one bulk write error; any other failure is returned at once.
func (r *BulkRepository) Write(ctx context.Context, objects []map[string]interface{}) error {
	var requests []types.WriteRequest
	for i, obj := range objects {
		rows, err := bulkRows(obj)
		if err == nil {
			err = distinctRows(rows)
		}
		if err != nil {
			return pkgerrors.Wrap(err, fmt.Sprintf("object %d", i))
		}
		for _, row := range rows {
			requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: row.item}})
		}
	}

	chunks := chunk(requests, r.batchSize)
	var failures []error
	for i, c := range chunks {
		err := r.writeChunk(ctx, c)
		switch {
		case err == nil:
			r.metrics.RecordBulkRows(len(c))
		case errors.Is(err, errRetriesExhausted):
			r.logger.Error("Bulk chunk failed", zap.Int("chunk", i), zap.Error(err))
			failures = append(failures, fmt.Errorf("chunk %d: %w", i, err))
		default:
			return err
		}
	}

	if len(failures) > 0 {
		return pkgerrors.NewBulkWriteError(failures)
	}
	r.logger.Info("Bulk write complete",
		zap.Int("objects", len(objects)),
		zap.Int("rows", len(requests)),
		zap.Int("chunks", len(chunks)),
	)
	return nil
}

// writeChunk retries transient errors and unprocessed items with backoff
func (r *BulkRepository) writeChunk(ctx context.Context, pending []types.WriteRequest) error {
	for attempt := 0; ; attempt++ {
		out, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{r.tableName: pending},
		})
		if err != nil {
			if !isTransientError(err) {
				return err
			}
			if attempt >= r.retry.MaxRetries {
				return fmt.Errorf("%w after %d attempts: %w", errRetriesExhausted, attempt+1, err)
			}
			r.metrics.RecordBulkRetry(errorCode(err))
		} else {
			unprocessed := out.UnprocessedItems[r.tableName]
			if len(unprocessed) == 0 {
				return nil
			}
			if attempt >= r.retry.MaxRetries {
				return fmt.Errorf("%w after %d attempts: %d unprocessed items", errRetriesExhausted, attempt+1, len(unprocessed))
			}
			r.metrics.RecordBulkRetry("UnprocessedItems")
			pending = unprocessed
		}

		delay := r.retry.delay(attempt)
		r.logger.Warn("Retrying bulk chunk", zap.Int("attempt", attempt+1), zap.Duration("delay", delay), zap.Error(err))
		if err := r.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// bulkRows decodes one serialized object into its entity state and builds every index row
func bulkRows(obj map[string]interface{}) ([]row, error) {
	typeName, _ := obj[ObjectTypeNameField].(string)
	switch typeName {
	case "ProductTeam":
		state, err := decodeObject[entities.ProductTeamState](obj)
		if err != nil {
			return nil, err
		}
		return productTeamRows(state)
	case "Product":
		state, err := decodeObject[entities.ProductState](obj)
		if err != nil {
			return nil, err
		}
		return productRows(state)
	case "Device":
		state, err := decodeObject[entities.DeviceState](obj)
		if err != nil {
			return nil, err
		}
		return deviceRows(state)
	case "DeviceReferenceData":
		state, err := decodeObject[entities.DeviceReferenceDataState](obj)
		if err != nil {
			return nil, err
		}
		return deviceReferenceDataRows(state)
	default:
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("unsupported %s %q", ObjectTypeNameField, typeName))
	}
}

// distinctRows rejects an object whose rows collide, such as two keys sharing a value. A batch write
// refuses any batch that repeats a key.
func distinctRows(rows []row) error {
	seen := make(map[itemKey]bool, len(rows))
	for _, r := range rows {
		if seen[r.key()] {
			return pkgerrors.NewDuplicateError(fmt.Sprintf("object has more than one row at pk=%q sk=%q", r.pk, r.sk))
		}
		seen[r.key()] = true
	}
	return nil
}

func decodeObject[S any](obj map[string]interface{}) (S, error) {
	var state S
	raw, err := json.Marshal(obj)
	if err != nil {
		return state, pkgerrors.NewValidationError("object is not serializable").WithCause(err)
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return state, pkgerrors.NewValidationError(fmt.Sprintf("object is not a valid %s", obj[ObjectTypeNameField])).WithCause(err)
	}
	return state, nil
}

func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return "unknown"
}
