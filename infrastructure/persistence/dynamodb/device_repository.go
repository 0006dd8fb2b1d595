package dynamodb

import (
	"context"

	"connecting-party-manager/domain/core/aggregates"
	"connecting-party-manager/domain/core/entities"
	"connecting-party-manager/domain/core/valueobjects"
	"connecting-party-manager/domain/events"
	pkgerrors "connecting-party-manager/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// DeviceRepository stores devices under their product's partition, with one alias row per key
// and one row per tag in the tag's own partition.
type DeviceRepository struct {
	*Repository[*aggregates.Device]
}

// NewDeviceRepository creates a device repository
func NewDeviceRepository(client Client, tableName string, logger *zap.Logger, opts ...Option) *DeviceRepository {
	return &DeviceRepository{newRepository(client, tableName, logger, repositoryConfig[*aggregates.Device]{
		entity:     "Device",
		rowType:    TableKeyDevice,
		eventTypes: events.DeviceEventTypes,
		handlers: map[string]EventHandler{
			events.TypeDeviceCreated:                handle(handleDeviceCreated),
			events.TypeDeviceUpdated:                handle(handleDeviceUpdated),
			events.TypeDeviceDeleted:                handle(handleDeviceDeleted),
			events.TypeDeviceHardDeleted:            handle(handleDeviceHardDeleted),
			events.TypeDeviceKeyAdded:               handle(handleDeviceKeyAdded),
			events.TypeDeviceKeyDeleted:             handle(handleDeviceKeyDeleted),
			events.TypeDeviceTagAdded:               handle(handleDeviceTagAdded),
			events.TypeDeviceTagsAdded:              handle(handleDeviceTagsAdded),
			events.TypeDeviceTagsCleared:            handle(handleDeviceTagsCleared),
			events.TypeQuestionnaireResponseUpdated: handle(handleQuestionnaireResponseUpdated),
			events.TypeDeviceReferenceDataIDAdded:   handle(handleDeviceReferenceDataIDAdded),
		},
		parse:    parseDevice,
		isActive: (*aggregates.Device).IsActive,
	}, opts...)}
}

// Read fetches a device by its id or by the value of any of its keys. Key values may themselves
// look like ids, so an id that misses the root row is retried as a key.
func (r *DeviceRepository) Read(ctx context.Context, productTeamID string, productID valueobjects.ProductID, id string) (*aggregates.Device, error) {
	partition := productChildPartition(productTeamID, string(productID))
	if valueobjects.IsUUID(id) {
		return r.readAny(ctx, partition, TableKeyDevice.Key(id), TableKeyDeviceAlias.Key(id))
	}
	return r.read(ctx, partition, TableKeyDeviceAlias.Key(id))
}

// Search returns the active devices of a product
func (r *DeviceRepository) Search(ctx context.Context, productTeamID string, productID valueobjects.ProductID) ([]*aggregates.Device, error) {
	return r.search(ctx, productChildPartition(productTeamID, string(productID)))
}

// QueryByTag returns the active devices carrying tag, across all products
func (r *DeviceRepository) QueryByTag(ctx context.Context, tag valueobjects.DeviceTag) ([]*aggregates.Device, error) {
	keyCond := expression.Key(attrPK).Equal(expression.Value(deviceTagPartition(string(tag))))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("building tag query").WithCause(err)
	}
	items, err := r.queryAll(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, err
	}
	return r.parseActive(items, func(map[string]types.AttributeValue) bool { return true })
}

func parseDevice(item map[string]types.AttributeValue) (*aggregates.Device, error) {
	state, err := unmarshalState[entities.DeviceState](item)
	if err != nil {
		return nil, err
	}
	return aggregates.ReconstructDevice(state), nil
}

func deviceAliasKey(s entities.DeviceState, k valueobjects.Key) itemKey {
	return itemKey{pk: productChildPartition(s.ProductTeamID, string(s.ProductID)), sk: TableKeyDeviceAlias.Key(k.KeyValue)}
}

func deviceTagKey(s entities.DeviceState, tag valueobjects.DeviceTag) itemKey {
	return itemKey{pk: deviceTagPartition(string(tag)), sk: TableKeyDevice.Key(s.ID)}
}

func handleDeviceCreated(ev *events.DeviceCreatedEvent) ([]TransactItem, error) {
	rows, err := deviceRows(ev.DeviceState)
	if err != nil {
		return nil, err
	}
	return createIndexes(rows), nil
}

func handleDeviceUpdated(ev *events.DeviceUpdatedEvent) ([]TransactItem, error) {
	return updateDeviceIndexes(ev.DeviceState)
}

func handleQuestionnaireResponseUpdated(ev *events.QuestionnaireResponseUpdatedEvent) ([]TransactItem, error) {
	return updateDeviceIndexes(ev.DeviceState)
}

func handleDeviceReferenceDataIDAdded(ev *events.DeviceReferenceDataIDAddedEvent) ([]TransactItem, error) {
	return updateDeviceIndexes(ev.DeviceState)
}

func updateDeviceIndexes(s entities.DeviceState) ([]TransactItem, error) {
	rows, err := deviceRows(s)
	if err != nil {
		return nil, err
	}
	return updateIndexes(rows), nil
}

func handleDeviceKeyAdded(ev *events.DeviceKeyAddedEvent) ([]TransactItem, error) {
	rows, err := deviceRows(ev.DeviceState)
	if err != nil {
		return nil, err
	}
	return addIndexes(rows, deviceAliasKey(ev.DeviceState, ev.NewKey))
}

func handleDeviceKeyDeleted(ev *events.DeviceKeyDeletedEvent) ([]TransactItem, error) {
	rows, err := deviceRows(ev.DeviceState)
	if err != nil {
		return nil, err
	}
	deleted := deviceAliasKey(ev.DeviceState, ev.DeletedKey)
	return append([]TransactItem{deleteIndex(deleted.pk, deleted.sk)}, updateIndexes(rows)...), nil
}

func handleDeviceTagAdded(ev *events.DeviceTagAddedEvent) ([]TransactItem, error) {
	rows, err := deviceRows(ev.DeviceState)
	if err != nil {
		return nil, err
	}
	return addIndexes(rows, deviceTagKey(ev.DeviceState, ev.NewTag))
}

func handleDeviceTagsAdded(ev *events.DeviceTagsAddedEvent) ([]TransactItem, error) {
	rows, err := deviceRows(ev.DeviceState)
	if err != nil {
		return nil, err
	}
	newKeys := make([]itemKey, len(ev.NewTags))
	for i, tag := range ev.NewTags {
		newKeys[i] = deviceTagKey(ev.DeviceState, tag)
	}
	return addIndexes(rows, newKeys...)
}

func handleDeviceTagsCleared(ev *events.DeviceTagsClearedEvent) ([]TransactItem, error) {
	rows, err := deviceRows(ev.DeviceState)
	if err != nil {
		return nil, err
	}
	items := make([]TransactItem, 0, len(ev.DeletedTags)+len(rows))
	for _, tag := range ev.DeletedTags {
		k := deviceTagKey(ev.DeviceState, tag)
		items = append(items, deleteIndex(k.pk, k.sk))
	}
	return append(items, updateIndexes(rows)...), nil
}

// handleDeviceDeleted keeps the inactive root row and drops every alias and tag row
func handleDeviceDeleted(ev *events.DeviceDeletedEvent) ([]TransactItem, error) {
	rows, err := deviceRows(ev.DeviceState)
	if err != nil {
		return nil, err
	}
	items := updateIndexes(rows)
	for _, k := range ev.Keys {
		alias := deviceAliasKey(ev.DeviceState, k)
		items = append(items, deleteIndex(alias.pk, alias.sk))
	}
	for _, tag := range ev.DeletedTags {
		t := deviceTagKey(ev.DeviceState, tag)
		items = append(items, deleteIndex(t.pk, t.sk))
	}
	return items, nil
}

func handleDeviceHardDeleted(ev *events.DeviceHardDeletedEvent) ([]TransactItem, error) {
	keys := deviceIndexKeys(ev.DeviceState)
	items := make([]TransactItem, len(keys))
	for i, k := range keys {
		items[i] = deleteIndex(k.pk, k.sk)
	}
	return items, nil
}
