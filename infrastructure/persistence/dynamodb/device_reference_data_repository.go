package dynamodb

import (
	"context"

	"connecting-party-manager/domain/core/aggregates"
	"connecting-party-manager/domain/core/entities"
	"connecting-party-manager/domain/core/valueobjects"
	"connecting-party-manager/domain/events"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// DeviceReferenceDataRepository stores device reference data next to the devices of a product.
// It has a single root row and no aliases.
type DeviceReferenceDataRepository struct {
	*Repository[*aggregates.DeviceReferenceData]
}

// NewDeviceReferenceDataRepository creates a device reference data repository
func NewDeviceReferenceDataRepository(client Client, tableName string, logger *zap.Logger, opts ...Option) *DeviceReferenceDataRepository {
	return &DeviceReferenceDataRepository{newRepository(client, tableName, logger, repositoryConfig[*aggregates.DeviceReferenceData]{
		entity:     "DeviceReferenceData",
		rowType:    TableKeyDeviceReferenceData,
		eventTypes: events.DeviceReferenceDataEventTypes,
		handlers: map[string]EventHandler{
			events.TypeDeviceReferenceDataCreated:                      handle(handleDeviceReferenceDataCreated),
			events.TypeDeviceReferenceDataQuestionnaireResponseAdded:   handle(handleDeviceReferenceDataResponseAdded),
			events.TypeDeviceReferenceDataQuestionnaireResponseRemoved: handle(handleDeviceReferenceDataResponseRemoved),
			events.TypeDeviceReferenceDataDeleted:                      handle(handleDeviceReferenceDataDeleted),
		},
		parse:    parseDeviceReferenceData,
		isActive: (*aggregates.DeviceReferenceData).IsActive,
	}, opts...)}
}

// Read fetches a device reference data bundle by id
func (r *DeviceReferenceDataRepository) Read(ctx context.Context, productTeamID string, productID valueobjects.ProductID, id string) (*aggregates.DeviceReferenceData, error) {
	return r.read(ctx, productChildPartition(productTeamID, string(productID)), TableKeyDeviceReferenceData.Key(id))
}

// Search returns the device reference data of a product. Devices sharing the partition are skipped.
func (r *DeviceReferenceDataRepository) Search(ctx context.Context, productTeamID string, productID valueobjects.ProductID) ([]*aggregates.DeviceReferenceData, error) {
	return r.search(ctx, productChildPartition(productTeamID, string(productID)))
}

func parseDeviceReferenceData(item map[string]types.AttributeValue) (*aggregates.DeviceReferenceData, error) {
	state, err := unmarshalState[entities.DeviceReferenceDataState](item)
	if err != nil {
		return nil, err
	}
	return aggregates.ReconstructDeviceReferenceData(state), nil
}

func handleDeviceReferenceDataCreated(ev *events.DeviceReferenceDataCreatedEvent) ([]TransactItem, error) {
	rows, err := deviceReferenceDataRows(ev.DeviceReferenceDataState)
	if err != nil {
		return nil, err
	}
	return createIndexes(rows), nil
}

func handleDeviceReferenceDataResponseAdded(ev *events.DeviceReferenceDataQuestionnaireResponseAddedEvent) ([]TransactItem, error) {
	return updateDeviceReferenceDataIndexes(ev.DeviceReferenceDataState)
}

func handleDeviceReferenceDataResponseRemoved(ev *events.DeviceReferenceDataQuestionnaireResponseRemovedEvent) ([]TransactItem, error) {
	return updateDeviceReferenceDataIndexes(ev.DeviceReferenceDataState)
}

func handleDeviceReferenceDataDeleted(ev *events.DeviceReferenceDataDeletedEvent) ([]TransactItem, error) {
	return updateDeviceReferenceDataIndexes(ev.DeviceReferenceDataState)
}

func updateDeviceReferenceDataIndexes(s entities.DeviceReferenceDataState) ([]TransactItem, error) {
	rows, err := deviceReferenceDataRows(s)
	if err != nil {
		return nil, err
	}
	return updateIndexes(rows), nil
}
