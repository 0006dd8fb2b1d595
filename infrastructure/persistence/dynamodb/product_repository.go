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

// ProductRepository stores products in their product team's partition
type ProductRepository struct {
	*Repository[*aggregates.Product]
}

// NewProductRepository creates a product repository
func NewProductRepository(client Client, tableName string, logger *zap.Logger, opts ...Option) *ProductRepository {
	return &ProductRepository{newRepository(client, tableName, logger, repositoryConfig[*aggregates.Product]{
		entity:     "Product",
		rowType:    TableKeyProduct,
		eventTypes: events.ProductEventTypes,
		handlers: map[string]EventHandler{
			events.TypeProductCreated:  handle(handleProductCreated),
			events.TypeProductKeyAdded: handle(handleProductKeyAdded),
			events.TypeProductDeleted:  handle(handleProductDeleted),
		},
		parse:    parseProduct,
		isActive: (*aggregates.Product).IsActive,
	}, opts...)}
}

// Read fetches a product by its product id or by the value of one of its keys
func (r *ProductRepository) Read(ctx context.Context, productTeamID, id string) (*aggregates.Product, error) {
	sk := TableKeyProductAlias.Key(id)
	if valueobjects.IsProductID(id) {
		sk = TableKeyProduct.Key(id)
	}
	return r.read(ctx, productPartition(productTeamID), sk)
}

// Search returns the active products of a product team
func (r *ProductRepository) Search(ctx context.Context, productTeamID string) ([]*aggregates.Product, error) {
	return r.search(ctx, productPartition(productTeamID))
}

func parseProduct(item map[string]types.AttributeValue) (*aggregates.Product, error) {
	state, err := unmarshalState[entities.ProductState](item)
	if err != nil {
		return nil, err
	}
	return aggregates.ReconstructProduct(state), nil
}

func handleProductCreated(ev *events.ProductCreatedEvent) ([]TransactItem, error) {
	rows, err := productRows(ev.ProductState)
	if err != nil {
		return nil, err
	}
	return createIndexes(rows), nil
}

func handleProductKeyAdded(ev *events.ProductKeyAddedEvent) ([]TransactItem, error) {
	rows, err := productRows(ev.ProductState)
	if err != nil {
		return nil, err
	}
	return addIndexes(rows, itemKey{
		pk: productPartition(ev.ProductTeamID),
		sk: TableKeyProductAlias.Key(ev.NewKey.KeyValue),
	})
}

func handleProductDeleted(ev *events.ProductDeletedEvent) ([]TransactItem, error) {
	rows, err := productRows(ev.ProductState)
	if err != nil {
		return nil, err
	}
	items := updateIndexes(rows)
	partition := productPartition(ev.ProductTeamID)
	for _, k := range ev.Keys {
		items = append(items, deleteIndex(partition, TableKeyProductAlias.Key(k.KeyValue)))
	}
	return items, nil
}
