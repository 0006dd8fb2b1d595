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

// ProductTeamRepository stores product teams in the shared "PT" partition
type ProductTeamRepository struct {
	*Repository[*aggregates.ProductTeam]
}

// NewProductTeamRepository creates a product team repository
func NewProductTeamRepository(client Client, tableName string, logger *zap.Logger, opts ...Option) *ProductTeamRepository {
	return &ProductTeamRepository{newRepository(client, tableName, logger, repositoryConfig[*aggregates.ProductTeam]{
		entity:     "ProductTeam",
		rowType:    TableKeyProductTeam,
		eventTypes: events.ProductTeamEventTypes,
		handlers: map[string]EventHandler{
			events.TypeProductTeamCreated:  handle(handleProductTeamCreated),
			events.TypeProductTeamKeyAdded: handle(handleProductTeamKeyAdded),
			events.TypeProductTeamDeleted:  handle(handleProductTeamDeleted),
		},
		parse:    parseProductTeam,
		isActive: (*aggregates.ProductTeam).IsActive,
	}, opts...)}
}

// Read fetches a product team by id or by alias. An id that misses the root row is retried as an alias.
func (r *ProductTeamRepository) Read(ctx context.Context, id string) (*aggregates.ProductTeam, error) {
	if valueobjects.IsUUID(id) {
		return r.readAny(ctx, productTeamPartition(), TableKeyProductTeam.Key(id), TableKeyProductTeamAlias.Key(id))
	}
	return r.read(ctx, productTeamPartition(), TableKeyProductTeamAlias.Key(id))
}

// Search returns every active product team
func (r *ProductTeamRepository) Search(ctx context.Context) ([]*aggregates.ProductTeam, error) {
	return r.search(ctx, productTeamPartition())
}

func parseProductTeam(item map[string]types.AttributeValue) (*aggregates.ProductTeam, error) {
	state, err := unmarshalState[entities.ProductTeamState](item)
	if err != nil {
		return nil, err
	}
	return aggregates.ReconstructProductTeam(state), nil
}

func handleProductTeamCreated(ev *events.ProductTeamCreatedEvent) ([]TransactItem, error) {
	rows, err := productTeamRows(ev.ProductTeamState)
	if err != nil {
		return nil, err
	}
	return createIndexes(rows), nil
}

func handleProductTeamKeyAdded(ev *events.ProductTeamKeyAddedEvent) ([]TransactItem, error) {
	rows, err := productTeamRows(ev.ProductTeamState)
	if err != nil {
		return nil, err
	}
	return addIndexes(rows, itemKey{pk: productTeamPartition(), sk: TableKeyProductTeamAlias.Key(ev.NewKey.KeyValue)})
}

func handleProductTeamDeleted(ev *events.ProductTeamDeletedEvent) ([]TransactItem, error) {
	rows, err := productTeamRows(ev.ProductTeamState)
	if err != nil {
		return nil, err
	}
	items := updateIndexes(rows)
	for _, k := range ev.Keys {
		items = append(items, deleteIndex(productTeamPartition(), TableKeyProductTeamAlias.Key(k.KeyValue)))
	}
	return items, nil
}
