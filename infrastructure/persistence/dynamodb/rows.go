package dynamodb

import (
	"fmt"
	"maps"
	"slices"

	"connecting-party-manager/domain/core/entities"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Row attributes shared by every item in the table
const (
	attrPK      = "pk"
	attrSK      = "sk"
	attrRoot    = "root"
	attrRowType = "row_type"
)

// indexKey addresses one physical row of an entity
type indexKey struct {
	pk, sk string
	root   bool
}

// row is a marshalled physical row
type row struct {
	indexKey
	item map[string]types.AttributeValue
}

func (r row) key() itemKey {
	return itemKey{pk: r.pk, sk: r.sk}
}

// buildRows marshals the entity state once and stamps a copy of it for each index key
func buildRows(rowType TableKey, state interface{}, keys []indexKey) ([]row, error) {
	base, err := attributevalue.MarshalMap(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s row: %w", rowType, err)
	}
	rows := make([]row, 0, len(keys))
	for _, k := range keys {
		item := maps.Clone(base)
		item[attrPK] = &types.AttributeValueMemberS{Value: k.pk}
		item[attrSK] = &types.AttributeValueMemberS{Value: k.sk}
		item[attrRoot] = &types.AttributeValueMemberBOOL{Value: k.root}
		item[attrRowType] = &types.AttributeValueMemberS{Value: string(rowType)}
		rows = append(rows, row{indexKey: k, item: item})
	}
	return rows, nil
}

// Index layout per entity. Inactive entities keep only their root row.

func productTeamIndexKeys(s entities.ProductTeamState) []indexKey {
	partition := productTeamPartition()
	keys := []indexKey{{pk: partition, sk: TableKeyProductTeam.Key(s.ID), root: true}}
	if !s.IsActive() {
		return keys
	}
	for _, k := range s.Keys {
		keys = append(keys, indexKey{pk: partition, sk: TableKeyProductTeamAlias.Key(k.KeyValue)})
	}
	return keys
}

func productIndexKeys(s entities.ProductState) []indexKey {
	partition := productPartition(s.ProductTeamID)
	keys := []indexKey{{pk: partition, sk: TableKeyProduct.Key(string(s.ID)), root: true}}
	if !s.IsActive() {
		return keys
	}
	for _, k := range s.Keys {
		keys = append(keys, indexKey{pk: partition, sk: TableKeyProductAlias.Key(k.KeyValue)})
	}
	return keys
}

func deviceIndexKeys(s entities.DeviceState) []indexKey {
	partition := productChildPartition(s.ProductTeamID, string(s.ProductID))
	rootSK := TableKeyDevice.Key(s.ID)
	keys := []indexKey{{pk: partition, sk: rootSK, root: true}}
	if !s.IsActive() {
		return keys
	}
	for _, k := range s.Keys {
		keys = append(keys, indexKey{pk: partition, sk: TableKeyDeviceAlias.Key(k.KeyValue)})
	}
	for _, tag := range s.Tags {
		keys = append(keys, indexKey{pk: deviceTagPartition(string(tag)), sk: rootSK})
	}
	return keys
}

func deviceReferenceDataIndexKeys(s entities.DeviceReferenceDataState) []indexKey {
	partition := productChildPartition(s.ProductTeamID, string(s.ProductID))
	return []indexKey{{pk: partition, sk: TableKeyDeviceReferenceData.Key(s.ID), root: true}}
}

func productTeamRows(s entities.ProductTeamState) ([]row, error) {
	return buildRows(TableKeyProductTeam, s, productTeamIndexKeys(s))
}

func productRows(s entities.ProductState) ([]row, error) {
	return buildRows(TableKeyProduct, s, productIndexKeys(s))
}

func deviceRows(s entities.DeviceState) ([]row, error) {
	return buildRows(TableKeyDevice, s, deviceIndexKeys(s))
}

func deviceReferenceDataRows(s entities.DeviceReferenceDataState) ([]row, error) {
	return buildRows(TableKeyDeviceReferenceData, s, deviceReferenceDataIndexKeys(s))
}

// Transaction building blocks used by the event handlers

// createIndex writes a row that must not exist yet
func createIndex(r row) TransactItem {
	return TransactItem{Operation: OperationPut, PK: r.pk, SK: r.sk, Item: r.item, Condition: ConditionMustNotExist}
}

// updateIndexes rewrites rows that must already exist, skipping any in except
func updateIndexes(rows []row, except ...itemKey) []TransactItem {
	items := make([]TransactItem, 0, len(rows))
	for _, r := range rows {
		if slices.Contains(except, r.key()) {
			continue
		}
		items = append(items, TransactItem{Operation: OperationPut, PK: r.pk, SK: r.sk, Item: r.item, Condition: ConditionMustExist})
	}
	return items
}

// deleteIndex removes a row that must exist
func deleteIndex(pk, sk string) TransactItem {
	return TransactItem{Operation: OperationDelete, PK: pk, SK: sk, Condition: ConditionMustExist}
}

func createIndexes(rows []row) []TransactItem {
	items := make([]TransactItem, len(rows))
	for i, r := range rows {
		items[i] = createIndex(r)
	}
	return items
}

func unmarshalState[S any](item map[string]types.AttributeValue) (S, error) {
	var state S
	if err := attributevalue.UnmarshalMap(item, &state); err != nil {
		return state, fmt.Errorf("failed to unmarshal row: %w", err)
	}
	return state, nil
}
