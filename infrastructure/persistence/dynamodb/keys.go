package dynamodb

import "strings"

// KeySeparator joins a key prefix to an id, and the root keys of a partition chain
const KeySeparator = "#"

// TableKey is the prefix of every physical key belonging to one kind of row
type TableKey string

const (
	TableKeyProductTeam         TableKey = "PT"
	TableKeyProductTeamAlias    TableKey = "PTA"
	TableKeyProduct             TableKey = "P"
	TableKeyProductAlias        TableKey = "PA"
	TableKeyDevice              TableKey = "D"
	TableKeyDeviceAlias         TableKey = "DK"
	TableKeyDeviceTag           TableKey = "DT"
	TableKeyDeviceReferenceData TableKey = "DRD"
)

// Key returns "{prefix}#{id}"
func (k TableKey) Key(id string) string {
	return string(k) + KeySeparator + id
}

// StripPrefix returns the id of a key built with Key
func (k TableKey) StripPrefix(key string) string {
	return strings.TrimPrefix(key, string(k)+KeySeparator)
}

// PartitionKey joins the root keys of an ancestor chain
func PartitionKey(rootKeys ...string) string {
	return strings.Join(rootKeys, KeySeparator)
}

// Partition keys of each aggregate. Product teams have no parent and share one partition.

func productTeamPartition() string {
	return string(TableKeyProductTeam)
}

func productPartition(productTeamID string) string {
	return TableKeyProductTeam.Key(productTeamID)
}

func productChildPartition(productTeamID, productID string) string {
	return PartitionKey(TableKeyProductTeam.Key(productTeamID), TableKeyProduct.Key(productID))
}

func deviceTagPartition(tag string) string {
	return TableKeyDeviceTag.Key(tag)
}
