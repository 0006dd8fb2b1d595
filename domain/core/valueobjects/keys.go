package valueobjects

import (
	"fmt"
	"regexp"
	"slices"
)

// KeyType names the kind of secondary identifier an aggregate can be looked up by
type KeyType string

const (
	// Device keys
	KeyTypeProductID               KeyType = "product_id"
	KeyTypeAccreditedSystemID      KeyType = "accredited_system_id"
	KeyTypeMessageHandlingSystemID KeyType = "message_handling_system_id"
	KeyTypeCpaID                   KeyType = "cpa_id"

	// Product keys
	KeyTypePartyKey KeyType = "party_key"

	// Product team keys
	KeyTypeProductTeamIDAlias KeyType = "product_team_id_alias"
)

var keyPatterns = map[KeyType]*regexp.Regexp{
	KeyTypeProductID:               productIDPattern,
	KeyTypeAccreditedSystemID:      regexp.MustCompile(`^[0-9]{1,12}$`),
	KeyTypeMessageHandlingSystemID: regexp.MustCompile(`^[A-Za-z0-9]+-[0-9]{1,6}:[A-Za-z0-9:\-_.]+$`),
	KeyTypeCpaID:                   regexp.MustCompile(`^[A-Za-z0-9:\-_.]{1,128}$`),
	KeyTypePartyKey:                regexp.MustCompile(`^[A-Za-z0-9]+-[0-9]{1,6}$`),
	KeyTypeProductTeamIDAlias:      regexp.MustCompile(`^[\w\-.:]{1,128}$`),
}

var (
	deviceKeyTypes      = []KeyType{KeyTypeProductID, KeyTypeAccreditedSystemID, KeyTypeMessageHandlingSystemID, KeyTypeCpaID}
	productKeyTypes     = []KeyType{KeyTypePartyKey}
	productTeamKeyTypes = []KeyType{KeyTypeProductTeamIDAlias}
)

// Key is a typed secondary identifier. Two keys are equal when both type and value match.
type Key struct {
	KeyType  KeyType `json:"key_type" dynamodbav:"key_type"`
	KeyValue string  `json:"key_value" dynamodbav:"key_value"`
}

// NewDeviceKey validates a key for a Device
func NewDeviceKey(keyType KeyType, keyValue string) (Key, error) {
	return newKey(deviceKeyTypes, keyType, keyValue)
}

// NewProductKey validates a key for a Product
func NewProductKey(keyType KeyType, keyValue string) (Key, error) {
	return newKey(productKeyTypes, keyType, keyValue)
}

// NewProductTeamKey validates a key for a ProductTeam
func NewProductTeamKey(keyType KeyType, keyValue string) (Key, error) {
	return newKey(productTeamKeyTypes, keyType, keyValue)
}

func newKey(allowed []KeyType, keyType KeyType, keyValue string) (Key, error) {
	if !slices.Contains(allowed, keyType) {
		return Key{}, invalidFormat("key type", string(keyType))
	}
	if !keyPatterns[keyType].MatchString(keyValue) {
		return Key{}, invalidFormat(fmt.Sprintf("%s key value", keyType), keyValue)
	}
	return Key{KeyType: keyType, KeyValue: keyValue}, nil
}

// String renders the key as 'type':'value'
func (k Key) String() string {
	return fmt.Sprintf("'%s':'%s'", k.KeyType, k.KeyValue)
}

// ContainsKey reports whether keys holds a key equal to k
func ContainsKey(keys []Key, k Key) bool {
	return slices.Contains(keys, k)
}

// ContainsKeyValue reports whether any key in keys has the given value, whatever its type.
// Alias rows are addressed by value, so two keys of one aggregate may never share a value.
func ContainsKeyValue(keys []Key, value string) bool {
	return slices.ContainsFunc(keys, func(k Key) bool { return k.KeyValue == value })
}
