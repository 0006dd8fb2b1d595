package entities

import "connecting-party-manager/domain/core/valueobjects"

// ProductState is the full state of a Product
type ProductState struct {
	ID            valueobjects.ProductID `json:"id" dynamodbav:"id"`
	Name          string                 `json:"name" dynamodbav:"name"`
	ProductTeamID string                 `json:"product_team_id" dynamodbav:"product_team_id"`
	OdsCode       string                 `json:"ods_code" dynamodbav:"ods_code"`
	Lifecycle

	Keys []valueobjects.Key `json:"keys,omitempty" dynamodbav:"keys,omitempty"`
}

// GetAggregateID returns the product id
func (s ProductState) GetAggregateID() string { return string(s.ID) }

// Clone returns a deep copy
func (s ProductState) Clone() ProductState {
	s.Keys = nilIfEmpty(s.Keys)
	return s
}
