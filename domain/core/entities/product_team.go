package entities

import "connecting-party-manager/domain/core/valueobjects"

// ProductTeamState is the full state of a ProductTeam
type ProductTeamState struct {
	ID      string `json:"id" dynamodbav:"id"`
	Name    string `json:"name" dynamodbav:"name"`
	OdsCode string `json:"ods_code" dynamodbav:"ods_code"`
	Lifecycle

	Keys []valueobjects.Key `json:"keys,omitempty" dynamodbav:"keys,omitempty"`
}

// GetAggregateID returns the product team id
func (s ProductTeamState) GetAggregateID() string { return s.ID }

// Clone returns a deep copy
func (s ProductTeamState) Clone() ProductTeamState {
	s.Keys = nilIfEmpty(s.Keys)
	return s
}
