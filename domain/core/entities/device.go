package entities

import "connecting-party-manager/domain/core/valueobjects"

// DeviceState is the full state of a Device
type DeviceState struct {
	ID            string                   `json:"id" dynamodbav:"id"`
	Name          string                   `json:"name" dynamodbav:"name"`
	Environment   valueobjects.Environment `json:"environment" dynamodbav:"environment"`
	ProductID     valueobjects.ProductID   `json:"product_id" dynamodbav:"product_id"`
	ProductTeamID string                   `json:"product_team_id" dynamodbav:"product_team_id"`
	OdsCode       string                   `json:"ods_code" dynamodbav:"ods_code"`
	Lifecycle

	Keys                   []valueobjects.Key                                `json:"keys,omitempty" dynamodbav:"keys,omitempty"`
	Tags                   []valueobjects.DeviceTag                          `json:"tags,omitempty" dynamodbav:"tags,omitempty"`
	QuestionnaireResponses map[string][]valueobjects.QuestionnaireResponse `json:"questionnaire_responses,omitempty" dynamodbav:"questionnaire_responses,omitempty"`
	DeviceReferenceData    map[string][]string                               `json:"device_reference_data,omitempty" dynamodbav:"device_reference_data,omitempty"`
}

// GetAggregateID returns the device id
func (s DeviceState) GetAggregateID() string { return s.ID }

// Clone returns a deep copy; empty collections are normalised to nil.
func (s DeviceState) Clone() DeviceState {
	s.Keys = nilIfEmpty(s.Keys)
	s.Tags = nilIfEmpty(s.Tags)
	s.QuestionnaireResponses = cloneResponses(s.QuestionnaireResponses)
	s.DeviceReferenceData = cloneReferences(s.DeviceReferenceData)
	return s
}
