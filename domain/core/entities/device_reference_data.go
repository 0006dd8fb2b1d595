package entities

import "connecting-party-manager/domain/core/valueobjects"

// DeviceReferenceDataState is the full state of a DeviceReferenceData bundle
type DeviceReferenceDataState struct {
	ID            string                   `json:"id" dynamodbav:"id"`
	Name          string                   `json:"name" dynamodbav:"name"`
	Environment   valueobjects.Environment `json:"environment" dynamodbav:"environment"`
	ProductID     valueobjects.ProductID   `json:"product_id" dynamodbav:"product_id"`
	ProductTeamID string                   `json:"product_team_id" dynamodbav:"product_team_id"`
	OdsCode       string                   `json:"ods_code" dynamodbav:"ods_code"`
	Lifecycle

	QuestionnaireResponses map[string][]valueobjects.QuestionnaireResponse `json:"questionnaire_responses,omitempty" dynamodbav:"questionnaire_responses,omitempty"`
}

// GetAggregateID returns the reference data id
func (s DeviceReferenceDataState) GetAggregateID() string { return s.ID }

// Clone returns a deep copy
func (s DeviceReferenceDataState) Clone() DeviceReferenceDataState {
	s.QuestionnaireResponses = cloneResponses(s.QuestionnaireResponses)
	return s
}
