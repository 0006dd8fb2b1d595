package events

import (
	"connecting-party-manager/domain/core/entities"
	"connecting-party-manager/domain/core/valueobjects"
)

const (
	TypeDeviceReferenceDataCreated                      = "DeviceReferenceDataCreatedEvent"
	TypeDeviceReferenceDataQuestionnaireResponseAdded   = "DeviceReferenceDataQuestionnaireResponseAddedEvent"
	TypeDeviceReferenceDataQuestionnaireResponseRemoved = "DeviceReferenceDataQuestionnaireResponseRemovedEvent"
	TypeDeviceReferenceDataDeleted                      = "DeviceReferenceDataDeletedEvent"
)

// DeviceReferenceDataEventTypes lists every DeviceReferenceData event variant
var DeviceReferenceDataEventTypes = []string{
	TypeDeviceReferenceDataCreated,
	TypeDeviceReferenceDataQuestionnaireResponseAdded,
	TypeDeviceReferenceDataQuestionnaireResponseRemoved,
	TypeDeviceReferenceDataDeleted,
}

type DeviceReferenceDataCreatedEvent struct {
	deviceReferenceDataVariant
	entities.DeviceReferenceDataState
}

type DeviceReferenceDataQuestionnaireResponseAddedEvent struct {
	deviceReferenceDataVariant
	entities.DeviceReferenceDataState
	QuestionnaireResponse valueobjects.QuestionnaireResponse `json:"questionnaire_response"`
}

type DeviceReferenceDataQuestionnaireResponseRemovedEvent struct {
	deviceReferenceDataVariant
	entities.DeviceReferenceDataState
	QuestionnaireID string `json:"questionnaire_id"`
	ResponseID      string `json:"questionnaire_response_id"`
}

type DeviceReferenceDataDeletedEvent struct {
	deviceReferenceDataVariant
	entities.DeviceReferenceDataState
}

func (DeviceReferenceDataCreatedEvent) GetEventType() string {
	return TypeDeviceReferenceDataCreated
}

func (DeviceReferenceDataQuestionnaireResponseAddedEvent) GetEventType() string {
	return TypeDeviceReferenceDataQuestionnaireResponseAdded
}

func (DeviceReferenceDataQuestionnaireResponseRemovedEvent) GetEventType() string {
	return TypeDeviceReferenceDataQuestionnaireResponseRemoved
}

func (DeviceReferenceDataDeletedEvent) GetEventType() string {
	return TypeDeviceReferenceDataDeleted
}
