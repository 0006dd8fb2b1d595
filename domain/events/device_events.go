package events

import (
	"connecting-party-manager/domain/core/entities"
	"connecting-party-manager/domain/core/valueobjects"
)

const (
	TypeDeviceCreated                = "DeviceCreatedEvent"
	TypeDeviceUpdated                = "DeviceUpdatedEvent"
	TypeDeviceDeleted                = "DeviceDeletedEvent"
	TypeDeviceHardDeleted            = "DeviceHardDeletedEvent"
	TypeDeviceKeyAdded               = "DeviceKeyAddedEvent"
	TypeDeviceKeyDeleted             = "DeviceKeyDeletedEvent"
	TypeDeviceTagAdded               = "DeviceTagAddedEvent"
	TypeDeviceTagsAdded              = "DeviceTagsAddedEvent"
	TypeDeviceTagsCleared            = "DeviceTagsClearedEvent"
	TypeQuestionnaireResponseUpdated = "QuestionnaireResponseUpdatedEvent"
	TypeDeviceReferenceDataIDAdded   = "DeviceReferenceDataIdAddedEvent"
)

// DeviceEventTypes lists every Device event variant
var DeviceEventTypes = []string{
	TypeDeviceCreated,
	TypeDeviceUpdated,
	TypeDeviceDeleted,
	TypeDeviceHardDeleted,
	TypeDeviceKeyAdded,
	TypeDeviceKeyDeleted,
	TypeDeviceTagAdded,
	TypeDeviceTagsAdded,
	TypeDeviceTagsCleared,
	TypeQuestionnaireResponseUpdated,
	TypeDeviceReferenceDataIDAdded,
}

// DeviceCreatedEvent is raised when a product creates a new device
type DeviceCreatedEvent struct {
	deviceVariant
	entities.DeviceState
}

// DeviceUpdatedEvent is raised when device attributes change
type DeviceUpdatedEvent struct {
	deviceVariant
	entities.DeviceState
}

// DeviceDeletedEvent is raised on soft delete. DeletedTags holds the tags cleared by the delete.
type DeviceDeletedEvent struct {
	deviceVariant
	entities.DeviceState
	DeletedTags []valueobjects.DeviceTag `json:"deleted_tags,omitempty"`
}

// DeviceHardDeletedEvent removes every row of the device
type DeviceHardDeletedEvent struct {
	deviceVariant
	entities.DeviceState
}

type DeviceKeyAddedEvent struct {
	deviceVariant
	entities.DeviceState
	NewKey valueobjects.Key `json:"new_key"`
}

type DeviceKeyDeletedEvent struct {
	deviceVariant
	entities.DeviceState
	DeletedKey valueobjects.Key `json:"deleted_key"`
}

type DeviceTagAddedEvent struct {
	deviceVariant
	entities.DeviceState
	NewTag valueobjects.DeviceTag `json:"new_tag"`
}

type DeviceTagsAddedEvent struct {
	deviceVariant
	entities.DeviceState
	NewTags []valueobjects.DeviceTag `json:"new_tags"`
}

type DeviceTagsClearedEvent struct {
	deviceVariant
	entities.DeviceState
	DeletedTags []valueobjects.DeviceTag `json:"deleted_tags"`
}

// QuestionnaireResponseUpdatedEvent is raised when a device gains a questionnaire response
type QuestionnaireResponseUpdatedEvent struct {
	deviceVariant
	entities.DeviceState
	QuestionnaireResponse valueobjects.QuestionnaireResponse `json:"questionnaire_response"`
}

// DeviceReferenceDataIDAddedEvent links a device to paths inside a reference data bundle
type DeviceReferenceDataIDAddedEvent struct {
	deviceVariant
	entities.DeviceState
	DeviceReferenceDataID string   `json:"device_reference_data_id"`
	PathToData            []string `json:"path_to_data"`
}

func (DeviceCreatedEvent) GetEventType() string                { return TypeDeviceCreated }
func (DeviceUpdatedEvent) GetEventType() string                { return TypeDeviceUpdated }
func (DeviceDeletedEvent) GetEventType() string                { return TypeDeviceDeleted }
func (DeviceHardDeletedEvent) GetEventType() string            { return TypeDeviceHardDeleted }
func (DeviceKeyAddedEvent) GetEventType() string               { return TypeDeviceKeyAdded }
func (DeviceKeyDeletedEvent) GetEventType() string             { return TypeDeviceKeyDeleted }
func (DeviceTagAddedEvent) GetEventType() string               { return TypeDeviceTagAdded }
func (DeviceTagsAddedEvent) GetEventType() string              { return TypeDeviceTagsAdded }
func (DeviceTagsClearedEvent) GetEventType() string            { return TypeDeviceTagsCleared }
func (QuestionnaireResponseUpdatedEvent) GetEventType() string { return TypeQuestionnaireResponseUpdated }
func (DeviceReferenceDataIDAddedEvent) GetEventType() string   { return TypeDeviceReferenceDataIDAdded }
