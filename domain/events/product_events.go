package events

import (
	"connecting-party-manager/domain/core/entities"
	"connecting-party-manager/domain/core/valueobjects"
)

const (
	TypeProductCreated  = "ProductCreatedEvent"
	TypeProductKeyAdded = "ProductKeyAddedEvent"
	TypeProductDeleted  = "ProductDeletedEvent"

	TypeProductTeamCreated  = "ProductTeamCreatedEvent"
	TypeProductTeamKeyAdded = "ProductTeamKeyAddedEvent"
	TypeProductTeamDeleted  = "ProductTeamDeletedEvent"
)

// ProductEventTypes lists every Product event variant
var ProductEventTypes = []string{TypeProductCreated, TypeProductKeyAdded, TypeProductDeleted}

// ProductTeamEventTypes lists every ProductTeam event variant
var ProductTeamEventTypes = []string{TypeProductTeamCreated, TypeProductTeamKeyAdded, TypeProductTeamDeleted}

type ProductCreatedEvent struct {
	productVariant
	entities.ProductState
}

type ProductKeyAddedEvent struct {
	productVariant
	entities.ProductState
	NewKey valueobjects.Key `json:"new_key"`
}

type ProductDeletedEvent struct {
	productVariant
	entities.ProductState
}

type ProductTeamCreatedEvent struct {
	productTeamVariant
	entities.ProductTeamState
}

type ProductTeamKeyAddedEvent struct {
	productTeamVariant
	entities.ProductTeamState
	NewKey valueobjects.Key `json:"new_key"`
}

type ProductTeamDeletedEvent struct {
	productTeamVariant
	entities.ProductTeamState
}

func (ProductCreatedEvent) GetEventType() string      { return TypeProductCreated }
func (ProductKeyAddedEvent) GetEventType() string     { return TypeProductKeyAdded }
func (ProductDeletedEvent) GetEventType() string      { return TypeProductDeleted }
func (ProductTeamCreatedEvent) GetEventType() string  { return TypeProductTeamCreated }
func (ProductTeamKeyAddedEvent) GetEventType() string { return TypeProductTeamKeyAdded }
func (ProductTeamDeletedEvent) GetEventType() string  { return TypeProductTeamDeleted }
