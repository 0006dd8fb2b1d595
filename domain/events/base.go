package events

import "time"

// Event is a state change of one aggregate. Every variant carries the full state of the aggregate as
// of the change, so the rows of every index can be rebuilt from the event alone.
//
// The interface is sealed: only the variants in this package implement it.
type Event interface {
	GetEventType() string
	GetAggregateID() string
	GetTimestamp() *time.Time
	isEvent()
}

// DeviceEvent is implemented by every Device event
type DeviceEvent interface {
	Event
	deviceEvent()
}

// DeviceReferenceDataEvent is implemented by every DeviceReferenceData event
type DeviceReferenceDataEvent interface {
	Event
	deviceReferenceDataEvent()
}

// ProductEvent is implemented by every Product event
type ProductEvent interface {
	Event
	productEvent()
}

// ProductTeamEvent is implemented by every ProductTeam event
type ProductTeamEvent interface {
	Event
	productTeamEvent()
}

type deviceVariant struct{}

func (deviceVariant) isEvent()     {}
func (deviceVariant) deviceEvent() {}

type deviceReferenceDataVariant struct{}

func (deviceReferenceDataVariant) isEvent()                  {}
func (deviceReferenceDataVariant) deviceReferenceDataEvent() {}

type productVariant struct{}

func (productVariant) isEvent()      {}
func (productVariant) productEvent() {}

type productTeamVariant struct{}

func (productTeamVariant) isEvent()          {}
func (productTeamVariant) productTeamEvent() {}
