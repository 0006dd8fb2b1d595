package aggregates

import (
	"fmt"
	"slices"
	"time"

	"connecting-party-manager/domain/core/entities"
	"connecting-party-manager/domain/core/valueobjects"
	"connecting-party-manager/domain/events"
	pkgerrors "connecting-party-manager/pkg/errors"
)

// Device is a registered system or endpoint owned by a Product
type Device struct {
	AggregateRoot
	state entities.DeviceState
}

type deviceInput struct {
	Name        string                   `json:"name" validate:"required,entity_name"`
	Environment valueobjects.Environment `json:"environment" validate:"required,environment"`
}

func newDevice(product entities.ProductState, name string, env valueobjects.Environment) (*Device, error) {
	if err := valueobjects.ValidateStruct(deviceInput{Name: name, Environment: env}); err != nil {
		return nil, err
	}
	d := &Device{state: entities.DeviceState{
		ID:            valueobjects.NewID(),
		Name:          name,
		Environment:   env,
		ProductID:     product.ID,
		ProductTeamID: product.ProductTeamID,
		OdsCode:       product.OdsCode,
		Lifecycle:     entities.NewLifecycle(now()),
	}}
	d.recordCreation(&events.DeviceCreatedEvent{DeviceState: d.state.Clone()})
	return d, nil
}

// ReconstructDevice rebuilds a device from persisted state without raising events
func ReconstructDevice(state entities.DeviceState) *Device {
	return &Device{state: state.Clone()}
}

// State returns a copy of the device state
func (d *Device) State() entities.DeviceState { return d.state.Clone() }

// ID returns the device's unique identifier
func (d *Device) ID() string { return d.state.ID }

func (d *Device) Name() string                          { return d.state.Name }
func (d *Device) Status() valueobjects.Status           { return d.state.Status }
func (d *Device) Environment() valueobjects.Environment { return d.state.Environment }
func (d *Device) ProductID() valueobjects.ProductID     { return d.state.ProductID }
func (d *Device) ProductTeamID() string                 { return d.state.ProductTeamID }
func (d *Device) OdsCode() string                       { return d.state.OdsCode }
func (d *Device) CreatedOn() time.Time                  { return d.state.CreatedOn }
func (d *Device) UpdatedOn() *time.Time                 { return d.state.UpdatedOn }
func (d *Device) DeletedOn() *time.Time                 { return d.state.DeletedOn }
func (d *Device) IsActive() bool                        { return d.state.IsActive() }
func (d *Device) Keys() []valueobjects.Key              { return slices.Clone(d.state.Keys) }
func (d *Device) Tags() []valueobjects.DeviceTag        { return slices.Clone(d.state.Tags) }

// QuestionnaireResponses returns the responses recorded under "{name}/{version}"
func (d *Device) QuestionnaireResponses(questionnaireID string) []valueobjects.QuestionnaireResponse {
	return slices.Clone(d.state.QuestionnaireResponses[questionnaireID])
}

// Update renames the device
func (d *Device) Update(name string) (*events.DeviceUpdatedEvent, error) {
	next, err := d.mutable()
	if err != nil {
		return nil, err
	}
	if err := valueobjects.ValidateStruct(deviceInput{Name: name, Environment: next.Environment}); err != nil {
		return nil, err
	}
	next.Name = name
	next.Lifecycle = next.Touched(nextTimestamp(d.state.Lifecycle))

	ev := &events.DeviceUpdatedEvent{DeviceState: next.Clone()}
	d.apply(next, ev)
	return ev, nil
}

// AddKey adds a secondary key the device can be read by
func (d *Device) AddKey(keyType valueobjects.KeyType, keyValue string) (*events.DeviceKeyAddedEvent, error) {
	key, err := valueobjects.NewDeviceKey(keyType, keyValue)
	if err != nil {
		return nil, err
	}
	next, ev, err := addDeviceKey(d.state, key, nextTimestamp(d.state.Lifecycle))
	if err != nil {
		return nil, err
	}
	d.apply(next, ev)
	return ev, nil
}

// DeleteKey removes a secondary key
func (d *Device) DeleteKey(keyType valueobjects.KeyType, keyValue string) (*events.DeviceKeyDeletedEvent, error) {
	next, ev, err := deleteDeviceKey(d.state, valueobjects.Key{KeyType: keyType, KeyValue: keyValue}, nextTimestamp(d.state.Lifecycle))
	if err != nil {
		return nil, err
	}
	d.apply(next, ev)
	return ev, nil
}

// AddTag adds a search tag
func (d *Device) AddTag(tag valueobjects.DeviceTag) (*events.DeviceTagAddedEvent, error) {
	next, added, err := addDeviceTags(d.state, []valueobjects.DeviceTag{tag}, nextTimestamp(d.state.Lifecycle))
	if err != nil {
		return nil, err
	}
	ev := &events.DeviceTagAddedEvent{DeviceState: next.Clone(), NewTag: added[0]}
	d.apply(next, ev)
	return ev, nil
}

// AddTags adds several tags in one event. Either every tag is added or none is.
func (d *Device) AddTags(tags ...valueobjects.DeviceTag) (*events.DeviceTagsAddedEvent, error) {
	next, added, err := addDeviceTags(d.state, tags, nextTimestamp(d.state.Lifecycle))
	if err != nil {
		return nil, err
	}
	ev := &events.DeviceTagsAddedEvent{DeviceState: next.Clone(), NewTags: added}
	d.apply(next, ev)
	return ev, nil
}

// ClearTags removes every tag
func (d *Device) ClearTags() (*events.DeviceTagsClearedEvent, error) {
	next, err := d.mutable()
	if err != nil {
		return nil, err
	}
	deleted := next.Tags
	next.Tags = nil
	next.Lifecycle = next.Touched(nextTimestamp(d.state.Lifecycle))

	ev := &events.DeviceTagsClearedEvent{DeviceState: next.Clone(), DeletedTags: slices.Clone(deleted)}
	d.apply(next, ev)
	return ev, nil
}

// AddQuestionnaireResponse records a validated questionnaire response
func (d *Device) AddQuestionnaireResponse(response valueobjects.QuestionnaireResponse) (*events.QuestionnaireResponseUpdatedEvent, error) {
	next, err := d.mutable()
	if err != nil {
		return nil, err
	}
	responses, err := appendResponse(next.QuestionnaireResponses, response)
	if err != nil {
		return nil, err
	}
	next.QuestionnaireResponses = responses
	next.Lifecycle = next.Touched(nextTimestamp(d.state.Lifecycle))

	ev := &events.QuestionnaireResponseUpdatedEvent{DeviceState: next.Clone(), QuestionnaireResponse: response}
	d.apply(next, ev)
	return ev, nil
}

// AddDeviceReferenceDataID links the device to paths inside a reference data bundle.
// With no paths the whole bundle ("*") is referenced.
func (d *Device) AddDeviceReferenceDataID(referenceDataID string, paths ...string) (*events.DeviceReferenceDataIDAddedEvent, error) {
	next, err := d.mutable()
	if err != nil {
		return nil, err
	}
	if !valueobjects.IsUUID(referenceDataID) {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("invalid device reference data id: '%s'", referenceDataID))
	}
	if len(paths) == 0 {
		paths = []string{"*"}
	}
	existing := next.DeviceReferenceData[referenceDataID]
	for _, path := range paths {
		if slices.Contains(existing, path) {
			return nil, pkgerrors.NewDuplicateError(fmt.Sprintf(
				"It is forbidden to supply duplicate paths: '%s' already references '%s'", referenceDataID, path))
		}
		existing = append(existing, path)
	}
	if next.DeviceReferenceData == nil {
		next.DeviceReferenceData = map[string][]string{}
	}
	next.DeviceReferenceData[referenceDataID] = existing
	next.Lifecycle = next.Touched(nextTimestamp(d.state.Lifecycle))

	ev := &events.DeviceReferenceDataIDAddedEvent{
		DeviceState:           next.Clone(),
		DeviceReferenceDataID: referenceDataID,
		PathToData:            slices.Clone(paths),
	}
	d.apply(next, ev)
	return ev, nil
}

// Delete marks the device inactive and clears its tags
func (d *Device) Delete() (*events.DeviceDeletedEvent, error) {
	next, err := d.mutable()
	if err != nil {
		return nil, err
	}
	deleted := next.Tags
	next.Tags = nil
	next.Lifecycle = next.Deleted(nextTimestamp(d.state.Lifecycle))

	ev := &events.DeviceDeletedEvent{DeviceState: next.Clone(), DeletedTags: slices.Clone(deleted)}
	d.apply(next, ev)
	return ev, nil
}

// HardDelete removes the device and all of its rows. It is used by ETL to clean up orphans.
func (d *Device) HardDelete() *events.DeviceHardDeletedEvent {
	next := d.state.Clone()
	next.Lifecycle.UpdatedOn = timePtr(nextTimestamp(d.state.Lifecycle))

	ev := &events.DeviceHardDeletedEvent{DeviceState: next.Clone()}
	d.apply(next, ev)
	return ev
}

func (d *Device) mutable() (entities.DeviceState, error) {
	if !d.state.IsActive() {
		return entities.DeviceState{}, pkgerrors.NewValidationError(fmt.Sprintf("device '%s' has been deleted", d.state.ID))
	}
	return d.state.Clone(), nil
}

func (d *Device) apply(next entities.DeviceState, ev events.DeviceEvent) {
	d.state = next
	d.record(ev)
}

func addDeviceKey(s entities.DeviceState, key valueobjects.Key, at time.Time) (entities.DeviceState, *events.DeviceKeyAddedEvent, error) {
	if !s.IsActive() {
		return s, nil, pkgerrors.NewValidationError(fmt.Sprintf("device '%s' has been deleted", s.ID))
	}
	if valueobjects.ContainsKeyValue(s.Keys, key.KeyValue) {
		return s, nil, duplicateKeyError(key)
	}
	next := s.Clone()
	next.Keys = append(next.Keys, key)
	next.Lifecycle = next.Touched(at)
	return next, &events.DeviceKeyAddedEvent{DeviceState: next.Clone(), NewKey: key}, nil
}

func deleteDeviceKey(s entities.DeviceState, key valueobjects.Key, at time.Time) (entities.DeviceState, *events.DeviceKeyDeletedEvent, error) {
	if !s.IsActive() {
		return s, nil, pkgerrors.NewValidationError(fmt.Sprintf("device '%s' has been deleted", s.ID))
	}
	if !valueobjects.ContainsKey(s.Keys, key) {
		return s, nil, pkgerrors.NewNotFoundError(fmt.Sprintf("This device does not contain key %s", key))
	}
	next := s.Clone()
	next.Keys = slices.DeleteFunc(next.Keys, func(k valueobjects.Key) bool { return k == key })
	if len(next.Keys) == 0 {
		next.Keys = nil
	}
	next.Lifecycle = next.Touched(at)
	return next, &events.DeviceKeyDeletedEvent{DeviceState: next.Clone(), DeletedKey: key}, nil
}

func addDeviceTags(s entities.DeviceState, tags []valueobjects.DeviceTag, at time.Time) (entities.DeviceState, []valueobjects.DeviceTag, error) {
	if !s.IsActive() {
		return s, nil, pkgerrors.NewValidationError(fmt.Sprintf("device '%s' has been deleted", s.ID))
	}
	if len(tags) == 0 {
		return s, nil, pkgerrors.NewValidationError("at least one tag is required")
	}
	next := s.Clone()
	for _, tag := range tags {
		if tag == "" {
			return s, nil, pkgerrors.NewValidationError("tags must not be empty")
		}
		if slices.Contains(next.Tags, tag) {
			return s, nil, pkgerrors.NewDuplicateError(fmt.Sprintf("It is forbidden to supply duplicate tag: '%s'", tag))
		}
		next.Tags = append(next.Tags, tag)
	}
	slices.Sort(next.Tags)
	next.Lifecycle = next.Touched(at)
	return next, slices.Clone(tags), nil
}

func appendResponse(
	in map[string][]valueobjects.QuestionnaireResponse,
	response valueobjects.QuestionnaireResponse,
) (map[string][]valueobjects.QuestionnaireResponse, error) {
	id := response.QuestionnaireID()
	for _, existing := range in[id] {
		if existing.ID == response.ID {
			return nil, pkgerrors.NewDuplicateError(fmt.Sprintf(
				"It is forbidden to supply duplicate questionnaire responses: '%s' already has response '%s'", id, response.ID))
		}
	}
	if in == nil {
		in = map[string][]valueobjects.QuestionnaireResponse{}
	}
	in[id] = append(in[id], response)
	return in, nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}
