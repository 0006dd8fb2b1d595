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

// Product belongs to a ProductTeam and owns devices and device reference data
type Product struct {
	AggregateRoot
	state entities.ProductState
}

// ProductOption customises product creation
type ProductOption func(*entities.ProductState)

// WithProductID uses an existing product id instead of generating one
func WithProductID(id valueobjects.ProductID) ProductOption {
	return func(s *entities.ProductState) { s.ID = id }
}

// WithProductKeys creates the product with the given keys
func WithProductKeys(keys ...valueobjects.Key) ProductOption {
	return func(s *entities.ProductState) { s.Keys = append(s.Keys, keys...) }
}

type productInput struct {
	Name string `json:"name" validate:"required,entity_name"`
}

func newProduct(team entities.ProductTeamState, name string, opts ...ProductOption) (*Product, error) {
	if err := valueobjects.ValidateStruct(productInput{Name: name}); err != nil {
		return nil, err
	}
	state := entities.ProductState{
		ID:            valueobjects.NewProductID(),
		Name:          name,
		ProductTeamID: team.ID,
		OdsCode:       team.OdsCode,
		Lifecycle:     entities.NewLifecycle(now()),
	}
	for _, opt := range opts {
		opt(&state)
	}
	if !valueobjects.IsProductID(string(state.ID)) {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("invalid product id: '%s'", state.ID))
	}
	if err := validateKeys(state.Keys, valueobjects.NewProductKey); err != nil {
		return nil, err
	}

	p := &Product{state: state.Clone()}
	p.recordCreation(&events.ProductCreatedEvent{ProductState: p.state.Clone()})
	return p, nil
}

// ReconstructProduct rebuilds a product from persisted state
func ReconstructProduct(state entities.ProductState) *Product {
	return &Product{state: state.Clone()}
}

// State returns a copy of the product state
func (p *Product) State() entities.ProductState { return p.state.Clone() }

// ID returns the product id
func (p *Product) ID() valueobjects.ProductID { return p.state.ID }

func (p *Product) Name() string             { return p.state.Name }
func (p *Product) ProductTeamID() string    { return p.state.ProductTeamID }
func (p *Product) OdsCode() string          { return p.state.OdsCode }
func (p *Product) CreatedOn() time.Time     { return p.state.CreatedOn }
func (p *Product) UpdatedOn() *time.Time    { return p.state.UpdatedOn }
func (p *Product) IsActive() bool           { return p.state.IsActive() }
func (p *Product) Keys() []valueobjects.Key { return slices.Clone(p.state.Keys) }

// CreateDevice creates a device owned by this product
func (p *Product) CreateDevice(name string, env valueobjects.Environment) (*Device, error) {
	if !p.state.IsActive() {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("product '%s' has been deleted", p.state.ID))
	}
	return newDevice(p.state, name, env)
}

// CreateDeviceReferenceData creates a reference data bundle owned by this product
func (p *Product) CreateDeviceReferenceData(name string, env valueobjects.Environment) (*DeviceReferenceData, error) {
	if !p.state.IsActive() {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("product '%s' has been deleted", p.state.ID))
	}
	return newDeviceReferenceData(p.state, name, env)
}

// AddKey adds an alias the product can be read by
func (p *Product) AddKey(keyType valueobjects.KeyType, keyValue string) (*events.ProductKeyAddedEvent, error) {
	if !p.state.IsActive() {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("product '%s' has been deleted", p.state.ID))
	}
	key, err := valueobjects.NewProductKey(keyType, keyValue)
	if err != nil {
		return nil, err
	}
	if valueobjects.ContainsKeyValue(p.state.Keys, key.KeyValue) {
		return nil, duplicateKeyError(key)
	}
	next := p.state.Clone()
	next.Keys = append(next.Keys, key)
	next.Lifecycle = next.Touched(nextTimestamp(p.state.Lifecycle))

	ev := &events.ProductKeyAddedEvent{ProductState: next.Clone(), NewKey: key}
	p.state = next
	p.record(ev)
	return ev, nil
}

// Delete marks the product inactive
func (p *Product) Delete() (*events.ProductDeletedEvent, error) {
	if !p.state.IsActive() {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("product '%s' has been deleted", p.state.ID))
	}
	next := p.state.Clone()
	next.Lifecycle = next.Deleted(nextTimestamp(p.state.Lifecycle))

	ev := &events.ProductDeletedEvent{ProductState: next.Clone()}
	p.state = next
	p.record(ev)
	return ev, nil
}

// validateKeys checks the format of every key and that no two keys share a value
func validateKeys(keys []valueobjects.Key, build func(valueobjects.KeyType, string) (valueobjects.Key, error)) error {
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if _, err := build(k.KeyType, k.KeyValue); err != nil {
			return err
		}
		if seen[k.KeyValue] {
			return duplicateKeyError(k)
		}
		seen[k.KeyValue] = true
	}
	return nil
}

func duplicateKeyError(k valueobjects.Key) error {
	return pkgerrors.NewDuplicateError(fmt.Sprintf("It is forbidden to supply duplicate keys: %s", k))
}
