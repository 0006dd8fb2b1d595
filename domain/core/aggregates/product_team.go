package aggregates

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"connecting-party-manager/domain/core/entities"
	"connecting-party-manager/domain/core/valueobjects"
	"connecting-party-manager/domain/events"
	pkgerrors "connecting-party-manager/pkg/errors"
)

// ProductTeam is the root of the organisational hierarchy. It owns products.
type ProductTeam struct {
	AggregateRoot
	state entities.ProductTeamState
}

// ProductTeamOption customises product team creation
type ProductTeamOption func(*entities.ProductTeamState)

// WithProductTeamID uses an existing id instead of generating one
func WithProductTeamID(id string) ProductTeamOption {
	return func(s *entities.ProductTeamState) { s.ID = id }
}

// WithProductTeamKeys creates the team with the given alias keys
func WithProductTeamKeys(keys ...valueobjects.Key) ProductTeamOption {
	return func(s *entities.ProductTeamState) { s.Keys = append(s.Keys, keys...) }
}

type productTeamInput struct {
	Name    string `json:"name" validate:"required,entity_name"`
	OdsCode string `json:"ods_code" validate:"required,ods_code"`
}

// NewProductTeam creates a product team
func NewProductTeam(name, odsCode string, opts ...ProductTeamOption) (*ProductTeam, error) {
	if err := valueobjects.ValidateStruct(productTeamInput{Name: name, OdsCode: odsCode}); err != nil {
		return nil, err
	}
	state := entities.ProductTeamState{
		ID:        valueobjects.NewID(),
		Name:      name,
		OdsCode:   odsCode,
		Lifecycle: entities.NewLifecycle(now()),
	}
	for _, opt := range opts {
		opt(&state)
	}
	if !valueobjects.IsUUID(state.ID) {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("invalid product team id: '%s'", state.ID))
	}
	if err := validateKeys(state.Keys, valueobjects.NewProductTeamKey); err != nil {
		return nil, err
	}

	t := &ProductTeam{state: state.Clone()}
	t.recordCreation(&events.ProductTeamCreatedEvent{ProductTeamState: t.state.Clone()})
	return t, nil
}

// ReconstructProductTeam rebuilds a team from persisted state
func ReconstructProductTeam(state entities.ProductTeamState) *ProductTeam {
	return &ProductTeam{state: state.Clone()}
}

// State returns a copy of the team state
func (t *ProductTeam) State() entities.ProductTeamState { return t.state.Clone() }

// ID returns the team id
func (t *ProductTeam) ID() string { return t.state.ID }

func (t *ProductTeam) Name() string             { return t.state.Name }
func (t *ProductTeam) OdsCode() string          { return t.state.OdsCode }
func (t *ProductTeam) CreatedOn() time.Time     { return t.state.CreatedOn }
func (t *ProductTeam) UpdatedOn() *time.Time    { return t.state.UpdatedOn }
func (t *ProductTeam) IsActive() bool           { return t.state.IsActive() }
func (t *ProductTeam) Keys() []valueobjects.Key { return slices.Clone(t.state.Keys) }

// CreateEprProduct creates a product owned by this team
func (t *ProductTeam) CreateEprProduct(name string, opts ...ProductOption) (*Product, error) {
	if !t.state.IsActive() {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("product team '%s' has been deleted", t.state.ID))
	}
	return newProduct(t.state, name, opts...)
}

// AddKey adds an alias the team can be read by
func (t *ProductTeam) AddKey(keyType valueobjects.KeyType, keyValue string) (*events.ProductTeamKeyAddedEvent, error) {
	if !t.state.IsActive() {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("product team '%s' has been deleted", t.state.ID))
	}
	key, err := valueobjects.NewProductTeamKey(keyType, keyValue)
	if err != nil {
		return nil, err
	}
	if valueobjects.ContainsKeyValue(t.state.Keys, key.KeyValue) {
		return nil, duplicateKeyError(key)
	}
	next := t.state.Clone()
	next.Keys = append(next.Keys, key)
	next.Lifecycle = next.Touched(nextTimestamp(t.state.Lifecycle))

	ev := &events.ProductTeamKeyAddedEvent{ProductTeamState: next.Clone(), NewKey: key}
	t.state = next
	t.record(ev)
	return ev, nil
}

// Delete marks the team inactive. ownedProducts are the ids of the team's active products;
// a team that still owns products cannot be deleted.
func (t *ProductTeam) Delete(ownedProducts []valueobjects.ProductID) (*events.ProductTeamDeletedEvent, error) {
	if !t.state.IsActive() {
		return nil, pkgerrors.NewValidationError(fmt.Sprintf("product team '%s' has been deleted", t.state.ID))
	}
	if len(ownedProducts) > 0 {
		ids := make([]string, len(ownedProducts))
		for i, id := range ownedProducts {
			ids[i] = string(id)
		}
		return nil, pkgerrors.NewConflictError(fmt.Sprintf(
			"Product Team cannot be deleted as it still has associated Product Ids [%s]", strings.Join(ids, ", ")),
		).WithDetails(map[string]interface{}{"product_ids": ids})
	}
	next := t.state.Clone()
	next.Lifecycle = next.Deleted(nextTimestamp(t.state.Lifecycle))

	ev := &events.ProductTeamDeletedEvent{ProductTeamState: next.Clone()}
	t.state = next
	t.record(ev)
	return ev, nil
}
