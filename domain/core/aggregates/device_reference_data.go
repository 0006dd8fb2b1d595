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

// DeviceReferenceData is a named bundle of questionnaire responses shared by the devices of a product
type DeviceReferenceData struct {
	AggregateRoot
	state entities.DeviceReferenceDataState
}

func newDeviceReferenceData(product entities.ProductState, name string, env valueobjects.Environment) (*DeviceReferenceData, error) {
	if err := valueobjects.ValidateStruct(deviceInput{Name: name, Environment: env}); err != nil {
		return nil, err
	}
	drd := &DeviceReferenceData{state: entities.DeviceReferenceDataState{
		ID:            valueobjects.NewID(),
		Name:          name,
		Environment:   env,
		ProductID:     product.ID,
		ProductTeamID: product.ProductTeamID,
		OdsCode:       product.OdsCode,
		Lifecycle:     entities.NewLifecycle(now()),
	}}
	drd.recordCreation(&events.DeviceReferenceDataCreatedEvent{DeviceReferenceDataState: drd.state.Clone()})
	return drd, nil
}

// ReconstructDeviceReferenceData rebuilds the bundle from persisted state
func ReconstructDeviceReferenceData(state entities.DeviceReferenceDataState) *DeviceReferenceData {
	return &DeviceReferenceData{state: state.Clone()}
}

// State returns a copy of the bundle state
func (r *DeviceReferenceData) State() entities.DeviceReferenceDataState { return r.state.Clone() }

func (r *DeviceReferenceData) ID() string                            { return r.state.ID }
func (r *DeviceReferenceData) Name() string                          { return r.state.Name }
func (r *DeviceReferenceData) Environment() valueobjects.Environment { return r.state.Environment }
func (r *DeviceReferenceData) ProductID() valueobjects.ProductID     { return r.state.ProductID }
func (r *DeviceReferenceData) ProductTeamID() string                 { return r.state.ProductTeamID }
func (r *DeviceReferenceData) CreatedOn() time.Time                  { return r.state.CreatedOn }
func (r *DeviceReferenceData) UpdatedOn() *time.Time                 { return r.state.UpdatedOn }
func (r *DeviceReferenceData) IsActive() bool                        { return r.state.IsActive() }

// QuestionnaireResponses returns the responses recorded under "{name}/{version}"
func (r *DeviceReferenceData) QuestionnaireResponses(questionnaireID string) []valueobjects.QuestionnaireResponse {
	return slices.Clone(r.state.QuestionnaireResponses[questionnaireID])
}

// AddQuestionnaireResponse appends a response to its questionnaire's list
func (r *DeviceReferenceData) AddQuestionnaireResponse(
	response valueobjects.QuestionnaireResponse,
) (*events.DeviceReferenceDataQuestionnaireResponseAddedEvent, error) {
	next, err := r.mutable()
	if err != nil {
		return nil, err
	}
	responses, err := appendResponse(next.QuestionnaireResponses, response)
	if err != nil {
		return nil, err
	}
	next.QuestionnaireResponses = responses
	next.Lifecycle = next.Touched(nextTimestamp(r.state.Lifecycle))

	ev := &events.DeviceReferenceDataQuestionnaireResponseAddedEvent{
		DeviceReferenceDataState: next.Clone(),
		QuestionnaireResponse:    response,
	}
	r.apply(next, ev)
	return ev, nil
}

// RemoveQuestionnaireResponse removes one response by id
func (r *DeviceReferenceData) RemoveQuestionnaireResponse(
	questionnaireID, responseID string,
) (*events.DeviceReferenceDataQuestionnaireResponseRemovedEvent, error) {
	next, err := r.mutable()
	if err != nil {
		return nil, err
	}
	responses := next.QuestionnaireResponses[questionnaireID]
	idx := slices.IndexFunc(responses, func(qr valueobjects.QuestionnaireResponse) bool { return qr.ID == responseID })
	if idx < 0 {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf(
			"This device reference data does not contain questionnaire response '%s' for '%s'", responseID, questionnaireID))
	}
	responses = slices.Delete(responses, idx, idx+1)
	if len(responses) == 0 {
		delete(next.QuestionnaireResponses, questionnaireID)
	} else {
		next.QuestionnaireResponses[questionnaireID] = responses
	}
	if len(next.QuestionnaireResponses) == 0 {
		next.QuestionnaireResponses = nil
	}
	next.Lifecycle = next.Touched(nextTimestamp(r.state.Lifecycle))

	ev := &events.DeviceReferenceDataQuestionnaireResponseRemovedEvent{
		DeviceReferenceDataState: next.Clone(),
		QuestionnaireID:          questionnaireID,
		ResponseID:               responseID,
	}
	r.apply(next, ev)
	return ev, nil
}

// Delete marks the bundle inactive
func (r *DeviceReferenceData) Delete() (*events.DeviceReferenceDataDeletedEvent, error) {
	next, err := r.mutable()
	if err != nil {
		return nil, err
	}
	next.Lifecycle = next.Deleted(nextTimestamp(r.state.Lifecycle))

	ev := &events.DeviceReferenceDataDeletedEvent{DeviceReferenceDataState: next.Clone()}
	r.apply(next, ev)
	return ev, nil
}

func (r *DeviceReferenceData) mutable() (entities.DeviceReferenceDataState, error) {
	if !r.state.IsActive() {
		return entities.DeviceReferenceDataState{}, pkgerrors.NewValidationError(
			fmt.Sprintf("device reference data '%s' has been deleted", r.state.ID))
	}
	return r.state.Clone(), nil
}

func (r *DeviceReferenceData) apply(next entities.DeviceReferenceDataState, ev events.DeviceReferenceDataEvent) {
	r.state = next
	r.record(ev)
}
