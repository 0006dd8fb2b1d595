// Package entities holds the plain state of each aggregate. The same structs are carried by events,
// persisted as table rows and accepted by the bulk loader.
package entities

import (
	"maps"
	"slices"
	"time"

	"connecting-party-manager/domain/core/valueobjects"
)

// Lifecycle is the timestamp and status shape shared by every aggregate
type Lifecycle struct {
	Status    valueobjects.Status `json:"status" dynamodbav:"status"`
	CreatedOn time.Time           `json:"created_on" dynamodbav:"created_on"`
	UpdatedOn *time.Time          `json:"updated_on,omitempty" dynamodbav:"updated_on,omitempty"`
	DeletedOn *time.Time          `json:"deleted_on,omitempty" dynamodbav:"deleted_on,omitempty"`
}

// NewLifecycle starts an active lifecycle at now
func NewLifecycle(now time.Time) Lifecycle {
	return Lifecycle{Status: valueobjects.StatusActive, CreatedOn: now}
}

// GetTimestamp returns the last update time
func (l Lifecycle) GetTimestamp() *time.Time {
	return l.UpdatedOn
}

// IsActive reports whether the entity has not been deleted
func (l Lifecycle) IsActive() bool {
	return l.Status == valueobjects.StatusActive && l.DeletedOn == nil
}

// Touched returns a copy with UpdatedOn set to at
func (l Lifecycle) Touched(at time.Time) Lifecycle {
	l.UpdatedOn = &at
	return l
}

// Deleted returns an inactive copy deleted at the given time
func (l Lifecycle) Deleted(at time.Time) Lifecycle {
	l.Status = valueobjects.StatusInactive
	l.UpdatedOn = &at
	l.DeletedOn = &at
	return l
}

func cloneResponses(in map[string][]valueobjects.QuestionnaireResponse) map[string][]valueobjects.QuestionnaireResponse {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string][]valueobjects.QuestionnaireResponse, len(in))
	for id, responses := range in {
		out[id] = slices.Clone(responses)
	}
	return out
}

func cloneReferences(in map[string][]string) map[string][]string {
	if len(in) == 0 {
		return nil
	}
	out := maps.Clone(in)
	for id, paths := range out {
		out[id] = slices.Clone(paths)
	}
	return out
}

func nilIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return slices.Clone(s)
}
