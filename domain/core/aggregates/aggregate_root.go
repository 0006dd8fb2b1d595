package aggregates

import (
	"fmt"
	"slices"
	"time"

	"connecting-party-manager/domain/core/entities"
	"connecting-party-manager/domain/events"
)

// now is the aggregate clock
var now = func() time.Time {
	return time.Now().UTC()
}

// AggregateRoot keeps the events an aggregate has raised but the repository has not yet written,
// and the log of those it has.
type AggregateRoot struct {
	uncommitted []events.Event
	committed   []events.Event
}

// GetUncommittedEvents returns pending events in the order they were raised
func (a *AggregateRoot) GetUncommittedEvents() []events.Event {
	return slices.Clone(a.uncommitted)
}

// MarkEventsAsCommitted moves pending events to the committed log
func (a *AggregateRoot) MarkEventsAsCommitted() {
	a.committed = append(a.committed, a.uncommitted...)
	a.uncommitted = nil
}

// CommittedEvents returns every event already written by a repository
func (a *AggregateRoot) CommittedEvents() []events.Event {
	return slices.Clone(a.committed)
}

func (a *AggregateRoot) recordCreation(ev events.Event) {
	a.uncommitted = append(a.uncommitted, ev)
}

// record appends the event of a mutation. Mutations always stamp updated_on.
func (a *AggregateRoot) record(ev events.Event) {
	if ev.GetTimestamp() == nil {
		panic(fmt.Sprintf("%s for %s carries no updated_on", ev.GetEventType(), ev.GetAggregateID()))
	}
	a.uncommitted = append(a.uncommitted, ev)
}

// nextTimestamp is the updated_on for the next mutation. It never moves backwards.
func nextTimestamp(l entities.Lifecycle) time.Time {
	t := now()
	if l.UpdatedOn != nil && t.Before(*l.UpdatedOn) {
		return *l.UpdatedOn
	}
	if t.Before(l.CreatedOn) {
		return l.CreatedOn
	}
	return t
}
