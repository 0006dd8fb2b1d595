package dynamodb

import (
	"fmt"

	"connecting-party-manager/domain/events"
)

// handle adapts a handler of one event variant to the registry signature
func handle[E events.Event](fn func(E) ([]TransactItem, error)) EventHandler {
	return func(ev events.Event) ([]TransactItem, error) {
		typed, ok := ev.(E)
		if !ok {
			return nil, fmt.Errorf("handler for %s received %T", ev.GetEventType(), ev)
		}
		return fn(typed)
	}
}

func findRow(rows []row, k itemKey) (row, bool) {
	for _, r := range rows {
		if r.key() == k {
			return r, true
		}
	}
	return row{}, false
}

// addIndexes creates the rows at newKeys and rewrites every other row of the entity
func addIndexes(rows []row, newKeys ...itemKey) ([]TransactItem, error) {
	items := make([]TransactItem, 0, len(rows))
	for _, k := range newKeys {
		r, ok := findRow(rows, k)
		if !ok {
			return nil, fmt.Errorf("no row at pk=%q sk=%q", k.pk, k.sk)
		}
		items = append(items, createIndex(r))
	}
	return append(items, updateIndexes(rows, newKeys...)...), nil
}
