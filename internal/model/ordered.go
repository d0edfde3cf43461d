package model

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// OrderedMap is a string-keyed map that remembers first-insertion order.
// Set on an existing key overwrites the value in place (last write wins).
// JSON and YAML encoding come from the embedded orderedmap.
type OrderedMap[V any] struct {
	*orderedmap.OrderedMap[string, V]
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{OrderedMap: orderedmap.New[string, V]()}
}

// Keys returns the keys in first-insertion order.
func (m *OrderedMap[V]) Keys() []string {
	out := make([]string, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Map returns an unordered copy.
func (m *OrderedMap[V]) Map() map[string]V {
	out := make(map[string]V, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}

// Record is one flattened output object.
type Record = OrderedMap[any]

// NewRecord returns an empty Record.
func NewRecord() *Record {
	return NewOrderedMap[any]()
}
