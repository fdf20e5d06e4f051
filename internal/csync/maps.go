// Package csync holds the few concurrency-safe containers shared by the
// goroutines of a bench run. List engines themselves never need them.
package csync

import (
	"cmp"
	"encoding/json"
	"iter"
	"maps"
	"slices"
	"sync"
)

// Map is a map guarded by a read/write mutex.
type Map[K comparable, V any] struct {
	inner map[K]V
	mu    sync.RWMutex
}

func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		inner: make(map[K]V),
	}
}

// Set sets the value for key.
func (m *Map[K, V]) Set(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inner[key] = value
}

// Get gets the value for key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.inner[key]
	return v, ok
}

func (m *Map[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.inner)
}

// Seq2 yields a snapshot of the map's pairs; writes made while iterating are
// not seen.
func (m *Map[K, V]) Seq2() iter.Seq2[K, V] {
	m.mu.RLock()
	dst := maps.Clone(m.inner)
	m.mu.RUnlock()
	return maps.All(dst)
}

// Keys returns the keys of an ordered map in ascending order.
func Keys[K cmp.Ordered, V any](m *Map[K, V]) []K {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.inner))
}

var _ json.Marshaler = &Map[string, any]{}

// MarshalJSON implements json.Marshaler.
func (m *Map[K, V]) MarshalJSON() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return json.Marshal(m.inner)
}
