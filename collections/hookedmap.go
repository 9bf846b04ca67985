package collections

import (
	"sync"
	"sync/atomic"

	"github.com/mechlab/mechkit/errors"
)

// MapHooks holds the optional mutation hooks of a HookedMap. The *-ing hooks
// run before the mutation and may veto it; the *-ed hooks run after. Hooks
// run under the map's lock, so they must not call back into the same map.
type MapHooks[K comparable, V any] struct {
	OnSetting  func(key K, value V) error
	OnSet      func(key K, value V)
	OnDeleting func(key K, value V) error
	OnDeleted  func(key K, value V)
}

// HookedMap is a map wrapper with pre/post-mutation hooks and a version
// counter. It is safe for concurrent use.
type HookedMap[K comparable, V any] struct {
	mu      sync.RWMutex
	items   map[K]V
	version atomic.Uint64
	hooks   MapHooks[K, V]
}

// NewHookedMap creates an empty map with the given hooks.
func NewHookedMap[K comparable, V any](hooks MapHooks[K, V]) *HookedMap[K, V] {
	return &HookedMap[K, V]{
		items: make(map[K]V),
		hooks: hooks,
	}
}

// Set stores value under key, subject to the OnSetting veto.
func (m *HookedMap[K, V]) Set(key K, value V) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hooks.OnSetting != nil {
		if err := m.hooks.OnSetting(key, value); err != nil {
			return errors.MutationRejected("set", err)
		}
	}
	m.items[key] = value
	m.version.Add(1)
	if m.hooks.OnSet != nil {
		m.hooks.OnSet(key, value)
	}
	return nil
}

// Get returns the value stored under key.
func (m *HookedMap[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

// Delete removes key, subject to the OnDeleting veto. Deleting an absent key
// is a no-op and calls no hooks.
func (m *HookedMap[K, V]) Delete(key K) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.items[key]
	if !ok {
		return nil
	}
	if m.hooks.OnDeleting != nil {
		if err := m.hooks.OnDeleting(key, value); err != nil {
			return errors.MutationRejected("delete", err)
		}
	}
	delete(m.items, key)
	m.version.Add(1)
	if m.hooks.OnDeleted != nil {
		m.hooks.OnDeleted(key, value)
	}
	return nil
}

// Len returns the number of entries.
func (m *HookedMap[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Has reports whether key is present.
func (m *HookedMap[K, V]) Has(key K) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.items[key]
	return ok
}

// Items returns a copy of the backing map.
func (m *HookedMap[K, V]) Items() map[K]V {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[K]V, len(m.items))
	for k, v := range m.items {
		out[k] = v
	}
	return out
}

// Version returns the mutation counter.
func (m *HookedMap[K, V]) Version() uint64 {
	return m.version.Load()
}
