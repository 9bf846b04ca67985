package collections

import (
	"sync"
	"sync/atomic"

	"github.com/mechlab/mechkit/errors"
)

// ListHooks holds the optional mutation hooks of a HookedList. The *-ing
// hooks run before the mutation and may veto it by returning an error; the
// *-ed hooks run after the mutation has been applied. Hooks run under the
// list's lock, so they must not call back into the same list.
type ListHooks[T any] struct {
	OnAdding   func(index int, item T) error
	OnAdded    func(index int, item T)
	OnRemoving func(index int, item T) error
	OnRemoved  func(index int, item T)
}

// HookedList is a slice-backed list with pre/post-mutation hooks and a
// version counter that advances on every successful mutation. It is safe for
// concurrent use.
type HookedList[T any] struct {
	mu      sync.RWMutex
	items   []T
	version atomic.Uint64
	hooks   ListHooks[T]
}

// NewHookedList creates an empty list with the given hooks.
func NewHookedList[T any](hooks ListHooks[T]) *HookedList[T] {
	return &HookedList[T]{hooks: hooks}
}

// Add appends item, subject to the OnAdding veto.
func (l *HookedList[T]) Add(item T) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.insertLocked(len(l.items), item)
}

// Insert places item at index, shifting later items right.
func (l *HookedList[T]) Insert(index int, item T) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index > len(l.items) {
		return errors.InvalidInput("index", "out of range")
	}
	return l.insertLocked(index, item)
}

func (l *HookedList[T]) insertLocked(index int, item T) error {
	if l.hooks.OnAdding != nil {
		if err := l.hooks.OnAdding(index, item); err != nil {
			return errors.MutationRejected("add", err)
		}
	}
	l.items = append(l.items, item)
	copy(l.items[index+1:], l.items[index:])
	l.items[index] = item
	l.version.Add(1)
	if l.hooks.OnAdded != nil {
		l.hooks.OnAdded(index, item)
	}
	return nil
}

// RemoveAt removes and returns the item at index, subject to the OnRemoving veto.
func (l *HookedList[T]) RemoveAt(index int) (T, error) {
	var zero T
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.items) {
		return zero, errors.InvalidInput("index", "out of range")
	}
	item := l.items[index]
	if l.hooks.OnRemoving != nil {
		if err := l.hooks.OnRemoving(index, item); err != nil {
			return zero, errors.MutationRejected("remove", err)
		}
	}
	l.items = append(l.items[:index], l.items[index+1:]...)
	l.version.Add(1)
	if l.hooks.OnRemoved != nil {
		l.hooks.OnRemoved(index, item)
	}
	return item, nil
}

// Set replaces the item at index. The replacement is treated as a removal
// followed by an addition for hook purposes, and either veto aborts it.
func (l *HookedList[T]) Set(index int, item T) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.items) {
		return errors.InvalidInput("index", "out of range")
	}
	old := l.items[index]
	if l.hooks.OnRemoving != nil {
		if err := l.hooks.OnRemoving(index, old); err != nil {
			return errors.MutationRejected("set", err)
		}
	}
	if l.hooks.OnAdding != nil {
		if err := l.hooks.OnAdding(index, item); err != nil {
			return errors.MutationRejected("set", err)
		}
	}
	l.items[index] = item
	l.version.Add(1)
	if l.hooks.OnRemoved != nil {
		l.hooks.OnRemoved(index, old)
	}
	if l.hooks.OnAdded != nil {
		l.hooks.OnAdded(index, item)
	}
	return nil
}

// Clear removes all items. Any OnRemoving veto aborts the whole operation
// before anything is removed.
func (l *HookedList[T]) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.hooks.OnRemoving != nil {
		for i, item := range l.items {
			if err := l.hooks.OnRemoving(i, item); err != nil {
				return errors.MutationRejected("clear", err)
			}
		}
	}
	removed := l.items
	l.items = nil
	if len(removed) > 0 {
		l.version.Add(1)
	}
	if l.hooks.OnRemoved != nil {
		for i, item := range removed {
			l.hooks.OnRemoved(i, item)
		}
	}
	return nil
}

// Get returns the item at index.
func (l *HookedList[T]) Get(index int) (T, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if index < 0 || index >= len(l.items) {
		var zero T
		return zero, errors.InvalidInput("index", "out of range")
	}
	return l.items[index], nil
}

// Len returns the number of items.
func (l *HookedList[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Items returns a copy of the backing slice.
func (l *HookedList[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Version returns the mutation counter. It advances on every successful
// mutation and never goes backwards.
func (l *HookedList[T]) Version() uint64 {
	return l.version.Load()
}

// snapshot returns a copy of the items together with the version they belong
// to, read under one lock so the pair is consistent.
func (l *HookedList[T]) snapshot() ([]T, uint64) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out, l.version.Load()
}
