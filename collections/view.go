package collections

import (
	"sync/atomic"
)

// View is a read-only view over a HookedList. Snapshot copies the backing
// items only when the list's version counter has moved since the last
// rebuild; otherwise readers share the cached snapshot. The cache is swapped
// with a compare-and-swap, so under concurrent access a rebuild may run more
// than once but every reader observes a consistent snapshot.
type View[T any] struct {
	source *HookedList[T]
	cached atomic.Pointer[viewSnapshot[T]]
}

type viewSnapshot[T any] struct {
	version uint64
	items   []T
}

// NewView creates a read-only view over list.
func NewView[T any](list *HookedList[T]) *View[T] {
	return &View[T]{source: list}
}

// Snapshot returns the current items. The returned slice is shared between
// callers observing the same version and must not be mutated.
func (v *View[T]) Snapshot() []T {
	if cur := v.cached.Load(); cur != nil && cur.version == v.source.Version() {
		return cur.items
	}

	items, version := v.source.snapshot()
	fresh := &viewSnapshot[T]{
		version: version,
		items:   items,
	}
	for {
		cur := v.cached.Load()
		if cur != nil && cur.version >= fresh.version {
			// A rebuild for the same or a newer version won the race.
			return cur.items
		}
		if v.cached.CompareAndSwap(cur, fresh) {
			return fresh.items
		}
	}
}

// Len returns the length of the current snapshot.
func (v *View[T]) Len() int {
	return len(v.Snapshot())
}

// Get returns the item at index in the current snapshot, and false when the
// index is out of range.
func (v *View[T]) Get(index int) (T, bool) {
	items := v.Snapshot()
	if index < 0 || index >= len(items) {
		var zero T
		return zero, false
	}
	return items[index], true
}
