package magicbag

// Lazy is a deferred, memoized value of type T. Calling it (or Value) resolves
// T on first access and returns the cached result afterwards. Each pulled
// Lazy[T] wrapper memoizes independently.
//
// Lazy is deliberately a named func type: the lazy mapping generator can both
// recognize the shape and construct instances of it from a bare reflect.Type.
type Lazy[T any] func() (T, error)

// Value resolves the wrapped value, constructing it on first call only.
func (l Lazy[T]) Value() (T, error) {
	return l()
}

// MustValue resolves the wrapped value and panics on error.
func (l Lazy[T]) MustValue() T {
	v, err := l()
	if err != nil {
		panic(err)
	}
	return v
}
