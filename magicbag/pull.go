package magicbag

import (
	"github.com/mechlab/mechkit/errors"
)

// Pull resolves the unnamed mapping for T.
func Pull[T any](bag *Bag) (T, error) {
	return PullNamed[T](bag, "")
}

// PullNamed resolves the mapping for T registered under name.
func PullNamed[T any](bag *Bag, name string) (T, error) {
	var zero T
	key := Key{Type: typeOf[T](), Name: name}
	v, err := bag.PullKey(key)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		// A nil any only fails the assertion for non-interface T with a
		// non-nil zero representation; treat it as the typed zero.
		if v == nil {
			return zero, nil
		}
		return zero, errors.TypeMismatch(key.String(), v)
	}
	return typed, nil
}

// MustPull resolves the unnamed mapping for T and panics on error.
func MustPull[T any](bag *Bag) T {
	v, err := Pull[T](bag)
	if err != nil {
		panic(err)
	}
	return v
}

// MustPullNamed resolves the named mapping for T and panics on error.
func MustPullNamed[T any](bag *Bag, name string) T {
	v, err := PullNamed[T](bag, name)
	if err != nil {
		panic(err)
	}
	return v
}

// TryPull resolves T, returning the zero value and false when no mapping or
// generator matches. Use this for optional collaborators.
func TryPull[T any](bag *Bag) (T, bool) {
	v, err := Pull[T](bag)
	if err != nil {
		var zero T
		return zero, false
	}
	return v, true
}

// IsRegistered reports whether an explicit unnamed mapping for T exists in the
// registry (including the parent chain). Generators are not consulted, so a
// false result does not mean Pull would fail.
func IsRegistered[T any](bag *Bag) bool {
	return bag.Contains(KeyFor[T]())
}

// IsRegisteredNamed reports whether an explicit mapping for T under name exists.
func IsRegisteredNamed[T any](bag *Bag, name string) bool {
	return bag.Contains(NamedKeyFor[T](name))
}
