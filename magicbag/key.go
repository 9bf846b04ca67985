package magicbag

import (
	"fmt"
	"reflect"
)

// Key identifies what is being resolved: the requested type plus an optional
// name for named registrations. Keys are comparable; equality is structural.
type Key struct {
	Type reflect.Type
	Name string
}

// KeyFor returns the key for type T with no name.
func KeyFor[T any]() Key {
	return Key{Type: typeOf[T]()}
}

// NamedKeyFor returns the key for type T with the given name.
func NamedKeyFor[T any](name string) Key {
	return Key{Type: typeOf[T](), Name: name}
}

// IsZero reports whether the key carries no type.
func (k Key) IsZero() bool {
	return k.Type == nil
}

// String renders the key for diagnostics, e.g. "*pkg.Repo" or "*pkg.Repo#replica".
func (k Key) String() string {
	if k.Type == nil {
		return "<nil>"
	}
	if k.Name == "" {
		return k.Type.String()
	}
	return fmt.Sprintf("%s#%s", k.Type.String(), k.Name)
}

// typeOf returns the reflect.Type of T, including interface types.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
