package magicbag

import "sync"

// Lifetime controls how long a constructed instance is reused.
type Lifetime int

const (
	// Transient mappings produce a fresh instance on every pull.
	Transient Lifetime = iota
	// Singleton mappings construct once per bag and cache the result.
	Singleton
)

// String returns the lifetime name for diagnostics.
func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "transient"
	case Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}

// Factory is a construction strategy. It receives the bag the pull was
// started on, so it can resolve its own dependencies recursively.
type Factory func(bag *Bag) (any, error)

// Mapping associates a request key with a construction strategy and a
// lifetime policy. Mappings are immutable once a bag is built.
type Mapping struct {
	Key      Key
	Factory  Factory
	Lifetime Lifetime
}

// binding is a mapping installed in a bag, together with its singleton cell.
type binding struct {
	mapping Mapping
	cell    *singletonCell
}

// singletonCell guarantees at-most-one construction per singleton mapping
// under concurrent first access. Subsequent reads are lock-free.
type singletonCell struct {
	once  sync.Once
	value any
	err   error
}
