package magicbag

import (
	"reflect"
	"time"

	"github.com/mechlab/mechkit/errors"
	"github.com/mechlab/mechkit/logger"
)

// ResolveObserver is called after every resolution, top-level and recursive,
// with the request key, elapsed time, and outcome.
type ResolveObserver func(key Key, d time.Duration, err error)

// Bag is an immutable resolution container. All fields are frozen at Build
// time; the only mutable state is the cached instance inside each singleton
// cell, so bags are safe for concurrent use.
type Bag struct {
	id           string
	parent       *Bag
	bindings     map[Key]*binding
	order        []Key
	generators   []Generator
	initializers map[reflect.Type][]initializer
	observers    []ResolveObserver
	log          *logger.Logger
}

// ID returns the bag's unique instance id, used for log correlation.
func (b *Bag) ID() string { return b.id }

// Parent returns the bag this bag falls back to, or nil.
func (b *Bag) Parent() *Bag { return b.parent }

// Size returns the number of explicit mappings declared on this bag,
// excluding the parent chain.
func (b *Bag) Size() int { return len(b.order) }

// Keys returns this bag's explicit mapping keys in registration order.
func (b *Bag) Keys() []Key {
	return append([]Key(nil), b.order...)
}

// Contains reports whether an explicit mapping for key exists in this bag or
// its parent chain. Generators are not probed: generator applicability can
// depend on recursive availability of element types, so Contains does not
// guarantee that a pull will succeed, only that a registration exists.
func (b *Bag) Contains(key Key) bool {
	for cur := b; cur != nil; cur = cur.parent {
		if _, ok := cur.bindings[key]; ok {
			return true
		}
	}
	return false
}

// PullKey resolves the given key: explicit mappings first (own registry, then
// the parent chain), then this bag's generators in declared order. Factories
// receive this bag, so recursive resolutions see the same overlay the caller
// used. A key with no mapping and no matching generator fails with
// NOT_REGISTERED; PullKey never returns a nil-for-miss result.
func (b *Bag) PullKey(key Key) (any, error) {
	start := time.Now()
	v, err := b.resolve(key)
	d := time.Since(start)

	for _, obs := range b.observers {
		obs(key, d, err)
	}
	if err != nil {
		b.log.Debug("pull failed", logger.Fields(
			logger.FieldBagID, b.id,
			logger.FieldKey, key.String(),
			logger.FieldError, err.Error(),
		))
		return nil, err
	}
	b.log.Trace("pulled", logger.Fields(
		logger.FieldBagID, b.id,
		logger.FieldKey, key.String(),
		logger.FieldDuration, d.Milliseconds(),
	))
	return v, nil
}

func (b *Bag) resolve(key Key) (any, error) {
	for cur := b; cur != nil; cur = cur.parent {
		if bnd, ok := cur.bindings[key]; ok {
			return b.invoke(bnd)
		}
	}

	for _, gen := range b.generators {
		if m, ok := gen.TryGenerate(key, b); ok {
			b.log.Trace("mapping synthesized", logger.Fields(
				logger.FieldBagID, b.id,
				logger.FieldKey, key.String(),
				logger.FieldGenerator, gen.GeneratorName(),
			))
			// Synthesized mappings are never cached, so a synthesized
			// singleton would re-construct per miss; they are all transient.
			return b.construct(m)
		}
	}

	return nil, errors.NotRegistered(key.String())
}

// invoke runs a bound mapping, honoring its lifetime. The singleton cell
// guarantees the factory and initializer chain execute at most once per bag,
// even under concurrent first access; later pulls are lock-free reads.
func (b *Bag) invoke(bnd *binding) (any, error) {
	if bnd.mapping.Lifetime != Singleton {
		return b.construct(bnd.mapping)
	}
	bnd.cell.once.Do(func() {
		bnd.cell.value, bnd.cell.err = b.construct(bnd.mapping)
	})
	return bnd.cell.value, bnd.cell.err
}

// construct runs the factory and the initializer chain for the produced type.
func (b *Bag) construct(m Mapping) (any, error) {
	v, err := m.Factory(b)
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.FactoryFailed(m.Key.String(), err)
	}

	for _, init := range b.initializersFor(m.Key.Type) {
		v, err = init.apply(b, v)
		if err != nil {
			return nil, errors.FactoryFailed(m.Key.String(), err).
				WithDetail("stage", "initializer")
		}
	}
	return v, nil
}

// keysForType returns every explicit mapping key (any name) for the element
// type, in registration order, parent registrations before child additions.
// A key overridden by a child keeps its parent-side position and appears once.
func (b *Bag) keysForType(t reflect.Type) []Key {
	var keys []Key
	seen := make(map[Key]struct{})
	b.collectKeys(t, &keys, seen)
	return keys
}

func (b *Bag) collectKeys(t reflect.Type, keys *[]Key, seen map[Key]struct{}) {
	if b.parent != nil {
		b.parent.collectKeys(t, keys, seen)
	}
	for _, k := range b.order {
		if k.Type != t {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		*keys = append(*keys, k)
	}
}
