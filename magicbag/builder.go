package magicbag

import (
	"reflect"

	"github.com/google/uuid"

	"github.com/mechlab/mechkit/errors"
	"github.com/mechlab/mechkit/logger"
)

// Builder accumulates mapping declarations and produces an immutable Bag.
// Builders are not safe for concurrent use; bags are.
type Builder struct {
	parent       *Bag
	declarations []Mapping
	index        map[Key]struct{}
	initializers map[reflect.Type][]initializer
	generators   []Generator
	observers    []ResolveObserver
	log          *logger.Logger
}

// NewBuilder creates an empty builder with the default generator set.
func NewBuilder() *Builder {
	return &Builder{
		index:        make(map[Key]struct{}),
		initializers: make(map[reflect.Type][]initializer),
		generators:   DefaultGenerators(),
		log:          logger.Get("magicbag"),
	}
}

// Extend creates a builder whose bag prefers its own mappings and falls back
// to the parent bag's registry on miss. Generators, observers, and logger are
// inherited from the parent unless overridden.
func Extend(parent *Bag) *Builder {
	b := NewBuilder()
	b.parent = parent
	if parent != nil {
		b.generators = append([]Generator(nil), parent.generators...)
		b.observers = append([]ResolveObserver(nil), parent.observers...)
		b.log = parent.log
	}
	return b
}

// WithGenerators replaces the generator set probed on registry misses.
func (b *Builder) WithGenerators(gens ...Generator) *Builder {
	b.generators = gens
	return b
}

// WithLogger sets the logger used by the built bag.
func (b *Builder) WithLogger(log *logger.Logger) *Builder {
	b.log = log
	return b
}

// WithObserver registers a hook called after every resolution with the
// request key, elapsed time, and outcome.
func (b *Builder) WithObserver(obs ResolveObserver) *Builder {
	b.observers = append(b.observers, obs)
	return b
}

// Add declares a mapping. Declaring a second mapping for the same key fails
// immediately so misconfiguration is caught as early as possible.
func (b *Builder) Add(m Mapping) error {
	if m.Key.IsZero() {
		return errors.InvalidMapping(m.Key.String(), "key has no type")
	}
	if m.Factory == nil {
		return errors.InvalidMapping(m.Key.String(), "factory is nil")
	}
	if _, dup := b.index[m.Key]; dup {
		return errors.DuplicateMapping(m.Key.String())
	}
	b.index[m.Key] = struct{}{}
	b.declarations = append(b.declarations, m)
	return nil
}

// MustAdd is Add that panics on error, for wiring code where a bad
// declaration is a programming bug.
func (b *Builder) MustAdd(m Mapping) {
	if err := b.Add(m); err != nil {
		panic(err)
	}
}

// Install applies modules to the builder in order.
func (b *Builder) Install(modules ...Module) error {
	for _, m := range modules {
		if err := m.Install(b); err != nil {
			return err
		}
	}
	return nil
}

// Build freezes the declarations into an immutable bag. Singleton cells are
// allocated here so concurrent first pulls construct at most once.
func (b *Builder) Build() (*Bag, error) {
	bag := &Bag{
		id:           uuid.NewString(),
		parent:       b.parent,
		bindings:     make(map[Key]*binding, len(b.declarations)),
		order:        make([]Key, 0, len(b.declarations)),
		generators:   append([]Generator(nil), b.generators...),
		initializers: copyInitializers(b.initializers),
		observers:    append([]ResolveObserver(nil), b.observers...),
		log:          b.log,
	}
	if bag.log == nil {
		bag.log = logger.Nop()
	}

	for _, m := range b.declarations {
		if _, dup := bag.bindings[m.Key]; dup {
			return nil, errors.DuplicateMapping(m.Key.String())
		}
		bnd := &binding{mapping: m}
		if m.Lifetime == Singleton {
			bnd.cell = &singletonCell{}
		}
		bag.bindings[m.Key] = bnd
		bag.order = append(bag.order, m.Key)
	}

	bag.log.Debug("bag built", logger.Fields(
		logger.FieldBagID, bag.id,
		"mappings", len(bag.order),
		"generators", len(bag.generators),
		"extends", b.parent != nil,
	))
	return bag, nil
}

// copyInitializers snapshots the builder's initializer chains so declarations
// made after Build cannot reach into an already-built bag.
func copyInitializers(src map[reflect.Type][]initializer) map[reflect.Type][]initializer {
	out := make(map[reflect.Type][]initializer, len(src))
	for t, chain := range src {
		out[t] = append([]initializer(nil), chain...)
	}
	return out
}

// MustBuild is Build that panics on error.
func (b *Builder) MustBuild() *Bag {
	bag, err := b.Build()
	if err != nil {
		panic(err)
	}
	return bag
}

// --- typed declaration front doors ---

// BindOption configures a single mapping declaration.
type BindOption func(*bindOptions)

type bindOptions struct {
	lifetime Lifetime
	name     string
}

// AsSingleton gives the mapping singleton lifetime: one cached instance per bag.
func AsSingleton() BindOption {
	return func(o *bindOptions) { o.lifetime = Singleton }
}

// AsTransient gives the mapping transient lifetime (the default).
func AsTransient() BindOption {
	return func(o *bindOptions) { o.lifetime = Transient }
}

// Named gives the mapping a name, discriminating it from the unnamed
// registration of the same type.
func Named(name string) BindOption {
	return func(o *bindOptions) { o.name = name }
}

// Bind declares a mapping from T to a typed factory.
func Bind[T any](b *Builder, factory func(bag *Bag) (T, error), opts ...BindOption) error {
	o := applyBindOptions(opts)
	return b.Add(Mapping{
		Key: Key{Type: typeOf[T](), Name: o.name},
		Factory: func(bag *Bag) (any, error) {
			return factory(bag)
		},
		Lifetime: o.lifetime,
	})
}

// MustBind is Bind that panics on error.
func MustBind[T any](b *Builder, factory func(bag *Bag) (T, error), opts ...BindOption) {
	if err := Bind(b, factory, opts...); err != nil {
		panic(err)
	}
}

// BindInstance declares a mapping from T to an existing value. The mapping is
// a singleton by construction.
func BindInstance[T any](b *Builder, value T, opts ...BindOption) error {
	o := applyBindOptions(opts)
	return b.Add(Mapping{
		Key: Key{Type: typeOf[T](), Name: o.name},
		Factory: func(*Bag) (any, error) {
			return value, nil
		},
		Lifetime: Singleton,
	})
}

func applyBindOptions(opts []BindOption) bindOptions {
	var o bindOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
