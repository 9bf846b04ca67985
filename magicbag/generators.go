package magicbag

import (
	"iter"
	"reflect"
	"strings"
	"sync"

	"github.com/mechlab/mechkit/errors"
)

// Generator synthesizes a mapping on demand for a structurally recognizable
// request shape. TryGenerate must be side-effect free apart from constructing
// the returned mapping; synthesized mappings are never persisted into the
// registry. Generators are probed in declared order; first match wins.
type Generator interface {
	// GeneratorName identifies the generator in logs and diagnostics.
	GeneratorName() string

	// TryGenerate inspects the key and, if the shape is recognized, returns a
	// mapping whose factory resolves element types through the bag.
	TryGenerate(key Key, bag *Bag) (Mapping, bool)
}

// DefaultGenerators returns the standard generator set, in probe order:
// lazy values, sequences, deferred factories, slices, arrays.
func DefaultGenerators() []Generator {
	return []Generator{
		lazyGenerator{},
		seqGenerator{},
		funcGenerator{},
		sliceGenerator{},
		arrayGenerator{},
	}
}

var (
	errorType   = reflect.TypeFor[error]()
	lazyPkgPath = reflect.TypeFor[Lazy[struct{}]]().PkgPath()
	seqPkgPath  = reflect.TypeFor[iter.Seq[struct{}]]().PkgPath()
)

// lazyGenerator synthesizes mappings for magicbag.Lazy[X]. The pulled wrapper
// resolves X on first invocation and memoizes the result for its own life.
// A named request passes its name through to the element resolution.
type lazyGenerator struct{}

func (lazyGenerator) GeneratorName() string { return "lazy" }

func (lazyGenerator) TryGenerate(key Key, _ *Bag) (Mapping, bool) {
	t := key.Type
	if t.Kind() != reflect.Func || t.PkgPath() != lazyPkgPath || !strings.HasPrefix(t.Name(), "Lazy[") {
		return Mapping{}, false
	}
	if t.NumIn() != 0 || t.NumOut() != 2 || t.Out(1) != errorType {
		return Mapping{}, false
	}

	elem := Key{Type: t.Out(0), Name: key.Name}
	factory := func(bag *Bag) (any, error) {
		var (
			once sync.Once
			val  reflect.Value
			err  error
		)
		fn := reflect.MakeFunc(t, func([]reflect.Value) []reflect.Value {
			once.Do(func() {
				var v any
				v, err = bag.PullKey(elem)
				val = valueAs(v, elem.Type)
			})
			return []reflect.Value{val, errValue(err)}
		})
		return fn.Interface(), nil
	}
	return Mapping{Key: key, Factory: factory, Lifetime: Transient}, true
}

// seqGenerator synthesizes mappings for iter.Seq[X]: one resolved instance per
// explicit registration of X, in registration order. All instances are
// resolved when the sequence is pulled, so resolution failures surface as a
// normal error instead of mid-iteration. The request name is ignored: a named
// sequence request yields the same registrations as the unnamed one.
type seqGenerator struct{}

func (seqGenerator) GeneratorName() string { return "seq" }

func (seqGenerator) TryGenerate(key Key, _ *Bag) (Mapping, bool) {
	t := key.Type
	if t.Kind() != reflect.Func || t.PkgPath() != seqPkgPath || !strings.HasPrefix(t.Name(), "Seq[") {
		return Mapping{}, false
	}
	if t.NumIn() != 1 || t.NumOut() != 0 {
		return Mapping{}, false
	}
	yield := t.In(0)
	if yield.Kind() != reflect.Func || yield.NumIn() != 1 || yield.NumOut() != 1 || yield.Out(0).Kind() != reflect.Bool {
		return Mapping{}, false
	}

	elem := yield.In(0)
	factory := func(bag *Bag) (any, error) {
		items, err := pullAll(bag, elem)
		if err != nil {
			return nil, err
		}
		fn := reflect.MakeFunc(t, func(args []reflect.Value) []reflect.Value {
			y := args[0]
			for _, item := range items {
				if !y.Call([]reflect.Value{item})[0].Bool() {
					break
				}
			}
			return nil
		})
		return fn.Interface(), nil
	}
	return Mapping{Key: key, Factory: factory, Lifetime: Transient}, true
}

// funcGenerator synthesizes mappings for unnamed func() X and func() (X, error)
// request shapes: a callable that resolves a fresh X on every invocation,
// supporting deferred and repeated construction without handing out the bag.
// The single-result variant panics if resolution fails.
type funcGenerator struct{}

func (funcGenerator) GeneratorName() string { return "func" }

func (funcGenerator) TryGenerate(key Key, _ *Bag) (Mapping, bool) {
	t := key.Type
	if t.Kind() != reflect.Func || t.Name() != "" || t.IsVariadic() || t.NumIn() != 0 {
		return Mapping{}, false
	}
	withErr := false
	switch t.NumOut() {
	case 1:
		if t.Out(0) == errorType {
			return Mapping{}, false
		}
	case 2:
		if t.Out(1) != errorType {
			return Mapping{}, false
		}
		withErr = true
	default:
		return Mapping{}, false
	}

	elem := Key{Type: t.Out(0), Name: key.Name}
	factory := func(bag *Bag) (any, error) {
		fn := reflect.MakeFunc(t, func([]reflect.Value) []reflect.Value {
			v, err := bag.PullKey(elem)
			if withErr {
				return []reflect.Value{valueAs(v, elem.Type), errValue(err)}
			}
			if err != nil {
				panic(err)
			}
			return []reflect.Value{valueAs(v, elem.Type)}
		})
		return fn.Interface(), nil
	}
	return Mapping{Key: key, Factory: factory, Lifetime: Transient}, true
}

// sliceGenerator synthesizes mappings for []X: one resolved instance per
// explicit registration of X, preserving registration order. Zero
// registrations yield an empty, non-nil slice. The request name is ignored:
// a named slice request collects the same registrations as the unnamed one.
type sliceGenerator struct{}

func (sliceGenerator) GeneratorName() string { return "slice" }

func (sliceGenerator) TryGenerate(key Key, _ *Bag) (Mapping, bool) {
	t := key.Type
	if t.Kind() != reflect.Slice {
		return Mapping{}, false
	}

	elem := t.Elem()
	factory := func(bag *Bag) (any, error) {
		items, err := pullAll(bag, elem)
		if err != nil {
			return nil, err
		}
		out := reflect.MakeSlice(t, 0, len(items))
		for _, item := range items {
			out = reflect.Append(out, item)
		}
		return out.Interface(), nil
	}
	return Mapping{Key: key, Factory: factory, Lifetime: Transient}, true
}

// arrayGenerator synthesizes mappings for [N]X. Go arrays are fixed-size, so
// the number of explicit registrations for X must equal N. Like the slice
// generator, the request name is ignored.
type arrayGenerator struct{}

func (arrayGenerator) GeneratorName() string { return "array" }

func (arrayGenerator) TryGenerate(key Key, _ *Bag) (Mapping, bool) {
	t := key.Type
	if t.Kind() != reflect.Array {
		return Mapping{}, false
	}

	elem := t.Elem()
	factory := func(bag *Bag) (any, error) {
		items, err := pullAll(bag, elem)
		if err != nil {
			return nil, err
		}
		if len(items) != t.Len() {
			return nil, errors.Newf(errors.ErrCodeArraySizeMismatch,
				"%s requires exactly %d registrations of %s, have %d",
				key, t.Len(), elem, len(items)).
				WithDetail("key", key.String()).
				WithDetail("want", t.Len()).
				WithDetail("have", len(items))
		}
		out := reflect.New(t).Elem()
		for i, item := range items {
			out.Index(i).Set(item)
		}
		return out.Interface(), nil
	}
	return Mapping{Key: key, Factory: factory, Lifetime: Transient}, true
}

// pullAll resolves one element per registration key reported by elementKeys,
// in registration order (parent registrations before child overlays).
func pullAll(bag *Bag, elem reflect.Type) ([]reflect.Value, error) {
	keys := elementKeys(bag, elem)
	items := make([]reflect.Value, 0, len(keys))
	for _, k := range keys {
		v, err := bag.PullKey(k)
		if err != nil {
			return nil, err
		}
		items = append(items, valueAs(v, elem))
	}
	return items, nil
}

// elementKeys returns the pull keys backing a collection of elem, one per
// explicit registration. When elem has no registration of its own but is a
// wrapper shape over an underlying type (Lazy[X], func() X, func() (X, error)),
// the registrations of X are counted instead and the wrapper is synthesized
// per registration name, so []func() X and iter.Seq[Lazy[X]] compose.
func elementKeys(bag *Bag, elem reflect.Type) []Key {
	keys := bag.keysForType(elem)
	if len(keys) > 0 {
		return keys
	}
	under, ok := underlyingType(elem)
	if !ok {
		return nil
	}
	inner := elementKeys(bag, under)
	out := make([]Key, 0, len(inner))
	for _, k := range inner {
		out = append(out, Key{Type: elem, Name: k.Name})
	}
	return out
}

// underlyingType reports the type a wrapper element shape resolves, for the
// shapes whose generators pass the request name through to the element:
// Lazy[X], func() X, and func() (X, error).
func underlyingType(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() != reflect.Func || t.IsVariadic() || t.NumIn() != 0 {
		return nil, false
	}
	if t.PkgPath() == lazyPkgPath && strings.HasPrefix(t.Name(), "Lazy[") {
		if t.NumOut() == 2 && t.Out(1) == errorType {
			return t.Out(0), true
		}
		return nil, false
	}
	if t.Name() != "" {
		return nil, false
	}
	switch t.NumOut() {
	case 1:
		if t.Out(0) != errorType {
			return t.Out(0), true
		}
	case 2:
		if t.Out(1) == errorType {
			return t.Out(0), true
		}
	}
	return nil, false
}

// valueAs converts a resolved any into a reflect.Value assignable to t,
// mapping nil to t's zero value.
func valueAs(v any, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	rv := reflect.ValueOf(v)
	if rv.Type() != t && rv.Type().AssignableTo(t) && t.Kind() != reflect.Interface {
		rv = rv.Convert(t)
	}
	return rv
}

// errValue renders an error as a reflect.Value of the error interface type.
func errValue(err error) reflect.Value {
	if err == nil {
		return reflect.Zero(errorType)
	}
	return reflect.ValueOf(err)
}
