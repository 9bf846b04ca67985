package magicbag

import (
	"reflect"

	"github.com/mechlab/mechkit/errors"
)

// initializer is a post-construction step bound to a produced type. Chains run
// in registration order; each step receives the instance produced by the
// previous one and hands back the (possibly replaced) instance.
type initializer struct {
	target reflect.Type
	apply  func(bag *Bag, instance any) (any, error)
}

// Init registers a post-construction step for instances of type T. The step
// runs after T's factory on every construction, before the instance is handed
// to the caller; for a singleton that means exactly once. The function must
// return the instance it was given for reference types, or the mutated copy
// for value types.
func Init[T any](b *Builder, fn func(bag *Bag, instance T) (T, error)) {
	target := typeOf[T]()
	b.initializers[target] = append(b.initializers[target], initializer{
		target: target,
		apply: func(bag *Bag, instance any) (any, error) {
			typed, ok := instance.(T)
			if !ok && instance != nil {
				return nil, errors.TypeMismatch(target.String(), instance)
			}
			return fn(bag, typed)
		},
	})
}

// InitField registers a post-construction assignment of a resolved value to
// the named field of T. T must be a struct or pointer to struct. The field is
// located and checked when the initializer is declared; a missing or
// unexported field fails here, not at resolve time. The resolved field index
// is reused on every construction.
//
// For pointer targets the same instance is returned; for struct values the
// assignment is applied to a copy, which replaces the instance.
func InitField[T any](b *Builder, field string, value Factory) error {
	target := typeOf[T]()

	structType := target
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return errors.InvalidInitializer(target.String(), field, "target is not a struct or pointer to struct")
	}
	sf, ok := structType.FieldByName(field)
	if !ok {
		return errors.InvalidInitializer(target.String(), field, "no such field")
	}
	if !sf.IsExported() {
		return errors.InvalidInitializer(target.String(), field, "field is unexported")
	}

	index := sf.Index
	fieldType := sf.Type
	byPointer := target.Kind() == reflect.Pointer

	b.initializers[target] = append(b.initializers[target], initializer{
		target: target,
		apply: func(bag *Bag, instance any) (any, error) {
			v, err := value(bag)
			if err != nil {
				return nil, err
			}
			fv := valueAs(v, fieldType)
			if !fv.Type().AssignableTo(fieldType) {
				return nil, errors.InvalidInitializer(target.String(), field, "value is not assignable to field").
					WithDetail("value_type", fv.Type().String())
			}

			if byPointer {
				rv := reflect.ValueOf(instance)
				if rv.IsNil() {
					return nil, errors.InvalidInitializer(target.String(), field, "instance is nil")
				}
				rv.Elem().FieldByIndex(index).Set(fv)
				return instance, nil
			}

			// Value targets are not addressable; mutate a copy and return it.
			copied := reflect.New(structType).Elem()
			copied.Set(reflect.ValueOf(instance))
			copied.FieldByIndex(index).Set(fv)
			return copied.Interface(), nil
		},
	})
	return nil
}

// initializersFor collects the initializer chain for a produced type across
// the bag chain, parent steps before own, each in registration order.
func (b *Bag) initializersFor(t reflect.Type) []initializer {
	if b == nil {
		return nil
	}
	parent := b.parent.initializersFor(t)
	own := b.initializers[t]
	if len(parent) == 0 {
		return own
	}
	chain := make([]initializer, 0, len(parent)+len(own))
	chain = append(chain, parent...)
	return append(chain, own...)
}
