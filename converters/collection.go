package converters

import (
	"fmt"
	"reflect"

	"github.com/oy3o/wire"
)

// Slice converts a slice by encoding each element with wire.EncodeAuto, so
// variable-length elements carry their own length prefix. The element count is
// implied by the span: decoding consumes elements until the span is empty.
// Nil and empty slices share one encoding and both decode to nil.
type Slice[E any] struct {
	Elem wire.Converter[E]
}

// SliceOf builds a Slice converter with the element converter registered in r.
func SliceOf[E any](r *wire.Registry) (Slice[E], error) {
	elem, err := wire.LookupOf[E](r)
	if err != nil {
		return Slice[E]{}, fmt.Errorf("slice element: %w", err)
	}
	return Slice[E]{Elem: elem}, nil
}

func (c Slice[E]) Length() int        { return 0 }
func (c Slice[E]) Type() reflect.Type { return wire.TypeOf[[]E]() }

func (c Slice[E]) Encode(a *wire.Allocator, v []E) error {
	for _, item := range v {
		if err := wire.EncodeAuto(a, c.Elem, item); err != nil {
			return err
		}
	}
	return nil
}

func (c Slice[E]) Decode(span []byte) ([]E, error) {
	var items []E
	for len(span) > 0 {
		item, err := wire.DecodeAuto(c.Elem, &span)
		if err != nil {
			return nil, fmt.Errorf("slice element %d: %w", len(items), err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Set converts a set held as map[E]struct{}. Iteration order is not defined,
// so the encoding of a set with more than one element is not deterministic.
type Set[E comparable] struct {
	Elem wire.Converter[E]
}

// SetOf builds a Set converter with the element converter registered in r.
func SetOf[E comparable](r *wire.Registry) (Set[E], error) {
	elem, err := wire.LookupOf[E](r)
	if err != nil {
		return Set[E]{}, fmt.Errorf("set element: %w", err)
	}
	return Set[E]{Elem: elem}, nil
}

func (c Set[E]) Length() int        { return 0 }
func (c Set[E]) Type() reflect.Type { return wire.TypeOf[map[E]struct{}]() }

func (c Set[E]) Encode(a *wire.Allocator, v map[E]struct{}) error {
	for item := range v {
		if err := wire.EncodeAuto(a, c.Elem, item); err != nil {
			return err
		}
	}
	return nil
}

func (c Set[E]) Decode(span []byte) (map[E]struct{}, error) {
	items := make(map[E]struct{})
	for i := 0; len(span) > 0; i++ {
		item, err := wire.DecodeAuto(c.Elem, &span)
		if err != nil {
			return nil, fmt.Errorf("set element %d: %w", i, err)
		}
		items[item] = struct{}{}
	}
	return items, nil
}

// Map converts a map as a sequence of key, value pairs.
type Map[K comparable, V any] struct {
	Key   wire.Converter[K]
	Value wire.Converter[V]
}

// MapOf builds a Map converter with the key and value converters registered in r.
func MapOf[K comparable, V any](r *wire.Registry) (Map[K, V], error) {
	key, err := wire.LookupOf[K](r)
	if err != nil {
		return Map[K, V]{}, fmt.Errorf("map key: %w", err)
	}
	value, err := wire.LookupOf[V](r)
	if err != nil {
		return Map[K, V]{}, fmt.Errorf("map value: %w", err)
	}
	return Map[K, V]{Key: key, Value: value}, nil
}

func (c Map[K, V]) Length() int        { return 0 }
func (c Map[K, V]) Type() reflect.Type { return wire.TypeOf[map[K]V]() }

func (c Map[K, V]) Encode(a *wire.Allocator, v map[K]V) error {
	for key, value := range v {
		if err := wire.EncodeAuto(a, c.Key, key); err != nil {
			return err
		}
		if err := wire.EncodeAuto(a, c.Value, value); err != nil {
			return err
		}
	}
	return nil
}

func (c Map[K, V]) Decode(span []byte) (map[K]V, error) {
	entries := make(map[K]V)
	for i := 0; len(span) > 0; i++ {
		key, err := wire.DecodeAuto(c.Key, &span)
		if err != nil {
			return nil, fmt.Errorf("map key %d: %w", i, err)
		}
		value, err := wire.DecodeAuto(c.Value, &span)
		if err != nil {
			return nil, fmt.Errorf("map value %d: %w", i, err)
		}
		entries[key] = value
	}
	return entries, nil
}
