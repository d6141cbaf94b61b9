package wire

import (
	"fmt"
	"reflect"

	"github.com/puzpuzpuz/xsync/v4"
)

// Registry maps a Go type to the converter registered for it.
// Composite converters use it to resolve element converters at construction time.
// It is safe for concurrent use.
type Registry struct {
	converters *xsync.Map[reflect.Type, TypeConverter]
}

// DefaultRegistry is the process-wide registry.
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{converters: xsync.NewMap[reflect.Type, TypeConverter]()}
}

// Register stores c under c.Type(). The last registration for a type wins.
func (r *Registry) Register(c TypeConverter) {
	r.converters.Store(c.Type(), c)
}

// Unregister removes the converter registered for t, if any.
func (r *Registry) Unregister(t reflect.Type) {
	r.converters.Delete(t)
}

// Lookup returns the converter registered for t.
func (r *Registry) Lookup(t reflect.Type) (TypeConverter, bool) {
	return r.converters.Load(t)
}

// Len returns the number of registered converters.
func (r *Registry) Len() int {
	return r.converters.Size()
}

// Range calls fn for every registered converter until fn returns false.
func (r *Registry) Range(fn func(t reflect.Type, c TypeConverter) bool) {
	r.converters.Range(fn)
}

// LookupOf returns the typed converter registered for T.
func LookupOf[T any](r *Registry) (Converter[T], error) {
	t := TypeOf[T]()
	c, ok := r.Lookup(t)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrNotRegistered, t)
	}
	typed, ok := c.(Converter[T])
	if !ok {
		return nil, fmt.Errorf("%w: %T registered for %v", ErrTypeMismatch, c, t)
	}
	return typed, nil
}

// MustLookupOf is like LookupOf but panics if no usable converter is registered.
func MustLookupOf[T any](r *Registry) Converter[T] {
	c, err := LookupOf[T](r)
	if err != nil {
		panic(err)
	}
	return c
}
