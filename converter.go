// Package wire is a binary serialization substrate: a growable Allocator with
// bounded growth and length-prefix backpatching, a compact 1-or-4 byte length
// encoding, and the Converter protocol that value codecs implement.
package wire

import "reflect"

// TypeConverter is the type-erased part of every converter. It is what a
// Registry stores and what composite converters use to resolve element converters.
type TypeConverter interface {
	// Length returns the exact encoded size of every value, or 0 when the
	// encoding is variable-length and must be bracketed by a length prefix.
	Length() int
	// Type returns the Go type the converter encodes, used as the registry key.
	Type() reflect.Type
}

// Converter encodes and decodes values of type T.
// Implementations carry no per-call mutable state and may be shared freely.
type Converter[T any] interface {
	TypeConverter
	// Encode appends the raw encoding of v to a.
	Encode(a *Allocator, v T) error
	// Decode parses a value from exactly the bytes that belong to it.
	Decode(span []byte) (T, error)
}

// TypeOf returns the registry key of T.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}
