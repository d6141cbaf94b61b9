package converters

import (
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/oy3o/wire"
)

// sizeCache avoids the high performance cost of reflection in `binary.Size`
// on every call. Using an xsync.Map makes it concurrent-safe.
var sizeCache = xsync.NewMap[reflect.Type, int]()

// Fixed converts any struct composed of fixed-size fields, eliminating
// boilerplate for simple data structures.
//
// Constraint: T MUST NOT contain variable-size fields like slices, maps,
// strings or plain int/uint, as this will cause `binary.Size` to fail.
type Fixed[T any] struct {
	// Order overrides the byte order; nil means little-endian.
	Order binary.ByteOrder
}

func (c Fixed[T]) order() binary.ByteOrder {
	if c.Order == nil {
		return wire.LE
	}
	return c.Order
}

// Length returns the fixed size of T in bytes, or 0 if T is not fixed-size.
// The result is cached to avoid reflection overhead on subsequent calls.
func (c Fixed[T]) Length() int {
	t := wire.TypeOf[T]()
	if size, ok := sizeCache.Load(t); ok {
		return size
	}
	var zero T
	size := max(binary.Size(&zero), 0)
	sizeCache.Store(t, size)
	return size
}

func (c Fixed[T]) Type() reflect.Type { return wire.TypeOf[T]() }

func (c Fixed[T]) Encode(a *wire.Allocator, v T) error {
	size := c.Length()
	if size == 0 {
		return fmt.Errorf("%w: %v is not a fixed-size type", wire.ErrInvalidEncoding, c.Type())
	}
	dst, err := a.Assign(size)
	if err != nil {
		return err
	}
	if _, err := binary.Encode(dst, c.order(), &v); err != nil {
		return fmt.Errorf("%w: %v: %w", wire.ErrInvalidEncoding, c.Type(), err)
	}
	return nil
}

func (c Fixed[T]) Decode(span []byte) (T, error) {
	var v T
	size := c.Length()
	if len(span) < size {
		return v, fmt.Errorf("%w: need %d bytes for %v, have %d", wire.ErrInsufficientData, size, c.Type(), len(span))
	}
	if _, err := binary.Decode(span[:size], c.order(), &v); err != nil {
		return v, fmt.Errorf("%w: %v: %w", wire.ErrInvalidEncoding, c.Type(), err)
	}
	return v, nil
}
