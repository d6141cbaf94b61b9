package converters

import (
	"encoding/binary"
	"fmt"
	"reflect"

	"golang.org/x/exp/constraints"

	"github.com/oy3o/wire"
)

// Integer converts fixed-width integers. The zero value encodes little-endian.
type Integer[T constraints.Integer] struct {
	// Order overrides the byte order; nil means little-endian.
	Order binary.ByteOrder
}

var _ wire.Converter[int32] = Integer[int32]{}

// BigEndian returns an Integer converter that encodes in network byte order.
func BigEndian[T constraints.Integer]() Integer[T] {
	return Integer[T]{Order: wire.BE}
}

func (c Integer[T]) order() binary.ByteOrder {
	if c.Order == nil {
		return wire.LE
	}
	return c.Order
}

func (c Integer[T]) Length() int        { return wire.SizeOf[T]() }
func (c Integer[T]) Type() reflect.Type { return wire.TypeOf[T]() }

func (c Integer[T]) Encode(a *wire.Allocator, v T) error {
	dst, err := a.Assign(wire.SizeOf[T]())
	if err != nil {
		return err
	}
	wire.PutInteger(c.order(), dst, v)
	return nil
}

func (c Integer[T]) Decode(span []byte) (T, error) {
	size := wire.SizeOf[T]()
	if len(span) < size {
		return 0, fmt.Errorf("%w: need %d bytes for %v, have %d", wire.ErrInsufficientData, size, c.Type(), len(span))
	}
	return wire.GetInteger[T](c.order(), span), nil
}

// Float converts IEEE 754 floating point numbers. The zero value encodes little-endian.
type Float[T constraints.Float] struct {
	Order binary.ByteOrder
}

func (c Float[T]) order() binary.ByteOrder {
	if c.Order == nil {
		return wire.LE
	}
	return c.Order
}

func (c Float[T]) Length() int        { return wire.SizeOf[T]() }
func (c Float[T]) Type() reflect.Type { return wire.TypeOf[T]() }

func (c Float[T]) Encode(a *wire.Allocator, v T) error {
	dst, err := a.Assign(wire.SizeOf[T]())
	if err != nil {
		return err
	}
	wire.PutFloat(c.order(), dst, v)
	return nil
}

func (c Float[T]) Decode(span []byte) (T, error) {
	size := wire.SizeOf[T]()
	if len(span) < size {
		return 0, fmt.Errorf("%w: need %d bytes for %v, have %d", wire.ErrInsufficientData, size, c.Type(), len(span))
	}
	return wire.GetFloat[T](c.order(), span), nil
}

// Bool converts a bool as one byte: 0 or 1.
type Bool struct{}

func (Bool) Length() int        { return 1 }
func (Bool) Type() reflect.Type { return wire.TypeOf[bool]() }

func (Bool) Encode(a *wire.Allocator, v bool) error {
	if v {
		return a.WriteByte(1)
	}
	return a.WriteByte(0)
}

func (Bool) Decode(span []byte) (bool, error) {
	if len(span) < 1 {
		return false, fmt.Errorf("%w: need 1 byte for bool, have 0", wire.ErrInsufficientData)
	}
	switch span[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: bool byte 0x%02x at offset 0", wire.ErrInvalidEncoding, span[0])
	}
}
