package wire

import (
	"encoding/binary"
	"math"
	"unsafe"

	"golang.org/x/exp/constraints"
)

var (
	BE = binary.BigEndian
	LE = binary.LittleEndian
)

// SizeOf returns the encoded width of a fixed-width number type.
func SizeOf[T constraints.Integer | constraints.Float]() int {
	var v T
	return int(unsafe.Sizeof(v))
}

// PutLE writes v into dst in little-endian order. dst must hold SizeOf[T]() bytes.
func PutLE[T constraints.Integer](dst []byte, v T) {
	putInteger(LE, dst, v)
}

// PutBE writes v into dst in big-endian order. dst must hold SizeOf[T]() bytes.
func PutBE[T constraints.Integer](dst []byte, v T) {
	putInteger(BE, dst, v)
}

// GetLE reads a little-endian T from the front of src.
func GetLE[T constraints.Integer](src []byte) T {
	return getInteger[T](LE, src)
}

// GetBE reads a big-endian T from the front of src.
func GetBE[T constraints.Integer](src []byte) T {
	return getInteger[T](BE, src)
}

// PutFloat writes v into dst using its IEEE 754 bit pattern in the given order.
func PutFloat[T constraints.Float](order binary.ByteOrder, dst []byte, v T) {
	if SizeOf[T]() == 4 {
		order.PutUint32(dst, math.Float32bits(float32(v)))
		return
	}
	order.PutUint64(dst, math.Float64bits(float64(v)))
}

// GetFloat reads an IEEE 754 value of type T from the front of src.
func GetFloat[T constraints.Float](order binary.ByteOrder, src []byte) T {
	if SizeOf[T]() == 4 {
		return T(math.Float32frombits(order.Uint32(src)))
	}
	return T(math.Float64frombits(order.Uint64(src)))
}

// PutInteger writes v into dst in the given order.
func PutInteger[T constraints.Integer](order binary.ByteOrder, dst []byte, v T) {
	putInteger(order, dst, v)
}

// GetInteger reads a T from the front of src in the given order.
func GetInteger[T constraints.Integer](order binary.ByteOrder, src []byte) T {
	return getInteger[T](order, src)
}

func putInteger[T constraints.Integer](order binary.ByteOrder, dst []byte, v T) {
	switch SizeOf[T]() {
	case 1:
		dst[0] = byte(v)
	case 2:
		order.PutUint16(dst, uint16(v))
	case 4:
		order.PutUint32(dst, uint32(v))
	case 8:
		order.PutUint64(dst, uint64(v))
	default:
		panic("wire: unsupported integer width")
	}
}

func getInteger[T constraints.Integer](order binary.ByteOrder, src []byte) T {
	switch SizeOf[T]() {
	case 1:
		return T(src[0])
	case 2:
		return T(order.Uint16(src))
	case 4:
		return T(order.Uint32(src))
	case 8:
		return T(order.Uint64(src))
	default:
		panic("wire: unsupported integer width")
	}
}
