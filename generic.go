package wire

import (
	"bytes"
	"fmt"
)

// EncodeAuto encodes v so that it can be decoded back without outside knowledge:
// fixed-length values are written as-is, variable-length values get a length prefix.
func EncodeAuto[T any](a *Allocator, c Converter[T], v T) error {
	if c.Length() != 0 {
		return c.Encode(a, v)
	}
	return EncodeWithLengthPrefix(a, c, v)
}

// EncodeWithLengthPrefix writes v behind a length prefix, even when c is fixed-length.
// The prefix is reserved with an anchor and backpatched once the payload is written.
// If encoding fails, the prefix and any partial payload are discarded.
func EncodeWithLengthPrefix[T any](a *Allocator, c Converter[T], v T) error {
	anchor, err := a.Anchor()
	if err != nil {
		return err
	}
	if err := c.Encode(a, v); err != nil {
		a.rollback(anchor)
		return err
	}
	return a.FinishAnchor(anchor)
}

// DecodeAuto decodes a value written by EncodeAuto from the front of *span and
// advances *span past it.
func DecodeAuto[T any](c Converter[T], span *[]byte) (T, error) {
	size := c.Length()
	if size == 0 {
		return DecodeWithLengthPrefix(c, span)
	}
	if len(*span) < size {
		var zero T
		return zero, fmt.Errorf("%w: need %d bytes for %v, have %d", ErrInsufficientData, size, c.Type(), len(*span))
	}
	head := (*span)[:size:size]
	v, err := c.Decode(head)
	if err != nil {
		return v, err
	}
	*span = (*span)[size:]
	return v, nil
}

// DecodeWithLengthPrefix reads a length prefix, decodes exactly that many of the
// following bytes and advances *span past prefix and payload.
func DecodeWithLengthPrefix[T any](c Converter[T], span *[]byte) (T, error) {
	var zero T
	n, size, err := DecodeLength(*span)
	if err != nil {
		return zero, err
	}
	rest := (*span)[size:]
	if len(rest) < n {
		return zero, fmt.Errorf("%w: length prefix declares %d bytes, have %d", ErrInsufficientData, n, len(rest))
	}
	v, err := c.Decode(rest[:n:n])
	if err != nil {
		return v, err
	}
	*span = rest[n:]
	return v, nil
}

// EncodeNumber appends n as a bare length prefix.
func EncodeNumber(a *Allocator, n int) error {
	size, err := LengthSize(n)
	if err != nil {
		return err
	}
	dst, err := a.Assign(size)
	if err != nil {
		return err
	}
	PutLength(dst, n, size)
	return nil
}

// EncodeNumberInto writes n as a length prefix into dst and returns the number of bytes written.
func EncodeNumberInto(dst []byte, n int) (int, error) {
	size, err := LengthSize(n)
	if err != nil {
		return 0, err
	}
	if len(dst) < size {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrInsufficientSpace, size, len(dst))
	}
	PutLength(dst, n, size)
	return size, nil
}

// DecodeNumber reads a bare length prefix from the front of *span and advances past it.
func DecodeNumber(span *[]byte) (int, error) {
	n, size, err := DecodeLength(*span)
	if err != nil {
		return 0, err
	}
	*span = (*span)[size:]
	return n, nil
}

// Marshal encodes v with EncodeAuto and returns the bytes.
// The returned slice is owned by the caller.
func Marshal[T any](c Converter[T], v T) ([]byte, error) {
	a := acquireAllocator()
	defer releaseAllocator(a)
	if err := EncodeAuto(a, c, v); err != nil {
		return nil, err
	}
	return bytes.Clone(a.Bytes()), nil
}

// Unmarshal decodes a value written by Marshal. It rejects data with bytes left
// over after the value, which indicates a parsing error or a malformed payload.
func Unmarshal[T any](c Converter[T], data []byte) (T, error) {
	span := data
	v, err := DecodeAuto(c, &span)
	if err != nil {
		return v, err
	}
	if len(span) > 0 {
		var zero T
		return zero, fmt.Errorf("%w: %d bytes after offset %d", ErrTrailingData, len(span), len(data)-len(span))
	}
	return v, nil
}
