package converters

import (
	"fmt"
	"reflect"

	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"

	"github.com/oy3o/wire"
)

// Algorithm selects the block compression used by Compressed.
type Algorithm byte

const (
	// Snappy uses the snappy block format, which records the decoded length itself.
	Snappy Algorithm = iota + 1
	// LZ4 uses the lz4 block format behind a length prefix holding the decoded length.
	LZ4
)

const (
	lz4Stored     = 0 // input that does not shrink, kept as-is
	lz4Compressed = 1
)

// Upper bounds on decoded bytes per encoded byte. A snappy copy element of 3
// bytes yields at most 64 bytes; each lz4 length extension byte adds at most 255.
const (
	snappyMaxRatio = 22
	lz4MaxRatio    = 255
)

// Compressed wraps a converter and compresses its raw encoding.
// The result is always variable-length.
type Compressed[T any] struct {
	Inner     wire.Converter[T]
	Algorithm Algorithm
	// Limit caps the decoded size accepted by Decode; 0 means wire.MaxLength.
	Limit int
}

func (c Compressed[T]) Length() int        { return 0 }
func (c Compressed[T]) Type() reflect.Type { return c.Inner.Type() }

func (c Compressed[T]) limit() int {
	if c.Limit <= 0 {
		return wire.MaxLength
	}
	return c.Limit
}

func (c Compressed[T]) Encode(a *wire.Allocator, v T) error {
	scratch := wire.NewAllocator(nil)
	defer scratch.Free()
	if err := c.Inner.Encode(scratch, v); err != nil {
		return err
	}
	raw := scratch.Bytes()

	switch c.Algorithm {
	case Snappy:
		return a.Append(snappy.Encode(nil, raw))
	case LZ4:
		if err := wire.EncodeNumber(a, len(raw)); err != nil {
			return err
		}
		buf := make([]byte, lz4.CompressBlockBound(len(raw)))
		var compressor lz4.Compressor
		n, err := compressor.CompressBlock(raw, buf)
		if err != nil {
			return fmt.Errorf("lz4: %w", err)
		}
		if n == 0 || n >= len(raw) {
			if err := a.WriteByte(lz4Stored); err != nil {
				return err
			}
			return a.Append(raw)
		}
		if err := a.WriteByte(lz4Compressed); err != nil {
			return err
		}
		return a.Append(buf[:n])
	default:
		return fmt.Errorf("%w: unknown compression algorithm %d", wire.ErrInvalidEncoding, c.Algorithm)
	}
}

func (c Compressed[T]) Decode(span []byte) (T, error) {
	var zero T
	raw, err := c.decompress(span)
	if err != nil {
		return zero, err
	}
	return c.Inner.Decode(raw)
}

func (c Compressed[T]) decompress(span []byte) ([]byte, error) {
	switch c.Algorithm {
	case Snappy:
		size, err := snappy.DecodedLen(span)
		if err != nil {
			return nil, fmt.Errorf("%w: snappy: %w", wire.ErrInvalidEncoding, err)
		}
		if size > c.limit() {
			return nil, fmt.Errorf("%w: decoded size %d exceeds limit %d", wire.ErrCapacityExceeded, size, c.limit())
		}
		if size > snappyMaxRatio*len(span) {
			return nil, fmt.Errorf("%w: snappy block of %d bytes cannot decode to %d", wire.ErrInvalidEncoding, len(span), size)
		}
		raw, err := snappy.Decode(nil, span)
		if err != nil {
			return nil, fmt.Errorf("%w: snappy: %w", wire.ErrInvalidEncoding, err)
		}
		return raw, nil

	case LZ4:
		size, err := wire.DecodeNumber(&span)
		if err != nil {
			return nil, err
		}
		if size > c.limit() {
			return nil, fmt.Errorf("%w: decoded size %d exceeds limit %d", wire.ErrCapacityExceeded, size, c.limit())
		}
		if len(span) < 1 {
			return nil, fmt.Errorf("%w: missing lz4 block mode", wire.ErrInsufficientData)
		}
		mode, block := span[0], span[1:]
		switch mode {
		case lz4Stored:
			if len(block) != size {
				return nil, fmt.Errorf("%w: stored block of %d bytes, declared %d", wire.ErrInvalidEncoding, len(block), size)
			}
			return block, nil
		case lz4Compressed:
			if size > lz4MaxRatio*len(block) {
				return nil, fmt.Errorf("%w: lz4 block of %d bytes cannot decode to %d", wire.ErrInvalidEncoding, len(block), size)
			}
			raw := make([]byte, size)
			n, err := lz4.UncompressBlock(block, raw)
			if err != nil {
				return nil, fmt.Errorf("%w: lz4: %w", wire.ErrInvalidEncoding, err)
			}
			if n != size {
				return nil, fmt.Errorf("%w: lz4 block decoded to %d bytes, declared %d", wire.ErrInvalidEncoding, n, size)
			}
			return raw, nil
		default:
			return nil, fmt.Errorf("%w: lz4 block mode 0x%02x at offset 0", wire.ErrInvalidEncoding, mode)
		}

	default:
		return nil, fmt.Errorf("%w: unknown compression algorithm %d", wire.ErrInvalidEncoding, c.Algorithm)
	}
}
