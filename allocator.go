package wire

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

const (
	// DefaultInitialCapacity is the capacity of the first region an allocator obtains.
	DefaultInitialCapacity = 256

	// DefaultShrinkThreshold is the largest anchored payload whose 4 reserved
	// prefix bytes are compacted into a 1-byte prefix.
	DefaultShrinkThreshold = 16

	// AnchorSize is the number of placeholder bytes reserved by Anchor.
	AnchorSize = 4
)

// Options configures an Allocator. Zero fields take their defaults.
type Options struct {
	// MaxCapacity is the hard ceiling on the region size. Values above MaxLength are clamped.
	MaxCapacity int
	// InitialCapacity is the size of the first region. It defaults to 256.
	InitialCapacity int
	// ShrinkThreshold is the largest payload compacted by FinishAnchor.
	// It defaults to 16, is clamped to 127, and a negative value disables compaction.
	ShrinkThreshold int
	// Memory supplies the regions. It defaults to HeapMemory.
	Memory Memory
}

// Allocator is an append-only growable buffer that owns exactly one region.
// Only the written prefix [0, Len()) is ever exposed.
//
// The zero value is an empty allocator with default options.
// An Allocator must not be copied after first use and is not safe for concurrent use.
type Allocator struct {
	buf     []byte // the owned region; len(buf) is the capacity
	n       int    // bytes written
	max     int
	initial int
	shrink  int
	mem     Memory
	anchors []int // offsets of open anchors, innermost last
}

// Anchor is the offset of 4 placeholder bytes reserved for a length prefix
// whose value is not yet known.
type Anchor int

// NewAllocator creates an empty Allocator. No memory is requested until the first write.
func NewAllocator(options *Options) *Allocator {
	a := &Allocator{}
	if options == nil {
		return a
	}
	a.max = min(options.MaxCapacity, MaxLength)
	a.initial = options.InitialCapacity
	switch {
	case options.ShrinkThreshold < 0:
		a.shrink = -1
	case options.ShrinkThreshold > MaxShortLength:
		a.shrink = MaxShortLength
	default:
		a.shrink = options.ShrinkThreshold
	}
	a.mem = options.Memory
	return a
}

// Len returns the number of bytes written.
func (a *Allocator) Len() int { return a.n }

// Cap returns the number of bytes currently allocated.
func (a *Allocator) Cap() int { return len(a.buf) }

// MaxCap returns the capacity ceiling.
func (a *Allocator) MaxCap() int {
	if a.max <= 0 {
		return MaxLength
	}
	return a.max
}

func (a *Allocator) initialCap() int {
	if a.initial <= 0 {
		return DefaultInitialCapacity
	}
	return a.initial
}

func (a *Allocator) shrinkThreshold() int {
	if a.shrink == 0 {
		return DefaultShrinkThreshold
	}
	return a.shrink
}

func (a *Allocator) memory() Memory {
	if a.mem == nil {
		return HeapMemory
	}
	return a.mem
}

// String implements fmt.Stringer.
func (a *Allocator) String() string {
	return fmt.Sprintf("length = %d, capacity = %d, max capacity = %d", a.Len(), a.Cap(), a.MaxCap())
}

// Ensure guarantees at least n bytes of capacity beyond Len, growing the region if needed.
func (a *Allocator) Ensure(n int) error {
	if n < 0 || n > MaxLength {
		return fmt.Errorf("%w: request of %d bytes", ErrCapacityExceeded, n)
	}
	if n <= len(a.buf)-a.n {
		return nil
	}
	return a.grow(n)
}

// grow replaces the region with one large enough for n more bytes,
// copying the written prefix forward.
func (a *Allocator) grow(n int) error {
	limit := int64(a.MaxCap())
	required := int64(a.n) + int64(n)
	if required > limit {
		return fmt.Errorf("%w: need %d bytes, max capacity is %d", ErrCapacityExceeded, required, limit)
	}

	target := int64(len(a.buf))
	if target == 0 {
		target = int64(a.initialCap())
	}
	for target < required {
		target *= 2
	}
	if target > limit {
		target = limit
	}

	mem := a.memory()
	region, err := mem.Alloc(int(target))
	if err != nil {
		debug("wire: allocation failed", func() []zap.Field {
			return []zap.Field{zap.Int64("target", target), zap.Int("length", a.n), zap.Error(err)}
		})
		if !errors.Is(err, ErrAllocationFailed) {
			err = fmt.Errorf("%w: %w", ErrAllocationFailed, err)
		}
		return err
	}
	if len(region) < int(target) {
		mem.Free(region)
		return fmt.Errorf("%w: memory returned %d bytes, requested %d", ErrAllocationFailed, len(region), target)
	}

	copy(region, a.buf[:a.n])
	if a.buf != nil {
		mem.Free(a.buf)
	}

	debug("wire: allocator grown", func() []zap.Field {
		return []zap.Field{zap.Int("from", len(a.buf)), zap.Int64("to", target), zap.Int("length", a.n)}
	})
	a.buf = region[:target]
	return nil
}

// Assign reserves n bytes at the write position, advances Len by n and returns
// a writable view of exactly those bytes. The view is valid until the next
// mutating call. Assigning zero or fewer bytes is a programming error and panics.
func (a *Allocator) Assign(n int) ([]byte, error) {
	if n <= 0 {
		panic(fmt.Sprintf("wire: Assign called with non-positive length %d", n))
	}
	if err := a.Ensure(n); err != nil {
		return nil, err
	}
	start := a.n
	a.n += n
	return a.buf[start:a.n:a.n], nil
}

// Append copies p to the end of the buffer. It is a no-op for empty p.
func (a *Allocator) Append(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	dst, err := a.Assign(len(p))
	if err != nil {
		return err
	}
	copy(dst, p)
	return nil
}

// Anchor reserves 4 placeholder bytes for a length prefix and returns their offset.
// The anchor must be closed with FinishAnchor once the payload has been written.
func (a *Allocator) Anchor() (Anchor, error) {
	start := a.n
	if _, err := a.Assign(AnchorSize); err != nil {
		return 0, err
	}
	a.anchors = append(a.anchors, start)
	return Anchor(start), nil
}

// FinishAnchor backpatches the length prefix reserved by anchor with the
// length of everything written since. Short payloads are compacted to a 1-byte
// prefix by shifting them 3 bytes left; longer ones get the 4-byte form in place.
// Nested anchors must be finished in reverse order of opening; closing any
// anchor other than the innermost open one fails with ErrInvalidAnchor.
func (a *Allocator) FinishAnchor(anchor Anchor) error {
	start := int(anchor)
	top := len(a.anchors) - 1
	if top < 0 || a.anchors[top] != start {
		return fmt.Errorf("%w: offset %d is not the innermost open anchor", ErrInvalidAnchor, start)
	}
	if start+AnchorSize > a.n {
		return fmt.Errorf("%w: offset %d with length %d", ErrInvalidAnchor, start, a.n)
	}
	a.anchors = a.anchors[:top]
	payload := a.n - (start + AnchorSize)

	if payload <= a.shrinkThreshold() {
		PutLength(a.buf[start:], payload, 1)
		copy(a.buf[start+1:], a.buf[start+AnchorSize:a.n])
		a.n -= AnchorSize - 1
		debug("wire: anchor compacted", func() []zap.Field {
			return []zap.Field{zap.Int("offset", start), zap.Int("payload", payload)}
		})
		return nil
	}

	PutLength(a.buf[start:], payload, AnchorSize)
	return nil
}

// rollback discards anchor, any anchor opened after it, and everything written
// since it was opened.
func (a *Allocator) rollback(anchor Anchor) {
	start := int(anchor)
	for i := len(a.anchors) - 1; i >= 0; i-- {
		if a.anchors[i] == start {
			a.anchors = a.anchors[:i]
			if start < a.n {
				a.n = start
			}
			return
		}
	}
}

// Bytes returns a read-only view of the written prefix. The view is capped,
// so appending to it never reaches the allocator's unwritten memory.
// It remains valid until the next mutating call.
func (a *Allocator) Bytes() []byte {
	return a.buf[:a.n:a.n]
}

// View returns the sub-view [off, off+n) of the written prefix if it is in range.
func (a *Allocator) View(off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > a.n || n > a.n-off {
		return nil, false
	}
	return a.buf[off : off+n : off+n], true
}

// Reset discards the written bytes but keeps the region for reuse.
func (a *Allocator) Reset() {
	a.n = 0
	a.anchors = a.anchors[:0]
}

// Free releases the region back to its Memory. The allocator is left empty
// and may be reused; calling Free again is a no-op.
func (a *Allocator) Free() {
	if a.buf == nil {
		return
	}
	region := a.buf
	a.buf = nil
	a.n = 0
	a.anchors = nil
	a.memory().Free(region)
}

// Write implements io.Writer.
func (a *Allocator) Write(p []byte) (int, error) {
	if err := a.Append(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteByte implements io.ByteWriter.
func (a *Allocator) WriteByte(c byte) error {
	dst, err := a.Assign(1)
	if err != nil {
		return err
	}
	dst[0] = c
	return nil
}

// WriteString implements io.StringWriter.
func (a *Allocator) WriteString(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	dst, err := a.Assign(len(s))
	if err != nil {
		return 0, err
	}
	return copy(dst, s), nil
}

// WriteTo implements io.WriterTo by writing the written prefix to w.
func (a *Allocator) WriteTo(w io.Writer) (int64, error) {
	if a.n == 0 {
		return 0, nil
	}
	n, err := w.Write(a.Bytes())
	if err != nil {
		return int64(n), err
	}
	if n < a.n {
		return int64(n), io.ErrShortWrite
	}
	return int64(n), nil
}
