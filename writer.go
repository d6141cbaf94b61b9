package wire

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Writer writes length-prefixed frames and encoded values to a stream.
// It wraps bufio.Writer for efficiency and tracks the first error that occurs.
// After an error, all subsequent write operations become no-ops.
type Writer struct {
	w     bufferedWriter
	count int64 // total bytes written
	err   error // first error encountered. Subsequent writes become no-ops.
	depth int
}

var _ io.Writer = (*Writer)(nil)

// NewWriterSize creates a new Writer with a specified buffer size.
// It returns an error to prevent double-buffering, a common source of bugs.
func NewWriterSize(w io.Writer, size int) (*Writer, error) {
	if w == nil {
		return nil, ErrNilIO
	}

	switch bw := w.(type) {
	// Reuse the underlying buffer if it's already a compatible Writer.
	case *Writer:
		if bw.w.Size() >= size {
			return &Writer{w: bw.w, depth: bw.depth + 1}, nil
		}

	// prevent unpredictable double-buffering.
	case *bufio.Writer:
		if bw.Size() >= size {
			return &Writer{w: &bufioWriterAdapter{bw}, depth: 1}, nil
		}
		return nil, ErrAlreadyBuffered

	// underlying is in memory so we don't need buffering
	case *Allocator:
		return &Writer{w: &allocatorWriterAdapter{bw}}, nil
	case *bytes.Buffer:
		return &Writer{w: &bytesBufferWriterAdapter{bw}}, nil
	}

	// default use bufio
	return &Writer{w: &bufioWriterAdapter{bufio.NewWriterSize(w, size)}}, nil
}

// NewWriter creates a new Writer with a default buffer size.
func NewWriter(w io.Writer) (*Writer, error) {
	return NewWriterSize(w, defaultBufferSize)
}

// Write implements the io.Writer interface.
func (w *Writer) Write(buf []byte) (int, error) {
	if len(buf) == 0 || w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(buf)
	w.count += int64(n)
	w.setError(err)
	return n, w.err
}

// WriteByte implements the io.ByteWriter interface.
func (w *Writer) WriteByte(c byte) error {
	if w.err != nil {
		return w.err
	}
	err := w.w.WriteByte(c)
	if err == nil {
		w.count++
	} else {
		w.err = err
	}
	return err
}

func (w *Writer) Count() int64 { return w.count }
func (w *Writer) Err() error   { return w.err }

// setError records the first non-nil error.
// This preserves the root cause of a failure chain instead of a later,
// less relevant error.
func (w *Writer) setError(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Result flushes the buffer and returns the final count and error state.
func (w *Writer) Result() (int64, error) {
	w.Flush()
	return w.count, w.err
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	// Only the outermost writer should be responsible for the final flush.
	if w.depth > 0 || w.err != nil {
		return w.err
	}
	err := w.w.Flush()
	w.setError(err)
	return err
}

// WriteNumber writes n as a bare length prefix.
func (w *Writer) WriteNumber(n int) {
	if w.err != nil {
		return
	}
	var buf [4]byte
	size, err := EncodeNumberInto(buf[:], n)
	if err != nil {
		w.setError(err)
		return
	}
	_, _ = w.Write(buf[:size])
}

// WriteFrame writes p behind its length prefix.
func (w *Writer) WriteFrame(p []byte) {
	if w.err != nil {
		return
	}
	if len(p) > MaxLength {
		w.setError(fmt.Errorf("%w: frame of %d bytes", ErrCapacityExceeded, len(p)))
		return
	}
	w.WriteNumber(len(p))
	_, _ = w.Write(p)
}

// WriteValue encodes v with EncodeAuto and writes the result, so that
// ReadValue with the same converter reads it back.
func WriteValue[T any](w *Writer, c Converter[T], v T) {
	if w.err != nil {
		return
	}
	a := acquireAllocator()
	defer releaseAllocator(a)
	if err := EncodeAuto(a, c, v); err != nil {
		w.setError(err)
		return
	}
	_, _ = w.Write(a.Bytes())
}
