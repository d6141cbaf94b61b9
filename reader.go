package wire

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
)

// frameChunk bounds how far ReadFrame reads ahead of the bytes it has received.
const frameChunk = 64 << 10

// Reader reads length-prefixed frames and encoded values from a stream.
// It wraps bufio.Reader and tracks the first error. Subsequent reads become no-ops.
//
// A stream that ends cleanly between values latches io.EOF; one that ends
// inside a value latches ErrInsufficientData wrapping io.ErrUnexpectedEOF.
type Reader struct {
	r        bufferedReader
	count    int64 // total bytes read
	err      error // first error encountered.
	maxFrame int
}

var _ io.Reader = (*Reader)(nil)

// NewReaderSize creates a new Reader with a specified buffer size.
func NewReaderSize(r io.Reader, size int) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}

	switch reader := r.(type) {
	// Reuse the underlying buffer if it's already a compatible Reader.
	case *Reader:
		if reader.r.Size() >= size {
			return &Reader{r: reader.r, maxFrame: reader.maxFrame}, nil
		}

	// prevent unpredictable double-buffering.
	case *bufio.Reader:
		if reader.Size() >= size {
			return &Reader{r: &bufioReaderAdapter{reader}}, nil
		}
		return nil, ErrAlreadyBuffered

	// underlying is in memory so we don't need buffering
	case *bytes.Reader:
		return &Reader{r: &bytesReaderAdapter{reader}}, nil
	case *bytes.Buffer:
		return &Reader{r: &bytesBufferReaderAdapter{reader}}, nil
	}

	// default use bufio
	return &Reader{r: &bufioReaderAdapter{bufio.NewReaderSize(r, size)}}, nil
}

// NewReader creates a new Reader with a default buffer size.
func NewReader(r io.Reader) (*Reader, error) {
	return NewReaderSize(r, defaultBufferSize)
}

// WithMaxFrame limits the payload size ReadFrame accepts and returns
// the Reader for chaining. Larger declared lengths fail with ErrCapacityExceeded
// before any memory is allocated for them.
func (r *Reader) WithMaxFrame(n int) *Reader {
	r.maxFrame = n
	return r
}

func (r *Reader) Count() int64 { return r.count }
func (r *Reader) Err() error   { return r.err }
func (r *Reader) IsEOF() bool  { return r.err == io.EOF }

// Result returns the total bytes read and the final error state.
func (r *Reader) Result() (int64, error) {
	return r.count, r.err
}

// setError records the first non-nil error.
func (r *Reader) setError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// truncated records that the stream ended inside a value.
func (r *Reader) truncated(err error) {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = fmt.Errorf("%w: %w", ErrInsufficientData, io.ErrUnexpectedEOF)
	}
	r.setError(err)
}

// Read implements the io.Reader interface.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	n, err := r.r.Read(p)
	r.count += int64(n)
	r.setError(err)
	return n, r.err
}

// ReadByte implements the io.ByteReader interface.
func (r *Reader) ReadByte() (byte, error) {
	if r.err != nil {
		return 0, r.err
	}
	b, err := r.r.ReadByte()
	if err == nil {
		r.count++
	} else {
		r.err = err
	}
	return b, err
}

// readFull fills p or latches an error. When atBoundary is set, a stream that
// ends before the first byte is a clean io.EOF rather than a truncation.
func (r *Reader) readFull(p []byte, atBoundary bool) bool {
	if r.err != nil {
		return false
	}
	n, err := io.ReadFull(r.r, p)
	r.count += int64(n)
	if err != nil {
		if atBoundary && n == 0 && err == io.EOF {
			r.setError(io.EOF)
		} else {
			r.truncated(err)
		}
		return false
	}
	return true
}

// ReadNumber reads a bare length prefix. The remaining 3 bytes are only read
// once the first byte indicates the long form.
func (r *Reader) ReadNumber() int {
	var buf [4]byte
	first, err := r.ReadByte()
	if err != nil {
		return 0
	}
	buf[0] = first
	if first&0x80 == 0 {
		return int(first)
	}
	if !r.readFull(buf[1:], false) {
		return 0
	}
	n, _, err := DecodeLength(buf[:])
	if err != nil {
		r.setError(err)
		return 0
	}
	return n
}

// ReadFrame reads a length prefix and returns a new slice holding the payload behind it.
func (r *Reader) ReadFrame() []byte {
	n := r.ReadNumber()
	if r.err != nil {
		return nil
	}
	if r.maxFrame > 0 && n > r.maxFrame {
		r.setError(fmt.Errorf("%w: frame of %d bytes exceeds limit %d", ErrCapacityExceeded, n, r.maxFrame))
		return nil
	}
	// The declared length is untrusted, so memory grows with the bytes that
	// actually arrive rather than being reserved up front.
	payload := make([]byte, 0, min(n, frameChunk))
	for len(payload) < n {
		chunk := min(n-len(payload), frameChunk)
		payload = slices.Grow(payload, chunk)
		if !r.readFull(payload[len(payload):len(payload)+chunk], false) {
			return nil
		}
		payload = payload[:len(payload)+chunk]
	}
	return payload
}

// ReadValue reads a value written by WriteValue. Fixed-length values are read
// directly; variable-length values are read as a frame.
func ReadValue[T any](r *Reader, c Converter[T]) (T, error) {
	var zero T
	if r.err != nil {
		return zero, r.err
	}

	var span []byte
	if size := c.Length(); size != 0 {
		span = make([]byte, size)
		if !r.readFull(span, true) {
			return zero, r.err
		}
	} else {
		span = r.ReadFrame()
		if r.err != nil {
			return zero, r.err
		}
	}

	v, err := c.Decode(span)
	if err != nil {
		r.setError(err)
		return zero, err
	}
	return v, nil
}
