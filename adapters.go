package wire

import (
	"bufio"
	"bytes"
	"io"
)

// defaultBufferSize is the bufio buffer size used by NewReader and NewWriter.
const defaultBufferSize = 4096

// bufferedWriter is what Writer needs from its destination.
type bufferedWriter interface {
	io.Writer
	io.ByteWriter
	Flush() error
	Size() int
}

// bufferedReader is what Reader needs from its source.
type bufferedReader interface {
	io.Reader
	io.ByteReader
	Size() int
}

type (
	bufioWriterAdapter       struct{ *bufio.Writer }
	bytesBufferWriterAdapter struct{ *bytes.Buffer }
	allocatorWriterAdapter   struct{ *Allocator }

	bufioReaderAdapter       struct{ *bufio.Reader }
	bytesReaderAdapter       struct{ *bytes.Reader }
	bytesBufferReaderAdapter struct{ *bytes.Buffer }
)

func (w *bytesBufferWriterAdapter) Flush() error { return nil }
func (w *bytesBufferWriterAdapter) Size() int    { return w.Available() }
func (w *allocatorWriterAdapter) Flush() error   { return nil }
func (w *allocatorWriterAdapter) Size() int      { return w.MaxCap() - w.Len() }
func (r *bytesReaderAdapter) Size() int          { return int(r.Reader.Size()) }
func (r *bytesBufferReaderAdapter) Size() int    { return r.Len() }
