package wire

import "errors"

var (
	// ErrCapacityExceeded indicates that growth would exceed the allocator's maximum capacity,
	// or that a single request exceeds the largest representable length (MaxLength).
	ErrCapacityExceeded = errors.New("wire: maximum capacity exceeded")

	// ErrAllocationFailed indicates that the backing Memory could not satisfy a request.
	ErrAllocationFailed = errors.New("wire: allocation failed")

	// ErrInvalidAnchor indicates an anchor offset that no longer matches the buffer state,
	// typically because anchors were closed out of order.
	ErrInvalidAnchor = errors.New("wire: invalid anchor")

	// ErrInsufficientData indicates that a decode needed more bytes than the span provides.
	ErrInsufficientData = errors.New("wire: insufficient data")

	// ErrInsufficientSpace indicates that a caller-supplied buffer is too small for a direct write.
	ErrInsufficientSpace = errors.New("wire: insufficient space")

	// ErrInvalidEncoding indicates payload bytes that do not form a valid value.
	ErrInvalidEncoding = errors.New("wire: invalid encoding")

	// ErrTrailingData is returned by Unmarshal when bytes remain after the value was decoded,
	// indicating a potential parsing error or malformed data.
	ErrTrailingData = errors.New("wire: trailing data found after decoding")

	// ErrNotRegistered indicates that no converter is registered for the requested type.
	ErrNotRegistered = errors.New("wire: converter not registered")

	// ErrTypeMismatch indicates that a registered converter does not convert the requested type.
	ErrTypeMismatch = errors.New("wire: converter type mismatch")

	// ErrNilIO indicates that NewReader/NewWriter was called with an nil interface
	ErrNilIO = errors.New("wire: NewReader/NewWriter called with a nil io.Reader/io.Writer")

	// ErrAlreadyBuffered indicates that NewReader/NewWriter was called with an already-buffered
	// reader/writer smaller than requested, which would lead to unpredictable double-buffering.
	ErrAlreadyBuffered = errors.New("wire: reader or writer is already buffered")
)
