package converters

import (
	"bytes"
	"fmt"
	"reflect"
	"unicode/utf8"

	"golang.org/x/text/encoding"

	"github.com/oy3o/wire"
)

// String converts UTF-8 text. The encoding is the raw bytes of the string.
type String struct{}

func (String) Length() int        { return 0 }
func (String) Type() reflect.Type { return wire.TypeOf[string]() }

func (String) Encode(a *wire.Allocator, v string) error {
	_, err := a.WriteString(v)
	return err
}

func (String) Decode(span []byte) (string, error) {
	if utf8.Valid(span) {
		return string(span), nil
	}
	for i := 0; i < len(span); {
		r, size := utf8.DecodeRune(span[i:])
		if r == utf8.RuneError && size <= 1 {
			return "", fmt.Errorf("%w: invalid utf-8 byte 0x%02x at offset %d", wire.ErrInvalidEncoding, span[i], i)
		}
		i += size
	}
	return string(span), nil
}

// Bytes converts raw byte slices. Decoded slices are copies, never views of the span.
type Bytes struct{}

func (Bytes) Length() int        { return 0 }
func (Bytes) Type() reflect.Type { return wire.TypeOf[[]byte]() }

func (Bytes) Encode(a *wire.Allocator, v []byte) error {
	return a.Append(v)
}

func (Bytes) Decode(span []byte) ([]byte, error) {
	return bytes.Clone(span), nil
}

var errNoEncoding = fmt.Errorf("%w: Text has no character encoding", wire.ErrInvalidEncoding)

// Text converts strings through a legacy character encoding such as
// unicode.UTF16 or charmap.Windows1252. Values are held as UTF-8 in Go and
// transcoded on the wire.
type Text struct {
	Encoding encoding.Encoding
}

// Type is string; register a Text converter only in registries where it should
// replace the UTF-8 String converter.
func (Text) Length() int        { return 0 }
func (Text) Type() reflect.Type { return wire.TypeOf[string]() }

func (c Text) Encode(a *wire.Allocator, v string) error {
	if c.Encoding == nil {
		return errNoEncoding
	}
	encoded, err := c.Encoding.NewEncoder().Bytes([]byte(v))
	if err != nil {
		return fmt.Errorf("%w: %w", wire.ErrInvalidEncoding, err)
	}
	return a.Append(encoded)
}

func (c Text) Decode(span []byte) (string, error) {
	if c.Encoding == nil {
		return "", errNoEncoding
	}
	decoded, err := c.Encoding.NewDecoder().Bytes(span)
	if err != nil {
		return "", fmt.Errorf("%w: %w", wire.ErrInvalidEncoding, err)
	}
	return string(decoded), nil
}
