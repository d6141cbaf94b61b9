package wire

import "fmt"

const (
	// MaxLength is the largest magnitude a length prefix can carry (2^31-1).
	MaxLength = 1<<31 - 1

	// MaxShortLength is the largest magnitude stored in the 1-byte form.
	MaxShortLength = 1<<7 - 1

	// longFlag marks the 4-byte form in the first byte's top bit.
	longFlag = 0x8000_0000
)

// LengthSize returns the number of bytes needed to encode n as a length prefix:
// 1 for n < 128, 4 otherwise.
func LengthSize(n int) (int, error) {
	if n < 0 || n > MaxLength {
		return 0, fmt.Errorf("%w: length %d out of range [0, %d]", ErrCapacityExceeded, n, MaxLength)
	}
	if n <= MaxShortLength {
		return 1, nil
	}
	return 4, nil
}

// PutLength writes n into dst using the given width (1 or 4).
// The width must be at least LengthSize(n); violations are programming errors and panic.
func PutLength(dst []byte, n, width int) {
	if n < 0 || n > MaxLength {
		panic(fmt.Sprintf("wire: length %d out of range", n))
	}
	switch width {
	case 1:
		if n > MaxShortLength {
			panic(fmt.Sprintf("wire: length %d does not fit in 1 byte", n))
		}
		dst[0] = byte(n)
	case 4:
		BE.PutUint32(dst, uint32(n)|longFlag)
	default:
		panic(fmt.Sprintf("wire: invalid length width %d", width))
	}
}

// DecodeLength reads a length prefix from the front of src and returns the
// magnitude and the number of bytes consumed. The first byte's top bit selects
// the form; 4 bytes are only required once the long form is indicated.
func DecodeLength(src []byte) (n, size int, err error) {
	if len(src) < 1 {
		return 0, 0, fmt.Errorf("%w: need 1 byte for length prefix, have 0", ErrInsufficientData)
	}
	if src[0]&0x80 == 0 {
		return int(src[0]), 1, nil
	}
	if len(src) < 4 {
		return 0, 0, fmt.Errorf("%w: need 4 bytes for length prefix, have %d", ErrInsufficientData, len(src))
	}
	return int(BE.Uint32(src) &^ longFlag), 4, nil
}
