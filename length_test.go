package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLengthSize(t *testing.T) {
	for _, tc := range []struct {
		n, size int
	}{
		{0, 1}, {1, 1}, {127, 1}, {128, 4}, {768, 4}, {MaxLength, 4},
	} {
		size, err := LengthSize(tc.n)
		require.NoError(t, err)
		assert.Equal(t, tc.size, size, "LengthSize(%d)", tc.n)
	}

	_, err := LengthSize(MaxLength + 1)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	_, err = LengthSize(-1)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestPutLength(t *testing.T) {
	buf := make([]byte, 4)
	PutLength(buf, 5, 4)
	assert.Equal(t, []byte{0x80, 0, 0, 5}, buf, "a wider form than needed is allowed")

	assert.Panics(t, func() { PutLength(buf, 128, 1) })
	assert.Panics(t, func() { PutLength(buf, 1, 2) })
	assert.Panics(t, func() { PutLength(buf, -1, 4) })
}

func TestDecodeLength(t *testing.T) {
	t.Run("ShortForm", func(t *testing.T) {
		n, size, err := DecodeLength([]byte{0x7F, 0xFF})
		require.NoError(t, err)
		assert.Equal(t, 127, n)
		assert.Equal(t, 1, size)
	})

	t.Run("LongForm", func(t *testing.T) {
		n, size, err := DecodeLength([]byte{0x80, 0x00, 0x03, 0x00})
		require.NoError(t, err)
		assert.Equal(t, 768, n)
		assert.Equal(t, 4, size)

		n, _, err = DecodeLength([]byte{0xFF, 0xFF, 0xFF, 0xFF})
		require.NoError(t, err)
		assert.Equal(t, MaxLength, n)
	})

	t.Run("Empty", func(t *testing.T) {
		_, _, err := DecodeLength(nil)
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("TruncatedLongForm", func(t *testing.T) {
		_, _, err := DecodeLength([]byte{0x80, 0x00, 0x03})
		assert.ErrorIs(t, err, ErrInsufficientData)
	})
}

func TestEncodeNumber(t *testing.T) {
	for _, tc := range []struct {
		n        int
		expected []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x00, 0x00, 0x80}},
		{768, []byte{0x80, 0x00, 0x03, 0x00}},
		{MaxLength, []byte{0xFF, 0xFF, 0xFF, 0xFF}},
	} {
		a := NewAllocator(nil)
		require.NoError(t, EncodeNumber(a, tc.n))
		assert.Equal(t, tc.expected, a.Bytes(), "EncodeNumber(%d)", tc.n)

		span := a.Bytes()
		n, err := DecodeNumber(&span)
		require.NoError(t, err)
		assert.Equal(t, tc.n, n)
		assert.Empty(t, span)
	}

	a := NewAllocator(nil)
	assert.ErrorIs(t, EncodeNumber(a, MaxLength+1), ErrCapacityExceeded)
	assert.Equal(t, 0, a.Len())
}

func TestEncodeNumberInto(t *testing.T) {
	buf := make([]byte, 4)
	n, err := EncodeNumberInto(buf, 768)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{0x80, 0x00, 0x03, 0x00}, buf)

	n, err = EncodeNumberInto(buf[:1], 13)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, byte(13), buf[0])

	_, err = EncodeNumberInto(buf[:3], 128)
	assert.ErrorIs(t, err, ErrInsufficientSpace)
	_, err = EncodeNumberInto(nil, 0)
	assert.ErrorIs(t, err, ErrInsufficientSpace)
}

func TestDecodeNumber_AdvancesSpan(t *testing.T) {
	span := []byte{0x05, 0x80, 0x00, 0x01, 0x00, 0xAA}
	first, err := DecodeNumber(&span)
	require.NoError(t, err)
	second, err := DecodeNumber(&span)
	require.NoError(t, err)
	assert.Equal(t, 5, first)
	assert.Equal(t, 256, second)
	assert.Equal(t, []byte{0xAA}, span)

	span = []byte{0x80}
	_, err = DecodeNumber(&span)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.Equal(t, []byte{0x80}, span, "span is not advanced on failure")
}

func TestEndian(t *testing.T) {
	buf := make([]byte, 8)

	PutLE(buf, int16(0x1234))
	assert.Equal(t, []byte{0x34, 0x12}, buf[:2])
	assert.Equal(t, int16(0x1234), GetLE[int16](buf))

	PutBE(buf, uint32(0xDDEEFF00))
	assert.Equal(t, []byte{0xDD, 0xEE, 0xFF, 0x00}, buf[:4])
	assert.Equal(t, uint32(0xDDEEFF00), GetBE[uint32](buf))

	PutLE(buf, int64(-2))
	assert.Equal(t, []byte{0xFE, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, buf)
	assert.Equal(t, int64(-2), GetLE[int64](buf))

	PutLE(buf, int8(-1))
	assert.Equal(t, int8(-1), GetLE[int8](buf))

	PutFloat(BE, buf, float32(1.5))
	assert.Equal(t, []byte{0x3F, 0xC0, 0x00, 0x00}, buf[:4])
	assert.Equal(t, float32(1.5), GetFloat[float32](BE, buf))

	PutFloat(LE, buf, 3.25)
	assert.Equal(t, 3.25, GetFloat[float64](LE, buf))

	assert.Equal(t, 1, SizeOf[uint8]())
	assert.Equal(t, 8, SizeOf[float64]())
}
