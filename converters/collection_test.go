package converters

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oy3o/wire"
)

func defaults() *wire.Registry {
	r := wire.NewRegistry()
	RegisterDefaults(r)
	return r
}

func TestSlice(t *testing.T) {
	t.Run("FixedElements", func(t *testing.T) {
		c := Slice[int32]{Elem: Integer[int32]{}}
		checkEncodings[[]int32](t, c, []int32{1, 2},
			[]byte{1, 0, 0, 0, 2, 0, 0, 0},
			[]byte{8, 1, 0, 0, 0, 2, 0, 0, 0},
			[]byte{8, 1, 0, 0, 0, 2, 0, 0, 0})
	})

	t.Run("VariableElements", func(t *testing.T) {
		c := Slice[string]{Elem: String{}}
		checkEncodings[[]string](t, c, []string{"a", "", "bc"},
			[]byte{1, 'a', 0, 2, 'b', 'c'},
			[]byte{6, 1, 'a', 0, 2, 'b', 'c'},
			[]byte{6, 1, 'a', 0, 2, 'b', 'c'})
	})

	t.Run("Nested", func(t *testing.T) {
		c := Slice[[]int16]{Elem: Slice[int16]{Elem: Integer[int16]{}}}
		data, err := wire.Marshal[[][]int16](c, [][]int16{{1}, {}, {2, 3}})
		require.NoError(t, err)
		assert.Equal(t, []byte{9, 2, 1, 0, 0, 4, 2, 0, 3, 0}, data)

		got, err := wire.Unmarshal[[][]int16](c, data)
		require.NoError(t, err)
		assert.Equal(t, [][]int16{{1}, nil, {2, 3}}, got)
	})

	t.Run("Nil", func(t *testing.T) {
		c := Slice[int32]{Elem: Integer[int32]{}}
		for _, v := range [][]int32{nil, {}} {
			data, err := wire.Marshal[[]int32](c, v)
			require.NoError(t, err)
			assert.Equal(t, []byte{0}, data)

			got, err := wire.Unmarshal[[]int32](c, data)
			require.NoError(t, err)
			assert.Nil(t, got)
		}
	})

	t.Run("ElementError", func(t *testing.T) {
		_, err := Slice[int32]{Elem: Integer[int32]{}}.Decode([]byte{1, 0, 0, 0, 2})
		require.ErrorIs(t, err, wire.ErrInsufficientData)
		assert.Contains(t, err.Error(), "slice element 1")
	})
}

func TestSet(t *testing.T) {
	c := Set[string]{Elem: String{}}
	checkEncodings[map[string]struct{}](t, c, map[string]struct{}{"x": {}},
		[]byte{1, 'x'}, []byte{2, 1, 'x'}, []byte{2, 1, 'x'})

	v := map[string]struct{}{"a": {}, "bb": {}, "ccc": {}}
	data, err := wire.Marshal[map[string]struct{}](c, v)
	require.NoError(t, err)
	got, err := wire.Unmarshal[map[string]struct{}](c, data)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	got, err = c.Decode([]byte{1, 'a', 1, 'a'})
	require.NoError(t, err)
	assert.Len(t, got, 1, "duplicates collapse")
}

func TestMap(t *testing.T) {
	c := Map[string, int32]{Key: String{}, Value: Integer[int32]{}}
	checkEncodings[map[string]int32](t, c, map[string]int32{"k": 7},
		[]byte{1, 'k', 7, 0, 0, 0},
		[]byte{6, 1, 'k', 7, 0, 0, 0},
		[]byte{6, 1, 'k', 7, 0, 0, 0})

	v := map[string]int32{"one": 1, "two": 2, "three": 3}
	data, err := wire.Marshal[map[string]int32](c, v)
	require.NoError(t, err)
	got, err := wire.Unmarshal[map[string]int32](c, data)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	_, err = c.Decode([]byte{1, 'k', 7, 0})
	require.ErrorIs(t, err, wire.ErrInsufficientData)
	assert.Contains(t, err.Error(), "map value 0")
}

func TestFromRegistry(t *testing.T) {
	r := defaults()

	slice, err := SliceOf[uint16](r)
	require.NoError(t, err)
	data, err := wire.Marshal[[]uint16](slice, []uint16{0x0102})
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 0x02, 0x01}, data)

	set, err := SetOf[bool](r)
	require.NoError(t, err)
	data, err = wire.Marshal[map[bool]struct{}](set, map[bool]struct{}{true: {}})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 1}, data)

	m, err := MapOf[string, float64](r)
	require.NoError(t, err)
	got, err := wire.Unmarshal[map[string]float64](m, mustMarshal(t, m, map[string]float64{"pi": 3.14}))
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"pi": 3.14}, got)

	_, err = SliceOf[complex64](r)
	assert.ErrorIs(t, err, wire.ErrNotRegistered)
	_, err = MapOf[string, complex128](r)
	require.ErrorIs(t, err, wire.ErrNotRegistered)
	assert.Contains(t, err.Error(), "map value")
}

func TestRegisterDefaults(t *testing.T) {
	r := defaults()
	assert.Equal(t, 15, r.Len())
	for _, typ := range []reflect.Type{wire.TypeOf[int](), wire.TypeOf[uint](), wire.TypeOf[[]byte](), wire.TypeOf[string]()} {
		_, ok := r.Lookup(typ)
		assert.True(t, ok, "%v", typ)
	}
}

func mustMarshal[T any](t *testing.T, c wire.Converter[T], v T) []byte {
	t.Helper()
	data, err := wire.Marshal(c, v)
	require.NoError(t, err)
	return data
}
