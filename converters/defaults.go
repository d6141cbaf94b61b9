// Package converters holds the leaf converters: numbers, fixed-size structs,
// text, raw bytes, collections and compression.
package converters

import "github.com/oy3o/wire"

// RegisterDefaults registers little-endian numbers, bool, UTF-8 string and raw bytes in r.
func RegisterDefaults(r *wire.Registry) {
	r.Register(Integer[int8]{})
	r.Register(Integer[int16]{})
	r.Register(Integer[int32]{})
	r.Register(Integer[int64]{})
	r.Register(Integer[int]{})
	r.Register(Integer[uint8]{})
	r.Register(Integer[uint16]{})
	r.Register(Integer[uint32]{})
	r.Register(Integer[uint64]{})
	r.Register(Integer[uint]{})
	r.Register(Float[float32]{})
	r.Register(Float[float64]{})
	r.Register(Bool{})
	r.Register(String{})
	r.Register(Bytes{})
}
