package wire

import (
	"fmt"
	"math/bits"
	"sync"
)

// Memory supplies the backing regions of an Allocator.
type Memory interface {
	// Alloc returns a region with len(region) == size.
	Alloc(size int) ([]byte, error)
	// Free hands a region obtained from Alloc back. The caller must not use it afterwards.
	Free(region []byte)
}

// HeapMemory allocates regions from the Go heap and leaves reclamation to the GC.
var HeapMemory Memory = heapMemory{}

type heapMemory struct{}

func (heapMemory) Alloc(size int) (region []byte, err error) {
	// make panics with a runtime error for sizes it cannot represent.
	defer func() {
		if r := recover(); r != nil {
			region = nil
			err = fmt.Errorf("%w: %d bytes: %v", ErrAllocationFailed, size, r)
		}
	}()
	return make([]byte, size), nil
}

func (heapMemory) Free([]byte) {}

const (
	minPoolClass = 8  // 256 bytes, the default initial capacity
	maxPoolClass = 24 // 16MB; larger regions are not worth keeping alive
)

// PooledMemory recycles regions by power-of-two size class.
// Requests above 16MB fall through to HeapMemory.
type PooledMemory struct {
	pools [maxPoolClass + 1]sync.Pool
}

// NewPooledMemory creates an empty PooledMemory.
func NewPooledMemory() *PooledMemory {
	m := &PooledMemory{}
	for class := minPoolClass; class <= maxPoolClass; class++ {
		size := 1 << class
		m.pools[class].New = func() any {
			b := make([]byte, size)
			return &b
		}
	}
	return m
}

// sizeClass returns the pool class for size, or -1 when size is served by the heap.
func sizeClass(size int) int {
	if size <= 0 {
		return -1
	}
	class := bits.Len(uint(size - 1))
	if class < minPoolClass {
		class = minPoolClass
	}
	if class > maxPoolClass {
		return -1
	}
	return class
}

func (m *PooledMemory) Alloc(size int) ([]byte, error) {
	class := sizeClass(size)
	if class < 0 {
		return HeapMemory.Alloc(size)
	}
	p := m.pools[class].Get().(*[]byte)
	return (*p)[:size], nil
}

func (m *PooledMemory) Free(region []byte) {
	full := region[:cap(region)]
	class := sizeClass(len(full))
	// Only regions that came out of a pool have an exact power-of-two capacity.
	if class < 0 || len(full) != 1<<class {
		return
	}
	m.pools[class].Put(&full)
}

// defaultPool backs allocators that are borrowed for a single call, such as Marshal.
var defaultPool = NewPooledMemory()

var allocatorPool = sync.Pool{
	New: func() any {
		return NewAllocator(&Options{Memory: defaultPool})
	},
}

// acquireAllocator borrows an empty allocator; it must be handed back with releaseAllocator.
func acquireAllocator() *Allocator {
	return allocatorPool.Get().(*Allocator)
}

func releaseAllocator(a *Allocator) {
	if a.Cap() > 1<<maxPoolClass {
		a.Free()
	}
	a.Reset()
	allocatorPool.Put(a)
}
