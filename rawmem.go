package rawvec

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/rawbytedev/rawvec/internal/assert"
)

// RawMemory owns a block of capacity slots of T. It never runs element
// hooks: whoever built elements inside the block must destroy them before
// the block is released. The zero value is an empty block.
type RawMemory[T any] struct {
	_   noCopy
	buf []T
}

// MakeRawMemory reserves exactly capacity slots. A capacity of zero
// yields an empty block.
func MakeRawMemory[T any](capacity int) (RawMemory[T], error) {
	buf, err := allocate[T](capacity, 0)
	if err != nil {
		return RawMemory[T]{}, err
	}
	return RawMemory[T]{buf: buf}, nil
}

// allocate returns a block of n slots, or nil for n == 0. limit > 0 caps n.
func allocate[T any](n, limit int) (buf []T, err error) {
	switch {
	case n < 0:
		return nil, fmt.Errorf("%w: negative capacity %d", ErrAllocation, n)
	case n == 0:
		return nil, nil
	case limit > 0 && n > limit:
		return nil, fmt.Errorf("%w: %d slots exceeds limit %d", ErrAllocation, n, limit)
	case n > maxSlots[T]():
		return nil, fmt.Errorf("%w: %d slots is not addressable", ErrAllocation, n)
	}
	defer func() {
		// make reports an unsatisfiable length with a runtime panic.
		if r := recover(); r != nil {
			buf, err = nil, fmt.Errorf("%w: %d slots: %v", ErrAllocation, n, r)
		}
	}()
	return make([]T, n), nil
}

func maxSlots[T any]() int {
	var zero T
	size := unsafe.Sizeof(zero)
	if size == 0 {
		return math.MaxInt
	}
	return int(uintptr(math.MaxInt) / size)
}

// Take moves the block out of m into the returned value and leaves m empty.
func (m *RawMemory[T]) Take() RawMemory[T] {
	buf := m.buf
	m.buf = nil
	return RawMemory[T]{buf: buf}
}

// MoveFrom releases m's block and adopts other's, leaving other empty.
func (m *RawMemory[T]) MoveFrom(other *RawMemory[T]) {
	if m == other {
		return
	}
	m.buf = other.buf
	other.buf = nil
}

// Swap exchanges the blocks of m and other.
func (m *RawMemory[T]) Swap(other *RawMemory[T]) {
	m.buf, other.buf = other.buf, m.buf
}

// Release frees the block. Live elements are not destroyed.
func (m *RawMemory[T]) Release() {
	m.buf = nil
}

func (m *RawMemory[T]) Capacity() int {
	return len(m.buf)
}

// At returns the address of slot i.
func (m *RawMemory[T]) At(i int) *T {
	assert.Index(i, len(m.buf))
	return &m.buf[i]
}

// Slots returns the slots [from, to) as a slice aliasing the block.
func (m *RawMemory[T]) Slots(from, to int) []T {
	assert.Bound(to, len(m.buf))
	assert.That(from <= to, "slot range is reversed")
	return m.buf[from:to:to]
}
