package rawvec

import (
	"iter"

	"github.com/rawbytedev/rawvec/internal/assert"
)

// Vector is a growable sequence of T stored contiguously in one RawMemory.
// Slots [0, Size()) hold live elements; slots [Size(), Capacity()) are
// allocated but hold no element. The zero value is an empty vector.
//
// Indices and pointers obtained from a Vector are invalidated by any call
// that reallocates (Reserve, growing Resize, PushBack or Emplace past
// capacity) and, at or after the mutation point, by Insert and Erase.
type Vector[T any] struct {
	data RawMemory[T]
	size int
	opts Options
}

func New[T any](opts Options) *Vector[T] {
	return &Vector[T]{opts: opts}
}

// NewSized returns a vector of n value-initialized elements.
func NewSized[T any](n int, opts Options) (*Vector[T], error) {
	v := &Vector[T]{opts: opts}
	scratch, err := v.newBlock(n)
	if err != nil {
		return nil, err
	}
	if err := initInto(scratch.Slots(0, n)); err != nil {
		return nil, err
	}
	v.data.Swap(&scratch)
	v.size = n
	return v, nil
}

func (v *Vector[T]) newBlock(n int) (RawMemory[T], error) {
	buf, err := allocate[T](n, v.opts.CapacityLimit)
	if err != nil {
		return RawMemory[T]{}, err
	}
	return RawMemory[T]{buf: buf}, nil
}

// Clone returns a deep copy of v in storage sized to v's length.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	return v.clone(v.opts)
}

func (v *Vector[T]) clone(opts Options) (*Vector[T], error) {
	out := &Vector[T]{opts: opts}
	scratch, err := out.newBlock(v.size)
	if err != nil {
		return nil, err
	}
	if err := copyInto(scratch.Slots(0, v.size), v.data.Slots(0, v.size)); err != nil {
		return nil, err
	}
	out.data.Swap(&scratch)
	out.size = v.size
	return out, nil
}

// Move transfers v's storage to a new vector in O(1). v is left empty
// and ready for reuse.
func (v *Vector[T]) Move() *Vector[T] {
	out := &Vector[T]{data: v.data.Take(), size: v.size, opts: v.opts}
	v.size = 0
	return out
}

// CopyFrom makes v an element-wise copy of other.
//
// When other fits in v's capacity the storage is reused: overlapping
// elements are assigned, and the remainder is either constructed or
// destroyed. A failure on that path leaves v valid with partially assigned
// contents. Otherwise a full copy is built first and swapped in, so a
// failure leaves v untouched.
func (v *Vector[T]) CopyFrom(other *Vector[T]) error {
	if v == other {
		return nil
	}
	if other.size > v.data.Capacity() {
		tmp, err := other.clone(v.opts)
		if err != nil {
			return err
		}
		v.Swap(tmp)
		tmp.Release()
		return nil
	}
	overlap := min(v.size, other.size)
	for i := 0; i < overlap; i++ {
		if err := copyAssign(v.data.At(i), other.data.At(i)); err != nil {
			return err
		}
	}
	if v.size <= other.size {
		if err := copyInto(v.data.Slots(v.size, other.size), other.data.Slots(v.size, other.size)); err != nil {
			return err
		}
	} else {
		destroyAll(v.data.Slots(other.size, v.size))
	}
	v.size = other.size
	return nil
}

// MoveFrom is move assignment, implemented as a swap: other ends up
// holding v's previous elements rather than being emptied.
func (v *Vector[T]) MoveFrom(other *Vector[T]) {
	if v == other {
		return
	}
	v.Swap(other)
}

// Swap exchanges the elements and storage of v and other. Options stay
// with their vector.
func (v *Vector[T]) Swap(other *Vector[T]) {
	if v == other {
		return
	}
	v.data.Swap(&other.data)
	v.size, other.size = other.size, v.size
}

// Reserve grows capacity to exactly n slots when n exceeds the current
// capacity. If allocation or relocation fails, v is unchanged.
func (v *Vector[T]) Reserve(n int) error {
	if n <= v.data.Capacity() {
		return nil
	}
	scratch, err := v.newBlock(n)
	if err != nil {
		return err
	}
	if err := relocate(scratch.Slots(0, v.size), v.data.Slots(0, v.size)); err != nil {
		return err
	}
	v.adopt(&scratch, "reserve")
	return nil
}

// adopt destroys the elements left in the current block and replaces the
// block with scratch, whose elements were already relocated.
func (v *Vector[T]) adopt(scratch *RawMemory[T], op string) {
	from := v.data.Capacity()
	destroyAll(v.data.Slots(0, v.size))
	v.data.Swap(scratch)
	scratch.Release()
	v.logRealloc(op, from, v.data.Capacity())
}

// Resize sets the length to n, value-initializing new elements or
// destroying the excess tail.
func (v *Vector[T]) Resize(n int) error {
	assert.That(n >= 0, "negative size")
	if err := v.Reserve(n); err != nil {
		return err
	}
	if n > v.size {
		if err := initInto(v.data.Slots(v.size, n)); err != nil {
			return err
		}
	} else {
		destroyAll(v.data.Slots(n, v.size))
	}
	v.size = n
	return nil
}

// Release destroys every element in index order and frees the storage.
// v stays usable as an empty vector.
func (v *Vector[T]) Release() {
	destroyAll(v.data.Slots(0, v.size))
	v.size = 0
	v.data.Release()
}

func (v *Vector[T]) Size() int {
	return v.size
}

func (v *Vector[T]) Capacity() int {
	return v.data.Capacity()
}

// At returns the address of element i.
func (v *Vector[T]) At(i int) *T {
	assert.Index(i, v.size)
	return v.data.At(i)
}

// Get returns a copy of element i.
func (v *Vector[T]) Get(i int) T {
	assert.Index(i, v.size)
	return *v.data.At(i)
}

// Slice returns the live elements as a slice sharing v's storage. Writes
// through it modify v.
func (v *Vector[T]) Slice() []T {
	return v.data.Slots(0, v.size)
}

// All yields index/value pairs from front to back.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < v.size; i++ {
			if !yield(i, *v.data.At(i)) {
				return
			}
		}
	}
}

// Values yields the elements from front to back.
func (v *Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < v.size; i++ {
			if !yield(*v.data.At(i)) {
				return
			}
		}
	}
}

// Backward yields index/value pairs from back to front.
func (v *Vector[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := v.size - 1; i >= 0; i-- {
			if !yield(i, *v.data.At(i)) {
				return
			}
		}
	}
}
