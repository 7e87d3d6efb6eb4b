package rawvec

import "github.com/rawbytedev/rawvec/internal/assert"

// PushBack appends a copy of value. If construction, allocation or
// relocation fails, v is unchanged.
func (v *Vector[T]) PushBack(value T) error {
	return v.pushBack(func(slot *T) error {
		return copyConstruct(slot, &value)
	})
}

// PushBackMove appends value by moving it; value is left moved-from.
func (v *Vector[T]) PushBackMove(value *T) error {
	return v.pushBack(func(slot *T) error {
		return moveConstruct(slot, value)
	})
}

// EmplaceBack constructs a new last element in place with ctor and
// returns its address.
func (v *Vector[T]) EmplaceBack(ctor func(slot *T) error) (*T, error) {
	pos, err := v.Emplace(v.size, ctor)
	if err != nil {
		return nil, err
	}
	return v.data.At(pos), nil
}

func (v *Vector[T]) pushBack(build func(slot *T) error) error {
	if v.size < v.data.Capacity() {
		slot := v.data.At(v.size)
		if err := build(slot); err != nil {
			discard(slot)
			return err
		}
		v.size++
		return nil
	}

	scratch, err := v.newBlock(grownCapacity(v.data.Capacity()))
	if err != nil {
		return err
	}
	// The new element goes into its final slot before anything moves.
	slot := scratch.At(v.size)
	if err := build(slot); err != nil {
		discard(slot)
		scratch.Release()
		return err
	}
	if err := relocate(scratch.Slots(0, v.size), v.data.Slots(0, v.size)); err != nil {
		destroy(slot)
		scratch.Release()
		return err
	}
	v.adopt(&scratch, "push_back")
	v.size++
	return nil
}

// PopBack destroys the last element. It does nothing on an empty vector.
func (v *Vector[T]) PopBack() {
	if v.size == 0 {
		return
	}
	v.size--
	destroy(v.data.At(v.size))
}

// Insert places a copy of value at pos and returns pos.
func (v *Vector[T]) Insert(pos int, value T) (int, error) {
	return v.Emplace(pos, func(slot *T) error {
		return copyConstruct(slot, &value)
	})
}

// InsertMove places value at pos by moving it and returns pos.
func (v *Vector[T]) InsertMove(pos int, value *T) (int, error) {
	return v.Emplace(pos, func(slot *T) error {
		return moveConstruct(slot, value)
	})
}

// Emplace constructs an element with ctor at pos, shifting later elements
// one slot toward the end, and returns pos. ctor builds the element in
// place inside the slot it is given.
//
// Inserting at the end, or into a full vector, either succeeds or leaves v
// unchanged. Inserting before the end of a vector with spare capacity
// shifts elements in place: a failure once the shift has begun leaves v
// valid, with every slot below Size() live, but with unspecified contents.
func (v *Vector[T]) Emplace(pos int, ctor func(slot *T) error) (int, error) {
	assert.Bound(pos, v.size)
	if v.size == v.data.Capacity() {
		return pos, v.reallocInsert(pos, ctor)
	}
	if pos == v.size {
		slot := v.data.At(pos)
		if err := ctor(slot); err != nil {
			discard(slot)
			return pos, err
		}
		v.size++
		return pos, nil
	}
	return pos, v.shiftInsert(pos, ctor)
}

func (v *Vector[T]) shiftInsert(pos int, ctor func(slot *T) error) error {
	var tmp T
	if err := ctor(&tmp); err != nil {
		return err
	}
	defer destroy(&tmp)

	if err := moveConstruct(v.data.At(v.size), v.data.At(v.size-1)); err != nil {
		return err
	}
	// The old last slot was moved into the spare one; both are live now.
	v.size++
	for i := v.size - 2; i > pos; i-- {
		if err := moveAssign(v.data.At(i), v.data.At(i-1)); err != nil {
			return err
		}
	}
	return moveAssign(v.data.At(pos), &tmp)
}

func (v *Vector[T]) reallocInsert(pos int, ctor func(slot *T) error) error {
	scratch, err := v.newBlock(grownCapacity(v.data.Capacity()))
	if err != nil {
		return err
	}
	slot := scratch.At(pos)
	if err := ctor(slot); err != nil {
		discard(slot)
		scratch.Release()
		return err
	}
	if err := relocate(scratch.Slots(0, pos), v.data.Slots(0, pos)); err != nil {
		destroy(slot)
		scratch.Release()
		return err
	}
	if err := relocate(scratch.Slots(pos+1, v.size+1), v.data.Slots(pos, v.size)); err != nil {
		destroyAll(scratch.Slots(0, pos+1))
		scratch.Release()
		return err
	}
	v.adopt(&scratch, "emplace")
	v.size++
	return nil
}

// Erase removes the element at pos, shifting later elements one slot
// toward the front, and returns pos. pos must be below Size().
func (v *Vector[T]) Erase(pos int) (int, error) {
	assert.Index(pos, v.size)
	for i := pos; i < v.size-1; i++ {
		if err := moveAssign(v.data.At(i), v.data.At(i+1)); err != nil {
			return pos, err
		}
	}
	v.size--
	destroy(v.data.At(v.size))
	return pos, nil
}
