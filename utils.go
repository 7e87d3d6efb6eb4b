package rawvec

import "github.com/go-kit/log/level"

// grownCapacity is the capacity after a growth step: doubling, starting at
// one slot.
func grownCapacity(capacity int) int {
	if capacity == 0 {
		return 1
	}
	return capacity * 2
}

func (v *Vector[T]) logRealloc(op string, from, to int) {
	if v.opts.Logger == nil {
		return
	}
	_ = level.Debug(v.opts.Logger).Log("msg", "reallocated storage", "op", op, "from", from, "to", to, "size", v.size)
}
