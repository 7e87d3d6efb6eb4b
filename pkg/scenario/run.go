package scenario

import (
	"fmt"
	"slices"

	"github.com/go-kit/log/level"

	"github.com/rawbytedev/rawvec"
)

// Record is the state of the vector after one step.
type Record struct {
	Op       string
	Size     int
	Capacity int
}

// Trace lists one Record per executed step, preceded by the initial state
// under the op name "init".
type Trace []Record

// Reallocations counts the steps that changed capacity.
func (t Trace) Reallocations() int {
	n := 0
	for i := 1; i < len(t); i++ {
		if t[i].Capacity != t[i-1].Capacity {
			n++
		}
	}
	return n
}

// Run replays s against a fresh Vector[int64] built with opts. It returns
// the vector and the trace up to the failing step on error.
func Run(s *Scenario, opts rawvec.Options) (*rawvec.Vector[int64], Trace, error) {
	v := rawvec.New[int64](opts)
	if s.Reserve > 0 {
		if err := v.Reserve(s.Reserve); err != nil {
			return v, nil, fmt.Errorf("%s: initial reserve: %w", s.Name, err)
		}
	}
	trace := Trace{{Op: "init", Size: v.Size(), Capacity: v.Capacity()}}
	for i, st := range s.Ops {
		if err := apply(v, st); err != nil {
			return v, trace, fmt.Errorf("%s: step %d (%s): %w", s.Name, i, st.Op, err)
		}
		trace = append(trace, Record{Op: st.Op, Size: v.Size(), Capacity: v.Capacity()})
	}
	if opts.Logger != nil {
		_ = level.Info(opts.Logger).Log("msg", "scenario finished", "name", s.Name,
			"steps", len(s.Ops), "size", v.Size(), "capacity", v.Capacity(), "reallocations", trace.Reallocations())
	}
	if s.Expect != nil && !slices.Equal(s.Expect, v.Slice()) {
		return v, trace, fmt.Errorf("%s: %w: got %v, want %v", s.Name, ErrMismatch, v.Slice(), s.Expect)
	}
	return v, trace, nil
}

func apply(v *rawvec.Vector[int64], st Step) error {
	switch st.Op {
	case OpPushBack:
		return v.PushBack(st.Value)
	case OpPopBack:
		v.PopBack()
		return nil
	case OpInsert:
		if st.Pos < 0 || st.Pos > v.Size() {
			return fmt.Errorf("%w: insert at %d, size %d", ErrPosition, st.Pos, v.Size())
		}
		_, err := v.Insert(st.Pos, st.Value)
		return err
	case OpErase:
		if st.Pos < 0 || st.Pos >= v.Size() {
			return fmt.Errorf("%w: erase at %d, size %d", ErrPosition, st.Pos, v.Size())
		}
		_, err := v.Erase(st.Pos)
		return err
	case OpReserve:
		return v.Reserve(st.N)
	case OpResize:
		if st.N < 0 {
			return fmt.Errorf("%w: resize to %d", ErrPosition, st.N)
		}
		return v.Resize(st.N)
	}
	return fmt.Errorf("%w %q", ErrUnknownOp, st.Op)
}
