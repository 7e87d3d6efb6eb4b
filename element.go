package rawvec

// Initializer is implemented by element types whose default state needs
// more than the zero value. Init runs on a zeroed slot.
type Initializer interface {
	Init() error
}

// Copier is implemented by element types with their own copy operation.
// CopyFrom makes the receiver a copy of src. The receiver is either a
// zeroed slot (construction) or a live element (assignment), whose old
// state CopyFrom must release.
type Copier[T any] interface {
	CopyFrom(src *T) error
}

// Mover is implemented by element types with their own move operation.
// MoveFrom transfers src's state into the receiver and leaves src in a
// state that is still safe to destroy. The receiver is either a zeroed
// slot (construction) or a live element (assignment), whose old state
// MoveFrom must release. A type with Mover but no Copier is move-only.
type Mover[T any] interface {
	MoveFrom(src *T) error
}

// Destroyer is implemented by element types that must release something
// when an element's lifetime ends. Destroy must accept moved-from values,
// including the zero value left behind by a plain move. Without Copier or
// Mover hooks, Destroy also runs on a live element just before a plain
// assignment overwrites it.
type Destroyer interface {
	Destroy()
}

// SafeMover marks a Mover whose MoveFrom never returns an error.
// Relocation trusts such moves instead of falling back to copies.
type SafeMover interface {
	MoveNeverFails()
}

func valueInit[T any](p *T) error {
	var zero T
	*p = zero
	if in, ok := any(p).(Initializer); ok {
		if err := in.Init(); err != nil {
			*p = zero
			return err
		}
	}
	return nil
}

// copyConstruct builds a copy of src in the empty slot dst. On failure dst
// is left zeroed.
func copyConstruct[T any](dst, src *T) error {
	if err := copyValue(dst, src, false); err != nil {
		var zero T
		*dst = zero
		return err
	}
	return nil
}

// moveConstruct builds dst from src, stealing src's state. On failure dst
// is left zeroed.
func moveConstruct[T any](dst, src *T) error {
	if err := moveValue(dst, src, false); err != nil {
		var zero T
		*dst = zero
		return err
	}
	return nil
}

// copyAssign copies src over the live element dst.
func copyAssign[T any](dst, src *T) error {
	return copyValue(dst, src, true)
}

// moveAssign moves src over the live element dst.
func moveAssign[T any](dst, src *T) error {
	return moveValue(dst, src, true)
}

// copyValue copies src into dst through the type's hook, or by plain
// assignment. A plain assignment over a live dst destroys it first; hooks
// own that step themselves.
func copyValue[T any](dst, src *T, live bool) error {
	if c, ok := any(dst).(Copier[T]); ok {
		return c.CopyFrom(src)
	}
	if _, ok := any(dst).(Mover[T]); ok {
		return ErrNotCopyable
	}
	if live {
		destroy(dst)
	}
	*dst = *src
	return nil
}

// moveValue is copyValue for moves. A plain move leaves src zeroed.
func moveValue[T any](dst, src *T, live bool) error {
	if m, ok := any(dst).(Mover[T]); ok {
		return m.MoveFrom(src)
	}
	if c, ok := any(dst).(Copier[T]); ok {
		return c.CopyFrom(src)
	}
	if live {
		destroy(dst)
	}
	var zero T
	*dst, *src = *src, zero
	return nil
}

// discard resets a slot whose construction failed. No hook runs.
func discard[T any](p *T) {
	var zero T
	*p = zero
}

func destroy[T any](p *T) {
	if d, ok := any(p).(Destroyer); ok {
		d.Destroy()
	}
	var zero T
	*p = zero
}

func destroyAll[T any](s []T) {
	for i := range s {
		destroy(&s[i])
	}
}

// relocateByMove reports whether relocation may move elements: either the
// move cannot fail, or the type cannot be copied at all.
func relocateByMove[T any]() bool {
	p := any((*T)(nil))
	_, copier := p.(Copier[T])
	if !copier {
		// Plain values move by assignment; move-only types have no choice.
		return true
	}
	_, mover := p.(Mover[T])
	_, safe := p.(SafeMover)
	return mover && safe
}

// relocate constructs dst[i] from src[i] for every i, moving or copying
// per relocateByMove. If one construction fails, the elements already
// built in dst are destroyed and src is left as it was (copy) or partially
// moved-from (untrusted move of a move-only type).
func relocate[T any](dst, src []T) error {
	byMove := relocateByMove[T]()
	for i := range src {
		var err error
		if byMove {
			err = moveConstruct(&dst[i], &src[i])
		} else {
			err = copyConstruct(&dst[i], &src[i])
		}
		if err != nil {
			destroyAll(dst[:i])
			return err
		}
	}
	return nil
}

// copyInto copy-constructs src into the empty slots of dst.
func copyInto[T any](dst, src []T) error {
	for i := range src {
		if err := copyConstruct(&dst[i], &src[i]); err != nil {
			destroyAll(dst[:i])
			return err
		}
	}
	return nil
}

// initInto value-initializes every slot of dst.
func initInto[T any](dst []T) error {
	for i := range dst {
		if err := valueInit(&dst[i]); err != nil {
			destroyAll(dst[:i])
			return err
		}
	}
	return nil
}
