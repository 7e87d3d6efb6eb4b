package rawvec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errInjected = errors.New("injected failure")

// ledger tracks probe lifetimes and fails the n-th hook call once armed.
type ledger struct {
	live     int
	calls    int
	failAt   int
	badDrops int
	dropped  []int
}

var book ledger

func (l *ledger) reset() { *l = ledger{} }

func (l *ledger) arm(n int) {
	l.calls = 0
	l.failAt = n
}

func (l *ledger) tick() error {
	l.calls++
	if l.failAt > 0 && l.calls == l.failAt {
		l.failAt = 0
		return errInjected
	}
	return nil
}

// probe copies and moves through hooks that may fail, so relocation
// copies it.
type probe struct {
	id    int
	alive bool
}

func (p *probe) Init() error {
	if err := book.tick(); err != nil {
		return err
	}
	p.alive = true
	book.live++
	return nil
}

func (p *probe) CopyFrom(src *probe) error {
	if err := book.tick(); err != nil {
		return err
	}
	if !p.alive {
		book.live++
	}
	p.id, p.alive = src.id, true
	return nil
}

func (p *probe) MoveFrom(src *probe) error {
	if err := book.tick(); err != nil {
		return err
	}
	if !p.alive {
		book.live++
	}
	p.id, p.alive = src.id, true
	src.id = -1
	return nil
}

func (p *probe) Destroy() {
	if !p.alive {
		book.badDrops++
		return
	}
	book.dropped = append(book.dropped, p.id)
	p.alive = false
	book.live--
}

func build(id int) func(*probe) error {
	return func(p *probe) error {
		if err := book.tick(); err != nil {
			return err
		}
		*p = probe{id: id, alive: true}
		book.live++
		return nil
	}
}

func ids(v *Vector[probe]) []int {
	out := make([]int, 0, v.Size())
	for p := range v.Values() {
		out = append(out, p.id)
	}
	return out
}

func probes(t *testing.T, n int) *Vector[probe] {
	book.reset()
	v := New[probe](Options{})
	for i := 0; i < n; i++ {
		_, err := v.EmplaceBack(build(i))
		require.NoError(t, err)
	}
	return v
}

func requireBalanced(t *testing.T, v *Vector[probe]) {
	t.Helper()
	require.Equal(t, v.Size(), book.live, "live probes")
	require.Zero(t, book.badDrops, "destroyed twice")
	v.Release()
	require.Zero(t, book.live)
	require.Zero(t, book.badDrops)
}

// move-only element: it has no copy operation.
type handle struct{ fd int }

func (h *handle) MoveFrom(src *handle) error {
	h.fd, src.fd = src.fd, -1
	return nil
}

// trusted moves are used for relocation even though copies exist.
type trusted struct{ probe }

func (t *trusted) CopyFrom(src *trusted) error { return t.probe.CopyFrom(&src.probe) }
func (t *trusted) MoveFrom(src *trusted) error { return t.probe.MoveFrom(&src.probe) }
func (*trusted) MoveNeverFails() {}

type copyOnly struct{ n int }

func (c *copyOnly) CopyFrom(src *copyOnly) error {
	c.n = src.n
	return nil
}

func TestRelocationPolicy(t *testing.T) {
	require.True(t, relocateByMove[int]())
	require.True(t, relocateByMove[[]string]())
	require.True(t, relocateByMove[handle]())
	require.True(t, relocateByMove[trusted]())
	require.False(t, relocateByMove[probe]())
	require.False(t, relocateByMove[copyOnly]())
}

func TestRelocationCopiesUntrustedMoves(t *testing.T) {
	v := probes(t, 4)
	book.dropped = nil
	require.NoError(t, v.Reserve(8))
	// copies leave ids intact; a move would have left -1 behind.
	require.Equal(t, []int{0, 1, 2, 3}, book.dropped)
	requireBalanced(t, v)
}

func TestRelocationMovesTrusted(t *testing.T) {
	book.reset()
	v := New[trusted](Options{})
	for i := 0; i < 3; i++ {
		require.NoError(t, v.PushBack(trusted{probe{id: i, alive: true}}))
	}
	book.dropped = nil
	require.NoError(t, v.Reserve(8))
	require.Equal(t, []int{-1, -1, -1}, book.dropped)
	require.Equal(t, 3, book.live)
}

func TestMoveOnlyElements(t *testing.T) {
	v := New[handle](Options{})
	for i := 0; i < 5; i++ {
		h := handle{fd: i}
		require.NoError(t, v.PushBackMove(&h))
		require.Equal(t, -1, h.fd)
	}
	require.Equal(t, []handle{{0}, {1}, {2}, {3}, {4}}, v.Slice())

	require.ErrorIs(t, v.PushBack(handle{fd: 9}), ErrNotCopyable)
	_, err := v.Clone()
	require.ErrorIs(t, err, ErrNotCopyable)
	require.Equal(t, 5, v.Size())

	h := handle{fd: 7}
	_, err = v.InsertMove(1, &h)
	require.NoError(t, err)
	_, err = v.Erase(0)
	require.NoError(t, err)
	require.Equal(t, []handle{{7}, {1}, {2}, {3}, {4}}, v.Slice())
}

func TestSizedInitRunsHooks(t *testing.T) {
	book.reset()
	v, err := NewSized[probe](3, Options{})
	require.NoError(t, err)
	for p := range v.Values() {
		require.True(t, p.alive)
	}
	requireBalanced(t, v)

	book.reset()
	book.arm(3)
	_, err = NewSized[probe](5, Options{})
	require.ErrorIs(t, err, errInjected)
	require.Zero(t, book.live)
}

func TestReleaseDestroysInOrder(t *testing.T) {
	v := probes(t, 4)
	book.dropped = nil
	v.Release()
	require.Equal(t, []int{0, 1, 2, 3}, book.dropped)
	require.Zero(t, book.live)
}

func TestPushBackStrongGuarantee(t *testing.T) {
	// Full vector: call 1 builds the new element, calls 2..5 relocate.
	for failAt := 1; failAt <= 5; failAt++ {
		v := probes(t, 4)
		require.Equal(t, 4, v.Capacity())

		book.arm(failAt)
		err := v.PushBack(probe{id: 99, alive: true})
		require.ErrorIs(t, err, errInjected, "failAt=%d", failAt)
		require.Equal(t, []int{0, 1, 2, 3}, ids(v))
		require.Equal(t, 4, v.Capacity())
		requireBalanced(t, v)
	}
}

func TestPushBackWithSpareCapacityFailure(t *testing.T) {
	v := probes(t, 3)
	book.arm(1)
	require.ErrorIs(t, v.PushBack(probe{id: 9, alive: true}), errInjected)
	require.Equal(t, []int{0, 1, 2}, ids(v))
	require.False(t, v.data.At(3).alive)
	requireBalanced(t, v)
}

func TestReserveStrongGuarantee(t *testing.T) {
	v := probes(t, 4)
	first := v.At(0)
	book.arm(3)
	require.ErrorIs(t, v.Reserve(16), errInjected)
	require.Equal(t, 4, v.Capacity())
	require.Same(t, first, v.At(0))
	require.Equal(t, []int{0, 1, 2, 3}, ids(v))
	requireBalanced(t, v)
}

func TestResizeFailure(t *testing.T) {
	v := probes(t, 2)
	require.NoError(t, v.Reserve(8))
	book.arm(3)
	require.ErrorIs(t, v.Resize(6), errInjected)
	require.Equal(t, []int{0, 1}, ids(v))
	requireBalanced(t, v)

	v = probes(t, 5)
	require.NoError(t, v.Resize(2))
	require.Equal(t, []int{0, 1}, ids(v))
	requireBalanced(t, v)
}

func TestEmplaceReallocStrongGuarantee(t *testing.T) {
	// Full vector of 4, insert at 1: call 1 builds, 2 copies the prefix,
	// 3..5 copy the suffix.
	for failAt := 1; failAt <= 5; failAt++ {
		v := probes(t, 4)
		book.arm(failAt)
		_, err := v.Emplace(1, build(42))
		require.ErrorIs(t, err, errInjected, "failAt=%d", failAt)
		require.Equal(t, []int{0, 1, 2, 3}, ids(v))
		require.Equal(t, 4, v.Capacity())
		requireBalanced(t, v)
	}

	v := probes(t, 4)
	_, err := v.Emplace(1, build(42))
	require.NoError(t, err)
	require.Equal(t, []int{0, 42, 1, 2, 3}, ids(v))
	requireBalanced(t, v)
}

func TestEmplaceAtEndFailure(t *testing.T) {
	v := probes(t, 3)
	book.arm(1)
	_, err := v.EmplaceBack(build(7))
	require.ErrorIs(t, err, errInjected)
	require.Equal(t, []int{0, 1, 2}, ids(v))
	requireBalanced(t, v)
}

func TestEmplaceShiftGuarantees(t *testing.T) {
	// Size 4 in capacity 8, insert at 1: call 1 builds the temporary,
	// call 2 moves the last element into the spare slot, calls 3 and 4
	// shift, call 5 moves the temporary into place.
	for failAt := 1; failAt <= 5; failAt++ {
		v := probes(t, 4)
		require.NoError(t, v.Reserve(8))
		book.arm(failAt)
		_, err := v.Insert(1, probe{id: 42, alive: true})
		require.ErrorIs(t, err, errInjected, "failAt=%d", failAt)
		if failAt <= 2 {
			require.Equal(t, []int{0, 1, 2, 3}, ids(v))
		} else {
			// The shift had begun: contents are unspecified, bookkeeping is not.
			require.Equal(t, 5, v.Size())
		}
		for p := range v.Values() {
			require.True(t, p.alive)
		}
		requireBalanced(t, v)
	}

	v := probes(t, 4)
	require.NoError(t, v.Reserve(8))
	_, err := v.Insert(1, probe{id: 42, alive: true})
	require.NoError(t, err)
	require.Equal(t, []int{0, 42, 1, 2, 3}, ids(v))
	requireBalanced(t, v)
}

func TestEraseFailureKeepsBookkeeping(t *testing.T) {
	v := probes(t, 4)
	book.arm(2)
	_, err := v.Erase(0)
	require.ErrorIs(t, err, errInjected)
	require.Equal(t, 4, v.Size())
	requireBalanced(t, v)
}

func TestCopyFromStrongWhenGrowing(t *testing.T) {
	dst := probes(t, 1)
	src := New[probe](Options{})
	for i := 10; i < 15; i++ {
		_, err := src.EmplaceBack(build(i))
		require.NoError(t, err)
	}
	book.arm(3)
	require.ErrorIs(t, dst.CopyFrom(src), errInjected)
	require.Equal(t, []int{0}, ids(dst))
	require.Equal(t, 1, dst.Capacity())

	require.NoError(t, dst.CopyFrom(src))
	require.Equal(t, []int{10, 11, 12, 13, 14}, ids(dst))
	require.Equal(t, 10, book.live)
	src.Release()
	requireBalanced(t, dst)
}

func TestCopyFromReusingStorage(t *testing.T) {
	dst := probes(t, 4)
	src := New[probe](Options{})
	_, err := src.EmplaceBack(build(20))
	require.NoError(t, err)

	book.dropped = nil
	require.NoError(t, dst.CopyFrom(src))
	require.Equal(t, []int{20}, ids(dst))
	require.Equal(t, []int{1, 2, 3}, book.dropped)
	require.Equal(t, 2, book.live)

	require.NoError(t, src.CopyFrom(dst))
	src.Release()
	requireBalanced(t, dst)
}

func TestCloneFailureLeavesNothingBehind(t *testing.T) {
	v := probes(t, 3)
	book.arm(2)
	_, err := v.Clone()
	require.ErrorIs(t, err, errInjected)
	requireBalanced(t, v)
}

// fileLike owns a descriptor and releases it in Destroy. It has no copy or
// move hooks, so it is copied and moved by plain assignment.
type fileLike struct{ fd int }

var openFDs = map[int]int{}

func (f *fileLike) Destroy() {
	if f.fd == 0 {
		return
	}
	openFDs[f.fd]--
	if openFDs[f.fd] == 0 {
		delete(openFDs, f.fd)
	}
}

func openFiles(t *testing.T, fds ...int) *Vector[fileLike] {
	v := New[fileLike](Options{})
	for _, fd := range fds {
		openFDs[fd]++
		require.NoError(t, v.PushBack(fileLike{fd: fd}))
	}
	return v
}

func TestPlainAssignmentDestroysOverwritten(t *testing.T) {
	clear(openFDs)
	v := openFiles(t, 1, 2, 3)
	_, err := v.Erase(0)
	require.NoError(t, err)
	require.Equal(t, []fileLike{{2}, {3}}, v.Slice())
	require.Equal(t, map[int]int{2: 1, 3: 1}, openFDs)
	v.Release()
	require.Empty(t, openFDs)

	clear(openFDs)
	dst := openFiles(t, 2)
	src := openFiles(t, 3)
	require.NoError(t, dst.CopyFrom(src))
	require.Equal(t, []fileLike{{3}}, dst.Slice())
	require.Equal(t, map[int]int{3: 1}, openFDs)

	clear(openFDs)
	v = openFiles(t, 1, 2, 3)
	require.NoError(t, v.Reserve(8))
	_, err = v.Insert(1, fileLike{fd: 4})
	openFDs[4]++
	require.NoError(t, err)
	require.Equal(t, []fileLike{{1}, {4}, {2}, {3}}, v.Slice())
	require.Equal(t, map[int]int{1: 1, 2: 1, 3: 1, 4: 1}, openFDs)
	v.Release()
	require.Empty(t, openFDs)
}
