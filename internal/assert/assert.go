// Package assert holds the debug-only checks of rawvec. They compile to
// nothing unless the module is built with the rawvecdebug tag.
package assert

import "fmt"

// That panics with msg when cond is false.
func That(cond bool, msg string) {
	if Enabled && !cond {
		panic("rawvec: " + msg)
	}
}

// Index panics when i is outside [0, n).
func Index(i, n int) {
	if Enabled && (i < 0 || i >= n) {
		panic(fmt.Sprintf("rawvec: index %d out of range [0:%d]", i, n))
	}
}

// Bound panics when i is outside [0, n].
func Bound(i, n int) {
	if Enabled && (i < 0 || i > n) {
		panic(fmt.Sprintf("rawvec: offset %d out of range [0:%d]", i, n))
	}
}
