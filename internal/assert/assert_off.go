//go:build !rawvecdebug
// +build !rawvecdebug

package assert

// Enabled reports whether debug assertions are compiled in.
const Enabled = false
