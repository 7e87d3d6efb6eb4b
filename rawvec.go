// Package rawvec is a resizable contiguous sequence built in two layers:
// RawMemory owns a block of slots and only allocates and releases it,
// while Vector owns one RawMemory plus a live-element count and decides
// when elements are constructed and destroyed inside that block.
//
// Element types take part in the lifecycle through optional interfaces
// implemented on *T (Initializer, Copier, Mover, Destroyer, SafeMover).
// Types implementing none of them behave like plain values: copies and
// moves are assignments that cannot fail.
//
// A Vector is not safe for concurrent use.
package rawvec

import (
	"errors"

	"github.com/go-kit/log"
)

var (
	ErrAllocation  = errors.New("rawvec: allocation failed")
	ErrNotCopyable = errors.New("rawvec: element type is move-only")
)

// Options configures a Vector. The zero value is ready to use.
type Options struct {
	// Logger receives a debug line for every reallocation. Nil disables logging.
	Logger log.Logger
	// CapacityLimit caps the slot count of any block the vector requests.
	// Zero means no limit beyond what the platform can address.
	CapacityLimit int
}

// noCopy lets `go vet` flag values that must never be copied after first use.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
